package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/catalogo/storefront-client/internal/core/domain"
	"github.com/catalogo/storefront-client/internal/infrastructure/queue"
	"github.com/catalogo/storefront-client/pkg/logger"
)

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "report",
		Aliases: []string{"reports"},
		Short:   "Generate and download reports",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List the reports the server offers",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				infos, err := a.reports.Available(cmd.Context())
				if err != nil {
					return err
				}
				if a.asJSON {
					return a.printJSON(infos)
				}
				rows := make([][]string, 0, len(infos))
				for _, in := range infos {
					rows = append(rows, []string{in.Kind, in.Format, in.Name})
				}
				return table(a.out, []string{"KIND", "FORMAT", "NAME"}, rows)
			},
		},
		newReportGenerateCmd(a),
	)
	return cmd
}

func newReportGenerateCmd(a *app) *cobra.Command {
	var (
		all bool
		dir string
	)
	cmd := &cobra.Command{
		Use:   "generate KIND [KIND...]",
		Short: "Generate reports and save them locally",
		Long:  fmt.Sprintf("Generate reports and save them locally. Kinds: %v.", domain.ReportKinds()),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := make([]domain.ReportKind, 0, len(args))
			if all {
				kinds = domain.ReportKinds()
			}
			for _, arg := range args {
				k := domain.ReportKind(arg)
				if _, err := k.Path(); err != nil {
					return err
				}
				kinds = append(kinds, k)
			}
			if len(kinds) == 0 {
				return fmt.Errorf("%w: name at least one report kind or pass --all", domain.ErrValidation)
			}
			if dir == "" {
				dir = a.cfg.Reports.Dir
			}

			var (
				mu     sync.Mutex
				failed int
			)
			d := queue.NewDispatcher(len(kinds), logger.For("reports"))
			d.Start(cmd.Context())
			for _, k := range kinds {
				err := d.Enqueue(queue.Task{
					Key: string(k),
					Run: func(ctx context.Context) error {
						saved, err := a.generate(ctx, k, dir)
						mu.Lock()
						defer mu.Unlock()
						if err != nil {
							failed++
							fmt.Fprintf(a.out, "%s: %s\n", k, domain.UserMessage(err))
							return err
						}
						fmt.Fprintf(a.out, "%s: saved %s (%s)\n", k, saved.Path, humanize.Bytes(uint64(saved.Size)))
						return nil
					},
				})
				if err != nil {
					break
				}
			}
			d.Close()

			if err := cmd.Context().Err(); err != nil {
				return domain.ErrCanceled
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d reports failed", failed, len(kinds))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "generate every report")
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (defaults to REPORT_DIR)")
	return cmd
}

func (a *app) generate(ctx context.Context, kind domain.ReportKind, dir string) (*domain.SavedReport, error) {
	r, err := a.reports.Generate(ctx, kind)
	if err != nil {
		return nil, err
	}
	return a.reports.Save(r, dir)
}
