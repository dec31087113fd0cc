package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/catalogo/storefront-client/internal/core/domain"
	"github.com/catalogo/storefront-client/internal/core/service"
	"github.com/catalogo/storefront-client/internal/infrastructure/queue"
	"github.com/catalogo/storefront-client/pkg/logger"
)

type uploadJob struct {
	id   int64
	path string
	size int64
}

// parseUploadArgs reads ID=PATH pairs and validates every file up front.
func parseUploadArgs(args []string) ([]uploadJob, error) {
	jobs := make([]uploadJob, 0, len(args))
	for _, arg := range args {
		rawID, path, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("%w: expected ID=PATH, got %q", domain.ErrValidation, arg)
		}
		id, err := parseID(rawID)
		if err != nil {
			return nil, err
		}
		img, err := service.ValidateImage(path)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, uploadJob{id: id, path: path, size: img.Size})
	}
	return jobs, nil
}

func newUploadCmd(a *app) *cobra.Command {
	var workers int
	cmd := &cobra.Command{
		Use:   "upload product|category ID=PATH [ID=PATH...]",
		Short: "Upload images for products or categories",
		Long: "Upload images for products or categories. Files are checked locally first " +
			"(existing, at most 10MB, at least 50x50). Uploads for the same entity run in order.",
		Args:      cobra.MinimumNArgs(2),
		ValidArgs: []string{"product", "category"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			var upload func(ctx context.Context, id int64, path string) (string, error)
			switch target {
			case "product":
				upload = func(ctx context.Context, id int64, path string) (string, error) {
					p, err := a.images.UploadProductImage(ctx, id, path)
					if err != nil {
						return "", err
					}
					return p.ImageURL, nil
				}
			case "category":
				upload = func(ctx context.Context, id int64, path string) (string, error) {
					c, err := a.images.UploadCategoryImage(ctx, id, path)
					if err != nil {
						return "", err
					}
					return c.ImageURL, nil
				}
			default:
				return fmt.Errorf("%w: upload target must be product or category", domain.ErrValidation)
			}

			jobs, err := parseUploadArgs(args[1:])
			if err != nil {
				return err
			}

			var (
				mu     sync.Mutex
				failed int
			)
			d := queue.NewDispatcher(workers, logger.For("upload"))
			d.Start(cmd.Context())
			for _, j := range jobs {
				err := d.Enqueue(queue.Task{
					Key: fmt.Sprintf("%s-%d", target, j.id),
					Run: func(ctx context.Context) error {
						url, err := upload(ctx, j.id, j.path)
						mu.Lock()
						defer mu.Unlock()
						if err != nil {
							failed++
							fmt.Fprintf(a.out, "%s %d: %s: %s\n", target, j.id, j.path, domain.UserMessage(err))
							return err
						}
						fmt.Fprintf(a.out, "%s %d: uploaded %s (%s) -> %s\n", target, j.id, j.path, humanize.Bytes(uint64(j.size)), url)
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
				return fmt.Errorf("%d of %d uploads failed", failed, len(jobs))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 2, "concurrent uploads")
	return cmd
}
