package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/catalogo/storefront-client/internal/core/domain"
	"github.com/catalogo/storefront-client/internal/core/ports"
)

func newCategoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category"},
		Short:   "Browse and manage categories",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all categories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cs, err := a.cats.List(cmd.Context())
				if err != nil {
					return err
				}
				if a.asJSON {
					return a.printJSON(cs)
				}
				rows := make([][]string, 0, len(cs))
				for _, c := range cs {
					rows = append(rows, []string{
						strconv.FormatInt(c.ID, 10), c.Name,
						strconv.Itoa(c.ProductCount), yesNo(c.Active),
					})
				}
				return table(a.out, []string{"ID", "NAME", "PRODUCTS", "ACTIVE"}, rows)
			},
		},
		&cobra.Command{
			Use:   "get ID",
			Short: "Show one category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				c, err := a.cats.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				return a.printCategory(c)
			},
		},
		newCategoryCreateCmd(a),
		newCategoryUpdateCmd(a),
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := a.cats.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Deleted category %d\n", id)
				return nil
			},
		},
	)
	return cmd
}

func categoryFlags(f *pflag.FlagSet, in *ports.CategoryInput) {
	f.StringVar(&in.Name, "name", "", "category name")
	f.StringVar(&in.Description, "description", "", "category description")
	f.BoolVar(&in.Active, "active", true, "whether the category is listed")
}

func newCategoryCreateCmd(a *app) *cobra.Command {
	var in ports.CategoryInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := a.cats.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.printCategory(c)
		},
	}
	categoryFlags(cmd.Flags(), &in)
	return cmd
}

func newCategoryUpdateCmd(a *app) *cobra.Command {
	var in ports.CategoryInput
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cur, err := a.cats.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			merged := ports.CategoryInput{Name: cur.Name, Description: cur.Description, Active: cur.Active}
			f := cmd.Flags()
			if f.Changed("name") {
				merged.Name = in.Name
			}
			if f.Changed("description") {
				merged.Description = in.Description
			}
			if f.Changed("active") {
				merged.Active = in.Active
			}
			c, err := a.cats.Update(cmd.Context(), id, merged)
			if err != nil {
				return err
			}
			return a.printCategory(c)
		},
	}
	categoryFlags(cmd.Flags(), &in)
	return cmd
}

func (a *app) printCategory(c *domain.Category) error {
	if a.asJSON {
		return a.printJSON(c)
	}
	fmt.Fprintf(a.out, "#%d %s (%d products, active: %s)\n", c.ID, c.Name, c.ProductCount, yesNo(c.Active))
	if c.Description != "" {
		fmt.Fprintf(a.out, "  %s\n", c.Description)
	}
	if c.ImageURL != "" {
		fmt.Fprintf(a.out, "  image: %s\n", c.ImageURL)
	}
	return nil
}
