package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/catalogo/storefront-client/internal/core/domain"
	"github.com/catalogo/storefront-client/internal/core/ports"
)

func newProductsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "Browse and manage products",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List all products",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ps, err := a.products.List(cmd.Context())
				if err != nil {
					return err
				}
				return a.printProducts(ps)
			},
		},
		&cobra.Command{
			Use:   "get ID",
			Short: "Show one product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				p, err := a.products.Get(cmd.Context(), id)
				if err != nil {
					return err
				}
				return a.printProduct(p)
			},
		},
		&cobra.Command{
			Use:   "search NAME",
			Short: "Search products by name",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var name string
				if len(args) == 1 {
					name = args[0]
				}
				ps, err := a.products.Search(cmd.Context(), name)
				if err != nil {
					return err
				}
				return a.printProducts(ps)
			},
		},
		&cobra.Command{
			Use:   "by-category CATEGORY_ID",
			Short: "List the products of a category",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				ps, err := a.products.ByCategory(cmd.Context(), id)
				if err != nil {
					return err
				}
				return a.printProducts(ps)
			},
		},
		newProductCreateCmd(a),
		newProductUpdateCmd(a),
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				if err := a.products.Delete(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Deleted product %d\n", id)
				return nil
			},
		},
	)
	return cmd
}

func productFlags(f *pflag.FlagSet, in *ports.ProductInput) {
	f.StringVar(&in.Name, "name", "", "product name")
	f.StringVar(&in.Description, "description", "", "product description")
	f.Float64Var(&in.Price, "price", 0, "unit price")
	f.IntVar(&in.Stock, "stock", 0, "units in stock")
	f.Int64Var(&in.CategoryID, "category", 0, "category id")
	f.BoolVar(&in.Active, "active", true, "whether the product is listed")
}

func newProductCreateCmd(a *app) *cobra.Command {
	var in ports.ProductInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.products.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			return a.printProduct(p)
		},
	}
	productFlags(cmd.Flags(), &in)
	return cmd
}

// The update command starts from the current product so only the flags
// given on the command line change.
func newProductUpdateCmd(a *app) *cobra.Command {
	var in ports.ProductInput
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Update a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			cur, err := a.products.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			merged := ports.ProductInput{
				Name:        cur.Name,
				Description: cur.Description,
				Price:       cur.Price,
				Stock:       cur.Stock,
				CategoryID:  cur.CategoryID,
				Active:      cur.Active,
			}
			f := cmd.Flags()
			if f.Changed("name") {
				merged.Name = in.Name
			}
			if f.Changed("description") {
				merged.Description = in.Description
			}
			if f.Changed("price") {
				merged.Price = in.Price
			}
			if f.Changed("stock") {
				merged.Stock = in.Stock
			}
			if f.Changed("category") {
				merged.CategoryID = in.CategoryID
			}
			if f.Changed("active") {
				merged.Active = in.Active
			}
			p, err := a.products.Update(cmd.Context(), id, merged)
			if err != nil {
				return err
			}
			return a.printProduct(p)
		},
	}
	productFlags(cmd.Flags(), &in)
	return cmd
}

func (a *app) printProducts(ps []domain.Product) error {
	if a.asJSON {
		return a.printJSON(ps)
	}
	if len(ps) == 0 {
		fmt.Fprintln(a.out, "No products")
		return nil
	}
	return table(a.out, productHeader, productRows(ps))
}

func (a *app) printProduct(p *domain.Product) error {
	if a.asJSON {
		return a.printJSON(p)
	}
	fmt.Fprintf(a.out, "#%d %s\n", p.ID, p.Name)
	if p.Description != "" {
		fmt.Fprintf(a.out, "  %s\n", p.Description)
	}
	fmt.Fprintf(a.out, "  price: %.2f  stock: %d  active: %s\n", p.Price, p.Stock, yesNo(p.Active))
	fmt.Fprintf(a.out, "  category: %d %s\n", p.CategoryID, p.CategoryName)
	if p.ImageURL != "" {
		fmt.Fprintf(a.out, "  image: %s\n", p.ImageURL)
	}
	return nil
}
