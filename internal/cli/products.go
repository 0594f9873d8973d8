package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/99minutos/ims-console/internal/core/service"
)

func parseIDArg(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// overlay copies each changed flag into the matching form field.
func overlay(flags *pflag.FlagSet, fields map[string]*string) {
	for name, field := range fields {
		if f := flags.Lookup(name); f != nil && f.Changed {
			*field = f.Value.String()
		}
	}
}

func productFlags(flags *pflag.FlagSet) {
	flags.String("name", "", "product name")
	flags.String("description", "", "product description")
	flags.String("price", "", "unit price, greater than zero")
	flags.String("image-url", "", "product image URL")
	flags.String("stock", "", "initial stock quantity")
	flags.String("reorder-level", "", "restock threshold")
}

func productFields(form *service.ProductForm) map[string]*string {
	return map[string]*string{
		"name":          &form.Name,
		"description":   &form.Description,
		"price":         &form.Price,
		"image-url":     &form.ImageURL,
		"stock":         &form.InitialStockQuantity,
		"reorder-level": &form.ReorderLevel,
	}
}

func newProductsCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"product"},
		Short:   "List and manage products",
	}

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List products with stock status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := rt.app.Views.Products
			if err := v.Mount(cmd.Context()); err != nil {
				return rt.check(v, err)
			}
			v.SetSearch(search)
			return rt.finish(v, productRows(v.Filtered()))
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "filter by name or description")

	create := &cobra.Command{
		Use:   "create",
		Short: "Add a product and its stock record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := rt.app.Views.Products
			if err := v.Mount(cmd.Context()); err != nil {
				return rt.check(v, err)
			}
			v.OpenCreate()
			var form service.ProductForm
			overlay(cmd.Flags(), productFields(&form))
			if err := v.Submit(cmd.Context(), form); err != nil {
				return rt.check(v, err)
			}
			return rt.finish(v, productRows(v.Filtered()))
		},
	}
	productFlags(create.Flags())

	update := &cobra.Command{
		Use:   "update ID",
		Short: "Change a product; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			v := rt.app.Views.Products
			if err := v.Mount(cmd.Context()); err != nil {
				return rt.check(v, err)
			}
			if err := v.OpenEdit(id); err != nil {
				return fmt.Errorf("product %d: %w", id, err)
			}
			form := v.State().Form
			overlay(cmd.Flags(), productFields(&form))
			if err := v.Submit(cmd.Context(), form); err != nil {
				return rt.check(v, err)
			}
			return rt.finish(v, productRows(v.Filtered()))
		},
	}
	productFlags(update.Flags())

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Remove a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			v := rt.app.Views.Products
			if err := v.Delete(cmd.Context(), id); err != nil {
				return rt.check(v, err)
			}
			return rt.finish(v, nil)
		},
	}

	cmd.AddCommand(list, create, update, del)
	return cmd
}
