package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/99minutos/ims-console/internal/core/service"
)

func supplierFlags(flags *pflag.FlagSet) {
	flags.String("name", "", "supplier name")
	flags.String("contact", "", "contact information")
	flags.String("products", "", "comma separated ids of the products supplied")
}

func supplierFields(form *service.SupplierForm) map[string]*string {
	return map[string]*string{
		"name":     &form.Name,
		"contact":  &form.ContactInfo,
		"products": &form.ProvidedProductIDs,
	}
}

func newSuppliersCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "suppliers",
		Aliases: []string{"supplier"},
		Short:   "List and manage suppliers",
	}

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List suppliers and the products they supply",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := rt.app.Views.Suppliers
			if err := v.Mount(cmd.Context()); err != nil {
				return rt.check(v, err)
			}
			v.SetSearch(search)
			return rt.finish(v, supplierRows(v.Filtered()))
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "filter by name or supplied product")

	create := &cobra.Command{
		Use:   "create",
		Short: "Add a supplier",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := rt.app.Views.Suppliers
			if err := v.Mount(cmd.Context()); err != nil {
				return rt.check(v, err)
			}
			v.OpenCreate()
			var form service.SupplierForm
			overlay(cmd.Flags(), supplierFields(&form))
			if err := v.Submit(cmd.Context(), form); err != nil {
				return rt.check(v, err)
			}
			return rt.finish(v, supplierRows(v.Filtered()))
		},
	}
	supplierFlags(create.Flags())

	update := &cobra.Command{
		Use:   "update ID",
		Short: "Change a supplier; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			v := rt.app.Views.Suppliers
			if err := v.Mount(cmd.Context()); err != nil {
				return rt.check(v, err)
			}
			if err := v.OpenEdit(id); err != nil {
				return fmt.Errorf("supplier %d: %w", id, err)
			}
			form := v.State().Form
			overlay(cmd.Flags(), supplierFields(&form))
			if err := v.Submit(cmd.Context(), form); err != nil {
				return rt.check(v, err)
			}
			return rt.finish(v, supplierRows(v.Filtered()))
		},
	}
	supplierFlags(update.Flags())

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Remove a supplier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			v := rt.app.Views.Suppliers
			if err := v.Delete(cmd.Context(), id); err != nil {
				return rt.check(v, err)
			}
			return rt.finish(v, nil)
		},
	}

	cmd.AddCommand(list, create, update, del)
	return cmd
}
