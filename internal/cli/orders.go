package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/99minutos/ims-console/internal/core/domain"
)

func newOrdersCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"order"},
		Short:   "List, create and advance orders",
	}

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List orders with product names and totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := rt.app.Views.Orders
			if err := v.Mount(cmd.Context()); err != nil {
				return rt.check(v, err)
			}
			v.SetSearch(search)
			return rt.finish(v, orderRows(v.Filtered()))
		},
	}
	list.Flags().StringVarP(&search, "search", "s", "", "filter by product name or status")

	create := &cobra.Command{
		Use:   "create",
		Short: "Place an order",
		RunE: func(cmd *cobra.Command, _ []string) error {
			v := rt.app.Views.Orders
			if err := v.Mount(cmd.Context()); err != nil {
				return rt.check(v, err)
			}
			v.OpenCreate()
			form := v.State().Form
			overlay(cmd.Flags(), map[string]*string{
				"customer": &form.CustomerID,
				"product":  &form.ProductID,
				"quantity": &form.Quantity,
				"date":     &form.OrderDate,
				"status":   &form.Status,
			})
			if err := v.Submit(cmd.Context(), form); err != nil {
				return rt.check(v, err)
			}
			return rt.finish(v, orderRows(v.Filtered()))
		},
	}
	create.Flags().String("customer", "", "customer id")
	create.Flags().String("product", "", "product id")
	create.Flags().String("quantity", "", "units ordered")
	create.Flags().String("date", "", "order date, YYYY-MM-DD (default today)")
	create.Flags().String("status", "", "Pending, Shipped or Completed (default Pending)")

	status := &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Set the status of an order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			st, err := domain.ParseOrderStatus(args[1])
			if err != nil {
				return err
			}
			v := rt.app.Views.Orders
			if err := v.UpdateStatus(cmd.Context(), id, st); err != nil {
				return rt.check(v, err)
			}
			return rt.finish(v, nil)
		},
	}

	advance := &cobra.Command{
		Use:   "advance ID",
		Short: "Move an order to its next status (Pending, Shipped, Completed)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			v := rt.app.Views.Orders
			if err := v.Mount(cmd.Context()); err != nil {
				return rt.check(v, err)
			}
			if err := v.Advance(cmd.Context(), id); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					return fmt.Errorf("order %d: %w", id, err)
				}
				return rt.check(v, err)
			}
			return rt.finish(v, nil)
		},
	}

	cancel := &cobra.Command{
		Use:   "cancel ID",
		Short: "Cancel an order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			v := rt.app.Views.Orders
			if err := v.Cancel(cmd.Context(), id); err != nil {
				return rt.check(v, err)
			}
			return rt.finish(v, nil)
		},
	}

	cmd.AddCommand(list, create, status, advance, cancel)
	return cmd
}
