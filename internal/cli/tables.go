package cli

import (
	"strconv"
	"strings"

	"github.com/99minutos/ims-console/internal/core/domain"
	"github.com/99minutos/ims-console/internal/output"
)

type productRows []domain.Product

func (r productRows) Table() output.Table {
	t := output.Table{Headers: []string{"ID", "NAME", "PRICE", "STOCK", "REORDER", "STATUS"}}
	for _, p := range r {
		stock, reorder := "-", "-"
		if p.Stock != nil {
			stock, reorder = strconv.Itoa(p.Stock.Quantity), strconv.Itoa(p.Stock.ReorderLevel)
		}
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(p.ID, 10), p.Name, p.Price.StringFixed(2), stock, reorder, p.StockStatus,
		})
	}
	return t
}

type orderRows []domain.Order

func (r orderRows) Table() output.Table {
	t := output.Table{Headers: []string{"ID", "CUSTOMER", "PRODUCT", "QTY", "DATE", "STATUS", "TOTAL"}}
	for _, o := range r {
		t.Rows = append(t.Rows, []string{
			strconv.FormatInt(o.OrderID, 10),
			strconv.FormatInt(o.CustomerID, 10),
			o.ProductName,
			strconv.Itoa(o.Quantity),
			o.OrderDate,
			o.Status,
			o.TotalPrice.StringFixed(2),
		})
	}
	return t
}

type supplierRows []domain.Supplier

func (r supplierRows) Table() output.Table {
	t := output.Table{Headers: []string{"ID", "NAME", "CONTACT", "PRODUCTS"}}
	for _, s := range r {
		names := make([]string, 0, len(s.SuppliedProducts))
		for _, p := range s.SuppliedProducts {
			names = append(names, p.Name)
		}
		products := strings.Join(names, ", ")
		if products == "" {
			products = domain.FormatProductIDs(s.ProductIDs())
		}
		t.Rows = append(t.Rows, []string{strconv.FormatInt(s.SupplierID, 10), s.Name, s.ContactInfo, products})
	}
	return t
}

// reportResult renders whichever section of a report is set.
type reportResult domain.Report

func (r reportResult) Table() output.Table {
	switch r.Type {
	case domain.ReportInventory:
		t := output.Table{Headers: []string{"ID", "PRODUCT", "INITIAL", "ADDED", "REMOVED", "FINAL", "REORDER", "LOW"}}
		for _, row := range r.Inventory {
			low := ""
			if row.IsLowStock {
				low = "yes"
			}
			t.Rows = append(t.Rows, []string{
				strconv.FormatInt(row.ProductID, 10), row.ProductName,
				strconv.Itoa(row.InitialStock), strconv.Itoa(row.StockAdded), strconv.Itoa(row.StockRemoved),
				strconv.Itoa(row.FinalStock), strconv.Itoa(row.ReorderLevel), low,
			})
		}
		return t
	case domain.ReportSupplier:
		t := output.Table{Headers: []string{"ID", "NAME", "CONTACT", "PRODUCTS SUPPLIED"}}
		for _, row := range r.Suppliers {
			t.Rows = append(t.Rows, []string{
				strconv.FormatInt(row.SupplierID, 10), row.Name, row.ContactInfo, strings.Join(row.ProductsSupplied, ", "),
			})
		}
		return t
	case domain.ReportOrder:
		t := output.Table{Headers: []string{"METRIC", "VALUE"}}
		if r.Orders == nil || r.Orders.TotalOrders == 0 {
			return t
		}
		o := r.Orders
		t.Rows = [][]string{
			{"Total orders", strconv.FormatInt(o.TotalOrders, 10)},
			{"Pending", strconv.FormatInt(o.PendingOrders, 10)},
			{"Shipped", strconv.FormatInt(o.ShippedOrders, 10)},
			{"Delivered", strconv.FormatInt(o.DeliveredOrders, 10)},
			{"Revenue", o.TotalRevenue.StringFixed(2)},
		}
		for _, p := range o.TopSellingProducts {
			t.Rows = append(t.Rows, []string{
				"Top: " + p.ProductName,
				strconv.FormatInt(p.UnitsSold, 10) + " units, " + p.TotalRevenue.StringFixed(2),
			})
		}
		return t
	}
	return output.Table{}
}
