// Package analytics aggregates order history into the storefront's
// dashboard and analytics reports. Aggregate is a pure function: for
// a fixed input set and a fixed now, repeated calls produce identical
// output.
package analytics

import (
	"sort"
	"time"

	"github.com/example/shophub/pkg/models"
	"github.com/shopspring/decimal"
)

type Options struct {
	RecentCount int // most-recent orders to include
	TopCount    int // top-selling products to include
	MonthWindow int // trailing calendar months to bucket
}

// DashboardOptions is the summary view used by the admin dashboard.
var DashboardOptions = Options{RecentCount: 5, TopCount: 5, MonthWindow: 6}

// AnalyticsOptions is the detailed view used by the analytics page.
var AnalyticsOptions = Options{RecentCount: 10, TopCount: 10, MonthWindow: 12}

type ProductSales struct {
	Product models.Product `json:"product"`
	Units   int            `json:"units"`
}

type MonthlySales struct {
	Month string          `json:"month"` // e.g. "Jan 2026"
	Sales decimal.Decimal `json:"sales"`
}

type Report struct {
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalOrders    int             `json:"total_orders"`
	TotalProducts  int             `json:"total_products"`
	TotalCustomers int             `json:"total_customers"`
	RecentOrders   []models.Order  `json:"recent_orders"`
	TopProducts    []ProductSales  `json:"top_products"`
	SalesByMonth   []MonthlySales  `json:"sales_by_month"`
}

// Aggregate computes a report over the full order history and the
// current catalog. Orders must be in insertion order; recent orders
// are the last RecentCount reversed. Revenue trusts the stored order
// totals rather than re-deriving from line items.
func Aggregate(orders []models.Order, products []models.Product, users []models.User, now time.Time, opts Options) Report {
	report := Report{
		TotalSales:    decimal.Zero,
		TotalOrders:   len(orders),
		TotalProducts: len(products),
	}

	for _, o := range orders {
		report.TotalSales = report.TotalSales.Add(o.TotalAmount)
	}

	for _, u := range users {
		if u.Role == models.RoleCustomer {
			report.TotalCustomers++
		}
	}

	report.RecentOrders = recentOrders(orders, opts.RecentCount)
	report.TopProducts = topProducts(orders, products, opts.TopCount)
	report.SalesByMonth = salesByMonth(orders, now, opts.MonthWindow)

	return report
}

func recentOrders(orders []models.Order, n int) []models.Order {
	if n > len(orders) {
		n = len(orders)
	}
	recent := make([]models.Order, 0, n)
	for i := len(orders) - 1; i >= len(orders)-n; i-- {
		recent = append(recent, orders[i])
	}
	return recent
}

// topProducts accumulates units sold per product id across every item
// of every order, joins against the catalog and keeps the n best
// sellers. Ids that no longer resolve to a catalog product (deleted
// products) are silently excluded. Ties keep first-encounter order.
func topProducts(orders []models.Order, products []models.Product, n int) []ProductSales {
	units := make(map[string]int)
	var seen []string
	for _, o := range orders {
		for _, item := range o.ItemList() {
			if _, ok := units[item.ProductID]; !ok {
				seen = append(seen, item.ProductID)
			}
			units[item.ProductID] += item.Quantity
		}
	}

	catalog := make(map[string]models.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}

	top := make([]ProductSales, 0, len(seen))
	for _, id := range seen {
		product, ok := catalog[id]
		if !ok {
			continue
		}
		top = append(top, ProductSales{Product: product, Units: units[id]})
	}

	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Units > top[j].Units
	})

	if n < len(top) {
		top = top[:n]
	}
	return top
}

// salesByMonth buckets order totals into the trailing window of
// calendar months ending at now's month, inclusive. The result always
// has exactly `window` entries in chronological order; months without
// orders report zero.
func salesByMonth(orders []models.Order, now time.Time, window int) []MonthlySales {
	buckets := make([]MonthlySales, 0, window)
	for i := window - 1; i >= 0; i-- {
		month := time.Date(now.Year(), now.Month()-time.Month(i), 1, 0, 0, 0, 0, now.Location())
		sales := decimal.Zero
		for _, o := range orders {
			if o.CreatedAt.Year() == month.Year() && o.CreatedAt.Month() == month.Month() {
				sales = sales.Add(o.TotalAmount)
			}
		}
		buckets = append(buckets, MonthlySales{Month: month.Format("Jan 2006"), Sales: sales})
	}
	return buckets
}
