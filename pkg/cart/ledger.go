// Package cart implements the in-memory cart ledger: a list of
// product/quantity lines with merge-on-add semantics and decimal
// totals. All operations are total functions over the current lines.
package cart

import (
	"github.com/example/shophub/pkg/models"
	"github.com/shopspring/decimal"
)

type Ledger struct {
	items []models.CartItem
}

// NewLedger builds a ledger over existing lines, e.g. a cart blob
// loaded from storage. The slice is copied.
func NewLedger(items []models.CartItem) *Ledger {
	l := &Ledger{items: make([]models.CartItem, len(items))}
	copy(l.items, items)
	return l
}

// Add merges quantity into the existing line for the product, or
// appends a new line when none exists. At most one line per product id.
func (l *Ledger) Add(product models.Product, quantity int) {
	for i := range l.items {
		if l.items[i].Product.ID == product.ID {
			l.items[i].Quantity += quantity
			return
		}
	}
	l.items = append(l.items, models.CartItem{Product: product, Quantity: quantity})
}

// SetQuantity sets the line quantity exactly. A quantity of zero or
// less removes the line.
func (l *Ledger) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		l.Remove(productID)
		return
	}
	for i := range l.items {
		if l.items[i].Product.ID == productID {
			l.items[i].Quantity = quantity
			return
		}
	}
}

// Remove deletes the line for the product. No-op when absent.
func (l *Ledger) Remove(productID string) {
	for i := range l.items {
		if l.items[i].Product.ID == productID {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return
		}
	}
}

// Clear empties all lines.
func (l *Ledger) Clear() {
	l.items = nil
}

// TotalItems returns the sum of all line quantities.
func (l *Ledger) TotalItems() int {
	total := 0
	for _, item := range l.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns the sum of unit price times quantity over all
// lines, using the price captured on each line's product snapshot.
func (l *Ledger) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, item := range l.items {
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Items returns a copy of the current lines.
func (l *Ledger) Items() []models.CartItem {
	items := make([]models.CartItem, len(l.items))
	copy(items, l.items)
	return items
}

// Empty reports whether the ledger has no lines.
func (l *Ledger) Empty() bool {
	return len(l.items) == 0
}
