package models

// CartItem is one line of a cart: a product snapshot plus a quantity.
// The unit price used for totals is the price captured on this
// snapshot, not re-fetched from the catalog.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart is the persisted per-user cart blob.
type Cart struct {
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"items"`
}
