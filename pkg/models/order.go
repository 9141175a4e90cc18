package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentMethodCard = "card"
	PaymentMethodUPI  = "upi"
	PaymentMethodCOD  = "cod"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

type Order struct {
	ID              string          `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID          string          `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Items           string          `gorm:"type:text" json:"-"` // JSON string of OrderItem snapshots
	TotalAmount     decimal.Decimal `gorm:"type:decimal(10,2)" json:"total_amount"`
	Status          string          `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	PaymentMethod   string          `gorm:"type:varchar(20)" json:"payment_method"`
	PaymentStatus   string          `gorm:"type:varchar(20);default:'pending'" json:"payment_status"`
	ShippingAddress string          `gorm:"type:text" json:"-"` // JSON string of Address
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem is a denormalized snapshot of a product at checkout time.
// Later product edits or deletions do not alter historical orders.
type OrderItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
}

type Address struct {
	FullName string `json:"full_name"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
	Phone    string `json:"phone"`
}

// ItemList parses the stored item snapshots. A malformed column yields
// an empty list rather than an error.
func (o *Order) ItemList() []OrderItem {
	var items []OrderItem
	if err := json.Unmarshal([]byte(o.Items), &items); err != nil {
		return nil
	}
	return items
}

func (o *Order) SetItems(items []OrderItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	o.Items = string(data)
	return nil
}

func (o *Order) Address() Address {
	var addr Address
	_ = json.Unmarshal([]byte(o.ShippingAddress), &addr)
	return addr
}

func (o *Order) SetAddress(addr Address) error {
	data, err := json.Marshal(addr)
	if err != nil {
		return err
	}
	o.ShippingAddress = string(data)
	return nil
}

var statusRank = map[string]int{
	OrderStatusPending:    0,
	OrderStatusProcessing: 1,
	OrderStatusShipped:    2,
	OrderStatusDelivered:  3,
}

// ValidStatus reports whether s is one of the known order statuses.
func ValidStatus(s string) bool {
	if s == OrderStatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether an order may move from one status to
// another. Statuses only move forward: pending -> processing ->
// shipped -> delivered. Cancellation is allowed from any non-terminal
// status. Delivered and cancelled orders are terminal.
func CanTransition(from, to string) bool {
	if from == OrderStatusCancelled || from == OrderStatusDelivered {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}
