package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status values. Completed and cancelled are terminal: once an
// order reaches either state its lines and status may no longer change.
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// Order is a procurement request submitted from the cart.
type Order struct {
	ID          string          `json:"id" gorm:"primaryKey;size:32"`
	OrderNumber string          `json:"order_number" gorm:"size:32;not null;uniqueIndex"`
	UserID      string          `json:"user_id" gorm:"size:64;not null;index"`
	UserEmail   string          `json:"user_email" gorm:"size:200"`
	Status      string          `json:"status" gorm:"size:16;not null;default:pending;index"`
	Total       decimal.Decimal `json:"total" gorm:"type:decimal(14,2);not null;default:0"`
	IsCompleted bool            `json:"is_completed" gorm:"not null;default:false"`
	CompletedAt *time.Time      `json:"completed_at"`
	Notes       string          `json:"notes" gorm:"type:text"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	Lines []OrderLine `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (Order) TableName() string {
	return "orders"
}

// Locked reports whether the order is in a terminal state.
func (o *Order) Locked() bool {
	return o.IsCompleted || o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}

// LineTotal recomputes the aggregate total from the lines.
func (o *Order) LineTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Rate.Mul(decimal.NewFromInt(l.Quantity)))
	}
	return total
}

// OrderLine is one entry within an order. It references an inventory
// item by name, not by foreign key; the referenced item may not exist
// yet (reconciliation creates it on completion).
type OrderLine struct {
	ID           string          `json:"id" gorm:"primaryKey;size:32"`
	OrderID      string          `json:"order_id" gorm:"size:32;not null;index"`
	ItemName     string          `json:"item_name" gorm:"size:200;not null"`
	SerialNumber string          `json:"serial_number" gorm:"size:32"`
	CategoryName string          `json:"category_name" gorm:"size:128"`
	Quantity     int64           `json:"quantity" gorm:"not null"`
	Rate         decimal.Decimal `json:"rate_per_item" gorm:"type:decimal(12,2);not null"`
	TotalPrice   decimal.Decimal `json:"total_price" gorm:"type:decimal(14,2);not null"`
	SortOrder    int             `json:"sort_order" gorm:"not null;default:0"`
}

func (OrderLine) TableName() string {
	return "order_lines"
}
