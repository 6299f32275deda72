package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// FallbackCategory receives inventory records created during order
// reconciliation when a line item matches nothing in the catalog.
const FallbackCategory = "Procurement"

// Item is a single inventory record. TotalPrice is derived and is
// recomputed from Quantity and Rate on every write path; a stored value
// is never trusted from caller input.
type Item struct {
	ID           string          `json:"id" gorm:"primaryKey;size:32"`
	Name         string          `json:"item_name" gorm:"size:200;not null;index"`
	Category     string          `json:"category_name" gorm:"size:128;not null;index"`
	SerialNumber string          `json:"serial_number" gorm:"size:32;index"`
	Quantity     int64           `json:"quantity" gorm:"not null;default:0"`
	Rate         decimal.Decimal `json:"rate_per_item" gorm:"type:decimal(12,2);not null;default:0"`
	TotalPrice   decimal.Decimal `json:"total_price" gorm:"type:decimal(14,2);not null;default:0"`
	Description  string          `json:"description" gorm:"type:text"`
	Supplier     string          `json:"supplier" gorm:"size:200"`
	ImageURL     string          `json:"image_url" gorm:"size:512"`
	CreatedBy    string          `json:"created_by" gorm:"size:64"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"date_modified"`
}

func (Item) TableName() string {
	return "items"
}

// RecomputeTotal refreshes the derived total from quantity and rate.
func (i *Item) RecomputeTotal() {
	i.TotalPrice = i.Rate.Mul(decimal.NewFromInt(i.Quantity))
}
