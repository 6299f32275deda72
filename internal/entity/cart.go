package entity

import "github.com/shopspring/decimal"

// CartLine is one pending entry in a user's procurement cart. Available
// carries the known stock ceiling at the time the item was added; zero
// means unknown (no clamping).
type CartLine struct {
	ItemID       string          `json:"id"`
	ItemName     string          `json:"item_name"`
	SerialNumber string          `json:"serial_number"`
	CategoryName string          `json:"category_name"`
	Quantity     int64           `json:"quantity"`
	Rate         decimal.Decimal `json:"rate_per_item"`
	Available    int64           `json:"available_quantity,omitempty"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// Cart is the persisted cart document for one user.
type Cart struct {
	Items []CartLine      `json:"items"`
	Total decimal.Decimal `json:"total"`
}

// Recompute refreshes per-line and aggregate totals.
func (c *Cart) Recompute() {
	total := decimal.Zero
	for i := range c.Items {
		c.Items[i].TotalPrice = c.Items[i].Rate.Mul(decimal.NewFromInt(c.Items[i].Quantity))
		total = total.Add(c.Items[i].TotalPrice)
	}
	c.Total = total
}
