package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Category is the explicit category registry. The ID is derived from the
// display name (lowercased, slugified) and is stable across renames of
// casing/whitespace only.
type Category struct {
	ID        string    `json:"id" gorm:"primaryKey;size:64"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	CreatedBy string    `json:"created_by" gorm:"size:64"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Denormalized, recomputed from items on read. Never persisted.
	ItemCount  int64           `json:"item_count" gorm:"-"`
	TotalValue decimal.Decimal `json:"total_value" gorm:"-"`
}

func (Category) TableName() string {
	return "categories"
}

// Slugify derives the category identifier from its display name.
// Lowercase, trimmed, internal whitespace collapsed to single dashes,
// anything outside [a-z0-9-] dropped.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	lastDash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case r == ' ' || r == '-' || r == '_':
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
