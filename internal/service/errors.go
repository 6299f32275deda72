package service

import "errors"

var (
	// ErrValidation marks caller input rejected before any write.
	ErrValidation = errors.New("validation failed")

	// ErrOrderLocked is returned for any mutation of a completed or
	// cancelled order.
	ErrOrderLocked = errors.New("order cannot be changed after completion or cancellation")

	// ErrNoItemsProcessed is returned when reconciliation processed zero
	// line items; the order is left untouched.
	ErrNoItemsProcessed = errors.New("no inventory items were processed")

	// ErrCategoryExists is returned when the derived category identifier
	// collides with an existing registry entry.
	ErrCategoryExists = errors.New("category already exists")
)
