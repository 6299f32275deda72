package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories is the repository collection.
type Repositories struct {
	Category *CategoryRepository
	Item     *ItemRepository
	Order    *OrderRepository
	User     *UserRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Category: NewCategoryRepository(db),
		Item:     NewItemRepository(db),
		Order:    NewOrderRepository(db),
		User:     NewUserRepository(db),
	}
}

func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
