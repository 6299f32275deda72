package repository

import (
	"context"

	"github.com/oreshkin/stockwise/internal/entity"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	var cats []entity.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&cats).Error
	return cats, err
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*entity.Category, error) {
	var cat entity.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&cat).Error; err != nil {
		return nil, translateErr(err)
	}
	return &cat, nil
}

func (r *CategoryRepository) Create(ctx context.Context, cat *entity.Category) error {
	return r.db.WithContext(ctx).Create(cat).Error
}

// Delete removes the category and every item that references it, in one
// transaction. Hard delete, per the original application's semantics.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cat entity.Category
		if err := tx.Where("id = ?", id).First(&cat).Error; err != nil {
			return translateErr(err)
		}
		if err := tx.Where("category = ?", cat.Name).Delete(&entity.Item{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cat).Error
	})
}
