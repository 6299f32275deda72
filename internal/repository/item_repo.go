package repository

import (
	"context"

	"github.com/oreshkin/stockwise/internal/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

type ItemListParams struct {
	Category string
	Keyword  string
	Page     int
	Size     int
}

func (r *ItemRepository) List(ctx context.Context, params ItemListParams) ([]entity.Item, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Item{})
	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("name ILIKE ? OR serial_number ILIKE ?", kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var items []entity.Item
	err := query.Order("updated_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&items).Error
	return items, total, err
}

// ListAll fetches the entire catalog. Unbounded by design: the
// reconciliation procedure matches order lines by name against the full
// inventory set. Acceptable for small-to-medium catalogs only.
func (r *ItemRepository) ListAll(ctx context.Context) ([]entity.Item, error) {
	var items []entity.Item
	err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&items).Error
	return items, err
}

func (r *ItemRepository) ListByCategory(ctx context.Context, category string) ([]entity.Item, error) {
	var items []entity.Item
	err := r.db.WithContext(ctx).Where("category = ?", category).
		Order("updated_at DESC").Find(&items).Error
	return items, err
}

// ListSerialNumbers returns the serial numbers already assigned within a
// category, for collision checks during serial generation.
func (r *ItemRepository) ListSerialNumbers(ctx context.Context, category string) ([]string, error) {
	var serials []string
	err := r.db.WithContext(ctx).Model(&entity.Item{}).
		Where("category = ? AND serial_number <> ''", category).
		Pluck("serial_number", &serials).Error
	return serials, err
}

func (r *ItemRepository) FindByID(ctx context.Context, id string) (*entity.Item, error) {
	var item entity.Item
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, translateErr(err)
	}
	return &item, nil
}

func (r *ItemRepository) Create(ctx context.Context, item *entity.Item) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *ItemRepository) Update(ctx context.Context, item *entity.Item) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *ItemRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.Item{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CategoryAggregate is the per-category item count and stock value.
type CategoryAggregate struct {
	Category string
	Count    int64
	Value    decimal.Decimal
}

// AggregateByCategory computes item counts and total stock value grouped
// by category, for the category registry's denormalized fields.
func (r *ItemRepository) AggregateByCategory(ctx context.Context) (map[string]CategoryAggregate, error) {
	var rows []CategoryAggregate
	err := r.db.WithContext(ctx).Model(&entity.Item{}).
		Select("category, COUNT(*) AS count, COALESCE(SUM(total_price), 0) AS value").
		Group("category").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]CategoryAggregate, len(rows))
	for _, row := range rows {
		out[row.Category] = row
	}
	return out, nil
}
