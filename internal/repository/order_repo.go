package repository

import (
	"context"
	"time"

	"github.com/oreshkin/stockwise/internal/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

type OrderListParams struct {
	UserID string
	Status string
	Page   int
	Size   int
}

func (r *OrderRepository) List(ctx context.Context, params OrderListParams) ([]entity.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.Order{})
	if params.UserID != "" {
		query = query.Where("user_id = ?", params.UserID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var orders []entity.Order
	err := query.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&orders).Error
	return orders, total, err
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	var order entity.Order
	err := r.db.WithContext(ctx).Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &order, nil
}

func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

// UpdateStatus writes only the status and updated_at columns.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res := r.db.WithContext(ctx).Model(&entity.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *OrderRepository) UpdateNotes(ctx context.Context, id, notes string) error {
	res := r.db.WithContext(ctx).Model(&entity.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{"notes": notes, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceLines swaps the order's line set and total in one transaction.
func (r *OrderRepository) ReplaceLines(ctx context.Context, orderID string, lines []entity.OrderLine, total decimal.Decimal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&entity.OrderLine{}).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].OrderID = orderID
			lines[i].SortOrder = i + 1
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}
		return tx.Model(&entity.Order{}).Where("id = ?", orderID).
			Updates(map[string]interface{}{"total": total, "updated_at": time.Now()}).Error
	})
}

// MarkCompleted persists an order that has been moved to its terminal
// completed state, lines included.
func (r *OrderRepository) MarkCompleted(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(order).Error
}
