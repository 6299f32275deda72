package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oreshkin/stockwise/internal/entity"
	"github.com/oreshkin/stockwise/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// InventoryService manages inventory items.
type InventoryService struct {
	items  ItemStore
	logger *zap.Logger
}

func NewInventoryService(items ItemStore, logger *zap.Logger) *InventoryService {
	return &InventoryService{items: items, logger: logger}
}

func (s *InventoryService) List(ctx context.Context, params repository.ItemListParams) ([]entity.Item, int64, error) {
	return s.items.List(ctx, params)
}

func (s *InventoryService) Get(ctx context.Context, id string) (*entity.Item, error) {
	return s.items.FindByID(ctx, id)
}

// CreateItemRequest carries caller input for a new item. TotalPrice is
// deliberately absent: it is derived server-side, always.
type CreateItemRequest struct {
	Name        string          `json:"item_name" binding:"required"`
	Category    string          `json:"category_name" binding:"required"`
	Quantity    int64           `json:"quantity"`
	Rate        decimal.Decimal `json:"rate_per_item"`
	Description string          `json:"description"`
	Supplier    string          `json:"supplier"`
	ImageURL    string          `json:"image_url"`
}

func (s *InventoryService) Create(ctx context.Context, userID string, req *CreateItemRequest) (*entity.Item, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: item name is required", ErrValidation)
	}
	if strings.TrimSpace(req.Category) == "" {
		return nil, fmt.Errorf("%w: category is required", ErrValidation)
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("%w: quantity must not be negative", ErrValidation)
	}
	if req.Rate.IsNegative() {
		return nil, fmt.Errorf("%w: rate must not be negative", ErrValidation)
	}

	item := &entity.Item{
		ID:           newID(),
		Name:         strings.TrimSpace(req.Name),
		Category:     strings.TrimSpace(req.Category),
		SerialNumber: s.GenerateSerialNumber(ctx, strings.TrimSpace(req.Category)),
		Quantity:     req.Quantity,
		Rate:         req.Rate,
		Description:  req.Description,
		Supplier:     req.Supplier,
		ImageURL:     req.ImageURL,
		CreatedBy:    userID,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	item.RecomputeTotal()

	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItemRequest uses pointer fields so absent keys leave the stored
// value alone.
type UpdateItemRequest struct {
	Name        *string          `json:"item_name"`
	Quantity    *int64           `json:"quantity"`
	Rate        *decimal.Decimal `json:"rate_per_item"`
	Description *string          `json:"description"`
	Supplier    *string          `json:"supplier"`
	ImageURL    *string          `json:"image_url"`
}

func (s *InventoryService) Update(ctx context.Context, id string, req *UpdateItemRequest) (*entity.Item, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("%w: item name is required", ErrValidation)
		}
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Quantity != nil {
		if *req.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity must not be negative", ErrValidation)
		}
		item.Quantity = *req.Quantity
	}
	if req.Rate != nil {
		if req.Rate.IsNegative() {
			return nil, fmt.Errorf("%w: rate must not be negative", ErrValidation)
		}
		item.Rate = *req.Rate
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Supplier != nil {
		item.Supplier = *req.Supplier
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}

	item.RecomputeTotal()
	item.UpdatedAt = time.Now()

	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *InventoryService) Delete(ctx context.Context, id string) error {
	return s.items.Delete(ctx, id)
}

// ExportExcel dumps the full catalog into a spreadsheet.
func (s *InventoryService) ExportExcel(ctx context.Context) (*excelize.File, error) {
	items, err := s.items.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Inventory"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Serial Number", "Item Name", "Category", "Quantity", "Rate", "Total Price", "Supplier", "Last Modified"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, item := range items {
		values := []interface{}{
			item.SerialNumber,
			item.Name,
			item.Category,
			item.Quantity,
			item.Rate.InexactFloat64(),
			item.TotalPrice.InexactFloat64(),
			item.Supplier,
			item.UpdatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	return f, nil
}
