package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oreshkin/stockwise/internal/entity"
	"github.com/oreshkin/stockwise/internal/repository"
)

// CategoryService manages the category registry. Categories are explicit
// rows, not inferred from item scans; the denormalized item count and
// stock value are recomputed from the items table on every read.
type CategoryService struct {
	categories CategoryStore
	items      ItemStore
}

func NewCategoryService(categories CategoryStore, items ItemStore) *CategoryService {
	return &CategoryService{categories: categories, items: items}
}

// List returns all categories with fresh item counts and totals.
func (s *CategoryService) List(ctx context.Context) ([]entity.Category, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}

	aggs, err := s.items.AggregateByCategory(ctx)
	if err != nil {
		return nil, err
	}
	for i := range cats {
		if agg, ok := aggs[cats[i].Name]; ok {
			cats[i].ItemCount = agg.Count
			cats[i].TotalValue = agg.Value
		}
	}
	return cats, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*entity.Category, error) {
	return s.categories.FindByID(ctx, id)
}

// Create registers a category under its slugified identifier.
func (s *CategoryService) Create(ctx context.Context, userID, name string) (*entity.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	id := entity.Slugify(name)
	if id == "" {
		return nil, fmt.Errorf("%w: category name must contain letters or digits", ErrValidation)
	}

	if _, err := s.categories.FindByID(ctx, id); err == nil {
		return nil, ErrCategoryExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	cat := &entity.Category{
		ID:        id,
		Name:      name,
		CreatedBy: userID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := s.categories.Create(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// Delete removes the category and all of its items.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	return s.categories.Delete(ctx, id)
}
