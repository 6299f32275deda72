package service

import (
	"context"
	"testing"

	"github.com/oreshkin/stockwise/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategorySlugsID(t *testing.T) {
	svc := NewCategoryService(&fakeCategoryStore{}, &fakeItemStore{})

	cat, err := svc.Create(context.Background(), "vk_100", "  Office Supplies  ")
	require.NoError(t, err)
	assert.Equal(t, "office-supplies", cat.ID)
	assert.Equal(t, "Office Supplies", cat.Name)
	assert.Equal(t, "vk_100", cat.CreatedBy)
}

func TestCreateCategoryDuplicateRejected(t *testing.T) {
	cats := &fakeCategoryStore{categories: []entity.Category{{ID: "office-supplies", Name: "Office Supplies"}}}
	svc := NewCategoryService(cats, &fakeItemStore{})

	_, err := svc.Create(context.Background(), "vk_100", "Office   Supplies")
	assert.ErrorIs(t, err, ErrCategoryExists)
}

func TestCreateCategoryValidation(t *testing.T) {
	svc := NewCategoryService(&fakeCategoryStore{}, &fakeItemStore{})

	_, err := svc.Create(context.Background(), "vk_100", "   ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(context.Background(), "vk_100", "!!!")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListCategoriesCarriesAggregates(t *testing.T) {
	cats := &fakeCategoryStore{categories: []entity.Category{
		{ID: "electronics", Name: "Electronics"},
		{ID: "empty", Name: "Empty"},
	}}
	items := &fakeItemStore{items: []entity.Item{
		{ID: "a", Name: "Keyboard", Category: "Electronics", TotalPrice: decimal.NewFromInt(100)},
		{ID: "b", Name: "Mouse", Category: "Electronics", TotalPrice: decimal.NewFromInt(40)},
	}}
	svc := NewCategoryService(cats, items)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, int64(2), list[0].ItemCount)
	assert.True(t, list[0].TotalValue.Equal(decimal.NewFromInt(140)), "value %s", list[0].TotalValue)
	assert.Equal(t, int64(0), list[1].ItemCount)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Office Supplies":  "office-supplies",
		"  spaced   out  ": "spaced-out",
		"under_scored":     "under-scored",
		"Mixed--Dashes":    "mixed-dashes",
		"Ünïcode Néon":     "ncode-non",
	}
	for in, want := range cases {
		assert.Equal(t, want, entity.Slugify(in), "input %q", in)
	}
}
