package service

import (
	"context"
	"errors"
	"strings"

	"github.com/oreshkin/stockwise/internal/entity"
	"github.com/oreshkin/stockwise/internal/repository"
	"github.com/shopspring/decimal"
)

// In-memory stores backing the service tests.

type fakeItemStore struct {
	items      []entity.Item
	failList   bool
	failCreate bool
	failUpdate bool
}

func (f *fakeItemStore) List(ctx context.Context, params repository.ItemListParams) ([]entity.Item, int64, error) {
	var out []entity.Item
	for _, it := range f.items {
		if params.Category != "" && it.Category != params.Category {
			continue
		}
		if params.Keyword != "" && !strings.Contains(strings.ToLower(it.Name), strings.ToLower(params.Keyword)) {
			continue
		}
		out = append(out, it)
	}
	return out, int64(len(out)), nil
}

func (f *fakeItemStore) ListAll(ctx context.Context) ([]entity.Item, error) {
	if f.failList {
		return nil, errors.New("inventory unavailable")
	}
	out := make([]entity.Item, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeItemStore) ListSerialNumbers(ctx context.Context, category string) ([]string, error) {
	var out []string
	for _, it := range f.items {
		if it.Category == category {
			out = append(out, it.SerialNumber)
		}
	}
	return out, nil
}

func (f *fakeItemStore) FindByID(ctx context.Context, id string) (*entity.Item, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			it := f.items[i]
			return &it, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeItemStore) Create(ctx context.Context, item *entity.Item) error {
	if f.failCreate {
		return errors.New("insert failed")
	}
	f.items = append(f.items, *item)
	return nil
}

func (f *fakeItemStore) Update(ctx context.Context, item *entity.Item) error {
	if f.failUpdate {
		return errors.New("update failed")
	}
	for i := range f.items {
		if f.items[i].ID == item.ID {
			f.items[i] = *item
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeItemStore) Delete(ctx context.Context, id string) error {
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeItemStore) AggregateByCategory(ctx context.Context) (map[string]repository.CategoryAggregate, error) {
	aggs := make(map[string]repository.CategoryAggregate)
	for _, it := range f.items {
		agg := aggs[it.Category]
		agg.Category = it.Category
		agg.Count++
		agg.Value = agg.Value.Add(it.TotalPrice)
		aggs[it.Category] = agg
	}
	return aggs, nil
}

func (f *fakeItemStore) find(name string) *entity.Item {
	for i := range f.items {
		if strings.EqualFold(f.items[i].Name, name) {
			return &f.items[i]
		}
	}
	return nil
}

type fakeOrderStore struct {
	orders       []entity.Order
	failMark     bool
	failReread   bool
	rereadCalled bool
}

func (f *fakeOrderStore) List(ctx context.Context, params repository.OrderListParams) ([]entity.Order, int64, error) {
	var out []entity.Order
	for _, o := range f.orders {
		if params.UserID != "" && o.UserID != params.UserID {
			continue
		}
		if params.Status != "" && o.Status != params.Status {
			continue
		}
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (f *fakeOrderStore) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	for i := range f.orders {
		if f.orders[i].ID == id {
			if f.failReread && f.rereadCalled {
				return nil, errors.New("connection reset")
			}
			f.rereadCalled = true
			o := f.orders[i]
			return &o, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeOrderStore) Create(ctx context.Context, order *entity.Order) error {
	f.orders = append(f.orders, *order)
	return nil
}

func (f *fakeOrderStore) UpdateStatus(ctx context.Context, id, status string) error {
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeOrderStore) UpdateNotes(ctx context.Context, id, notes string) error {
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Notes = notes
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeOrderStore) ReplaceLines(ctx context.Context, orderID string, lines []entity.OrderLine, total decimal.Decimal) error {
	for i := range f.orders {
		if f.orders[i].ID == orderID {
			for j := range lines {
				lines[j].OrderID = orderID
			}
			f.orders[i].Lines = lines
			f.orders[i].Total = total
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeOrderStore) MarkCompleted(ctx context.Context, order *entity.Order) error {
	if f.failMark {
		return errors.New("update failed")
	}
	for i := range f.orders {
		if f.orders[i].ID == order.ID {
			f.orders[i] = *order
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeOrderStore) get(id string) *entity.Order {
	for i := range f.orders {
		if f.orders[i].ID == id {
			return &f.orders[i]
		}
	}
	return nil
}

type fakeCategoryStore struct {
	categories []entity.Category
}

func (f *fakeCategoryStore) List(ctx context.Context) ([]entity.Category, error) {
	out := make([]entity.Category, len(f.categories))
	copy(out, f.categories)
	return out, nil
}

func (f *fakeCategoryStore) FindByID(ctx context.Context, id string) (*entity.Category, error) {
	for i := range f.categories {
		if f.categories[i].ID == id {
			c := f.categories[i]
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeCategoryStore) Create(ctx context.Context, cat *entity.Category) error {
	f.categories = append(f.categories, *cat)
	return nil
}

func (f *fakeCategoryStore) Delete(ctx context.Context, id string) error {
	for i := range f.categories {
		if f.categories[i].ID == id {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type fakeUserStore struct {
	users []entity.User
}

func (f *fakeUserStore) List(ctx context.Context) ([]entity.User, error) {
	out := make([]entity.User, len(f.users))
	copy(out, f.users)
	return out, nil
}

func (f *fakeUserStore) FindByID(ctx context.Context, id string) (*entity.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) FindByVKID(ctx context.Context, vkID int64) (*entity.User, error) {
	for i := range f.users {
		if f.users[i].VKID == vkID {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) Create(ctx context.Context, user *entity.User) error {
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserStore) Update(ctx context.Context, user *entity.User) error {
	for i := range f.users {
		if f.users[i].ID == user.ID {
			f.users[i] = *user
			return nil
		}
	}
	return repository.ErrNotFound
}
