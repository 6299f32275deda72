package handler

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/oreshkin/stockwise/internal/cart"
	"github.com/oreshkin/stockwise/internal/config"
	"github.com/oreshkin/stockwise/internal/entity"
	"github.com/oreshkin/stockwise/internal/middleware"
	"github.com/oreshkin/stockwise/internal/repository"
	"github.com/oreshkin/stockwise/internal/service"
	"github.com/oreshkin/stockwise/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// In-memory stores backing the HTTP tests.

type memItemStore struct{ items []entity.Item }

func (m *memItemStore) List(ctx context.Context, params repository.ItemListParams) ([]entity.Item, int64, error) {
	var out []entity.Item
	for _, it := range m.items {
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

func (m *memItemStore) ListAll(ctx context.Context) ([]entity.Item, error) {
	out := make([]entity.Item, len(m.items))
	copy(out, m.items)
	return out, nil
}

func (m *memItemStore) ListSerialNumbers(ctx context.Context, category string) ([]string, error) {
	var out []string
	for _, it := range m.items {
		if it.Category == category {
			out = append(out, it.SerialNumber)
		}
	}
	return out, nil
}

func (m *memItemStore) FindByID(ctx context.Context, id string) (*entity.Item, error) {
	for i := range m.items {
		if m.items[i].ID == id {
			it := m.items[i]
			return &it, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memItemStore) Create(ctx context.Context, item *entity.Item) error {
	m.items = append(m.items, *item)
	return nil
}

func (m *memItemStore) Update(ctx context.Context, item *entity.Item) error {
	for i := range m.items {
		if m.items[i].ID == item.ID {
			m.items[i] = *item
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memItemStore) Delete(ctx context.Context, id string) error {
	for i := range m.items {
		if m.items[i].ID == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memItemStore) AggregateByCategory(ctx context.Context) (map[string]repository.CategoryAggregate, error) {
	aggs := make(map[string]repository.CategoryAggregate)
	for _, it := range m.items {
		agg := aggs[it.Category]
		agg.Category = it.Category
		agg.Count++
		agg.Value = agg.Value.Add(it.TotalPrice)
		aggs[it.Category] = agg
	}
	return aggs, nil
}

type memOrderStore struct{ orders []entity.Order }

func (m *memOrderStore) List(ctx context.Context, params repository.OrderListParams) ([]entity.Order, int64, error) {
	var out []entity.Order
	for _, o := range m.orders {
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

func (m *memOrderStore) FindByID(ctx context.Context, id string) (*entity.Order, error) {
	for i := range m.orders {
		if m.orders[i].ID == id {
			o := m.orders[i]
			return &o, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memOrderStore) Create(ctx context.Context, order *entity.Order) error {
	m.orders = append(m.orders, *order)
	return nil
}

func (m *memOrderStore) UpdateStatus(ctx context.Context, id, status string) error {
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders[i].Status = status
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memOrderStore) UpdateNotes(ctx context.Context, id, notes string) error {
	for i := range m.orders {
		if m.orders[i].ID == id {
			m.orders[i].Notes = notes
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memOrderStore) ReplaceLines(ctx context.Context, orderID string, lines []entity.OrderLine, total decimal.Decimal) error {
	for i := range m.orders {
		if m.orders[i].ID == orderID {
			for j := range lines {
				lines[j].OrderID = orderID
			}
			m.orders[i].Lines = lines
			m.orders[i].Total = total
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memOrderStore) MarkCompleted(ctx context.Context, order *entity.Order) error {
	for i := range m.orders {
		if m.orders[i].ID == order.ID {
			m.orders[i] = *order
			return nil
		}
	}
	return repository.ErrNotFound
}

type memCategoryStore struct{ categories []entity.Category }

func (m *memCategoryStore) List(ctx context.Context) ([]entity.Category, error) {
	out := make([]entity.Category, len(m.categories))
	copy(out, m.categories)
	return out, nil
}

func (m *memCategoryStore) FindByID(ctx context.Context, id string) (*entity.Category, error) {
	for i := range m.categories {
		if m.categories[i].ID == id {
			c := m.categories[i]
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memCategoryStore) Create(ctx context.Context, cat *entity.Category) error {
	m.categories = append(m.categories, *cat)
	return nil
}

func (m *memCategoryStore) Delete(ctx context.Context, id string) error {
	for i := range m.categories {
		if m.categories[i].ID == id {
			m.categories = append(m.categories[:i], m.categories[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

type memUserStore struct{ users []entity.User }

func (m *memUserStore) List(ctx context.Context) ([]entity.User, error) {
	out := make([]entity.User, len(m.users))
	copy(out, m.users)
	return out, nil
}

func (m *memUserStore) FindByID(ctx context.Context, id string) (*entity.User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUserStore) FindByVKID(ctx context.Context, vkID int64) (*entity.User, error) {
	for i := range m.users {
		if m.users[i].VKID == vkID {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memUserStore) Create(ctx context.Context, user *entity.User) error {
	m.users = append(m.users, *user)
	return nil
}

func (m *memUserStore) Update(ctx context.Context, user *entity.User) error {
	for i := range m.users {
		if m.users[i].ID == user.ID {
			m.users[i] = *user
			return nil
		}
	}
	return repository.ErrNotFound
}

// testEnv wires the full HTTP surface over in-memory stores.
type testEnv struct {
	Router *gin.Engine
	Items  *memItemStore
	Orders *memOrderStore
	Cats   *memCategoryStore
	Users  *memUserStore
	Carts  *cart.Store
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	cfg := &config.Config{}
	cfg.JWT.Secret = testutil.JWTSecret
	cfg.JWT.AccessTokenExpire = 2 * time.Hour
	cfg.JWT.RefreshTokenExpire = 168 * time.Hour
	cfg.JWT.Issuer = "stockwise"

	logger := zap.NewNop()
	items := &memItemStore{}
	orders := &memOrderStore{}
	cats := &memCategoryStore{}
	users := &memUserStore{}

	inventorySvc := service.NewInventoryService(items, logger)
	svc := &service.Services{
		Category:  service.NewCategoryService(cats, items),
		Inventory: inventorySvc,
		Order:     service.NewOrderService(orders, items, inventorySvc, logger),
		User:      service.NewUserService(users),
		Auth:      service.NewAuthService(users, rdb, nil, cfg, logger),
	}

	carts := cart.NewStore(rdb, logger)
	h := NewHandlers(svc, carts, nil, cfg)

	r := testutil.SetupRouter()
	r.GET("/api/health", h.Auth.Health)
	r.POST("/api/auth/vk", h.Auth.LoginVK)
	r.POST("/api/auth/refresh", h.Auth.Refresh)

	api := testutil.AuthGroup(r, "/api/v1")
	api.GET("/categories", h.Category.List)
	api.POST("/categories", h.Category.Create)
	api.DELETE("/categories/:id", middleware.RequireRole(entity.RoleSuperAdmin), h.Category.Delete)
	api.GET("/items", h.Inventory.List)
	api.GET("/items/export", h.Inventory.Export)
	api.GET("/items/:id", h.Inventory.Get)
	api.POST("/items", h.Inventory.Create)
	api.PUT("/items/:id", h.Inventory.Update)
	api.DELETE("/items/:id", middleware.RequireRole(entity.RoleSuperAdmin), h.Inventory.Delete)
	api.GET("/cart", h.Cart.Get)
	api.POST("/cart/items", h.Cart.Add)
	api.PUT("/cart/items/:id", h.Cart.UpdateQuantity)
	api.DELETE("/cart/items/:id", h.Cart.Remove)
	api.POST("/orders", h.Order.Checkout)
	api.GET("/orders", h.Order.List)
	api.GET("/orders/:id", h.Order.Get)
	api.PATCH("/orders/:id/status", middleware.RequireRole(entity.RoleSuperAdmin), h.Order.ChangeStatus)
	api.POST("/orders/:id/complete", middleware.RequireRole(entity.RoleSuperAdmin), h.Order.Complete)
	api.PUT("/orders/:id", middleware.RequireRole(entity.RoleSuperAdmin), h.Order.Edit)
	api.GET("/users/me", h.User.Me)
	api.PUT("/users/me", h.User.UpdateMe)

	return &testEnv{Router: r, Items: items, Orders: orders, Cats: cats, Users: users, Carts: carts}
}
