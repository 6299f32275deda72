package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/oreshkin/stockwise/internal/config"
	"github.com/oreshkin/stockwise/internal/entity"
	"github.com/oreshkin/stockwise/internal/repository"
	"github.com/oreshkin/stockwise/internal/vk"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Store interfaces consumed by the services. Declared here so the
// business rules stay decoupled from gorm and testable against
// in-memory fakes; *repository.XxxRepository satisfies each.

type CategoryStore interface {
	List(ctx context.Context) ([]entity.Category, error)
	FindByID(ctx context.Context, id string) (*entity.Category, error)
	Create(ctx context.Context, cat *entity.Category) error
	Delete(ctx context.Context, id string) error
}

type ItemStore interface {
	List(ctx context.Context, params repository.ItemListParams) ([]entity.Item, int64, error)
	ListAll(ctx context.Context) ([]entity.Item, error)
	ListSerialNumbers(ctx context.Context, category string) ([]string, error)
	FindByID(ctx context.Context, id string) (*entity.Item, error)
	Create(ctx context.Context, item *entity.Item) error
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id string) error
	AggregateByCategory(ctx context.Context) (map[string]repository.CategoryAggregate, error)
}

type OrderStore interface {
	List(ctx context.Context, params repository.OrderListParams) ([]entity.Order, int64, error)
	FindByID(ctx context.Context, id string) (*entity.Order, error)
	Create(ctx context.Context, order *entity.Order) error
	UpdateStatus(ctx context.Context, id, status string) error
	UpdateNotes(ctx context.Context, id, notes string) error
	ReplaceLines(ctx context.Context, orderID string, lines []entity.OrderLine, total decimal.Decimal) error
	MarkCompleted(ctx context.Context, order *entity.Order) error
}

type UserStore interface {
	List(ctx context.Context) ([]entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByVKID(ctx context.Context, vkID int64) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
}

// Services is the service collection.
type Services struct {
	Category  *CategoryService
	Inventory *InventoryService
	Order     *OrderService
	User      *UserService
	Auth      *AuthService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, rdb *redis.Client, logger *zap.Logger) *Services {
	var verifier TokenVerifier
	if cfg.VK.ServiceKey != "" {
		verifier = vk.NewClient(cfg.VK.ServiceKey)
	}

	inventorySvc := NewInventoryService(repos.Item, logger)
	return &Services{
		Category:  NewCategoryService(repos.Category, repos.Item),
		Inventory: inventorySvc,
		Order:     NewOrderService(repos.Order, repos.Item, inventorySvc, logger),
		User:      NewUserService(repos.User),
		Auth:      NewAuthService(repos.User, rdb, verifier, cfg, logger),
	}
}

func newID() string {
	return uuid.New().String()[:32]
}
