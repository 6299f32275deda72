package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/oreshkin/stockwise/internal/entity"
	"github.com/oreshkin/stockwise/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SerialGenerator mints category-scoped serial numbers for inventory
// records created during reconciliation.
type SerialGenerator interface {
	GenerateSerialNumber(ctx context.Context, category string) string
}

// OrderService manages procurement requests and the completion
// (inventory reconciliation) workflow.
type OrderService struct {
	orders  OrderStore
	items   ItemStore
	serials SerialGenerator
	logger  *zap.Logger
}

func NewOrderService(orders OrderStore, items ItemStore, serials SerialGenerator, logger *zap.Logger) *OrderService {
	return &OrderService{orders: orders, items: items, serials: serials, logger: logger}
}

// GenerateOrderNumber builds a human-readable order identifier:
// ORD-<epoch ms>-<3-digit random>. Not re-checked against the store;
// the millisecond+random collision probability is accepted for this
// workload.
func GenerateOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%03d", time.Now().UnixMilli(), rand.Intn(1000))
}

// Checkout turns the cart lines into a pending order. Line totals and
// the aggregate total are recomputed server-side regardless of what the
// cart carried.
func (s *OrderService) Checkout(ctx context.Context, userID, userEmail string, lines []entity.CartLine, notes string) (*entity.Order, error) {
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: no items selected for procurement", ErrValidation)
	}

	order := &entity.Order{
		ID:          newID(),
		OrderNumber: GenerateOrderNumber(),
		UserID:      userID,
		UserEmail:   userEmail,
		Status:      entity.OrderStatusPending,
		Notes:       notes,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	for i, line := range lines {
		if strings.TrimSpace(line.ItemName) == "" || line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: line %d has no name or a non-positive quantity", ErrValidation, i+1)
		}
		total := line.Rate.Mul(decimal.NewFromInt(line.Quantity))
		order.Lines = append(order.Lines, entity.OrderLine{
			ID:           newID(),
			OrderID:      order.ID,
			ItemName:     line.ItemName,
			SerialNumber: line.SerialNumber,
			CategoryName: line.CategoryName,
			Quantity:     line.Quantity,
			Rate:         line.Rate,
			TotalPrice:   total,
			SortOrder:    i + 1,
		})
	}
	order.Total = order.LineTotal()

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("procurement request submitted",
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", userID),
		zap.Int("lines", len(order.Lines)))
	return order, nil
}

func (s *OrderService) List(ctx context.Context, params repository.OrderListParams) ([]entity.Order, int64, error) {
	orders, total, err := s.orders.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		normalizeTotal(&orders[i])
	}
	return orders, total, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*entity.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	normalizeTotal(order)
	return order, nil
}

// normalizeTotal recomputes a zero/missing stored total from the lines.
func normalizeTotal(order *entity.Order) {
	if order.Total.IsZero() {
		order.Total = order.LineTotal()
	}
}

var validStatuses = map[string]bool{
	entity.OrderStatusPending:    true,
	entity.OrderStatusProcessing: true,
	entity.OrderStatusCompleted:  true,
	entity.OrderStatusCancelled:  true,
}

// ChangeStatus moves an order through its lifecycle. Completed and
// cancelled orders reject any further change. A move to completed runs
// the full reconciliation procedure and returns its result.
func (s *OrderService) ChangeStatus(ctx context.Context, id, status string) (*ReconcileResult, error) {
	if !validStatuses[status] {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Locked() {
		return nil, ErrOrderLocked
	}

	if status == entity.OrderStatusCompleted {
		return s.CompleteOrder(ctx, id)
	}

	if err := s.orders.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	s.logger.Info("order status changed",
		zap.String("order_number", order.OrderNumber),
		zap.String("status", status))
	return nil, nil
}

func (s *OrderService) UpdateNotes(ctx context.Context, id, notes string) error {
	if _, err := s.orders.FindByID(ctx, id); err != nil {
		return err
	}
	return s.orders.UpdateNotes(ctx, id, notes)
}

// EditLineRequest is one line in a superadmin order edit.
type EditLineRequest struct {
	ItemName     string          `json:"item_name" binding:"required"`
	SerialNumber string          `json:"serial_number"`
	CategoryName string          `json:"category_name"`
	Quantity     int64           `json:"quantity" binding:"required"`
	Rate         decimal.Decimal `json:"rate_per_item"`
}

// EditOrderRequest replaces the line set of a still-open order.
type EditOrderRequest struct {
	Lines []EditLineRequest `json:"items" binding:"required"`
}

// Edit replaces an order's lines, recomputes its total, and writes the
// edited rates back onto matching inventory items (name match, case
// insensitive) without touching their stock quantity.
func (s *OrderService) Edit(ctx context.Context, id string, req *EditOrderRequest) (*entity.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Locked() {
		return nil, ErrOrderLocked
	}
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: an order needs at least one line", ErrValidation)
	}

	lines := make([]entity.OrderLine, 0, len(req.Lines))
	total := decimal.Zero
	for i, l := range req.Lines {
		if strings.TrimSpace(l.ItemName) == "" || l.Quantity <= 0 || !l.Rate.IsPositive() {
			return nil, fmt.Errorf("%w: line %d needs a name, a positive quantity and a positive rate", ErrValidation, i+1)
		}
		lineTotal := l.Rate.Mul(decimal.NewFromInt(l.Quantity))
		lines = append(lines, entity.OrderLine{
			ID:           newID(),
			ItemName:     strings.TrimSpace(l.ItemName),
			SerialNumber: l.SerialNumber,
			CategoryName: l.CategoryName,
			Quantity:     l.Quantity,
			Rate:         l.Rate,
			TotalPrice:   lineTotal,
			SortOrder:    i + 1,
		})
		total = total.Add(lineTotal)
	}

	if err := s.orders.ReplaceLines(ctx, id, lines, total); err != nil {
		return nil, err
	}

	// Propagate edited rates into the catalog; stock stays untouched.
	if all, err := s.items.ListAll(ctx); err != nil {
		s.logger.Warn("rate write-back skipped, inventory load failed",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
	} else {
		for _, line := range lines {
			for idx := range all {
				if !strings.EqualFold(all[idx].Name, line.ItemName) {
					continue
				}
				item := all[idx]
				item.Rate = line.Rate
				item.RecomputeTotal()
				item.UpdatedAt = time.Now()
				if err := s.items.Update(ctx, &item); err != nil {
					s.logger.Warn("rate write-back failed",
						zap.String("item", item.Name), zap.Error(err))
				}
				break
			}
		}
	}

	return s.Get(ctx, id)
}
