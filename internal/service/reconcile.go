package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/oreshkin/stockwise/internal/entity"
	"go.uber.org/zap"
)

// ReconcileResult summarizes what order completion did to the catalog.
type ReconcileResult struct {
	Order   *entity.Order `json:"order"`
	Updated int           `json:"updated"`
	Created int           `json:"created"`
	Message string        `json:"message"`
}

// CompleteOrder folds an order's lines into the inventory and then
// marks the order completed. Each line either tops up the stock of an
// existing item (matched by name, case insensitive; the catalog rate
// wins over the order rate) or creates a new item under the fallback
// category. A line that fails is logged and skipped; the order is only
// completed when at least one line went through.
func (s *OrderService) CompleteOrder(ctx context.Context, orderID string) (*ReconcileResult, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Locked() {
		return nil, ErrOrderLocked
	}

	var updated, created int
	for _, line := range order.Lines {
		// Reloaded per line so duplicate names within one order
		// accumulate instead of clobbering each other.
		inventory, err := s.items.ListAll(ctx)
		if err != nil {
			s.logger.Error("inventory load failed, line skipped",
				zap.String("order_number", order.OrderNumber),
				zap.String("item", line.ItemName),
				zap.Error(err))
			continue
		}

		match := findByName(inventory, line.ItemName)
		if match != nil {
			match.Quantity += line.Quantity
			match.RecomputeTotal()
			match.UpdatedAt = time.Now()
			if err := s.items.Update(ctx, match); err != nil {
				s.logger.Error("stock top-up failed, line skipped",
					zap.String("item", match.Name), zap.Error(err))
				continue
			}
			updated++
			continue
		}

		item := &entity.Item{
			ID:           newID(),
			Name:         line.ItemName,
			Category:     entity.FallbackCategory,
			SerialNumber: s.serials.GenerateSerialNumber(ctx, entity.FallbackCategory),
			Quantity:     line.Quantity,
			Rate:         line.Rate,
			Description:  fmt.Sprintf("Created from order %s", order.OrderNumber),
			Supplier:     order.UserEmail,
			CreatedBy:    order.UserID,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		item.RecomputeTotal()
		if err := s.items.Create(ctx, item); err != nil {
			s.logger.Error("item creation failed, line skipped",
				zap.String("item", line.ItemName), zap.Error(err))
			continue
		}
		created++
	}

	if updated+created == 0 {
		return nil, ErrNoItemsProcessed
	}

	// Re-read before the final write so notes or lines edited while
	// reconciling are not overwritten with stale state.
	fresh, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		s.logger.Warn("order re-read failed, completing from the loaded copy",
			zap.String("order_number", order.OrderNumber), zap.Error(err))
		fresh = order
	}
	normalizeTotal(fresh)
	now := time.Now()
	fresh.Status = entity.OrderStatusCompleted
	fresh.IsCompleted = true
	fresh.CompletedAt = &now
	fresh.UpdatedAt = now
	if err := s.orders.MarkCompleted(ctx, fresh); err != nil {
		return nil, err
	}

	result := &ReconcileResult{
		Order:   fresh,
		Updated: updated,
		Created: created,
		Message: fmt.Sprintf("Inventory reconciled: %d updated, %d created", updated, created),
	}
	s.logger.Info("order completed",
		zap.String("order_number", order.OrderNumber),
		zap.Int("updated", updated),
		zap.Int("created", created))
	return result, nil
}

func findByName(items []entity.Item, name string) *entity.Item {
	for i := range items {
		if strings.EqualFold(items[i].Name, name) {
			return &items[i]
		}
	}
	return nil
}
