// Package cart persists per-user procurement carts in redis.
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/oreshkin/stockwise/internal/entity"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Carts expire after a month of inactivity.
const cartTTL = 30 * 24 * time.Hour

// Store keeps one cart per user under cart:<user id>, rewritten as a
// whole after every mutation.
type Store struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewStore(rdb *redis.Client, logger *zap.Logger) *Store {
	return &Store{rdb: rdb, logger: logger}
}

func (s *Store) key(userID string) string {
	return "cart:" + userID
}

// Get loads the user's cart. A missing or unreadable cart comes back
// empty rather than failing the request.
func (s *Store) Get(ctx context.Context, userID string) (*entity.Cart, error) {
	raw, err := s.rdb.Get(ctx, s.key(userID)).Result()
	if err == redis.Nil {
		return &entity.Cart{Items: []entity.CartLine{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var cart entity.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		s.logger.Warn("discarding corrupt cart", zap.String("user_id", userID), zap.Error(err))
		return &entity.Cart{Items: []entity.CartLine{}}, nil
	}
	if cart.Items == nil {
		cart.Items = []entity.CartLine{}
	}
	cart.Recompute()
	return &cart, nil
}

func (s *Store) save(ctx context.Context, userID string, cart *entity.Cart) error {
	cart.Recompute()
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(userID), raw, cartTTL).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Add merges a line into the cart. Quantities for an already-present
// item accumulate; when the available stock is known the quantity is
// clamped to it and a warning message is returned.
func (s *Store) Add(ctx context.Context, userID string, line entity.CartLine) (*entity.Cart, string, error) {
	if line.ItemID == "" || line.Quantity <= 0 {
		return nil, "", fmt.Errorf("cart line needs an item id and a positive quantity")
	}

	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	var warning string
	merged := false
	for i := range cart.Items {
		if cart.Items[i].ItemID != line.ItemID {
			continue
		}
		cart.Items[i].Quantity += line.Quantity
		if line.Available > 0 {
			cart.Items[i].Available = line.Available
		}
		if avail := cart.Items[i].Available; avail > 0 && cart.Items[i].Quantity > avail {
			cart.Items[i].Quantity = avail
			warning = fmt.Sprintf("Only %d of %q in stock", avail, cart.Items[i].ItemName)
		}
		merged = true
		break
	}
	if !merged {
		if line.Available > 0 && line.Quantity > line.Available {
			line.Quantity = line.Available
			warning = fmt.Sprintf("Only %d of %q in stock", line.Available, line.ItemName)
		}
		cart.Items = append(cart.Items, line)
	}

	if err := s.save(ctx, userID, cart); err != nil {
		return nil, "", err
	}
	return cart, warning, nil
}

// UpdateQuantity sets an item's quantity. Zero or negative removes the
// line; quantities above known stock are clamped with a warning.
func (s *Store) UpdateQuantity(ctx context.Context, userID, itemID string, quantity int64) (*entity.Cart, string, error) {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	var warning string
	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ItemID != itemID {
			kept = append(kept, item)
			continue
		}
		if quantity <= 0 {
			continue
		}
		if item.Available > 0 && quantity > item.Available {
			quantity = item.Available
			warning = fmt.Sprintf("Only %d of %q in stock", item.Available, item.ItemName)
		}
		item.Quantity = quantity
		kept = append(kept, item)
	}
	cart.Items = kept

	if err := s.save(ctx, userID, cart); err != nil {
		return nil, "", err
	}
	return cart, warning, nil
}

// Remove drops an item from the cart. Removing an absent item is not
// an error.
func (s *Store) Remove(ctx context.Context, userID, itemID string) (*entity.Cart, error) {
	cart, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ItemID != itemID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept

	if err := s.save(ctx, userID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear deletes the whole cart, typically after checkout.
func (s *Store) Clear(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
