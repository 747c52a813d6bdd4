package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"revive-orders/internal/core/cache"
	"revive-orders/internal/features/cart/domain"
)

// cartTTL evicts abandoned carts. Every write refreshes it.
const cartTTL = 7 * 24 * time.Hour

// RedisCartRepository implements ports.CartRepository on the cache port,
// one JSON document per buyer.
type RedisCartRepository struct {
	cache cache.Cache
}

// NewRedisCartRepository creates a new RedisCartRepository.
func NewRedisCartRepository(c cache.Cache) *RedisCartRepository {
	return &RedisCartRepository{
		cache: c,
	}
}

func cartKey(buyerEmail string) string {
	return "cart:" + buyerEmail
}

// Get retrieves the buyer's cart; nil when the buyer has none.
func (r *RedisCartRepository) Get(ctx context.Context, buyerEmail string) (*domain.Cart, error) {
	data, err := r.cache.Get(ctx, cartKey(buyerEmail))
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart for %s: %w", buyerEmail, err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart for %s: %w", buyerEmail, err)
	}
	return &cart, nil
}

// Save stores the cart, refreshing its TTL.
func (r *RedisCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to marshal cart for %s: %w", cart.BuyerEmail, err)
	}

	if err := r.cache.Set(ctx, cartKey(cart.BuyerEmail), data, cartTTL); err != nil {
		return fmt.Errorf("failed to save cart for %s: %w", cart.BuyerEmail, err)
	}
	return nil
}

// Delete removes the buyer's cart.
func (r *RedisCartRepository) Delete(ctx context.Context, buyerEmail string) error {
	if err := r.cache.Delete(ctx, cartKey(buyerEmail)); err != nil {
		return fmt.Errorf("failed to delete cart for %s: %w", buyerEmail, err)
	}
	return nil
}
