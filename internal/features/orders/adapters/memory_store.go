package adapters

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"revive-orders/internal/features/orders/domain"
	"revive-orders/internal/features/orders/ports"
)

// MemoryOrderStore implements ports.OrderStore in process memory. It honours
// the same conditional-update contract as the Mongo store and is used for
// local development when no MONGO_URI is configured.
type MemoryOrderStore struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

// NewMemoryOrderStore creates an empty MemoryOrderStore.
func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{
		orders: make(map[string]domain.Order),
	}
}

// Insert persists a newly created order.
func (s *MemoryOrderStore) Insert(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[order.ID]; exists {
		return fmt.Errorf("%w: duplicate order id %s", ports.ErrNotPersisted, order.ID)
	}
	s.orders[order.ID] = cloneOrder(order)
	return nil
}

// FindByID retrieves a single order by id.
func (s *MemoryOrderStore) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrOrderNotFound, id)
	}
	clone := cloneOrder(&order)
	return &clone, nil
}

// FindByBuyer retrieves every order owned by the buyer, newest first.
func (s *MemoryOrderStore) FindByBuyer(ctx context.Context, buyerEmail string) ([]domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := []domain.Order{}
	for _, order := range s.orders {
		if order.BuyerEmail == buyerEmail {
			orders = append(orders, cloneOrder(&order))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
	return orders, nil
}

// FindActive retrieves every order in an automatically progressing state.
func (s *MemoryOrderStore) FindActive(ctx context.Context) ([]domain.Order, error) {
	active := make(map[domain.OrderStatus]struct{})
	for _, status := range domain.ActiveStatuses() {
		active[status] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := []domain.Order{}
	for _, order := range s.orders {
		if _, ok := active[order.Status]; ok {
			orders = append(orders, cloneOrder(&order))
		}
	}
	return orders, nil
}

// Update persists a transitioned order conditionally on the previous
// version.
func (s *MemoryOrderStore) Update(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.orders[order.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ports.ErrOrderNotFound, order.ID)
	}
	if stored.Version != order.Version-1 {
		return fmt.Errorf("%w: %s", ports.ErrVersionConflict, order.ID)
	}
	s.orders[order.ID] = cloneOrder(order)
	return nil
}

// cloneOrder copies the order and its mutable slices and maps so callers
// never alias stored state.
func cloneOrder(o *domain.Order) domain.Order {
	clone := *o
	clone.Items = append([]domain.OrderItem(nil), o.Items...)
	clone.TrackingHistory = append([]domain.TrackingEntry(nil), o.TrackingHistory...)
	if o.PaymentMethod != nil {
		clone.PaymentMethod = make(map[string]interface{}, len(o.PaymentMethod))
		for k, v := range o.PaymentMethod {
			clone.PaymentMethod[k] = v
		}
	}
	return clone
}
