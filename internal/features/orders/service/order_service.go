package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"revive-orders/internal/core/logger"
	"revive-orders/internal/features/orders/domain"
	"revive-orders/internal/features/orders/ports"

	"go.uber.org/zap"
)

// maxUpdateAttempts bounds the re-read/re-resolve retries when a
// conditional status write loses against a concurrent writer.
const maxUpdateAttempts = 3

// CreateOrderRequest carries the checkout data needed to create an order.
type CreateOrderRequest struct {
	// BuyerEmail identifies the purchasing buyer.
	BuyerEmail string `json:"buyer_email"`
	// Items are the purchased line items, snapshot at checkout.
	Items []domain.OrderItem `json:"items"`
	// TotalAmount is the upstream-computed total; zero means "compute from
	// items".
	TotalAmount float64 `json:"total_amount"`
	// ShippingAddress is the delivery address.
	ShippingAddress domain.ShippingAddress `json:"shipping_address"`
	// PaymentMethod is the opaque payment descriptor.
	PaymentMethod map[string]interface{} `json:"payment_method"`
}

// OrderService owns the order lifecycle: creation, the status transition
// policy and the side effects each transition triggers.
type OrderService struct {
	store    ports.OrderStore
	catalog  ports.ProductCatalog
	mailer   ports.NotificationSink
	resolver domain.Resolver

	// now is the clock; replaced in tests.
	now func() time.Time
	// notifyAttempts bounds email delivery retries.
	notifyAttempts int
	// notifyDelay is the pause between email delivery retries.
	notifyDelay time.Duration
	// effectTimeout bounds each asynchronous side-effect dispatch.
	effectTimeout time.Duration
}

// NewOrderService creates a new OrderService.
func NewOrderService(store ports.OrderStore, catalog ports.ProductCatalog, mailer ports.NotificationSink, advanceInterval time.Duration) *OrderService {
	return &OrderService{
		store:          store,
		catalog:        catalog,
		mailer:         mailer,
		resolver:       domain.NewResolver(advanceInterval),
		now:            time.Now,
		notifyAttempts: 3,
		notifyDelay:    500 * time.Millisecond,
		effectTimeout:  10 * time.Second,
	}
}

// CreateOrder validates the request, persists a new order in the placed
// state and dispatches the purchase side effects: the purchased products
// are flagged sold in the catalog and the buyer receives a confirmation
// email. Side effects never fail the creation.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*domain.Order, error) {
	order, err := domain.NewOrder(req.BuyerEmail, req.Items, req.TotalAmount, req.ShippingAddress, req.PaymentMethod, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.store.Insert(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	logger.Get().Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("buyer_email", order.BuyerEmail),
		zap.Float64("total_amount", order.TotalAmount),
	)

	go func() {
		effectCtx, cancel := context.WithTimeout(context.Background(), s.effectTimeout)
		defer cancel()

		if err := s.catalog.MarkSold(effectCtx, order.ProductIDs(), order.BuyerEmail); err != nil {
			logger.Get().Error("Failed to mark products sold, inventory may be desynced",
				zap.String("order_id", order.ID),
				zap.Error(err),
			)
		}
		s.sendNotification(effectCtx, order)
	}()

	return order, nil
}

// UpdateOrderStatus resolves the requested status against the order's
// current state and the wall clock, persists the resulting transition and
// dispatches its side effects. When the resolved status equals the
// persisted one the call is an idempotent no-op.
//
// The read-modify-write is guarded by the order's version token; on a
// conflict the order is re-read and re-resolved, a bounded number of times.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID string, requested domain.OrderStatus) (*domain.Order, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		order, err := s.store.FindByID(ctx, orderID)
		if err != nil {
			return nil, err
		}

		next, err := s.resolver.Resolve(order, requested, s.now())
		if err != nil {
			return nil, err
		}

		if next == order.Status {
			return order, nil
		}

		order.Apply(next, s.now())

		if err := s.store.Update(ctx, order); err != nil {
			if errors.Is(err, ports.ErrVersionConflict) {
				logger.Get().Debug("Concurrent order update, retrying",
					zap.String("order_id", orderID),
					zap.Int("attempt", attempt+1),
				)
				continue
			}
			return nil, fmt.Errorf("failed to persist status update: %w", err)
		}

		logger.Get().Info("Order status updated",
			zap.String("order_id", order.ID),
			zap.String("status", string(next)),
		)

		s.afterTransition(order)
		return order, nil
	}

	return nil, fmt.Errorf("order %s update kept conflicting: %w", orderID, ports.ErrVersionConflict)
}

// GetOrderByID retrieves a single order. Pure read, no side effects.
func (s *OrderService) GetOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.store.FindByID(ctx, orderID)
}

// GetUserOrders retrieves every order owned by the buyer. An unknown buyer
// yields an empty slice.
func (s *OrderService) GetUserOrders(ctx context.Context, buyerEmail string) ([]domain.Order, error) {
	orders, err := s.store.FindByBuyer(ctx, buyerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders for %s: %w", buyerEmail, err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

// AdvanceActive re-evaluates every order in an automatically progressing
// state and returns how many transitioned. It is the entry point for the
// background poller; nothing advances an order unless something calls this
// or UpdateOrderStatus.
func (s *OrderService) AdvanceActive(ctx context.Context) (int, error) {
	active, err := s.store.FindActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list active orders: %w", err)
	}

	advanced := 0
	for i := range active {
		current := active[i].Status
		updated, err := s.UpdateOrderStatus(ctx, active[i].ID, current)
		if err != nil {
			logger.Get().Warn("Failed to advance order",
				zap.String("order_id", active[i].ID),
				zap.Error(err),
			)
			continue
		}
		if updated.Status != current {
			advanced++
		}
	}
	return advanced, nil
}

// afterTransition dispatches the side effects of a committed transition.
// Dispatch is asynchronous and best-effort: a failure is logged, never
// rolled back into the already-persisted status write.
func (s *OrderService) afterTransition(order *domain.Order) {
	status := order.Status
	go func() {
		effectCtx, cancel := context.WithTimeout(context.Background(), s.effectTimeout)
		defer cancel()

		if status == domain.StatusCancelled || status == domain.StatusReturned {
			if err := s.catalog.Release(effectCtx, order.ProductIDs()); err != nil {
				logger.Get().Error("Failed to release products, inventory may be desynced",
					zap.String("order_id", order.ID),
					zap.String("status", string(status)),
					zap.Error(err),
				)
			}
		}

		s.sendNotification(effectCtx, order)
	}()
}

// sendNotification delivers the email for the order's current status, if a
// template is defined for it, retrying with bounded attempts.
func (s *OrderService) sendNotification(ctx context.Context, order *domain.Order) {
	tmpl, ok := notificationTemplates[order.Status]
	if !ok {
		return
	}

	subject, body := tmpl.render(order)

	var err error
	for attempt := 1; attempt <= s.notifyAttempts; attempt++ {
		err = s.mailer.SendEmail(ctx, order.BuyerEmail, subject, body)
		if err == nil {
			return
		}
		logger.Get().Warn("Email delivery attempt failed",
			zap.String("order_id", order.ID),
			zap.String("status", string(order.Status)),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt < s.notifyAttempts {
			select {
			case <-ctx.Done():
				return
			case <-time.After(s.notifyDelay):
			}
		}
	}

	logger.Get().Error("Email delivery permanently failed",
		zap.String("order_id", order.ID),
		zap.String("to", order.BuyerEmail),
		zap.Error(err),
	)
}
