package ports

import (
	"context"

	"revive-orders/internal/features/orders/domain"
)

// OrderStore defines the persistence operations for orders.
// This is a Secondary Port (Driven Port).
type OrderStore interface {
	// Insert persists a newly created order.
	Insert(ctx context.Context, order *domain.Order) error

	// FindByID retrieves a single order, returning ErrOrderNotFound when
	// the id does not resolve.
	FindByID(ctx context.Context, id string) (*domain.Order, error)

	// FindByBuyer retrieves every order owned by the buyer, newest first.
	// An unknown buyer yields an empty slice, not an error.
	FindByBuyer(ctx context.Context, buyerEmail string) ([]domain.Order, error)

	// FindActive retrieves every order in a state subject to automatic
	// time-based progression.
	FindActive(ctx context.Context) ([]domain.Order, error)

	// Update persists a transitioned order conditionally: the write only
	// takes effect if the stored version equals order.Version-1, otherwise
	// ErrVersionConflict is returned and nothing changes.
	Update(ctx context.Context, order *domain.Order) error
}

// ProductCatalog defines the catalog status flips the order lifecycle
// triggers on purchase, cancellation and return completion.
type ProductCatalog interface {
	// MarkSold flags the products as sold to the buyer.
	MarkSold(ctx context.Context, productIDs []string, buyerEmail string) error

	// Release resets the products to available and clears any buyer
	// association.
	Release(ctx context.Context, productIDs []string) error
}

// NotificationSink delivers buyer-facing emails. Implementations are
// best-effort: the order lifecycle never rolls back on a send failure.
type NotificationSink interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}
