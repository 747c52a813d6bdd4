package ports

import (
	"context"

	cartdomain "revive-orders/internal/features/cart/domain"
	catalogdomain "revive-orders/internal/features/catalog/domain"
	ordersdomain "revive-orders/internal/features/orders/domain"
	ordersservice "revive-orders/internal/features/orders/service"
)

// CartRepository is the persistence port for per-buyer carts. A missing
// cart is not an error; Get returns nil for buyers without one.
type CartRepository interface {
	Get(ctx context.Context, buyerEmail string) (*cartdomain.Cart, error)
	Save(ctx context.Context, cart *cartdomain.Cart) error
	Delete(ctx context.Context, buyerEmail string) error
}

// ProductFinder is the catalog read port used to validate and price cart
// items. The catalog service satisfies it directly.
type ProductFinder interface {
	GetProductByID(ctx context.Context, id string) (*catalogdomain.Product, error)
}

// OrderPlacer is the checkout port into the order engine. The order
// service satisfies it directly.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req ordersservice.CreateOrderRequest) (*ordersdomain.Order, error)
}
