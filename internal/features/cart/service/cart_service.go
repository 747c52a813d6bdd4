package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"revive-orders/internal/core/logger"
	"revive-orders/internal/features/cart/domain"
	"revive-orders/internal/features/cart/ports"
	ordersdomain "revive-orders/internal/features/orders/domain"
	ordersservice "revive-orders/internal/features/orders/service"

	"go.uber.org/zap"
)

// ErrProductUnavailable is returned when a product cannot be added to a
// cart because it is not on the approved storefront.
var ErrProductUnavailable = errors.New("product is not available for purchase")

// CartViewItem is a cart line joined with the catalog details the
// storefront renders.
type CartViewItem struct {
	ProductID   string   `json:"product_id"`
	ProductName string   `json:"product_name"`
	Price       float64  `json:"price"`
	Quantity    int      `json:"quantity"`
	Subtotal    float64  `json:"subtotal"`
	Images      []string `json:"images"`
}

// CartView is the buyer-facing cart representation.
type CartView struct {
	BuyerEmail string         `json:"buyer_email"`
	Items      []CartViewItem `json:"items"`
	Total      float64        `json:"total"`
}

// CartService owns per-buyer carts and checkout, the single path from a
// cart into the order engine.
type CartService struct {
	repo    ports.CartRepository
	catalog ports.ProductFinder
	orders  ports.OrderPlacer

	// now is the clock; replaced in tests.
	now func() time.Time
}

// NewCartService creates a new CartService.
func NewCartService(repo ports.CartRepository, catalog ports.ProductFinder, orders ports.OrderPlacer) *CartService {
	return &CartService{
		repo:    repo,
		catalog: catalog,
		orders:  orders,
		now:     time.Now,
	}
}

// AddProduct puts quantity of the product into the buyer's cart after
// verifying it is on the approved storefront.
func (s *CartService) AddProduct(ctx context.Context, buyerEmail, productID string, quantity int) (*CartView, error) {
	if quantity <= 0 {
		quantity = 1
	}

	product, err := s.catalog.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Purchasable() {
		return nil, fmt.Errorf("%w: %s is %s", ErrProductUnavailable, productID, product.Status)
	}

	cart, err := s.loadOrCreate(ctx, buyerEmail)
	if err != nil {
		return nil, err
	}

	cart.Upsert(productID, quantity)
	cart.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}

	return s.view(ctx, cart)
}

// GetCart returns the buyer's cart joined with catalog details. Buyers
// without a cart get an empty view.
func (s *CartService) GetCart(ctx context.Context, buyerEmail string) (*CartView, error) {
	cart, err := s.loadOrCreate(ctx, buyerEmail)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, cart)
}

// UpdateQuantity replaces a line's quantity; zero or less removes it.
func (s *CartService) UpdateQuantity(ctx context.Context, buyerEmail, productID string, quantity int) (*CartView, error) {
	cart, err := s.loadOrCreate(ctx, buyerEmail)
	if err != nil {
		return nil, err
	}

	if err := cart.SetQuantity(productID, quantity); err != nil {
		return nil, err
	}
	cart.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}

	return s.view(ctx, cart)
}

// RemoveProduct drops a line from the cart.
func (s *CartService) RemoveProduct(ctx context.Context, buyerEmail, productID string) (*CartView, error) {
	return s.UpdateQuantity(ctx, buyerEmail, productID, 0)
}

// Clear empties the buyer's cart.
func (s *CartService) Clear(ctx context.Context, buyerEmail string) error {
	return s.repo.Delete(ctx, buyerEmail)
}

// Checkout turns the cart into an order: every line is re-validated and
// re-priced against the catalog, the order is created in the placed state
// and the cart is cleared. The order engine handles flipping the products
// sold and notifying the buyer.
func (s *CartService) Checkout(ctx context.Context, buyerEmail string, shipping ordersdomain.ShippingAddress, payment map[string]interface{}) (*ordersdomain.Order, error) {
	cart, err := s.repo.Get(ctx, buyerEmail)
	if err != nil {
		return nil, err
	}
	if cart == nil || cart.Empty() {
		return nil, domain.ErrEmptyCart
	}

	items := make([]ordersdomain.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		product, err := s.catalog.GetProductByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.Purchasable() {
			return nil, fmt.Errorf("%w: %s is %s", ErrProductUnavailable, product.ID, product.Status)
		}
		items = append(items, ordersdomain.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			Price:       product.Price,
			Images:      product.Images,
		})
	}

	order, err := s.orders.CreateOrder(ctx, ordersservice.CreateOrderRequest{
		BuyerEmail:      buyerEmail,
		Items:           items,
		ShippingAddress: shipping,
		PaymentMethod:   payment,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, buyerEmail); err != nil {
		// The order exists; a lingering cart is only a UX wart.
		logger.Get().Warn("Failed to clear cart after checkout",
			zap.String("buyer_email", buyerEmail),
			zap.String("order_id", order.ID),
			zap.Error(err),
		)
	}

	logger.Get().Info("Checkout completed",
		zap.String("buyer_email", buyerEmail),
		zap.String("order_id", order.ID),
		zap.Int("items", len(items)),
	)
	return order, nil
}

func (s *CartService) loadOrCreate(ctx context.Context, buyerEmail string) (*domain.Cart, error) {
	cart, err := s.repo.Get(ctx, buyerEmail)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = domain.NewCart(buyerEmail)
	}
	return cart, nil
}

// view joins the cart lines with catalog details. Lines whose product
// vanished or left the storefront are shown with zero price rather than
// dropped, so the buyer sees why checkout will refuse them.
func (s *CartService) view(ctx context.Context, cart *domain.Cart) (*CartView, error) {
	view := &CartView{
		BuyerEmail: cart.BuyerEmail,
		Items:      make([]CartViewItem, 0, len(cart.Items)),
	}

	for _, line := range cart.Items {
		item := CartViewItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		}
		if product, err := s.catalog.GetProductByID(ctx, line.ProductID); err == nil {
			item.ProductName = product.Name
			item.Price = product.Price
			item.Subtotal = product.Price * float64(line.Quantity)
			item.Images = product.Images
		}
		view.Total += item.Subtotal
		view.Items = append(view.Items, item)
	}
	return view, nil
}
