package handler

import (
	"errors"
	"net/http"

	"revive-orders/internal/core/logger"
	"revive-orders/internal/features/cart/domain"
	"revive-orders/internal/features/cart/service"
	catalogports "revive-orders/internal/features/catalog/ports"
	ordersdomain "revive-orders/internal/features/orders/domain"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CartHandler handles HTTP requests related to the shopping cart.
type CartHandler struct {
	service *service.CartService
}

// NewCartHandler creates a new instance of CartHandler.
func NewCartHandler(s *service.CartService) *CartHandler {
	return &CartHandler{
		service: s,
	}
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}

// addItemRequest is the body of an add-to-cart call.
type addItemRequest struct {
	Email     string `json:"email"`
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// quantityRequest is the body of a quantity update call.
type quantityRequest struct {
	Email    string `json:"email"`
	Quantity int    `json:"quantity"`
}

// checkoutRequest is the body of a checkout call.
type checkoutRequest struct {
	Email           string                       `json:"email"`
	ShippingAddress ordersdomain.ShippingAddress `json:"shipping_address"`
	PaymentMethod   map[string]interface{}       `json:"payment_method"`
}

// AddItem handles the request to add a product to the cart.
// @Summary Add Product to Cart
// @Accept json
// @Produce json
// @Param item body addItemRequest true "Product to add"
// @Success 200 {object} service.CartView
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	rayID := rayID(c)

	var req addItemRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.ProductID == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Email and product id are required",
			RayID:   rayID,
		})
	}

	view, err := h.service.AddProduct(c.UserContext(), req.Email, req.ProductID, req.Quantity)
	if err != nil {
		return h.fail(c, rayID, "Failed to add product to cart", err)
	}

	return c.Status(http.StatusOK).JSON(view)
}

// GetCart handles the request to view the cart.
// @Summary Get Cart
// @Produce json
// @Param email query string true "Buyer Email"
// @Success 200 {object} service.CartView
// @Failure 400 {object} ErrorResponse
// @Router /cart/ [get]
func (h *CartHandler) GetCart(c *fiber.Ctx) error {
	rayID := rayID(c)
	email := c.Query("email")

	if email == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Email is required",
			RayID:   rayID,
		})
	}

	view, err := h.service.GetCart(c.UserContext(), email)
	if err != nil {
		return h.fail(c, rayID, "Failed to fetch cart", err)
	}

	return c.Status(http.StatusOK).JSON(view)
}

// UpdateQuantity handles the request to change a line's quantity.
// @Summary Update Cart Quantity
// @Accept json
// @Produce json
// @Param productId path string true "Product ID"
// @Param quantity body quantityRequest true "New quantity, zero removes"
// @Success 200 {object} service.CartView
// @Failure 404 {object} ErrorResponse
// @Router /cart/items/{productId} [put]
func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	rayID := rayID(c)

	var req quantityRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Email is required",
			RayID:   rayID,
		})
	}

	view, err := h.service.UpdateQuantity(c.UserContext(), req.Email, c.Params("productId"), req.Quantity)
	if err != nil {
		return h.fail(c, rayID, "Failed to update cart quantity", err)
	}

	return c.Status(http.StatusOK).JSON(view)
}

// RemoveItem handles the request to drop a product from the cart.
// @Summary Remove Product from Cart
// @Produce json
// @Param productId path string true "Product ID"
// @Param email query string true "Buyer Email"
// @Success 200 {object} service.CartView
// @Failure 404 {object} ErrorResponse
// @Router /cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	rayID := rayID(c)
	email := c.Query("email")

	if email == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Email is required",
			RayID:   rayID,
		})
	}

	view, err := h.service.RemoveProduct(c.UserContext(), email, c.Params("productId"))
	if err != nil {
		return h.fail(c, rayID, "Failed to remove product from cart", err)
	}

	return c.Status(http.StatusOK).JSON(view)
}

// Checkout handles the request to turn the cart into an order.
// @Summary Checkout
// @Description Create an order from the cart contents and clear the cart.
// @Accept json
// @Produce json
// @Param checkout body checkoutRequest true "Checkout data"
// @Success 201 {object} ordersdomain.Order
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /cart/checkout [post]
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	rayID := rayID(c)

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Email is required",
			RayID:   rayID,
		})
	}

	order, err := h.service.Checkout(c.UserContext(), req.Email, req.ShippingAddress, req.PaymentMethod)
	if err != nil {
		return h.fail(c, rayID, "Failed to checkout", err)
	}

	return c.Status(http.StatusCreated).JSON(order)
}

// fail logs the error and maps it to an HTTP status.
func (h *CartHandler) fail(c *fiber.Ctx, rayID, logMsg string, err error) error {
	logger.Get().Error(logMsg,
		zap.String("ray_id", rayID),
		zap.Error(err),
	)

	status := http.StatusInternalServerError
	msg := err.Error()

	switch {
	case errors.Is(err, domain.ErrEmptyCart):
		status = http.StatusBadRequest
		msg = "Cart is empty"
	case errors.Is(err, domain.ErrItemNotInCart):
		status = http.StatusNotFound
		msg = "Product not in cart"
	case errors.Is(err, catalogports.ErrProductNotFound):
		status = http.StatusNotFound
		msg = "Product not found"
	case errors.Is(err, service.ErrProductUnavailable):
		status = http.StatusConflict
	case errors.Is(err, ordersdomain.ErrInvalidOrder):
		status = http.StatusBadRequest
	}

	return c.Status(status).JSON(ErrorResponse{
		Message: msg,
		RayID:   rayID,
	})
}

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}
