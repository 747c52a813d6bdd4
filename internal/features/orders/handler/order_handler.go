package handler

import (
	"errors"
	"net/http"

	"revive-orders/internal/core/logger"
	"revive-orders/internal/features/orders/domain"
	"revive-orders/internal/features/orders/ports"
	"revive-orders/internal/features/orders/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests related to orders.
type OrderHandler struct {
	// service is the OrderService instance.
	service *service.OrderService
}

// NewOrderHandler creates a new instance of OrderHandler.
func NewOrderHandler(s *service.OrderService) *OrderHandler {
	return &OrderHandler{
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

// statusUpdateRequest is the body of a status update call.
type statusUpdateRequest struct {
	Status string `json:"status"`
}

// CreateOrder handles the checkout request to create a new order.
// @Summary Create Order
// @Description Create a new order from checkout data; the order starts in the placed state.
// @Accept json
// @Produce json
// @Param order body service.CreateOrderRequest true "Order create request"
// @Success 201 {object} domain.Order
// @Failure 400 {object} ErrorResponse
// @Router /orders/ [post]
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	rayID := rayID(c)

	var req service.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID,
		})
	}

	order, err := h.service.CreateOrder(c.UserContext(), req)
	if err != nil {
		return h.fail(c, rayID, "Failed to create order", err)
	}

	return c.Status(http.StatusCreated).JSON(order)
}

// GetOrder handles the request to retrieve a single order.
// @Summary Get Order by ID
// @Description Fetch a single order with its tracking history.
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	rayID := rayID(c)
	orderID := c.Params("id")

	if orderID == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Order ID is required",
			RayID:   rayID,
		})
	}

	order, err := h.service.GetOrderByID(c.UserContext(), orderID)
	if err != nil {
		return h.fail(c, rayID, "Failed to fetch order", err)
	}

	return c.Status(http.StatusOK).JSON(order)
}

// GetUserOrders handles the request to list a buyer's orders.
// @Summary List Buyer Orders
// @Description Fetch every order owned by the given buyer email.
// @Produce json
// @Param email query string true "Buyer Email"
// @Success 200 {array} domain.Order
// @Failure 400 {object} ErrorResponse
// @Router /orders/user [get]
func (h *OrderHandler) GetUserOrders(c *fiber.Ctx) error {
	rayID := rayID(c)
	email := c.Query("email")

	if email == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Email is required",
			RayID:   rayID,
		})
	}

	orders, err := h.service.GetUserOrders(c.UserContext(), email)
	if err != nil {
		return h.fail(c, rayID, "Failed to fetch orders", err)
	}

	return c.Status(http.StatusOK).JSON(orders)
}

// UpdateOrderStatus handles the request to advance an order's status.
// @Summary Update Order Status
// @Description Resolve the requested status against the order's state and the clock, then persist the transition.
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param status body statusUpdateRequest true "Requested status"
// @Success 200 {object} domain.Order
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /orders/{id}/status [put]
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	rayID := rayID(c)
	orderID := c.Params("id")

	var req statusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID,
		})
	}

	order, err := h.service.UpdateOrderStatus(c.UserContext(), orderID, domain.OrderStatus(req.Status))
	if err != nil {
		return h.fail(c, rayID, "Failed to update order status", err)
	}

	return c.Status(http.StatusOK).JSON(order)
}

// fail logs the error and maps it to a distinguishable HTTP status so
// client UIs can react per error kind.
func (h *OrderHandler) fail(c *fiber.Ctx, rayID, logMsg string, err error) error {
	logger.Get().Error(logMsg,
		zap.String("ray_id", rayID),
		zap.Error(err),
	)

	status := http.StatusInternalServerError
	msg := err.Error()

	switch {
	case errors.Is(err, domain.ErrInvalidOrder):
		status = http.StatusBadRequest
	case errors.Is(err, ports.ErrOrderNotFound):
		status = http.StatusNotFound
		msg = "Order not found"
	case errors.Is(err, domain.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, ports.ErrVersionConflict):
		status = http.StatusConflict
		msg = "Order was updated concurrently, retry"
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
