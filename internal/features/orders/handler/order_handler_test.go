package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"revive-orders/internal/features/orders/adapters"
	"revive-orders/internal/features/orders/domain"
	"revive-orders/internal/features/orders/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noopCatalog is a ProductCatalog that accepts everything.
type noopCatalog struct{}

func (noopCatalog) MarkSold(ctx context.Context, productIDs []string, buyerEmail string) error {
	return nil
}

func (noopCatalog) Release(ctx context.Context, productIDs []string) error {
	return nil
}

// noopMailer is a NotificationSink that accepts everything.
type noopMailer struct{}

func (noopMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	return nil
}

func newTestApp(t *testing.T) (*fiber.App, *service.OrderService) {
	t.Helper()

	svc := service.NewOrderService(adapters.NewMemoryOrderStore(), noopCatalog{}, noopMailer{}, 30*time.Second)
	h := NewOrderHandler(svc)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	app.Post("/orders/", h.CreateOrder)
	app.Get("/orders/user", h.GetUserOrders)
	app.Get("/orders/:id", h.GetOrder)
	app.Put("/orders/:id/status", h.UpdateOrderStatus)

	return app, svc
}

func createOrderBody() []byte {
	body, _ := json.Marshal(service.CreateOrderRequest{
		BuyerEmail: "buyer@test.com",
		Items: []domain.OrderItem{
			{ProductID: "p1", ProductName: "Denim Jacket", Quantity: 1, Price: 35.00},
		},
		ShippingAddress: domain.ShippingAddress{
			Name:       "Test Buyer",
			Address:    "12 Main Street",
			PostalCode: "1000",
		},
		PaymentMethod: map[string]interface{}{"type": "card"},
	})
	return body
}

// TestOrderHandler_CreateOrder_Success verifies a checkout request yields a
// placed order with its initial tracking entry.
func TestOrderHandler_CreateOrder_Success(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("POST", "/orders/", bytes.NewReader(createOrderBody()))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var result domain.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, domain.StatusPlaced, result.Status)
	assert.Equal(t, 35.00, result.TotalAmount)
	require.Len(t, result.TrackingHistory, 1)
	assert.Equal(t, "Order has been placed", result.TrackingHistory[0].Description)
}

// TestOrderHandler_CreateOrder_Invalid verifies malformed checkout data
// maps to 400 with a ray id.
func TestOrderHandler_CreateOrder_Invalid(t *testing.T) {
	app, _ := newTestApp(t)

	body, _ := json.Marshal(service.CreateOrderRequest{BuyerEmail: "buyer@test.com"})
	req := httptest.NewRequest("POST", "/orders/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var result ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "test-ray-id", result.RayID)
}

// TestOrderHandler_GetOrder_NotFound verifies unknown ids map to 404.
func TestOrderHandler_GetOrder_NotFound(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest("GET", "/orders/unknown-id", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var result ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "Order not found", result.Message)
}

// TestOrderHandler_GetOrder_Success verifies the round trip through the
// service layer.
func TestOrderHandler_GetOrder_Success(t *testing.T) {
	app, svc := newTestApp(t)

	order, err := svc.CreateOrder(context.Background(), service.CreateOrderRequest{
		BuyerEmail: "buyer@test.com",
		Items:      []domain.OrderItem{{ProductID: "p1", Quantity: 1, Price: 9.99}},
		ShippingAddress: domain.ShippingAddress{
			Name: "Test Buyer", Address: "12 Main Street", PostalCode: "1000",
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/orders/"+order.ID, nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result domain.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, order.ID, result.ID)
}

// TestOrderHandler_GetUserOrders verifies buyer listing and the required
// email query parameter.
func TestOrderHandler_GetUserOrders(t *testing.T) {
	app, svc := newTestApp(t)

	_, err := svc.CreateOrder(context.Background(), service.CreateOrderRequest{
		BuyerEmail: "buyer@test.com",
		Items:      []domain.OrderItem{{ProductID: "p1", Quantity: 1, Price: 9.99}},
		ShippingAddress: domain.ShippingAddress{
			Name: "Test Buyer", Address: "12 Main Street", PostalCode: "1000",
		},
	})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/orders/user?email=buyer@test.com", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result []domain.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	require.Len(t, result, 1)

	// Unknown buyers still get a JSON array, not null.
	req = httptest.NewRequest("GET", "/orders/user?email=stranger@test.com", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.NotNil(t, result)
	assert.Empty(t, result)

	// Missing email is a 400.
	req = httptest.NewRequest("GET", "/orders/user", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

// TestOrderHandler_UpdateOrderStatus_Cancel verifies a permitted manual
// transition through the full HTTP surface.
func TestOrderHandler_UpdateOrderStatus_Cancel(t *testing.T) {
	app, svc := newTestApp(t)

	order, err := svc.CreateOrder(context.Background(), service.CreateOrderRequest{
		BuyerEmail: "buyer@test.com",
		Items:      []domain.OrderItem{{ProductID: "p1", Quantity: 1, Price: 9.99}},
		ShippingAddress: domain.ShippingAddress{
			Name: "Test Buyer", Address: "12 Main Street", PostalCode: "1000",
		},
	})
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]string{"status": "cancelled"})
	req := httptest.NewRequest("PUT", "/orders/"+order.ID+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var result domain.Order
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, domain.StatusCancelled, result.Status)
	require.Len(t, result.TrackingHistory, 2)
	assert.Equal(t, "Order has been cancelled", result.TrackingHistory[1].Description)
}

// TestOrderHandler_UpdateOrderStatus_Forbidden verifies a forbidden
// transition maps to 409.
func TestOrderHandler_UpdateOrderStatus_Forbidden(t *testing.T) {
	app, svc := newTestApp(t)

	order, err := svc.CreateOrder(context.Background(), service.CreateOrderRequest{
		BuyerEmail: "buyer@test.com",
		Items:      []domain.OrderItem{{ProductID: "p1", Quantity: 1, Price: 9.99}},
		ShippingAddress: domain.ShippingAddress{
			Name: "Test Buyer", Address: "12 Main Street", PostalCode: "1000",
		},
	})
	require.NoError(t, err)

	body, _ := json.Marshal(map[string]string{"status": "return_requested"})
	req := httptest.NewRequest("PUT", "/orders/"+order.ID+"/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

// TestOrderHandler_UpdateOrderStatus_NotFound verifies unknown ids map to
// 404 on the status route too.
func TestOrderHandler_UpdateOrderStatus_NotFound(t *testing.T) {
	app, _ := newTestApp(t)

	body, _ := json.Marshal(map[string]string{"status": "cancelled"})
	req := httptest.NewRequest("PUT", "/orders/unknown-id/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
