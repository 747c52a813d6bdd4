package handler

import (
	"errors"
	"net/http"

	"revive-orders/internal/core/logger"
	"revive-orders/internal/features/catalog/domain"
	"revive-orders/internal/features/catalog/ports"
	"revive-orders/internal/features/catalog/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests related to catalog listings.
type ProductHandler struct {
	service *service.CatalogService
}

// NewProductHandler creates a new instance of ProductHandler.
func NewProductHandler(s *service.CatalogService) *ProductHandler {
	return &ProductHandler{
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

// approvalRequest is the body of a moderation call.
type approvalRequest struct {
	Approved bool `json:"approved"`
}

// CreateProduct handles the request to list a new product.
// @Summary Create Product
// @Description List a new product; it starts pending moderation.
// @Accept json
// @Produce json
// @Param product body service.CreateProductRequest true "Product create request"
// @Success 201 {object} domain.Product
// @Failure 400 {object} ErrorResponse
// @Router /products/ [post]
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	rayID := rayID(c)

	var req service.CreateProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID,
		})
	}

	product, err := h.service.CreateProduct(c.UserContext(), req)
	if err != nil {
		return h.fail(c, rayID, "Failed to create product", err)
	}

	return c.Status(http.StatusCreated).JSON(product)
}

// GetProduct handles the request to retrieve a single product.
// @Summary Get Product by ID
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	rayID := rayID(c)

	product, err := h.service.GetProductByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.fail(c, rayID, "Failed to fetch product", err)
	}

	return c.Status(http.StatusOK).JSON(product)
}

// ListProducts handles the storefront and moderation listings.
// @Summary List Products
// @Description List products by status; defaults to the approved storefront.
// @Produce json
// @Param status query string false "Product status" default(approved)
// @Success 200 {array} domain.Product
// @Router /products/ [get]
func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	rayID := rayID(c)
	status := domain.ProductStatus(c.Query("status", string(domain.StatusApproved)))

	products, err := h.service.GetProductsByStatus(c.UserContext(), status)
	if err != nil {
		return h.fail(c, rayID, "Failed to list products", err)
	}

	return c.Status(http.StatusOK).JSON(products)
}

// GetSellerProducts handles the request to list a seller's products.
// @Summary List Seller Products
// @Produce json
// @Param email query string true "Seller Email"
// @Success 200 {array} domain.Product
// @Failure 400 {object} ErrorResponse
// @Router /products/seller [get]
func (h *ProductHandler) GetSellerProducts(c *fiber.Ctx) error {
	rayID := rayID(c)
	email := c.Query("email")

	if email == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Email is required",
			RayID:   rayID,
		})
	}

	products, err := h.service.GetSellerProducts(c.UserContext(), email)
	if err != nil {
		return h.fail(c, rayID, "Failed to fetch seller products", err)
	}

	return c.Status(http.StatusOK).JSON(products)
}

// SetApproval handles the moderation decision on a pending product.
// @Summary Moderate Product
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param decision body approvalRequest true "Moderation decision"
// @Success 200 {object} domain.Product
// @Failure 404 {object} ErrorResponse
// @Router /products/{id}/approval [put]
func (h *ProductHandler) SetApproval(c *fiber.Ctx) error {
	rayID := rayID(c)

	var req approvalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID,
		})
	}

	product, err := h.service.SetApproval(c.UserContext(), c.Params("id"), req.Approved)
	if err != nil {
		return h.fail(c, rayID, "Failed to moderate product", err)
	}

	return c.Status(http.StatusOK).JSON(product)
}

// DeleteProduct handles the request to remove a listing.
// @Summary Delete Product
// @Produce json
// @Param id path string true "Product ID"
// @Param email query string true "Seller Email"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	rayID := rayID(c)

	if err := h.service.DeleteProduct(c.UserContext(), c.Params("id"), c.Query("email")); err != nil {
		return h.fail(c, rayID, "Failed to delete product", err)
	}

	return c.SendStatus(http.StatusNoContent)
}

// fail logs the error and maps it to an HTTP status.
func (h *ProductHandler) fail(c *fiber.Ctx, rayID, logMsg string, err error) error {
	logger.Get().Error(logMsg,
		zap.String("ray_id", rayID),
		zap.Error(err),
	)

	status := http.StatusInternalServerError
	msg := err.Error()

	switch {
	case errors.Is(err, domain.ErrInvalidProduct):
		status = http.StatusBadRequest
	case errors.Is(err, ports.ErrProductNotFound):
		status = http.StatusNotFound
		msg = "Product not found"
	case errors.Is(err, service.ErrNotOwner):
		status = http.StatusForbidden
		msg = "Product belongs to another seller"
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
