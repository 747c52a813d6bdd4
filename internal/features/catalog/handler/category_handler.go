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

// CategoryHandler handles HTTP requests related to browsing categories.
type CategoryHandler struct {
	service *service.CategoryService
}

// NewCategoryHandler creates a new instance of CategoryHandler.
func NewCategoryHandler(s *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{
		service: s,
	}
}

// categoryRequest is the body of a create or rename call.
type categoryRequest struct {
	Name string `json:"name"`
}

// CreateCategory handles the request to add a category.
// @Summary Create Category
// @Accept json
// @Produce json
// @Param category body categoryRequest true "Category name"
// @Success 201 {object} domain.Category
// @Failure 400 {object} ErrorResponse
// @Router /categories/ [post]
func (h *CategoryHandler) CreateCategory(c *fiber.Ctx) error {
	rayID := rayID(c)

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID,
		})
	}

	category, err := h.service.CreateCategory(c.UserContext(), req.Name)
	if err != nil {
		return h.fail(c, rayID, "Failed to create category", err)
	}

	return c.Status(http.StatusCreated).JSON(category)
}

// ListCategories handles the request to list every category.
// @Summary List Categories
// @Produce json
// @Success 200 {array} domain.Category
// @Router /categories/ [get]
func (h *CategoryHandler) ListCategories(c *fiber.Ctx) error {
	rayID := rayID(c)

	categories, err := h.service.GetCategories(c.UserContext())
	if err != nil {
		return h.fail(c, rayID, "Failed to fetch categories", err)
	}

	return c.Status(http.StatusOK).JSON(categories)
}

// RenameCategory handles the request to rename a category.
// @Summary Rename Category
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param category body categoryRequest true "New name"
// @Success 200 {object} domain.Category
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /categories/{id} [put]
func (h *CategoryHandler) RenameCategory(c *fiber.Ctx) error {
	rayID := rayID(c)

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID,
		})
	}

	category, err := h.service.RenameCategory(c.UserContext(), c.Params("id"), req.Name)
	if err != nil {
		return h.fail(c, rayID, "Failed to rename category", err)
	}

	return c.Status(http.StatusOK).JSON(category)
}

// DeleteCategory handles the request to remove a category.
// @Summary Delete Category
// @Produce json
// @Param id path string true "Category ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /categories/{id} [delete]
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	rayID := rayID(c)

	if err := h.service.DeleteCategory(c.UserContext(), c.Params("id")); err != nil {
		return h.fail(c, rayID, "Failed to delete category", err)
	}

	return c.SendStatus(http.StatusNoContent)
}

// fail logs the error and maps it to an HTTP status.
func (h *CategoryHandler) fail(c *fiber.Ctx, rayID, logMsg string, err error) error {
	logger.Get().Error(logMsg,
		zap.String("ray_id", rayID),
		zap.Error(err),
	)

	status := http.StatusInternalServerError
	msg := err.Error()

	switch {
	case errors.Is(err, domain.ErrInvalidCategory):
		status = http.StatusBadRequest
	case errors.Is(err, ports.ErrCategoryNotFound):
		status = http.StatusNotFound
		msg = "Category not found"
	case errors.Is(err, ports.ErrCategoryExists):
		status = http.StatusConflict
		msg = "Category already exists"
	}

	return c.Status(status).JSON(ErrorResponse{
		Message: msg,
		RayID:   rayID,
	})
}
