package handler

import (
	"errors"
	"net/http"

	"revive-orders/internal/core/logger"
	"revive-orders/internal/features/verification/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// VerificationHandler handles HTTP requests for email verification codes.
type VerificationHandler struct {
	service *service.VerificationService
}

// NewVerificationHandler creates a new instance of VerificationHandler.
func NewVerificationHandler(s *service.VerificationService) *VerificationHandler {
	return &VerificationHandler{
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

// sendRequest is the body of a code issue call.
type sendRequest struct {
	Email string `json:"email"`
}

// verifyRequest is the body of a code check call.
type verifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// verifyResponse is the body of a successful check.
type verifyResponse struct {
	Verified bool `json:"verified"`
}

// SendCode handles the request to issue a verification code.
// @Summary Send Verification Code
// @Accept json
// @Produce json
// @Param request body sendRequest true "Target email"
// @Success 202
// @Failure 400 {object} ErrorResponse
// @Router /verification/send [post]
func (h *VerificationHandler) SendCode(c *fiber.Ctx) error {
	rayID := rayID(c)

	var req sendRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Email is required",
			RayID:   rayID,
		})
	}

	if err := h.service.SendCode(c.UserContext(), req.Email); err != nil {
		logger.Get().Error("Failed to send verification code",
			zap.String("ray_id", rayID),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
			Message: "Failed to send verification code",
			RayID:   rayID,
		})
	}

	return c.SendStatus(http.StatusAccepted)
}

// VerifyCode handles the request to check a verification code.
// @Summary Verify Code
// @Accept json
// @Produce json
// @Param request body verifyRequest true "Email and guessed code"
// @Success 200 {object} verifyResponse
// @Failure 401 {object} ErrorResponse
// @Failure 410 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /verification/verify [post]
func (h *VerificationHandler) VerifyCode(c *fiber.Ctx) error {
	rayID := rayID(c)

	var req verifyRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Code == "" {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Email and code are required",
			RayID:   rayID,
		})
	}

	err := h.service.VerifyCode(c.UserContext(), req.Email, req.Code)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrCodeExpired):
			status = http.StatusGone
		case errors.Is(err, service.ErrCodeMismatch):
			status = http.StatusUnauthorized
		case errors.Is(err, service.ErrTooManyAttempts):
			status = http.StatusTooManyRequests
		default:
			logger.Get().Error("Failed to verify code",
				zap.String("ray_id", rayID),
				zap.Error(err),
			)
		}
		return c.Status(status).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID,
		})
	}

	return c.Status(http.StatusOK).JSON(verifyResponse{Verified: true})
}

func rayID(c *fiber.Ctx) string {
	id, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return id
}
