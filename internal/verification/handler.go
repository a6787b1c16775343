package verification

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dealerhub/dealerhub/internal/phone"
	"github.com/dealerhub/dealerhub/internal/validation"
)

// Handler exposes the verification endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a verification HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type sendRequest struct {
	Phone     string `json:"phone" validate:"required"`
	FirstName string `json:"firstName" validate:"max=100"`
}

type checkRequest struct {
	Phone string `json:"phone" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

// Send issues a code. The code itself is never part of the response.
func (h *Handler) Send(c *fiber.Ctx) error {
	var req sendRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if details := validation.Struct(req); details != nil {
		return validation.Respond(c, details)
	}
	if err := h.service.Send(c.UserContext(), req.Phone, req.FirstName); err != nil {
		return ErrorResponse(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "verification code sent"})
}

// Check confirms a code.
func (h *Handler) Check(c *fiber.Ctx) error {
	var req checkRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if details := validation.Struct(req); details != nil {
		return validation.Respond(c, details)
	}
	if err := h.service.Check(c.UserContext(), req.Phone, req.Code); err != nil {
		return ErrorResponse(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"verified": true})
}

// Status lets multi-step forms skip re-verification.
func (h *Handler) Status(c *fiber.Ctx) error {
	raw := c.Query("phone")
	if raw == "" {
		return fiber.NewError(http.StatusBadRequest, "phone is required")
	}
	ok, err := h.service.IsVerified(c.UserContext(), raw)
	if err != nil {
		return ErrorResponse(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"phone": phone.Normalize(raw), "verified": ok})
}

// ErrorResponse renders gate errors as 400 {error, code}. Anything unclassified is
// returned as is for the server error handler to log and mask.
func ErrorResponse(c *fiber.Ctx, err error) error {
	if sentinel, code := Classify(err); sentinel != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": sentinel.Error(), "code": code})
	}
	return err
}
