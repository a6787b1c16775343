package appointment

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dealerhub/dealerhub/internal/validation"
	"github.com/dealerhub/dealerhub/internal/verification"
)

// Handler exposes appointment endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs an appointment handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	Kind        string `json:"kind" validate:"required,oneof=test_drive service financing"`
	FirstName   string `json:"firstName" validate:"required,max=100"`
	LastName    string `json:"lastName" validate:"required,max=100"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone" validate:"required"`
	VehicleID   string `json:"vehicleId" validate:"max=64"`
	PreferredAt string `json:"preferredAt" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Notes       string `json:"notes" validate:"max=2000"`
}

// Create accepts an appointment request.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if details := validation.Struct(req); details != nil {
		return validation.Respond(c, details)
	}
	preferredAt, err := time.Parse(time.RFC3339, req.PreferredAt)
	if err != nil {
		return validation.Respond(c, []validation.FieldError{{Field: "preferredAt", Message: "preferredAt must be an RFC3339 timestamp"}})
	}

	created, err := h.service.Request(c.UserContext(), Input{
		Kind:        req.Kind,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		VehicleID:   req.VehicleID,
		PreferredAt: preferredAt,
		Notes:       req.Notes,
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrPreferredTimeInPast):
		return validation.Respond(c, []validation.FieldError{{Field: "preferredAt", Message: err.Error()}})
	case errors.Is(err, verification.ErrPhoneNotVerified):
		return verification.ErrorResponse(c, err)
	default:
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"id":          created.ID,
		"status":      created.Status,
		"preferredAt": created.PreferredAt,
	})
}
