package consignment

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dealerhub/dealerhub/internal/validation"
	"github.com/dealerhub/dealerhub/internal/verification"
)

// Handler exposes consignment endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a consignment handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create accepts the public consignment form.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if details := validation.Struct(req); details != nil {
		return validation.Respond(c, details)
	}
	created, err := h.service.Submit(c.UserContext(), req.input())
	if err != nil {
		if errors.Is(err, verification.ErrPhoneNotVerified) {
			return verification.ErrorResponse(c, err)
		}
		return err
	}
	return c.Status(http.StatusCreated).JSON(CreateResponse{ID: created.ID, Status: created.Status})
}
