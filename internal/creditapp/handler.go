package creditapp

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dealerhub/dealerhub/internal/validation"
	"github.com/dealerhub/dealerhub/internal/verification"
)

const dateLayout = "2006-01-02"

// Handler exposes credit application endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a credit application handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createRequest struct {
	FirstName      string  `json:"firstName" validate:"required,max=100"`
	LastName       string  `json:"lastName" validate:"required,max=100"`
	Email          string  `json:"email" validate:"required,email"`
	Phone          string  `json:"phone" validate:"required"`
	DateOfBirth    string  `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	AnnualIncome   float64 `json:"annualIncome" validate:"gte=0"`
	Employer       string  `json:"employer" validate:"max=100"`
	HousingPayment float64 `json:"housingPayment" validate:"gte=0"`
	VehicleID      string  `json:"vehicleId" validate:"max=64"`
	DownPayment    float64 `json:"downPayment" validate:"gte=0"`
}

// Create accepts a credit application.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if details := validation.Struct(req); details != nil {
		return validation.Respond(c, details)
	}
	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		return validation.Respond(c, []validation.FieldError{{Field: "dateOfBirth", Message: "dateOfBirth must match the format " + dateLayout}})
	}

	created, err := h.service.Apply(c.UserContext(), Input{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		DateOfBirth:    dob,
		AnnualIncome:   req.AnnualIncome,
		Employer:       req.Employer,
		HousingPayment: req.HousingPayment,
		VehicleID:      req.VehicleID,
		DownPayment:    req.DownPayment,
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrUnderage):
		return validation.Respond(c, []validation.FieldError{{Field: "dateOfBirth", Message: err.Error()}})
	case errors.Is(err, ErrNegativeAmount):
		return validation.Respond(c, []validation.FieldError{{Field: "", Message: err.Error()}})
	case errors.Is(err, verification.ErrPhoneNotVerified):
		return verification.ErrorResponse(c, err)
	default:
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"id": created.ID, "status": created.Status})
}
