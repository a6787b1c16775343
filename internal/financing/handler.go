package financing

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/dealerhub/dealerhub/internal/validation"
)

// Handler serves the payment calculator.
type Handler struct{}

// NewHandler constructs a financing handler.
func NewHandler() *Handler {
	return &Handler{}
}

type estimateQuery struct {
	Price       float64 `query:"price" validate:"gt=0"`
	DownPayment float64 `query:"downPayment"`
	Rate        float64 `query:"rate" validate:"gte=0,lte=15"`
	Term        int     `query:"term" validate:"required"`
}

type estimateResponse struct {
	Price                 float64 `json:"price"`
	DownPayment           float64 `json:"downPayment"`
	Rate                  float64 `json:"rate"`
	Term                  int     `json:"term"`
	LoanAmount            float64 `json:"loanAmount"`
	MonthlyPayment        float64 `json:"monthlyPayment"`
	TotalInterest         float64 `json:"totalInterest"`
	DisplayMonthlyPayment int64   `json:"displayMonthlyPayment"`
	DisplayTotalInterest  int64   `json:"displayTotalInterest"`
}

// Estimate quotes a monthly payment.
func (h *Handler) Estimate(c *fiber.Ctx) error {
	var q estimateQuery
	if err := c.QueryParser(&q); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if details := validation.Struct(q); details != nil {
		return validation.Respond(c, details)
	}
	if !finite(q.Price) || !finite(q.DownPayment) {
		return validation.Respond(c, []validation.FieldError{{Field: "price", Message: "price and downPayment must be finite numbers"}})
	}
	if !ValidTerm(q.Term) {
		return validation.Respond(c, []validation.FieldError{{Field: "term", Message: fmt.Sprintf("term must be one of %v", Terms)}})
	}
	if !ValidRate(q.Rate) {
		return validation.Respond(c, []validation.FieldError{{Field: "rate", Message: "rate must be a multiple of 0.25"}})
	}

	down := ClampDownPayment(q.Price, q.DownPayment)
	res := Estimate(q.Price, down, q.Rate, q.Term)
	return c.Status(http.StatusOK).JSON(estimateResponse{
		Price:                 q.Price,
		DownPayment:           down,
		Rate:                  q.Rate,
		Term:                  q.Term,
		LoanAmount:            res.LoanAmount,
		MonthlyPayment:        res.MonthlyPayment,
		TotalInterest:         res.TotalInterest,
		DisplayMonthlyPayment: int64(math.Round(res.MonthlyPayment)),
		DisplayTotalInterest:  int64(math.Round(res.TotalInterest)),
	})
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Options describes the calculator's sliders.
func (h *Handler) Options(c *fiber.Ctx) error {
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"terms":    Terms,
		"maxRate":  MaxRatePercent,
		"rateStep": RateStepPercent,
	})
}
