package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dealerhub/dealerhub/internal/financing"
)

// RegisterFinancingRoutes wires the payment estimate endpoints.
func RegisterFinancingRoutes(r fiber.Router, h *financing.Handler) {
	r.Get("/financing/estimate", h.Estimate)
	r.Get("/financing/options", h.Options)
}
