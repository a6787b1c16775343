package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dealerhub/dealerhub/internal/appointment"
	"github.com/dealerhub/dealerhub/internal/consignment"
	"github.com/dealerhub/dealerhub/internal/creditapp"
)

// LeadHandlers groups the guarded lead form handlers.
type LeadHandlers struct {
	Consignments *consignment.Handler
	Appointments *appointment.Handler
	Credit       *creditapp.Handler
}

// RegisterLeadRoutes wires the lead forms behind the idempotency middleware.
func RegisterLeadRoutes(r fiber.Router, h LeadHandlers, idempotency fiber.Handler) {
	r.Post("/consignments", idempotency, h.Consignments.Create)
	r.Post("/appointments", idempotency, h.Appointments.Create)
	r.Post("/credit-applications", idempotency, h.Credit.Create)
}
