package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dealerhub/dealerhub/internal/verification"
)

// RegisterVerificationRoutes wires phone verification endpoints. sendLimit runs before
// each send.
func RegisterVerificationRoutes(r fiber.Router, h *verification.Handler, sendLimit fiber.Handler) {
	g := r.Group("/verify")
	g.Post("/send", sendLimit, h.Send)
	g.Post("/check", h.Check)
	g.Get("/status", h.Status)
}
