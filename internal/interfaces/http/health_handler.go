package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler rutas públicas de estado.
type HealthHandler struct {
	name    string
	version string
	env     string
}

// NewHealthHandler construye el handler.
func NewHealthHandler(name, version, env string) *HealthHandler {
	return &HealthHandler{name: name, version: version, env: env}
}

// Root godoc
// @Summary  Información del servicio
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": h.name + " API",
		"version": h.version,
		"status":  "running",
	})
}

// Health godoc
// @Summary  Estado del servicio
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"env":       h.env,
	})
}
