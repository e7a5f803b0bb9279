package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Pinger verificación de la dependencia de almacenamiento (p.ej. *pgxpool.Pool).
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler estado del servicio. Sin Pinger (store en memoria) siempre responde ok.
type HealthHandler struct {
	service string
	storage string
	db      Pinger
}

func NewHealthHandler(service, storage string, db Pinger) *HealthHandler {
	return &HealthHandler{service: service, storage: storage, db: db}
}

// Check godoc
// @Summary  Health check
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Failure  503  {object}  map[string]string
// @Router   /health [get]
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"status": "degraded", "service": h.service, "storage": h.storage,
			})
		}
	}
	return c.JSON(fiber.Map{"status": "ok", "service": h.service, "storage": h.storage})
}
