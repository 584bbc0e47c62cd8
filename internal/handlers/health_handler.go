package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler reports service liveness, including a bounded database ping.
type HealthHandler struct {
	db        *gorm.DB
	startedAt time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db, startedAt: time.Now()}
}

// HandleCheck answers UP when the database responds to a ping within two
// seconds, DOWN with 503 otherwise.
func (h *HealthHandler) HandleCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status := fiber.StatusOK
	body := fiber.Map{
		"status":    "UP",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  "connected",
		"uptime":    time.Since(h.startedAt).Seconds(),
	}

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		status = fiber.StatusServiceUnavailable
		body["status"] = "DOWN"
		body["database"] = "disconnected"
	}
	return c.Status(status).JSON(body)
}
