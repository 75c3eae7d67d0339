package handlers

import (
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
)

type HealthHandler struct {
	db      *sql.DB
	appName string
}

func NewHealthHandler(db *sql.DB, appName string) *HealthHandler {
	return &HealthHandler{db: db, appName: appName}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if err := h.db.PingContext(c.Context()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "degraded",
			"app":    h.appName,
			"db":     "down",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(fiber.Map{
		"status": "ok",
		"app":    h.appName,
		"db":     "up",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
