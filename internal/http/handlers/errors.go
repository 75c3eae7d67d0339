package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/gabriel/reading-tracker/backend/internal/repository"
	"github.com/gabriel/reading-tracker/backend/internal/scrape/fetch"
)

func errorJSON(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

// scrapeError maps a failed scrape to a response. Upstream failures are 502
// so callers can tell them apart from bad input.
func scrapeError(c *fiber.Ctx, err error) error {
	var fetchErr *fetch.FetchError
	switch {
	case errors.Is(err, fetch.ErrInvalidURL):
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	case errors.As(err, &fetchErr):
		return errorJSON(c, fiber.StatusBadGateway, fetchErr.Error())
	default:
		slog.Error("scrape failed", "path", c.Path(), "error", err)
		return errorJSON(c, fiber.StatusInternalServerError, "failed to scrape page")
	}
}

func storeError(c *fiber.Ctx, err error, fallback string) error {
	var materialization *repository.MaterializationError
	if errors.As(err, &materialization) {
		if errors.Is(err, repository.ErrBookNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "book not found")
		}
		slog.Error("write rejected", "op", materialization.Op, "bookId", materialization.BookID, "error", materialization.Err)
		return errorJSON(c, fiber.StatusInternalServerError, materialization.Error())
	}
	slog.Error(fallback, "error", err)
	return errorJSON(c, fiber.StatusInternalServerError, fallback)
}
