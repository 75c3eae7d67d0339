package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gabriel/reading-tracker/backend/internal/models"
)

type Scraper interface {
	FetchMetadata(ctx context.Context, rawURL string) (models.Metadata, error)
	FetchLatest(ctx context.Context, rawURL string) (models.ChapterUpdate, error)
}

type ScrapeHandler struct {
	scraper Scraper
}

func NewScrapeHandler(scraper Scraper) *ScrapeHandler {
	return &ScrapeHandler{scraper: scraper}
}

func (h *ScrapeHandler) Metadata(c *fiber.Ctx) error {
	target := strings.TrimSpace(c.Query("url"))
	if target == "" {
		return errorJSON(c, fiber.StatusBadRequest, "url is required")
	}

	metadata, err := h.scraper.FetchMetadata(c.Context(), target)
	if err != nil {
		return scrapeError(c, err)
	}
	if metadata.Genres == nil {
		metadata.Genres = []string{}
	}

	return c.JSON(fiber.Map{"metadata": metadata})
}

func (h *ScrapeHandler) Latest(c *fiber.Ctx) error {
	target := strings.TrimSpace(c.Query("url"))
	if target == "" {
		return errorJSON(c, fiber.StatusBadRequest, "url is required")
	}

	update, err := h.scraper.FetchLatest(c.Context(), target)
	if err != nil {
		return scrapeError(c, err)
	}

	return c.JSON(latestResponse(update))
}

func latestResponse(update models.ChapterUpdate) fiber.Map {
	var uploadedAt *string
	if update.LastUploadedAt != nil {
		formatted := update.LastUploadedAt.UTC().Format("2006-01-02T15:04:05.000Z07:00")
		uploadedAt = &formatted
	}

	return fiber.Map{
		"latest_chapter":   update.LatestChapter,
		"last_uploaded_at": uploadedAt,
		"chapter_count":    update.ChapterCount,
	}
}
