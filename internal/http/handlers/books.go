package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gabriel/reading-tracker/backend/internal/models"
	"github.com/gabriel/reading-tracker/backend/internal/sweep"
)

type BookStore interface {
	List(ctx context.Context) ([]models.Book, error)
	GetByID(ctx context.Context, id string) (*models.Book, error)
	UpsertMetadata(ctx context.Context, id string, sourceURL string, status string, metadata models.Metadata) (*models.Book, error)
	SetStatus(ctx context.Context, bookID string, status string) error
}

type BookRefresher interface {
	Refresh(ctx context.Context, book models.Book) sweep.ItemResult
}

type CoverRehoster interface {
	Rehost(ctx context.Context, imageURL string) string
}

type BooksHandler struct {
	store     BookStore
	scraper   Scraper
	refresher BookRefresher
	mirror    CoverRehoster
	cache     *ScanCache
}

func NewBooksHandler(store BookStore, scraper Scraper, refresher BookRefresher, mirror CoverRehoster, cache *ScanCache) *BooksHandler {
	return &BooksHandler{store: store, scraper: scraper, refresher: refresher, mirror: mirror, cache: cache}
}

func (h *BooksHandler) List(c *fiber.Ctx) error {
	books, err := h.store.List(c.Context())
	if err != nil {
		return storeError(c, err, "failed to list books")
	}
	return c.JSON(fiber.Map{"items": books})
}

func (h *BooksHandler) GetByID(c *fiber.Ctx) error {
	book, err := h.store.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return storeError(c, err, "failed to get book")
	}
	if book == nil {
		return errorJSON(c, fiber.StatusNotFound, "book not found")
	}
	return c.JSON(book)
}

type importBookRequest struct {
	SourceURL string `json:"sourceUrl"`
	Status    string `json:"status"`
}

// Import scrapes a series page and stores it, matching an existing book by
// its source URL.
func (h *BooksHandler) Import(c *fiber.Ctx) error {
	var req importBookRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid json body")
	}
	req.SourceURL = strings.TrimSpace(req.SourceURL)
	if req.SourceURL == "" {
		return errorJSON(c, fiber.StatusBadRequest, "sourceUrl is required")
	}
	if req.Status != "" && !models.ValidStatus(req.Status) {
		return errorJSON(c, fiber.StatusBadRequest, "invalid status")
	}

	ctx := c.Context()
	metadata, err := h.scraper.FetchMetadata(ctx, req.SourceURL)
	if err != nil {
		return scrapeError(c, err)
	}
	if metadata.CoverImageURL != nil {
		rehosted := h.mirror.Rehost(ctx, *metadata.CoverImageURL)
		metadata.CoverImageURL = &rehosted
	}

	book, err := h.store.UpsertMetadata(ctx, "", req.SourceURL, req.Status, metadata)
	if err != nil {
		return storeError(c, err, "failed to save book")
	}
	h.cache.Invalidate()

	return c.Status(fiber.StatusCreated).JSON(book)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *BooksHandler) SetStatus(c *fiber.Ctx) error {
	var req setStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid json body")
	}
	if !models.ValidStatus(req.Status) {
		return errorJSON(c, fiber.StatusBadRequest, "invalid status")
	}

	if err := h.store.SetStatus(c.Context(), c.Params("id"), req.Status); err != nil {
		return storeError(c, err, "failed to set status")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Refresh checks one book for a newer chapter and applies it.
func (h *BooksHandler) Refresh(c *fiber.Ctx) error {
	ctx := c.Context()
	book, err := h.store.GetByID(ctx, c.Params("id"))
	if err != nil {
		return storeError(c, err, "failed to get book")
	}
	if book == nil {
		return errorJSON(c, fiber.StatusNotFound, "book not found")
	}

	result := h.refresher.Refresh(ctx, *book)
	if result.Outcome == sweep.OutcomeError {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": result.Error, "result": result})
	}

	if result.Outcome == sweep.OutcomeUpdated {
		refreshed, err := h.store.GetByID(ctx, book.ID)
		if err != nil {
			return storeError(c, err, "failed to get book")
		}
		if refreshed != nil {
			book = refreshed
		}
	}

	return c.JSON(fiber.Map{"result": result, "book": book})
}
