package handlers

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gabriel/reading-tracker/backend/internal/models"
	"github.com/gabriel/reading-tracker/backend/internal/similarity"
)

type SimilarityStore interface {
	ListBookGenres(ctx context.Context) ([][]string, error)
	ListTitles(ctx context.Context) ([]models.BookTitle, error)
	MergeGenre(ctx context.Context, from string, into string) (int64, error)
}

type SimilarityHandler struct {
	store          SimilarityStore
	cache          *ScanCache
	genreThreshold float64
	titleThreshold float64
}

func NewSimilarityHandler(store SimilarityStore, cache *ScanCache, genreThreshold float64, titleThreshold float64) *SimilarityHandler {
	if genreThreshold <= 0 {
		genreThreshold = similarity.DefaultGenreThreshold
	}
	if titleThreshold <= 0 {
		titleThreshold = similarity.DefaultTitleThreshold
	}
	return &SimilarityHandler{
		store:          store,
		cache:          cache,
		genreThreshold: genreThreshold,
		titleThreshold: titleThreshold,
	}
}

func (h *SimilarityHandler) Genres(c *fiber.Ctx) error {
	ctx := c.Context()
	if c.QueryBool("fresh") {
		h.cache.Invalidate()
	}

	candidates, cached, err := h.cache.Genres(func() ([]similarity.GenreCandidate, error) {
		grouped, err := h.store.ListBookGenres(ctx)
		if err != nil {
			return nil, err
		}
		return similarity.GenreCandidates(similarity.CountGenreUsage(grouped), h.genreThreshold), nil
	})
	if err != nil {
		return storeError(c, err, "failed to scan genres")
	}

	return c.JSON(fiber.Map{"items": candidates, "cached": cached, "threshold": h.genreThreshold})
}

func (h *SimilarityHandler) Titles(c *fiber.Ctx) error {
	ctx := c.Context()
	if c.QueryBool("fresh") {
		h.cache.Invalidate()
	}

	candidates, cached, err := h.cache.Titles(func() ([]similarity.TitleCandidate, error) {
		titles, err := h.store.ListTitles(ctx)
		if err != nil {
			return nil, err
		}
		return similarity.TitleCandidates(titles, h.titleThreshold), nil
	})
	if err != nil {
		return storeError(c, err, "failed to scan titles")
	}

	return c.JSON(fiber.Map{"items": candidates, "cached": cached, "threshold": h.titleThreshold})
}

type mergeGenreRequest struct {
	From string `json:"from"`
	Into string `json:"into"`
}

func (h *SimilarityHandler) MergeGenre(c *fiber.Ctx) error {
	var req mergeGenreRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "invalid json body")
	}
	req.From = strings.TrimSpace(req.From)
	req.Into = strings.TrimSpace(req.Into)
	if req.From == "" || req.Into == "" {
		return errorJSON(c, fiber.StatusBadRequest, "from and into are required")
	}

	touched, err := h.store.MergeGenre(c.Context(), req.From, req.Into)
	if err != nil {
		return storeError(c, err, "failed to merge genre")
	}
	h.cache.Invalidate()

	return c.JSON(fiber.Map{"from": req.From, "into": req.Into, "updated": touched})
}
