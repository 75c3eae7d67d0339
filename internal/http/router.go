package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/gabriel/reading-tracker/backend/internal/app"
	"github.com/gabriel/reading-tracker/backend/internal/http/handlers"
)

func NewServer(services *app.Services) *fiber.App {
	cfg := services.Config

	server := fiber.New(fiber.Config{
		AppName: cfg.AppName,
	})

	server.Use(recover.New())

	cache := handlers.NewScanCache(cfg.Tuning.SimilarityCacheTTL)
	health := handlers.NewHealthHandler(services.DB, cfg.AppName)
	scrape := handlers.NewScrapeHandler(services.Scraper)
	books := handlers.NewBooksHandler(services.Books, services.Scraper, services.Updater, services.Mirror, cache)
	sweeps := handlers.NewSweepsHandler(services.Updater, services.Covers, services.UpdateSweepOptions(), services.CoverSweepOptions())
	similar := handlers.NewSimilarityHandler(services.Books, cache, cfg.Tuning.GenreSimilarityThreshold, cfg.Tuning.TitleSimilarityThreshold)

	if cfg.CoverMirrorDir != "" {
		server.Static("/covers", cfg.CoverMirrorDir)
	}
	server.Get("/health", health.Check)
	server.Get("/v1/health", health.Check)

	v1 := server.Group("/v1")
	v1.Get("/scrape/metadata", scrape.Metadata)
	v1.Get("/scrape/latest", scrape.Latest)
	v1.Get("/books", books.List)
	v1.Post("/books", books.Import)
	v1.Get("/books/:id", books.GetByID)
	v1.Put("/books/:id/status", books.SetStatus)
	v1.Post("/books/:id/refresh", books.Refresh)
	v1.Post("/sweeps/updates", sweeps.Updates)
	v1.Post("/sweeps/covers", sweeps.Covers)
	v1.Get("/similarity/genres", similar.Genres)
	v1.Get("/similarity/titles", similar.Titles)
	v1.Post("/genres/merge", similar.MergeGenre)

	return server
}
