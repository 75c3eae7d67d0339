// Package app wires the scraping, storage and sweep services from config.
package app

import (
	"database/sql"
	"log/slog"

	"github.com/gabriel/reading-tracker/backend/internal/config"
	"github.com/gabriel/reading-tracker/backend/internal/covers"
	"github.com/gabriel/reading-tracker/backend/internal/notifications"
	"github.com/gabriel/reading-tracker/backend/internal/repository"
	"github.com/gabriel/reading-tracker/backend/internal/scrape"
	"github.com/gabriel/reading-tracker/backend/internal/scrape/fetch"
	"github.com/gabriel/reading-tracker/backend/internal/sweep"
)

type Services struct {
	Config  config.Config
	DB      *sql.DB
	Books   *repository.BookRepository
	Scraper *scrape.Service
	Mirror  *covers.Mirror
	Updater *sweep.Updater
	Covers  *sweep.CoverChecker
	Logger  *slog.Logger
}

func New(cfg config.Config, db *sql.DB, logger *slog.Logger) (*Services, error) {
	if logger == nil {
		logger = slog.Default()
	}

	notifier, err := notifications.FromConfig(cfg.NotifyWebhookURL, logger)
	if err != nil {
		return nil, err
	}

	books := repository.NewBookRepository(db)
	scraper := scrape.NewService(fetch.New(fetch.Options{
		UserAgent: cfg.FetchUserAgent,
		Timeout:   cfg.FetchTimeout,
	}), logger)
	mirror := covers.NewMirror(covers.Options{
		Dir:       cfg.CoverMirrorDir,
		BaseURL:   cfg.CoverMirrorBaseURL,
		UserAgent: cfg.FetchUserAgent,
		Timeout:   cfg.FetchTimeout,
	}, logger)

	return &Services{
		Config:  cfg,
		DB:      db,
		Books:   books,
		Scraper: scraper,
		Mirror:  mirror,
		Updater: sweep.NewUpdater(books, scraper, notifier, logger),
		Covers:  sweep.NewCoverChecker(books, scraper, mirror, logger),
		Logger:  logger,
	}, nil
}

func (s *Services) UpdateSweepOptions() sweep.Options {
	return sweep.Options{BatchSize: s.Config.Tuning.SweepBatchSize, Delay: s.Config.Tuning.BatchDelay}
}

func (s *Services) CoverSweepOptions() sweep.Options {
	return sweep.Options{BatchSize: s.Config.Tuning.CoverBatchSize, Delay: s.Config.Tuning.BatchDelay}
}
