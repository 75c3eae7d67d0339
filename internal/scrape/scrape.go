// Package scrape turns a series page URL into metadata or a chapter update.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gabriel/reading-tracker/backend/internal/models"
	"github.com/gabriel/reading-tracker/backend/internal/scrape/extract"
	"github.com/gabriel/reading-tracker/backend/internal/scrape/fetch"
	"github.com/gabriel/reading-tracker/backend/internal/scrape/htmldoc"
	"github.com/gabriel/reading-tracker/backend/internal/scrape/site"
)

type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetch.Page, error)
}

type Service struct {
	fetcher PageFetcher
	logger  *slog.Logger
}

func NewService(fetcher PageFetcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{fetcher: fetcher, logger: logger}
}

func (s *Service) FetchMetadata(ctx context.Context, rawURL string) (models.Metadata, error) {
	page, doc, profile, err := s.load(ctx, rawURL)
	if err != nil {
		return models.Metadata{}, err
	}

	metadata := extract.Metadata(doc, profile, page.URL)
	logger := s.logger.With("url", page.URL.String(), "profile", profile.String())
	if metadata.Title == extract.UnknownTitle {
		logger.Warn("title not found on page")
	}
	if metadata.CoverImageURL == nil {
		logger.Debug("cover image not found on page")
	}
	if len(metadata.Genres) == 0 {
		logger.Debug("genres not found on page")
	}
	if metadata.OriginalLanguage == nil {
		logger.Debug("original language not found on page")
	}

	return metadata, nil
}

func (s *Service) FetchLatest(ctx context.Context, rawURL string) (models.ChapterUpdate, error) {
	page, doc, profile, err := s.load(ctx, rawURL)
	if err != nil {
		return models.ChapterUpdate{}, err
	}

	update := extract.Latest(doc, profile)
	if strings.TrimSpace(update.LatestChapter) == "" && update.LastUploadedAt == nil && update.ChapterCount == nil {
		s.logger.Warn("no chapter data found on page", "url", page.URL.String(), "profile", profile.String())
	}

	return update, nil
}

func (s *Service) load(ctx context.Context, rawURL string) (*fetch.Page, htmldoc.Document, site.Profile, error) {
	page, err := s.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, nil, site.Unrecognized, err
	}

	doc, err := htmldoc.ParseString(page.Body)
	if err != nil {
		return nil, nil, site.Unrecognized, fmt.Errorf("parse page %s: %w", page.URL, err)
	}

	// Classification uses the final host so a mirror retry picks the mirror's layout.
	profile := site.Classify(page.Host())
	s.logger.Debug("page classified", "url", page.URL.String(), "profile", profile.String())

	return page, doc, profile, nil
}
