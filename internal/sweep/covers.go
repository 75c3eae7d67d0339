package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gabriel/reading-tracker/backend/internal/models"
)

const DefaultCoverBatchSize = 10

type CoverStore interface {
	ListWithCovers(ctx context.Context) ([]models.Book, error)
	SetCoverURL(ctx context.Context, bookID string, coverURL string) error
}

type MetadataFetcher interface {
	FetchMetadata(ctx context.Context, rawURL string) (models.Metadata, error)
}

type CoverMirror interface {
	Accessible(ctx context.Context, imageURL string) bool
	Rehost(ctx context.Context, imageURL string) string
}

type CoverChecker struct {
	store   CoverStore
	fetcher MetadataFetcher
	mirror  CoverMirror
	logger  *slog.Logger
}

func NewCoverChecker(store CoverStore, fetcher MetadataFetcher, mirror CoverMirror, logger *slog.Logger) *CoverChecker {
	if logger == nil {
		logger = slog.Default()
	}
	return &CoverChecker{store: store, fetcher: fetcher, mirror: mirror, logger: logger}
}

// Run verifies every stored cover. A cover that no longer loads is replaced
// by the one currently on the book's source page, re-hosted through the
// mirror when possible.
func (c *CoverChecker) Run(ctx context.Context, opts Options) (Report, error) {
	books, err := c.store.ListWithCovers(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load books with covers: %w", err)
	}

	opts = opts.withDefaults(DefaultCoverBatchSize)
	c.logger.Info("cover sweep started", "books", len(books), "batchSize", opts.BatchSize)

	results, runErr := runBatches(ctx, books, opts, c.Check)
	report := newReport(results)
	if runErr != nil {
		if !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
			return report, runErr
		}
		report.Cancelled = true
	}

	c.logger.Info("cover sweep finished",
		"accessible", report.Count(OutcomeCoverAccessible),
		"refreshed", report.Count(OutcomeCoverRefreshed),
		"broken", report.Count(OutcomeCoverBroken),
		"errors", report.Count(OutcomeError),
		"cancelled", report.Cancelled,
	)
	return report, nil
}

func (c *CoverChecker) Check(ctx context.Context, book models.Book) ItemResult {
	result := ItemResult{BookID: book.ID, Title: book.Title}

	if book.CoverImageURL == nil || strings.TrimSpace(*book.CoverImageURL) == "" {
		result.Outcome = OutcomeSkippedNoCover
		return result
	}

	requestCtx := context.WithoutCancel(ctx)
	if c.mirror.Accessible(requestCtx, *book.CoverImageURL) {
		result.Outcome = OutcomeCoverAccessible
		return result
	}

	if strings.TrimSpace(book.SourceURL) == "" {
		result.Outcome = OutcomeSkippedNoSource
		return result
	}

	fetchCtx, cancel := context.WithTimeout(requestCtx, defaultFetchTimeout)
	metadata, err := c.fetcher.FetchMetadata(fetchCtx, book.SourceURL)
	cancel()
	if err != nil {
		c.logger.Warn("cover metadata fetch failed", "bookId", book.ID, "url", book.SourceURL, "error", err)
		return failed(result, err)
	}

	if metadata.CoverImageURL == nil || *metadata.CoverImageURL == *book.CoverImageURL {
		result.Outcome = OutcomeCoverBroken
		return result
	}

	coverURL := c.mirror.Rehost(requestCtx, *metadata.CoverImageURL)

	if err := ctx.Err(); err != nil {
		return discarded(result, err)
	}
	if err := c.store.SetCoverURL(ctx, book.ID, coverURL); err != nil {
		c.logger.Warn("set cover url failed", "bookId", book.ID, "error", err)
		return failed(result, err)
	}

	result.Outcome = OutcomeCoverRefreshed
	return result
}
