package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gabriel/reading-tracker/backend/internal/models"
	"github.com/gabriel/reading-tracker/backend/internal/notifications"
	"github.com/gabriel/reading-tracker/backend/internal/updates"
)

const (
	DefaultUpdateBatchSize = 3
	defaultFetchTimeout    = 20 * time.Second
)

type UpdateStore interface {
	ListWaiting(ctx context.Context) ([]models.Book, error)
	ApplyChapterDecision(ctx context.Context, bookID string, decision updates.Decision, checkedAt time.Time) error
}

type LatestFetcher interface {
	FetchLatest(ctx context.Context, rawURL string) (models.ChapterUpdate, error)
}

type Updater struct {
	store    UpdateStore
	fetcher  LatestFetcher
	notifier notifications.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewUpdater(store UpdateStore, fetcher LatestFetcher, notifier notifications.Notifier, logger *slog.Logger) *Updater {
	if notifier == nil {
		notifier = notifications.NoopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Updater{
		store:    store,
		fetcher:  fetcher,
		notifier: notifier,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Run checks every waiting book for a newer chapter.
func (u *Updater) Run(ctx context.Context, opts Options) (Report, error) {
	books, err := u.store.ListWaiting(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load waiting books: %w", err)
	}

	opts = opts.withDefaults(DefaultUpdateBatchSize)
	u.logger.Info("update sweep started", "books", len(books), "batchSize", opts.BatchSize)

	results, runErr := runBatches(ctx, books, opts, u.Refresh)
	report := newReport(results)
	if runErr != nil {
		if !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
			return report, runErr
		}
		report.Cancelled = true
	}

	u.logger.Info("update sweep finished",
		"updated", report.Count(OutcomeUpdated),
		"noChange", report.Count(OutcomeSkippedNoChange),
		"emptyPayload", report.Count(OutcomeSkippedEmptyPayload),
		"noSource", report.Count(OutcomeSkippedNoSource),
		"errors", report.Count(OutcomeError),
		"cancelled", report.Cancelled,
	)
	u.notifyUpdated(ctx, report)

	return report, nil
}

// Refresh checks a single book. The upstream request is not tied to ctx's
// cancellation; a cancelled ctx only keeps the result from being written.
func (u *Updater) Refresh(ctx context.Context, book models.Book) ItemResult {
	result := ItemResult{BookID: book.ID, Title: book.Title}

	if strings.TrimSpace(book.SourceURL) == "" {
		result.Outcome = OutcomeSkippedNoSource
		return result
	}

	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultFetchTimeout)
	fetched, err := u.fetcher.FetchLatest(fetchCtx, book.SourceURL)
	cancel()
	if err != nil {
		u.logger.Warn("latest chapter fetch failed", "bookId", book.ID, "url", book.SourceURL, "error", err)
		return failed(result, err)
	}

	decision := updates.Decide(updates.StateOf(book), fetched)
	switch decision.Reason {
	case updates.ReasonEmptyPayload:
		u.logger.Warn("latest chapter payload empty", "bookId", book.ID, "url", book.SourceURL)
		result.Outcome = OutcomeSkippedEmptyPayload
		return result
	case updates.ReasonNoChange:
		result.Outcome = OutcomeSkippedNoChange
		return result
	}

	if err := ctx.Err(); err != nil {
		return discarded(result, err)
	}
	if err := u.store.ApplyChapterDecision(ctx, book.ID, decision, u.now()); err != nil {
		u.logger.Warn("apply chapter update failed", "bookId", book.ID, "error", err)
		return failed(result, err)
	}

	u.logger.Debug("book updated", "bookId", book.ID, "changed", decision.Changed, "chapter", decision.Next.ChapterLabel)
	result.Outcome = OutcomeUpdated
	result.Changed = decision.Changed
	return result
}

func (u *Updater) notifyUpdated(ctx context.Context, report Report) {
	updated := report.ResultsWith(OutcomeUpdated)
	if len(updated) == 0 {
		return
	}

	titles := make([]string, 0, len(updated))
	ids := make([]string, 0, len(updated))
	for _, item := range updated {
		titles = append(titles, item.Title)
		ids = append(ids, item.BookID)
	}

	message := notifications.Message{
		Title: fmt.Sprintf("%d new chapter update(s)", len(updated)),
		Body:  strings.Join(titles, ", "),
		Context: map[string]interface{}{
			"bookIds": ids,
			"counts":  report.Counts,
		},
	}
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := u.notifier.Notify(notifyCtx, message); err != nil {
		u.logger.Warn("update notification failed", "error", err)
	}
}

func failed(result ItemResult, err error) ItemResult {
	result.Outcome = OutcomeError
	result.Error = err.Error()
	return result
}

func discarded(result ItemResult, err error) ItemResult {
	result.Outcome = OutcomeDiscarded
	result.Error = err.Error()
	return result
}
