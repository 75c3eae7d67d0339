package repository

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/gabriel/reading-tracker/backend/internal/database"
	"github.com/gabriel/reading-tracker/backend/internal/models"
	"github.com/gabriel/reading-tracker/backend/internal/updates"
)

func newTestRepository(t *testing.T) *BookRepository {
	t.Helper()

	db, err := database.Open(filepath.Join(t.TempDir(), "test.sqlite"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.ApplyMigrations(context.Background(), db, database.MigrationSource("")); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return NewBookRepository(db)
}

func strPtr(value string) *string {
	return &value
}

func intPtr(value int) *int {
	return &value
}

func TestUpsertMetadataCreatesAndUpdates(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created, err := repo.UpsertMetadata(ctx, "", "https://bato.ing/series/1", models.StatusWaiting, models.Metadata{
		Title:            "Series One",
		Description:      "First",
		CoverImageURL:    strPtr("https://img/1.jpg"),
		Genres:           []string{"Action", "Drama"},
		OriginalLanguage: strPtr("Korean"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.Status != models.StatusWaiting {
		t.Fatalf("unexpected created book %+v", created)
	}
	if !reflect.DeepEqual(created.Genres, []string{"Action", "Drama"}) {
		t.Fatalf("expected genres in page order, got %v", created.Genres)
	}

	updated, err := repo.UpsertMetadata(ctx, "", "https://bato.ing/series/1", "", models.Metadata{
		Title:       "Series One (Renamed)",
		Description: "Second",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("expected same book matched by source url, got %s and %s", created.ID, updated.ID)
	}
	if updated.Title != "Series One (Renamed)" || updated.Status != models.StatusWaiting {
		t.Fatalf("unexpected updated book %+v", updated)
	}
	if updated.CoverImageURL == nil || *updated.CoverImageURL != "https://img/1.jpg" {
		t.Fatalf("expected missing cover to keep stored cover, got %v", updated.CoverImageURL)
	}
	if len(updated.Genres) != 2 {
		t.Fatalf("expected genres kept when none scraped, got %v", updated.Genres)
	}
}

func TestUpsertMetadataReimportAppliesStatus(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	created, err := repo.UpsertMetadata(ctx, "", "https://bato.ing/series/2", "", models.Metadata{
		Title:  "Series Two",
		Genres: []string{"Sci-Fi", "Action", "SciFi", " ", "action"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != models.StatusReading {
		t.Fatalf("expected default status reading, got %q", created.Status)
	}
	if !reflect.DeepEqual(created.Genres, []string{"Sci-Fi", "Action"}) {
		t.Fatalf("expected spelling variants collapsed, got %v", created.Genres)
	}

	reimported, err := repo.UpsertMetadata(ctx, "", "https://bato.ing/series/2", models.StatusCompleted, models.Metadata{Title: "Series Two"})
	if err != nil {
		t.Fatalf("reimport: %v", err)
	}
	if reimported.ID != created.ID || reimported.Status != models.StatusCompleted {
		t.Fatalf("expected requested status on re-import, got %+v", reimported)
	}
}

func TestApplyChapterDecisionWritesOnlyChangedFields(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	book, err := repo.UpsertMetadata(ctx, "", "https://example.com/title/1", models.StatusWaiting, models.Metadata{Title: "Book"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	uploaded := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)
	first := updates.Decide(updates.StateOf(*book), models.ChapterUpdate{
		LatestChapter:  "Chapter 1",
		LastUploadedAt: &uploaded,
		ChapterCount:   intPtr(1),
	})
	if err := repo.ApplyChapterDecision(ctx, book.ID, first, uploaded); err != nil {
		t.Fatalf("apply first: %v", err)
	}

	stored, _ := repo.GetByID(ctx, book.ID)
	second := updates.Decide(updates.StateOf(*stored), models.ChapterUpdate{LatestChapter: "Chapter 2"})
	if err := repo.ApplyChapterDecision(ctx, book.ID, second, uploaded.Add(time.Hour)); err != nil {
		t.Fatalf("apply second: %v", err)
	}

	stored, err = repo.GetByID(ctx, book.ID)
	if err != nil || stored == nil {
		t.Fatalf("get: %v", err)
	}
	if stored.LatestChapter != "Chapter 2" {
		t.Fatalf("expected Chapter 2, got %q", stored.LatestChapter)
	}
	if stored.LastUploadedAt == nil || !stored.LastUploadedAt.Equal(uploaded) {
		t.Fatalf("expected upload kept, got %v", stored.LastUploadedAt)
	}
	if stored.ChapterCount == nil || *stored.ChapterCount != 1 {
		t.Fatalf("expected count kept, got %v", stored.ChapterCount)
	}
	if stored.LastCheckedAt == nil {
		t.Fatalf("expected last checked at to be set")
	}
}

func TestApplyChapterDecisionMissingBook(t *testing.T) {
	repo := newTestRepository(t)

	decision := updates.Decide(updates.State{}, models.ChapterUpdate{LatestChapter: "Chapter 1"})
	err := repo.ApplyChapterDecision(context.Background(), "missing", decision, time.Now())

	var materialization *MaterializationError
	if !errors.As(err, &materialization) || !errors.Is(err, ErrBookNotFound) {
		t.Fatalf("expected materialization error for missing book, got %v", err)
	}
}

func TestListWaitingAndCovers(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	waiting, _ := repo.UpsertMetadata(ctx, "", "https://a", models.StatusWaiting, models.Metadata{Title: "Waiting", CoverImageURL: strPtr("https://img/a.jpg")})
	if _, err := repo.UpsertMetadata(ctx, "", "https://b", models.StatusReading, models.Metadata{Title: "Reading"}); err != nil {
		t.Fatalf("create reading: %v", err)
	}

	books, err := repo.ListWaiting(ctx)
	if err != nil {
		t.Fatalf("list waiting: %v", err)
	}
	if len(books) != 1 || books[0].ID != waiting.ID {
		t.Fatalf("expected only the waiting book, got %+v", books)
	}

	withCovers, err := repo.ListWithCovers(ctx)
	if err != nil {
		t.Fatalf("list with covers: %v", err)
	}
	if len(withCovers) != 1 || withCovers[0].ID != waiting.ID {
		t.Fatalf("expected only the book with a cover, got %+v", withCovers)
	}

	if err := repo.SetCoverURL(ctx, waiting.ID, "/covers/a.jpg"); err != nil {
		t.Fatalf("set cover: %v", err)
	}
	stored, _ := repo.GetByID(ctx, waiting.ID)
	if stored.CoverImageURL == nil || *stored.CoverImageURL != "/covers/a.jpg" {
		t.Fatalf("expected new cover, got %v", stored.CoverImageURL)
	}
}

func TestMergeGenre(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	first, _ := repo.UpsertMetadata(ctx, "", "https://a", "", models.Metadata{Title: "A", Genres: []string{"Sci-Fi", "Drama"}})
	second, _ := repo.UpsertMetadata(ctx, "", "https://b", "", models.Metadata{Title: "B", Genres: []string{"SciFi", "Sci-Fi"}})

	touched, err := repo.MergeGenre(ctx, "Sci-Fi", "SciFi")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if touched != 2 {
		t.Fatalf("expected 2 rows touched, got %d", touched)
	}

	a, _ := repo.GetByID(ctx, first.ID)
	b, _ := repo.GetByID(ctx, second.ID)
	if !reflect.DeepEqual(a.Genres, []string{"SciFi", "Drama"}) {
		t.Fatalf("expected renamed genre in place, got %v", a.Genres)
	}
	if !reflect.DeepEqual(b.Genres, []string{"SciFi"}) {
		t.Fatalf("expected duplicate dropped, got %v", b.Genres)
	}

	grouped, err := repo.ListBookGenres(ctx)
	if err != nil {
		t.Fatalf("list book genres: %v", err)
	}
	if len(grouped) != 2 {
		t.Fatalf("expected genres for 2 books, got %v", grouped)
	}

	titles, err := repo.ListTitles(ctx)
	if err != nil || len(titles) != 2 {
		t.Fatalf("expected 2 titles, got %v (%v)", titles, err)
	}
}
