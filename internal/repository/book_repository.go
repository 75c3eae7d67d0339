package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gabriel/reading-tracker/backend/internal/models"
	"github.com/gabriel/reading-tracker/backend/internal/similarity"
	"github.com/gabriel/reading-tracker/backend/internal/updates"
)

func (r *BookRepository) GetByID(ctx context.Context, id string) (*models.Book, error) {
	books, err := r.queryBooks(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get book by id: %w", err)
	}
	if len(books) == 0 {
		return nil, nil
	}
	return &books[0], nil
}

func (r *BookRepository) GetBySourceURL(ctx context.Context, sourceURL string) (*models.Book, error) {
	books, err := r.queryBooks(ctx, `SELECT `+bookColumns+` FROM books WHERE source_url = ? AND source_url <> ''`, strings.TrimSpace(sourceURL))
	if err != nil {
		return nil, fmt.Errorf("get book by source url: %w", err)
	}
	if len(books) == 0 {
		return nil, nil
	}
	return &books[0], nil
}

func (r *BookRepository) List(ctx context.Context) ([]models.Book, error) {
	books, err := r.queryBooks(ctx, `SELECT `+bookColumns+` FROM books ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// ListWaiting returns the books an update sweep should check.
func (r *BookRepository) ListWaiting(ctx context.Context) ([]models.Book, error) {
	books, err := r.queryBooks(ctx, `
		SELECT `+bookColumns+`
		FROM books
		WHERE status = ?
		ORDER BY last_checked_at IS NOT NULL, last_checked_at, created_at
	`, models.StatusWaiting)
	if err != nil {
		return nil, fmt.Errorf("list waiting books: %w", err)
	}
	return books, nil
}

func (r *BookRepository) ListWithCovers(ctx context.Context) ([]models.Book, error) {
	books, err := r.queryBooks(ctx, `
		SELECT `+bookColumns+`
		FROM books
		WHERE cover_image_url IS NOT NULL AND cover_image_url <> ''
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list books with covers: %w", err)
	}
	return books, nil
}

// UpsertMetadata stores freshly scraped metadata. Without an ID the book is
// matched on its source URL and created when missing. A blank status keeps
// the stored one. Chapter fields are not touched.
func (r *BookRepository) UpsertMetadata(ctx context.Context, id string, sourceURL string, status string, metadata models.Metadata) (*models.Book, error) {
	sourceURL = strings.TrimSpace(sourceURL)
	if id == "" {
		existing, err := r.GetBySourceURL(ctx, sourceURL)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			id = existing.ID
		} else {
			id = uuid.NewString()
		}
	}
	requestedStatus := status
	if status == "" {
		status = models.StatusReading
	}

	now := time.Now().UTC()
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, writeError("begin metadata upsert", id, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO books (id, title, source_url, status, description, cover_image_url, original_language, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			status = CASE WHEN ? <> '' THEN excluded.status ELSE books.status END,
			source_url = CASE WHEN excluded.source_url <> '' THEN excluded.source_url ELSE books.source_url END,
			description = excluded.description,
			cover_image_url = COALESCE(excluded.cover_image_url, books.cover_image_url),
			original_language = COALESCE(excluded.original_language, books.original_language),
			updated_at = excluded.updated_at
	`, id, metadata.Title, sourceURL, status, metadata.Description, metadata.CoverImageURL, metadata.OriginalLanguage, now, now, requestedStatus)
	if err != nil {
		tx.Rollback()
		return nil, writeError("upsert book metadata", id, err)
	}

	if len(metadata.Genres) > 0 {
		if err := replaceGenres(ctx, tx, id, metadata.Genres); err != nil {
			tx.Rollback()
			return nil, writeError("replace book genres", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, writeError("commit metadata upsert", id, err)
	}

	return r.GetByID(ctx, id)
}

func replaceGenres(ctx context.Context, tx *sql.Tx, bookID string, genres []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM book_genres WHERE book_id = ?`, bookID); err != nil {
		return err
	}
	for position, genre := range similarity.Distinct(genres) {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO book_genres (book_id, genre, position) VALUES (?, ?, ?)
		`, bookID, genre, position); err != nil {
			return err
		}
	}
	return nil
}

// ApplyChapterDecision writes only the fields the decision marks as changed.
func (r *BookRepository) ApplyChapterDecision(ctx context.Context, bookID string, decision updates.Decision, checkedAt time.Time) error {
	if !decision.HasChange {
		return nil
	}

	assignments := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if decision.Has(updates.FieldChapter) {
		assignments = append(assignments, "latest_chapter = ?")
		args = append(args, decision.Next.ChapterLabel)
	}
	if decision.Has(updates.FieldUpload) {
		assignments = append(assignments, "last_uploaded_at = ?")
		args = append(args, decision.Next.UploadedAt.UTC())
	}
	if decision.Has(updates.FieldCount) {
		assignments = append(assignments, "chapter_count = ?")
		args = append(args, *decision.Next.ChapterCount)
	}
	assignments = append(assignments, "last_checked_at = ?", "updated_at = ?")
	args = append(args, checkedAt.UTC(), checkedAt.UTC(), bookID)

	result, err := r.db.ExecContext(ctx, `UPDATE books SET `+strings.Join(assignments, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return writeError("apply chapter update", bookID, err)
	}
	return requireOneRow(result, "apply chapter update", bookID)
}

func (r *BookRepository) SetCoverURL(ctx context.Context, bookID string, coverURL string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE books SET cover_image_url = ?, updated_at = ? WHERE id = ?
	`, coverURL, time.Now().UTC(), bookID)
	if err != nil {
		return writeError("set cover url", bookID, err)
	}
	return requireOneRow(result, "set cover url", bookID)
}

func (r *BookRepository) SetStatus(ctx context.Context, bookID string, status string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE books SET status = ?, updated_at = ? WHERE id = ?
	`, status, time.Now().UTC(), bookID)
	if err != nil {
		return writeError("set status", bookID, err)
	}
	return requireOneRow(result, "set status", bookID)
}

var ErrBookNotFound = errors.New("book not found")

func requireOneRow(result sql.Result, op string, bookID string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return writeError(op, bookID, err)
	}
	if affected == 0 {
		return writeError(op, bookID, ErrBookNotFound)
	}
	return nil
}
