package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel/reading-tracker/backend/internal/models"
)

func (r *BookRepository) ListTitles(ctx context.Context) ([]models.BookTitle, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title FROM books ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list book titles: %w", err)
	}
	defer rows.Close()

	titles := make([]models.BookTitle, 0)
	for rows.Next() {
		var title models.BookTitle
		if err := rows.Scan(&title.ID, &title.Title); err != nil {
			return nil, fmt.Errorf("scan book title: %w", err)
		}
		titles = append(titles, title)
	}
	return titles, rows.Err()
}

// ListBookGenres returns each book's genres, books in creation order.
func (r *BookRepository) ListBookGenres(ctx context.Context) ([][]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT bg.book_id, bg.genre
		FROM book_genres bg
		JOIN books b ON b.id = bg.book_id
		ORDER BY b.created_at, b.id, bg.position
	`)
	if err != nil {
		return nil, fmt.Errorf("list genres by book: %w", err)
	}
	defer rows.Close()

	grouped := make([][]string, 0)
	lastBookID := ""
	for rows.Next() {
		var bookID, genre string
		if err := rows.Scan(&bookID, &genre); err != nil {
			return nil, fmt.Errorf("scan genre by book: %w", err)
		}
		if bookID != lastBookID || len(grouped) == 0 {
			grouped = append(grouped, nil)
			lastBookID = bookID
		}
		grouped[len(grouped)-1] = append(grouped[len(grouped)-1], genre)
	}
	return grouped, rows.Err()
}

// MergeGenre renames from to into on every book. Books that already carry
// into just lose from. It returns the number of books touched.
func (r *BookRepository) MergeGenre(ctx context.Context, from string, into string) (int64, error) {
	from = strings.TrimSpace(from)
	into = strings.TrimSpace(into)
	if from == "" || into == "" {
		return 0, fmt.Errorf("merge genre: both genre names are required")
	}
	if from == into {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, writeError("begin genre merge", "", err)
	}

	deleted, err := tx.ExecContext(ctx, `
		DELETE FROM book_genres
		WHERE genre = ?
			AND book_id IN (SELECT book_id FROM book_genres WHERE genre = ?)
	`, from, into)
	if err != nil {
		tx.Rollback()
		return 0, writeError("drop merged genre duplicates", "", err)
	}

	renamed, err := tx.ExecContext(ctx, `UPDATE book_genres SET genre = ? WHERE genre = ?`, into, from)
	if err != nil {
		tx.Rollback()
		return 0, writeError("rename merged genre", "", err)
	}

	deletedCount, _ := deleted.RowsAffected()
	renamedCount, _ := renamed.RowsAffected()
	touched := deletedCount + renamedCount

	if touched > 0 {
		if _, err := tx.ExecContext(ctx, `
			UPDATE books SET updated_at = ?
			WHERE id IN (SELECT book_id FROM book_genres WHERE genre = ?)
		`, time.Now().UTC(), into); err != nil {
			tx.Rollback()
			return 0, writeError("touch merged books", "", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, writeError("commit genre merge", "", err)
	}
	return touched, nil
}
