package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gabriel/reading-tracker/backend/internal/models"
)

const bookColumns = `
	id, title, source_url, status, description, cover_image_url, original_language,
	latest_chapter, last_uploaded_at, chapter_count, last_checked_at, created_at, updated_at
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(scanner rowScanner) (*models.Book, error) {
	var book models.Book
	var coverImageURL sql.NullString
	var originalLanguage sql.NullString
	var lastUploadedAt sql.NullTime
	var chapterCount sql.NullInt64
	var lastCheckedAt sql.NullTime

	err := scanner.Scan(
		&book.ID,
		&book.Title,
		&book.SourceURL,
		&book.Status,
		&book.Description,
		&coverImageURL,
		&originalLanguage,
		&book.LatestChapter,
		&lastUploadedAt,
		&chapterCount,
		&lastCheckedAt,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if coverImageURL.Valid {
		book.CoverImageURL = &coverImageURL.String
	}
	if originalLanguage.Valid {
		book.OriginalLanguage = &originalLanguage.String
	}
	if lastUploadedAt.Valid {
		uploaded := lastUploadedAt.Time.UTC()
		book.LastUploadedAt = &uploaded
	}
	if chapterCount.Valid && chapterCount.Int64 > 0 {
		count := int(chapterCount.Int64)
		book.ChapterCount = &count
	}
	if lastCheckedAt.Valid {
		checked := lastCheckedAt.Time.UTC()
		book.LastCheckedAt = &checked
	}

	return &book, nil
}

func (r *BookRepository) queryBooks(ctx context.Context, query string, args ...any) ([]models.Book, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := make([]models.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachGenres(ctx, books); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *BookRepository) attachGenres(ctx context.Context, books []models.Book) error {
	if len(books) == 0 {
		return nil
	}

	ids := make([]any, 0, len(books))
	index := make(map[string]int, len(books))
	for i, book := range books {
		ids = append(ids, book.ID)
		index[book.ID] = i
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT book_id, genre
		FROM book_genres
		WHERE book_id IN (`+sqlPlaceholders(len(ids))+`)
		ORDER BY book_id, position
	`, ids...)
	if err != nil {
		return fmt.Errorf("list book genres: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookID, genre string
		if err := rows.Scan(&bookID, &genre); err != nil {
			return fmt.Errorf("scan book genre: %w", err)
		}
		position, ok := index[bookID]
		if !ok {
			continue
		}
		books[position].Genres = append(books[position].Genres, genre)
	}
	return rows.Err()
}
