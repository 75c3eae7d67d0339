package repository

import (
	"database/sql"
	"fmt"
)

type BookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) *BookRepository {
	return &BookRepository{db: db}
}

// MaterializationError is returned when the database rejects a write. Writes
// are not retried.
type MaterializationError struct {
	Op     string
	BookID string
	Err    error
}

func (e *MaterializationError) Error() string {
	if e.BookID == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s for book %s: %v", e.Op, e.BookID, e.Err)
}

func (e *MaterializationError) Unwrap() error {
	return e.Err
}

func writeError(op string, bookID string, err error) error {
	return &MaterializationError{Op: op, BookID: bookID, Err: err}
}
