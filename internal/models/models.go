package models

import "time"

const (
	StatusReading   = "reading"
	StatusWaiting   = "waiting"
	StatusCompleted = "completed"
	StatusDropped   = "dropped"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusReading, StatusWaiting, StatusCompleted, StatusDropped:
		return true
	}
	return false
}

type Book struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	SourceURL        string     `json:"sourceUrl"`
	Status           string     `json:"status"`
	Description      string     `json:"description"`
	CoverImageURL    *string    `json:"coverImageUrl,omitempty"`
	Genres           []string   `json:"genres,omitempty"`
	OriginalLanguage *string    `json:"originalLanguage,omitempty"`
	LatestChapter    string     `json:"latestChapter"`
	LastUploadedAt   *time.Time `json:"lastUploadedAt,omitempty"`
	ChapterCount     *int       `json:"chapterCount,omitempty"`
	LastCheckedAt    *time.Time `json:"lastCheckedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Metadata is what a series page says about itself. Merging it into a Book is
// the caller's job.
type Metadata struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	CoverImageURL    *string  `json:"coverImageUrl"`
	Genres           []string `json:"genres"`
	OriginalLanguage *string  `json:"originalLanguage"`
}

type ChapterUpdate struct {
	LatestChapter  string
	LastUploadedAt *time.Time
	ChapterCount   *int
}

type GenreUsage struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type BookTitle struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
