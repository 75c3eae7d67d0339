// Package updates decides whether a freshly scraped chapter update should be
// applied to a stored book.
package updates

import (
	"strings"
	"time"

	"github.com/gabriel/reading-tracker/backend/internal/models"
)

type Field string

const (
	FieldChapter Field = "chapter"
	FieldUpload  Field = "upload"
	FieldCount   Field = "count"
)

type Reason string

const (
	ReasonChanged      Reason = "changed"
	ReasonNoChange     Reason = "no_change"
	ReasonEmptyPayload Reason = "empty_payload"
)

// State is the chapter information already stored for a book.
type State struct {
	ChapterLabel string
	UploadedAt   *time.Time
	ChapterCount *int
}

func StateOf(book models.Book) State {
	return State{
		ChapterLabel: book.LatestChapter,
		UploadedAt:   book.LastUploadedAt,
		ChapterCount: book.ChapterCount,
	}
}

type Decision struct {
	HasChange bool
	Reason    Reason
	Changed   []Field
	Previous  State
	// Next carries the previous value for every field not in Changed.
	Next State
}

func (d Decision) Has(field Field) bool {
	for _, changed := range d.Changed {
		if changed == field {
			return true
		}
	}
	return false
}

func Decide(previous State, fetched models.ChapterUpdate) Decision {
	decision := Decision{
		Previous: previous,
		Next:     previous,
	}

	label := strings.TrimSpace(fetched.LatestChapter)
	count := fetched.ChapterCount
	if count != nil && *count <= 0 {
		count = nil
	}

	if label == "" && fetched.LastUploadedAt == nil && count == nil {
		decision.Reason = ReasonEmptyPayload
		return decision
	}

	if label != "" && label != strings.TrimSpace(previous.ChapterLabel) {
		decision.Changed = append(decision.Changed, FieldChapter)
		decision.Next.ChapterLabel = label
	}
	if fetched.LastUploadedAt != nil && !sameUTCDay(fetched.LastUploadedAt, previous.UploadedAt) {
		decision.Changed = append(decision.Changed, FieldUpload)
		uploaded := fetched.LastUploadedAt.UTC()
		decision.Next.UploadedAt = &uploaded
	}
	if count != nil && (previous.ChapterCount == nil || *previous.ChapterCount != *count) {
		decision.Changed = append(decision.Changed, FieldCount)
		value := *count
		decision.Next.ChapterCount = &value
	}

	decision.HasChange = len(decision.Changed) > 0
	if decision.HasChange {
		decision.Reason = ReasonChanged
	} else {
		decision.Reason = ReasonNoChange
	}
	return decision
}

// sameUTCDay ignores time of day so same-day refetches do not count as updates.
func sameUTCDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
