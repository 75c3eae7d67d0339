package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/gabriel/reading-tracker/backend/internal/models"
	"github.com/gabriel/reading-tracker/backend/internal/similarity"
	"github.com/gabriel/reading-tracker/backend/internal/sweep"
)

func TestFormatLatest(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	uploaded := now.Add(-3 * time.Hour)
	count := 1234

	out := formatLatest(models.ChapterUpdate{
		LatestChapter:  "Chapter 1234",
		LastUploadedAt: &uploaded,
		ChapterCount:   &count,
	}, now)

	for _, want := range []string{
		"Latest:   Chapter 1234",
		"Uploaded: 2025-03-10T09:00:00Z (3 hours ago)",
		"Chapters: 1,234",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestFormatLatestMissingFields(t *testing.T) {
	out := formatLatest(models.ChapterUpdate{}, time.Now())
	if strings.Count(out, missing) != 3 {
		t.Fatalf("expected every field to be marked missing:\n%s", out)
	}
}

func TestFormatMetadata(t *testing.T) {
	cover := "https://example.com/cover.jpg"
	out := formatMetadata(models.Metadata{
		Title:         "Solo Leveling",
		CoverImageURL: &cover,
		Genres:        []string{"Action", "Fantasy"},
	})

	if !strings.Contains(out, "Genres:      Action, Fantasy") {
		t.Fatalf("unexpected genres line:\n%s", out)
	}
	if !strings.Contains(out, "Language:    -") {
		t.Fatalf("expected missing language:\n%s", out)
	}
}

func TestFormatReport(t *testing.T) {
	report := sweep.Report{
		Results: []sweep.ItemResult{
			{BookID: "1", Title: "A", Outcome: sweep.OutcomeUpdated},
			{BookID: "2", Title: "B", Outcome: sweep.OutcomeError, Error: "fetch failed"},
			{BookID: "3", Title: "C", Outcome: sweep.OutcomeUpdated},
		},
		Counts: map[sweep.Outcome]int{
			sweep.OutcomeUpdated: 2,
			sweep.OutcomeError:   1,
		},
		Cancelled: true,
	}

	out := formatReport(report)
	for _, want := range []string{
		"B: fetch failed",
		"3 checked: updated=2 error=1",
		"sweep cancelled",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestFormatCandidates(t *testing.T) {
	genre := formatGenreCandidate(similarity.GenreCandidate{Keep: "SciFi", Merge: "Sci-Fi", KeepCount: 2, MergeCount: 1, Score: 1})
	if genre != `"Sci-Fi" (1) -> "SciFi" (2)  100%` {
		t.Fatalf("unexpected genre line %q", genre)
	}

	title := formatTitleCandidate(similarity.TitleCandidate{
		A:         models.BookTitle{ID: "1", Title: "Solo Leveling"},
		B:         models.BookTitle{ID: "2", Title: "Solo Leveling: Ragnarok"},
		Score:     0.72,
		Contained: true,
	})
	if !strings.HasSuffix(title, "(72%, contained)") {
		t.Fatalf("unexpected title line %q", title)
	}
}
