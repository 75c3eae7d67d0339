package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/gabriel/reading-tracker/backend/internal/models"
	"github.com/gabriel/reading-tracker/backend/internal/similarity"
	"github.com/gabriel/reading-tracker/backend/internal/sweep"
)

var nowFunc = time.Now

const missing = "-"

func formatMetadata(metadata models.Metadata) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title:       %s\n", metadata.Title)
	fmt.Fprintf(&b, "Description: %s\n", orMissing(metadata.Description))
	fmt.Fprintf(&b, "Cover:       %s\n", orMissing(deref(metadata.CoverImageURL)))
	fmt.Fprintf(&b, "Genres:      %s\n", orMissing(strings.Join(metadata.Genres, ", ")))
	fmt.Fprintf(&b, "Language:    %s\n", orMissing(deref(metadata.OriginalLanguage)))
	return b.String()
}

func formatLatest(update models.ChapterUpdate, now time.Time) string {
	uploaded := missing
	if update.LastUploadedAt != nil {
		uploaded = fmt.Sprintf("%s (%s)", update.LastUploadedAt.UTC().Format(time.RFC3339), humanize.RelTime(*update.LastUploadedAt, now, "ago", "from now"))
	}
	count := missing
	if update.ChapterCount != nil {
		count = humanize.Comma(int64(*update.ChapterCount))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Latest:   %s\n", orMissing(update.LatestChapter))
	fmt.Fprintf(&b, "Uploaded: %s\n", uploaded)
	fmt.Fprintf(&b, "Chapters: %s\n", count)
	return b.String()
}

func formatReport(report sweep.Report) string {
	var b strings.Builder
	for _, result := range report.Results {
		line := fmt.Sprintf("%-22s %s", result.Outcome, orMissing(result.Title))
		if result.Error != "" {
			line += ": " + result.Error
		}
		fmt.Fprintln(&b, line)
	}

	outcomes := make([]string, 0, len(report.Counts))
	for _, outcome := range []sweep.Outcome{
		sweep.OutcomeUpdated,
		sweep.OutcomeSkippedNoChange,
		sweep.OutcomeSkippedEmptyPayload,
		sweep.OutcomeSkippedNoSource,
		sweep.OutcomeCoverAccessible,
		sweep.OutcomeCoverRefreshed,
		sweep.OutcomeCoverBroken,
		sweep.OutcomeSkippedNoCover,
		sweep.OutcomeError,
		sweep.OutcomeDiscarded,
	} {
		if count := report.Count(outcome); count > 0 {
			outcomes = append(outcomes, fmt.Sprintf("%s=%d", outcome, count))
		}
	}
	fmt.Fprintf(&b, "%s checked: %s\n", humanize.Comma(int64(len(report.Results))), strings.Join(outcomes, " "))
	if report.Cancelled {
		fmt.Fprintln(&b, "sweep cancelled before every book was checked")
	}
	return b.String()
}

func formatGenreCandidate(candidate similarity.GenreCandidate) string {
	return fmt.Sprintf("%q (%d) -> %q (%d)  %.0f%%", candidate.Merge, candidate.MergeCount, candidate.Keep, candidate.KeepCount, candidate.Score*100)
}

func formatTitleCandidate(candidate similarity.TitleCandidate) string {
	match := fmt.Sprintf("%.0f%%", candidate.Score*100)
	if candidate.Contained {
		match += ", contained"
	}
	return fmt.Sprintf("%q <-> %q  (%s)", candidate.A.Title, candidate.B.Title, match)
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func orMissing(value string) string {
	if strings.TrimSpace(value) == "" {
		return missing
	}
	return value
}
