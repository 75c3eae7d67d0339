package updates

import (
	"testing"
	"time"

	"github.com/gabriel/reading-tracker/backend/internal/models"
)

func intPtr(value int) *int {
	return &value
}

func timePtr(value time.Time) *time.Time {
	return &value
}

func TestDecideEmptyPayload(t *testing.T) {
	previous := State{ChapterLabel: "Chapter 10", ChapterCount: intPtr(10)}

	tests := []struct {
		name    string
		fetched models.ChapterUpdate
	}{
		{name: "nothing", fetched: models.ChapterUpdate{}},
		{name: "blank label", fetched: models.ChapterUpdate{LatestChapter: "   "}},
		{name: "zero count", fetched: models.ChapterUpdate{ChapterCount: intPtr(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Decide(previous, tt.fetched)
			if decision.HasChange {
				t.Fatalf("expected no change")
			}
			if decision.Reason != ReasonEmptyPayload {
				t.Fatalf("expected %s, got %s", ReasonEmptyPayload, decision.Reason)
			}
			if decision.Next.ChapterLabel != "Chapter 10" || *decision.Next.ChapterCount != 10 {
				t.Fatalf("expected previous values kept, got %+v", decision.Next)
			}
		})
	}
}

func TestDecideSameDayIsNoChange(t *testing.T) {
	uploaded := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)
	previous := State{ChapterLabel: "Episode 5", UploadedAt: timePtr(uploaded), ChapterCount: intPtr(5)}

	identical := Decide(previous, models.ChapterUpdate{
		LatestChapter:  "Episode 5",
		LastUploadedAt: timePtr(uploaded),
		ChapterCount:   intPtr(5),
	})
	if identical.HasChange || identical.Reason != ReasonNoChange {
		t.Fatalf("expected no change for identical payload, got %+v", identical)
	}

	shifted := Decide(previous, models.ChapterUpdate{
		LatestChapter:  " Episode 5 ",
		LastUploadedAt: timePtr(uploaded.Add(9 * time.Hour)),
	})
	if shifted.HasChange || shifted.Reason != ReasonNoChange {
		t.Fatalf("expected no change for same-day shift, got %+v", shifted)
	}
}

func TestDecidePartialChangeKeepsOtherFields(t *testing.T) {
	uploaded := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	previous := State{ChapterLabel: "Chapter 20", UploadedAt: timePtr(uploaded), ChapterCount: intPtr(20)}

	decision := Decide(previous, models.ChapterUpdate{
		LatestChapter: "Chapter 21",
	})

	if !decision.HasChange || decision.Reason != ReasonChanged {
		t.Fatalf("expected change, got %+v", decision)
	}
	if !decision.Has(FieldChapter) || decision.Has(FieldUpload) || decision.Has(FieldCount) {
		t.Fatalf("expected only chapter changed, got %v", decision.Changed)
	}
	if decision.Next.ChapterLabel != "Chapter 21" {
		t.Fatalf("expected new label, got %q", decision.Next.ChapterLabel)
	}
	if decision.Next.UploadedAt == nil || !decision.Next.UploadedAt.Equal(uploaded) {
		t.Fatalf("expected upload kept, got %v", decision.Next.UploadedAt)
	}
	if decision.Next.ChapterCount == nil || *decision.Next.ChapterCount != 20 {
		t.Fatalf("expected count kept, got %v", decision.Next.ChapterCount)
	}
}

func TestDecideAllFieldsChanged(t *testing.T) {
	previous := State{ChapterLabel: "Chapter 1", UploadedAt: timePtr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), ChapterCount: intPtr(1)}
	next := time.Date(2024, 1, 8, 23, 0, 0, 0, time.UTC)

	decision := Decide(previous, models.ChapterUpdate{
		LatestChapter:  "Chapter 2",
		LastUploadedAt: timePtr(next),
		ChapterCount:   intPtr(2),
	})

	if len(decision.Changed) != 3 {
		t.Fatalf("expected 3 changed fields, got %v", decision.Changed)
	}
	if !decision.Next.UploadedAt.Equal(next) || *decision.Next.ChapterCount != 2 {
		t.Fatalf("unexpected next state %+v", decision.Next)
	}
	if decision.Previous.ChapterLabel != "Chapter 1" {
		t.Fatalf("expected previous preserved, got %q", decision.Previous.ChapterLabel)
	}
}

func TestDecideFirstObservation(t *testing.T) {
	decision := Decide(State{}, models.ChapterUpdate{
		LastUploadedAt: timePtr(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
		ChapterCount:   intPtr(3),
	})

	if !decision.Has(FieldUpload) || !decision.Has(FieldCount) || decision.Has(FieldChapter) {
		t.Fatalf("expected upload and count changed, got %v", decision.Changed)
	}
}
