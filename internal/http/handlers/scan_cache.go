package handlers

import (
	"sync"
	"time"

	"github.com/gabriel/reading-tracker/backend/internal/similarity"
)

// ScanCache holds the last similarity scans for a short TTL. Anything that
// changes titles or genres must call Invalidate.
type ScanCache struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	genres *similarity.Cached[[]similarity.GenreCandidate]
	titles *similarity.Cached[[]similarity.TitleCandidate]
}

func NewScanCache(ttl time.Duration) *ScanCache {
	return &ScanCache{ttl: ttl, now: time.Now}
}

func (s *ScanCache) Genres(compute func() ([]similarity.GenreCandidate, error)) ([]similarity.GenreCandidate, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.genres.Fresh(now, s.ttl) {
		return s.genres.Value, true, nil
	}
	value, err := compute()
	if err != nil {
		return nil, false, err
	}
	s.genres = similarity.NewCached(value, now)
	return value, false, nil
}

func (s *ScanCache) Titles(compute func() ([]similarity.TitleCandidate, error)) ([]similarity.TitleCandidate, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.titles.Fresh(now, s.ttl) {
		return s.titles.Value, true, nil
	}
	value, err := compute()
	if err != nil {
		return nil, false, err
	}
	s.titles = similarity.NewCached(value, now)
	return value, false, nil
}

func (s *ScanCache) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.genres = nil
	s.titles = nil
}
