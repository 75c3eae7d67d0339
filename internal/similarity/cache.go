package similarity

import "time"

// Cached is a scan result stamped with when it was computed. The caller holds
// it and decides when to drop it.
type Cached[T any] struct {
	Value    T
	StoredAt time.Time
}

func NewCached[T any](value T, now time.Time) *Cached[T] {
	return &Cached[T]{Value: value, StoredAt: now}
}

func (c *Cached[T]) Fresh(now time.Time, ttl time.Duration) bool {
	if c == nil || ttl <= 0 {
		return false
	}
	return now.Sub(c.StoredAt) < ttl
}
