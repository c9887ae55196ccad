// Package ratelimit guards the scraping API credit quota. Every upstream
// call costs a credit, so limits are enforced locally before a request
// ever leaves the process.
package ratelimit

import (
	"sync"
	"time"
)

// QuotaLimiter enforces per-minute, per-hour and per-day request caps
// over a sliding window. A limit of 0 means that window is uncapped.
type QuotaLimiter struct {
	perMinute int
	perHour   int
	perDay    int
	enabled   bool

	// requests holds every request timestamp within the last 24 hours,
	// oldest first. All three windows count from this one slice.
	requests []time.Time
	now      func() time.Time
	mu       sync.Mutex
}

func NewQuotaLimiter(perMinute, perHour, perDay int, enabled bool) *QuotaLimiter {
	return &QuotaLimiter{
		perMinute: perMinute,
		perHour:   perHour,
		perDay:    perDay,
		enabled:   enabled,
		now:       time.Now,
	}
}

// AllowRequest reports whether another upstream call fits the quota,
// recording it if so.
func (ql *QuotaLimiter) AllowRequest() bool {
	if !ql.enabled {
		return true
	}

	ql.mu.Lock()
	defer ql.mu.Unlock()

	now := ql.now()
	ql.prune(now)

	if ql.perMinute > 0 && ql.countSince(now.Add(-time.Minute)) >= ql.perMinute {
		return false
	}
	if ql.perHour > 0 && ql.countSince(now.Add(-time.Hour)) >= ql.perHour {
		return false
	}
	if ql.perDay > 0 && len(ql.requests) >= ql.perDay {
		return false
	}

	ql.requests = append(ql.requests, now)
	return true
}

// prune drops timestamps older than the day window.
func (ql *QuotaLimiter) prune(now time.Time) {
	cutoff := now.Add(-24 * time.Hour)
	i := 0
	for i < len(ql.requests) && !ql.requests[i].After(cutoff) {
		i++
	}
	ql.requests = ql.requests[i:]
}

// countSince counts requests after the cutoff. Timestamps are ordered,
// so scan from the tail.
func (ql *QuotaLimiter) countSince(cutoff time.Time) int {
	count := 0
	for i := len(ql.requests) - 1; i >= 0; i-- {
		if !ql.requests[i].After(cutoff) {
			break
		}
		count++
	}
	return count
}

// Stats contains quota usage statistics
type Stats struct {
	Enabled            bool `json:"enabled"`
	RequestsLastMinute int  `json:"requests_last_minute"`
	RequestsLastHour   int  `json:"requests_last_hour"`
	RequestsLastDay    int  `json:"requests_last_day"`
	LimitPerMinute     int  `json:"limit_per_minute"`
	LimitPerHour       int  `json:"limit_per_hour"`
	LimitPerDay        int  `json:"limit_per_day"`
	RemainingToday     int  `json:"remaining_today"`
}

// GetStats returns current quota usage
func (ql *QuotaLimiter) GetStats() Stats {
	if !ql.enabled {
		return Stats{Enabled: false}
	}

	ql.mu.Lock()
	defer ql.mu.Unlock()

	now := ql.now()
	ql.prune(now)

	remaining := ql.perDay - len(ql.requests)
	if ql.perDay == 0 || remaining < 0 {
		remaining = 0
	}

	return Stats{
		Enabled:            true,
		RequestsLastMinute: ql.countSince(now.Add(-time.Minute)),
		RequestsLastHour:   ql.countSince(now.Add(-time.Hour)),
		RequestsLastDay:    len(ql.requests),
		LimitPerMinute:     ql.perMinute,
		LimitPerHour:       ql.perHour,
		LimitPerDay:        ql.perDay,
		RemainingToday:     remaining,
	}
}

// Reset clears all tracked requests
func (ql *QuotaLimiter) Reset() {
	ql.mu.Lock()
	defer ql.mu.Unlock()
	ql.requests = nil
}
