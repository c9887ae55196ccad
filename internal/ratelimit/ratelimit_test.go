package ratelimit

import (
	"testing"
	"time"
)

// fakeClock lets tests move time forward deterministically.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestLimiter(perMinute, perHour, perDay int) (*QuotaLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)}
	ql := NewQuotaLimiter(perMinute, perHour, perDay, true)
	ql.now = clock.now
	return ql, clock
}

func TestMinuteLimit(t *testing.T) {
	ql, clock := newTestLimiter(2, 0, 0)

	if !ql.AllowRequest() || !ql.AllowRequest() {
		t.Fatal("first two requests should pass")
	}
	if ql.AllowRequest() {
		t.Fatal("third request within the minute should be denied")
	}

	clock.advance(61 * time.Second)
	if !ql.AllowRequest() {
		t.Fatal("request should pass once the minute window slides")
	}
}

func TestDayLimit(t *testing.T) {
	ql, clock := newTestLimiter(0, 0, 3)

	for i := 0; i < 3; i++ {
		if !ql.AllowRequest() {
			t.Fatalf("request %d should pass", i)
		}
		clock.advance(2 * time.Hour)
	}
	if ql.AllowRequest() {
		t.Fatal("fourth request should exceed the daily quota")
	}

	// 24h after the first request it falls out of the window.
	clock.advance(19 * time.Hour)
	if !ql.AllowRequest() {
		t.Fatal("request should pass once the oldest entry expires")
	}
}

func TestDisabledLimiterAllowsEverything(t *testing.T) {
	ql := NewQuotaLimiter(1, 1, 1, false)
	for i := 0; i < 10; i++ {
		if !ql.AllowRequest() {
			t.Fatal("disabled limiter should never deny")
		}
	}
	if ql.GetStats().Enabled {
		t.Error("stats should report disabled")
	}
}

func TestGetStats(t *testing.T) {
	ql, clock := newTestLimiter(10, 20, 30)

	ql.AllowRequest()
	ql.AllowRequest()
	clock.advance(2 * time.Minute)
	ql.AllowRequest()

	stats := ql.GetStats()
	if stats.RequestsLastMinute != 1 {
		t.Errorf("RequestsLastMinute = %d, want 1", stats.RequestsLastMinute)
	}
	if stats.RequestsLastHour != 3 {
		t.Errorf("RequestsLastHour = %d, want 3", stats.RequestsLastHour)
	}
	if stats.RequestsLastDay != 3 {
		t.Errorf("RequestsLastDay = %d, want 3", stats.RequestsLastDay)
	}
	if stats.RemainingToday != 27 {
		t.Errorf("RemainingToday = %d, want 27", stats.RemainingToday)
	}
}

func TestReset(t *testing.T) {
	ql, _ := newTestLimiter(1, 0, 0)
	ql.AllowRequest()
	if ql.AllowRequest() {
		t.Fatal("limit should be hit")
	}
	ql.Reset()
	if !ql.AllowRequest() {
		t.Fatal("reset should clear the window")
	}
}
