package scheduler

import "testing"

func TestParseDailyRunTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"03:30", "30 3 * * *"},
		{"00:00", "0 0 * * *"},
		{"23:59", "59 23 * * *"},
		{"7:05", "5 7 * * *"},
		{"25:00", "0 3 * * *"},
		{"garbage", "0 3 * * *"},
		{"", "0 3 * * *"},
	}

	for _, tt := range tests {
		if got := parseDailyRunTime(tt.in); got != tt.want {
			t.Errorf("parseDailyRunTime(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
