package model

import (
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestAttemptTimeLeftSeconds(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		limit     *int
		elapsed   time.Duration
		wantLeft  int
		wantLimit bool
	}{
		{"no limit", nil, time.Hour, 0, false},
		{"zero limit is unlimited", intPtr(0), time.Hour, 0, false},
		{"fresh attempt", intPtr(60), 0, 60, true},
		{"truncates partial seconds", intPtr(60), 59*time.Second + 500*time.Millisecond, 0, true},
		{"one second left", intPtr(60), 59 * time.Second, 1, true},
		{"exactly at the limit", intPtr(60), 60 * time.Second, 0, true},
		{"past the limit clamps to zero", intPtr(60), 61 * time.Second, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Attempt{StartTime: start, TimeLimitSeconds: tt.limit}
			left, limited := a.TimeLeftSeconds(start.Add(tt.elapsed))
			if left != tt.wantLeft || limited != tt.wantLimit {
				t.Fatalf("TimeLeftSeconds() = (%d, %v), want (%d, %v)", left, limited, tt.wantLeft, tt.wantLimit)
			}
		})
	}
}

func TestAssignmentAvailableAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	tests := []struct {
		name  string
		from  *time.Time
		until *time.Time
		want  bool
	}{
		{"open window", nil, nil, true},
		{"started", &before, nil, true},
		{"not yet open", &after, nil, false},
		{"closed", nil, &before, false},
		{"inside", &before, &after, true},
		{"boundary from", &now, nil, true},
		{"boundary until", nil, &now, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Assignment{AvailableFrom: tt.from, AvailableUntil: tt.until}
			if got := a.AvailableAt(now); got != tt.want {
				t.Fatalf("AvailableAt() = %v, want %v", got, tt.want)
			}
		})
	}
}
