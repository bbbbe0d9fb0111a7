package engine

import (
	"testing"
	"time"
)

func TestMaxMoveTime(t *testing.T) {
	tests := []struct {
		name   string
		limits SearchLimits
		want   time.Duration
		ok     bool
	}{
		{"move time", SearchLimits{MoveTime: 3 * time.Second, Clock: true, TimeLeft: time.Minute}, 3 * time.Second, true},
		{"no clock", SearchLimits{}, 0, false},
		{"depth only", SearchLimits{Depth: 6}, 0, false},
		{"infinite", SearchLimits{Infinite: true, Clock: true, TimeLeft: time.Minute}, 0, false},
		{"sudden death", SearchLimits{Clock: true, TimeLeft: 40 * time.Second}, time.Second, true},
		{"with increment", SearchLimits{Clock: true, TimeLeft: 40 * time.Second, Increment: time.Second}, 2 * time.Second, true},
		{"moves to go", SearchLimits{Clock: true, TimeLeft: 10 * time.Second, MovesToGo: 5}, 2 * time.Second, true},
		{"moves to go with increment", SearchLimits{Clock: true, TimeLeft: 10 * time.Second, Increment: 500 * time.Millisecond, MovesToGo: 5},
			2500 * time.Millisecond, true},
		{"clock at zero", SearchLimits{Clock: true}, 0, true},
		{"clock at zero with increment", SearchLimits{Clock: true, Increment: 100 * time.Millisecond}, 100 * time.Millisecond, true},
		{"clock overrun", SearchLimits{Clock: true, TimeLeft: -50 * time.Millisecond}, 0, true},
		{"overrun covered by increment", SearchLimits{Clock: true, TimeLeft: -2 * time.Second, Increment: 100 * time.Millisecond},
			50 * time.Millisecond, true},
		{"overrun beyond increment", SearchLimits{Clock: true, TimeLeft: -5 * time.Second, Increment: 100 * time.Millisecond}, 0, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.limits.MaxMoveTime()
			if got != tc.want || ok != tc.ok {
				t.Errorf("MaxMoveTime() = %v, %v, want %v, %v", got, ok, tc.want, tc.ok)
			}
		})
	}
}
