package metrics_test

import (
	"testing"

	"github.com/example/sereno-rh/internal/metrics"
)

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		input string
		want  metrics.Status
	}{
		{input: "07:30", want: metrics.StatusEarly},
		{input: "09:00", want: metrics.StatusEarly},
		{input: "09:00:00", want: metrics.StatusEarly},
		{input: "09:00:01", want: metrics.StatusOnTime},
		{input: "09:01", want: metrics.StatusOnTime},
		{input: "09:15", want: metrics.StatusOnTime},
		{input: "09:15:01", want: metrics.StatusDelay},
		{input: "09:16", want: metrics.StatusDelay},
		{input: "09:25", want: metrics.StatusDelay},
		{input: "09:25:01", want: metrics.StatusLate},
		{input: "09:26", want: metrics.StatusLate},
		{input: "01:00 PM", want: metrics.StatusLate},
		{input: "", want: metrics.StatusAbsent},
		{input: "99:99", want: metrics.StatusAbsent},
		{input: "09:15:00.5", want: metrics.StatusAbsent},
		{input: "9:00 CAMPO", want: metrics.StatusAbsent},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := metrics.Classify(tc.input); got != tc.want {
				t.Fatalf("expected %s for %q, got %s", tc.want, tc.input, got)
			}
		})
	}
}

func TestStatusColor(t *testing.T) {
	want := map[metrics.Status]string{
		metrics.StatusEarly:  "blue",
		metrics.StatusOnTime: "green",
		metrics.StatusDelay:  "amber",
		metrics.StatusLate:   "red",
		metrics.StatusAbsent: "gray",
	}
	for _, status := range metrics.Statuses() {
		if got := status.Color(); got != want[status] {
			t.Fatalf("expected %s to be %s, got %s", status, want[status], got)
		}
		if status.Label() == "" {
			t.Fatalf("expected label for %s", status)
		}
	}
}

func TestIsPunctualAndIsLate(t *testing.T) {
	tests := []struct {
		input    string
		punctual bool
		late     bool
	}{
		{input: "08:00", punctual: true},
		{input: "09:15", punctual: true},
		{input: "9:15 AM", punctual: true},
		{input: "09:15:01", late: true},
		{input: "09:16", late: true},
		{input: ""},
		{input: "not a time"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			if got := metrics.IsPunctual(tc.input); got != tc.punctual {
				t.Fatalf("expected punctual=%v, got %v", tc.punctual, got)
			}
			if got := metrics.IsLate(tc.input); got != tc.late {
				t.Fatalf("expected late=%v, got %v", tc.late, got)
			}
		})
	}
}

func TestPercentRoundsHalfUp(t *testing.T) {
	tests := []struct {
		part, total, want int
	}{
		{part: 1, total: 2, want: 50},
		{part: 1, total: 3, want: 33},
		{part: 2, total: 3, want: 67},
		{part: 1, total: 8, want: 13},
		{part: 3, total: 8, want: 38},
		{part: 6, total: 5, want: 120},
		{part: 0, total: 4, want: 0},
		{part: 0, total: 0, want: 0},
		{part: 3, total: -1, want: 0},
	}

	for _, tc := range tests {
		if got := metrics.Percent(tc.part, tc.total); got != tc.want {
			t.Fatalf("Percent(%d, %d): expected %d, got %d", tc.part, tc.total, tc.want, got)
		}
	}
}
