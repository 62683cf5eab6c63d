package tui

import (
	"slices"
	"testing"
)

func TestRingBuffer_Window(t *testing.T) {
	cases := []struct {
		name     string
		capacity int
		push     []float64
		resize   int
		want     []float64
	}{
		{"partial", 4, []float64{12, 18}, 0, []float64{12, 18}},
		{"wraps", 3, []float64{5, 6, 7, 8, 9}, 0, []float64{7, 8, 9}},
		{"grow keeps order", 2, []float64{1, 2, 3}, 6, []float64{2, 3}},
		{"shrink keeps newest", 6, []float64{1, 2, 3, 4, 5}, 2, []float64{4, 5}},
		{"zero capacity holds one", 0, []float64{3, 4}, 0, []float64{4}},
		{"resize below one", 3, []float64{1, 2}, -5, []float64{2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rb := NewRingBuffer(tc.capacity)
			for _, v := range tc.push {
				rb.Push(v)
			}
			if tc.resize != 0 {
				rb.Resize(tc.resize)
			}
			if got := rb.Slice(); !slices.Equal(got, tc.want) {
				t.Errorf("Slice() = %v, want %v", got, tc.want)
			}
			if rb.Last() != tc.want[len(tc.want)-1] {
				t.Errorf("Last() = %f, want %f", rb.Last(), tc.want[len(tc.want)-1])
			}
		})
	}
}

func TestRingBuffer_LoadSummary(t *testing.T) {
	rb := NewRingBuffer(4)
	if rb.Mean() != 0 || rb.Peak() != 0 || rb.Last() != 0 || rb.Slice() != nil {
		t.Fatal("an empty buffer reports zero load")
	}

	// A CPU trace where the 95% spike falls out of the window.
	for _, v := range []float64{95, 30, 45, 60, 25} {
		rb.Push(v)
	}
	if rb.Mean() != 40 || rb.Peak() != 60 {
		t.Errorf("mean = %f, peak = %f, want 40 and 60", rb.Mean(), rb.Peak())
	}

	rb.Reset()
	if rb.Len() != 0 || rb.Cap() != 4 {
		t.Errorf("after Reset len = %d cap = %d", rb.Len(), rb.Cap())
	}
}

func TestRenderSparkline(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		want   string
	}{
		{"no samples", nil, ""},
		{"idle", []float64{0, 0}, "▁▁"},
		{"saturated", []float64{100}, "█"},
		{"half", []float64{50}, "▄"},
		{"clamped", []float64{-20, 250}, "▁█"},
		{"ramp", []float64{0, 15, 30, 45, 60, 75, 90, 100}, "▁▂▃▄▅▆▇█"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RenderSparkline(tc.values); got != tc.want {
				t.Errorf("RenderSparkline(%v) = %q, want %q", tc.values, got, tc.want)
			}
		})
	}
}
