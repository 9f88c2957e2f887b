package langdetect

import (
	"slices"
	"testing"
)

func TestPlan(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		segment    int64
		iterations int
		want       []int64
	}{
		{name: "single window", total: 100000, segment: 30000, iterations: 1, want: []int64{0}},
		{name: "three windows", total: 100000, segment: 30000, iterations: 3, want: []int64{0, 35000, 70000}},
		{name: "exact fit", total: 60000, segment: 30000, iterations: 2, want: []int64{0, 30000}},
		{name: "uneven spacing", total: 100001, segment: 30000, iterations: 4, want: []int64{0, 23333, 46666, 70001}},
		{name: "zero spacing duplicates", total: 30001, segment: 30000, iterations: 3, want: []int64{0, 0, 1}},
		{name: "short audio", total: 10000, segment: 30000, iterations: 1, want: []int64{0}},
		{name: "negative span floors", total: 25000, segment: 30000, iterations: 3, want: []int64{0, -2500, -5000}},
		{name: "negative span rounds down", total: 29999, segment: 30000, iterations: 2, want: []int64{0, -1}},
		{name: "no iterations", total: 100000, segment: 30000, iterations: 0, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Plan(tt.total, tt.segment, tt.iterations)
			if !slices.Equal(got, tt.want) {
				t.Fatalf("Plan(%d, %d, %d) = %v, want %v", tt.total, tt.segment, tt.iterations, got, tt.want)
			}
		})
	}
}

func TestPlanProperties(t *testing.T) {
	for total := int64(30000); total <= 600000; total += 7919 {
		for iterations := 1; iterations <= 8; iterations++ {
			offsets := Plan(total, WindowMS, iterations)
			if len(offsets) != iterations {
				t.Fatalf("len(Plan(%d, %d)) = %d", total, iterations, len(offsets))
			}
			if offsets[0] != 0 {
				t.Fatalf("Plan(%d, %d) first offset %d", total, iterations, offsets[0])
			}
			if iterations > 1 && offsets[iterations-1] != total-WindowMS {
				t.Fatalf("Plan(%d, %d) last offset %d, want %d", total, iterations, offsets[iterations-1], total-WindowMS)
			}
			for i, off := range offsets {
				if off < 0 || off > total-WindowMS {
					t.Fatalf("Plan(%d, %d)[%d] = %d out of range", total, iterations, i, off)
				}
				if i > 0 && off < offsets[i-1] {
					t.Fatalf("Plan(%d, %d) not non-decreasing: %v", total, iterations, offsets)
				}
			}
		}
	}
}

func TestMaxTries(t *testing.T) {
	tests := []struct {
		requested int
		total     int64
		want      int
	}{
		{requested: 5, total: 600000, want: 5},
		{requested: 5, total: 100000, want: 3},
		{requested: 5, total: 29999, want: 1},
		{requested: 5, total: 0, want: 1},
		{requested: 0, total: 600000, want: 1},
		{requested: 2, total: 90000, want: 2},
	}
	for _, tt := range tests {
		if got := MaxTries(tt.requested, tt.total); got != tt.want {
			t.Fatalf("MaxTries(%d, %d) = %d, want %d", tt.requested, tt.total, got, tt.want)
		}
	}
}

func TestFloorDiv(t *testing.T) {
	tests := []struct{ a, b, want int64 }{
		{7, 2, 3},
		{-7, 2, -4},
		{-6, 2, -3},
		{0, 5, 0},
		{7, -2, -4},
	}
	for _, tt := range tests {
		if got := floorDiv(tt.a, tt.b); got != tt.want {
			t.Fatalf("floorDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
