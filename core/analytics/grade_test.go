package analytics

import (
	"testing"
)

func TestGradeFor(t *testing.T) {
	tests := []struct {
		pct  float64
		want Grade
	}{
		{pct: 100, want: GradeAPlus},
		{pct: 90, want: GradeAPlus},
		{pct: 89.99, want: GradeA},
		{pct: 80, want: GradeA},
		{pct: 79.99, want: GradeBPlus},
		{pct: 70, want: GradeBPlus},
		{pct: 69.99, want: GradeB},
		{pct: 60, want: GradeB},
		// boundary examples elsewhere list 59.99 as D; the ladder (>= 50 is C) is authoritative
		{pct: 59.99, want: GradeC},
		{pct: 50, want: GradeC},
		{pct: 49.99, want: GradeD},
		{pct: 40, want: GradeD},
		{pct: 39.99, want: GradeF},
		{pct: 0, want: GradeF},
	}
	for _, tt := range tests {
		if got := GradeFor(tt.pct); got != tt.want {
			t.Errorf("GradeFor(%v) = %v, want %v", tt.pct, got, tt.want)
		}
	}
}

func TestTrendFor(t *testing.T) {
	tests := []struct {
		pct  float64
		want Trend
	}{
		{pct: 100, want: TrendUp},
		{pct: 75, want: TrendUp},
		{pct: 74.99, want: TrendStable},
		{pct: 50, want: TrendStable},
		{pct: 49.99, want: TrendDown},
		{pct: 0, want: TrendDown},
	}
	for _, tt := range tests {
		if got := TrendFor(tt.pct); got != tt.want {
			t.Errorf("TrendFor(%v) = %v, want %v", tt.pct, got, tt.want)
		}
	}
}
