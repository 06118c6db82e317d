package analysis

import (
	"testing"

	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   domain.Trend
	}{
		{"empty", nil, domain.TrendStable},
		{"single value", []float64{120}, domain.TrendStable},
		{"no older group", []float64{150, 140, 130, 120, 110, 100, 90}, domain.TrendStable},
		{"increasing", []float64{150, 150, 150, 150, 150, 150, 150, 120, 120}, domain.TrendIncreasing},
		{"decreasing", []float64{100, 100, 100, 100, 100, 100, 100, 120, 120}, domain.TrendDecreasing},
		{"flat series of eight", []float64{100, 100, 100, 100, 100, 100, 100, 100}, domain.TrendStable},
		{"within threshold", []float64{104, 104, 104, 104, 104, 104, 104, 100}, domain.TrendStable},
		{"older mean zero", []float64{5, 5, 5, 5, 5, 5, 5, 0, 0}, domain.TrendStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.values); got != tt.want {
				t.Errorf("Classify(%v) = %s, want %s", tt.values, got, tt.want)
			}
		})
	}
}

func TestClassifyIgnoresOrderWithinGroups(t *testing.T) {
	a := []float64{130, 150, 140, 150, 150, 150, 150, 120, 110}
	b := []float64{150, 150, 150, 150, 140, 150, 130, 110, 120}
	if Classify(a) != Classify(b) {
		t.Fatalf("permutation within groups changed the result")
	}
}
