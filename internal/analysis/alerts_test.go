package analysis

import (
	"slices"
	"sync"
	"testing"

	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		reading domain.Reading
		want    []domain.Alert
	}{
		{
			name: "high blood pressure",
			reading: domain.Reading{
				ID: 7, Systolic: intPtr(150), Diastolic: intPtr(95),
			},
			want: []domain.Alert{{
				ReadingID: 7,
				Type:      domain.AlertTypeBloodPressure,
				Severity:  domain.SeverityHigh,
				Message:   "High blood pressure detected: 150/95 mmHg",
			}},
		},
		{
			name:    "high wins over low",
			reading: domain.Reading{Systolic: intPtr(150), Diastolic: intPtr(50)},
			want: []domain.Alert{{
				Type:     domain.AlertTypeBloodPressure,
				Severity: domain.SeverityHigh,
				Message:  "High blood pressure detected: 150/50 mmHg",
			}},
		},
		{
			name:    "low blood pressure",
			reading: domain.Reading{Systolic: intPtr(85), Diastolic: intPtr(70)},
			want: []domain.Alert{{
				Type:     domain.AlertTypeBloodPressure,
				Severity: domain.SeverityLow,
				Message:  "Low blood pressure detected: 85/70 mmHg",
			}},
		},
		{
			name:    "systolic alone is ignored",
			reading: domain.Reading{Systolic: intPtr(200)},
			want:    nil,
		},
		{
			name:    "boundaries are normal",
			reading: domain.Reading{Systolic: intPtr(140), Diastolic: intPtr(90), OxygenLevel: intPtr(95), BloodSugar: intPtr(180)},
			want:    nil,
		},
		{
			name:    "moderate oxygen",
			reading: domain.Reading{OxygenLevel: intPtr(93)},
			want: []domain.Alert{{
				Type:     domain.AlertTypeOxygen,
				Severity: domain.SeverityModerate,
				Message:  "Low oxygen level: 93%",
			}},
		},
		{
			name:    "critical oxygen",
			reading: domain.Reading{OxygenLevel: intPtr(88)},
			want: []domain.Alert{{
				Type:     domain.AlertTypeOxygen,
				Severity: domain.SeverityCritical,
				Message:  "Low oxygen level: 88%",
			}},
		},
		{
			name:    "zero oxygen means not measured",
			reading: domain.Reading{OxygenLevel: intPtr(0)},
			want:    nil,
		},
		{
			name:    "oxygen 96 is normal",
			reading: domain.Reading{OxygenLevel: intPtr(96)},
			want:    nil,
		},
		{
			name:    "blood sugar 100 is normal",
			reading: domain.Reading{BloodSugar: intPtr(100)},
			want:    nil,
		},
		{
			name:    "low blood sugar",
			reading: domain.Reading{BloodSugar: intPtr(65)},
			want: []domain.Alert{{
				Type:     domain.AlertTypeBloodSugar,
				Severity: domain.SeverityLow,
				Message:  "Low blood sugar: 65 mg/dL",
			}},
		},
		{
			name: "all three in fixed order",
			reading: domain.Reading{
				Systolic: intPtr(150), Diastolic: intPtr(95),
				OxygenLevel: intPtr(92), BloodSugar: intPtr(200), UrineOutput: intPtr(5000),
			},
			want: []domain.Alert{
				{Type: domain.AlertTypeBloodPressure, Severity: domain.SeverityHigh, Message: "High blood pressure detected: 150/95 mmHg"},
				{Type: domain.AlertTypeOxygen, Severity: domain.SeverityModerate, Message: "Low oxygen level: 92%"},
				{Type: domain.AlertTypeBloodSugar, Severity: domain.SeverityHigh, Message: "High blood sugar: 200 mg/dL"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EvaluateAll(tt.reading)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d alerts (%+v), want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("alert %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestEvaluateAllNeverNil(t *testing.T) {
	if got := EvaluateAll(domain.Reading{UrineOutput: intPtr(300)}); got == nil {
		t.Fatal("expected empty, non-nil slice")
	}
}

func TestEvaluateStopsEarly(t *testing.T) {
	r := domain.Reading{Systolic: intPtr(150), Diastolic: intPtr(95), OxygenLevel: intPtr(80)}
	count := 0
	for range Evaluate(r) {
		count++
		break
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}
}

func TestEvaluateConcurrent(t *testing.T) {
	const n = 64
	readings := make([]domain.Reading, n)
	want := make([][]domain.Alert, n)
	for i := range readings {
		readings[i] = domain.Reading{
			ID:          uint(i + 1),
			Systolic:    intPtr(100 + i),
			Diastolic:   intPtr(70 + i%30),
			OxygenLevel: intPtr(85 + i%15),
			BloodSugar:  intPtr(60 + 3*i),
		}
		want[i] = EvaluateAll(readings[i])
	}

	got := make([][]domain.Alert, n)
	var wg sync.WaitGroup
	for i := range readings {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i] = EvaluateAll(readings[i])
		}()
	}
	wg.Wait()

	for i := range readings {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("reading %d: concurrent result %+v, sequential %+v", i, got[i], want[i])
		}
		for _, a := range got[i] {
			if a.ReadingID != readings[i].ID {
				t.Errorf("reading %d produced alert for reading %d", readings[i].ID, a.ReadingID)
			}
		}
	}
}
