package domain

import (
	"testing"

	apperrors "github.com/vladimiradmaev/vitals-tracker/internal/errors"
)

func intPtr(v int) *int { return &v }

func TestNewReadingValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      NewReading
		wantErr string
	}{
		{"valid", NewReading{Date: "2024-03-01", TimeSlot: "morning", BloodSugar: intPtr(110)}, ""},
		{"missing slot", NewReading{Date: "2024-03-01", BloodSugar: intPtr(110)}, "date and time_slot are required"},
		{"bad date", NewReading{Date: "2024-13-01", TimeSlot: "noon", BloodSugar: intPtr(110)}, "date must be formatted as YYYY-MM-DD"},
		{"only zeros", NewReading{Date: "2024-03-01", TimeSlot: "noon", Systolic: intPtr(0), OxygenLevel: intPtr(0)}, "at least one vital sign measurement is required"},
		{"negative reported first", NewReading{Date: "2024-03-01", TimeSlot: "noon", Systolic: intPtr(-1), BloodSugar: intPtr(-5)}, "systolic must not be negative"},
		{"urine alone counts", NewReading{Date: "2024-03-01", TimeSlot: "noon", UrineOutput: intPtr(800)}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
				t.Fatalf("err = %v, want validation error", err)
			}
			if appErr := err.(*apperrors.AppError); appErr.Message != tt.wantErr {
				t.Errorf("message = %q, want %q", appErr.Message, tt.wantErr)
			}
		})
	}
}

func TestToReadingDropsAbsentValues(t *testing.T) {
	notes := "  "
	r := NewReading{
		Date:       " 2024-03-01 ",
		TimeSlot:   " evening ",
		Systolic:   intPtr(0),
		BloodSugar: intPtr(140),
		Notes:      &notes,
	}.ToReading()

	if r.Date != "2024-03-01" || r.TimeSlot != "evening" {
		t.Errorf("date/slot = %q %q", r.Date, r.TimeSlot)
	}
	if r.Systolic != nil || r.Notes != nil {
		t.Errorf("absent values kept: %+v", r)
	}
	if r.BloodSugar == nil || *r.BloodSugar != 140 {
		t.Errorf("blood sugar = %v", r.BloodSugar)
	}
}

func TestPresent(t *testing.T) {
	if Present(nil) || Present(intPtr(0)) || !Present(intPtr(1)) {
		t.Error("Present treats nil and zero as absent")
	}
}
