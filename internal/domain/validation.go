package domain

import (
	"strings"

	apperrors "github.com/vladimiradmaev/vitals-tracker/internal/errors"
	"github.com/vladimiradmaev/vitals-tracker/internal/utils"
)

// NewReading is a reading as submitted, before it is stored.
type NewReading struct {
	Date        string  `json:"date"`
	TimeSlot    string  `json:"time_slot"`
	Systolic    *int    `json:"systolic"`
	Diastolic   *int    `json:"diastolic"`
	OxygenLevel *int    `json:"oxygen_level"`
	BloodSugar  *int    `json:"blood_sugar"`
	UrineOutput *int    `json:"urine_output"`
	Notes       *string `json:"notes"`
}

// Present reports whether an optional vital was measured.
func Present(v *int) bool {
	return v != nil && *v != 0
}

// Validate rejects submissions without a date and time slot, without any
// measured vital, or with negative values.
func (n NewReading) Validate() error {
	if strings.TrimSpace(n.Date) == "" || strings.TrimSpace(n.TimeSlot) == "" {
		return apperrors.NewValidationError("date and time_slot are required")
	}
	if _, err := utils.ParseDay(n.Date); err != nil {
		return apperrors.NewValidationError("date must be formatted as YYYY-MM-DD").
			WithContext("date", n.Date)
	}

	vitals := []struct {
		name  string
		value *int
	}{
		{"systolic", n.Systolic},
		{"diastolic", n.Diastolic},
		{"oxygen_level", n.OxygenLevel},
		{"blood_sugar", n.BloodSugar},
		{"urine_output", n.UrineOutput},
	}
	measured := 0
	for _, v := range vitals {
		if v.value != nil && *v.value < 0 {
			return apperrors.NewValidationError(v.name + " must not be negative")
		}
		if Present(v.value) {
			measured++
		}
	}
	if measured == 0 {
		return apperrors.NewValidationError("at least one vital sign measurement is required")
	}
	return nil
}

// ToReading normalises the submission into an unsaved Reading. Zero vitals
// and blank notes are stored as absent.
func (n NewReading) ToReading() Reading {
	day, _ := utils.ParseDay(n.Date)
	r := Reading{
		Date:        utils.FormatDay(day),
		TimeSlot:    strings.TrimSpace(n.TimeSlot),
		Systolic:    presentOrNil(n.Systolic),
		Diastolic:   presentOrNil(n.Diastolic),
		OxygenLevel: presentOrNil(n.OxygenLevel),
		BloodSugar:  presentOrNil(n.BloodSugar),
		UrineOutput: presentOrNil(n.UrineOutput),
	}
	if n.Notes != nil && strings.TrimSpace(*n.Notes) != "" {
		notes := strings.TrimSpace(*n.Notes)
		r.Notes = &notes
	}
	return r
}

func presentOrNil(v *int) *int {
	if !Present(v) {
		return nil
	}
	out := *v
	return &out
}
