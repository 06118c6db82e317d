package analysis

import (
	"fmt"
	"iter"
	"slices"

	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
)

// Alert thresholds. Insight status classification reuses the same values.
const (
	systolicHigh  = 140
	diastolicHigh = 90
	systolicLow   = 90
	diastolicLow  = 60

	oxygenLow      = 95
	oxygenCritical = 90

	bloodSugarHigh = 180
	bloodSugarLow  = 70
)

// Evaluate yields the alerts for one reading in the order blood pressure,
// oxygen, blood sugar, with at most one alert per metric. Urine output is
// never evaluated. The result depends only on the reading's own values.
func Evaluate(r domain.Reading) iter.Seq[domain.Alert] {
	return func(yield func(domain.Alert) bool) {
		for _, check := range []func(domain.Reading) (domain.Alert, bool){
			bloodPressureAlert,
			oxygenAlert,
			bloodSugarAlert,
		} {
			alert, ok := check(r)
			if !ok {
				continue
			}
			alert.ReadingID = r.ID
			if !yield(alert) {
				return
			}
		}
	}
}

// EvaluateAll collects Evaluate into a slice; never nil.
func EvaluateAll(r domain.Reading) []domain.Alert {
	alerts := slices.Collect(Evaluate(r))
	if alerts == nil {
		return []domain.Alert{}
	}
	return alerts
}

func bloodPressureAlert(r domain.Reading) (domain.Alert, bool) {
	if !domain.Present(r.Systolic) || !domain.Present(r.Diastolic) {
		return domain.Alert{}, false
	}
	sys, dia := *r.Systolic, *r.Diastolic

	switch bloodPressureStatus(float64(sys), float64(dia)) {
	case domain.StatusHigh:
		return domain.Alert{
			Type:     domain.AlertTypeBloodPressure,
			Severity: domain.SeverityHigh,
			Message:  fmt.Sprintf("High blood pressure detected: %d/%d mmHg", sys, dia),
		}, true
	case domain.StatusLow:
		return domain.Alert{
			Type:     domain.AlertTypeBloodPressure,
			Severity: domain.SeverityLow,
			Message:  fmt.Sprintf("Low blood pressure detected: %d/%d mmHg", sys, dia),
		}, true
	}
	return domain.Alert{}, false
}

func oxygenAlert(r domain.Reading) (domain.Alert, bool) {
	if !domain.Present(r.OxygenLevel) {
		return domain.Alert{}, false
	}
	level := *r.OxygenLevel
	if oxygenStatus(float64(level)) != domain.StatusLow {
		return domain.Alert{}, false
	}

	severity := domain.SeverityModerate
	if level < oxygenCritical {
		severity = domain.SeverityCritical
	}
	return domain.Alert{
		Type:     domain.AlertTypeOxygen,
		Severity: severity,
		Message:  fmt.Sprintf("Low oxygen level: %d%%", level),
	}, true
}

func bloodSugarAlert(r domain.Reading) (domain.Alert, bool) {
	if !domain.Present(r.BloodSugar) {
		return domain.Alert{}, false
	}
	value := *r.BloodSugar

	switch bloodSugarStatus(float64(value)) {
	case domain.StatusHigh:
		return domain.Alert{
			Type:     domain.AlertTypeBloodSugar,
			Severity: domain.SeverityHigh,
			Message:  fmt.Sprintf("High blood sugar: %d mg/dL", value),
		}, true
	case domain.StatusLow:
		return domain.Alert{
			Type:     domain.AlertTypeBloodSugar,
			Severity: domain.SeverityLow,
			Message:  fmt.Sprintf("Low blood sugar: %d mg/dL", value),
		}, true
	}
	return domain.Alert{}, false
}

// High is checked before low for blood pressure.
func bloodPressureStatus(systolic, diastolic float64) domain.Status {
	switch {
	case systolic > systolicHigh || diastolic > diastolicHigh:
		return domain.StatusHigh
	case systolic < systolicLow || diastolic < diastolicLow:
		return domain.StatusLow
	default:
		return domain.StatusNormal
	}
}

func oxygenStatus(level float64) domain.Status {
	if level < oxygenLow {
		return domain.StatusLow
	}
	return domain.StatusNormal
}

func bloodSugarStatus(value float64) domain.Status {
	switch {
	case value > bloodSugarHigh:
		return domain.StatusHigh
	case value < bloodSugarLow:
		return domain.StatusLow
	default:
		return domain.StatusNormal
	}
}
