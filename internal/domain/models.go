package domain

import (
	"time"
)

// Reading represents one vital-sign record entered by the patient.
// Vital fields are optional; a nil or zero value means "not measured".
type Reading struct {
	ID          uint      `json:"id"`
	Date        string    `json:"date"`      // Format: "YYYY-MM-DD"
	TimeSlot    string    `json:"time_slot"` // free-form, e.g. "morning"
	Systolic    *int      `json:"systolic"`
	Diastolic   *int      `json:"diastolic"`
	OxygenLevel *int      `json:"oxygen_level"`
	BloodSugar  *int      `json:"blood_sugar"`
	UrineOutput *int      `json:"urine_output"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
}

// Vitals is the measurement part of a reading as broadcast to viewers.
type Vitals struct {
	Systolic    *int `json:"systolic"`
	Diastolic   *int `json:"diastolic"`
	OxygenLevel *int `json:"oxygen_level"`
	BloodSugar  *int `json:"blood_sugar"`
	UrineOutput *int `json:"urine_output"`
}

// Vitals returns the measurement fields of the reading.
func (r Reading) Vitals() Vitals {
	return Vitals{
		Systolic:    r.Systolic,
		Diastolic:   r.Diastolic,
		OxygenLevel: r.OxygenLevel,
		BloodSugar:  r.BloodSugar,
		UrineOutput: r.UrineOutput,
	}
}

// AlertType identifies the metric an alert was raised for.
type AlertType string

const (
	AlertTypeBloodPressure AlertType = "blood_pressure"
	AlertTypeOxygen        AlertType = "oxygen"
	AlertTypeBloodSugar    AlertType = "blood_sugar"
)

// Severity of an alert.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Alert is derived from a single reading. ID and CreatedAt are assigned by
// the store when the alert is persisted.
type Alert struct {
	ID        uint      `json:"id,omitempty"`
	ReadingID uint      `json:"reading_id"`
	Type      AlertType `json:"type"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// RecentAlert is an alert joined with its reading's date and time slot.
type RecentAlert struct {
	Alert
	Date     string `json:"date"`
	TimeSlot string `json:"time_slot"`
}

// ReadingWithAlerts carries a reading together with the structured alerts
// evaluated for it.
type ReadingWithAlerts struct {
	Reading
	Alerts []Alert `json:"alerts"`
}

// Trend is the qualitative direction of a metric.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Status classifies a metric mean against the alert thresholds.
type Status string

const (
	StatusLow    Status = "low"
	StatusNormal Status = "normal"
	StatusHigh   Status = "high"
)

// Metric keys used in InsightSummary.Trends.
const (
	MetricBloodPressure = "bloodPressure"
	MetricOxygenLevel   = "oxygenLevel"
	MetricBloodSugar    = "bloodSugar"
)

// TrendResult is recomputed per request and never persisted.
type TrendResult struct {
	Metric  string `json:"metric"`
	Average string `json:"average"`
	Trend   Trend  `json:"trend"`
	Status  Status `json:"status"`
}

// SummaryStats holds reading counts over the insight window.
type SummaryStats struct {
	TotalReadings         int     `json:"totalReadings"`
	DaysTracked           int     `json:"daysTracked"`
	AverageReadingsPerDay float64 `json:"averageReadingsPerDay"`
}

// InsightSummary is the aggregate view served to dashboards.
type InsightSummary struct {
	Summary         SummaryStats           `json:"summary"`
	Trends          map[string]TrendResult `json:"trends"`
	Recommendations []string               `json:"recommendations"`
	Alerts          []RecentAlert          `json:"alerts"`
	WindowDays      int                    `json:"windowDays"`
}

// DailyAverage holds per-day means of each vital; nil when the vital was not
// measured that day.
type DailyAverage struct {
	Date         string   `json:"date"`
	AvgSystolic  *float64 `json:"avg_systolic"`
	AvgDiastolic *float64 `json:"avg_diastolic"`
	AvgOxygen    *float64 `json:"avg_oxygen"`
	AvgSugar     *float64 `json:"avg_sugar"`
	AvgUrine     *float64 `json:"avg_urine"`
}

// SharingSession grants read-only access to the reading history.
type SharingSession struct {
	ID           string    `json:"id"`
	PatientName  string    `json:"patient_name"`
	DoctorEmail  string    `json:"doctor_email"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed"`
	IsActive     bool      `json:"is_active"`
}

// VitalsEvent is published to sharing-session viewers after a reading is
// recorded.
type VitalsEvent struct {
	ID        uint      `json:"id"`
	Date      string    `json:"date"`
	TimeSlot  string    `json:"time_slot"`
	Vitals    Vitals    `json:"vitals"`
	Alerts    []Alert   `json:"alerts"`
	Timestamp time.Time `json:"timestamp"`
}
