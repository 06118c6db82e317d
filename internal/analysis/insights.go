package analysis

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/vitals-tracker/internal/errors"
	"github.com/vladimiradmaev/vitals-tracker/internal/utils"
)

const (
	DefaultWindowDays = 30
	MaxWindowDays     = 365

	// Recent alerts are looked up independently of the trend window.
	RecentAlertDays  = 7
	RecentAlertLimit = 10
)

// Recommendation texts, appended in this order.
const (
	RecommendationBloodPressure = "Consider lifestyle changes to reduce blood pressure: reduce sodium, increase exercise, manage stress"
	RecommendationOxygen        = "Low oxygen levels detected. Consult your doctor about breathing exercises or oxygen therapy"
	RecommendationBloodSugar    = "High blood sugar levels. Monitor carbohydrate intake and consult about medication adjustments"
	RecommendationKeepGoing     = "Keep up the good work! Continue monitoring regularly."
)

// ReadingSource is the read side of the Reading Store used for insights.
type ReadingSource interface {
	QueryReadings(ctx context.Context, rng domain.DateRange) ([]domain.Reading, error)
	QueryAlerts(ctx context.Context, since time.Time, limit int) ([]domain.RecentAlert, error)
}

// Aggregator turns the readings of a trailing window into an InsightSummary.
// It holds no mutable state; concurrent Summarize calls are safe.
type Aggregator struct {
	source ReadingSource
	now    func() time.Time
}

// NewAggregator creates an aggregator reading from source.
func NewAggregator(source ReadingSource) *Aggregator {
	return &Aggregator{source: source, now: time.Now}
}

// WithClock replaces the time source, for deterministic windows in tests.
func (a *Aggregator) WithClock(now func() time.Time) *Aggregator {
	a.now = now
	return a
}

// Summarize computes the insight summary for the trailing windowDays. Any
// store failure aborts the whole computation with a storage error.
func (a *Aggregator) Summarize(ctx context.Context, windowDays int) (*domain.InsightSummary, error) {
	windowDays = utils.ClampDays(windowDays, DefaultWindowDays, MaxWindowDays)
	now := a.now()

	readings, err := a.source.QueryReadings(ctx, domain.LastDays(now, windowDays))
	if err != nil {
		return nil, asStorageError(err, "query_readings")
	}
	alerts, err := a.source.QueryAlerts(ctx, now.AddDate(0, 0, -RecentAlertDays), RecentAlertLimit)
	if err != nil {
		return nil, asStorageError(err, "query_alerts")
	}
	if alerts == nil {
		alerts = []domain.RecentAlert{}
	}

	summary := BuildSummary(readings)
	summary.Alerts = alerts
	summary.WindowDays = windowDays
	return summary, nil
}

// BuildSummary computes stats, trends and recommendations for readings that
// are already ordered most recent first. Alerts are left empty.
func BuildSummary(readings []domain.Reading) *domain.InsightSummary {
	summary := &domain.InsightSummary{
		Summary:         summaryStats(readings),
		Trends:          make(map[string]domain.TrendResult),
		Recommendations: []string{},
		Alerts:          []domain.RecentAlert{},
	}

	if sys, dia := bloodPressureSeries(readings); len(sys) > 0 {
		avgSys, avgDia := mean(sys), mean(dia)
		status := bloodPressureStatus(avgSys, avgDia)
		summary.Trends[domain.MetricBloodPressure] = domain.TrendResult{
			Metric:  domain.MetricBloodPressure,
			Average: fmt.Sprintf("%d/%d", roundInt(avgSys), roundInt(avgDia)),
			Trend:   Classify(sys),
			Status:  status,
		}
		if status == domain.StatusHigh {
			summary.Recommendations = append(summary.Recommendations, RecommendationBloodPressure)
		}
	}

	if oxygen := series(readings, func(r domain.Reading) *int { return r.OxygenLevel }); len(oxygen) > 0 {
		avg := mean(oxygen)
		status := oxygenStatus(avg)
		summary.Trends[domain.MetricOxygenLevel] = domain.TrendResult{
			Metric:  domain.MetricOxygenLevel,
			Average: fmt.Sprintf("%d%%", roundInt(avg)),
			Trend:   Classify(oxygen),
			Status:  status,
		}
		if status == domain.StatusLow {
			summary.Recommendations = append(summary.Recommendations, RecommendationOxygen)
		}
	}

	if sugar := series(readings, func(r domain.Reading) *int { return r.BloodSugar }); len(sugar) > 0 {
		avg := mean(sugar)
		status := bloodSugarStatus(avg)
		summary.Trends[domain.MetricBloodSugar] = domain.TrendResult{
			Metric:  domain.MetricBloodSugar,
			Average: fmt.Sprintf("%d mg/dL", roundInt(avg)),
			Trend:   Classify(sugar),
			Status:  status,
		}
		if status == domain.StatusHigh {
			summary.Recommendations = append(summary.Recommendations, RecommendationBloodSugar)
		}
	}

	if len(summary.Recommendations) == 0 {
		summary.Recommendations = append(summary.Recommendations, RecommendationKeepGoing)
	}
	return summary
}

func summaryStats(readings []domain.Reading) domain.SummaryStats {
	days := make(map[string]struct{})
	for _, r := range readings {
		days[r.Date] = struct{}{}
	}
	return domain.SummaryStats{
		TotalReadings:         len(readings),
		DaysTracked:           len(days),
		AverageReadingsPerDay: float64(len(readings)) / float64(max(1, len(days))),
	}
}

// bloodPressureSeries keeps readings where both values were measured.
func bloodPressureSeries(readings []domain.Reading) (systolic, diastolic []float64) {
	for _, r := range readings {
		if domain.Present(r.Systolic) && domain.Present(r.Diastolic) {
			systolic = append(systolic, float64(*r.Systolic))
			diastolic = append(diastolic, float64(*r.Diastolic))
		}
	}
	return systolic, diastolic
}

func series(readings []domain.Reading, field func(domain.Reading) *int) []float64 {
	var out []float64
	for _, r := range readings {
		if v := field(r); domain.Present(v) {
			out = append(out, float64(*v))
		}
	}
	return out
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func asStorageError(err error, operation string) error {
	if apperrors.IsType(err, apperrors.ErrorTypeStorage) {
		return err
	}
	return apperrors.NewStorageError(err, operation)
}
