package analysis

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/vitals-tracker/internal/errors"
)

type fakeSource struct {
	readings    []domain.Reading
	alerts      []domain.RecentAlert
	readingsErr error
	alertsErr   error

	gotRange domain.DateRange
	gotSince time.Time
	gotLimit int
}

func (f *fakeSource) QueryReadings(_ context.Context, rng domain.DateRange) ([]domain.Reading, error) {
	f.gotRange = rng
	return f.readings, f.readingsErr
}

func (f *fakeSource) QueryAlerts(_ context.Context, since time.Time, limit int) ([]domain.RecentAlert, error) {
	f.gotSince, f.gotLimit = since, limit
	return f.alerts, f.alertsErr
}

var fixedNow = time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC)

func newTestAggregator(src ReadingSource) *Aggregator {
	return NewAggregator(src).WithClock(func() time.Time { return fixedNow })
}

func TestSummarizeEmptyWindow(t *testing.T) {
	src := &fakeSource{}
	got, err := newTestAggregator(src).Summarize(context.Background(), 30)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if got.Summary.TotalReadings != 0 || got.Summary.DaysTracked != 0 || got.Summary.AverageReadingsPerDay != 0 {
		t.Errorf("unexpected stats: %+v", got.Summary)
	}
	if len(got.Trends) != 0 {
		t.Errorf("expected no trends, got %v", got.Trends)
	}
	if len(got.Recommendations) != 1 || got.Recommendations[0] != RecommendationKeepGoing {
		t.Errorf("recommendations = %v", got.Recommendations)
	}
	if got.Alerts == nil {
		t.Error("alerts should be an empty slice, not nil")
	}
}

func TestSummarizeMetrics(t *testing.T) {
	src := &fakeSource{
		readings: []domain.Reading{
			{ID: 3, Date: "2024-03-30", TimeSlot: "evening", Systolic: intPtr(150), Diastolic: intPtr(95), OxygenLevel: intPtr(93)},
			{ID: 2, Date: "2024-03-30", TimeSlot: "morning", Systolic: intPtr(145), Diastolic: intPtr(92), BloodSugar: intPtr(110)},
			{ID: 1, Date: "2024-03-29", TimeSlot: "morning", BloodSugar: intPtr(121)},
		},
		alerts: []domain.RecentAlert{{
			Alert: domain.Alert{ID: 9, ReadingID: 3, Type: domain.AlertTypeOxygen, Severity: domain.SeverityModerate, Message: "Low oxygen level: 93%"},
			Date:  "2024-03-30", TimeSlot: "evening",
		}},
	}

	got, err := newTestAggregator(src).Summarize(context.Background(), 7)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if got.Summary.TotalReadings != 3 || got.Summary.DaysTracked != 2 || got.Summary.AverageReadingsPerDay != 1.5 {
		t.Errorf("stats = %+v", got.Summary)
	}

	bp := got.Trends[domain.MetricBloodPressure]
	if bp.Average != "148/94" || bp.Status != domain.StatusHigh || bp.Trend != domain.TrendStable {
		t.Errorf("blood pressure = %+v", bp)
	}
	o2 := got.Trends[domain.MetricOxygenLevel]
	if o2.Average != "93%" || o2.Status != domain.StatusLow {
		t.Errorf("oxygen = %+v", o2)
	}
	sugar := got.Trends[domain.MetricBloodSugar]
	if sugar.Average != "116 mg/dL" || sugar.Status != domain.StatusNormal {
		t.Errorf("blood sugar = %+v", sugar)
	}

	want := []string{RecommendationBloodPressure, RecommendationOxygen}
	if len(got.Recommendations) != len(want) {
		t.Fatalf("recommendations = %v", got.Recommendations)
	}
	for i := range want {
		if got.Recommendations[i] != want[i] {
			t.Errorf("recommendation %d = %q, want %q", i, got.Recommendations[i], want[i])
		}
	}

	if len(got.Alerts) != 1 || got.Alerts[0].Date != "2024-03-30" {
		t.Errorf("alerts = %+v", got.Alerts)
	}
	if got.WindowDays != 7 {
		t.Errorf("window = %d, want 7", got.WindowDays)
	}
	if want := fixedNow.AddDate(0, 0, -7); !src.gotRange.From.Equal(want) {
		t.Errorf("range from = %v, want %v", src.gotRange.From, want)
	}
	if want := fixedNow.AddDate(0, 0, -RecentAlertDays); !src.gotSince.Equal(want) || src.gotLimit != RecentAlertLimit {
		t.Errorf("alerts since=%v limit=%d", src.gotSince, src.gotLimit)
	}
}

func TestSummarizeAllRecommendationsInOrder(t *testing.T) {
	src := &fakeSource{readings: []domain.Reading{
		{Date: "2024-03-30", BloodSugar: intPtr(220), OxygenLevel: intPtr(91)},
		{Date: "2024-03-29", Systolic: intPtr(160), Diastolic: intPtr(100), BloodSugar: intPtr(200)},
	}}
	got, err := newTestAggregator(src).Summarize(context.Background(), 30)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if s := got.Trends[domain.MetricBloodSugar]; s.Status != domain.StatusHigh || s.Average != "210 mg/dL" {
		t.Errorf("blood sugar = %+v", s)
	}
	want := []string{RecommendationBloodPressure, RecommendationOxygen, RecommendationBloodSugar}
	if !reflect.DeepEqual(got.Recommendations, want) {
		t.Errorf("recommendations = %v, want %v", got.Recommendations, want)
	}
}

func TestSummarizeLowBloodPressure(t *testing.T) {
	src := &fakeSource{readings: []domain.Reading{
		{Date: "2024-03-30", Systolic: intPtr(85), Diastolic: intPtr(55)},
		{Date: "2024-03-29", Systolic: intPtr(88), Diastolic: intPtr(58)},
	}}
	got, err := newTestAggregator(src).Summarize(context.Background(), 30)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	bp := got.Trends[domain.MetricBloodPressure]
	if bp.Status != domain.StatusLow || bp.Average != "87/57" {
		t.Errorf("blood pressure = %+v", bp)
	}
	if len(got.Recommendations) != 1 || got.Recommendations[0] != RecommendationKeepGoing {
		t.Errorf("low pressure should not add a recommendation, got %v", got.Recommendations)
	}
}

func TestSummarizeIsIdempotent(t *testing.T) {
	src := &fakeSource{
		readings: []domain.Reading{
			{ID: 2, Date: "2024-03-30", Systolic: intPtr(150), Diastolic: intPtr(95), OxygenLevel: intPtr(97)},
			{ID: 1, Date: "2024-03-28", BloodSugar: intPtr(190)},
		},
		alerts: []domain.RecentAlert{{
			Alert: domain.Alert{ID: 4, ReadingID: 2, Type: domain.AlertTypeBloodPressure, Severity: domain.SeverityHigh},
			Date:  "2024-03-30",
		}},
	}
	agg := newTestAggregator(src)

	first, err := agg.Summarize(context.Background(), 30)
	if err != nil {
		t.Fatalf("first Summarize: %v", err)
	}
	second, err := agg.Summarize(context.Background(), 30)
	if err != nil {
		t.Fatalf("second Summarize: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("summaries differ:\n%+v\n%+v", first, second)
	}
}

func TestSummarizeRoundsHalfUp(t *testing.T) {
	src := &fakeSource{readings: []domain.Reading{
		{Date: "2024-03-30", BloodSugar: intPtr(100)},
		{Date: "2024-03-29", BloodSugar: intPtr(101)},
	}}
	got, err := newTestAggregator(src).Summarize(context.Background(), 30)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if avg := got.Trends[domain.MetricBloodSugar].Average; avg != "101 mg/dL" {
		t.Errorf("average = %q, want 101 mg/dL", avg)
	}
}

func TestSummarizeWindowBounds(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, DefaultWindowDays},
		{-3, DefaultWindowDays},
		{90, 90},
		{1000, MaxWindowDays},
	}
	for _, tt := range tests {
		src := &fakeSource{}
		got, err := newTestAggregator(src).Summarize(context.Background(), tt.in)
		if err != nil {
			t.Fatalf("Summarize(%d): %v", tt.in, err)
		}
		if got.WindowDays != tt.want {
			t.Errorf("Summarize(%d) window = %d, want %d", tt.in, got.WindowDays, tt.want)
		}
	}
}

func TestSummarizeStorageFailure(t *testing.T) {
	boom := errors.New("connection refused")
	tests := []struct {
		name string
		src  *fakeSource
	}{
		{"readings", &fakeSource{readingsErr: boom}},
		{"alerts", &fakeSource{alertsErr: boom}},
		{"deadline", &fakeSource{readingsErr: context.DeadlineExceeded}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := newTestAggregator(tt.src).Summarize(context.Background(), 30)
			if got != nil {
				t.Fatalf("expected no partial summary, got %+v", got)
			}
			if !apperrors.IsType(err, apperrors.ErrorTypeStorage) {
				t.Fatalf("error type = %s, want storage (%v)", apperrors.TypeOf(err), err)
			}
		})
	}
}
