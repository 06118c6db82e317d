package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/vladimiradmaev/vitals-tracker/internal/analysis"
	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
	"github.com/vladimiradmaev/vitals-tracker/internal/logger"
	"github.com/vladimiradmaev/vitals-tracker/internal/utils"
)

const (
	defaultListDays = 30
	maxListDays     = 365
	latestLookback  = 365
)

// VitalsService records readings and serves their history.
type VitalsService struct {
	readings  domain.ReadingStore
	sessions  domain.SessionStore
	publisher domain.EventPublisher
	notifier  domain.AlertNotifier
	now       func() time.Time
	log       *slog.Logger
}

// NewVitalsService wires the recording pipeline. publisher and notifier may
// be nil.
func NewVitalsService(readings domain.ReadingStore, sessions domain.SessionStore, publisher domain.EventPublisher, notifier domain.AlertNotifier) *VitalsService {
	return &VitalsService{
		readings:  readings,
		sessions:  sessions,
		publisher: publisher,
		notifier:  notifier,
		now:       time.Now,
		log:       logger.Component("vitals_service"),
	}
}

// SetNotifier attaches the alert notifier once it exists; the Telegram bot
// is created after the services.
func (s *VitalsService) SetNotifier(n domain.AlertNotifier) {
	s.notifier = n
}

// Record validates a reading, evaluates it and stores the reading together
// with its alerts, then notifies viewers. Notification failures are logged and never fail the
// call.
func (s *VitalsService) Record(ctx context.Context, in domain.NewReading) (*domain.Reading, []domain.Alert, error) {
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}

	reading := in.ToReading()
	alerts := analysis.EvaluateAll(reading)
	if err := s.readings.SaveReadingWithAlerts(ctx, &reading, alerts); err != nil {
		return nil, nil, err
	}

	s.log.Info("Reading recorded", "reading_id", reading.ID, "date", reading.Date, "alerts", len(alerts))

	s.broadcast(ctx, reading, alerts)
	if len(alerts) > 0 && s.notifier != nil {
		if err := s.notifier.NotifyAlerts(ctx, reading, alerts); err != nil {
			s.log.Warn("Alert notification failed", "reading_id", reading.ID, "error", err)
		}
	}
	return &reading, alerts, nil
}

// broadcast sends the event to every active sharing session.
func (s *VitalsService) broadcast(ctx context.Context, reading domain.Reading, alerts []domain.Alert) {
	if s.publisher == nil || s.sessions == nil {
		return
	}
	sessions, err := s.sessions.ListActiveSessions(ctx)
	if err != nil {
		s.log.Warn("Failed to list sessions for broadcast", "error", err)
		return
	}

	event := domain.VitalsEvent{
		ID:        reading.ID,
		Date:      reading.Date,
		TimeSlot:  reading.TimeSlot,
		Vitals:    reading.Vitals(),
		Alerts:    alerts,
		Timestamp: s.now().UTC(),
	}
	for _, session := range sessions {
		if err := s.publisher.Publish(ctx, session.ID, event); err != nil {
			s.log.Warn("Failed to publish event", "session_id", session.ID, "error", err)
		}
	}
}

// List returns the readings of the trailing days, most recent first.
func (s *VitalsService) List(ctx context.Context, days int) ([]domain.Reading, error) {
	days = utils.ClampDays(days, defaultListDays, maxListDays)
	return s.readings.QueryReadings(ctx, domain.LastDays(s.now(), days))
}

// DailyTrends returns per-day averages over the trailing days, oldest first.
func (s *VitalsService) DailyTrends(ctx context.Context, days int) ([]domain.DailyAverage, error) {
	readings, err := s.List(ctx, days)
	if err != nil {
		return nil, err
	}
	return analysis.DailyAverages(readings), nil
}

// Latest returns the most recent reading with its alerts, or nil when there
// is none in the last year.
func (s *VitalsService) Latest(ctx context.Context) (*domain.ReadingWithAlerts, error) {
	readings, err := s.readings.QueryReadingsWithAlerts(ctx, domain.LastDays(s.now(), latestLookback))
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, nil
	}
	return &readings[0], nil
}
