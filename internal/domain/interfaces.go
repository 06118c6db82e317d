package domain

import (
	"context"
	"time"
)

// DateRange bounds a reading query by calendar day. Both ends are
// inclusive; a zero To leaves the range open-ended.
type DateRange struct {
	From time.Time
	To   time.Time
}

// LastDays returns the range covering the trailing days before now,
// matching "date >= today - days".
func LastDays(now time.Time, days int) DateRange {
	return DateRange{From: now.AddDate(0, 0, -days)}
}

// ReadingStore persists readings and their alerts.
type ReadingStore interface {
	// SaveReadingWithAlerts stores both atomically, assigning ID and
	// CreatedAt to the reading and each alert and linking alerts to it.
	SaveReadingWithAlerts(ctx context.Context, reading *Reading, alerts []Alert) error
	// QueryReadings returns readings ordered by date desc, then time slot.
	QueryReadings(ctx context.Context, rng DateRange) ([]Reading, error)
	// QueryReadingsWithAlerts is QueryReadings with each reading's alerts.
	QueryReadingsWithAlerts(ctx context.Context, rng DateRange) ([]ReadingWithAlerts, error)
	// QueryAlerts returns alerts created at or after since, newest first.
	QueryAlerts(ctx context.Context, since time.Time, limit int) ([]RecentAlert, error)
}

// SessionStore persists sharing sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, session *SharingSession) error
	// GetActiveSession returns a NotFound error for unknown or inactive ids.
	GetActiveSession(ctx context.Context, id string) (*SharingSession, error)
	// TouchSession returns a NotFound error when id is not an active session.
	TouchSession(ctx context.Context, id string, at time.Time) error
	ListActiveSessions(ctx context.Context) ([]SharingSession, error)
	DeactivateIdleSessions(ctx context.Context, idleSince time.Time) (int64, error)
}

// EventPublisher is the publish side of the Notification Fan-out.
type EventPublisher interface {
	Publish(ctx context.Context, sessionID string, event VitalsEvent) error
}

// SessionCloser ends the live streams of a session.
type SessionCloser interface {
	CloseSession(sessionID string)
}

// AlertNotifier delivers alerts to out-of-band channels such as chat.
type AlertNotifier interface {
	NotifyAlerts(ctx context.Context, reading Reading, alerts []Alert) error
}
