package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/vitals-tracker/internal/errors"
	"github.com/vladimiradmaev/vitals-tracker/internal/utils"
)

func intPtr(v int) *int { return &v }

// memoryStore implements both stores in memory.
type memoryStore struct {
	mu       sync.Mutex
	readings []domain.Reading
	alerts   []domain.Alert
	sessions map[string]domain.SharingSession
	nextID   uint
	saveErr  error
	queryErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[string]domain.SharingSession)}
}

func (m *memoryStore) SaveReadingWithAlerts(_ context.Context, r *domain.Reading, alerts []domain.Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	now := time.Now().UTC()
	m.nextID++
	r.ID = m.nextID
	r.CreatedAt = now
	m.readings = append(m.readings, *r)
	for i := range alerts {
		m.nextID++
		alerts[i].ID = m.nextID
		alerts[i].ReadingID = r.ID
		alerts[i].CreatedAt = now
		m.alerts = append(m.alerts, alerts[i])
	}
	return nil
}

func (m *memoryStore) QueryReadings(_ context.Context, rng domain.DateRange) ([]domain.Reading, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	from := utils.FormatDay(rng.From)
	var out []domain.Reading
	for _, r := range m.readings {
		if rng.From.IsZero() || r.Date >= from {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date > out[j].Date
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *memoryStore) QueryReadingsWithAlerts(ctx context.Context, rng domain.DateRange) ([]domain.ReadingWithAlerts, error) {
	readings, err := m.QueryReadings(ctx, rng)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ReadingWithAlerts, len(readings))
	for i, r := range readings {
		alerts := []domain.Alert{}
		for _, a := range m.alerts {
			if a.ReadingID == r.ID {
				alerts = append(alerts, a)
			}
		}
		out[i] = domain.ReadingWithAlerts{Reading: r, Alerts: alerts}
	}
	return out, nil
}

func (m *memoryStore) QueryAlerts(_ context.Context, since time.Time, limit int) ([]domain.RecentAlert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	var out []domain.RecentAlert
	for i := len(m.alerts) - 1; i >= 0 && len(out) < limit; i-- {
		a := m.alerts[i]
		if a.CreatedAt.Before(since) {
			continue
		}
		out = append(out, domain.RecentAlert{Alert: a})
	}
	return out, nil
}

func (m *memoryStore) CreateSession(_ context.Context, s *domain.SharingSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = *s
	return nil
}

func (m *memoryStore) GetActiveSession(_ context.Context, id string) (*domain.SharingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || !s.IsActive {
		return nil, apperrors.NewSessionNotFoundError(id)
	}
	return &s, nil
}

func (m *memoryStore) TouchSession(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || !s.IsActive {
		return apperrors.NewSessionNotFoundError(id)
	}
	s.LastAccessed = at
	m.sessions[id] = s
	return nil
}

func (m *memoryStore) ListActiveSessions(_ context.Context) ([]domain.SharingSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.SharingSession
	for _, s := range m.sessions {
		if s.IsActive {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) DeactivateIdleSessions(_ context.Context, idleSince time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if s.IsActive && s.LastAccessed.Before(idleSince) {
			s.IsActive = false
			m.sessions[id] = s
			n++
		}
	}
	return n, nil
}

type publishedEvent struct {
	sessionID string
	event     domain.VitalsEvent
}

type recordingPublisher struct {
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, sessionID string, event domain.VitalsEvent) error {
	p.events = append(p.events, publishedEvent{sessionID, event})
	return p.err
}

type recordingNotifier struct {
	calls int
	last  []domain.Alert
	err   error
}

func (n *recordingNotifier) NotifyAlerts(_ context.Context, _ domain.Reading, alerts []domain.Alert) error {
	n.calls++
	n.last = alerts
	return n.err
}
