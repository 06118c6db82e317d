package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vladimiradmaev/vitals-tracker/internal/cache"
	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/vitals-tracker/internal/errors"
	"github.com/vladimiradmaev/vitals-tracker/internal/logger"
	"github.com/vladimiradmaev/vitals-tracker/internal/utils"
)

// SharedVitals is what a caregiver sees through a sharing link.
type SharedVitals struct {
	Patient string                     `json:"patient"`
	Vitals  []domain.ReadingWithAlerts `json:"vitals"`
}

// SharingService manages read-only sharing sessions.
type SharingService struct {
	sessions domain.SessionStore
	readings domain.ReadingStore
	cache    cache.SessionCache
	closer   domain.SessionCloser
	baseURL  string
	now      func() time.Time
	newID    func() string
	log      *slog.Logger
}

func NewSharingService(sessions domain.SessionStore, readings domain.ReadingStore, sessionCache cache.SessionCache, baseURL string) *SharingService {
	if sessionCache == nil {
		sessionCache = cache.NewMemorySessionCache(time.Minute)
	}
	return &SharingService{
		sessions: sessions,
		readings: readings,
		cache:    sessionCache,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
		log:      logger.Component("sharing_service"),
	}
}

// SetSessionCloser attaches the live stream hub so expired sessions lose
// their open streams.
func (s *SharingService) SetSessionCloser(c domain.SessionCloser) {
	s.closer = c
}

// ShareURL is the dashboard link for a session.
func (s *SharingService) ShareURL(sessionID string) string {
	return fmt.Sprintf("%s/doctor/%s", s.baseURL, sessionID)
}

// Create opens a new active session and returns it with its share URL.
func (s *SharingService) Create(ctx context.Context, patientName, doctorEmail string) (*domain.SharingSession, string, error) {
	patientName = strings.TrimSpace(patientName)
	doctorEmail = strings.TrimSpace(doctorEmail)
	if patientName == "" {
		return nil, "", apperrors.NewValidationError("patientName is required")
	}

	now := s.now().UTC()
	session := &domain.SharingSession{
		ID:           s.newID(),
		PatientName:  patientName,
		DoctorEmail:  doctorEmail,
		CreatedAt:    now,
		LastAccessed: now,
		IsActive:     true,
	}
	if err := s.sessions.CreateSession(ctx, session); err != nil {
		return nil, "", err
	}
	s.cache.Set(ctx, *session)

	s.log.Info("Sharing session created", "session_id", session.ID)
	return session, s.ShareURL(session.ID), nil
}

// Get resolves an active session and records the access.
func (s *SharingService) Get(ctx context.Context, id string) (*domain.SharingSession, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperrors.NewSessionNotFoundError(id)
	}

	session, ok := s.cache.Get(ctx, id)
	if !ok {
		var err error
		session, err = s.sessions.GetActiveSession(ctx, id)
		if err != nil {
			return nil, err
		}
	}

	// The touch also confirms a cached session is still active.
	now := s.now().UTC()
	if err := s.sessions.TouchSession(ctx, id, now); err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
			s.cache.Delete(ctx, id)
			return nil, err
		}
		s.log.Warn("Failed to update last accessed", "session_id", id, "error", err)
	} else {
		session.LastAccessed = now
	}
	s.cache.Set(ctx, *session)
	return session, nil
}

// SharedVitals returns the patient's readings of the trailing days, each with
// its structured alerts.
func (s *SharingService) SharedVitals(ctx context.Context, id string, days int) (*SharedVitals, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	days = utils.ClampDays(days, defaultListDays, maxListDays)
	readings, err := s.readings.QueryReadingsWithAlerts(ctx, domain.LastDays(s.now(), days))
	if err != nil {
		return nil, err
	}
	return &SharedVitals{Patient: session.PatientName, Vitals: readings}, nil
}

// ExpireIdle deactivates sessions not accessed within maxIdle. A non-positive
// maxIdle disables expiry.
func (s *SharingService) ExpireIdle(ctx context.Context, maxIdle time.Duration) (int64, error) {
	if maxIdle <= 0 {
		return 0, nil
	}
	cutoff := s.now().UTC().Add(-maxIdle)

	active, err := s.sessions.ListActiveSessions(ctx)
	if err != nil {
		return 0, err
	}
	for _, session := range active {
		if session.LastAccessed.Before(cutoff) {
			s.cache.Delete(ctx, session.ID)
			if s.closer != nil {
				s.closer.CloseSession(session.ID)
			}
		}
	}

	n, err := s.sessions.DeactivateIdleSessions(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info("Idle sharing sessions deactivated", "count", n)
	}
	return n, nil
}
