package repository

import (
	"context"
	"errors"
	"time"

	"github.com/vladimiradmaev/vitals-tracker/internal/database"
	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/vitals-tracker/internal/errors"
	"gorm.io/gorm"
)

type SessionRepository struct {
	base
}

func NewSessionRepository(db *gorm.DB, timeout time.Duration) *SessionRepository {
	return &SessionRepository{base: newBase(db, timeout)}
}

var _ domain.SessionStore = (*SessionRepository)(nil)

func (r *SessionRepository) CreateSession(ctx context.Context, session *domain.SharingSession) error {
	db, cancel := r.session(ctx)
	defer cancel()

	rec := toSessionRecord(session)
	if err := db.Create(&rec).Error; err != nil {
		return apperrors.NewStorageError(err, "create_session")
	}
	session.CreatedAt = rec.CreatedAt
	return nil
}

func (r *SessionRepository) GetActiveSession(ctx context.Context, id string) (*domain.SharingSession, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var rec database.SharingSessionRecord
	err := db.Where("id = ? AND is_active = ?", id, true).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewSessionNotFoundError(id)
	}
	if err != nil {
		return nil, apperrors.NewStorageError(err, "get_session")
	}
	session := toSession(rec)
	return &session, nil
}

func (r *SessionRepository) TouchSession(ctx context.Context, id string, at time.Time) error {
	db, cancel := r.session(ctx)
	defer cancel()

	res := db.Model(&database.SharingSessionRecord{}).
		Where("id = ? AND is_active = ?", id, true).
		Update("last_accessed", at.UTC())
	if res.Error != nil {
		return apperrors.NewStorageError(res.Error, "touch_session")
	}
	if res.RowsAffected == 0 {
		return apperrors.NewSessionNotFoundError(id)
	}
	return nil
}

func (r *SessionRepository) ListActiveSessions(ctx context.Context) ([]domain.SharingSession, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var recs []database.SharingSessionRecord
	if err := db.Where("is_active = ?", true).Order("created_at ASC").Find(&recs).Error; err != nil {
		return nil, apperrors.NewStorageError(err, "list_sessions")
	}
	sessions := make([]domain.SharingSession, len(recs))
	for i, rec := range recs {
		sessions[i] = toSession(rec)
	}
	return sessions, nil
}

// DeactivateIdleSessions returns how many sessions were deactivated.
func (r *SessionRepository) DeactivateIdleSessions(ctx context.Context, idleSince time.Time) (int64, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	result := db.Model(&database.SharingSessionRecord{}).
		Where("is_active = ? AND last_accessed < ?", true, idleSince.UTC()).
		Update("is_active", false)
	if result.Error != nil {
		return 0, apperrors.NewStorageError(result.Error, "deactivate_sessions")
	}
	return result.RowsAffected, nil
}
