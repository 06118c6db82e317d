package repository

import (
	"context"
	"time"

	"github.com/vladimiradmaev/vitals-tracker/internal/database"
	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/vitals-tracker/internal/errors"
	"github.com/vladimiradmaev/vitals-tracker/internal/utils"
	"gorm.io/gorm"
)

const readingOrder = "date DESC, time_slot ASC, id DESC"

// ReadingRepository is the gorm-backed Reading Store.
type ReadingRepository struct {
	base
}

// NewReadingRepository creates a reading repository; timeout bounds each call.
func NewReadingRepository(db *gorm.DB, timeout time.Duration) *ReadingRepository {
	return &ReadingRepository{base: newBase(db, timeout)}
}

var _ domain.ReadingStore = (*ReadingRepository)(nil)

// SaveReadingWithAlerts inserts the reading and its alerts in one
// transaction; on failure neither is stored. Alerts get the new reading's id.
func (r *ReadingRepository) SaveReadingWithAlerts(ctx context.Context, reading *domain.Reading, alerts []domain.Alert) error {
	db, cancel := r.session(ctx)
	defer cancel()

	rec := toVitalRecord(reading)
	var alertRecs []database.HealthAlert
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		if len(alerts) == 0 {
			return nil
		}
		alertRecs = make([]database.HealthAlert, len(alerts))
		for i, a := range alerts {
			a.ReadingID = rec.ID
			alertRecs[i] = toHealthAlert(a)
		}
		return tx.Create(&alertRecs).Error
	})
	if err != nil {
		return apperrors.NewStorageError(err, "save_reading")
	}

	reading.ID = rec.ID
	reading.CreatedAt = rec.CreatedAt
	for i := range alertRecs {
		alerts[i].ID = alertRecs[i].ID
		alerts[i].ReadingID = rec.ID
		alerts[i].CreatedAt = alertRecs[i].CreatedAt
	}
	return nil
}

func (r *ReadingRepository) QueryReadings(ctx context.Context, rng domain.DateRange) ([]domain.Reading, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var recs []database.VitalRecord
	if err := applyRange(db, rng).Order(readingOrder).Find(&recs).Error; err != nil {
		return nil, apperrors.NewStorageError(err, "query_readings")
	}

	readings := make([]domain.Reading, len(recs))
	for i, rec := range recs {
		readings[i] = toReading(rec)
	}
	return readings, nil
}

func (r *ReadingRepository) QueryReadingsWithAlerts(ctx context.Context, rng domain.DateRange) ([]domain.ReadingWithAlerts, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var recs []database.VitalRecord
	err := applyRange(db, rng).
		Preload("Alerts", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Order(readingOrder).
		Find(&recs).Error
	if err != nil {
		return nil, apperrors.NewStorageError(err, "query_readings_with_alerts")
	}

	out := make([]domain.ReadingWithAlerts, len(recs))
	for i, rec := range recs {
		alerts := make([]domain.Alert, len(rec.Alerts))
		for j, a := range rec.Alerts {
			alerts[j] = toAlert(a)
		}
		out[i] = domain.ReadingWithAlerts{Reading: toReading(rec), Alerts: alerts}
	}
	return out, nil
}

type recentAlertRow struct {
	database.HealthAlert
	Date     string
	TimeSlot string
}

func (r *ReadingRepository) QueryAlerts(ctx context.Context, since time.Time, limit int) ([]domain.RecentAlert, error) {
	db, cancel := r.session(ctx)
	defer cancel()

	var rows []recentAlertRow
	q := db.Table("health_alerts AS a").
		Select("a.id, a.vital_id, a.alert_type, a.severity, a.message, a.created_at, v.date, v.time_slot").
		Joins("JOIN vital_records v ON v.id = a.vital_id").
		Where("a.created_at >= ?", since.UTC()).
		Order("a.created_at DESC, a.id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, apperrors.NewStorageError(err, "query_alerts")
	}

	alerts := make([]domain.RecentAlert, len(rows))
	for i, row := range rows {
		alerts[i] = domain.RecentAlert{
			Alert:    toAlert(row.HealthAlert),
			Date:     row.Date,
			TimeSlot: row.TimeSlot,
		}
	}
	return alerts, nil
}

// Dates compare as strings because they are stored as YYYY-MM-DD.
func applyRange(db *gorm.DB, rng domain.DateRange) *gorm.DB {
	if !rng.From.IsZero() {
		db = db.Where("date >= ?", utils.FormatDay(rng.From))
	}
	if !rng.To.IsZero() {
		db = db.Where("date <= ?", utils.FormatDay(rng.To))
	}
	return db
}
