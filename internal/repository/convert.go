package repository

import (
	"github.com/vladimiradmaev/vitals-tracker/internal/database"
	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
)

func toVitalRecord(r *domain.Reading) database.VitalRecord {
	return database.VitalRecord{
		ID:          r.ID,
		Date:        r.Date,
		TimeSlot:    r.TimeSlot,
		Systolic:    r.Systolic,
		Diastolic:   r.Diastolic,
		OxygenLevel: r.OxygenLevel,
		BloodSugar:  r.BloodSugar,
		UrineOutput: r.UrineOutput,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
	}
}

func toReading(rec database.VitalRecord) domain.Reading {
	return domain.Reading{
		ID:          rec.ID,
		Date:        rec.Date,
		TimeSlot:    rec.TimeSlot,
		Systolic:    rec.Systolic,
		Diastolic:   rec.Diastolic,
		OxygenLevel: rec.OxygenLevel,
		BloodSugar:  rec.BloodSugar,
		UrineOutput: rec.UrineOutput,
		Notes:       rec.Notes,
		CreatedAt:   rec.CreatedAt,
	}
}

func toHealthAlert(a domain.Alert) database.HealthAlert {
	return database.HealthAlert{
		ID:        a.ID,
		VitalID:   a.ReadingID,
		AlertType: string(a.Type),
		Severity:  string(a.Severity),
		Message:   a.Message,
		CreatedAt: a.CreatedAt,
	}
}

func toAlert(rec database.HealthAlert) domain.Alert {
	return domain.Alert{
		ID:        rec.ID,
		ReadingID: rec.VitalID,
		Type:      domain.AlertType(rec.AlertType),
		Severity:  domain.Severity(rec.Severity),
		Message:   rec.Message,
		CreatedAt: rec.CreatedAt,
	}
}

func toSessionRecord(s *domain.SharingSession) database.SharingSessionRecord {
	return database.SharingSessionRecord{
		ID:           s.ID,
		PatientName:  s.PatientName,
		DoctorEmail:  s.DoctorEmail,
		CreatedAt:    s.CreatedAt,
		LastAccessed: s.LastAccessed,
		IsActive:     s.IsActive,
	}
}

func toSession(rec database.SharingSessionRecord) domain.SharingSession {
	return domain.SharingSession{
		ID:           rec.ID,
		PatientName:  rec.PatientName,
		DoctorEmail:  rec.DoctorEmail,
		CreatedAt:    rec.CreatedAt,
		LastAccessed: rec.LastAccessed,
		IsActive:     rec.IsActive,
	}
}
