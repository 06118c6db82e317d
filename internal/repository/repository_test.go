package repository

import (
	"context"
	"testing"
	"time"

	"github.com/vladimiradmaev/vitals-tracker/internal/database"
	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
	apperrors "github.com/vladimiradmaev/vitals-tracker/internal/errors"
	"github.com/vladimiradmaev/vitals-tracker/internal/utils"
	"gorm.io/gorm"
)

func intPtr(v int) *int { return &v }

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite("file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func saveReading(t *testing.T, repo *ReadingRepository, r domain.Reading) domain.Reading {
	t.Helper()
	if err := repo.SaveReadingWithAlerts(context.Background(), &r, nil); err != nil {
		t.Fatalf("SaveReadingWithAlerts: %v", err)
	}
	return r
}

func TestReadingRoundTripAndOrder(t *testing.T) {
	repo := NewReadingRepository(openTestDB(t), time.Second)
	ctx := context.Background()

	first := saveReading(t, repo, domain.Reading{Date: "2024-03-01", TimeSlot: "morning", BloodSugar: intPtr(110)})
	saveReading(t, repo, domain.Reading{Date: "2024-03-02", TimeSlot: "morning", Systolic: intPtr(120), Diastolic: intPtr(80)})
	saveReading(t, repo, domain.Reading{Date: "2024-03-02", TimeSlot: "evening", OxygenLevel: intPtr(97)})
	saveReading(t, repo, domain.Reading{Date: "2024-01-15", TimeSlot: "noon", OxygenLevel: intPtr(98)})

	if first.ID == 0 || first.CreatedAt.IsZero() {
		t.Fatalf("SaveReadingWithAlerts did not assign id/created_at: %+v", first)
	}

	from, _ := utils.ParseDay("2024-03-01")
	got, err := repo.QueryReadings(ctx, domain.DateRange{From: from})
	if err != nil {
		t.Fatalf("QueryReadings: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d readings, want 3", len(got))
	}
	wantOrder := []struct{ date, slot string }{
		{"2024-03-02", "evening"},
		{"2024-03-02", "morning"},
		{"2024-03-01", "morning"},
	}
	for i, w := range wantOrder {
		if got[i].Date != w.date || got[i].TimeSlot != w.slot {
			t.Errorf("reading %d = %s %s, want %s %s", i, got[i].Date, got[i].TimeSlot, w.date, w.slot)
		}
	}
	if got[2].BloodSugar == nil || *got[2].BloodSugar != 110 || got[2].Systolic != nil {
		t.Errorf("optional fields not preserved: %+v", got[2])
	}

	to, _ := utils.ParseDay("2024-02-01")
	older, err := repo.QueryReadings(ctx, domain.DateRange{To: to})
	if err != nil {
		t.Fatalf("QueryReadings: %v", err)
	}
	if len(older) != 1 || older[0].Date != "2024-01-15" {
		t.Errorf("upper bound ignored: %+v", older)
	}
}

func TestAlertsJoinAndLimit(t *testing.T) {
	repo := NewReadingRepository(openTestDB(t), time.Second)
	ctx := context.Background()

	reading := domain.Reading{Date: "2024-03-02", TimeSlot: "evening", OxygenLevel: intPtr(88), BloodSugar: intPtr(200)}
	alerts := []domain.Alert{
		{Type: domain.AlertTypeOxygen, Severity: domain.SeverityCritical, Message: "Low oxygen level: 88%"},
		{Type: domain.AlertTypeBloodSugar, Severity: domain.SeverityHigh, Message: "High blood sugar: 200 mg/dL"},
	}
	if err := repo.SaveReadingWithAlerts(ctx, &reading, alerts); err != nil {
		t.Fatalf("SaveReadingWithAlerts: %v", err)
	}
	for _, a := range alerts {
		if a.ID == 0 || a.ReadingID != reading.ID || a.CreatedAt.IsZero() {
			t.Fatalf("alert not linked to reading %d: %+v", reading.ID, a)
		}
	}

	recent, err := repo.QueryAlerts(ctx, time.Now().Add(-time.Hour), 10)
	if err != nil {
		t.Fatalf("QueryAlerts: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d alerts, want 2", len(recent))
	}
	if recent[0].Type != domain.AlertTypeBloodSugar {
		t.Errorf("newest alert first expected, got %s", recent[0].Type)
	}
	if recent[0].Date != "2024-03-02" || recent[0].TimeSlot != "evening" {
		t.Errorf("join fields missing: %+v", recent[0])
	}

	limited, err := repo.QueryAlerts(ctx, time.Now().Add(-time.Hour), 1)
	if err != nil {
		t.Fatalf("QueryAlerts: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit ignored: %d", len(limited))
	}

	future, err := repo.QueryAlerts(ctx, time.Now().Add(time.Hour), 10)
	if err != nil {
		t.Fatalf("QueryAlerts: %v", err)
	}
	if len(future) != 0 {
		t.Errorf("since ignored: %d alerts", len(future))
	}

	withAlerts, err := repo.QueryReadingsWithAlerts(ctx, domain.DateRange{})
	if err != nil {
		t.Fatalf("QueryReadingsWithAlerts: %v", err)
	}
	if len(withAlerts) != 1 || len(withAlerts[0].Alerts) != 2 {
		t.Fatalf("unexpected readings with alerts: %+v", withAlerts)
	}
	if withAlerts[0].Alerts[0].Type != domain.AlertTypeOxygen {
		t.Errorf("alerts should keep evaluation order, got %s first", withAlerts[0].Alerts[0].Type)
	}
}

func TestSaveReadingWithAlertsRollsBack(t *testing.T) {
	db := openTestDB(t)
	repo := NewReadingRepository(db, time.Second)
	ctx := context.Background()

	if err := db.Exec("DROP TABLE health_alerts").Error; err != nil {
		t.Fatalf("drop health_alerts: %v", err)
	}

	reading := domain.Reading{Date: "2024-03-02", TimeSlot: "morning", BloodSugar: intPtr(250)}
	alerts := []domain.Alert{{Type: domain.AlertTypeBloodSugar, Severity: domain.SeverityHigh, Message: "High blood sugar: 250 mg/dL"}}
	err := repo.SaveReadingWithAlerts(ctx, &reading, alerts)
	if !apperrors.IsType(err, apperrors.ErrorTypeStorage) {
		t.Fatalf("error = %v, want storage error", err)
	}
	if reading.ID != 0 {
		t.Errorf("reading id assigned after failed save: %d", reading.ID)
	}

	var count int64
	if err := db.Model(&database.VitalRecord{}).Count(&count).Error; err != nil {
		t.Fatalf("count vital_records: %v", err)
	}
	if count != 0 {
		t.Errorf("vital_records has %d rows after failed save, want 0", count)
	}

	// A reading without alerts never touches health_alerts.
	if err := repo.SaveReadingWithAlerts(ctx, &reading, nil); err != nil {
		t.Fatalf("SaveReadingWithAlerts without alerts: %v", err)
	}
}

func TestStorageErrorOnClosedDB(t *testing.T) {
	db := openTestDB(t)
	repo := NewReadingRepository(db, time.Second)
	sqlDB, _ := db.DB()
	sqlDB.Close()

	_, err := repo.QueryReadings(context.Background(), domain.DateRange{})
	if !apperrors.IsType(err, apperrors.ErrorTypeStorage) {
		t.Fatalf("error = %v, want storage error", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	repo := NewSessionRepository(openTestDB(t), time.Second)
	ctx := context.Background()
	now := time.Now().UTC()

	active := &domain.SharingSession{ID: "a1", PatientName: "Ada", DoctorEmail: "dr@example.org", CreatedAt: now, LastAccessed: now, IsActive: true}
	stale := &domain.SharingSession{ID: "b2", PatientName: "Bob", CreatedAt: now.AddDate(0, 0, -40), LastAccessed: now.AddDate(0, 0, -40), IsActive: true}
	for _, s := range []*domain.SharingSession{active, stale} {
		if err := repo.CreateSession(ctx, s); err != nil {
			t.Fatalf("CreateSession: %v", err)
		}
	}

	got, err := repo.GetActiveSession(ctx, "a1")
	if err != nil {
		t.Fatalf("GetActiveSession: %v", err)
	}
	if got.PatientName != "Ada" || !got.IsActive {
		t.Errorf("session = %+v", got)
	}

	if _, err := repo.GetActiveSession(ctx, "missing"); !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		t.Errorf("missing session error = %v", err)
	}

	later := now.Add(time.Minute)
	if err := repo.TouchSession(ctx, "a1", later); err != nil {
		t.Fatalf("TouchSession: %v", err)
	}
	got, _ = repo.GetActiveSession(ctx, "a1")
	if !got.LastAccessed.Equal(later) {
		t.Errorf("last accessed = %v, want %v", got.LastAccessed, later)
	}

	n, err := repo.DeactivateIdleSessions(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("DeactivateIdleSessions: %v", err)
	}
	if n != 1 {
		t.Errorf("deactivated %d, want 1", n)
	}
	if _, err := repo.GetActiveSession(ctx, "b2"); !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		t.Errorf("inactive session should be not found, got %v", err)
	}
	if err := repo.TouchSession(ctx, "b2", later); !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		t.Errorf("touching inactive session error = %v, want not found", err)
	}
	if err := repo.TouchSession(ctx, "missing", later); !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		t.Errorf("touching missing session error = %v, want not found", err)
	}

	sessions, err := repo.ListActiveSessions(ctx)
	if err != nil {
		t.Fatalf("ListActiveSessions: %v", err)
	}
	if len(sessions) != 1 || sessions[0].ID != "a1" {
		t.Errorf("active sessions = %+v", sessions)
	}
}
