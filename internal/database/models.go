package database

import (
	"time"
)

// VitalRecord is the vital_records row for one reading.
type VitalRecord struct {
	ID          uint   `gorm:"primaryKey"`
	Date        string `gorm:"type:varchar(10);not null"` // Format: "YYYY-MM-DD"
	TimeSlot    string `gorm:"not null"`
	Systolic    *int
	Diastolic   *int
	OxygenLevel *int
	BloodSugar  *int
	UrineOutput *int
	Notes       *string
	CreatedAt   time.Time
	Alerts      []HealthAlert `gorm:"foreignKey:VitalID"`
}

// HealthAlert is an alert persisted for history.
type HealthAlert struct {
	ID        uint   `gorm:"primaryKey"`
	VitalID   uint   `gorm:"not null;index"`
	AlertType string `gorm:"not null"`
	Severity  string `gorm:"not null"`
	Message   string `gorm:"not null"`
	CreatedAt time.Time
}

type SharingSessionRecord struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	PatientName  string `gorm:"not null"`
	DoctorEmail  string
	CreatedAt    time.Time
	LastAccessed time.Time
	IsActive     bool `gorm:"not null;default:true"`
}

func (SharingSessionRecord) TableName() string {
	return "sharing_sessions"
}

// Models lists every table managed by AutoMigrate.
func Models() []any {
	return []any{&VitalRecord{}, &HealthAlert{}, &SharingSessionRecord{}}
}
