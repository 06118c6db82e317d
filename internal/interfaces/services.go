package interfaces

import (
	"context"
	"time"

	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
	"github.com/vladimiradmaev/vitals-tracker/internal/services"
)

// VitalsServiceInterface defines the contract for recording and listing readings
type VitalsServiceInterface interface {
	Record(ctx context.Context, in domain.NewReading) (*domain.Reading, []domain.Alert, error)
	List(ctx context.Context, days int) ([]domain.Reading, error)
	DailyTrends(ctx context.Context, days int) ([]domain.DailyAverage, error)
	Latest(ctx context.Context) (*domain.ReadingWithAlerts, error)
}

// SharingServiceInterface defines the contract for sharing sessions
type SharingServiceInterface interface {
	Create(ctx context.Context, patientName, doctorEmail string) (*domain.SharingSession, string, error)
	Get(ctx context.Context, id string) (*domain.SharingSession, error)
	SharedVitals(ctx context.Context, id string, days int) (*services.SharedVitals, error)
	ExpireIdle(ctx context.Context, maxIdle time.Duration) (int64, error)
}

// InsightServiceInterface defines the contract for insight summaries
type InsightServiceInterface interface {
	Summarize(ctx context.Context, windowDays int) (*domain.InsightSummary, error)
	SummarizeForSession(ctx context.Context, sessionID string, windowDays int) (*domain.InsightSummary, error)
	Narrate(ctx context.Context, summary *domain.InsightSummary) (string, error)
}

var (
	_ VitalsServiceInterface  = (*services.VitalsService)(nil)
	_ SharingServiceInterface = (*services.SharingService)(nil)
	_ InsightServiceInterface = (*services.InsightService)(nil)
)
