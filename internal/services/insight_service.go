package services

import (
	"context"

	"github.com/vladimiradmaev/vitals-tracker/internal/analysis"
	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
)

// Narrator turns an insight summary into a short plain-language note.
type Narrator interface {
	Narrate(ctx context.Context, summary *domain.InsightSummary) (string, error)
}

type InsightService struct {
	aggregator    *analysis.Aggregator
	sharing       *SharingService
	narrator      Narrator
	defaultWindow int
}

// NewInsightService builds the service; narrator may be nil.
func NewInsightService(aggregator *analysis.Aggregator, sharing *SharingService, narrator Narrator, defaultWindow int) *InsightService {
	return &InsightService{
		aggregator:    aggregator,
		sharing:       sharing,
		narrator:      narrator,
		defaultWindow: defaultWindow,
	}
}

// Summarize uses the configured default window when windowDays is not positive.
func (s *InsightService) Summarize(ctx context.Context, windowDays int) (*domain.InsightSummary, error) {
	if windowDays <= 0 {
		windowDays = s.defaultWindow
	}
	return s.aggregator.Summarize(ctx, windowDays)
}

// SummarizeForSession fails with not found unless sessionID is an active
// sharing session.
func (s *InsightService) SummarizeForSession(ctx context.Context, sessionID string, windowDays int) (*domain.InsightSummary, error) {
	if _, err := s.sharing.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	return s.Summarize(ctx, windowDays)
}

// Narrate returns "" when no narrator is configured.
func (s *InsightService) Narrate(ctx context.Context, summary *domain.InsightSummary) (string, error) {
	if s.narrator == nil || summary == nil {
		return "", nil
	}
	return s.narrator.Narrate(ctx, summary)
}
