package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
	"github.com/vladimiradmaev/vitals-tracker/internal/logger"
)

const jobTimeout = time.Minute

type Summarizer interface {
	Summarize(ctx context.Context, windowDays int) (*domain.InsightSummary, error)
}

type DigestSender interface {
	SendDigest(ctx context.Context, summary *domain.InsightSummary) error
}

type SessionExpirer interface {
	ExpireIdle(ctx context.Context, maxIdle time.Duration) (int64, error)
}

type Config struct {
	DigestSpec        string
	DigestWindowDays  int
	SessionExpirySpec string
	SessionMaxIdle    time.Duration
}

// Scheduler runs the periodic digest and idle-session expiry.
type Scheduler struct {
	cron     *cron.Cron
	cfg      Config
	insights Summarizer
	digest   DigestSender
	sessions SessionExpirer
	log      *slog.Logger
}

// NewScheduler creates a scheduler. A nil digest sender disables the digest.
func NewScheduler(cfg Config, insights Summarizer, digest DigestSender, sessions SessionExpirer) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		cfg:      cfg,
		insights: insights,
		digest:   digest,
		sessions: sessions,
		log:      logger.Component("scheduler"),
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.digest != nil && s.cfg.DigestSpec != "" {
		if _, err := s.cron.AddFunc(s.cfg.DigestSpec, s.runJob("digest", s.RunDigest)); err != nil {
			return fmt.Errorf("invalid digest schedule %q: %w", s.cfg.DigestSpec, err)
		}
	}
	if s.cfg.SessionExpirySpec != "" && s.cfg.SessionMaxIdle > 0 {
		if _, err := s.cron.AddFunc(s.cfg.SessionExpirySpec, s.runJob("session_expiry", s.RunSessionExpiry)); err != nil {
			return fmt.Errorf("invalid session expiry schedule %q: %w", s.cfg.SessionExpirySpec, err)
		}
	}

	s.cron.Start()
	s.log.Info("Scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop stops scheduling and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runJob(name string, job func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		if err := job(ctx); err != nil {
			s.log.Error("Scheduled job failed", "job", name, "error", err)
			return
		}
		s.log.Info("Scheduled job finished", "job", name, "duration_ms", time.Since(start).Milliseconds())
	}
}

// RunDigest sends the insight summary of the digest window.
func (s *Scheduler) RunDigest(ctx context.Context) error {
	summary, err := s.insights.Summarize(ctx, s.cfg.DigestWindowDays)
	if err != nil {
		return err
	}
	return s.digest.SendDigest(ctx, summary)
}

// RunSessionExpiry deactivates sharing sessions idle longer than the limit.
func (s *Scheduler) RunSessionExpiry(ctx context.Context) error {
	n, err := s.sessions.ExpireIdle(ctx, s.cfg.SessionMaxIdle)
	if err != nil {
		return err
	}
	s.log.Debug("Session expiry run", "deactivated", n)
	return nil
}
