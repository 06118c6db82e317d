package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/vladimiradmaev/vitals-tracker/internal/analysis"
	"github.com/vladimiradmaev/vitals-tracker/internal/api"
	"github.com/vladimiradmaev/vitals-tracker/internal/bot"
	"github.com/vladimiradmaev/vitals-tracker/internal/bot/handlers"
	"github.com/vladimiradmaev/vitals-tracker/internal/bot/state"
	"github.com/vladimiradmaev/vitals-tracker/internal/cache"
	"github.com/vladimiradmaev/vitals-tracker/internal/config"
	"github.com/vladimiradmaev/vitals-tracker/internal/database"
	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
	"github.com/vladimiradmaev/vitals-tracker/internal/logger"
	"github.com/vladimiradmaev/vitals-tracker/internal/realtime"
	"github.com/vladimiradmaev/vitals-tracker/internal/repository"
	"github.com/vladimiradmaev/vitals-tracker/internal/scheduler"
	"github.com/vladimiradmaev/vitals-tracker/internal/services"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		logger.Fatal("Failed to initialize logger", "error", err)
	}
	if envErr != nil {
		logger.Debug(".env file not loaded", "error", envErr)
	}
	logger.Info("Starting Vitals Tracker", "addr", cfg.HTTP.Addr, "db_driver", cfg.DB.Driver)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		logger.Fatal("Vitals Tracker stopped with error", "error", err)
	}
	logger.Info("Vitals Tracker stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	db, err := database.Open(cfg.DB)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	readings := repository.NewReadingRepository(db, cfg.DB.QueryTimeout)
	sessions := repository.NewSessionRepository(db, cfg.DB.QueryTimeout)

	// Redis backs the session cache and the bot conversation state when set
	var redisClient *redis.Client
	if cfg.Cache.RedisAddr != "" {
		redisClient, err = cache.NewRedisClient(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			return err
		}
		defer redisClient.Close()
	}

	var sessionCache cache.SessionCache = cache.NewMemorySessionCache(cfg.Cache.SessionTTL)
	if redisClient != nil {
		sessionCache = cache.NewRedisSessionCache(redisClient, cfg.Cache.SessionTTL)
	}

	hub := realtime.NewHub()
	publisher, closeBus, err := setupFanout(ctx, cfg.Realtime, hub)
	if err != nil {
		return err
	}
	defer closeBus()

	var narrator services.Narrator
	if cfg.GeminiAPIKey != "" {
		gemini, err := services.NewGeminiNarrator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return err
		}
		defer gemini.Close()
		narrator = gemini
	}

	vitalsSvc := services.NewVitalsService(readings, sessions, publisher, nil)
	sharingSvc := services.NewSharingService(sessions, readings, sessionCache, cfg.HTTP.PublicBaseURL)
	sharingSvc.SetSessionCloser(hub)
	insightSvc := services.NewInsightService(analysis.NewAggregator(readings), sharingSvc, narrator, cfg.Insights.DefaultWindowDays)
	logger.Info("Services initialized")

	var wg sync.WaitGroup
	var digest scheduler.DigestSender
	if cfg.Telegram.Token != "" {
		var stateManager state.StateManager = state.NewManager()
		if redisClient != nil {
			stateManager = state.NewRedisManager(redisClient)
		}

		telegramBot, err := bot.NewBot(cfg.Telegram.Token, handlers.Dependencies{
			VitalsSvc:         vitalsSvc,
			InsightSvc:        insightSvc,
			DefaultWindowDays: cfg.Insights.DefaultWindowDays,
		}, stateManager, cfg.Telegram.ChatIDs)
		if err != nil {
			return err
		}

		if len(cfg.Telegram.ChatIDs) > 0 {
			notifier := bot.NewNotifier(telegramBot.API(), cfg.Telegram.ChatIDs)
			vitalsSvc.SetNotifier(notifier)
			digest = notifier
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("Bot stopped with error", "error", err)
			}
		}()
	}

	jobs := scheduler.NewScheduler(scheduler.Config{
		DigestSpec:        cfg.Scheduler.DigestSpec,
		DigestWindowDays:  cfg.Insights.DigestWindowDays,
		SessionExpirySpec: cfg.Scheduler.SessionExpirySpec,
		SessionMaxIdle:    cfg.SessionMaxIdle(),
	}, insightSvc, digest, sharingSvc)
	if err := jobs.Start(); err != nil {
		return err
	}
	defer jobs.Stop()

	router := api.NewRouter(api.RouterConfig{
		Vitals:      vitalsSvc,
		Sharing:     sharingSvc,
		Insights:    insightSvc,
		Hub:         hub,
		CORSOrigins: cfg.HTTP.CORSOrigins,
	})
	err = api.NewServer(cfg.HTTP.Addr, router, cfg.HTTP.ShutdownTimeout).Run(ctx)

	wg.Wait()
	return err
}

// setupFanout picks where recorded readings are published. Without a bus the
// local hub is the publisher; with one, every instance forwards bus messages
// into its own hub.
func setupFanout(ctx context.Context, cfg config.RealtimeConfig, hub *realtime.Hub) (domain.EventPublisher, func(), error) {
	var (
		bus realtime.Bus
		err error
	)
	switch cfg.Bus {
	case "redis":
		var client *redis.Client
		client, err = cache.NewRedisClient(ctx, cache.RedisOptions{Addr: cfg.RedisAddr})
		if err != nil {
			return nil, nil, err
		}
		bus, err = realtime.NewRedisBus(client, cfg.RedisChannel)
	case "nats":
		bus, err = realtime.NewNATSBus(cfg.NATSURL, cfg.NATSSubject)
	default:
		return hub, func() {}, nil
	}
	if err != nil {
		return nil, nil, err
	}

	if err := bus.StartForwarder(ctx, hub.Deliver); err != nil {
		bus.Close()
		return nil, nil, err
	}
	logger.Info("Realtime bus started", "bus", cfg.Bus)
	return realtime.NewBusPublisher(bus), func() { bus.Close() }, nil
}
