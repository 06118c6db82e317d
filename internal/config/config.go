package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/vladimiradmaev/vitals-tracker/internal/logger"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	DB        DBConfig        `yaml:"database"`
	Logger    LoggerConfig    `yaml:"logger"`
	Realtime  RealtimeConfig  `yaml:"realtime"`
	Cache     CacheConfig     `yaml:"cache"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Insights  InsightsConfig  `yaml:"insights"`

	GeminiAPIKey string `yaml:"gemini_api_key"`
	GeminiModel  string `yaml:"gemini_model"`
}

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	PublicBaseURL   string        `yaml:"public_base_url"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DBConfig struct {
	Driver       string        `yaml:"driver"` // "postgres" or "sqlite"
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port"`
	User         string        `yaml:"user"`
	Password     string        `yaml:"password"`
	DBName       string        `yaml:"dbname"`
	SSLMode      string        `yaml:"sslmode"`
	SQLitePath   string        `yaml:"sqlite_path"`
	QueryTimeout time.Duration `yaml:"query_timeout"`
}

type LoggerConfig struct {
	Level      logger.LogLevel `yaml:"-"`
	LevelName  string          `yaml:"level"`
	OutputPath string          `yaml:"output"`
	Format     string          `yaml:"format"`
}

// RealtimeConfig selects how new-reading events reach other instances.
type RealtimeConfig struct {
	Bus          string `yaml:"bus"` // "none", "redis" or "nats"
	RedisAddr    string `yaml:"redis_addr"`
	RedisChannel string `yaml:"redis_channel"`
	NATSURL      string `yaml:"nats_url"`
	NATSSubject  string `yaml:"nats_subject"`
}

type CacheConfig struct {
	RedisAddr     string        `yaml:"redis_addr"` // empty keeps sessions in memory
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
}

type TelegramConfig struct {
	Token   string  `yaml:"token"`
	ChatIDs []int64 `yaml:"chat_ids"` // caregiver chats that receive alerts
}

type SchedulerConfig struct {
	DigestSpec         string `yaml:"digest_spec"`
	SessionExpirySpec  string `yaml:"session_expiry_spec"`
	SessionMaxIdleDays int    `yaml:"session_max_idle_days"`
}

type InsightsConfig struct {
	DefaultWindowDays int `yaml:"default_window_days"`
	DigestWindowDays  int `yaml:"digest_window_days"`
}

func defaults() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:            ":3001",
			PublicBaseURL:   "http://localhost:3000",
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		DB: DBConfig{
			Driver:       "postgres",
			Host:         "localhost",
			Port:         "5432",
			User:         "postgres",
			Password:     "postgres",
			DBName:       "vitals_tracker",
			SSLMode:      "disable",
			SQLitePath:   "data/vitals.db",
			QueryTimeout: 5 * time.Second,
		},
		Logger: LoggerConfig{
			LevelName:  "info",
			OutputPath: "stdout",
			Format:     "json",
		},
		Realtime: RealtimeConfig{
			Bus:          "none",
			RedisAddr:    "localhost:6379",
			RedisChannel: "vitals:events",
			NATSURL:      "nats://localhost:4222",
			NATSSubject:  "vitals.events",
		},
		Cache: CacheConfig{
			SessionTTL: 10 * time.Minute,
		},
		Scheduler: SchedulerConfig{
			DigestSpec:         "0 20 * * *",
			SessionExpirySpec:  "@hourly",
			SessionMaxIdleDays: 30,
		},
		Insights: InsightsConfig{
			DefaultWindowDays: 30,
			DigestWindowDays:  7,
		},
		GeminiModel: "gemini-1.5-flash",
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}

func getListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseChatIDs(value string) ([]int64, error) {
	var ids []int64
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		id, err := strconv.ParseInt(item, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid chat id %q: %w", item, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Load builds the configuration from defaults, the optional YAML file named by
// CONFIG_FILE and finally environment variables.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := overrideFromEnv(cfg); err != nil {
		return nil, err
	}
	cfg.Logger.Level = logger.ParseLevel(cfg.Logger.LevelName)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func overrideFromEnv(cfg *Config) error {
	cfg.HTTP.Addr = getEnvOrDefault("HTTP_ADDR", cfg.HTTP.Addr)
	if port := os.Getenv("PORT"); port != "" {
		cfg.HTTP.Addr = ":" + port
	}
	cfg.HTTP.PublicBaseURL = getEnvOrDefault("PUBLIC_BASE_URL", cfg.HTTP.PublicBaseURL)
	cfg.HTTP.CORSOrigins = getListOrDefault("CORS_ORIGINS", cfg.HTTP.CORSOrigins)
	cfg.HTTP.ShutdownTimeout = getDurationOrDefault("HTTP_SHUTDOWN_TIMEOUT", cfg.HTTP.ShutdownTimeout)

	cfg.DB.Driver = getEnvOrDefault("DB_DRIVER", cfg.DB.Driver)
	cfg.DB.Host = getEnvOrDefault("DB_HOST", cfg.DB.Host)
	cfg.DB.Port = getEnvOrDefault("DB_PORT", cfg.DB.Port)
	cfg.DB.User = getEnvOrDefault("DB_USER", cfg.DB.User)
	cfg.DB.Password = getEnvOrDefault("DB_PASSWORD", cfg.DB.Password)
	cfg.DB.DBName = getEnvOrDefault("DB_NAME", cfg.DB.DBName)
	cfg.DB.SSLMode = getEnvOrDefault("DB_SSLMODE", cfg.DB.SSLMode)
	cfg.DB.SQLitePath = getEnvOrDefault("SQLITE_PATH", cfg.DB.SQLitePath)
	cfg.DB.QueryTimeout = getDurationOrDefault("DB_QUERY_TIMEOUT", cfg.DB.QueryTimeout)

	cfg.Logger.LevelName = getEnvOrDefault("LOG_LEVEL", cfg.Logger.LevelName)
	cfg.Logger.OutputPath = getEnvOrDefault("LOG_OUTPUT", cfg.Logger.OutputPath)
	cfg.Logger.Format = getEnvOrDefault("LOG_FORMAT", cfg.Logger.Format)

	cfg.Realtime.Bus = getEnvOrDefault("REALTIME_BUS", cfg.Realtime.Bus)
	cfg.Realtime.RedisAddr = getEnvOrDefault("REALTIME_REDIS_ADDR", cfg.Realtime.RedisAddr)
	cfg.Realtime.RedisChannel = getEnvOrDefault("REALTIME_REDIS_CHANNEL", cfg.Realtime.RedisChannel)
	cfg.Realtime.NATSURL = getEnvOrDefault("NATS_URL", cfg.Realtime.NATSURL)
	cfg.Realtime.NATSSubject = getEnvOrDefault("NATS_SUBJECT", cfg.Realtime.NATSSubject)

	cfg.Cache.RedisAddr = getEnvOrDefault("REDIS_ADDR", cfg.Cache.RedisAddr)
	cfg.Cache.RedisPassword = getEnvOrDefault("REDIS_PASSWORD", cfg.Cache.RedisPassword)
	cfg.Cache.RedisDB = getIntOrDefault("REDIS_DB", cfg.Cache.RedisDB)
	cfg.Cache.SessionTTL = getDurationOrDefault("SESSION_CACHE_TTL", cfg.Cache.SessionTTL)

	cfg.Telegram.Token = getEnvOrDefault("TELEGRAM_BOT_TOKEN", cfg.Telegram.Token)
	if raw := os.Getenv("TELEGRAM_CHAT_IDS"); raw != "" {
		ids, err := parseChatIDs(raw)
		if err != nil {
			return err
		}
		cfg.Telegram.ChatIDs = ids
	}

	cfg.Scheduler.DigestSpec = getEnvOrDefault("DIGEST_CRON", cfg.Scheduler.DigestSpec)
	cfg.Scheduler.SessionExpirySpec = getEnvOrDefault("SESSION_EXPIRY_CRON", cfg.Scheduler.SessionExpirySpec)
	cfg.Scheduler.SessionMaxIdleDays = getIntOrDefault("SESSION_MAX_IDLE_DAYS", cfg.Scheduler.SessionMaxIdleDays)

	cfg.Insights.DefaultWindowDays = getIntOrDefault("INSIGHTS_WINDOW_DAYS", cfg.Insights.DefaultWindowDays)
	cfg.Insights.DigestWindowDays = getIntOrDefault("DIGEST_WINDOW_DAYS", cfg.Insights.DigestWindowDays)

	cfg.GeminiAPIKey = getEnvOrDefault("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.GeminiModel = getEnvOrDefault("GEMINI_MODEL", cfg.GeminiModel)
	return nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var problems []string

	if c.HTTP.Addr == "" {
		problems = append(problems, "http addr is required")
	}
	switch c.DB.Driver {
	case "postgres":
		if c.DB.Host == "" || c.DB.DBName == "" {
			problems = append(problems, "postgres requires DB_HOST and DB_NAME")
		}
	case "sqlite":
		if c.DB.SQLitePath == "" {
			problems = append(problems, "sqlite requires SQLITE_PATH")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown DB_DRIVER %q", c.DB.Driver))
	}
	if c.DB.QueryTimeout <= 0 {
		problems = append(problems, "DB_QUERY_TIMEOUT must be positive")
	}
	switch c.Realtime.Bus {
	case "", "none", "redis", "nats":
	default:
		problems = append(problems, fmt.Sprintf("unknown REALTIME_BUS %q", c.Realtime.Bus))
	}
	if c.Logger.Format != "json" && c.Logger.Format != "text" {
		problems = append(problems, fmt.Sprintf("unknown LOG_FORMAT %q", c.Logger.Format))
	}
	// The chat list is the bot's only access control.
	switch {
	case len(c.Telegram.ChatIDs) > 0 && c.Telegram.Token == "":
		problems = append(problems, "TELEGRAM_CHAT_IDS set without TELEGRAM_BOT_TOKEN")
	case c.Telegram.Token != "" && len(c.Telegram.ChatIDs) == 0:
		problems = append(problems, "TELEGRAM_BOT_TOKEN requires TELEGRAM_CHAT_IDS")
	}
	for _, job := range []struct{ name, spec string }{
		{"DIGEST_CRON", c.Scheduler.DigestSpec},
		{"SESSION_EXPIRY_CRON", c.Scheduler.SessionExpirySpec},
	} {
		if job.spec == "" {
			continue
		}
		if _, err := cron.ParseStandard(job.spec); err != nil {
			problems = append(problems, fmt.Sprintf("invalid %s: %v", job.name, err))
		}
	}
	if c.Scheduler.SessionMaxIdleDays < 0 {
		problems = append(problems, "SESSION_MAX_IDLE_DAYS must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// SessionMaxIdle is zero when idle sessions never expire.
func (c *Config) SessionMaxIdle() time.Duration {
	return time.Duration(c.Scheduler.SessionMaxIdleDays) * 24 * time.Hour
}

// PostgresDSN builds the connection string for the postgres driver.
func (c DBConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
