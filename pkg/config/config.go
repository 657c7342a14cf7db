package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	Learning  LearningConfig
	Store     StoreConfig
	Exports   ExportsConfig
	Calendars CalendarsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig supplies the default timing constraints for plan generation.
// Per-request parameters (days, calendar filter) narrow these defaults but
// never widen them.
type SchedulerConfig struct {
	DefaultHorizonDays int
	MaxHorizonDays     int
	DayStartHour       int
	DayEndHour         int
	BlockMinutes       int
	BreakMinutes       int
	MinGapMinutes      int
	MaxMinutesPerDay   int
	MaxMinutesPerBlock int
	CacheEnabled       bool
	CacheTTL           time.Duration
}

// LearningConfig governs the feedback-driven adaptation pass.
type LearningConfig struct {
	Enabled        bool
	Cooldown       time.Duration
	WorkerRetries  int
	WorkerPoolSize int
}

// StoreConfig locates the durable JSON state owned by the scheduler core.
type StoreConfig struct {
	Dir             string
	PreferencesFile string
	FeedbackFile    string
}

// ExportsConfig toggles schedule download endpoints.
type ExportsConfig struct {
	Enabled bool
}

// CalendarsConfig maps calendar names to their subscription URLs. The sync
// layer writes events under these names; the API echoes the URLs back to
// the UI in calendar listings.
type CalendarsConfig struct {
	URLs map[string]string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		DefaultHorizonDays: v.GetInt("SCHEDULER_DEFAULT_DAYS"),
		MaxHorizonDays:     v.GetInt("SCHEDULER_MAX_DAYS"),
		DayStartHour:       v.GetInt("SCHEDULER_DAY_START_HOUR"),
		DayEndHour:         v.GetInt("SCHEDULER_DAY_END_HOUR"),
		BlockMinutes:       v.GetInt("SCHEDULER_BLOCK_MINUTES"),
		BreakMinutes:       v.GetInt("SCHEDULER_BREAK_MINUTES"),
		MinGapMinutes:      v.GetInt("SCHEDULER_MIN_GAP_MINUTES"),
		MaxMinutesPerDay:   v.GetInt("SCHEDULER_MAX_MINUTES_PER_DAY"),
		MaxMinutesPerBlock: v.GetInt("SCHEDULER_MAX_MINUTES_PER_BLOCK"),
		CacheEnabled:       v.GetBool("SCHEDULER_CACHE_ENABLED"),
		CacheTTL:           parseDuration(v.GetString("SCHEDULER_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Learning = LearningConfig{
		Enabled:        v.GetBool("LEARNING_ENABLED"),
		Cooldown:       parseDuration(v.GetString("LEARNING_COOLDOWN"), 6*time.Hour),
		WorkerRetries:  v.GetInt("LEARNING_WORKER_RETRIES"),
		WorkerPoolSize: v.GetInt("LEARNING_WORKER_POOL_SIZE"),
	}

	cfg.Store = StoreConfig{
		Dir:             v.GetString("STORE_DIR"),
		PreferencesFile: v.GetString("STORE_PREFERENCES_FILE"),
		FeedbackFile:    v.GetString("STORE_FEEDBACK_FILE"),
	}

	cfg.Exports = ExportsConfig{
		Enabled: v.GetBool("ENABLE_EXPORTS"),
	}

	cfg.Calendars = CalendarsConfig{URLs: parseKeyValues(v.GetString("CALENDAR_URLS"))}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "studyplan")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULER_DEFAULT_DAYS", 7)
	v.SetDefault("SCHEDULER_MAX_DAYS", 14)
	v.SetDefault("SCHEDULER_DAY_START_HOUR", 9)
	v.SetDefault("SCHEDULER_DAY_END_HOUR", 22)
	v.SetDefault("SCHEDULER_BLOCK_MINUTES", 50)
	v.SetDefault("SCHEDULER_BREAK_MINUTES", 10)
	v.SetDefault("SCHEDULER_MIN_GAP_MINUTES", 10)
	v.SetDefault("SCHEDULER_MAX_MINUTES_PER_DAY", 360)
	v.SetDefault("SCHEDULER_MAX_MINUTES_PER_BLOCK", 120)
	v.SetDefault("SCHEDULER_CACHE_ENABLED", false)
	v.SetDefault("SCHEDULER_CACHE_TTL", "5m")

	v.SetDefault("LEARNING_ENABLED", true)
	v.SetDefault("LEARNING_COOLDOWN", "6h")
	v.SetDefault("LEARNING_WORKER_RETRIES", 3)
	v.SetDefault("LEARNING_WORKER_POOL_SIZE", 1)

	v.SetDefault("STORE_DIR", "./data")
	v.SetDefault("STORE_PREFERENCES_FILE", "preferences.json")
	v.SetDefault("STORE_FEEDBACK_FILE", "feedback.json")

	v.SetDefault("ENABLE_EXPORTS", true)
	v.SetDefault("CALENDAR_URLS", "")
}

// parseKeyValues parses "name=url,name2=url2" pairs.
func parseKeyValues(raw string) map[string]string {
	out := map[string]string{}
	for _, part := range splitAndTrim(raw) {
		key, value, found := strings.Cut(part, "=")
		if !found || key == "" {
			continue
		}
		out[key] = value
	}
	return out
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
