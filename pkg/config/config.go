package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port           string
	AppEnv         string
	LogLevel       string
	LogFile        string
	RequestTimeout time.Duration

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPass     string
	PostgresDatabase string
	PostgresSSLMode  string
	AutoMigrate      bool

	JWTSecret string
	JWTTTL    time.Duration

	SMTPHost           string
	SMTPPort           int
	SMTPUser           string
	SMTPPass           string
	SMTPFrom           string
	AppURL             string
	EmailRetryAttempts int
	EmailRetryDelay    time.Duration

	RedisAddr     string
	RedisPassword string

	PreRegTTL           time.Duration
	PreRegSweepInterval time.Duration

	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

// IsDevelopment reports whether error details may be exposed to clients.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// EmailConfigured reports whether SMTP credentials are present.
func (c *Config) EmailConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPass != ""
}

func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			slog.Warn("env file not found", "files", envFiles)
		}
	} else {
		if err := godotenv.Load(); err != nil {
			slog.Warn("env file not found, using system environment variables")
		}
	}

	v := newViper()

	required := []string{"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB", "JWT_SECRET"}
	for _, key := range required {
		if err := requireKey(v, key); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Port:           v.GetString("PORT"),
		AppEnv:         v.GetString("APP_ENV"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogFile:        v.GetString("LOG_FILE"),
		RequestTimeout: durationOr(v, "REQUEST_TIMEOUT", 60*time.Second),

		PostgresHost:     v.GetString("POSTGRES_HOST"),
		PostgresPort:     v.GetString("POSTGRES_PORT"),
		PostgresUser:     v.GetString("POSTGRES_USER"),
		PostgresPass:     v.GetString("POSTGRES_PASSWORD"),
		PostgresDatabase: v.GetString("POSTGRES_DB"),
		PostgresSSLMode:  v.GetString("POSTGRES_SSL_MODE"),
		AutoMigrate:      v.GetBool("DB_AUTO_MIGRATE"),

		JWTSecret: v.GetString("JWT_SECRET"),
		JWTTTL:    durationOr(v, "JWT_TTL", 24*time.Hour),

		SMTPHost:           v.GetString("SMTP_HOST"),
		SMTPPort:           v.GetInt("SMTP_PORT"),
		SMTPUser:           v.GetString("SMTP_USER"),
		SMTPPass:           v.GetString("SMTP_PASS"),
		SMTPFrom:           v.GetString("SMTP_FROM"),
		AppURL:             strings.TrimRight(v.GetString("APP_URL"), "/"),
		EmailRetryAttempts: v.GetInt("EMAIL_RETRY_ATTEMPTS"),
		EmailRetryDelay:    durationOr(v, "EMAIL_RETRY_DELAY", 2*time.Second),

		RedisAddr:     v.GetString("REDIS_ADDR"),
		RedisPassword: v.GetString("REDIS_PASSWORD"),

		PreRegTTL:           durationOr(v, "PREREG_TTL", time.Hour),
		PreRegSweepInterval: durationOr(v, "PREREG_SWEEP_INTERVAL", time.Hour),

		MaxConns:          v.GetInt32("DB_MAX_CONNS"),
		MinConns:          v.GetInt32("DB_MIN_CONNS"),
		MaxConnLifetime:   durationOr(v, "DB_MAX_CONN_LIFETIME", time.Hour),
		MaxConnIdleTime:   durationOr(v, "DB_MAX_CONN_IDLE_TIME", 30*time.Minute),
		HealthCheckPeriod: durationOr(v, "DB_HEALTH_CHECK_PERIOD", time.Minute),
	}

	if cfg.SMTPFrom == "" {
		cfg.SMTPFrom = cfg.SMTPUser
	}
	if cfg.EmailRetryAttempts < 1 {
		cfg.EmailRetryAttempts = 1
	}

	slog.Info("configuration loaded",
		"port", cfg.Port,
		"env", cfg.AppEnv,
		"db_host", cfg.PostgresHost,
		"email_configured", cfg.EmailConfigured(),
		"redis", cfg.RedisAddr != "",
	)

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("POSTGRES_SSL_MODE", "disable")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("DB_MAX_CONNS", 25)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("APP_URL", "http://localhost:3000")
	v.SetDefault("EMAIL_RETRY_ATTEMPTS", 2)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// keys without a default are only seen by AutomaticEnv once bound
	for _, key := range []string{
		"LOG_FILE", "REQUEST_TIMEOUT",
		"POSTGRES_HOST", "POSTGRES_PORT", "POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB",
		"JWT_SECRET", "JWT_TTL",
		"SMTP_HOST", "SMTP_USER", "SMTP_PASS", "SMTP_FROM", "EMAIL_RETRY_DELAY",
		"REDIS_ADDR", "REDIS_PASSWORD",
		"PREREG_TTL", "PREREG_SWEEP_INTERVAL",
		"DB_MAX_CONN_LIFETIME", "DB_MAX_CONN_IDLE_TIME", "DB_HEALTH_CHECK_PERIOD",
	} {
		_ = v.BindEnv(key)
	}
	return v
}

// for required variables
func requireKey(v *viper.Viper, key string) error {
	if v.GetString(key) == "" {
		return fmt.Errorf("%s is required", key)
	}
	return nil
}

func durationOr(v *viper.Viper, key string, defaultValue time.Duration) time.Duration {
	raw := v.GetString(key)
	if raw == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(raw)
	if err != nil {
		slog.Warn("invalid duration, using default", "key", key, "value", raw)
		return defaultValue
	}

	return duration
}
