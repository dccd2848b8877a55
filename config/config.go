package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	// Ровно один из двух должен быть задан.
	AdminSecret     string
	AdminSecretHash string
	AdminEmails     []string

	OTPTTL         time.Duration
	RememberTTL    time.Duration
	SessionIdleTTL time.Duration

	MailDriver string // "resend", "smtp" или пусто (OTP отключён)
	MailFrom   string
	ResendKey  string
	SMTPHost   string
	SMTPPort   int
	SMTPUser   string
	SMTPPass   string

	CORSHosts    []string
	CookieSecure bool

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// R2Enabled reports whether CSV exports can be published.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2SecretAccessKey != "" &&
		c.R2BucketName != "" && c.R2PublicBaseURL != ""
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecretKey:    os.Getenv("JWT_SECRET_KEY"),
		AdminSecret:     os.Getenv("ADMIN_SECRET"),
		AdminSecretHash: os.Getenv("ADMIN_SECRET_HASH"),
		AdminEmails:     splitList(os.Getenv("ADMIN_EMAILS")),
		MailDriver:      strings.ToLower(strings.TrimSpace(os.Getenv("MAIL_DRIVER"))),
		MailFrom:        os.Getenv("MAIL_FROM"),
		ResendKey:       os.Getenv("RESEND_KEY"),
		SMTPHost:        os.Getenv("SMTP_HOST"),
		SMTPUser:        os.Getenv("SMTP_USER"),
		SMTPPass:        os.Getenv("SMTP_PASS"),
		CORSHosts:       splitList(os.Getenv("CORS_HOSTS")),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}
	if cfg.AdminSecret == "" && cfg.AdminSecretHash == "" {
		return nil, fmt.Errorf("one of ADMIN_SECRET or ADMIN_SECRET_HASH must be set")
	}
	if cfg.AdminSecret != "" && cfg.AdminSecretHash != "" {
		return nil, fmt.Errorf("ADMIN_SECRET and ADMIN_SECRET_HASH are mutually exclusive")
	}

	var err error
	if cfg.ServerPort, err = intFromEnv("SERVER_PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}
	if cfg.SMTPPort, err = intFromEnv("SMTP_PORT", 587); err != nil {
		return nil, err
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		if cfg.CookieSecure, err = strconv.ParseBool(v); err != nil {
			return nil, fmt.Errorf("invalid COOKIE_SECURE environment variable: %w", err)
		}
	}
	if cfg.OTPTTL, err = durationFromEnv("OTP_TTL", 10*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RememberTTL, err = durationFromEnv("REMEMBER_TTL", 30*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTTL, err = durationFromEnv("SESSION_IDLE_TTL", 12*time.Hour); err != nil {
		return nil, err
	}

	switch cfg.MailDriver {
	case "":
	case "resend":
		if cfg.ResendKey == "" {
			return nil, fmt.Errorf("RESEND_KEY is required when MAIL_DRIVER=resend")
		}
	case "smtp":
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("SMTP_HOST is required when MAIL_DRIVER=smtp")
		}
	default:
		return nil, fmt.Errorf("unsupported MAIL_DRIVER %q", cfg.MailDriver)
	}
	if cfg.MailDriver != "" && cfg.MailFrom == "" {
		return nil, fmt.Errorf("MAIL_FROM is required when MAIL_DRIVER is set")
	}

	return cfg, nil
}

func intFromEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func durationFromEnv(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
