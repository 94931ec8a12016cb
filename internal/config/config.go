// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes server timeouts,
// logging, database paths, moderation policy, rate-limit windows, SMTP
// settings, and observability options.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// SMTPConfig defines the outbound mail relay used for status notifications.
// When Host is empty, notifications are logged instead of sent.
type SMTPConfig struct {
	Host     string // SMTP_HOST; empty disables real delivery
	Port     int    // SMTP_PORT
	Username string // SMTP_USERNAME
	Password string // SMTP_PASSWORD
	From     string // SMTP_FROM sender address
}

// WindowConfig is one fixed-window rate-limit policy: max requests per window.
type WindowConfig struct {
	Window time.Duration
	Max    int
}

// RateLimitConfig groups the edge token bucket and the per-operation fixed
// windows. The window numbers are policy, not contract: every one of them is
// an env override away.
type RateLimitConfig struct {
	// Edge token bucket (per client IP, all routes).
	RPS   float64 // RATE_RPS tokens per second (>= 0)
	Burst int     // RATE_BURST bucket size (>= 1)

	// Per-operation fixed windows.
	Auth          WindowConfig // RATE_AUTH_WINDOW / RATE_AUTH_MAX
	PasswordReset WindowConfig // RATE_PWRESET_WINDOW / RATE_PWRESET_MAX
	Registration  WindowConfig // RATE_REGISTRATION_WINDOW / RATE_REGISTRATION_MAX
	Upload        WindowConfig // RATE_UPLOAD_WINDOW / RATE_UPLOAD_MAX
	API           WindowConfig // RATE_API_WINDOW / RATE_API_MAX
}

// ModerationConfig holds listing-policy knobs for the status workflow and
// duplicate detection.
type ModerationConfig struct {
	// MaxBusinessesPerOwner caps how many listings one owner may hold.
	MaxBusinessesPerOwner int
	// DuplicateThreshold is the minimum similarity score (0-100) at which a
	// name is reported as a potential duplicate.
	DuplicateThreshold int
	// RegressOnNoopEdit controls whether an owner edit that changes no field
	// still forces an APPROVED/REJECTED listing back to PENDING.
	RegressOnNoopEdit bool
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// App
	DBPath     string // SQLite path
	Moderation ModerationConfig

	// Rate limiting
	RateLimit RateLimitConfig

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Notifications
	SMTP SMTPConfig

	// Submission replay protection
	ReceiptTTL time.Duration // how long an Idempotency-Key receipt is valid

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api/v1")),

		// App
		DBPath: getenv("DB_PATH", "directory.db"),
		Moderation: ModerationConfig{
			MaxBusinessesPerOwner: getint("MAX_BUSINESSES_PER_OWNER", 2),
			DuplicateThreshold:    getint("DUPLICATE_THRESHOLD", 70),
			RegressOnNoopEdit:     getbool("REGRESS_ON_NOOP_EDIT", true),
		},

		// Rate limiting
		RateLimit: RateLimitConfig{
			RPS:           getfloat("RATE_RPS", 10.0),
			Burst:         getint("RATE_BURST", 20),
			Auth:          WindowConfig{getdur("RATE_AUTH_WINDOW", 15*time.Minute), getint("RATE_AUTH_MAX", 5)},
			PasswordReset: WindowConfig{getdur("RATE_PWRESET_WINDOW", time.Hour), getint("RATE_PWRESET_MAX", 3)},
			Registration:  WindowConfig{getdur("RATE_REGISTRATION_WINDOW", time.Hour), getint("RATE_REGISTRATION_MAX", 5)},
			Upload:        WindowConfig{getdur("RATE_UPLOAD_WINDOW", time.Minute), getint("RATE_UPLOAD_MAX", 10)},
			API:           WindowConfig{getdur("RATE_API_WINDOW", time.Minute), getint("RATE_API_MAX", 100)},
		},

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Notifications
		SMTP: SMTPConfig{
			Host:     getenv("SMTP_HOST", ""),
			Port:     getint("SMTP_PORT", 587),
			Username: getenv("SMTP_USERNAME", ""),
			Password: getenv("SMTP_PASSWORD", ""),
			From:     getenv("SMTP_FROM", "no-reply@localspot.example"),
		},

		// Submission replay protection
		ReceiptTTL: getdur("RECEIPT_TTL", 24*time.Hour),

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-directory-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.Moderation.MaxBusinessesPerOwner < 1 {
		return cfg, errors.New("MAX_BUSINESSES_PER_OWNER must be >= 1")
	}
	if cfg.Moderation.DuplicateThreshold < 0 || cfg.Moderation.DuplicateThreshold > 100 {
		return cfg, errors.New("DUPLICATE_THRESHOLD must be between 0 and 100")
	}
	if cfg.RateLimit.RPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateLimit.Burst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	for _, w := range []WindowConfig{
		cfg.RateLimit.Auth, cfg.RateLimit.PasswordReset, cfg.RateLimit.Registration,
		cfg.RateLimit.Upload, cfg.RateLimit.API,
	} {
		if w.Window <= 0 || w.Max < 1 {
			return cfg, errors.New("rate-limit windows must be positive with max >= 1")
		}
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.SMTP.Port < 1 || cfg.SMTP.Port > 65535 {
		return cfg, errors.New("SMTP_PORT must be a valid port number")
	}
	if cfg.ReceiptTTL <= 0 {
		return cfg, errors.New("RECEIPT_TTL must be > 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
