package config

import (
	"strings"
	"testing"
	"time"
)

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	// Server timeouts / sizes (valid)
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"

	// Logging / Docs
	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("SWAGGER_ENABLED", "on")
	t.Setenv("API_BASE_PATH", "api/v1/") // no leading slash + trailing slash -> "/api/v1"

	// App
	t.Setenv("DB_PATH", "db.sqlite")
	t.Setenv("MAX_BUSINESSES_PER_OWNER", "3")
	t.Setenv("DUPLICATE_THRESHOLD", "80")
	t.Setenv("REGRESS_ON_NOOP_EDIT", "off")

	// Rate limiting (invalid values fall back to defaults)
	t.Setenv("RATE_RPS", "x")      // -> default 10.0
	t.Setenv("RATE_BURST", "nope") // -> default 20
	t.Setenv("RATE_REGISTRATION_WINDOW", "30m")
	t.Setenv("RATE_REGISTRATION_MAX", "7")

	// Web protection
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , https://b.example ,, ")
	t.Setenv("ENABLE_HSTS", "1")

	// Notifications
	t.Setenv("SMTP_HOST", "mail.example")
	t.Setenv("SMTP_PORT", "2525")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8088" || cfg.ReadTimeout != 2*time.Second || cfg.MaxHeaderBytes != 8192 {
		t.Fatalf("server config = %+v", cfg)
	}
	if cfg.GinMode != "release" {
		t.Fatalf("GinMode = %q, want normalized release", cfg.GinMode)
	}
	if cfg.LogLevel != "warn" || !cfg.LogPretty || !cfg.SwaggerEnabled {
		t.Fatalf("logging config = %+v", cfg)
	}
	if cfg.APIBasePath != "/api/v1" {
		t.Fatalf("APIBasePath = %q", cfg.APIBasePath)
	}

	if cfg.Moderation.MaxBusinessesPerOwner != 3 || cfg.Moderation.DuplicateThreshold != 80 || cfg.Moderation.RegressOnNoopEdit {
		t.Fatalf("moderation config = %+v", cfg.Moderation)
	}

	if cfg.RateLimit.RPS != 10.0 || cfg.RateLimit.Burst != 20 {
		t.Fatalf("edge limiter config = %+v", cfg.RateLimit)
	}
	if cfg.RateLimit.Registration.Window != 30*time.Minute || cfg.RateLimit.Registration.Max != 7 {
		t.Fatalf("registration window = %+v", cfg.RateLimit.Registration)
	}

	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[0] != "https://a.example" {
		t.Fatalf("CORS origins = %v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Security.EnableHSTS {
		t.Fatal("HSTS not enabled")
	}
	if cfg.SMTP.Host != "mail.example" || cfg.SMTP.Port != 2525 {
		t.Fatalf("SMTP config = %+v", cfg.SMTP)
	}
}

// --- Validation failures ---

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name    string
		key     string
		value   string
		wantSub string
	}{
		{"bad log level", "LOG_LEVEL", "loud", "LOG_LEVEL"},
		{"blank port", "PORT", " ", "PORT"},
		{"negative timeout", "READ_TIMEOUT", "-1s", "timeouts"},
		{"owner cap below one", "MAX_BUSINESSES_PER_OWNER", "0", "MAX_BUSINESSES_PER_OWNER"},
		{"threshold out of range", "DUPLICATE_THRESHOLD", "150", "DUPLICATE_THRESHOLD"},
		{"zero burst", "RATE_BURST", "0", "RATE_BURST"},
		{"zero window max", "RATE_API_MAX", "0", "rate-limit windows"},
		{"bad smtp port", "SMTP_PORT", "70000", "SMTP_PORT"},
		{"zero receipt ttl", "RECEIPT_TTL", "0s", "RECEIPT_TTL"},
		{"sample ratio out of range", "OTEL_TRACES_SAMPLER_ARG", "1.5", "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load()
			if err == nil {
				t.Fatalf("expected error for %s=%s", tc.key, tc.value)
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

// --- Defaults ---

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.DBPath != "directory.db" {
		t.Fatalf("defaults = %+v", cfg)
	}
	if cfg.Moderation.MaxBusinessesPerOwner != 2 || cfg.Moderation.DuplicateThreshold != 70 || !cfg.Moderation.RegressOnNoopEdit {
		t.Fatalf("moderation defaults = %+v", cfg.Moderation)
	}
	if cfg.RateLimit.Registration.Max != 5 || cfg.RateLimit.Registration.Window != time.Hour {
		t.Fatalf("registration defaults = %+v", cfg.RateLimit.Registration)
	}
	if cfg.ReceiptTTL != 24*time.Hour {
		t.Fatalf("ReceiptTTL = %v", cfg.ReceiptTTL)
	}
}
