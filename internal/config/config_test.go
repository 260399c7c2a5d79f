package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("POSTGRES_HOST", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Provider != "gemini" {
		t.Fatalf("expected provider gemini, got %s", cfg.Provider)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected port 8080, got %s", cfg.Port)
	}
	if cfg.Postgres != nil {
		t.Fatal("expected no postgres config without POSTGRES_HOST")
	}
	if cfg.FeedbackCacheTTL != 15*time.Minute {
		t.Fatalf("expected 15m cache TTL, got %v", cfg.FeedbackCacheTTL)
	}
	if cfg.ExportEnabled {
		t.Fatal("expected report export to be disabled by default")
	}
}

func TestLoadConfig_UnsupportedProvider(t *testing.T) {
	t.Setenv("AI_PROVIDER", "unknown")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestLoadConfig_Postgres(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db")
	t.Setenv("POSTGRES_DB", "interviews")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Postgres == nil {
		t.Fatal("expected postgres config")
	}
	want := "host=db user=postgres password=postgres dbname=interviews port=5432 sslmode=disable"
	if got := cfg.Postgres.DSN(); got != want {
		t.Fatalf("expected DSN %q, got %q", want, got)
	}
}

func TestLoadConfig_ReportExport(t *testing.T) {
	t.Setenv("REPORT_EXPORT_ENABLED", "true")
	t.Setenv("REPORT_EXPORT_SCHEDULE", "*/5 * * * *")
	t.Setenv("REPORT_EXPORT_DIR", "/tmp/reports")
	t.Setenv("REPORT_EXPORT_BATCH_SIZE", "10")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if !cfg.ExportEnabled || cfg.ExportDir != "/tmp/reports" || cfg.ExportBatchSize != 10 {
		t.Fatalf("unexpected export config: %+v", cfg)
	}

	t.Setenv("REPORT_EXPORT_SCHEDULE", "whenever")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for invalid export schedule")
	}
}

func TestLoadConfig_InvalidSweepSchedule(t *testing.T) {
	t.Setenv("SESSION_SWEEP_SCHEDULE", "sometimes")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for invalid sweep schedule")
	}
}

func TestLoadConfig_CORSOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
	}
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("UNIT_TEST_ENV", "value")
	if got := getEnvOrDefault("UNIT_TEST_ENV", "fallback"); got != "value" {
		t.Fatalf("expected env value, got %s", got)
	}

	t.Setenv("UNIT_TEST_ENV", "")
	if got := getEnvOrDefault("UNIT_TEST_ENV", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback value, got %s", got)
	}
}

func TestGetEnvDurationAndInt(t *testing.T) {
	t.Setenv("UNIT_TEST_DURATION", "bogus")
	if got := getEnvDuration("UNIT_TEST_DURATION", time.Second); got != time.Second {
		t.Fatalf("expected fallback for unparseable duration, got %v", got)
	}
	t.Setenv("UNIT_TEST_INT", "7")
	if got := getEnvInt("UNIT_TEST_INT", 1); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
}
