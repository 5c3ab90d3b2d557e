package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("ESPN_LEAGUE_ID", "123456")
	t.Setenv("ESPN_S2", "s2-cookie")
	t.Setenv("ESPN_SWID", "{SWID}")
}

func TestLoad_AppEnvValidation(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_RequiresLeagueCredentials(t *testing.T) {
	t.Run("missing league id", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("ESPN_LEAGUE_ID", "")
		t.Setenv("ESPN_S2", "s2")
		t.Setenv("ESPN_SWID", "{SWID}")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error without ESPN_LEAGUE_ID")
		}
	})

	t.Run("missing espn_s2", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("ESPN_LEAGUE_ID", "123456")
		t.Setenv("ESPN_S2", "")
		t.Setenv("ESPN_SWID", "{SWID}")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error without ESPN_S2")
		}
	})

	t.Run("missing swid", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("ESPN_LEAGUE_ID", "123456")
		t.Setenv("ESPN_S2", "s2")
		t.Setenv("ESPN_SWID", "")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error without ESPN_SWID")
		}
	})
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("unexpected default http addr: %q", cfg.HTTPAddr)
	}
	if cfg.RefreshInterval != 90*time.Second {
		t.Fatalf("unexpected default refresh interval: %s", cfg.RefreshInterval)
	}
	if cfg.ESPNTimeout != 15*time.Second {
		t.Fatalf("unexpected default espn timeout: %s", cfg.ESPNTimeout)
	}
	if cfg.ESPNMaxRetries != 2 {
		t.Fatalf("unexpected default espn max retries: %d", cfg.ESPNMaxRetries)
	}
	if !cfg.ESPNCircuitEnabled {
		t.Fatalf("expected circuit breaker enabled by default")
	}
	if cfg.ESPNSeason != 0 {
		t.Fatalf("expected season auto-detect (0) by default, got %d", cfg.ESPNSeason)
	}
	if cfg.ArchiveEnabled {
		t.Fatalf("expected archive disabled by default")
	}
	if cfg.LogFile != "redzone.log" {
		t.Fatalf("unexpected default log file: %q", cfg.LogFile)
	}
}

func TestLoad_RefreshIntervalValidation(t *testing.T) {
	setRequiredEnv(t)

	t.Run("invalid duration", func(t *testing.T) {
		t.Setenv("REFRESH_INTERVAL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid REFRESH_INTERVAL")
		}
	})

	t.Run("too small", func(t *testing.T) {
		t.Setenv("REFRESH_INTERVAL", "100ms")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for sub-second REFRESH_INTERVAL")
		}
	})

	t.Run("custom interval", func(t *testing.T) {
		t.Setenv("REFRESH_INTERVAL", "30s")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.RefreshInterval != 30*time.Second {
			t.Fatalf("unexpected refresh interval: %s", cfg.RefreshInterval)
		}
	})
}

func TestLoad_ArchiveRequiresDBURLWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ARCHIVE_ENABLED", "true")
	t.Setenv("ARCHIVE_DB_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when ARCHIVE_ENABLED=true without ARCHIVE_DB_URL")
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("APP_SERVICE_NAME", "redzone-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "redzone-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	setRequiredEnv(t)

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
	})
}
