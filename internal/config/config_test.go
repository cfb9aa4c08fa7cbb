package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_StorageValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_STORAGE", "dynamodb")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_STORAGE")
	}
}

func TestLoad_StorageDefaultsToMemory(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_STORAGE", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Storage != StorageMemory {
		t.Fatalf("unexpected storage backend: %q", cfg.Storage)
	}
}

func TestLoad_AuthModeDefaultsByEnv(t *testing.T) {
	t.Run("dev defaults to devtoken with fallback secret", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("AUTH_MODE", "")
		t.Setenv("DEV_TOKEN_SECRET", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.AuthMode != AuthModeDevToken {
			t.Fatalf("unexpected auth mode: %q", cfg.AuthMode)
		}
		if cfg.DevTokenSecret == "" {
			t.Fatalf("expected fallback dev token secret")
		}
	})

	t.Run("prod defaults to introspect", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("AUTH_MODE", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.AuthMode != AuthModeIntrospect {
			t.Fatalf("unexpected auth mode: %q", cfg.AuthMode)
		}
	})
}

func TestLoad_DevTokenModeRejectedInProd(t *testing.T) {
	t.Setenv("APP_ENV", EnvProd)
	t.Setenv("AUTH_MODE", AuthModeDevToken)

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for AUTH_MODE=devtoken in prod")
	}
}

func TestLoad_AccountConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("ACCOUNT_BASE_URL", "https://account.internal:8443")
	t.Setenv("ACCOUNT_INTROSPECT_PATH", "/v2/introspect")
	t.Setenv("ACCOUNT_ADMIN_KEY", "admin-key-123")
	t.Setenv("ACCOUNT_TIMEOUT", "2s")
	t.Setenv("ACCOUNT_CIRCUIT_ENABLED", "true")
	t.Setenv("ACCOUNT_CIRCUIT_FAILURE_COUNT", "3")
	t.Setenv("ACCOUNT_CIRCUIT_OPEN_TIMEOUT", "30s")
	t.Setenv("ACCOUNT_CIRCUIT_HALF_OPEN_MAX_REQ", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.AccountBaseURL != "https://account.internal:8443" {
		t.Fatalf("unexpected AccountBaseURL: %q", cfg.AccountBaseURL)
	}
	if cfg.AccountIntrospectPath != "/v2/introspect" {
		t.Fatalf("unexpected AccountIntrospectPath: %q", cfg.AccountIntrospectPath)
	}
	if cfg.AccountAdminKey != "admin-key-123" {
		t.Fatalf("unexpected AccountAdminKey")
	}
	if cfg.AccountTimeout != 2*time.Second {
		t.Fatalf("unexpected AccountTimeout: %s", cfg.AccountTimeout)
	}
	if !cfg.AccountCircuitEnabled {
		t.Fatalf("expected AccountCircuitEnabled=true")
	}
	if cfg.AccountCircuitFailureCount != 3 {
		t.Fatalf("unexpected AccountCircuitFailureCount: %d", cfg.AccountCircuitFailureCount)
	}
	if cfg.AccountCircuitOpenTimeout != 30*time.Second {
		t.Fatalf("unexpected AccountCircuitOpenTimeout: %s", cfg.AccountCircuitOpenTimeout)
	}
	if cfg.AccountCircuitHalfOpenMaxReq != 1 {
		t.Fatalf("unexpected AccountCircuitHalfOpenMaxReq: %d", cfg.AccountCircuitHalfOpenMaxReq)
	}
}

func TestLoad_PusherRequiresCredentialsWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PUSHER_ENABLED", "true")
	t.Setenv("PUSHER_BASE_URL", "https://api-eu.pusher.com")
	t.Setenv("PUSHER_APP_ID", "app-1")
	t.Setenv("PUSHER_KEY", "key-1")
	t.Setenv("PUSHER_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PUSHER_ENABLED=true without PUSHER_SECRET")
	}
}

func TestLoad_PusherConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PUSHER_ENABLED", "true")
	t.Setenv("PUSHER_BASE_URL", "https://api-eu.pusher.com")
	t.Setenv("PUSHER_APP_ID", "app-1")
	t.Setenv("PUSHER_KEY", "key-1")
	t.Setenv("PUSHER_SECRET", "secret-1")
	t.Setenv("PUSHER_TIMEOUT", "7s")
	t.Setenv("BROADCAST_WORKERS", "2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if !cfg.PusherEnabled {
		t.Fatalf("expected PusherEnabled=true")
	}
	if cfg.PusherTimeout != 7*time.Second {
		t.Fatalf("unexpected PusherTimeout: %s", cfg.PusherTimeout)
	}
	if cfg.BroadcastWorkers != 2 {
		t.Fatalf("unexpected BroadcastWorkers: %d", cfg.BroadcastWorkers)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "uptrace-dsn=\"https://token@api.uptrace.dev?grpc=4317\"")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected UptraceDSN: %q", cfg.UptraceDSN)
	}
}

func TestLoad_BetterStackRequiresEndpointWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("BETTERSTACK_ENABLED", "true")
	t.Setenv("BETTERSTACK_ENDPOINT", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when BETTERSTACK_ENABLED=true without BETTERSTACK_ENDPOINT")
	}
}

func TestLoad_DefaultsByEnv(t *testing.T) {
	t.Run("prod disables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvProd)
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=false in prod by default")
		}
	})

	t.Run("dev enables swagger by default", func(t *testing.T) {
		t.Setenv("APP_ENV", EnvDev)
		t.Setenv("SWAGGER_ENABLED", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.SwaggerEnabled {
			t.Fatalf("expected SwaggerEnabled=true in dev by default")
		}
	})
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_SERVICE_NAME", "leaguedesk-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "leaguedesk-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

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
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://app.leaguedesk.no, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://app.leaguedesk.no" {
			t.Fatalf("unexpected first CORS origin: %s", cfg.CORSAllowedOrigins[0])
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled {
			t.Fatalf("expected CacheEnabled=true by default")
		}
		if cfg.CacheTTL != 60*time.Second {
			t.Fatalf("unexpected default CacheTTL: %s", cfg.CacheTTL)
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "-1s")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for non-positive CACHE_TTL")
		}
	})
}

func TestLoad_TimeoutParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_READ_TIMEOUT", "20s")
	t.Setenv("APP_WRITE_TIMEOUT", "25s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ReadTimeout != 20*time.Second {
		t.Fatalf("unexpected ReadTimeout: %s", cfg.ReadTimeout)
	}
	if cfg.WriteTimeout != 25*time.Second {
		t.Fatalf("unexpected WriteTimeout: %s", cfg.WriteTimeout)
	}
}

func TestLoad_LogLevelParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LogLevel.String() != "warn" {
		t.Fatalf("unexpected LogLevel: %s", cfg.LogLevel.String())
	}
}
