package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ALLOW_BEARER_TOKENS", "")
	t.Setenv("TRUSTED_PROXIES", "")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "1414" || cfg.MongoDB != "bizdesk" || cfg.HomeCallingCode != "92" {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.JWTSecret == "" {
		t.Error("development secret not set")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Errorf("CORSOrigins = %q", cfg.CORSOrigins)
	}
	if cfg.BearerTokens || len(cfg.TrustedProxies) != 0 {
		t.Errorf("bearer tokens = %v, trusted proxies = %q", cfg.BearerTokens, cfg.TrustedProxies)
	}
	if cfg.IsProduction() {
		t.Error("IsProduction() = true")
	}
}

func TestLoadProductionNeedsSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Error("Load() accepted production config without JWT_SECRET")
	}
}
