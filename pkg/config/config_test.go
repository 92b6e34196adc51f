package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-minimum-32-characters-long"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/finsight")
	t.Setenv("JWT_SECRET", testSecret)
	for _, key := range []string{"PORT", "ENV", "SESSION_TTL", "DASHBOARD_LOCALE", "GEMINI_API_KEY", "GEMINI_MODEL", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "en", cfg.DashboardLocale)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.False(t, cfg.AdvisorEnabled())
	assert.Equal(t, float64(100), cfg.RateLimitRPS)
	assert.Equal(t, 20, cfg.RateLimitBurst)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/finsight")
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://www.example.com,")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("DASHBOARD_LOCALE", "de")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"https://app.example.com", "https://www.example.com"}, cfg.AllowedOrigins)
	assert.True(t, cfg.AdvisorEnabled())
	assert.Equal(t, "de", cfg.DashboardLocale)
}

func TestTrustedProxyPrefixes(t *testing.T) {
	cfg := &Config{TrustedProxies: []string{"10.0.0.0/8", "192.168.1.7", "fd00::/8"}}

	prefixes := cfg.TrustedProxyPrefixes()
	require.Len(t, prefixes, 3)
	assert.Equal(t, "10.0.0.0/8", prefixes[0].String())
	assert.Equal(t, "192.168.1.7/32", prefixes[1].String())
	assert.Equal(t, "fd00::/8", prefixes[2].String())
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Env:            "development",
			DatabaseURL:    "postgres://localhost/finsight",
			JWTSecret:      testSecret,
			SessionTTL:     time.Hour,
			RateLimitRPS:   10,
			RateLimitBurst: 5,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing database", mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: "DATABASE_URL"},
		{name: "missing secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET is required"},
		{name: "short secret", mutate: func(c *Config) { c.JWTSecret = "short" }, wantErr: "at least 32"},
		{name: "zero ttl", mutate: func(c *Config) { c.SessionTTL = 0 }, wantErr: "SESSION_TTL"},
		{name: "production without gemini", mutate: func(c *Config) { c.Env = "production" }, wantErr: "GEMINI_API_KEY"},
		{name: "bad rate limit", mutate: func(c *Config) { c.RateLimitBurst = 0 }, wantErr: "RATE_LIMIT"},
		{name: "bad trusted proxy", mutate: func(c *Config) { c.TrustedProxies = []string{"10.0.0.0/33"} }, wantErr: "TRUSTED_PROXIES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
