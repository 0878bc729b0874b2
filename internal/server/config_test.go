package server

import (
	"log/slog"
	"testing"

	"github.com/DjordjeVuckovic/wanda-blog/internal/auth"
	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "USE_HTTP2", "CORS_ORIGINS", "API_PREFIX", "RATE_LIMIT_ENABLED", "RATE_LIMIT_RPS",
	"RATE_LIMIT_BURST", "LOG_LEVEL", "LOCALES", "DEFAULT_LOCALE", "PAGE_MAX_SIZE", "PAGE_DEFAULT_SIZE", "API_TOKENS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := configFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.UseHttp2)
	assert.Equal(t, []string{"*"}, cfg.CorsOrigins)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, content.LocaleEnglish, cfg.Locales.Default())
	assert.Equal(t, []content.Locale{content.LocaleEnglish, content.LocalePolish}, cfg.Locales.Supported())
	assert.Equal(t, 100, cfg.PageMaxSize)
	assert.Equal(t, 10, cfg.PageDefaultSize)
	assert.Zero(t, cfg.Tokens.Len())
}

func TestConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("USE_HTTP2", "true")
	t.Setenv("CORS_ORIGINS", "https://wanda.exchange, ,https://admin.wanda.exchange")
	t.Setenv("API_PREFIX", "v1/")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_RPS", "5.5")
	t.Setenv("RATE_LIMIT_BURST", "11")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOCALES", "en,pl,de")
	t.Setenv("DEFAULT_LOCALE", "PL")
	t.Setenv("PAGE_MAX_SIZE", "50")
	t.Setenv("PAGE_DEFAULT_SIZE", "20")
	t.Setenv("API_TOKENS", "abc:editor,xyz:admin")

	cfg, err := configFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.UseHttp2)
	assert.Equal(t, []string{"https://wanda.exchange", "https://admin.wanda.exchange"}, cfg.CorsOrigins)
	assert.Equal(t, "/v1", cfg.APIPrefix)
	assert.Equal(t, RateLimitConfig{Enabled: true, RPS: 5.5, Burst: 11}, cfg.RateLimit)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, content.LocalePolish, cfg.Locales.Default())
	assert.True(t, cfg.Locales.Contains("de"))
	assert.Equal(t, 50, cfg.PageMaxSize)
	assert.Equal(t, 20, cfg.PageDefaultSize)

	role, ok := cfg.Tokens.Lookup("xyz")
	assert.True(t, ok)
	assert.Equal(t, auth.RoleAdmin, role)
}

func TestConfigFromEnv_Invalid(t *testing.T) {
	tests := map[string]string{
		"PORT":              "70000",
		"RATE_LIMIT_RPS":    "fast",
		"RATE_LIMIT_BURST":  "0",
		"LOG_LEVEL":         "loud",
		"DEFAULT_LOCALE":    "fr",
		"PAGE_MAX_SIZE":     "-3",
		"PAGE_DEFAULT_SIZE": "500",
		"API_TOKENS":        "abc:owner",
	}
	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := configFromEnv()
			assert.Error(t, err)
		})
	}
}

func TestValidatePort(t *testing.T) {
	assert.NoError(t, validatePort("1"))
	assert.NoError(t, validatePort("65535"))
	assert.Error(t, validatePort("0"))
	assert.Error(t, validatePort("http"))
}
