package server

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/DjordjeVuckovic/wanda-blog/internal/auth"
	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/DjordjeVuckovic/wanda-blog/pkg/config/env"
	"github.com/DjordjeVuckovic/wanda-blog/pkg/pagination"
	"github.com/DjordjeVuckovic/wanda-blog/pkg/stringsutil"
)

const defaultEnvPath = "cmd/blog_api/.env"

type RateLimitConfig struct {
	Enabled bool
	RPS     float64
	Burst   int
}

type Config struct {
	Port        string
	UseHttp2    bool
	CorsOrigins []string
	APIPrefix   string
	RateLimit   RateLimitConfig
	LogLevel    slog.Level

	Locales         content.LocaleSet
	PageMaxSize     int
	PageDefaultSize int
	Tokens          auth.Tokens
}

func LoadConfig() (*Config, error) {
	err := env.LoadDotEnv(env.Environment(), defaultEnvPath)
	if err != nil {
		slog.Info("Skipping .env ...", "error", err)
	}

	return configFromEnv()
}

func configFromEnv() (*Config, error) {
	useHttp2 := os.Getenv("USE_HTTP2") == "true"

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	origins := stringsutil.SplitTrim(os.Getenv("CORS_ORIGINS"), ",")
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	prefix := strings.Trim(strings.TrimSpace(os.Getenv("API_PREFIX")), "/")
	if prefix == "" {
		prefix = "api"
	}
	prefix = "/" + prefix

	rl, err := loadRateLimit()
	if err != nil {
		return nil, err
	}

	level, err := parseLogLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}

	locales, err := LoadLocales()
	if err != nil {
		return nil, err
	}

	maxSize, err := intEnv("PAGE_MAX_SIZE", pagination.PageMaxSize)
	if err != nil {
		return nil, err
	}
	defSize, err := intEnv("PAGE_DEFAULT_SIZE", pagination.PageDefaultSize)
	if err != nil {
		return nil, err
	}
	if defSize > maxSize {
		return nil, fmt.Errorf("PAGE_DEFAULT_SIZE %d exceeds PAGE_MAX_SIZE %d", defSize, maxSize)
	}

	tokens, err := auth.ParseTokens(os.Getenv("API_TOKENS"))
	if err != nil {
		return nil, fmt.Errorf("invalid API_TOKENS: %w", err)
	}
	if tokens.Len() == 0 {
		slog.Warn("API_TOKENS is empty, every write endpoint will answer 401")
	}

	return &Config{
		Port:            port,
		UseHttp2:        useHttp2,
		CorsOrigins:     origins,
		APIPrefix:       prefix,
		RateLimit:       rl,
		LogLevel:        level,
		Locales:         locales,
		PageMaxSize:     maxSize,
		PageDefaultSize: defSize,
		Tokens:          tokens,
	}, nil
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)

	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}

func loadRateLimit() (RateLimitConfig, error) {
	rl := RateLimitConfig{Enabled: os.Getenv("RATE_LIMIT_ENABLED") == "true", RPS: 20, Burst: 40}
	if raw := os.Getenv("RATE_LIMIT_RPS"); raw != "" {
		rps, err := strconv.ParseFloat(raw, 64)
		if err != nil || rps <= 0 {
			return RateLimitConfig{}, fmt.Errorf("RATE_LIMIT_RPS must be a positive number, got %q", raw)
		}
		rl.RPS = rps
	}
	burst, err := intEnv("RATE_LIMIT_BURST", rl.Burst)
	if err != nil {
		return RateLimitConfig{}, err
	}
	rl.Burst = burst
	return rl, nil
}

// LoadLocales reads LOCALES and DEFAULT_LOCALE.
func LoadLocales() (content.LocaleSet, error) {
	supported := content.ParseLocaleList(os.Getenv("LOCALES"))
	if len(supported) == 0 {
		supported = []content.Locale{content.LocaleEnglish, content.LocalePolish}
	}
	def := content.Locale(strings.ToLower(strings.TrimSpace(os.Getenv("DEFAULT_LOCALE"))))
	if def == "" {
		def = content.LocaleEnglish
	}
	locales, err := content.NewLocaleSet(def, supported...)
	if err != nil {
		return content.LocaleSet{}, fmt.Errorf("invalid locale configuration: %w", err)
	}
	return locales, nil
}

func parseLogLevel(raw string) (slog.Level, error) {
	var level slog.Level
	if raw == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return level, nil
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", key, raw)
	}
	return n, nil
}
