package config

import (
	"fmt"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	CORSOrigins string
	TablePrefix string
	LogDir      string
	// Law API
	LawAPIKey       string // OC parameter issued by law.go.kr
	LawAPIBaseURL   string
	LawAPITimeout   time.Duration
	FanOutLimit     int
	DetailCacheTTL  time.Duration
	DetailCacheSize int
	// Summaries
	AIProvider       string // openai, openrouter or lorem; inferred from SummaryModel when empty
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenRouterAPIKey string
	SummaryModel     string
	LargeModel       string
	PromptsFile      string
	Prompts          Prompts
	ThrottleLimit    int
	ThrottleWindow   time.Duration
	TrustedProxies   []netip.Prefix // peers allowed to set X-Forwarded-For
	// Auth
	JWTSecret          string
	JWTRefreshSecret   string
	JWKSURL            string // when set, access tokens are verified against this JWKS instead of JWTSecret
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	ClientURL          string
}

func Load() (*Config, error) {
	env := getEnv("ENVIRONMENT", "dev")

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: getTablePrefix(env),
		LogDir:      getEnv("LOG_DIR", ""),

		LawAPIKey:       getEnv("LAW_OPEN_API_OC", ""),
		LawAPIBaseURL:   getEnv("LAW_API_BASE_URL", "http://www.law.go.kr/DRF"),
		LawAPITimeout:   getDuration("LAW_API_TIMEOUT", 10*time.Second),
		FanOutLimit:     getInt("LAW_FANOUT_LIMIT", DefaultFanOutLimit),
		DetailCacheTTL:  getDuration("DETAIL_CACHE_TTL", 10*time.Minute),
		DetailCacheSize: getInt("DETAIL_CACHE_SIZE", 512),

		AIProvider:       getEnv("AI_PROVIDER", ""),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
		OpenRouterAPIKey: getEnv("OPENROUTER_API_KEY", ""),
		SummaryModel:     getEnv("SUMMARY_MODEL", "gpt-3.5-turbo"),
		LargeModel:       getEnv("SUMMARY_LARGE_MODEL", "gpt-3.5-turbo-16k"),
		PromptsFile:      getEnv("SUMMARY_PROMPTS_FILE", ""),
		ThrottleLimit:    getInt("SUMMARY_THROTTLE_LIMIT", DefaultThrottleLimit),
		ThrottleWindow:   getDuration("SUMMARY_THROTTLE_WINDOW", DefaultThrottleWindow),

		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTRefreshSecret:   getEnv("JWT_REFRESH_SECRET", ""),
		JWKSURL:            getEnv("JWKS_URL", ""),
		AccessTokenTTL:     getDuration("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL:    getDuration("REFRESH_TOKEN_TTL", 14*24*time.Hour),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/auth/google/callback"),
		ClientURL:          getEnv("CLIENT_URL", "http://localhost:3000"),
	}

	proxies, err := parsePrefixes(getEnv("TRUSTED_PROXIES", ""))
	if err != nil {
		return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	cfg.TrustedProxies = proxies

	prompts, err := LoadPrompts(cfg.PromptsFile)
	if err != nil {
		return nil, err
	}
	cfg.Prompts = prompts

	return cfg, nil
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return c.Environment == "prod"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix, ok := os.LookupEnv("TABLE_PREFIX"); ok {
		return prefix
	}

	switch env {
	case "prod":
		return ""
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getDuration accepts Go durations ("90s") or plain seconds ("90").
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

// parsePrefixes reads a comma-separated list of CIDRs or bare addresses.
func parsePrefixes(value string) ([]netip.Prefix, error) {
	var out []netip.Prefix
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "/") {
			p, err := netip.ParsePrefix(part)
			if err != nil {
				return nil, err
			}
			out = append(out, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(part)
		if err != nil {
			return nil, err
		}
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}
