package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds everything the dashboard service reads from the environment.
type Config struct {
	ServiceName string
	Port        string

	// Remote appointment API.
	AgendaAPIURL     string
	AgendaAPITimeout time.Duration

	// Identity provider.
	JWKSURL      string
	JWKSCacheTTL time.Duration
	JWTSecret    string
	Issuer       string
	Audience     string

	SessionTTL      time.Duration
	NotificationTTL time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	KafkaBrokers       string
	ActivityEventTopic string

	RateLimitPerMinute int
	RateLimitFailOpen  bool
	RateLimitPrefix    string

	RequestBodyLimit int64
	RequestTimeout   time.Duration

	CORSAllowedOrigins   []string
	CORSAllowedMethods   []string
	CORSAllowedHeaders   []string
	CORSAllowCredentials bool
	CORSMaxAge           time.Duration
}

// Load reads the configuration from environment variables. It only errors on
// values that cannot be defaulted sensibly (the listen port).
func Load() (*Config, error) {
	port, err := Port("PORT", "8080")
	if err != nil {
		return nil, err
	}
	return &Config{
		ServiceName: String("SERVICE_NAME", "dashboard-service"),
		Port:        port,

		AgendaAPIURL:     String("AGENDA_API_URL", "http://localhost:3001"),
		AgendaAPITimeout: Duration("AGENDA_API_TIMEOUT", 10*time.Second),

		JWKSURL:      String("JWKS_URL", "https://www.googleapis.com/oauth2/v3/certs"),
		JWKSCacheTTL: Duration("JWKS_CACHE_TTL", 5*time.Minute),
		JWTSecret:    String("JWT_SECRET", "dev-secret"),
		Issuer:       String("TOKEN_ISSUER", ""),
		Audience:     String("TOKEN_AUDIENCE", ""),

		SessionTTL:      Duration("SESSION_TTL", 12*time.Hour),
		NotificationTTL: Duration("NOTIFICATION_TTL", 30*time.Second),

		RedisAddr:     String("REDIS_ADDR", ""),
		RedisPassword: String("REDIS_PASSWORD", ""),
		RedisDB:       Int("REDIS_DB", 0),

		KafkaBrokers:       String("KAFKA_BROKERS", ""),
		ActivityEventTopic: String("ACTIVITY_EVENT_TOPIC", "dashboard.activity.v1"),

		RateLimitPerMinute: Int("RATE_LIMIT_PER_MINUTE", 60),
		RateLimitFailOpen:  Bool("RATE_LIMIT_FAIL_OPEN", true),
		RateLimitPrefix:    String("RATE_LIMIT_PREFIX", "rl"),

		RequestBodyLimit: int64(Int("REQUEST_BODY_LIMIT_BYTES", 1<<20)),
		RequestTimeout:   Duration("REQUEST_TIMEOUT", 15*time.Second),

		CORSAllowedOrigins:   List("CORS_ALLOWED_ORIGINS", ""),
		CORSAllowedMethods:   List("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS"),
		CORSAllowedHeaders:   List("CORS_ALLOWED_HEADERS", "Authorization,Content-Type,X-Request-Id"),
		CORSAllowCredentials: Bool("CORS_ALLOW_CREDENTIALS", false),
		CORSMaxAge:           Duration("CORS_MAX_AGE", 10*time.Minute),
	}, nil
}

func String(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func RequiredString(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return v, nil
}

func Int(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func Bool(key string, fallback bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if v == "" {
		return fallback
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func Duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func Port(key, fallback string) (string, error) {
	v := String(key, fallback)
	p, err := strconv.Atoi(v)
	if err != nil || p < 1 || p > 65535 {
		return "", fmt.Errorf("%s must be a valid TCP port (got %q)", key, v)
	}
	return v, nil
}

func List(key, fallback string) []string {
	raw := String(key, fallback)
	items := strings.Split(raw, ",")
	out := make([]string, 0, len(items))
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
