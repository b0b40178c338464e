package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type SessionBackend string

const (
	SessionMemory SessionBackend = "memory"
	SessionFile   SessionBackend = "file"
	SessionRedis  SessionBackend = "redis"
)

type Config struct {
	UsersServiceURL    string
	ProductsServiceURL string
	SalesServiceURL    string

	// Overall and dial timeouts for calls to the backend services.
	RequestTimeout time.Duration
	DialTimeout    time.Duration

	BreakerFailures uint32
	BreakerTimeout  time.Duration

	SessionBackend SessionBackend
	SessionFile    string
	SessionProfile string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	HTTPPort        string
	HandlerTimeout  time.Duration
	ShutdownTimeout time.Duration

	LogLevel  string
	LogFormat string

	PreloadCatalog bool
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(envFiles ...string) *Config {
	_ = godotenv.Load(envFiles...)

	return &Config{
		UsersServiceURL:    getEnv("USERS_SERVICE_URL", "http://localhost:5001"),
		ProductsServiceURL: getEnv("PRODUCTS_SERVICE_URL", "http://localhost:5002"),
		SalesServiceURL:    getEnv("SALES_SERVICE_URL", "http://localhost:5003"),

		RequestTimeout: getDuration("REQUEST_TIMEOUT", 60*time.Second),
		DialTimeout:    getDuration("DIAL_TIMEOUT", 60*time.Second),

		BreakerFailures: uint32(getInt("BREAKER_FAILURES", 5)),
		BreakerTimeout:  getDuration("BREAKER_TIMEOUT", 30*time.Second),

		SessionBackend: SessionBackend(getEnv("SESSION_BACKEND", string(SessionFile))),
		SessionFile:    getEnv("SESSION_FILE", "tienda_prefs.json"),
		SessionProfile: getEnv("SESSION_PROFILE", "default"),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getInt("REDIS_DB", 0),

		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		HandlerTimeout:  getDuration("HANDLER_TIMEOUT", 90*time.Second),
		ShutdownTimeout: 10 * time.Second,

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		PreloadCatalog: getBool("PRELOAD_CATALOG", true),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return defaultValue
}

// getDuration accepts Go durations ("45s") or plain seconds ("45").
func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
