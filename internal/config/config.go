package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds process configuration read from the environment.
type Config struct {
	Port           string
	BackendURL     string
	BackendTimeout time.Duration

	SessionSecret       string
	SessionTTL          time.Duration
	SessionRefreshAfter time.Duration
	CookieSecure        bool

	RoutesFile  string
	FrontendURL string
	PushToken   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	Database   string

	AuthRateRPS    float64
	AuthRateBurst  int
	TrustedProxies []string

	LogLevel     string
	LogstashAddr string
}

// Load reads the configuration. Unset or unparsable values fall back to defaults.
func Load() Config {
	port := getenv("PORT", ":8080")
	if !strings.Contains(port, ":") {
		port = ":" + port
	}

	return Config{
		Port:           port,
		BackendURL:     strings.TrimRight(getenv("BACKEND_URL", "http://localhost:5000/api"), "/"),
		BackendTimeout: getduration("BACKEND_TIMEOUT", 15*time.Second),

		SessionSecret:       os.Getenv("SESSION_SECRET"),
		SessionTTL:          getduration("SESSION_TTL", 7*24*time.Hour),
		SessionRefreshAfter: getduration("SESSION_REFRESH_AFTER", 30*time.Minute),
		CookieSecure:        os.Getenv("COOKIE_SECURE") == "true",

		RoutesFile:  os.Getenv("ROUTES_FILE"),
		FrontendURL: os.Getenv("FRONTEND_URL"),
		PushToken:   os.Getenv("INTERNAL_PUSH_TOKEN"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getint("REDIS_DB", 0),

		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     getenv("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		Database:   getenv("DATABASE", "devlink.db"),

		AuthRateRPS:    getfloat("AUTH_RATE_RPS", 1),
		AuthRateBurst:  getint("AUTH_RATE_BURST", 5),
		TrustedProxies: getlist("TRUSTED_PROXIES"),

		LogLevel:     getenv("LOG_LEVEL", "warn"),
		LogstashAddr: os.Getenv("LOGSTASH_ADDR"),
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getlist(k string) []string {
	var out []string
	for _, v := range strings.Split(os.Getenv(k), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getduration(k string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(k))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func getint(k string, def int) int {
	n, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return def
	}
	return n
}

func getfloat(k string, def float64) float64 {
	f, err := strconv.ParseFloat(os.Getenv(k), 64)
	if err != nil || f <= 0 {
		return def
	}
	return f
}
