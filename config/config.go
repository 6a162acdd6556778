package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port            string
	Timezone        string
	DBPath          string
	DeviceEndpoint  string
	DeviceAPIKey    string
	DeviceTimeout   time.Duration
	CommitTimeout   time.Duration
	CommitRetries   int
	TemplatePaths   []string
	RequireOperator bool
}

// Load reads .env (when present) and then the process environment.
// Malformed numeric values fall back to their defaults with a warning.
func Load() AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}
	return FromEnv()
}

func FromEnv() AppConfig {
	get := func(k, def string) string {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
		return def
	}
	dur := func(k string, def time.Duration) time.Duration {
		v := get(k, "")
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			log.Printf("[cfg] %s=%q is not a positive duration, using %s", k, v, def)
			return def
		}
		return d
	}
	retries := 3
	if v := get("COMMIT_RETRIES", ""); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			log.Printf("[cfg] COMMIT_RETRIES=%q is not a non-negative integer, using %d", v, retries)
		} else {
			retries = n
		}
	}
	var paths []string
	for _, p := range strings.Split(get("TEMPLATE_PATHS", ""), ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}

	cfg := AppConfig{
		Port:            get("PORT", "8080"),
		Timezone:        get("TZ", "UTC"),
		DBPath:          get("DB_PATH", "farmops.db"),
		DeviceEndpoint:  strings.TrimRight(get("DEVICE_ENDPOINT", ""), "/"),
		DeviceAPIKey:    get("DEVICE_API_KEY", ""),
		DeviceTimeout:   dur("DEVICE_TIMEOUT", 10*time.Second),
		CommitTimeout:   dur("COMMIT_TIMEOUT", 5*time.Second),
		CommitRetries:   retries,
		TemplatePaths:   paths,
		RequireOperator: get("REQUIRE_OPERATOR", "false") == "true",
	}
	redacted := cfg
	if redacted.DeviceAPIKey != "" {
		redacted.DeviceAPIKey = "***"
	}
	log.Printf("[cfg] %+v", redacted)
	return cfg
}

// Location resolves Timezone, falling back to UTC.
func (c AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("[cfg] unknown TZ %q, using UTC", c.Timezone)
		return time.UTC
	}
	return loc
}
