// Package config loads the server configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config is the complete server configuration. All values come from the
// environment, with development-friendly defaults.
type Config struct {
	// SecretKey signs all issued tokens. Changing it invalidates every
	// token in circulation.
	SecretKey string

	// AccessTokenTTL is the lifetime of issued access tokens.
	AccessTokenTTL time.Duration

	// DBConnString is the sqlite database path, ":memory:" for an
	// in-memory database.
	DBConnString string

	// APIURL is the URL of the API as reachable by clients, used in
	// generated documentation.
	APIURL string

	// CORSAllowOrigins are the origins allowed to call the API from a
	// browser. Empty means no cross-origin requests are allowed.
	CORSAllowOrigins []string
}

// Load reads the configuration from the environment. A .env file in the
// working directory is honored but not required.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	return Config{
		SecretKey:        getEnv("SECRET_KEY", "insecure-development-key"),
		AccessTokenTTL:   time.Duration(getEnvInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		DBConnString:     getEnv("DB_CONNECTION_STRING", "data/expensetrackr.db"),
		APIURL:           getEnv("API_URL", "http://localhost:8080/api"),
		CORSAllowOrigins: getEnvList("CORS_ALLOW_ORIGINS"),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Warn().Str("key", key).Str("value", value).Msg("environment variable is not a number, using default")
		return fallback
	}

	return parsed
}

func getEnvList(key string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return nil
	}

	fields := strings.Split(value, " ")
	origins := make([]string, 0, len(fields))
	for _, field := range fields {
		if field = strings.TrimSpace(field); field != "" {
			origins = append(origins, field)
		}
	}

	return origins
}
