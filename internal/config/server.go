package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings holds the runtime configuration of the API server.
type Settings struct {
	Port        int
	Env         string
	LogLevel    string
	LogFormat   string
	TicketDir   string
	CORSOrigins []string

	// RedisAddr enables the redis result cache when non-empty.
	RedisAddr string
	ResultTTL time.Duration
}

// LoadSettings reads settings from environment variables with defaults.
func LoadSettings() Settings {
	return Settings{
		Port:        getEnvInt("API_PORT", 8080),
		Env:         getEnv("API_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		TicketDir:   getEnv("TICKET_DIR", "./examples/tickets"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
		RedisAddr:   getEnv("REDIS_ADDR", ""),
		ResultTTL:   getEnvDuration("RESULT_TTL", time.Hour),
	}
}

func (s Settings) IsProduction() bool {
	return s.Env == "production"
}

func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
