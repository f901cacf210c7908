package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Settings struct {
	Env              string
	Port             string
	LogLevel         string
	DatabaseDSN      string
	GeminiAPIKey     string
	GeminiModel      string
	StorageDir       string
	CookieDomain     string
	CorsOrigins      []string
	RateLimitBackend string
	TimeZone         string
	SessionGrace     time.Duration
}

var App Settings

// Init loads the settings from the environment, reading a .env file first when one exists.
func Init() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.WithError(err).Warn("Could not read .env file")
	}

	App = Settings{
		Env:              getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DatabaseDSN:      os.Getenv("DATABASE_DSN"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		StorageDir:       getEnv("STORAGE_DIR", "./uploads"),
		CookieDomain:     os.Getenv("COOKIE_DOMAIN"),
		CorsOrigins:      splitList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		RateLimitBackend: getEnv("RATE_LIMIT_BACKEND", "memory"),
		TimeZone:         getEnv("TIME_ZONE", "America/Sao_Paulo"),
		SessionGrace:     getDuration("SESSION_GRACE", 30*time.Second),
	}

	initLogger(App)
}

func (s Settings) IsProduction() bool {
	return s.Env == "production"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		logrus.WithField("key", key).Warnf("Invalid duration %q, using %s", raw, fallback)
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
