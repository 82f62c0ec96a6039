package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DatabaseURL        string
	JWTSecret          string
	AllowOrigins       []string
	LogstashTCPAddr    string
	ScorerBaseURL      string
	ScorerTimeout      time.Duration
	KeywordCatalogPath string
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	scorerTimeout := 10 * time.Second
	if raw := os.Getenv("SCORER_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			scorerTimeout = d
		}
	}

	return Config{
		Port:               getenv("PORT", "8080"),
		DatabaseURL:        must("DATABASE_URL"),
		JWTSecret:          must("JWT_SECRET"),
		AllowOrigins:       splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		LogstashTCPAddr:    getenv("LOGSTASH_TCP_ADDR", ""),
		ScorerBaseURL:      getenv("SCORER_BASE_URL", "http://localhost:8081"),
		ScorerTimeout:      scorerTimeout,
		KeywordCatalogPath: getenv("KEYWORD_CATALOG_PATH", ""),
	}
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
