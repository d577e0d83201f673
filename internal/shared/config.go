package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string

	RedisAddr string
	RedisDB   int
	RedisPass string

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioSecure    bool
	PhotoBaseURL   string // public base for served photos; derived from the endpoint when empty

	AdminEmails []string

	RateLimitMax    int
	RateLimitWindow time.Duration
	StatsCacheTTL   time.Duration
}

func Load() Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/nevado?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		MinioEndpoint:  env("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: env("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: env("MINIO_SECRET_KEY", ""),
		MinioBucket:    env("MINIO_BUCKET", "guest-photos"),
		MinioSecure:    env("MINIO_SECURE", "false") == "true",
		PhotoBaseURL:   env("PHOTO_BASE_URL", ""),

		RateLimitMax:    atoi("RATE_LIMIT_MAX", 100),
		RateLimitWindow: time.Duration(atoi("RATE_LIMIT_WINDOW_MS", 60_000)) * time.Millisecond,
		StatsCacheTTL:   time.Duration(atoi("STATS_CACHE_TTL_SECONDS", 300)) * time.Second,
	}

	admins := env("ADMIN_EMAILS", "contacto@cabanasoldelnevado.cl,admin@cabanasoldelnevado.cl")
	for _, e := range strings.Split(admins, ",") {
		if e = strings.TrimSpace(e); e != "" {
			c.AdminEmails = append(c.AdminEmails, e)
		}
	}
	if len(c.AdminEmails) == 0 {
		log.Warn().Msg("ADMIN_EMAILS is empty; all mutations will be rejected")
	}
	if c.MinioAccessKey == "" {
		log.Warn().Msg("MINIO_ACCESS_KEY is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
