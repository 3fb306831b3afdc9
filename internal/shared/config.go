package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"visible_mx/internal/i18n"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MetricsAddr   string
	MySQLDSN      string
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	ContentBase   string
	ContentKey    string
	Workers       int
	CacheTTL      time.Duration
	SessionTTL    time.Duration
	DefaultLang   i18n.Language
	MenuCatalog   string
	MinOrderCents int64
	WhatsAppPhone string // digits only: country code + number
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ":9100"),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/visible?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		ContentBase:   env("CONTENT_BASE_URL", "https://content.visiblemx.com/v1"),
		ContentKey:    env("CONTENT_API_KEY", ""),
		Workers:       atoi("INGEST_WORKERS", 3),
		CacheTTL:      time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,
		SessionTTL:    time.Duration(atoi("SESSION_TTL_SECONDS", 86400)) * time.Second,
		MenuCatalog:   env("MENU_CATALOG", "tacos"),
		MinOrderCents: int64(atoi("MIN_ORDER_CENTS", 10000)), // $100 MXN
		WhatsAppPhone: env("WHATSAPP_PHONE", "5215555555555"),
	}
	lang, err := i18n.Parse(env("DEFAULT_LANG", string(i18n.Default)))
	if err != nil {
		log.Warn().Str("DEFAULT_LANG", os.Getenv("DEFAULT_LANG")).Msg("invalid default language, using es")
		lang = i18n.Default
	}
	c.DefaultLang = lang
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
