package main

import (
	"context"
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"visible_mx/internal/adapters/analytics"
	server "visible_mx/internal/adapters/http_server"
	"visible_mx/internal/adapters/observability"
	redisad "visible_mx/internal/adapters/redis"
	"visible_mx/internal/app"
	"visible_mx/internal/i18n"
	"visible_mx/internal/shared"
	mysqlrepo "visible_mx/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	sessions := redisad.NewSessions(cache.Client(), cfg.SessionTTL)
	sink := analytics.Metrics{L: log.Logger}

	holder := i18n.NewHolder(ctx, cfg.DefaultLang, redisad.NewLangPref(cache.Client()))
	holder.Subscribe(func(lang i18n.Language) {
		log.Info().Str("lang", lang.String()).Msg("default language changed")
		sink.Event(ctx, "language_change", map[string]string{"lang": lang.String()})
	})

	q := app.NewQueryService(repo, cache, cfg.CacheTTL, cfg.MinOrderCents)
	carts := app.NewCartService(sessions, q, sink, cfg.MenuCatalog, cfg.WhatsAppPhone)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, Carts: carts, Sessions: sessions, Holder: holder})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
