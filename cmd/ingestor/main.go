package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"visible_mx/internal/adapters/observability"
	redisad "visible_mx/internal/adapters/redis"
	"visible_mx/internal/adapters/source"
	"visible_mx/internal/app"
	"visible_mx/internal/shared"
	mysqlrepo "visible_mx/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.ContentBase).
		Int("workers", cfg.Workers).
		Msg("ingestor starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := source.New(cfg.ContentBase, cfg.ContentKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize content client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	ing := app.NewIngestionService(client, repo, cache)

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, doc := range ing.Docs() {
		doc := doc

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(doc string) {
			defer wg.Done()
			defer sem.Release(1)

			if err := ing.IngestDoc(ctx, doc); err != nil {
				log.Warn().Str("doc", doc).Err(err).Msg("ingest failed")
				return
			}
			log.Info().Str("doc", doc).Msg("ingest ok")
		}(doc)
	}

	wg.Wait()
	log.Info().Msg("ingestion completed")
}
