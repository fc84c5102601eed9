package main

import (
	"context"
	"database/sql"
	"flag"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"bookparse/internal/adapters/observability"
	"bookparse/internal/adapters/pdftext"
	redisad "bookparse/internal/adapters/redis"
	"bookparse/internal/app"
	"bookparse/internal/parse"
	"bookparse/internal/shared"
	mysqlrepo "bookparse/internal/storage/mysql"
)

func main() {
	limit := flag.Int("limit", 100, "max pending documents to parse in one run")
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()

	// initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Int("workers", cfg.Workers).
		Int("limit", *limit).
		Msg("batch parser starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	parser := parse.NewParser(pdftext.New())
	svc := app.NewParseService(repo, cache, parser, nil)

	docs, err := repo.ListPendingDocuments(ctx, *limit)
	if err != nil {
		log.Fatal().Err(err).Msg("list pending documents failed")
	}
	if len(docs) == 0 {
		log.Info().Msg("nothing to parse")
		return
	}

	ids := make([]int64, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}

	items := svc.ParseBatch(ctx, ids, cfg.Workers)

	var ok, partial, failed int
	for _, it := range items {
		switch {
		case it.Err != "":
			failed++
			log.Warn().Int64("document_id", it.DocumentID).Str("err", it.Err).Msg("parse errored")
		case it.Status == parse.StatusSuccess:
			ok++
		case it.Status == parse.StatusPartial:
			partial++
		default:
			failed++
		}
	}
	log.Info().
		Int("total", len(items)).
		Int("success", ok).
		Int("partial", partial).
		Int("failed", failed).
		Msg("batch parse completed")
}
