package main

import (
	"context"
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"bookparse/internal/adapters/filestore"
	server "bookparse/internal/adapters/http_server"
	"bookparse/internal/adapters/observability"
	"bookparse/internal/adapters/pdftext"
	redisad "bookparse/internal/adapters/redis"
	"bookparse/internal/adapters/webhook"
	"bookparse/internal/app"
	"bookparse/internal/parse"
	"bookparse/internal/shared"
	mysqlrepo "bookparse/internal/storage/mysql"
)

// webhookNotifier bridges the app-level notification port onto the webhook client.
type webhookNotifier struct{ n *webhook.Notifier }

func (w webhookNotifier) Notify(ctx context.Context, ev app.ParseEvent) error {
	return w.n.Notify(ctx, webhook.Event{
		ReservationID: ev.ReservationID,
		DocumentID:    ev.DocumentID,
		Status:        ev.Status,
		FailureCode:   ev.FailureCode,
		Warnings:      ev.Warnings,
	})
}

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve(cfg.MetricsAddr)

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
	store, err := filestore.New(cfg.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("upload store init failed")
	}
	parser := parse.NewParser(pdftext.New())

	var notifier app.Notifier
	if wh := webhook.New(cfg.WebhookURL, cfg.WebhookKey, 5); wh != nil {
		notifier = webhookNotifier{n: wh}
	}

	q := app.NewQueryService(repo, cache, cfg.CacheTTL)
	rs := app.NewReservationService(repo, cache, store)
	ps := app.NewParseService(repo, cache, parser, notifier)

	// http
	srv := server.New(cfg.RateRPS)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Q: q, R: rs, P: ps}, cfg.APIKey)

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
