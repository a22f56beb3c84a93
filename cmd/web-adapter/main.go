package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookshelf/internal/config"
	"bookshelf/internal/dataset"
	"bookshelf/internal/logger"
	"bookshelf/internal/search"
	"bookshelf/internal/session"
	"bookshelf/internal/web"
)

func main() {
	cfg := config.Get()

	log, closeLog, err := logger.Setup(cfg.Log)
	if err != nil {
		log.WithError(err).Fatal("failed to open log file")
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := dataset.Open(ctx, cfg.Catalog.Path, cfg.Catalog.BooksPerPage)
	if err != nil {
		log.WithError(err).WithField("path", cfg.Catalog.Path).Fatal("failed to load catalog")
	}
	log.WithField("books", cat.Len()).WithField("per_page", cat.BooksPerPage()).Info("catalog loaded")

	store := session.NewStore(cat, cfg.Sessions.TTL)
	go store.Run(ctx, cfg.Sessions.Sweep)

	srv, err := web.New(log, store, search.New(cat), web.Options{
		RateRPS:   cfg.RateLimit.RPS,
		RateBurst: cfg.RateLimit.Burst,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to build web server")
	}

	addr := cfg.WebAdapter.Address()
	server := &http.Server{
		Addr:              addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithField("addr", addr).Info("web adapter started")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("failed to start web server")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
