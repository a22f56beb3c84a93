package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"bookshelf/internal/config"
	"bookshelf/internal/dataset"
	"bookshelf/internal/logger"
	"bookshelf/internal/rpc"
	"bookshelf/internal/search"
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

	addr := cfg.Datamanager.Address()
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		log.WithError(err).WithField("addr", addr).Fatal("failed to listen")
	}

	srv, hs := rpc.NewServer(search.New(cat), log)

	go func() {
		<-ctx.Done()
		log.Info("shutting down")
		hs.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
		srv.GracefulStop()
	}()

	log.WithField("addr", addr).WithField("books", cat.Len()).Info("datamanager started")
	if err := srv.Serve(lis); err != nil {
		log.WithError(err).Fatal("grpc server stopped")
	}
}
