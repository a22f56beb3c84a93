package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"

	"bookshelf/internal/config"
	"bookshelf/internal/dataset"
	"bookshelf/internal/logger"
)

var (
	registry = prometheus.NewRegistry()

	importedBooks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bookshelf_importer_books_total",
		Help: "Books written to the SQLite catalog",
	}, []string{"dataset", "status"})

	importDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "bookshelf_importer_duration_seconds",
		Help:    "Time spent importing one dataset",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	registry.MustRegister(importedBooks, importDuration)
}

func main() {
	cfg := config.Get()
	src := flag.String("in", cfg.Catalog.Path, "source JSON dataset")
	dst := flag.String("out", "data/books.db", "target SQLite database")
	flag.Parse()

	log, closeLog, err := logger.Setup(cfg.Log)
	if err != nil {
		log.WithError(err).Fatal("failed to open log file")
	}
	defer closeLog()

	name := filepath.Base(*src)
	start := time.Now()
	err = run(context.Background(), *src, *dst, name)
	importDuration.Observe(time.Since(start).Seconds())

	if cfg.Metrics.PushgatewayURL != "" {
		if perr := push.New(cfg.Metrics.PushgatewayURL, "bookshelf_importer").
			Gatherer(registry).Grouping("dataset", name).Push(); perr != nil {
			log.WithError(perr).Warn("failed to push metrics")
		}
	}

	if err != nil {
		importedBooks.WithLabelValues(name, "error").Inc()
		log.WithError(err).WithFields(logrus.Fields{"in": *src, "out": *dst}).Fatal("import failed")
	}
	log.WithFields(logrus.Fields{"in": *src, "out": *dst, "took": time.Since(start)}).Info("import complete")
}

func run(ctx context.Context, src, dst, name string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	cat, err := dataset.LoadJSON(f)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	db, err := dataset.OpenSQLite(ctx, dst)
	if err != nil {
		return err
	}
	defer db.Close()

	bar := progressbar.Default(int64(cat.Len()), "importing "+name)
	defer bar.Finish()

	return db.Save(ctx, cat, func() {
		_ = bar.Add(1)
		importedBooks.WithLabelValues(name, "ok").Inc()
	})
}
