package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"

	"bookshelf/internal/config"
	"bookshelf/internal/dataset"
	"bookshelf/internal/theme"
)

func main() {
	cfg := config.Get()
	path := flag.String("catalog", cfg.Catalog.Path, "dataset file (.json or .db)")
	themeName := flag.String("theme", "day", "initial theme: day or night")
	flag.Parse()

	logrus.SetLevel(logrus.WarnLevel)
	if cfg.CLI.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cat, err := dataset.Open(context.Background(), *path, cfg.Catalog.BooksPerPage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	sh := newShell(os.Stdout, cat, theme.Parse(*themeName), cfg.CLI.Debug)

	if flag.NArg() > 0 {
		sh.exec(strings.Join(flag.Args(), " "))
		return
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(sh.complete)

	if f, err := os.Open(cfg.CLI.HistoryFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(cfg.CLI.HistoryFile); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Printf("Bookshelf Interactive Shell (%d books). Type 'help'.\n", cat.Len())
	for {
		input, err := line.Prompt("bookshelf> ")
		if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return
		}
		if strings.TrimSpace(input) != "" {
			line.AppendHistory(input)
		}
		if !sh.exec(input) {
			return
		}
	}
}
