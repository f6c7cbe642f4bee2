package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/quizdeck/backend/internal/importer"
	"github.com/quizdeck/backend/internal/infrastructure/config"
	"github.com/quizdeck/backend/internal/store"
)

const themesShown = 10

func main() {
	file := flag.String("file", "questions.json", "JSON file with the questions to import")
	yes := flag.Bool("yes", false, "replace existing questions without asking")
	flag.Parse()

	cfg := config.Load()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, *file, *yes); err != nil {
		if errors.Is(err, importer.ErrCancelled) {
			fmt.Println("Import cancelled.")
			return
		}
		logger.Error("import failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, file string, yes bool) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := importer.ReadRecords(f)
	if err != nil {
		return err
	}

	db, err := store.Open(cfg.DBDriver, cfg.DatabasePath, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	confirm := func(existing int) bool {
		if yes {
			return true
		}
		fmt.Printf("The database already holds %d questions. Replace them? (y/n): ", existing)
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		return strings.EqualFold(strings.TrimSpace(answer), "y")
	}

	logger.Info("importing questions", "file", file, "records", len(records))
	sum, err := importer.New(db, logger).Run(ctx, records, confirm)
	if err != nil {
		return err
	}

	fmt.Printf("\n%d questions imported (%d skipped).\n", sum.Imported, sum.Skipped)
	fmt.Printf("Total questions: %d\n", sum.Total)
	fmt.Printf("Themes: %d\n", len(sum.Themes))
	shown := sum.Themes
	if len(shown) > themesShown {
		shown = shown[:themesShown]
	}
	names := make([]string, len(shown))
	for i, t := range shown {
		if r := []rune(t); len(r) > 50 {
			t = string(r[:50])
		}
		names[i] = t
	}
	fmt.Printf("First themes: %s\n", strings.Join(names, ", "))
	return nil
}
