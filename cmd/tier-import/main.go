// Command tier-import loads product price tiers from a CSV sheet with the
// columns slug,mode,min,price and replaces each listed (product, mode)
// tier table.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	product "github.com/angelmondragon/textilehouse-backend/internal/products"
	"github.com/angelmondragon/textilehouse-backend/pkg/config"
	"github.com/angelmondragon/textilehouse-backend/pkg/db"
	"github.com/angelmondragon/textilehouse-backend/pkg/logger"
)

func main() {
	file := flag.String("file", "", "path to the tier CSV (- for stdin)")
	dryRun := flag.Bool("dry-run", false, "print the changes without writing them")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "tier-import"})
	_ = godotenv.Load()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "missing -file")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "tier-import",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"file":    *file,
		"dry_run": *dryRun,
	})

	in, closeIn, err := openInput(*file)
	if err != nil {
		logg.Error(ctx, "failed to open tier sheet", err)
		os.Exit(1)
	}
	sheets, err := readSheets(in)
	closeIn()
	if err != nil {
		logg.Error(ctx, "failed to read tier sheet", err)
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	products, err := product.NewService(product.NewRepository(dbClient.DB()), dbClient, logg)
	if err != nil {
		logg.Error(ctx, "failed to create product service", err)
		os.Exit(1)
	}

	im := &importer{products: products, logg: logg, out: os.Stdout, dryRun: *dryRun}
	summary, err := im.run(ctx, sheets)
	fmt.Printf("replaced=%d unchanged=%d failed=%d rows_dropped=%d\n",
		summary.Replaced, summary.Unchanged, summary.Failed, summary.Rejected)
	if err != nil {
		logg.Error(ctx, "tier import finished with errors", err)
		os.Exit(1)
	}
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}
