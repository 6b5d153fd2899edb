package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/multierr"

	"github.com/angelmondragon/textilehouse-backend/internal/pricing"
	product "github.com/angelmondragon/textilehouse-backend/internal/products"
	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
	"github.com/angelmondragon/textilehouse-backend/pkg/logger"
)

type tierWriter interface {
	GetProductBySlug(ctx context.Context, slug string) (*product.Detail, error)
	ReplaceTiers(ctx context.Context, slug string, mode enums.PricingMode, raw []pricing.RawTier) (*product.Detail, []pricing.Rejected, error)
}

type importer struct {
	products tierWriter
	logg     *logger.Logger
	out      io.Writer
	dryRun   bool
}

type importSummary struct {
	Replaced  int
	Unchanged int
	Rejected  int
	Failed    int
}

// run applies every sheet and keeps going past failures so one bad product
// does not block the rest of the file.
func (im *importer) run(ctx context.Context, sheets []tierSheet) (importSummary, error) {
	var (
		summary importSummary
		errs    error
	)
	for _, sheet := range sheets {
		sheetCtx := im.logg.WithFields(im.logg.WithProductSlug(ctx, sheet.Slug), map[string]any{
			"mode": string(sheet.Mode),
			"rows": len(sheet.Rows),
		})
		outcome, rejected, err := im.apply(sheetCtx, sheet)
		summary.Rejected += rejected
		if err != nil {
			summary.Failed++
			im.logg.Error(sheetCtx, "tier import failed", err)
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", sheet.key(), err))
			continue
		}
		switch outcome {
		case outcomeUnchanged:
			summary.Unchanged++
		default:
			summary.Replaced++
		}
	}
	return summary, errs
}

type outcome int

const (
	outcomeUnchanged outcome = iota
	outcomeReplaced
)

func (im *importer) apply(ctx context.Context, sheet tierSheet) (outcome, int, error) {
	current, err := im.products.GetProductBySlug(ctx, sheet.Slug)
	if err != nil {
		return outcomeUnchanged, 0, err
	}
	next, rejected, err := pricing.Normalize(sheet.Rows)
	if err != nil {
		return outcomeUnchanged, len(rejected), err
	}
	for _, r := range rejected {
		fmt.Fprintf(im.out, "%s: dropped row %d (min=%v price=%v): %s\n", sheet.key(), r.Index+1, r.Min, r.Price, r.Reason)
	}

	before := current.Table(sheet.Mode)
	if before.Equal(next) {
		fmt.Fprintf(im.out, "%s: unchanged (%d tiers)\n", sheet.key(), next.Len())
		return outcomeUnchanged, len(rejected), nil
	}

	if im.dryRun {
		fmt.Fprintf(im.out, "%s: would replace %s with %s\n", sheet.key(), formatTable(before), formatTable(next))
		return outcomeReplaced, len(rejected), nil
	}

	if _, _, err := im.products.ReplaceTiers(ctx, sheet.Slug, sheet.Mode, sheet.Rows); err != nil {
		return outcomeUnchanged, len(rejected), err
	}
	fmt.Fprintf(im.out, "%s: replaced %s with %s\n", sheet.key(), formatTable(before), formatTable(next))
	im.logg.Info(ctx, "tiers replaced")
	return outcomeReplaced, len(rejected), nil
}

func formatTable(table pricing.Table) string {
	if table.IsEmpty() {
		return "[]"
	}
	parts := make([]string, 0, table.Len())
	for _, tier := range table.Tiers() {
		parts = append(parts, fmt.Sprintf("%d+@%s", tier.MinQuantity, tier.UnitPrice.String()))
	}
	return "[" + strings.Join(parts, " ") + "]"
}
