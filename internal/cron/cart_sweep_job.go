package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/textilehouse-backend/internal/cart"
	"github.com/angelmondragon/textilehouse-backend/pkg/logger"
)

const defaultCartIdleTTL = 24 * time.Hour

type cartSweeper interface {
	SweepIdle(ctx context.Context, cutoff time.Time) (cart.SweepResult, error)
}

type CartSweepJobParams struct {
	Logger  *logger.Logger
	Carts   cartSweeper
	IdleTTL time.Duration
}

// NewCartSweepJob evicts carts untouched for IdleTTL.
func NewCartSweepJob(params CartSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	ttl := params.IdleTTL
	if ttl <= 0 {
		ttl = defaultCartIdleTTL
	}
	return &cartSweepJob{
		logg:    params.Logger,
		carts:   params.Carts,
		idleTTL: ttl,
		now:     time.Now,
	}, nil
}

type cartSweepJob struct {
	logg    *logger.Logger
	carts   cartSweeper
	idleTTL time.Duration
	now     func() time.Time
}

func (j *cartSweepJob) Name() string { return "cart-sweep" }

func (j *cartSweepJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.idleTTL)
	result, err := j.carts.SweepIdle(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("cart sweep: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":        cutoff,
		"carts_scanned": result.Scanned,
		"carts_removed": result.Removed,
		"carts_skipped": result.Skipped,
	})
	j.logg.Info(logCtx, "cart sweep complete")
	return nil
}
