package cart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/textilehouse-backend/internal/pricing"
	product "github.com/angelmondragon/textilehouse-backend/internal/products"
	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/textilehouse-backend/pkg/errors"
	"github.com/angelmondragon/textilehouse-backend/pkg/lock"
	"github.com/angelmondragon/textilehouse-backend/pkg/logger"
	"github.com/angelmondragon/textilehouse-backend/pkg/metrics"
)

const defaultSweepBatch = 200

// Service exposes session cart operations. Every mutation runs under the
// session's lock so concurrent requests for one session never interleave.
type Service interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (*Cart, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity *int) (*Cart, error)
	UpdateItem(ctx context.Context, sessionID string, productID uuid.UUID, input UpdateItemInput) (*Cart, error)
	RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*Cart, error)
	Clear(ctx context.Context, sessionID string) error
	SweepIdle(ctx context.Context, cutoff time.Time) (SweepResult, error)
}

// AddItemInput is an add-to-cart request. ClientPrice and ClientTiers are
// accepted from older clients but never used for pricing.
type AddItemInput struct {
	ProductID   uuid.UUID
	Quantity    *int
	Mode        string
	ClientPrice *decimal.Decimal
	ClientTiers []pricing.RawTier
}

// UpdateItemInput is a quantity change for one line. ClientPrice and
// ClientTiers are compared with the snapshot and logged, never applied.
type UpdateItemInput struct {
	Quantity    *int
	ClientPrice *decimal.Decimal
	ClientTiers []pricing.RawTier
}

// SweepResult summarizes one idle-cart sweep.
type SweepResult struct {
	Scanned int
	Removed int
	Skipped int
}

// ServiceParams wires the cart service.
type ServiceParams struct {
	Store      Store
	Locker     lock.Locker
	Products   product.Reader
	Rounding   pricing.Rounding
	Metrics    *metrics.PricingMetrics
	Logger     *logger.Logger
	SweepBatch int
	Now        func() time.Time
}

type service struct {
	store      Store
	locker     lock.Locker
	products   product.Reader
	rounding   pricing.Rounding
	metrics    *metrics.PricingMetrics
	logg       *logger.Logger
	sweepBatch int
	now        func() time.Time
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if params.Locker == nil {
		return nil, fmt.Errorf("cart locker required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	rounding := params.Rounding
	if rounding == "" {
		rounding = pricing.RoundHalfUp
	}
	batch := params.SweepBatch
	if batch <= 0 {
		batch = defaultSweepBatch
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		store:      params.Store,
		locker:     params.Locker,
		products:   params.Products,
		rounding:   rounding,
		metrics:    params.Metrics,
		logg:       params.Logger,
		sweepBatch: batch,
		now:        func() time.Time { return now().UTC() },
	}, nil
}

// Get returns the session cart, or an unsaved empty cart.
func (s *service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	cart, ok, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if !ok {
		return New(sessionID, s.now()), nil
	}
	return cart, nil
}

// AddItem snapshots the product's tiers and base price for the requested
// mode. Adding a product already in the cart adds to its quantity and
// refreshes the snapshot.
func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*Cart, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "productId is required")
	}
	if input.Quantity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity is required")
	}
	if *input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive").
			WithDetails(map[string]any{"quantity": *input.Quantity})
	}

	detail, err := s.products.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !detail.Product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	mode := enums.NormalizePricingMode(input.Mode)
	ctx = s.logg.WithProductSlug(s.logg.WithSessionID(ctx, sessionID), detail.Product.Slug)

	return s.mutate(ctx, "add", sessionID, true, func(cart *Cart, now time.Time) error {
		if cart.Currency != "" && cart.Currency != detail.Product.Currency {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "cart is priced in %s, product in %s", cart.Currency, detail.Product.Currency)
		}

		quantity := *input.Quantity
		line, exists := cart.Line(input.ProductID)
		if exists {
			quantity += line.Quantity
		} else {
			cart.Items = append(cart.Items, LineItem{ProductID: input.ProductID, AddedAt: now})
			line = &cart.Items[len(cart.Items)-1]
		}
		line.Slug = detail.Product.Slug
		line.Name = detail.Product.Name
		line.Mode = mode
		line.BasePrice = detail.Fallback(mode)
		line.PriceTiers = detail.Table(mode).Tiers()
		line.UpdatedAt = now
		line.Reprice(quantity, s.rounding)

		s.checkClientPricing(ctx, line, input.ClientPrice, input.ClientTiers)
		cart.Currency = detail.Product.Currency
		cart.Recalculate(s.rounding)
		return nil
	})
}

// UpdateQuantity reprices a line from its snapshot. Zero or less removes it.
func (s *service) UpdateQuantity(ctx context.Context, sessionID string, productID uuid.UUID, quantity *int) (*Cart, error) {
	return s.UpdateItem(ctx, sessionID, productID, UpdateItemInput{Quantity: quantity})
}

func (s *service) UpdateItem(ctx context.Context, sessionID string, productID uuid.UUID, input UpdateItemInput) (*Cart, error) {
	if err := validateSession(sessionID); err != nil {
		return nil, err
	}
	if input.Quantity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity is required")
	}
	op := "update"
	if *input.Quantity <= 0 {
		op = "remove"
	}
	ctx = s.logg.WithSessionID(ctx, sessionID)
	return s.mutate(ctx, op, sessionID, false, func(cart *Cart, now time.Time) error {
		if err := RepriceLine(cart, productID, input.Quantity, s.rounding, now); err != nil {
			return err
		}
		if line, ok := cart.Line(productID); ok {
			s.checkClientPricing(s.logg.WithProductSlug(ctx, line.Slug), line, input.ClientPrice, input.ClientTiers)
		}
		return nil
	})
}

func (s *service) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (*Cart, error) {
	zero := 0
	return s.UpdateQuantity(ctx, sessionID, productID, &zero)
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if err := validateSession(sessionID); err != nil {
		return err
	}
	err := s.locker.WithLock(ctx, sessionID, func(ctx context.Context) error {
		if err := s.store.Delete(ctx, sessionID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		s.recordLockBusy("clear", err)
		return err
	}
	s.metrics.IncCartMutation("clear")
	return nil
}

// SweepIdle deletes carts not updated since cutoff. A cart whose lock is
// held is skipped, and UpdatedAt is re-read under the lock so a cart
// touched after it was listed survives.
func (s *service) SweepIdle(ctx context.Context, cutoff time.Time) (SweepResult, error) {
	var result SweepResult
	for {
		ids, err := s.store.ListIdle(ctx, cutoff, s.sweepBatch)
		if err != nil {
			return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list idle carts")
		}
		removed := 0
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return result, err
			}
			result.Scanned++
			ran, err := s.locker.TryWithLock(ctx, id, func(ctx context.Context) error {
				cart, ok, err := s.store.Load(ctx, id)
				if err != nil {
					return err
				}
				if ok && cart.UpdatedAt.After(cutoff) {
					return nil
				}
				if err := s.store.Delete(ctx, id); err != nil {
					return err
				}
				removed++
				return nil
			})
			if err != nil {
				return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sweep cart")
			}
			if !ran {
				result.Skipped++
			}
		}
		result.Removed += removed
		if removed == 0 || len(ids) < s.sweepBatch {
			break
		}
	}
	s.metrics.AddCartsSwept(result.Removed)
	return result, nil
}

// mutate runs fn on the session cart under its lock and saves the result.
// When create is false a missing cart is NotFound.
func (s *service) mutate(ctx context.Context, op, sessionID string, create bool, fn func(cart *Cart, now time.Time) error) (*Cart, error) {
	var out *Cart
	err := s.locker.WithLock(ctx, sessionID, func(ctx context.Context) error {
		cart, ok, err := s.store.Load(ctx, sessionID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		now := s.now()
		if !ok {
			if !create {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			cart = New(sessionID, now)
		}
		if err := fn(cart, now); err != nil {
			return err
		}
		cart.touch(now)
		if err := s.store.Save(ctx, cart); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
		}
		out = cart
		return nil
	})
	if err != nil {
		s.recordLockBusy(op, err)
		return nil, err
	}
	s.metrics.IncCartMutation(op)
	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{
		"op":         op,
		"item_count": out.ItemCount,
		"subtotal":   out.Subtotal.String(),
	}), "cart.updated")
	return out, nil
}

// checkClientPricing logs when a client sent a price or tier table that
// disagrees with the catalog. The catalog always wins.
func (s *service) checkClientPricing(ctx context.Context, line *LineItem, clientPrice *decimal.Decimal, clientTiers []pricing.RawTier) {
	if clientPrice != nil && !clientPrice.Equal(line.Price) {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"client_price":  clientPrice.String(),
			"catalog_price": line.Price.String(),
		}), "cart.client_price_ignored")
	}
	if clientTiers == nil {
		return
	}
	clientTable, _, err := pricing.Normalize(clientTiers)
	snapshot, snapErr := pricing.NewTable(line.PriceTiers)
	if err != nil || snapErr != nil || !clientTable.Equal(snapshot) {
		s.logg.Warn(s.logg.WithField(ctx, "client_tiers", len(clientTiers)), "cart.client_tiers_ignored")
	}
}

func (s *service) recordLockBusy(op string, err error) {
	if errors.Is(err, lock.ErrBusy) {
		s.metrics.IncLockBusy(op)
	}
}

func validateSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	return nil
}
