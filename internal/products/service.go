package product

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/textilehouse-backend/internal/pricing"
	"github.com/angelmondragon/textilehouse-backend/pkg/db"
	"github.com/angelmondragon/textilehouse-backend/pkg/db/models"
	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/textilehouse-backend/pkg/errors"
	"github.com/angelmondragon/textilehouse-backend/pkg/logger"
	"github.com/angelmondragon/textilehouse-backend/pkg/pagination"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Reader is the read side of the catalog used by quoting and carts.
type Reader interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*Detail, error)
	GetProductBySlug(ctx context.Context, slug string) (*Detail, error)
}

// Service exposes catalog operations.
type Service interface {
	Reader
	CreateProduct(ctx context.Context, input CreateProductInput) (*Detail, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*Detail, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	ReplaceTiers(ctx context.Context, slug string, mode enums.PricingMode, raw []pricing.RawTier) (*Detail, []pricing.Rejected, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     *Repository
	dbClient txRunner
	logg     *logger.Logger
}

// NewService builds the catalog service.
func NewService(repo *Repository, dbClient txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, dbClient: dbClient, logg: logg}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*Detail, error) {
	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if !slugPattern.MatchString(slug) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug must be lowercase letters, digits and dashes").
			WithDetails(map[string]any{"slug": input.Slug})
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if err := validateAttributes(input.Category, input.Unit, input.Currency); err != nil {
		return nil, err
	}
	if err := validatePrice("base_price", input.BasePrice); err != nil {
		return nil, err
	}
	if input.WholesaleBasePrice != nil {
		if err := validatePrice("wholesale_base_price", *input.WholesaleBasePrice); err != nil {
			return nil, err
		}
	}

	ctx = s.logg.WithProductSlug(ctx, slug)
	retail, err := s.normalize(ctx, enums.PricingModeRetail, input.RetailTiers)
	if err != nil {
		return nil, err
	}
	wholesale, err := s.normalize(ctx, enums.PricingModeWholesale, input.WholesaleTiers)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Slug:        slug,
		Name:        name,
		Description: trimPtr(input.Description),
		Category:    input.Category,
		Unit:        input.Unit,
		Colors:      cleanColors(input.Colors),
		Currency:    input.Currency,
		BasePrice:   input.BasePrice,
		IsActive:    true,
	}
	if input.WholesaleBasePrice != nil {
		product.WholesaleBasePrice = decimal.NewNullDecimal(*input.WholesaleBasePrice)
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.CreateProduct(ctx, product); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "slug already in use").WithDetails(map[string]any{"slug": slug})
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
		}
		return writeTables(ctx, txRepo, product.ID, map[enums.PricingMode]pricing.Table{
			enums.PricingModeRetail:    retail,
			enums.PricingModeWholesale: wholesale,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "product_id", product.ID.String()), "product.created")
	return s.GetProduct(ctx, product.ID)
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*Detail, error) {
	existing, err := s.load(ctx, func() (*models.Product, error) { return s.repo.FindByID(ctx, id) })
	if err != nil {
		return nil, err
	}
	ctx = s.logg.WithProductSlug(ctx, existing.Product.Slug)

	product := existing.Product
	if err := applyUpdate(&product, input); err != nil {
		return nil, err
	}
	if err := validateAttributes(product.Category, product.Unit, product.Currency); err != nil {
		return nil, err
	}

	// Only the supplied tables are written so a concurrent write to the
	// other mode is never overwritten with this request's stale copy.
	changed := map[enums.PricingMode]pricing.Table{}
	if input.RetailTiers != nil {
		table, err := s.normalize(ctx, enums.PricingModeRetail, *input.RetailTiers)
		if err != nil {
			return nil, err
		}
		changed[enums.PricingModeRetail] = table
	}
	if input.WholesaleTiers != nil {
		table, err := s.normalize(ctx, enums.PricingModeWholesale, *input.WholesaleTiers)
		if err != nil {
			return nil, err
		}
		changed[enums.PricingModeWholesale] = table
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		product.PriceTiers = nil
		if err := txRepo.UpdateProduct(ctx, &product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
		}
		return writeTables(ctx, txRepo, product.ID, changed)
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithField(ctx, "tiers_replaced", len(changed)), "product.updated")
	return s.GetProduct(ctx, id)
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	var removed int64
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := s.repo.WithTx(tx).DeleteProduct(ctx, id)
		removed = rows
		return err
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete product")
	}
	if removed == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", id.String()), "product.deleted")
	return nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*Detail, error) {
	return s.load(ctx, func() (*models.Product, error) { return s.repo.FindByID(ctx, id) })
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*Detail, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	return s.load(ctx, func() (*models.Product, error) { return s.repo.FindBySlug(ctx, slug) })
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	rows, err := s.repo.List(ctx, listQuery{
		category:        input.Category,
		includeInactive: input.IncludeInactive,
		cursor:          cursor,
		limit:           pagination.LimitWithBuffer(limit),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	page, more := pagination.Trim(rows, limit)
	result := &ProductListResult{Products: make([]Detail, 0, len(page))}
	for i := range page {
		detail, err := toDetail(&page[i])
		if err != nil {
			return nil, err
		}
		result.Products = append(result.Products, *detail)
	}
	if more {
		last := page[len(page)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

// ReplaceTiers rewrites one mode's tier table of the product named by slug.
// The other mode's rows are left alone.
func (s *service) ReplaceTiers(ctx context.Context, slug string, mode enums.PricingMode, raw []pricing.RawTier) (*Detail, []pricing.Rejected, error) {
	if !mode.IsValid() {
		return nil, nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid pricing mode %q", mode)
	}
	existing, err := s.GetProductBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	ctx = s.logg.WithProductSlug(ctx, existing.Product.Slug)

	table, rejected, err := pricing.Normalize(raw)
	s.logRejected(ctx, mode, rejected)
	if err != nil {
		return nil, rejected, err
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return writeTables(ctx, s.repo.WithTx(tx), existing.Product.ID, map[enums.PricingMode]pricing.Table{mode: table})
	})
	if err != nil {
		return nil, rejected, err
	}

	detail, err := s.GetProduct(ctx, existing.Product.ID)
	return detail, rejected, err
}

func (s *service) load(ctx context.Context, find func() (*models.Product, error)) (*Detail, error) {
	product, err := find()
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}
	return toDetail(product)
}

// normalize turns raw rows into a table, logging every dropped row.
func (s *service) normalize(ctx context.Context, mode enums.PricingMode, raw []pricing.RawTier) (pricing.Table, error) {
	table, rejected, err := pricing.Normalize(raw)
	s.logRejected(ctx, mode, rejected)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return pricing.Table{}, typed.WithDetails(map[string]any{"mode": mode, "tiers": typed.Details()})
		}
		return pricing.Table{}, err
	}
	return table, nil
}

func (s *service) logRejected(ctx context.Context, mode enums.PricingMode, rejected []pricing.Rejected) {
	if len(rejected) == 0 {
		return
	}
	ctx = s.logg.WithPricingMode(ctx, string(mode))
	for _, row := range rejected {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"index":  row.Index,
			"min":    row.Min,
			"price":  row.Price,
			"reason": row.Reason,
		}), "pricing.tier_row_dropped")
	}
}

func toDetail(product *models.Product) (*Detail, error) {
	retail, err := tableFromRows(product.TiersFor(enums.PricingModeRetail))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stored retail tiers invalid")
	}
	wholesale, err := tableFromRows(product.TiersFor(enums.PricingModeWholesale))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stored wholesale tiers invalid")
	}
	return &Detail{Product: *product, Retail: retail, Wholesale: wholesale}, nil
}

func tableFromRows(rows []models.ProductPriceTier) (pricing.Table, error) {
	tiers := make([]pricing.Tier, 0, len(rows))
	for _, row := range rows {
		tiers = append(tiers, pricing.Tier{MinQuantity: row.MinQty, UnitPrice: row.UnitPrice})
	}
	return pricing.NewTable(tiers)
}

func writeTables(ctx context.Context, repo *Repository, productID uuid.UUID, tables map[enums.PricingMode]pricing.Table) error {
	for _, mode := range enums.PricingModes() {
		table, ok := tables[mode]
		if !ok {
			continue
		}
		if err := repo.ReplaceTiers(ctx, productID, mode, tierRows(table)); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write price tiers").WithDetails(map[string]any{"mode": mode})
		}
	}
	return nil
}

func tierRows(table pricing.Table) []models.ProductPriceTier {
	rows := make([]models.ProductPriceTier, 0, table.Len())
	for _, tier := range table.Tiers() {
		rows = append(rows, models.ProductPriceTier{MinQty: tier.MinQuantity, UnitPrice: tier.UnitPrice})
	}
	return rows
}

func applyUpdate(product *models.Product, input UpdateProductInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = trimPtr(input.Description)
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Unit != nil {
		product.Unit = *input.Unit
	}
	if input.Colors != nil {
		product.Colors = cleanColors(*input.Colors)
	}
	if input.Currency != nil {
		product.Currency = *input.Currency
	}
	if input.BasePrice != nil {
		if err := validatePrice("base_price", *input.BasePrice); err != nil {
			return err
		}
		product.BasePrice = *input.BasePrice
	}
	if input.ClearWholesaleBasePrice {
		product.WholesaleBasePrice = decimal.NullDecimal{}
	} else if input.WholesaleBasePrice != nil {
		if err := validatePrice("wholesale_base_price", *input.WholesaleBasePrice); err != nil {
			return err
		}
		product.WholesaleBasePrice = decimal.NewNullDecimal(*input.WholesaleBasePrice)
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	return nil
}

func validateAttributes(category enums.ProductCategory, unit enums.ProductUnit, currency enums.Currency) error {
	if !category.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid category %q", category)
	}
	if !unit.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid unit %q", unit)
	}
	if !currency.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid currency %q", currency)
	}
	return nil
}

func validatePrice(field string, value decimal.Decimal) error {
	return pricing.CheckUnitPrice(field, value)
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func cleanColors(colors []string) pq.StringArray {
	out := pq.StringArray{}
	seen := map[string]struct{}{}
	for _, color := range colors {
		c := strings.ToLower(strings.TrimSpace(color))
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
