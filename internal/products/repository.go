package product

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/textilehouse-backend/pkg/db/models"
	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
	"github.com/angelmondragon/textilehouse-backend/pkg/pagination"
)

// Repository persists products and their tier tables.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func preloadTiers(db *gorm.DB) *gorm.DB {
	return db.Preload("PriceTiers", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("mode ASC").Order("min_qty ASC")
	})
}

// FindByID loads the product with its tier rows.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := preloadTiers(r.db.WithContext(ctx)).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindBySlug loads the product with its tier rows.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := preloadTiers(r.db.WithContext(ctx)).First(&product, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts the product row only; tiers go through ReplaceTiers.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("PriceTiers").Create(product).Error
}

// UpdateProduct saves every column of the product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("PriceTiers").Save(product).Error
}

// DeleteProduct removes the product and its tiers, returning rows removed.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) (int64, error) {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", id).Delete(&models.ProductPriceTier{}).Error; err != nil {
		return 0, err
	}
	res := tx.Where("id = ?", id).Delete(&models.Product{})
	return res.RowsAffected, res.Error
}

// ReplaceTiers rewrites the product's tier table for one mode. Rows of the
// other mode are never touched.
func (r *Repository) ReplaceTiers(ctx context.Context, productID uuid.UUID, mode enums.PricingMode, tiers []models.ProductPriceTier) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ? AND mode = ?", productID, mode).Delete(&models.ProductPriceTier{}).Error; err != nil {
		return err
	}
	if len(tiers) == 0 {
		return nil
	}
	for i := range tiers {
		tiers[i].ProductID = productID
		tiers[i].Mode = mode
	}
	return tx.Create(&tiers).Error
}

type listQuery struct {
	category        *enums.ProductCategory
	includeInactive bool
	cursor          *pagination.Cursor
	limit           int
}

// List returns up to query.limit products newest first, tiers preloaded.
func (r *Repository) List(ctx context.Context, query listQuery) ([]models.Product, error) {
	tx := preloadTiers(r.db.WithContext(ctx).Model(&models.Product{}))
	if !query.includeInactive {
		tx = tx.Where("is_active = ?", true)
	}
	if query.category != nil {
		tx = tx.Where("category = ?", *query.category)
	}
	if query.cursor != nil {
		tx = tx.Where("(created_at < ?) OR (created_at = ? AND id < ?)", query.cursor.CreatedAt, query.cursor.CreatedAt, query.cursor.ID)
	}

	var products []models.Product
	err := tx.Order("created_at DESC").Order("id DESC").Limit(query.limit).Find(&products).Error
	return products, err
}
