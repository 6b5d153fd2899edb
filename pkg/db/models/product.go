package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
)

// Product is a catalog fabric with its list prices.
type Product struct {
	ID                 uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Slug               string                `gorm:"column:slug;not null;uniqueIndex"`
	Name               string                `gorm:"column:name;not null"`
	Description        *string               `gorm:"column:description"`
	Category           enums.ProductCategory `gorm:"column:category;not null"`
	Unit               enums.ProductUnit     `gorm:"column:unit;not null"`
	Colors             pq.StringArray        `gorm:"column:colors;type:text[];not null"`
	Currency           enums.Currency        `gorm:"column:currency;not null"`
	BasePrice          decimal.Decimal       `gorm:"column:base_price;type:numeric(12,4);not null"`
	WholesaleBasePrice decimal.NullDecimal   `gorm:"column:wholesale_base_price;type:numeric(12,4)"`
	IsActive           bool                  `gorm:"column:is_active;not null"`
	PriceTiers         []ProductPriceTier    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt          time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Colors == nil {
		p.Colors = pq.StringArray{}
	}
	return nil
}

// FallbackPrice is the per-unit price used when a mode has no tiers.
// Wholesale falls back to the retail base price when no wholesale base is set.
func (p Product) FallbackPrice(mode enums.PricingMode) decimal.Decimal {
	if mode == enums.PricingModeWholesale && p.WholesaleBasePrice.Valid {
		return p.WholesaleBasePrice.Decimal
	}
	return p.BasePrice
}

// TiersFor returns the stored tier rows for mode in their stored order.
func (p Product) TiersFor(mode enums.PricingMode) []ProductPriceTier {
	out := make([]ProductPriceTier, 0, len(p.PriceTiers))
	for _, tier := range p.PriceTiers {
		if tier.Mode == mode {
			out = append(out, tier)
		}
	}
	return out
}
