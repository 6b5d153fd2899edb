package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
)

// ProductPriceTier is one stored breakpoint of a product's tier table.
type ProductPriceTier struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	ProductID uuid.UUID         `gorm:"column:product_id;type:uuid;not null;index"`
	Mode      enums.PricingMode `gorm:"column:mode;not null"`
	MinQty    int               `gorm:"column:min_qty;not null"`
	UnitPrice decimal.Decimal   `gorm:"column:unit_price;type:numeric(12,4);not null"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
}

func (ProductPriceTier) TableName() string { return "product_price_tiers" }

func (t *ProductPriceTier) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
