package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
)

// Inquiry is a buyer's request for a quote, stored with the price the
// catalog produced at submission time.
type Inquiry struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	ProductID   uuid.UUID           `gorm:"column:product_id;type:uuid;not null;index"`
	ProductSlug string              `gorm:"column:product_slug;not null"`
	Name        string              `gorm:"column:name;not null"`
	Email       string              `gorm:"column:email;not null"`
	Company     *string             `gorm:"column:company"`
	Phone       *string             `gorm:"column:phone"`
	Message     *string             `gorm:"column:message"`
	Mode        enums.PricingMode   `gorm:"column:mode;not null"`
	Quantity    int                 `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal     `gorm:"column:unit_price;type:numeric(12,4);not null"`
	TotalPrice  decimal.Decimal     `gorm:"column:total_price;type:numeric(14,2);not null"`
	Currency    enums.Currency      `gorm:"column:currency;not null"`
	Status      enums.InquiryStatus `gorm:"column:status;not null;default:new"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (Inquiry) TableName() string { return "inquiries" }

func (i *Inquiry) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
