package enums

import (
	"fmt"
	"strings"
)

// ProductCategory groups fabrics in the catalog.
type ProductCategory string

const (
	ProductCategoryCotton     ProductCategory = "cotton"
	ProductCategoryLinen      ProductCategory = "linen"
	ProductCategorySilk       ProductCategory = "silk"
	ProductCategoryWool       ProductCategory = "wool"
	ProductCategorySynthetic  ProductCategory = "synthetic"
	ProductCategoryBlend      ProductCategory = "blend"
	ProductCategoryUpholstery ProductCategory = "upholstery"
	ProductCategoryLace       ProductCategory = "lace"
	ProductCategoryTrim       ProductCategory = "trim"
)

var validProductCategories = []ProductCategory{
	ProductCategoryCotton,
	ProductCategoryLinen,
	ProductCategorySilk,
	ProductCategoryWool,
	ProductCategorySynthetic,
	ProductCategoryBlend,
	ProductCategoryUpholstery,
	ProductCategoryLace,
	ProductCategoryTrim,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validProductCategories {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductUnit is the unit a quantity counts.
type ProductUnit string

const (
	ProductUnitMeter    ProductUnit = "meter"
	ProductUnitYard     ProductUnit = "yard"
	ProductUnitRoll     ProductUnit = "roll"
	ProductUnitPiece    ProductUnit = "piece"
	ProductUnitKilogram ProductUnit = "kilogram"
)

var validProductUnits = []ProductUnit{
	ProductUnitMeter,
	ProductUnitYard,
	ProductUnitRoll,
	ProductUnitPiece,
	ProductUnitKilogram,
}

func (u ProductUnit) String() string {
	return string(u)
}

func (u ProductUnit) IsValid() bool {
	for _, candidate := range validProductUnits {
		if candidate == u {
			return true
		}
	}
	return false
}

// ParseProductUnit converts raw input into a ProductUnit.
func ParseProductUnit(value string) (ProductUnit, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validProductUnits {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product unit %q", value)
}
