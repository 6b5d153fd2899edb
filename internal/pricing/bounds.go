package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/textilehouse-backend/pkg/errors"
)

// Unit prices are stored as numeric(12,4) and totals as numeric(14,2).
const (
	UnitPricePlaces = 4
	unitPriceDigits = 12
	totalDigits     = 14
)

var (
	// ErrPriceOutOfRange marks a price the storage columns cannot hold exactly.
	ErrPriceOutOfRange = errors.New("price out of range")

	maxUnitPrice = decimal.New(1, unitPriceDigits-UnitPricePlaces)
	maxTotal     = decimal.New(1, totalDigits-MoneyPlaces)
)

// CheckUnitPrice rejects negative prices, prices with more than
// UnitPricePlaces decimals, and prices of 10^8 or more.
func CheckUnitPrice(field string, price decimal.Decimal) error {
	details := map[string]any{"field": field, "value": price.String()}
	switch {
	case price.IsNegative():
		return pkgerrors.Newf(pkgerrors.CodeValidation, "%s must not be negative", field).WithDetails(details)
	case !price.Equal(price.Truncate(UnitPricePlaces)):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, ErrPriceOutOfRange,
			fmt.Sprintf("%s allows at most %d decimal places", field, UnitPricePlaces)).WithDetails(details)
	case price.GreaterThanOrEqual(maxUnitPrice):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, ErrPriceOutOfRange,
			fmt.Sprintf("%s must be below %s", field, maxUnitPrice.String())).WithDetails(details)
	}
	return nil
}

// CheckTotal rejects totals too large for the stored total column.
func CheckTotal(total decimal.Decimal) error {
	if total.Abs().GreaterThanOrEqual(maxTotal) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, ErrPriceOutOfRange, "total price is too large").
			WithDetails(map[string]any{"total": total.String()})
	}
	return nil
}
