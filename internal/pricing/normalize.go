package pricing

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// ErrDuplicateMinimum marks a tier list that repeats a minimum quantity.
var ErrDuplicateMinimum = errors.New("duplicate tier minimum")

// Reasons reported for rows dropped by Normalize.
const (
	ReasonInvalidMinimum = "minimum quantity is not a positive number"
	ReasonInvalidPrice   = "unit price is not a number"
	ReasonNegativePrice  = "unit price is negative"
)

const maxMinimumQuantity = math.MaxInt32

var (
	rawMinKeys   = []string{"min", "minQuantity", "min_quantity", "min_qty", "quantity"}
	rawPriceKeys = []string{"price", "unitPrice", "unit_price"}
)

// RawTier is an unvalidated tier row as it arrives from clients, CSV
// imports or legacy product records. Values may be numbers or strings.
type RawTier struct {
	Min   any
	Price any
}

// UnmarshalJSON accepts {min, price}, {quantity, price} and the other
// spellings used by older product payloads.
func (r *RawTier) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return err
	}
	r.Min = firstPresent(fields, rawMinKeys)
	r.Price = firstPresent(fields, rawPriceKeys)
	return nil
}

// Rejected describes a raw row dropped during normalization.
type Rejected struct {
	Index  int    `json:"index"`
	Min    any    `json:"min"`
	Price  any    `json:"price"`
	Reason string `json:"reason"`
}

// Normalize coerces raw rows into a Table. Rows with a non-positive or
// non-numeric minimum, or a negative or non-numeric price, are dropped and
// returned in rejected so the caller can log them. Fractional minimums are
// rounded up. A repeated minimum, or a price the store cannot hold exactly,
// rejects the whole list.
func Normalize(raw []RawTier) (Table, []Rejected, error) {
	tiers := make([]Tier, 0, len(raw))
	var rejected []Rejected

	for i, row := range raw {
		minQty, ok := coerceMinimum(row.Min)
		if !ok {
			rejected = append(rejected, Rejected{Index: i, Min: row.Min, Price: row.Price, Reason: ReasonInvalidMinimum})
			continue
		}
		price, ok := coerceDecimal(row.Price)
		if !ok {
			rejected = append(rejected, Rejected{Index: i, Min: row.Min, Price: row.Price, Reason: ReasonInvalidPrice})
			continue
		}
		if price.IsNegative() {
			rejected = append(rejected, Rejected{Index: i, Min: row.Min, Price: row.Price, Reason: ReasonNegativePrice})
			continue
		}
		if err := CheckUnitPrice(fmt.Sprintf("tier %d price", i), price); err != nil {
			return Table{}, rejected, err
		}
		tiers = append(tiers, Tier{MinQuantity: minQty, UnitPrice: price})
	}

	sortAscending(tiers)
	if err := ensureUniqueMinimums(tiers); err != nil {
		return Table{}, rejected, err
	}
	return Table{tiers: tiers}, rejected, nil
}

func coerceMinimum(value any) (int, bool) {
	d, ok := coerceDecimal(value)
	if !ok || !d.IsPositive() {
		return 0, false
	}
	ceil := d.Ceil()
	if ceil.GreaterThan(decimal.NewFromInt(maxMinimumQuantity)) {
		return 0, false
	}
	return int(ceil.IntPart()), true
}

func coerceDecimal(value any) (decimal.Decimal, bool) {
	switch v := value.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return v, true
	case json.Number:
		value = v.String()
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(v), true
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat32(v), true
	case bool:
		return decimal.Zero, false
	}

	text, err := cast.ToStringE(value)
	if err != nil {
		return decimal.Zero, false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func firstPresent(fields map[string]any, keys []string) any {
	for _, key := range keys {
		if v, ok := fields[key]; ok {
			return v
		}
	}
	return nil
}
