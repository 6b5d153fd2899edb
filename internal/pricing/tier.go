package pricing

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/angelmondragon/textilehouse-backend/pkg/errors"
)

// Tier is one quantity breakpoint: orders of at least MinQuantity units
// pay UnitPrice per unit.
type Tier struct {
	MinQuantity int             `json:"min_quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// Table is an ordered, validated tier list for one (product, mode) pair.
// The zero value is an empty table. Tables are built by Normalize or
// NewTable and never mutated afterwards.
type Table struct {
	tiers []Tier
}

// NewTable validates already-typed tiers and returns them as a Table
// sorted ascending by MinQuantity.
func NewTable(tiers []Tier) (Table, error) {
	sorted := make([]Tier, 0, len(tiers))
	for i, tier := range tiers {
		if tier.MinQuantity <= 0 {
			return Table{}, pkgerrors.Newf(pkgerrors.CodeValidation, "tier %d: minimum quantity must be positive", i).
				WithDetails(map[string]any{"index": i, "min_quantity": tier.MinQuantity})
		}
		if err := CheckUnitPrice(fmt.Sprintf("tier %d unit price", i), tier.UnitPrice); err != nil {
			return Table{}, err
		}
		sorted = append(sorted, tier)
	}
	sortAscending(sorted)
	if err := ensureUniqueMinimums(sorted); err != nil {
		return Table{}, err
	}
	return Table{tiers: sorted}, nil
}

// MustTable is NewTable for fixtures; it panics on invalid input.
func MustTable(tiers ...Tier) Table {
	table, err := NewTable(tiers)
	if err != nil {
		panic(err)
	}
	return table
}

// Tiers returns a copy of the table rows, ascending by MinQuantity.
func (t Table) Tiers() []Tier {
	out := make([]Tier, len(t.tiers))
	copy(out, t.tiers)
	return out
}

func (t Table) Len() int { return len(t.tiers) }

func (t Table) IsEmpty() bool { return len(t.tiers) == 0 }

// Resolve returns the unit price for quantity, falling back to fallback
// only when the table is empty.
func (t Table) Resolve(quantity int, fallback decimal.Decimal) decimal.Decimal {
	return Resolve(t.tiers, quantity, fallback)
}

// Equal reports whether both tables hold the same breakpoints.
func (t Table) Equal(other Table) bool {
	if len(t.tiers) != len(other.tiers) {
		return false
	}
	for i := range t.tiers {
		if t.tiers[i].MinQuantity != other.tiers[i].MinQuantity || !t.tiers[i].UnitPrice.Equal(other.tiers[i].UnitPrice) {
			return false
		}
	}
	return true
}

func sortAscending(tiers []Tier) {
	sort.SliceStable(tiers, func(i, j int) bool {
		return tiers[i].MinQuantity < tiers[j].MinQuantity
	})
}

// ensureUniqueMinimums expects tiers sorted ascending.
func ensureUniqueMinimums(tiers []Tier) error {
	for i := 1; i < len(tiers); i++ {
		if tiers[i].MinQuantity == tiers[i-1].MinQuantity {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, ErrDuplicateMinimum, fmt.Sprintf("duplicate tier minimum quantity %d", tiers[i].MinQuantity)).
				WithDetails(map[string]any{"min_quantity": tiers[i].MinQuantity})
		}
	}
	return nil
}
