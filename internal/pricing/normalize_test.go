package pricing

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/angelmondragon/textilehouse-backend/pkg/errors"
)

func TestNormalizeCoercesAndSorts(t *testing.T) {
	table, rejected, err := Normalize([]RawTier{
		{Min: "100", Price: "35"},
		{Min: 50, Price: 40.0},
		{Min: json.Number("10"), Price: json.Number("44.50")},
	})
	require.NoError(t, err)
	require.Empty(t, rejected)

	tiers := table.Tiers()
	require.Len(t, tiers, 3)
	require.Equal(t, []int{10, 50, 100}, []int{tiers[0].MinQuantity, tiers[1].MinQuantity, tiers[2].MinQuantity})
	require.True(t, tiers[0].UnitPrice.Equal(d("44.5")))
	require.True(t, tiers[2].UnitPrice.Equal(d("35")))
}

func TestNormalizeDropsMalformedRows(t *testing.T) {
	table, rejected, err := Normalize([]RawTier{
		{Min: 0, Price: 10},
		{Min: -5, Price: 10},
		{Min: "abc", Price: 10},
		{Min: nil, Price: 10},
		{Min: 20, Price: "free"},
		{Min: 30, Price: -1},
		{Min: true, Price: 3},
		{Min: 40, Price: "0"},
	})
	require.NoError(t, err)
	require.Len(t, rejected, 7)
	require.Equal(t, ReasonInvalidMinimum, rejected[0].Reason)
	require.Equal(t, ReasonInvalidPrice, rejected[4].Reason)
	require.Equal(t, ReasonNegativePrice, rejected[5].Reason)
	require.Equal(t, 6, rejected[6].Index)

	tiers := table.Tiers()
	require.Len(t, tiers, 1)
	require.Equal(t, 40, tiers[0].MinQuantity)
	require.True(t, tiers[0].UnitPrice.IsZero(), "zero price is valid")
}

func TestNormalizeRoundsFractionalMinimumUp(t *testing.T) {
	table, rejected, err := Normalize([]RawTier{{Min: "2.5", Price: "9"}})
	require.NoError(t, err)
	require.Empty(t, rejected)
	require.Equal(t, 3, table.Tiers()[0].MinQuantity)
}

func TestNormalizeRejectsDuplicateMinimums(t *testing.T) {
	_, _, err := Normalize([]RawTier{
		{Min: 50, Price: 40},
		{Min: "50", Price: 38},
	})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDuplicateMinimum))
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestNormalizeEmptyInput(t *testing.T) {
	table, rejected, err := Normalize(nil)
	require.NoError(t, err)
	require.Empty(t, rejected)
	require.True(t, table.IsEmpty())
}

func TestRawTierUnmarshalAcceptsLegacyShapes(t *testing.T) {
	var rows []RawTier
	payload := `[{"quantity":50,"price":40},{"min":"100","price":"35"},{"min_qty":200,"unit_price":30.5},{"price":12}]`
	require.NoError(t, json.Unmarshal([]byte(payload), &rows))
	require.Len(t, rows, 4)
	require.Equal(t, json.Number("50"), rows[0].Min)
	require.Equal(t, "100", rows[1].Min)
	require.Equal(t, json.Number("30.5"), rows[2].Price)
	require.Nil(t, rows[3].Min)

	table, rejected, err := Normalize(rows)
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	require.Equal(t, 3, table.Len())
}

func TestRawTierUnmarshalRejectsNonObjects(t *testing.T) {
	var rows []RawTier
	require.Error(t, json.Unmarshal([]byte(`[42]`), &rows))
}
