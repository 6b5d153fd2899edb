package validators

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/angelmondragon/textilehouse-backend/pkg/errors"
)

// ParseQueryInt reads a bounded whole-number query parameter.
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	value, err := ParseWholeNumber(r.URL.Query().Get(key), key, defaultVal)
	if err != nil {
		return 0, err
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseWholeNumber parses raw as an integer, returning defaultVal when it is
// blank. Spreadsheet-style values such as "12.0" are accepted; "12.5" is not.
func ParseWholeNumber(raw, field string, defaultVal int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultVal, nil
	}
	if value, err := strconv.Atoi(raw); err == nil {
		return value, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "%s must be a whole number", field).WithDetails(map[string]any{"field": field})
	}
	return int(f), nil
}
