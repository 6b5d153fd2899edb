package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/angelmondragon/textilehouse-backend/internal/pricing"
	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
)

// tierRow is one line of a tier sheet. Min and price stay strings so the
// pricing normalizer decides what is a usable number.
type tierRow struct {
	Slug  string `csv:"slug"`
	Mode  string `csv:"mode"`
	Min   string `csv:"min"`
	Price string `csv:"price"`
}

// tierSheet is every row for one (slug, mode) pair, in file order.
type tierSheet struct {
	Slug string
	Mode enums.PricingMode
	Rows []pricing.RawTier
}

func (s tierSheet) key() string {
	return s.Slug + "/" + string(s.Mode)
}

func readSheets(r io.Reader) ([]tierSheet, error) {
	var rows []*tierRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	index := map[string]int{}
	var sheets []tierSheet
	for i, row := range rows {
		line := i + 2 // header is line 1
		slug := strings.ToLower(strings.TrimSpace(row.Slug))
		if slug == "" {
			return nil, fmt.Errorf("line %d: slug is required", line)
		}
		mode, err := enums.ParsePricingMode(row.Mode)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		sheet := tierSheet{Slug: slug, Mode: mode}
		pos, ok := index[sheet.key()]
		if !ok {
			pos = len(sheets)
			index[sheet.key()] = pos
			sheets = append(sheets, sheet)
		}
		sheets[pos].Rows = append(sheets[pos].Rows, pricing.RawTier{
			Min:   strings.TrimSpace(row.Min),
			Price: strings.TrimSpace(row.Price),
		})
	}
	return sheets, nil
}
