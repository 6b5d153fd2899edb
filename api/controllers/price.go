package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/textilehouse-backend/api/responses"
	"github.com/angelmondragon/textilehouse-backend/api/validators"
	"github.com/angelmondragon/textilehouse-backend/internal/pricing"
	"github.com/angelmondragon/textilehouse-backend/internal/quotes"
	pkgerrors "github.com/angelmondragon/textilehouse-backend/pkg/errors"
	"github.com/angelmondragon/textilehouse-backend/pkg/logger"
)

type priceResponse struct {
	Slug       string  `json:"slug"`
	Mode       string  `json:"mode"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
	Currency   string  `json:"currency"`
}

// PriceQuote answers GET /api/price?slug=&qty=&mode=. The payload is a bare
// object, not the data envelope, so existing storefront callers keep working.
// A missing qty quotes one unit; zero and negative quantities are quoted as 1.
func PriceQuote(svc quotes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "quote service unavailable"))
			return
		}

		query := r.URL.Query()
		slug := strings.TrimSpace(query.Get("slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "slug is required").WithDetails(map[string]any{"field": "slug"}))
			return
		}

		qty, err := validators.ParseWholeNumber(query.Get("qty"), "qty", 1)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), slug, qty, query.Get("mode"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusOK, newPriceResponse(quote))
	}
}

func newPriceResponse(q *pricing.PriceQuote) priceResponse {
	return priceResponse{
		Slug:       q.Slug,
		Mode:       q.Mode.String(),
		Quantity:   q.Quantity,
		UnitPrice:  q.UnitPrice.InexactFloat64(),
		TotalPrice: q.TotalPrice.InexactFloat64(),
		Currency:   q.Currency.String(),
	}
}
