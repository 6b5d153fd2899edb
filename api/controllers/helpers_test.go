package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/textilehouse-backend/internal/inquiries"
	"github.com/angelmondragon/textilehouse-backend/internal/pricing"
	productsvc "github.com/angelmondragon/textilehouse-backend/internal/products"
	"github.com/angelmondragon/textilehouse-backend/internal/quotes"
	"github.com/angelmondragon/textilehouse-backend/pkg/db"
	"github.com/angelmondragon/textilehouse-backend/pkg/db/dbtest"
	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
	"github.com/angelmondragon/textilehouse-backend/pkg/logger"
)

type testServices struct {
	products  productsvc.Service
	quotes    quotes.Service
	inquiries inquiries.Service
}

func newTestServices(t *testing.T) testServices {
	t.Helper()
	conn := dbtest.Open(t)
	logg := logger.Nop()

	products, err := productsvc.NewService(productsvc.NewRepository(conn), db.Wrap(conn), logg)
	if err != nil {
		t.Fatalf("product service: %v", err)
	}
	quoteSvc, err := quotes.NewService(quotes.ServiceParams{Products: products, Logger: logg})
	if err != nil {
		t.Fatalf("quote service: %v", err)
	}
	inquirySvc, err := inquiries.NewService(inquiries.NewRepository(conn), quoteSvc, products, logg)
	if err != nil {
		t.Fatalf("inquiry service: %v", err)
	}
	return testServices{products: products, quotes: quoteSvc, inquiries: inquirySvc}
}

// seedLinen creates the tiered product used across handler tests:
// retail 50+ at 40, 100+ at 35, base 45; no wholesale tiers, wholesale base 30.
func seedLinen(t *testing.T, svc productsvc.Service) *productsvc.Detail {
	t.Helper()
	wholesale := decimal.RequireFromString("30")
	detail, err := svc.CreateProduct(context.Background(), productsvc.CreateProductInput{
		Slug:               "belgian-linen",
		Name:               "Belgian Linen",
		Category:           enums.ProductCategoryLinen,
		Unit:               enums.ProductUnitMeter,
		Currency:           enums.CurrencyUSD,
		BasePrice:          decimal.RequireFromString("45"),
		WholesaleBasePrice: &wholesale,
		RetailTiers: []pricing.RawTier{
			{Min: 50, Price: 40},
			{Min: 100, Price: 35},
		},
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return detail
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	routeCtx := chi.NewRouteContext()
	for k, v := range params {
		routeCtx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}
