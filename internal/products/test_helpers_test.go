package product

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/textilehouse-backend/internal/pricing"
	"github.com/angelmondragon/textilehouse-backend/pkg/db"
	"github.com/angelmondragon/textilehouse-backend/pkg/db/dbtest"
	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
	"github.com/angelmondragon/textilehouse-backend/pkg/logger"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, _ := newTestServiceWithRepo(t)
	return svc
}

func newTestServiceWithRepo(t *testing.T) (Service, *Repository) {
	t.Helper()
	conn := dbtest.Open(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo, db.Wrap(conn), logger.Nop())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func mustCreateLinen(t *testing.T, svc Service) *Detail {
	t.Helper()
	detail, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Slug:      "linen-natural",
		Name:      "Natural Linen",
		Category:  enums.ProductCategoryLinen,
		Unit:      enums.ProductUnitMeter,
		Colors:    []string{"Natural", "natural", " oat "},
		Currency:  enums.CurrencyUSD,
		BasePrice: decimal.RequireFromString("45"),
		RetailTiers: []pricing.RawTier{
			{Min: 100, Price: "35"},
			{Min: 1, Price: "45"},
			{Min: 50, Price: "40"},
		},
		WholesaleTiers: []pricing.RawTier{
			{Min: 200, Price: "28"},
			{Min: "bulk", Price: "1"},
		},
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return detail
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}
