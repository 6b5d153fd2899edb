package inquiries

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	product "github.com/angelmondragon/textilehouse-backend/internal/products"
	"github.com/angelmondragon/textilehouse-backend/internal/pricing"
	"github.com/angelmondragon/textilehouse-backend/internal/quotes"
	"github.com/angelmondragon/textilehouse-backend/pkg/db"
	"github.com/angelmondragon/textilehouse-backend/pkg/db/dbtest"
	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/textilehouse-backend/pkg/errors"
	"github.com/angelmondragon/textilehouse-backend/pkg/logger"
	"github.com/angelmondragon/textilehouse-backend/pkg/pagination"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	conn := dbtest.Open(t)
	logg := logger.Nop()

	catalog, err := product.NewService(product.NewRepository(conn), db.Wrap(conn), logg)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	_, err = catalog.CreateProduct(context.Background(), product.CreateProductInput{
		Slug:      "linen-natural",
		Name:      "Natural Linen",
		Category:  enums.ProductCategoryLinen,
		Unit:      enums.ProductUnitMeter,
		Currency:  enums.CurrencyUSD,
		BasePrice: decimal.RequireFromString("45"),
		WholesaleTiers: []pricing.RawTier{
			{Min: 100, Price: "30"},
			{Min: 500, Price: "26.5"},
		},
	})
	if err != nil {
		t.Fatalf("seed product: %v", err)
	}

	quoteSvc, err := quotes.NewService(quotes.ServiceParams{Products: catalog, Logger: logg})
	if err != nil {
		t.Fatalf("quotes: %v", err)
	}
	svc, err := NewService(NewRepository(conn), quoteSvc, catalog, logg)
	if err != nil {
		t.Fatalf("inquiries: %v", err)
	}
	return svc
}

func validInput() SubmitInput {
	company := "  Atelier Nord "
	return SubmitInput{
		ProductSlug: "linen-natural",
		Name:        "Ada Weaver",
		Email:       "Ada@Example.com",
		Company:     &company,
		Quantity:    600,
		Mode:        "wholesale",
	}
}

func TestSubmitStoresQuotedPrice(t *testing.T) {
	svc := newTestService(t)

	inquiry, err := svc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if inquiry.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
	if !inquiry.UnitPrice.Equal(decimal.RequireFromString("26.5")) {
		t.Fatalf("expected unit price 26.5, got %s", inquiry.UnitPrice)
	}
	if inquiry.TotalPrice.StringFixed(2) != "15900.00" {
		t.Fatalf("expected total 15900.00, got %s", inquiry.TotalPrice.StringFixed(2))
	}
	if inquiry.Mode != enums.PricingModeWholesale || inquiry.Status != enums.InquiryStatusNew {
		t.Fatalf("unexpected mode/status %s/%s", inquiry.Mode, inquiry.Status)
	}
	if inquiry.Email != "ada@example.com" || inquiry.Company == nil || *inquiry.Company != "Atelier Nord" {
		t.Fatalf("expected normalized contact fields, got %q %v", inquiry.Email, inquiry.Company)
	}
}

func TestSubmitValidation(t *testing.T) {
	svc := newTestService(t)
	cases := map[string]func(in *SubmitInput){
		"missing name":  func(in *SubmitInput) { in.Name = " " },
		"bad email":     func(in *SubmitInput) { in.Email = "not-an-email" },
		"zero quantity": func(in *SubmitInput) { in.Quantity = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := validInput()
			mutate(&in)
			if _, err := svc.Submit(context.Background(), in); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	in := validInput()
	in.ProductSlug = "unknown"
	if _, err := svc.Submit(context.Background(), in); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	svc := newTestService(t)
	inquiry, err := svc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	updated, err := svc.UpdateStatus(context.Background(), inquiry.ID, enums.InquiryStatusContacted)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != enums.InquiryStatusContacted {
		t.Fatalf("expected contacted, got %s", updated.Status)
	}

	if _, err := svc.UpdateStatus(context.Background(), inquiry.ID, enums.InquiryStatusNew); !pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict moving backwards, got %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), inquiry.ID, enums.InquiryStatusClosed); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), uuid.New(), enums.InquiryStatusClosed); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), inquiry.ID, "archived"); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	svc := newTestService(t)
	first, err := svc.Submit(context.Background(), validInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.Submit(context.Background(), validInput()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), first.ID, enums.InquiryStatusClosed); err != nil {
		t.Fatalf("close: %v", err)
	}

	all, err := svc.List(context.Background(), ListInput{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all.Inquiries) != 2 {
		t.Fatalf("expected 2 inquiries, got %d", len(all.Inquiries))
	}

	closed := enums.InquiryStatusClosed
	filtered, err := svc.List(context.Background(), ListInput{Status: &closed})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(filtered.Inquiries) != 1 || filtered.Inquiries[0].ID != first.ID {
		t.Fatalf("expected only the closed inquiry")
	}

	page, err := svc.List(context.Background(), ListInput{Pagination: pagination.Params{Limit: 1}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Inquiries) != 1 || page.NextCursor == "" {
		t.Fatalf("expected one inquiry and a next cursor")
	}
}
