package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/textilehouse-backend/pkg/enums"
	"github.com/angelmondragon/textilehouse-backend/pkg/logger"
)

func decodeData(t *testing.T, body io.Reader, dest any) {
	t.Helper()
	envelope := struct {
		Data any `json:"data"`
	}{Data: dest}
	if err := json.NewDecoder(body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestGetProductAndTiers(t *testing.T) {
	svcs := newTestServices(t)
	seeded := seedLinen(t, svcs.products)
	logg := logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})

	req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/v1/products/belgian-linen", nil), map[string]string{"slug": "belgian-linen"})
	resp := httptest.NewRecorder()
	GetProduct(svcs.products, logg).ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var product productResponse
	decodeData(t, resp.Body, &product)
	require.Equal(t, seeded.Product.ID, product.ID)
	require.Equal(t, []tierResponse{{Min: 50, Price: 40}, {Min: 100, Price: 35}}, product.TiersRetail)
	require.Empty(t, product.TiersWholesale)
	require.NotNil(t, product.WholesaleBasePrice)
	require.Equal(t, 30.0, *product.WholesaleBasePrice)

	req = withURLParams(httptest.NewRequest(http.MethodGet, "/api/v1/products/belgian-linen/tiers?mode=wholesale", nil), map[string]string{"slug": "belgian-linen"})
	resp = httptest.NewRecorder()
	ProductTiers(svcs.quotes, logg).ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var list priceListResponse
	decodeData(t, resp.Body, &list)
	require.Equal(t, "wholesale", list.Mode)
	require.Equal(t, 30.0, list.FallbackPrice)
	require.Empty(t, list.Tiers)
}

func TestGetProductHidesInactive(t *testing.T) {
	svcs := newTestServices(t)
	seeded := seedLinen(t, svcs.products)

	handler := AdminUpdateProduct(svcs.products, nil)
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/v1/products/"+seeded.Product.ID.String(), strings.NewReader(`{"is_active":false}`))
	req = withURLParams(req, map[string]string{"productId": seeded.Product.ID.String()})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	req = withURLParams(httptest.NewRequest(http.MethodGet, "/api/v1/products/belgian-linen", nil), map[string]string{"slug": "belgian-linen"})
	resp = httptest.NewRecorder()
	GetProduct(svcs.products, nil).ServeHTTP(resp, req)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListProducts(t *testing.T) {
	svcs := newTestServices(t)
	seedLinen(t, svcs.products)

	resp := httptest.NewRecorder()
	ListProducts(svcs.products, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/products?category=linen&limit=10", nil))
	require.Equal(t, http.StatusOK, resp.Code)

	var list productListResponse
	decodeData(t, resp.Body, &list)
	require.Len(t, list.Products, 1)
	require.Empty(t, list.NextCursor)

	resp = httptest.NewRecorder()
	ListProducts(svcs.products, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/products?category=leather", nil))
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = httptest.NewRecorder()
	ListProducts(svcs.products, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/products?limit=500", nil))
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAdminCreateProduct(t *testing.T) {
	svcs := newTestServices(t)
	handler := AdminCreateProduct(svcs.products, enums.CurrencyEUR, nil)

	body := `{
		"slug": "silk-charmeuse",
		"name": "Silk Charmeuse",
		"category": "silk",
		"unit": "yard",
		"base_price": "29.99",
		"price_tiers": [{"quantity": "100", "price": 25}, {"quantity": 0, "price": 1}, {"quantity": 20, "price": "27.5"}],
		"tiers_wholesale": [{"min_qty": 50, "price": 20}]
	}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/admin/v1/products", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	var product productResponse
	decodeData(t, resp.Body, &product)
	require.Equal(t, "EUR", product.Currency)
	require.Equal(t, 29.99, product.BasePrice)
	require.Equal(t, []tierResponse{{Min: 20, Price: 27.5}, {Min: 100, Price: 25}}, product.TiersRetail)
	require.Equal(t, []tierResponse{{Min: 50, Price: 20}}, product.TiersWholesale)
	require.True(t, product.IsActive)
}

func TestAdminCreateProductRejects(t *testing.T) {
	svcs := newTestServices(t)
	seedLinen(t, svcs.products)
	handler := AdminCreateProduct(svcs.products, enums.CurrencyUSD, nil)

	cases := []struct {
		name string
		body string
		want int
	}{
		{name: "duplicate minimum", body: `{"slug":"a","name":"A","category":"silk","unit":"yard","base_price":1,"price_tiers":[{"min":5,"price":2},{"min":5,"price":1}]}`, want: http.StatusBadRequest},
		{name: "both retail names", body: `{"slug":"a","name":"A","category":"silk","unit":"yard","base_price":1,"price_tiers":[{"min":5,"price":2}],"tiers_retail":[{"min":6,"price":1}]}`, want: http.StatusBadRequest},
		{name: "missing base price", body: `{"slug":"a","name":"A","category":"silk","unit":"yard"}`, want: http.StatusBadRequest},
		{name: "bad unit", body: `{"slug":"a","name":"A","category":"silk","unit":"bolt","base_price":1}`, want: http.StatusBadRequest},
		{name: "slug taken", body: `{"slug":"belgian-linen","name":"A","category":"linen","unit":"meter","base_price":1}`, want: http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/admin/v1/products", strings.NewReader(tc.body)))
			require.Equal(t, tc.want, resp.Code, resp.Body.String())
		})
	}
}

func TestAdminUpdateProductReplacesRetailTiers(t *testing.T) {
	svcs := newTestServices(t)
	seeded := seedLinen(t, svcs.products)

	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"price_tiers":[{"quantity":10,"price":42}],"clear_wholesale_base_price":true}`))
	req = withURLParams(req, map[string]string{"productId": seeded.Product.ID.String()})
	resp := httptest.NewRecorder()
	AdminUpdateProduct(svcs.products, nil).ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var product productResponse
	decodeData(t, resp.Body, &product)
	require.Equal(t, []tierResponse{{Min: 10, Price: 42}}, product.TiersRetail)
	require.Nil(t, product.WholesaleBasePrice)
}

func TestAdminReplaceTiersReportsRejectedRows(t *testing.T) {
	svcs := newTestServices(t)
	seedLinen(t, svcs.products)

	req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"tiers":[{"min":"abc","price":1},{"min":25,"price":33}]}`))
	req = withURLParams(req, map[string]string{"slug": "belgian-linen", "mode": "wholesale"})
	resp := httptest.NewRecorder()
	AdminReplaceTiers(svcs.products, nil).ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var out struct {
		Product  productResponse `json:"product"`
		Rejected []struct {
			Index  int    `json:"index"`
			Reason string `json:"reason"`
		} `json:"rejected"`
	}
	decodeData(t, resp.Body, &out)
	require.Equal(t, []tierResponse{{Min: 25, Price: 33}}, out.Product.TiersWholesale)
	require.Len(t, out.Product.TiersRetail, 2)
	require.Len(t, out.Rejected, 1)
	require.Equal(t, 0, out.Rejected[0].Index)

	req = withURLParams(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"tiers":[]}`)), map[string]string{"slug": "belgian-linen", "mode": "vip"})
	resp = httptest.NewRecorder()
	AdminReplaceTiers(svcs.products, nil).ServeHTTP(resp, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAdminDeleteProduct(t *testing.T) {
	svcs := newTestServices(t)
	seeded := seedLinen(t, svcs.products)

	makeRequest := func(id string) *httptest.ResponseRecorder {
		req := withURLParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"productId": id})
		rec := httptest.NewRecorder()
		AdminDeleteProduct(svcs.products, nil).ServeHTTP(rec, req)
		return rec
	}

	if rec := makeRequest("not-a-uuid"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
	}
	if rec := makeRequest(seeded.Product.ID.String()); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 on success, got %d", rec.Code)
	}
	if rec := makeRequest(uuid.NewString()); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for missing product, got %d", rec.Code)
	}
}
