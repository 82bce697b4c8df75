package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/streamcart/product-catalog/internal/adapters/events"
	"github.com/streamcart/product-catalog/internal/adapters/memory"
	"github.com/streamcart/product-catalog/internal/application"
)

func newTestRouter() http.Handler {
	svc := application.NewService(application.Dependencies{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Products:  memory.NewProductRepository(),
		Publisher: events.NewMemoryPublisher(),
	})
	return NewRouter(NewHandler(svc), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func doJSON(t *testing.T, router http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestProductCRUDOverHTTP(t *testing.T) {
	router := newTestRouter()

	rec := doJSON(t, router, http.MethodPost, "/v1/products", `{"name":"Laptop","description":"Gaming laptop","price":999.99}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	var created struct {
		Data struct {
			ProductID string  `json:"product_id"`
			Name      string  `json:"name"`
			Price     float64 `json:"price"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.Data.ProductID == "" {
		t.Fatalf("expected generated id in response")
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/products/"+created.Data.ProductID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPut, "/v1/products/"+created.Data.ProductID, `{"price":899.99}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	var updated struct {
		Data struct {
			Name        string  `json:"name"`
			Description string  `json:"description"`
			Price       float64 `json:"price"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decode update response: %v", err)
	}
	if updated.Data.Name != "Laptop" || updated.Data.Description != "Gaming laptop" {
		t.Fatalf("omitted fields must survive partial update, got %+v", updated.Data)
	}
	if updated.Data.Price != 899.99 {
		t.Fatalf("expected updated price, got %v", updated.Data.Price)
	}

	rec = doJSON(t, router, http.MethodDelete, "/v1/products/"+created.Data.ProductID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", rec.Code)
	}
	rec = doJSON(t, router, http.MethodGet, "/v1/products/"+created.Data.ProductID, "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", rec.Code)
	}
}

func TestUnknownIDReturns404(t *testing.T) {
	router := newTestRouter()
	rec := doJSON(t, router, http.MethodGet, "/v1/products/5f8a1c8e-7c41-4a97-9f60-31dfb2f1af07", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "NOT_FOUND") {
		t.Fatalf("expected NOT_FOUND error code, got %s", rec.Body.String())
	}
}

func TestValidationErrors(t *testing.T) {
	router := newTestRouter()
	cases := []struct {
		name string
		body string
	}{
		{"empty name", `{"name":"","price":10}`},
		{"negative price", `{"name":"Laptop","price":-1}`},
		{"bad json", `{"name":`},
	}
	for _, tc := range cases {
		rec := doJSON(t, router, http.MethodPost, "/v1/products", tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, rec.Code)
		}
	}

	rec := doJSON(t, router, http.MethodGet, "/v1/products/not-a-uuid", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid id: expected 400, got %d", rec.Code)
	}
}

func TestCatalogStatsEndpoint(t *testing.T) {
	router := newTestRouter()
	rec := doJSON(t, router, http.MethodGet, "/v1/catalog/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Data application.CatalogStats `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if resp.Data.ActiveProducts != 0 {
		t.Fatalf("expected empty projection, got %+v", resp.Data)
	}
}

func TestListProducts(t *testing.T) {
	router := newTestRouter()
	for i := 0; i < 3; i++ {
		rec := doJSON(t, router, http.MethodPost, "/v1/products", fmt.Sprintf(`{"name":"Item %d","price":%d}`, i, i+1))
		if rec.Code != http.StatusCreated {
			t.Fatalf("seed create %d: got %d", i, rec.Code)
		}
	}
	rec := doJSON(t, router, http.MethodGet, "/v1/products", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", rec.Code)
	}
	var resp struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(resp.Data) != 3 {
		t.Fatalf("expected 3 products, got %d", len(resp.Data))
	}
}
