package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/angelmondragon/storefront-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/types"
	"github.com/shopspring/decimal"
)

type stubCatalogService struct {
	products   []catalog.Product
	product    *catalog.Product
	categories []string
	err        error

	created catalog.ProductInput
	deleted int64
}

func (s *stubCatalogService) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	return s.products, s.err
}

func (s *stubCatalogService) GetProduct(ctx context.Context, id int64) (*catalog.Product, error) {
	return s.product, s.err
}

func (s *stubCatalogService) ListCategories(ctx context.Context) ([]string, error) {
	return s.categories, s.err
}

func (s *stubCatalogService) CreateProduct(ctx context.Context, input catalog.ProductInput) (*catalog.Product, error) {
	s.created = input
	return s.product, s.err
}

func (s *stubCatalogService) UpdateProduct(ctx context.Context, id int64, input catalog.ProductInput) (*catalog.Product, error) {
	return s.product, s.err
}

func (s *stubCatalogService) DeleteProduct(ctx context.Context, id int64) error {
	s.deleted = id
	return s.err
}

func TestProductListSuccess(t *testing.T) {
	svc := &stubCatalogService{products: []catalog.Product{
		{ID: 1, Title: "Backpack", Price: decimal.RequireFromString("109.95")},
	}}
	handler := ProductList(svc, catalog.NewFetcher(), nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(http.MethodGet, "/api/v1/products", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope types.SuccessEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	listing, ok := envelope.Data.([]any)
	if !ok || len(listing) != 1 {
		t.Fatalf("unexpected listing %v", envelope.Data)
	}
}

func TestProductDetailNotFound(t *testing.T) {
	svc := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := ProductDetail(svc, nil, nil)

	rec := httptest.NewRecorder()
	req := withURLParam(sessionRequest(http.MethodGet, "/api/v1/products/999", ""), "productId", "999")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestProductDetailInvalidID(t *testing.T) {
	handler := ProductDetail(&stubCatalogService{}, nil, nil)

	rec := httptest.NewRecorder()
	req := withURLParam(sessionRequest(http.MethodGet, "/api/v1/products/abc", ""), "productId", "abc")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestProductCategories(t *testing.T) {
	svc := &stubCatalogService{categories: []string{"electronics", "jewelery"}}
	handler := ProductCategories(svc, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(http.MethodGet, "/api/v1/products/categories", ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProductCreateValidatesBody(t *testing.T) {
	handler := ProductCreate(&stubCatalogService{}, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(http.MethodPost, "/api/v1/products", `{"price":"10.00","category":"misc"}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing title, got %d", rec.Code)
	}
}

func TestProductCreateSuccess(t *testing.T) {
	svc := &stubCatalogService{product: &catalog.Product{ID: 21, Title: "New Thing"}}
	handler := ProductCreate(svc, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(http.MethodPost, "/api/v1/products",
		`{"title":"New Thing","price":"12.50","category":"misc","description":"d"}`))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.created.Title != "New Thing" {
		t.Fatalf("input not forwarded: %+v", svc.created)
	}
}

func TestProductCreateRejectsNegativePrice(t *testing.T) {
	handler := ProductCreate(&stubCatalogService{}, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, sessionRequest(http.MethodPost, "/api/v1/products",
		`{"title":"New Thing","price":"-1","category":"misc"}`))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative price, got %d", rec.Code)
	}
}

func TestProductDelete(t *testing.T) {
	svc := &stubCatalogService{}
	handler := ProductDelete(svc, nil)

	rec := httptest.NewRecorder()
	req := withURLParam(sessionRequest(http.MethodDelete, "/api/v1/products/7", ""), "productId", "7")
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.deleted != 7 {
		t.Fatalf("expected delete forwarded for id 7, got %d", svc.deleted)
	}
}
