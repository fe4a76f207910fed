package catalog

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

type stubDoer struct {
	fn func(req *http.Request) (*http.Response, error)
}

func (s *stubDoer) Do(req *http.Request) (*http.Response, error) {
	return s.fn(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newTestClient(t *testing.T, fn func(req *http.Request) (*http.Response, error)) *Client {
	t.Helper()
	client, err := NewClient(config.CatalogConfig{
		BaseURL:        "https://catalog.example.com",
		RequestTimeout: time.Second,
	}, nil, nil)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.http = &stubDoer{fn: fn}
	return client
}

func TestNewClientRejectsBlankBaseURL(t *testing.T) {
	if _, err := NewClient(config.CatalogConfig{BaseURL: "   "}, nil, nil); err == nil {
		t.Fatalf("expected error for blank base url")
	}
}

func TestListProductsDecodesListing(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/products" {
			t.Fatalf("unexpected path %s", req.URL.Path)
		}
		return jsonResponse(http.StatusOK, `[
			{"id":1,"title":"Backpack","price":109.95,"category":"men's clothing","rating":{"rate":3.9,"count":120}},
			{"id":2,"title":"Shirt","price":22.3,"category":"men's clothing"}
		]`), nil
	})

	products, err := client.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if !products[0].Price.Equal(decimal.RequireFromString("109.95")) {
		t.Fatalf("unexpected price %s", products[0].Price)
	}
	if products[0].Rating == nil || products[0].Rating.Count != 120 {
		t.Fatalf("rating not decoded: %+v", products[0].Rating)
	}
	if products[1].Rating != nil {
		t.Fatalf("missing rating should stay nil")
	}
}

func TestGetProductNotFoundStatus(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{}`), nil
	})

	_, err := client.GetProduct(context.Background(), 999)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetProductEmptyBodyTreatedAsMissing(t *testing.T) {
	// The demo API answers 200 with no body for unknown ids.
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, ""), nil
	})

	_, err := client.GetProduct(context.Background(), 999)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for empty body, got %v", err)
	}
}

func TestDoMapsServerErrorsToDependency(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, ""), nil
	})

	_, err := client.ListProducts(context.Background())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestDoMapsCancelledContext(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.ListProducts(ctx)
	if !pkgerrors.IsCancelled(err) {
		t.Fatalf("expected cancelled error, got %v", err)
	}
}

func TestCreateProductSendsPayload(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost || req.URL.Path != "/products" {
			t.Fatalf("unexpected request %s %s", req.Method, req.URL.Path)
		}
		if ct := req.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type %q", ct)
		}
		body, _ := io.ReadAll(req.Body)
		if !bytes.Contains(body, []byte(`"title":"New Thing"`)) {
			t.Fatalf("payload missing title: %s", body)
		}
		return jsonResponse(http.StatusOK, `{"id":21,"title":"New Thing","price":12.5}`), nil
	})

	created, err := client.CreateProduct(context.Background(), ProductInput{
		Title: "New Thing",
		Price: decimal.RequireFromString("12.5"),
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if created.ID != 21 {
		t.Fatalf("expected echoed id 21, got %d", created.ID)
	}
}

func TestDeleteProductHitsPath(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		gotPath = req.URL.Path
		return jsonResponse(http.StatusOK, ""), nil
	})

	if err := client.DeleteProduct(context.Background(), 7); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if gotPath != "/products/7" {
		t.Fatalf("unexpected path %s", gotPath)
	}
}

func TestListCategories(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/products/categories" {
			t.Fatalf("unexpected path %s", req.URL.Path)
		}
		return jsonResponse(http.StatusOK, `["electronics","jewelery"]`), nil
	})

	categories, err := client.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(categories) != 2 || categories[0] != "electronics" {
		t.Fatalf("unexpected categories %v", categories)
	}
}
