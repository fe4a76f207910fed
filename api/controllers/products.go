package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/api/responses"
	"github.com/angelmondragon/storefront-backend/api/validators"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// CatalogService is the slice of the catalog client the product handlers use.
type CatalogService interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
	ListCategories(ctx context.Context) ([]string, error)
	CreateProduct(ctx context.Context, input catalog.ProductInput) (*catalog.Product, error)
	UpdateProduct(ctx context.Context, id int64, input catalog.ProductInput) (*catalog.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// ProductList returns the catalog listing. Reads go through the fetcher so a
// newer listing request from the same session supersedes an in-flight one.
func ProductList(svc CatalogService, fetcher *catalog.Fetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		var products []catalog.Product
		err := fetchLatest(r, fetcher, "listing", func(ctx context.Context) error {
			var fetchErr error
			products, fetchErr = svc.ListProducts(ctx)
			return fetchErr
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, products)
	}
}

// ProductDetail returns a single product by id.
func ProductDetail(svc CatalogService, fetcher *catalog.Fetcher, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		id, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var product *catalog.Product
		err = fetchLatest(r, fetcher, "detail", func(ctx context.Context) error {
			var fetchErr error
			product, fetchErr = svc.GetProduct(ctx, id)
			return fetchErr
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductCategories returns the category names.
func ProductCategories(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, categories)
	}
}

type productRequest struct {
	Title       string          `json:"title" validate:"required"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category" validate:"required"`
	Image       string          `json:"image" validate:"omitempty,url"`
}

func (r productRequest) toInput() (catalog.ProductInput, error) {
	if r.Price.IsNegative() {
		return catalog.ProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	return catalog.ProductInput{
		Title:       strings.TrimSpace(r.Title),
		Price:       r.Price,
		Description: r.Description,
		Category:    strings.TrimSpace(r.Category),
		Image:       r.Image,
	}, nil
}

// ProductCreate submits a new product to the upstream catalog. The demo
// upstream echoes the write back without persisting it.
func ProductCreate(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// ProductUpdate replaces a product upstream.
func ProductUpdate(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		id, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ProductDelete removes a product upstream.
func ProductDelete(svc CatalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		id, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"deleted": id})
	}
}

// fetchLatest routes the read through the latest-wins fetcher, keyed by the
// caller's session so one browser tab cannot cancel another visitor's fetch.
func fetchLatest(r *http.Request, fetcher *catalog.Fetcher, view string, fn func(context.Context) error) error {
	if fetcher == nil {
		return fn(r.Context())
	}
	key := fmt.Sprintf("%s:%s", middleware.SessionIDFromContext(r.Context()), view)
	return fetcher.Fetch(r.Context(), key, fn)
}
