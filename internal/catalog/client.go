package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

// Product mirrors the upstream catalog representation.
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Rating      *Rating         `json:"rating,omitempty"`
}

type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// ProductInput carries the writable product fields. The upstream demo API
// echoes writes back without persisting them; callers must treat responses
// as advisory.
type ProductInput struct {
	Title       string          `json:"title"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Image       string          `json:"image"`
}

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client exposes the external catalog API with centralized timeout handling,
// logging, and error mapping.
type Client struct {
	baseURL string
	http    doer
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
}

// NewClient validates the configuration and builds the catalog client.
func NewClient(cfg config.CatalogConfig, logg *logger.Logger, m *metrics.StorefrontMetrics) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("catalog base url is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("parsing catalog base url: %w", err)
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		logg:    logg,
		metrics: m,
	}, nil
}

// ListProducts returns the full product listing.
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, "list_products", http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct returns a single product by id.
func (c *Client) GetProduct(ctx context.Context, id int64) (*Product, error) {
	var product Product
	if err := c.do(ctx, "get_product", http.MethodGet, fmt.Sprintf("/products/%d", id), nil, &product); err != nil {
		return nil, err
	}
	// The demo API answers 200 with an empty body for unknown ids.
	if product.ID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return &product, nil
}

// ListCategories returns the category names.
func (c *Client) ListCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.do(ctx, "list_categories", http.MethodGet, "/products/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateProduct submits a new product. The write is advisory only.
func (c *Client) CreateProduct(ctx context.Context, input ProductInput) (*Product, error) {
	var product Product
	if err := c.do(ctx, "create_product", http.MethodPost, "/products", input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct replaces a product. The write is advisory only.
func (c *Client) UpdateProduct(ctx context.Context, id int64, input ProductInput) (*Product, error) {
	var product Product
	if err := c.do(ctx, "update_product", http.MethodPut, fmt.Sprintf("/products/%d", id), input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product. The write is advisory only.
func (c *Client) DeleteProduct(ctx context.Context, id int64) error {
	return c.do(ctx, "delete_product", http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, nil)
}

// Ping verifies the upstream is reachable.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListCategories(ctx)
	return err
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "serialize catalog request")
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build catalog request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	c.metrics.ObserveCatalogDuration(op, time.Since(start))
	if err != nil {
		return c.mapTransportError(ctx, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		c.log(ctx, op, map[string]any{"status": resp.StatusCode})
		return c.mapStatusError(resp.StatusCode, op)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode catalog %s response", op))
	}
	return nil
}

// mapTransportError distinguishes superseded work from real failures:
// cancellation must never surface as a fetch error.
func (c *Client) mapTransportError(ctx context.Context, op string, err error) error {
	if errors.Is(err, context.Canceled) {
		return pkgerrors.Wrap(pkgerrors.CodeCancelled, err, fmt.Sprintf("catalog %s cancelled", op))
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("catalog %s timed out", op))
	}
	c.log(ctx, op, map[string]any{"error": err.Error()})
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("catalog %s failed", op))
}

func (c *Client) mapStatusError(status int, op string) error {
	switch {
	case status == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	case status >= 400 && status < 500:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("catalog rejected %s", op))
	default:
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("catalog %s failed with status %d", op, status))
	}
}

func (c *Client) log(ctx context.Context, op string, fields map[string]any) {
	if c == nil || c.logg == nil {
		return
	}
	logFields := map[string]any{"operation": op}
	for k, v := range fields {
		logFields[k] = v
	}
	c.logg.Warn(c.logg.WithFields(ctx, logFields), "catalog.request_failed")
}
