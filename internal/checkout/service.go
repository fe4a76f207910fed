package checkout

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderResult is the outcome of a simulated order placement. The order id is
// generated client-side and has no persistence guarantee beyond the session.
type OrderResult struct {
	OrderID  string          `json:"order_id"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
	PlacedAt time.Time       `json:"placed_at"`
}

// Service gates order submission on field validation, then simulates the
// external order-placement call.
type Service interface {
	PlaceOrder(ctx context.Context, sessionID string, form OrderForm) (*OrderResult, error)
}

// ServiceParams groups dependencies for the checkout service.
type ServiceParams struct {
	Cart    cart.Service
	Config  config.CheckoutConfig
	Logger  *logger.Logger
	Metrics *metrics.StorefrontMetrics

	// FailureSampler returns a value in [0, 1) compared against the
	// configured failure rate. Defaults to math/rand.
	FailureSampler func() float64
}

type service struct {
	cart    cart.Service
	cfg     config.CheckoutConfig
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics
	sample  func() float64

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart service is required")
	}
	sample := params.FailureSampler
	if sample == nil {
		sample = rand.Float64
	}
	return &service{
		cart:     params.Cart,
		cfg:      params.Config,
		logg:     params.Logger,
		metrics:  params.Metrics,
		sample:   sample,
		inflight: make(map[string]struct{}),
	}, nil
}

// PlaceOrder runs validation, guards against duplicate in-flight submissions
// for the same session, simulates the network call, and clears the cart on
// success. The processing guard is released on every exit path.
func (s *service) PlaceOrder(ctx context.Context, sessionID string, form OrderForm) (*OrderResult, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}

	if fieldErrs := Validate(form); len(fieldErrs) > 0 {
		s.metrics.IncCheckout("invalid")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout validation failed").
			WithDetails(map[string]any{"fields": fieldErrs})
	}

	if !s.acquire(sessionID) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "checkout already in progress")
	}
	defer s.release(sessionID)

	current, err := s.cart.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if current.Count() == 0 {
		s.metrics.IncCheckout("invalid")
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	if err := s.simulateLatency(ctx); err != nil {
		s.metrics.IncCheckout("cancelled")
		return nil, err
	}

	if s.cfg.FailureRate > 0 && s.sample() < s.cfg.FailureRate {
		s.metrics.IncCheckout("failed")
		// Simulated decline: the cart is left untouched so the caller
		// can retry.
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order placement failed")
	}

	result := &OrderResult{
		OrderID:  uuid.NewString(),
		Total:    current.Total(),
		Count:    current.Count(),
		PlacedAt: time.Now().UTC(),
	}

	if _, err := s.cart.Clear(ctx, sessionID); err != nil {
		return nil, err
	}

	s.metrics.IncCheckout("success")
	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"session_id": sessionID,
			"order_id":   result.OrderID,
			"item_count": result.Count,
		})
		s.logg.Info(logCtx, "checkout.order_placed")
	}
	return result, nil
}

func (s *service) simulateLatency(ctx context.Context) error {
	if s.cfg.ProcessingDelay <= 0 {
		if err := ctx.Err(); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeCancelled, err, "checkout cancelled")
		}
		return nil
	}
	timer := time.NewTimer(s.cfg.ProcessingDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return pkgerrors.Wrap(pkgerrors.CodeCancelled, ctx.Err(), "checkout cancelled")
	case <-timer.C:
		return nil
	}
}

func (s *service) acquire(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[sessionID]; busy {
		return false
	}
	s.inflight[sessionID] = struct{}{}
	return true
}

func (s *service) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, sessionID)
}
