package cart

import (
	"context"
	"strings"
	"sync"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
)

// Service is the single source of truth for cart contents. All mutations go
// through it; every mutation re-derives count/total and triggers a
// best-effort snapshot write that never fails the logical operation.
type Service interface {
	Get(ctx context.Context, sessionID string) (*Cart, error)
	AddItem(ctx context.Context, sessionID string, snapshot ProductSnapshot, qty int) (*Cart, error)
	UpdateQuantity(ctx context.Context, sessionID string, productID int64, qty int) (*Cart, error)
	RemoveItem(ctx context.Context, sessionID string, productID int64) (*Cart, error)
	Clear(ctx context.Context, sessionID string) (*Cart, error)
}

// ServiceParams groups dependencies for the cart service.
type ServiceParams struct {
	Storage Storage
	Logger  *logger.Logger
	Metrics *metrics.StorefrontMetrics
}

type service struct {
	storage Storage
	logg    *logger.Logger
	metrics *metrics.StorefrontMetrics

	mu       sync.RWMutex
	sessions map[string]*Cart
}

// NewService builds a cart service backed by the provided snapshot storage.
func NewService(params ServiceParams) (Service, error) {
	if params.Storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart storage is required")
	}
	return &service{
		storage:  params.Storage,
		logg:     params.Logger,
		metrics:  params.Metrics,
		sessions: make(map[string]*Cart),
	}, nil
}

// Get returns the session's cart, rehydrating it from storage on first use.
func (s *service) Get(ctx context.Context, sessionID string) (*Cart, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	return s.snapshot(ctx, sessionID), nil
}

// AddItem merges the product snapshot into the cart. An existing line for the
// same product id has its quantity incremented; otherwise a new line is
// appended with only the snapshot fields. Non-positive quantities are
// rejected rather than stored.
func (s *service) AddItem(ctx context.Context, sessionID string, snapshot ProductSnapshot, qty int) (*Cart, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	if snapshot.ProductID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if strings.TrimSpace(snapshot.Title) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product title is required")
	}
	if snapshot.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product price cannot be negative")
	}
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	current := s.hydrate(ctx, sessionID)

	s.mu.Lock()
	current.Items = mergeAdd(current.Items, snapshot, qty)
	result := current.Clone()
	s.mu.Unlock()

	s.metrics.IncCartOp("add")
	s.persist(ctx, sessionID, result)
	return result, nil
}

// UpdateQuantity sets the matching line's quantity. A non-positive quantity
// removes the line instead. Unknown product ids are a no-op.
func (s *service) UpdateQuantity(ctx context.Context, sessionID string, productID int64, qty int) (*Cart, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	current := s.hydrate(ctx, sessionID)

	s.mu.Lock()
	next, changed := setQuantity(current.Items, productID, qty)
	current.Items = next
	result := current.Clone()
	s.mu.Unlock()

	if changed {
		s.metrics.IncCartOp("update_quantity")
		s.persist(ctx, sessionID, result)
	}
	return result, nil
}

// RemoveItem drops the line for the product id; absent ids are a no-op.
func (s *service) RemoveItem(ctx context.Context, sessionID string, productID int64) (*Cart, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	current := s.hydrate(ctx, sessionID)

	s.mu.Lock()
	current.Items = removeItem(current.Items, productID)
	result := current.Clone()
	s.mu.Unlock()

	s.metrics.IncCartOp("remove")
	s.persist(ctx, sessionID, result)
	return result, nil
}

// Clear empties the cart unconditionally.
func (s *service) Clear(ctx context.Context, sessionID string) (*Cart, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	current := s.hydrate(ctx, sessionID)

	s.mu.Lock()
	current.Items = nil
	result := current.Clone()
	s.mu.Unlock()

	s.metrics.IncCartOp("clear")
	s.persist(ctx, sessionID, result)
	return result, nil
}

// hydrate returns the authoritative in-memory cart for the session, reading
// the stored snapshot exactly once. A missing or unparsable snapshot yields
// an empty cart and never fails.
func (s *service) hydrate(ctx context.Context, sessionID string) *Cart {
	s.mu.RLock()
	cached, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if ok {
		return cached
	}

	loaded, err := s.storage.Load(ctx, sessionID)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"session_id": sessionID,
				"error":      err.Error(),
			}), "cart.snapshot.load_failed")
		}
		loaded = nil
	}
	if loaded == nil {
		loaded = &Cart{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[sessionID]; ok {
		return existing
	}
	s.sessions[sessionID] = loaded
	return loaded
}

func (s *service) snapshot(ctx context.Context, sessionID string) *Cart {
	current := s.hydrate(ctx, sessionID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return current.Clone()
}

// persist writes the snapshot best-effort. Failures are logged and counted,
// never surfaced: the in-memory cart stays authoritative for the session.
func (s *service) persist(ctx context.Context, sessionID string, cart *Cart) {
	if err := s.storage.Save(ctx, sessionID, cart); err != nil {
		s.metrics.IncPersistFailure()
		if s.logg != nil {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
				"session_id": sessionID,
				"error":      err.Error(),
			}), "cart.snapshot.save_failed")
		}
	}
}

func validateSessionID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	return nil
}
