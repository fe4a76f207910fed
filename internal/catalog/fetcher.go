package catalog

import (
	"context"
	"sync"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

type fetchHandle struct {
	cancel context.CancelFunc
}

// Fetcher serializes fetches per logical key with latest-wins semantics:
// starting a fetch cancels the previous in-flight fetch for the same key, and
// a superseded fetch can never commit its result. Supersession is reported as
// a cancelled error, not a failure.
type Fetcher struct {
	mu       sync.Mutex
	inflight map[string]*fetchHandle
}

// NewFetcher builds an empty fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{inflight: make(map[string]*fetchHandle)}
}

// Fetch runs fn under a cancellable context tied to the key. If a newer fetch
// for the same key starts while fn is running, fn's context is cancelled and
// Fetch returns a cancelled error regardless of fn's outcome.
func (f *Fetcher) Fetch(ctx context.Context, key string, fn func(context.Context) error) error {
	fetchCtx, cancel := context.WithCancel(ctx)
	handle := &fetchHandle{cancel: cancel}

	f.mu.Lock()
	if prev, ok := f.inflight[key]; ok {
		prev.cancel()
	}
	f.inflight[key] = handle
	f.mu.Unlock()

	err := fn(fetchCtx)

	f.mu.Lock()
	current := f.inflight[key] == handle
	if current {
		delete(f.inflight, key)
	}
	f.mu.Unlock()
	cancel()

	if !current {
		// A newer fetch took over; this result must be discarded even
		// if fn happened to finish cleanly.
		return pkgerrors.New(pkgerrors.CodeCancelled, "fetch superseded")
	}
	return err
}
