package catalog

import (
	"context"
	"sync"
	"testing"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

func TestFetcherLatestWins(t *testing.T) {
	fetcher := NewFetcher()

	firstStarted := make(chan struct{})
	releaseFirst := make(chan struct{})

	var mu sync.Mutex
	var committed []int64

	commit := func(id int64) {
		mu.Lock()
		committed = append(committed, id)
		mu.Unlock()
	}

	var wg sync.WaitGroup
	var firstErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = fetcher.Fetch(context.Background(), "detail", func(ctx context.Context) error {
			close(firstStarted)
			<-releaseFirst
			if ctx.Err() != nil {
				return ctx.Err()
			}
			commit(1)
			return nil
		})
	}()

	<-firstStarted
	secondErr := fetcher.Fetch(context.Background(), "detail", func(ctx context.Context) error {
		commit(2)
		return nil
	})
	close(releaseFirst)
	wg.Wait()

	if secondErr != nil {
		t.Fatalf("newest fetch must succeed, got %v", secondErr)
	}
	if !pkgerrors.IsCancelled(firstErr) {
		t.Fatalf("superseded fetch must report cancellation, got %v", firstErr)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(committed) != 1 || committed[0] != 2 {
		t.Fatalf("only the newest fetch may commit, got %v", committed)
	}
}

func TestFetcherSupersededEvenOnCleanFinish(t *testing.T) {
	fetcher := NewFetcher()

	firstRunning := make(chan struct{})
	releaseFirst := make(chan struct{})

	var wg sync.WaitGroup
	var firstErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = fetcher.Fetch(context.Background(), "listing", func(ctx context.Context) error {
			close(firstRunning)
			<-releaseFirst
			// Ignores cancellation and finishes cleanly.
			return nil
		})
	}()

	<-firstRunning
	if err := fetcher.Fetch(context.Background(), "listing", func(ctx context.Context) error {
		return nil
	}); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	close(releaseFirst)
	wg.Wait()

	if !pkgerrors.IsCancelled(firstErr) {
		t.Fatalf("stale result must be discarded, got %v", firstErr)
	}
}

func TestFetcherIndependentKeys(t *testing.T) {
	fetcher := NewFetcher()

	blocked := make(chan struct{})
	release := make(chan struct{})

	var wg sync.WaitGroup
	var slowErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		slowErr = fetcher.Fetch(context.Background(), "detail:1", func(ctx context.Context) error {
			close(blocked)
			<-release
			return ctx.Err()
		})
	}()

	<-blocked
	if err := fetcher.Fetch(context.Background(), "detail:2", func(ctx context.Context) error {
		return nil
	}); err != nil {
		t.Fatalf("different key must not be superseded: %v", err)
	}

	close(release)
	wg.Wait()
	if slowErr != nil {
		t.Fatalf("fetch with distinct key must complete, got %v", slowErr)
	}
}
