package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoader_GetOrLoad_CollapsesConcurrentMisses(t *testing.T) {
	t.Parallel()

	loader := NewLoader(NewMemory(time.Minute, 10))
	var calls atomic.Int32

	load := func(context.Context) ([]byte, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return []byte("value"), nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, _, err := loader.GetOrLoad(context.Background(), "same-key", load)
			if err != nil {
				errCh <- err
				return
			}
			if string(v) != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestLoader_GetOrLoad_ReportsHitAfterFirstLoad(t *testing.T) {
	t.Parallel()

	loader := NewLoader(NewMemory(time.Minute, 10))
	load := func(context.Context) ([]byte, error) { return []byte("cached"), nil }

	if _, hit, err := loader.GetOrLoad(context.Background(), "k", load); err != nil || hit {
		t.Fatalf("first GetOrLoad hit=%v err=%v", hit, err)
	}
	if _, hit, err := loader.GetOrLoad(context.Background(), "k", load); err != nil || !hit {
		t.Fatalf("second GetOrLoad hit=%v err=%v", hit, err)
	}
}

func TestLoader_GetOrLoad_DoesNotCacheFailures(t *testing.T) {
	t.Parallel()

	store := NewMemory(time.Minute, 10)
	loader := NewLoader(store)
	boom := errors.New("boom")

	_, _, err := loader.GetOrLoad(context.Background(), "k", func(context.Context) ([]byte, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected nothing cached after failure")
	}
}

func TestLoader_GetOrLoad_CountsOneMissPerLoad(t *testing.T) {
	t.Parallel()

	store := NewMemory(time.Minute, 10)
	loader := NewLoader(store)
	load := func(context.Context) ([]byte, error) { return []byte("v"), nil }

	if _, _, err := loader.GetOrLoad(context.Background(), "k", load); err != nil {
		t.Fatalf("GetOrLoad error: %v", err)
	}
	if stats := store.Stats(); stats.Misses != 1 || stats.Hits != 0 {
		t.Fatalf("expected exactly one miss, got %+v", stats)
	}
}

func TestLoader_GetOrLoad_CancelledCallerDoesNotFailWaiters(t *testing.T) {
	t.Parallel()

	store := NewMemory(time.Minute, 10)
	loader := NewLoader(store)

	started := make(chan struct{})
	release := make(chan struct{})
	loadErr := make(chan error, 1)
	var calls atomic.Int32
	load := func(ctx context.Context) ([]byte, error) {
		calls.Add(1)
		close(started)
		<-release
		loadErr <- ctx.Err()
		return []byte("shared"), nil
	}

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, _, err := loader.GetOrLoad(firstCtx, "k", load)
		firstErr <- err
	}()

	<-started
	cancel()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancelled caller to return context.Canceled, got %v", err)
	}

	secondDone := make(chan []byte, 1)
	go func() {
		v, _, err := loader.GetOrLoad(context.Background(), "k", load)
		if err != nil {
			secondDone <- nil
			return
		}
		secondDone <- v
	}()
	close(release)

	if got := <-secondDone; string(got) != "shared" {
		t.Fatalf("expected waiter to receive shared value, got %q", got)
	}
	if err := <-loadErr; err != nil {
		t.Fatalf("expected load ctx to ignore caller cancellation, got %v", err)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
