package cache

import (
	"context"
	"errors"

	"golang.org/x/sync/singleflight"
)

// Loader fronts a Store and collapses concurrent misses for one key into a
// single call of the load function. Failed loads are not cached.
//
// The shared load ignores the cancellation of whichever caller started it,
// so load must bound itself. Each caller still returns once its own ctx is
// done.
type Loader struct {
	store  Store
	flight singleflight.Group
}

func NewLoader(store Store) *Loader {
	return &Loader{store: store}
}

func (l *Loader) Store() Store {
	return l.store
}

// GetOrLoad reports hit=true when the value came from the store.
func (l *Loader) GetOrLoad(ctx context.Context, key string, load func(context.Context) ([]byte, error)) (value []byte, hit bool, err error) {
	if load == nil {
		return nil, false, errors.New("loader is required")
	}
	if l.store == nil || key == "" {
		value, err = load(ctx)
		return value, false, err
	}

	if cached, ok := l.store.Get(ctx, key); ok {
		return cached, true, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := l.flight.DoChan(key, func() (any, error) {
		// A flight that finished between the Get above and DoChan has
		// already stored the value; Peek keeps that re-check out of stats.
		if cached, ok := l.peek(loadCtx, key); ok {
			return cached, nil
		}
		loaded, loadErr := load(loadCtx)
		if loadErr != nil {
			return nil, loadErr
		}
		l.store.Set(loadCtx, key, loaded)
		return loaded, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.([]byte), false, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}

func (l *Loader) peek(ctx context.Context, key string) ([]byte, bool) {
	if p, ok := l.store.(Peeker); ok {
		return p.Peek(ctx, key)
	}
	return nil, false
}
