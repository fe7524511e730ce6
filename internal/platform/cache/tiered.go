package cache

import "context"

// Tiered reads the local store first and falls back to the shared one.
// Shared hits are copied into the local store with their remaining lifetime,
// so a local copy never outlives the shared entry. Shared stores that cannot
// report expiry are read through without a local copy.
type Tiered struct {
	local  Store
	shared Store
}

func NewTiered(local, shared Store) *Tiered {
	return &Tiered{local: local, shared: shared}
}

func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool) {
	if value, ok := t.local.Get(ctx, key); ok {
		return value, true
	}
	if t.shared == nil {
		return nil, false
	}

	shared, ok := t.shared.(ExpiringStore)
	if !ok {
		return t.shared.Get(ctx, key)
	}

	value, expiresAt, ok := shared.GetWithExpiry(ctx, key)
	if !ok {
		return nil, false
	}
	if local, ok := t.local.(ExpiringStore); ok {
		local.SetUntil(ctx, key, value, expiresAt)
	}
	return value, true
}

func (t *Tiered) Set(ctx context.Context, key string, value []byte) {
	t.local.Set(ctx, key, value)
	if t.shared != nil {
		t.shared.Set(ctx, key, value)
	}
}

// Peek checks the local tier only.
func (t *Tiered) Peek(ctx context.Context, key string) ([]byte, bool) {
	if p, ok := t.local.(Peeker); ok {
		return p.Peek(ctx, key)
	}
	return nil, false
}

func (t *Tiered) Stats() Stats {
	if reporter, ok := t.local.(StatsReporter); ok {
		return reporter.Stats()
	}
	return Stats{}
}
