package observability

import (
	"context"
	"sync"
)

// Deduper wraps a Logger and suppresses repeated identical Warn messages.
// Diagnostics that fire once per failed request (a missing runtime directory,
// an unreachable proxy) would otherwise repeat on every retry the user makes;
// the first occurrence is logged, subsequent identical ones are dropped.
// Messages are compared by their text only, not their attributes.
//
// Debug, Info and Error pass through untouched.
type Deduper struct {
	inner Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewDeduper wraps inner with warning deduplication.
func NewDeduper(inner Logger) *Deduper {
	return &Deduper{inner: inner, seen: map[string]struct{}{}}
}

var _ Logger = (*Deduper)(nil)

func (d *Deduper) Debug(ctx context.Context, msg string, attrs ...Attribute) {
	d.inner.Debug(ctx, msg, attrs...)
}

func (d *Deduper) Info(ctx context.Context, msg string, attrs ...Attribute) {
	d.inner.Info(ctx, msg, attrs...)
}

func (d *Deduper) Warn(ctx context.Context, msg string, attrs ...Attribute) {
	d.mu.Lock()
	_, repeated := d.seen[msg]
	if !repeated {
		d.seen[msg] = struct{}{}
	}
	d.mu.Unlock()

	if repeated {
		return
	}
	d.inner.Warn(ctx, msg, attrs...)
}

func (d *Deduper) Error(ctx context.Context, msg string, attrs ...Attribute) {
	d.inner.Error(ctx, msg, attrs...)
}
