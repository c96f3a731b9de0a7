package order

import (
	"context"
	"errors"
)

// ErrNotFound indicates no draft or order exists under the given key.
var ErrNotFound = errors.New("order: not found")

// Versioned slot prefixes. Bump the version to invalidate stale payloads
// after a schema change.
const (
	draftKeyPrefix = "ig_growth_draft_v1:"
	orderKeyPrefix = "ig_growth_order_v1:"
)

// Store persists each client's draft and order slot. The key is an opaque
// per-client identifier supplied by the frontend.
type Store interface {
	SaveDraft(ctx context.Context, key string, draft Draft) error
	LoadDraft(ctx context.Context, key string) (Draft, error)
	ClearDraft(ctx context.Context, key string) error
	SaveOrder(ctx context.Context, key string, order Order) error
	LoadOrder(ctx context.Context, key string) (Order, error)
	ClearOrder(ctx context.Context, key string) error
}
