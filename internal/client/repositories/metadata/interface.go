// Package metadata is the durable key/value store behind the client session:
// the bearer token, the serialized user, the expiry timestamp and the
// transient identity-provider handoff data all live here.
package metadata

import (
	"context"
)

// Repository is a flat key/value store. Get returns (nil, nil) when the key
// is absent. SetMany writes all pairs or none.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
