package capabilities

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/odyssey-erp/backoffice-engine/internal/gate"
)

// Loader fetches the authoritative capability names of a user.
type Loader interface {
	Load(ctx context.Context, userID string) ([]string, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, userID string) ([]string, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, userID string) ([]string, error) {
	return f(ctx, userID)
}

// StaticLoader serves a fixed user to capabilities map.
type StaticLoader map[string][]string

// Load implements Loader. Unknown users have no capabilities.
func (l StaticLoader) Load(_ context.Context, userID string) ([]string, error) {
	return l[userID], nil
}

// Resolver reads through a Store and collapses concurrent loads of the same
// user into one.
type Resolver struct {
	store  Store
	loader Loader
	group  singleflight.Group
}

// NewResolver wires a store with its loader.
func NewResolver(store Store, loader Loader) *Resolver {
	return &Resolver{store: store, loader: loader}
}

// Resolve returns the capabilities of userID.
func (r *Resolver) Resolve(ctx context.Context, userID string) (gate.Capabilities, error) {
	if userID == "" {
		return gate.Capabilities{}, ErrUserRequired
	}
	if caps, ok, err := r.store.Get(ctx, userID); err != nil {
		return gate.Capabilities{}, err
	} else if ok {
		return caps, nil
	}

	resultChan := r.group.DoChan(userID, func() (interface{}, error) {
		names, err := r.loader.Load(ctx, userID)
		if err != nil {
			return nil, err
		}
		caps := gate.NewCapabilities(names...)
		if err := r.store.Set(ctx, userID, caps); err != nil {
			return nil, err
		}
		return caps, nil
	})
	select {
	case <-ctx.Done():
		return gate.Capabilities{}, ctx.Err()
	case res := <-resultChan:
		if res.Err != nil {
			return gate.Capabilities{}, res.Err
		}
		return res.Val.(gate.Capabilities), nil
	}
}

// Invalidate forgets the cached set so the next Resolve reloads it.
func (r *Resolver) Invalidate(ctx context.Context, userID string) error {
	return r.store.Invalidate(ctx, userID)
}
