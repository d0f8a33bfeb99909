// Package aggregate runs independent catalog lookups concurrently and joins
// their results into one view. The first failure cancels the remaining
// lookups and is the error reported.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"library-catalog/internal/domains/catalog/model"
)

// Lookup is one named unit of work of a join.
type Lookup func(ctx context.Context) (any, error)

// Results are readable only after Run returned.
type Results map[string]any

// Run starts every lookup at once and waits for all of them.
func Run(ctx context.Context, lookups map[string]Lookup) (Results, error) {
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	results := make(Results, len(lookups))
	for name, lookup := range lookups {
		g.Go(func() error {
			v, err := lookup(gctx)
			if err != nil {
				return fmt.Errorf("lookup %s: %w", name, err)
			}
			mu.Lock()
			results[name] = v
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Value reads a typed result. A missing or mistyped entry gives the zero value.
func Value[T any](r Results, name string) T {
	v, _ := r[name].(T)
	return v
}

// Typed adapts a typed lookup to a Lookup.
func Typed[T any](fn func(ctx context.Context) (T, error)) Lookup {
	return func(ctx context.Context) (any, error) {
		return fn(ctx)
	}
}

const (
	primaryKey    = "primary"
	dependentsKey = "dependents"
)

// WithDependents fetches an entity and the entities referencing it. When the
// entity does not exist the dependents are discarded and the error wraps
// model.ErrNotFound.
func WithDependents[P, D any](
	ctx context.Context,
	primary func(context.Context) (*P, error),
	dependents func(context.Context) ([]D, error),
) (*P, []D, error) {
	res, err := Run(ctx, map[string]Lookup{
		primaryKey:    Typed(primary),
		dependentsKey: Typed(dependents),
	})
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil, model.ErrNotFound
		}
		return nil, nil, err
	}
	p := Value[*P](res, primaryKey)
	if p == nil {
		return nil, nil, model.ErrNotFound
	}
	deps := Value[[]D](res, dependentsKey)
	if deps == nil {
		deps = []D{}
	}
	return p, deps, nil
}

// Counter returns the size of one collection slice.
type Counter func(ctx context.Context) (int, error)

// Counts runs every counter concurrently.
func Counts(ctx context.Context, counters map[string]Counter) (map[string]int, error) {
	lookups := make(map[string]Lookup, len(counters))
	for name, c := range counters {
		lookups[name] = Typed(c)
	}
	res, err := Run(ctx, lookups)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int, len(res))
	for name := range counters {
		out[name] = Value[int](res, name)
	}
	return out, nil
}
