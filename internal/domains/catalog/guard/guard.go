package guard

import (
	"context"
	"errors"

	"library-catalog/internal/domains/catalog/aggregate"
	"library-catalog/internal/domains/catalog/model"
)

type Status string

const (
	StatusDeleted Status = "deleted"
	// StatusAbsent means the target did not exist; deletion is idempotent.
	StatusAbsent  Status = "absent"
	StatusBlocked Status = "blocked"
)

// None is the dependent type of kinds nothing references.
type None struct{}

// Plan describes one guarded deletion. Dependents may be nil for kinds that
// cannot be referenced.
type Plan[T, D any] struct {
	Target     func(ctx context.Context) (*T, error)
	Dependents func(ctx context.Context) ([]D, error)
	Delete     func(ctx context.Context) error
}

type Result[T, D any] struct {
	Status     Status
	Target     *T
	Dependents []D
}

func noDependents[D any](context.Context) ([]D, error) {
	return nil, nil
}

// Delete fetches the target and its dependents concurrently and deletes the
// target only when nothing references it. Delete is called at most once.
func Delete[T, D any](ctx context.Context, p Plan[T, D]) (*Result[T, D], error) {
	dependents := p.Dependents
	if dependents == nil {
		dependents = noDependents[D]
	}

	target, deps, err := aggregate.WithDependents(ctx, p.Target, dependents)
	if errors.Is(err, model.ErrNotFound) {
		return &Result[T, D]{Status: StatusAbsent}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(deps) > 0 {
		return &Result[T, D]{Status: StatusBlocked, Target: target, Dependents: deps}, nil
	}

	if err := p.Delete(ctx); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return &Result[T, D]{Status: StatusAbsent}, nil
		}
		return nil, err
	}
	return &Result[T, D]{Status: StatusDeleted, Target: target}, nil
}
