package service

import (
	"context"
	"time"

	"library-catalog/internal/domains/catalog/model"
	"library-catalog/internal/domains/catalog/store"
	"library-catalog/pkg/cache"
	"library-catalog/pkg/logger"
)

// CountsKey holds the cached dashboard counts. Every committed mutation
// deletes it.
const CountsKey = "catalog:counts"

// Deps are shared by every catalog service.
type Deps struct {
	Store store.Store
	// Cache may be nil; dashboard counts are then computed on every request.
	Cache cache.Cache
	// LookupTimeout bounds each concurrent join. Zero disables the bound.
	LookupTimeout time.Duration
	CountsTTL     time.Duration
}

type base struct {
	store         store.Store
	cache         cache.Cache
	lookupTimeout time.Duration
	countsTTL     time.Duration
}

func newBase(d Deps) base {
	c := d.Cache
	if c == nil {
		c = cache.Nop{}
	}
	return base{
		store:         d.Store,
		cache:         c,
		lookupTimeout: d.LookupTimeout,
		countsTTL:     d.CountsTTL,
	}
}

func (b base) lookupCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if b.lookupTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, b.lookupTimeout)
}

// committed logs a successful mutation and drops the cached counts. A cache
// failure never fails the mutation.
func (b base) committed(ctx context.Context, kind model.Kind, op, id string) {
	logger.Info("catalog mutation committed", map[string]interface{}{
		"kind": kind,
		"op":   op,
		"id":   id,
	})
	if err := b.cache.Delete(ctx, CountsKey); err != nil {
		logger.Warn("failed to invalidate catalog counts", err)
	}
}

func (b base) refused(kind model.Kind, id string, dependents int) {
	logger.Info("catalog delete refused", map[string]interface{}{
		"kind":       kind,
		"id":         id,
		"dependents": dependents,
	})
}

// Services bundles the catalog services built over one set of Deps.
type Services struct {
	Index     IndexService
	Authors   EntityService
	Genres    EntityService
	Books     BookService
	Instances EntityService
}

func New(d Deps) *Services {
	return &Services{
		Index:     NewIndexService(d),
		Authors:   NewAuthorService(d),
		Genres:    NewGenreService(d),
		Books:     NewBookService(d),
		Instances: NewBookInstanceService(d),
	}
}
