package service

import (
	"context"

	"library-catalog/internal/domains/catalog/aggregate"
	"library-catalog/internal/domains/catalog/model"
	"library-catalog/internal/domains/catalog/store"
	"library-catalog/pkg/logger"
)

type indexService struct {
	base
}

func NewIndexService(d Deps) IndexService {
	return &indexService{base: newBase(d)}
}

func countOf[T any](c store.Collection[T], filter store.Filter) aggregate.Counter {
	return func(ctx context.Context) (int, error) {
		return c.Count(ctx, filter)
	}
}

// Counts serves the dashboard counts from the cache when present and
// otherwise runs the five counts concurrently.
func (s *indexService) Counts(ctx context.Context) (*Counts, error) {
	var cached Counts
	found, err := s.cache.Get(ctx, CountsKey, &cached)
	if err != nil {
		logger.Warn("failed to read cached catalog counts", err)
	}
	if found {
		return &cached, nil
	}

	lctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	n, err := aggregate.Counts(lctx, map[string]aggregate.Counter{
		"books":     countOf(s.store.Books(), store.All),
		"instances": countOf(s.store.BookInstances(), store.All),
		"available": countOf(s.store.BookInstances(), store.Where(model.FieldStatus, string(model.StatusAvailable))),
		"authors":   countOf(s.store.Authors(), store.All),
		"genres":    countOf(s.store.Genres(), store.All),
	})
	if err != nil {
		return nil, err
	}

	counts := &Counts{
		Books:              n["books"],
		Instances:          n["instances"],
		InstancesAvailable: n["available"],
		Authors:            n["authors"],
		Genres:             n["genres"],
	}
	if err := s.cache.Set(ctx, CountsKey, counts, s.countsTTL); err != nil {
		logger.Warn("failed to cache catalog counts", err)
	}
	return counts, nil
}

func (s *indexService) Index(ctx context.Context) (*model.Outcome, error) {
	counts, err := s.Counts(ctx)
	if err != nil {
		return nil, err
	}
	return model.View(model.ViewIndex, IndexView{Title: "Local Library Home", Counts: *counts}), nil
}
