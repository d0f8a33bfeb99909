package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"library-catalog/internal/domains/catalog/model"
)

// document is implemented by every catalog entity.
type document[T any] interface {
	DocID() string
	WithID(id string) T
	Bare() T
	Match(field, value string) bool
	SortKey(field string) string
	Project(fields []string) T
	UniqueKey() string
}

// MemoryStore keeps the catalog in process memory. Writes are serialized per
// collection and every read hands out copies.
type MemoryStore struct {
	authors   *memoryCollection[model.Author]
	genres    *memoryCollection[model.Genre]
	books     *memoryCollection[model.Book]
	instances *memoryCollection[model.BookInstance]
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	s.authors = newMemoryCollection(model.KindAuthor, noExpansion[model.Author](model.KindAuthor))
	s.genres = newMemoryCollection(model.KindGenre, noExpansion[model.Genre](model.KindGenre))
	s.books = newMemoryCollection(model.KindBook, expandBooks(s))
	s.instances = newMemoryCollection(model.KindBookInstance, expandInstances(s))
	return s
}

func (s *MemoryStore) Authors() Collection[model.Author]             { return s.authors }
func (s *MemoryStore) Genres() Collection[model.Genre]               { return s.genres }
func (s *MemoryStore) Books() Collection[model.Book]                 { return s.books }
func (s *MemoryStore) BookInstances() Collection[model.BookInstance] { return s.instances }

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

type memoryCollection[T document[T]] struct {
	kind   model.Kind
	expand expander[T]

	mu     sync.RWMutex
	docs   map[string]T
	order  []string
	unique map[string]string
}

func newMemoryCollection[T document[T]](kind model.Kind, expand expander[T]) *memoryCollection[T] {
	return &memoryCollection[T]{
		kind:   kind,
		expand: expand,
		docs:   make(map[string]T),
		unique: make(map[string]string),
	}
}

func (c *memoryCollection[T]) alive(ctx context.Context, op string) error {
	return model.NewStoreError(op, c.kind, ctx.Err())
}

func (c *memoryCollection[T]) GetByID(ctx context.Context, id string) (*T, error) {
	if err := c.alive(ctx, "get"); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, ok := c.docs[id]
	if !ok {
		return nil, model.NotFound(c.kind, id)
	}
	out := doc.Bare()
	return &out, nil
}

func (c *memoryCollection[T]) Find(ctx context.Context, filter Filter, opts ...FindOption) ([]T, error) {
	if err := c.alive(ctx, "find"); err != nil {
		return nil, err
	}
	o := buildOptions(opts)

	c.mu.RLock()
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		if doc := c.docs[id]; matches(doc, filter) {
			out = append(out, doc.Bare())
		}
	}
	c.mu.RUnlock()

	if o.SortField != "" {
		slices.SortStableFunc(out, func(a, b T) int {
			cmp := strings.Compare(a.SortKey(o.SortField), b.SortKey(o.SortField))
			if !o.Ascending {
				cmp = -cmp
			}
			return cmp
		})
	}

	// Expansion reads other collections, so it runs without this lock held.
	if err := c.expand(ctx, out, o.Expand); err != nil {
		return nil, err
	}
	if len(o.Fields) > 0 {
		for i := range out {
			out[i] = out[i].Project(o.Fields)
		}
	}
	return out, nil
}

func (c *memoryCollection[T]) Count(ctx context.Context, filter Filter) (int, error) {
	if err := c.alive(ctx, "count"); err != nil {
		return 0, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, doc := range c.docs {
		if matches(doc, filter) {
			n++
		}
	}
	return n, nil
}

func (c *memoryCollection[T]) Insert(ctx context.Context, draft T) (*T, error) {
	if err := c.alive(ctx, "insert"); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	doc := draft.WithID(uuid.NewString()).Bare()
	if key := doc.UniqueKey(); key != "" {
		if _, taken := c.unique[key]; taken {
			return nil, model.Duplicate(c.kind, key)
		}
		c.unique[key] = doc.DocID()
	}
	c.docs[doc.DocID()] = doc
	c.order = append(c.order, doc.DocID())

	out := doc.Bare()
	return &out, nil
}

func (c *memoryCollection[T]) UpdateByID(ctx context.Context, id string, draft T) (*T, error) {
	if err := c.alive(ctx, "update"); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	prev, ok := c.docs[id]
	if !ok {
		return nil, model.NotFound(c.kind, id)
	}
	doc := draft.WithID(id).Bare()
	if key := doc.UniqueKey(); key != "" {
		if owner, taken := c.unique[key]; taken && owner != id {
			return nil, model.Duplicate(c.kind, key)
		}
	}
	if key := prev.UniqueKey(); key != "" {
		delete(c.unique, key)
	}
	if key := doc.UniqueKey(); key != "" {
		c.unique[key] = id
	}
	c.docs[id] = doc

	out := doc.Bare()
	return &out, nil
}

func (c *memoryCollection[T]) DeleteByID(ctx context.Context, id string) error {
	if err := c.alive(ctx, "delete"); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, ok := c.docs[id]
	if !ok {
		return model.NotFound(c.kind, id)
	}
	if key := doc.UniqueKey(); key != "" {
		delete(c.unique, key)
	}
	delete(c.docs, id)
	c.order = slices.DeleteFunc(c.order, func(v string) bool { return v == id })
	return nil
}

func matches[T document[T]](doc T, filter Filter) bool {
	for field, value := range filter {
		if !doc.Match(field, value) {
			return false
		}
	}
	return true
}
