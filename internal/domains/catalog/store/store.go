package store

import (
	"context"
	"errors"

	"library-catalog/internal/domains/catalog/model"
)

// Filter is a conjunction of field = value conditions. Collection fields
// (a book's genres) match by membership.
type Filter map[string]string

// All matches every document.
var All Filter

func Where(field, value string) Filter {
	return Filter{field: value}
}

// Relation names a reference that Find can replace with the referenced document.
type Relation string

const (
	RelAuthor Relation = "author"
	RelGenre  Relation = "genre"
	RelBook   Relation = "book"
)

type FindOptions struct {
	Fields    []string
	SortField string
	Ascending bool
	Expand    []Relation
}

type FindOption func(*FindOptions)

// Select restricts returned documents to the given fields plus id.
func Select(fields ...string) FindOption {
	return func(o *FindOptions) { o.Fields = fields }
}

func SortBy(field string, ascending bool) FindOption {
	return func(o *FindOptions) {
		o.SortField = field
		o.Ascending = ascending
	}
}

func Expand(relations ...Relation) FindOption {
	return func(o *FindOptions) { o.Expand = relations }
}

func buildOptions(opts []FindOption) FindOptions {
	var o FindOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Collection is the per-kind persistence contract. Lookups return
// model.ErrNotFound for missing ids; Insert and UpdateByID return
// model.ErrDuplicate on a unique conflict; anything else is a *model.StoreError.
type Collection[T any] interface {
	GetByID(ctx context.Context, id string) (*T, error)
	Find(ctx context.Context, filter Filter, opts ...FindOption) ([]T, error)
	Count(ctx context.Context, filter Filter) (int, error)
	Insert(ctx context.Context, draft T) (*T, error)
	UpdateByID(ctx context.Context, id string, draft T) (*T, error)
	DeleteByID(ctx context.Context, id string) error
}

type Store interface {
	Authors() Collection[model.Author]
	Genres() Collection[model.Genre]
	Books() Collection[model.Book]
	BookInstances() Collection[model.BookInstance]
	Ping(ctx context.Context) error
}

// FindOne returns the first document matching filter, or model.ErrNotFound.
func FindOne[T any](ctx context.Context, c Collection[T], filter Filter, opts ...FindOption) (*T, error) {
	docs, err := c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, model.ErrNotFound
	}
	return &docs[0], nil
}

// IsNotFound is a shorthand used along read paths.
func IsNotFound(err error) bool {
	return errors.Is(err, model.ErrNotFound)
}
