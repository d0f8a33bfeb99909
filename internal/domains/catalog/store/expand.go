package store

import (
	"context"
	"fmt"

	"library-catalog/internal/domains/catalog/model"
)

// expander fills the expansion fields of docs for the requested relations.
type expander[T any] func(ctx context.Context, docs []T, rels []Relation) error

// A reference to a document that no longer exists stays unexpanded.
func lookupAll[T any](ctx context.Context, c Collection[T], ids []string) (map[string]T, error) {
	found := make(map[string]T, len(ids))
	for _, id := range ids {
		if _, ok := found[id]; ok {
			continue
		}
		doc, err := c.GetByID(ctx, id)
		if IsNotFound(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		found[id] = *doc
	}
	return found, nil
}

func unsupported(kind model.Kind, rel Relation) error {
	return model.NewStoreError("expand", kind, fmt.Errorf("unsupported relation %q", rel))
}

func noExpansion[T any](kind model.Kind) expander[T] {
	return func(_ context.Context, _ []T, rels []Relation) error {
		if len(rels) > 0 {
			return unsupported(kind, rels[0])
		}
		return nil
	}
}

func expandBooks(s Store) expander[model.Book] {
	return func(ctx context.Context, books []model.Book, rels []Relation) error {
		for _, rel := range rels {
			switch rel {
			case RelAuthor:
				ids := make([]string, 0, len(books))
				for _, b := range books {
					ids = append(ids, b.AuthorID)
				}
				authors, err := lookupAll(ctx, s.Authors(), ids)
				if err != nil {
					return err
				}
				for i := range books {
					if a, ok := authors[books[i].AuthorID]; ok {
						books[i].Author = &a
					}
				}
			case RelGenre:
				var ids []string
				for _, b := range books {
					ids = append(ids, b.GenreIDs...)
				}
				genres, err := lookupAll(ctx, s.Genres(), ids)
				if err != nil {
					return err
				}
				for i := range books {
					books[i].Genres = make([]model.Genre, 0, len(books[i].GenreIDs))
					for _, id := range books[i].GenreIDs {
						if g, ok := genres[id]; ok {
							books[i].Genres = append(books[i].Genres, g)
						}
					}
				}
			default:
				return unsupported(model.KindBook, rel)
			}
		}
		return nil
	}
}

func expandInstances(s Store) expander[model.BookInstance] {
	return func(ctx context.Context, instances []model.BookInstance, rels []Relation) error {
		for _, rel := range rels {
			if rel != RelBook {
				return unsupported(model.KindBookInstance, rel)
			}
			ids := make([]string, 0, len(instances))
			for _, bi := range instances {
				ids = append(ids, bi.BookID)
			}
			books, err := lookupAll(ctx, s.Books(), ids)
			if err != nil {
				return err
			}
			for i := range instances {
				if b, ok := books[instances[i].BookID]; ok {
					instances[i].Book = &b
				}
			}
		}
		return nil
	}
}
