package service

import (
	"context"

	"library-catalog/internal/domains/catalog/aggregate"
	"library-catalog/internal/domains/catalog/form"
	"library-catalog/internal/domains/catalog/guard"
	"library-catalog/internal/domains/catalog/model"
	"library-catalog/internal/domains/catalog/store"
)

type bookService struct {
	base
}

func NewBookService(d Deps) BookService {
	return &bookService{base: newBase(d)}
}

func (s *bookService) book(id string, rels ...store.Relation) func(context.Context) (*model.Book, error) {
	return func(ctx context.Context) (*model.Book, error) {
		if len(rels) == 0 {
			return s.store.Books().GetByID(ctx, id)
		}
		return store.FindOne(ctx, s.store.Books(), store.Where(model.FieldID, id), store.Expand(rels...))
	}
}

func (s *bookService) instances(id string) func(context.Context) ([]model.BookInstance, error) {
	return func(ctx context.Context) ([]model.BookInstance, error) {
		return s.store.BookInstances().Find(ctx, store.Where(model.FieldBook, id))
	}
}

func (s *bookService) authors(ctx context.Context) ([]model.Author, error) {
	return s.store.Authors().Find(ctx, store.All, store.SortBy(model.FieldFamilyName, true))
}

func (s *bookService) genres(ctx context.Context) ([]model.Genre, error) {
	return s.store.Genres().Find(ctx, store.All, store.SortBy(model.FieldName, true))
}

// references loads every author and genre for the book form.
func (s *bookService) references(ctx context.Context) ([]model.Author, []model.Genre, error) {
	ctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	res, err := aggregate.Run(ctx, map[string]aggregate.Lookup{
		"authors": aggregate.Typed(s.authors),
		"genres":  aggregate.Typed(s.genres),
	})
	if err != nil {
		return nil, nil, err
	}
	return aggregate.Value[[]model.Author](res, "authors"), aggregate.Value[[]model.Genre](res, "genres"), nil
}

func (s *bookService) List(ctx context.Context) (*model.Outcome, error) {
	ctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	books, err := s.store.Books().Find(ctx, store.All,
		store.Select(model.FieldTitle, model.FieldAuthor),
		store.SortBy(model.FieldTitle, true),
		store.Expand(store.RelAuthor))
	if err != nil {
		return nil, err
	}
	return model.View(model.ViewBookList, BookListView{Title: "Book List", Books: books}), nil
}

func (s *bookService) Detail(ctx context.Context, id string) (*model.Outcome, error) {
	ctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	book, instances, err := aggregate.WithDependents(ctx, s.book(id, store.RelAuthor, store.RelGenre), s.instances(id))
	if err != nil {
		return nil, err
	}
	return model.View(model.ViewBookDetail, BookDetailView{Title: book.Title, Book: book, Instances: instances}), nil
}

func (s *bookService) CreateForm(ctx context.Context) (*model.Outcome, error) {
	authors, genres, err := s.references(ctx)
	if err != nil {
		return nil, err
	}
	return model.View(model.ViewBookForm, BookFormView{
		Title:   "Create Book",
		Authors: authors,
		Genres:  form.MarkSelected(genres, nil),
	}), nil
}

// checkAuthor adds a field error when an otherwise valid draft names an
// author that does not exist.
func (s *bookService) checkAuthor(ctx context.Context, d form.Draft[model.Book]) (form.Draft[model.Book], error) {
	if !d.Valid() {
		return d, nil
	}
	_, err := s.store.Authors().GetByID(ctx, d.Entity.AuthorID)
	if store.IsNotFound(err) {
		return d.WithError(model.FieldAuthor, "Author not found"), nil
	}
	return d, err
}

func (s *bookService) redisplay(ctx context.Context, title string, d form.Draft[model.Book]) (*model.Outcome, error) {
	authors, genres, err := s.references(ctx)
	if err != nil {
		return nil, err
	}
	return model.Redisplay(model.ViewBookForm, BookFormView{
		Title:   title,
		Book:    &d.Entity,
		Authors: authors,
		Genres:  form.MarkSelected(genres, d.Entity.GenreIDs),
		Values:  d.Values,
		Errors:  d.Errors,
	}), nil
}

func (s *bookService) Create(ctx context.Context, body form.Body) (*model.Outcome, error) {
	d, err := s.checkAuthor(ctx, form.Book(body, ""))
	if err != nil {
		return nil, err
	}
	if !d.Valid() {
		return s.redisplay(ctx, "Create Book", d)
	}

	created, err := s.store.Books().Insert(ctx, d.Entity)
	if err != nil {
		return nil, err
	}
	s.committed(ctx, model.KindBook, "create", created.ID)
	return model.Redirect(created.URL()), nil
}

func (s *bookService) UpdateForm(ctx context.Context, id string) (*model.Outcome, error) {
	ctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	res, err := aggregate.Run(ctx, map[string]aggregate.Lookup{
		"book":    aggregate.Typed(s.book(id)),
		"authors": aggregate.Typed(s.authors),
		"genres":  aggregate.Typed(s.genres),
	})
	if err != nil {
		return nil, err
	}

	book := aggregate.Value[*model.Book](res, "book")
	return model.View(model.ViewBookForm, BookFormView{
		Title:   "Update Book",
		Book:    book,
		Authors: aggregate.Value[[]model.Author](res, "authors"),
		Genres:  form.MarkSelected(aggregate.Value[[]model.Genre](res, "genres"), book.GenreIDs),
	}), nil
}

func (s *bookService) Update(ctx context.Context, id string, body form.Body) (*model.Outcome, error) {
	d, err := s.checkAuthor(ctx, form.Book(body, id))
	if err != nil {
		return nil, err
	}
	if !d.Valid() {
		return s.redisplay(ctx, "Update Book", d)
	}

	updated, err := s.store.Books().UpdateByID(ctx, id, d.Entity)
	if err != nil {
		return nil, err
	}
	s.committed(ctx, model.KindBook, "update", id)
	return model.Redirect(updated.URL()), nil
}

func (s *bookService) DeleteForm(ctx context.Context, id string) (*model.Outcome, error) {
	ctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	book, instances, err := aggregate.WithDependents(ctx, s.book(id, store.RelAuthor), s.instances(id))
	if store.IsNotFound(err) {
		return model.Redirect(model.ListPath(model.KindBook)), nil
	}
	if err != nil {
		return nil, err
	}
	return model.View(model.ViewBookDelete, BookDeleteView{Title: "Delete Book", Book: book, Instances: instances}), nil
}

func (s *bookService) Delete(ctx context.Context, id string) (*model.Outcome, error) {
	ctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	res, err := guard.Delete(ctx, guard.Plan[model.Book, model.BookInstance]{
		Target:     s.book(id),
		Dependents: s.instances(id),
		Delete: func(ctx context.Context) error {
			return s.store.Books().DeleteByID(ctx, id)
		},
	})
	if err != nil {
		return nil, err
	}

	switch res.Status {
	case guard.StatusBlocked:
		s.refused(model.KindBook, id, len(res.Dependents))
		return model.Blocked(model.ViewBookDelete, BookDeleteView{
			Title:     "Delete Book",
			Book:      res.Target,
			Instances: res.Dependents,
		}), nil
	case guard.StatusDeleted:
		s.committed(ctx, model.KindBook, "delete", id)
	}
	return model.Redirect(model.ListPath(model.KindBook)), nil
}
