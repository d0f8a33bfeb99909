package service

import (
	"context"

	"library-catalog/internal/domains/catalog/aggregate"
	"library-catalog/internal/domains/catalog/form"
	"library-catalog/internal/domains/catalog/guard"
	"library-catalog/internal/domains/catalog/model"
	"library-catalog/internal/domains/catalog/store"
)

type authorService struct {
	base
}

func NewAuthorService(d Deps) EntityService {
	return &authorService{base: newBase(d)}
}

func (s *authorService) author(id string) func(context.Context) (*model.Author, error) {
	return func(ctx context.Context) (*model.Author, error) {
		return s.store.Authors().GetByID(ctx, id)
	}
}

func (s *authorService) books(id string) func(context.Context) ([]model.Book, error) {
	return func(ctx context.Context) ([]model.Book, error) {
		return s.store.Books().Find(ctx, store.Where(model.FieldAuthor, id),
			store.Select(model.FieldTitle, model.FieldSummary))
	}
}

func (s *authorService) List(ctx context.Context) (*model.Outcome, error) {
	ctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	authors, err := s.store.Authors().Find(ctx, store.All, store.SortBy(model.FieldFamilyName, true))
	if err != nil {
		return nil, err
	}
	return model.View(model.ViewAuthorList, AuthorListView{Title: "Author List", Authors: authors}), nil
}

func (s *authorService) Detail(ctx context.Context, id string) (*model.Outcome, error) {
	ctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	author, books, err := aggregate.WithDependents(ctx, s.author(id), s.books(id))
	if err != nil {
		return nil, err
	}
	return model.View(model.ViewAuthorDetail, AuthorDetailView{Title: "Author Detail", Author: author, Books: books}), nil
}

func (s *authorService) CreateForm(context.Context) (*model.Outcome, error) {
	return model.View(model.ViewAuthorForm, AuthorFormView{Title: "Create Author"}), nil
}

func (s *authorService) Create(ctx context.Context, body form.Body) (*model.Outcome, error) {
	d := form.Author(body, "")
	if !d.Valid() {
		return redisplayAuthor("Create Author", d), nil
	}

	created, err := s.store.Authors().Insert(ctx, d.Entity)
	if err != nil {
		return nil, err
	}
	s.committed(ctx, model.KindAuthor, "create", created.ID)
	return model.Redirect(created.URL()), nil
}

func (s *authorService) UpdateForm(ctx context.Context, id string) (*model.Outcome, error) {
	author, err := s.store.Authors().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return model.View(model.ViewAuthorForm, AuthorFormView{Title: "Update Author", Author: author}), nil
}

func (s *authorService) Update(ctx context.Context, id string, body form.Body) (*model.Outcome, error) {
	d := form.Author(body, id)
	if !d.Valid() {
		return redisplayAuthor("Update Author", d), nil
	}

	updated, err := s.store.Authors().UpdateByID(ctx, id, d.Entity)
	if err != nil {
		return nil, err
	}
	s.committed(ctx, model.KindAuthor, "update", id)
	return model.Redirect(updated.URL()), nil
}

func redisplayAuthor(title string, d form.Draft[model.Author]) *model.Outcome {
	return model.Redisplay(model.ViewAuthorForm, AuthorFormView{
		Title:  title,
		Author: &d.Entity,
		Values: d.Values,
		Errors: d.Errors,
	})
}

func (s *authorService) DeleteForm(ctx context.Context, id string) (*model.Outcome, error) {
	ctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	author, books, err := aggregate.WithDependents(ctx, s.author(id), s.books(id))
	if store.IsNotFound(err) {
		return model.Redirect(model.ListPath(model.KindAuthor)), nil
	}
	if err != nil {
		return nil, err
	}
	return model.View(model.ViewAuthorDelete, AuthorDeleteView{Title: "Delete Author", Author: author, Books: books}), nil
}

func (s *authorService) Delete(ctx context.Context, id string) (*model.Outcome, error) {
	ctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	res, err := guard.Delete(ctx, guard.Plan[model.Author, model.Book]{
		Target:     s.author(id),
		Dependents: s.books(id),
		Delete: func(ctx context.Context) error {
			return s.store.Authors().DeleteByID(ctx, id)
		},
	})
	if err != nil {
		return nil, err
	}

	switch res.Status {
	case guard.StatusBlocked:
		s.refused(model.KindAuthor, id, len(res.Dependents))
		return model.Blocked(model.ViewAuthorDelete, AuthorDeleteView{
			Title:  "Delete Author",
			Author: res.Target,
			Books:  res.Dependents,
		}), nil
	case guard.StatusDeleted:
		s.committed(ctx, model.KindAuthor, "delete", id)
	}
	return model.Redirect(model.ListPath(model.KindAuthor)), nil
}
