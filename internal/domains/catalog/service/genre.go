package service

import (
	"context"
	"errors"

	"library-catalog/internal/domains/catalog/aggregate"
	"library-catalog/internal/domains/catalog/form"
	"library-catalog/internal/domains/catalog/guard"
	"library-catalog/internal/domains/catalog/model"
	"library-catalog/internal/domains/catalog/store"
)

type genreService struct {
	base
}

func NewGenreService(d Deps) EntityService {
	return &genreService{base: newBase(d)}
}

// FindOrCreateGenre resolves draft to the genre carrying the same name,
// creating it when none exists. A concurrent insert of the same name
// resolves to the winner. created reports whether this call inserted it.
func FindOrCreateGenre(ctx context.Context, genres store.Collection[model.Genre], draft model.Genre) (g *model.Genre, created bool, err error) {
	byName := store.Where(model.FieldName, draft.Name)

	existing, err := store.FindOne(ctx, genres, byName)
	if err == nil {
		return existing, false, nil
	}
	if !store.IsNotFound(err) {
		return nil, false, err
	}

	g, err = genres.Insert(ctx, draft)
	if errors.Is(err, model.ErrDuplicate) {
		existing, err := store.FindOne(ctx, genres, byName)
		return existing, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return g, true, nil
}

func (s *genreService) genre(id string) func(context.Context) (*model.Genre, error) {
	return func(ctx context.Context) (*model.Genre, error) {
		return s.store.Genres().GetByID(ctx, id)
	}
}

func (s *genreService) books(id string) func(context.Context) ([]model.Book, error) {
	return func(ctx context.Context) ([]model.Book, error) {
		return s.store.Books().Find(ctx, store.Where(model.FieldGenre, id),
			store.Select(model.FieldTitle, model.FieldSummary))
	}
}

func (s *genreService) List(ctx context.Context) (*model.Outcome, error) {
	ctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	genres, err := s.store.Genres().Find(ctx, store.All, store.SortBy(model.FieldName, true))
	if err != nil {
		return nil, err
	}
	return model.View(model.ViewGenreList, GenreListView{Title: "Genre List", Genres: genres}), nil
}

func (s *genreService) Detail(ctx context.Context, id string) (*model.Outcome, error) {
	ctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	genre, books, err := aggregate.WithDependents(ctx, s.genre(id), s.books(id))
	if err != nil {
		return nil, err
	}
	return model.View(model.ViewGenreDetail, GenreDetailView{Title: "Genre Detail", Genre: genre, Books: books}), nil
}

func (s *genreService) CreateForm(context.Context) (*model.Outcome, error) {
	return model.View(model.ViewGenreForm, GenreFormView{Title: "Create Genre"}), nil
}

// Create is idempotent by name: submitting an existing name redirects to the
// existing genre without inserting.
func (s *genreService) Create(ctx context.Context, body form.Body) (*model.Outcome, error) {
	d := form.Genre(body, "")
	if !d.Valid() {
		return redisplayGenre("Create Genre", d), nil
	}

	genre, created, err := FindOrCreateGenre(ctx, s.store.Genres(), d.Entity)
	if err != nil {
		return nil, err
	}
	if created {
		s.committed(ctx, model.KindGenre, "create", genre.ID)
	}
	return model.Redirect(genre.URL()), nil
}

func (s *genreService) UpdateForm(ctx context.Context, id string) (*model.Outcome, error) {
	genre, err := s.store.Genres().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return model.View(model.ViewGenreForm, GenreFormView{Title: "Update Genre", Genre: genre}), nil
}

func (s *genreService) Update(ctx context.Context, id string, body form.Body) (*model.Outcome, error) {
	d := form.Genre(body, id)
	if !d.Valid() {
		return redisplayGenre("Update Genre", d), nil
	}

	updated, err := s.store.Genres().UpdateByID(ctx, id, d.Entity)
	if errors.Is(err, model.ErrDuplicate) {
		return redisplayGenre("Update Genre", d.WithError(model.FieldName, "Genre name already exists")), nil
	}
	if err != nil {
		return nil, err
	}
	s.committed(ctx, model.KindGenre, "update", id)
	return model.Redirect(updated.URL()), nil
}

func redisplayGenre(title string, d form.Draft[model.Genre]) *model.Outcome {
	return model.Redisplay(model.ViewGenreForm, GenreFormView{
		Title:  title,
		Genre:  &d.Entity,
		Values: d.Values,
		Errors: d.Errors,
	})
}

func (s *genreService) DeleteForm(ctx context.Context, id string) (*model.Outcome, error) {
	ctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	genre, books, err := aggregate.WithDependents(ctx, s.genre(id), s.books(id))
	if store.IsNotFound(err) {
		return model.Redirect(model.ListPath(model.KindGenre)), nil
	}
	if err != nil {
		return nil, err
	}
	return model.View(model.ViewGenreDelete, GenreDeleteView{Title: "Delete Genre", Genre: genre, Books: books}), nil
}

func (s *genreService) Delete(ctx context.Context, id string) (*model.Outcome, error) {
	ctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	res, err := guard.Delete(ctx, guard.Plan[model.Genre, model.Book]{
		Target:     s.genre(id),
		Dependents: s.books(id),
		Delete: func(ctx context.Context) error {
			return s.store.Genres().DeleteByID(ctx, id)
		},
	})
	if err != nil {
		return nil, err
	}

	switch res.Status {
	case guard.StatusBlocked:
		s.refused(model.KindGenre, id, len(res.Dependents))
		return model.Blocked(model.ViewGenreDelete, GenreDeleteView{
			Title: "Delete Genre",
			Genre: res.Target,
			Books: res.Dependents,
		}), nil
	case guard.StatusDeleted:
		s.committed(ctx, model.KindGenre, "delete", id)
	}
	return model.Redirect(model.ListPath(model.KindGenre)), nil
}
