package service

import (
	"context"

	"library-catalog/internal/domains/catalog/aggregate"
	"library-catalog/internal/domains/catalog/form"
	"library-catalog/internal/domains/catalog/guard"
	"library-catalog/internal/domains/catalog/model"
	"library-catalog/internal/domains/catalog/store"
)

type bookInstanceService struct {
	base
}

func NewBookInstanceService(d Deps) EntityService {
	return &bookInstanceService{base: newBase(d)}
}

func (s *bookInstanceService) instance(id string, rels ...store.Relation) func(context.Context) (*model.BookInstance, error) {
	return func(ctx context.Context) (*model.BookInstance, error) {
		if len(rels) == 0 {
			return s.store.BookInstances().GetByID(ctx, id)
		}
		return store.FindOne(ctx, s.store.BookInstances(), store.Where(model.FieldID, id), store.Expand(rels...))
	}
}

// titles lists every book for the copy form's book selector.
func (s *bookInstanceService) titles(ctx context.Context) ([]model.Book, error) {
	return s.store.Books().Find(ctx, store.All, store.Select(model.FieldTitle), store.SortBy(model.FieldTitle, true))
}

func (s *bookInstanceService) List(ctx context.Context) (*model.Outcome, error) {
	ctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	instances, err := s.store.BookInstances().Find(ctx, store.All, store.Expand(store.RelBook))
	if err != nil {
		return nil, err
	}
	return model.View(model.ViewInstanceList, InstanceListView{Title: "Book Instance List", Instances: instances}), nil
}

func (s *bookInstanceService) Detail(ctx context.Context, id string) (*model.Outcome, error) {
	ctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	instance, err := s.instance(id, store.RelBook)(ctx)
	if err != nil {
		return nil, err
	}
	title := "Copy"
	if instance.Book != nil {
		title = "Copy: " + instance.Book.Title
	}
	return model.View(model.ViewInstanceDetail, InstanceDetailView{Title: title, Instance: instance}), nil
}

func (s *bookInstanceService) CreateForm(ctx context.Context) (*model.Outcome, error) {
	ctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	books, err := s.titles(ctx)
	if err != nil {
		return nil, err
	}
	return model.View(model.ViewInstanceForm, InstanceFormView{
		Title:    "Create BookInstance",
		Books:    books,
		Statuses: model.InstanceStatuses,
	}), nil
}

// checkBook adds a field error when an otherwise valid draft names a book
// that does not exist.
func (s *bookInstanceService) checkBook(ctx context.Context, d form.Draft[model.BookInstance]) (form.Draft[model.BookInstance], error) {
	if !d.Valid() {
		return d, nil
	}
	_, err := s.store.Books().GetByID(ctx, d.Entity.BookID)
	if store.IsNotFound(err) {
		return d.WithError(model.FieldBook, "Book not found"), nil
	}
	return d, err
}

func (s *bookInstanceService) redisplay(ctx context.Context, title string, d form.Draft[model.BookInstance]) (*model.Outcome, error) {
	ctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	books, err := s.titles(ctx)
	if err != nil {
		return nil, err
	}
	return model.Redisplay(model.ViewInstanceForm, InstanceFormView{
		Title:        title,
		Instance:     &d.Entity,
		Books:        books,
		SelectedBook: d.Entity.BookID,
		Statuses:     model.InstanceStatuses,
		Values:       d.Values,
		Errors:       d.Errors,
	}), nil
}

func (s *bookInstanceService) Create(ctx context.Context, body form.Body) (*model.Outcome, error) {
	d, err := s.checkBook(ctx, form.BookInstance(body, ""))
	if err != nil {
		return nil, err
	}
	if !d.Valid() {
		return s.redisplay(ctx, "Create BookInstance", d)
	}

	created, err := s.store.BookInstances().Insert(ctx, d.Entity)
	if err != nil {
		return nil, err
	}
	s.committed(ctx, model.KindBookInstance, "create", created.ID)
	return model.Redirect(created.URL()), nil
}

func (s *bookInstanceService) UpdateForm(ctx context.Context, id string) (*model.Outcome, error) {
	ctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	res, err := aggregate.Run(ctx, map[string]aggregate.Lookup{
		"instance": aggregate.Typed(s.instance(id)),
		"books":    aggregate.Typed(s.titles),
	})
	if err != nil {
		return nil, err
	}

	instance := aggregate.Value[*model.BookInstance](res, "instance")
	return model.View(model.ViewInstanceForm, InstanceFormView{
		Title:        "Update BookInstance",
		Instance:     instance,
		Books:        aggregate.Value[[]model.Book](res, "books"),
		SelectedBook: instance.BookID,
		Statuses:     model.InstanceStatuses,
	}), nil
}

func (s *bookInstanceService) Update(ctx context.Context, id string, body form.Body) (*model.Outcome, error) {
	d, err := s.checkBook(ctx, form.BookInstance(body, id))
	if err != nil {
		return nil, err
	}
	if !d.Valid() {
		return s.redisplay(ctx, "Update BookInstance", d)
	}

	updated, err := s.store.BookInstances().UpdateByID(ctx, id, d.Entity)
	if err != nil {
		return nil, err
	}
	s.committed(ctx, model.KindBookInstance, "update", id)
	return model.Redirect(updated.URL()), nil
}

func (s *bookInstanceService) DeleteForm(ctx context.Context, id string) (*model.Outcome, error) {
	ctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	instance, err := s.instance(id, store.RelBook)(ctx)
	if store.IsNotFound(err) {
		return model.Redirect(model.ListPath(model.KindBookInstance)), nil
	}
	if err != nil {
		return nil, err
	}
	return model.View(model.ViewInstanceDelete, InstanceDeleteView{Title: "Delete BookInstance", Instance: instance}), nil
}

// Copies have no dependents, so Delete only distinguishes absent targets.
func (s *bookInstanceService) Delete(ctx context.Context, id string) (*model.Outcome, error) {
	ctx, cancel := s.lookupCtx(ctx)
	defer cancel()

	res, err := guard.Delete(ctx, guard.Plan[model.BookInstance, guard.None]{
		Target: s.instance(id),
		Delete: func(ctx context.Context) error {
			return s.store.BookInstances().DeleteByID(ctx, id)
		},
	})
	if err != nil {
		return nil, err
	}
	if res.Status == guard.StatusDeleted {
		s.committed(ctx, model.KindBookInstance, "delete", id)
	}
	return model.Redirect(model.ListPath(model.KindBookInstance)), nil
}
