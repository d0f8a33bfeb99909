package service

import (
	"context"

	"github.com/xuri/excelize/v2"

	"library-catalog/internal/domains/catalog/form"
	"library-catalog/internal/domains/catalog/model"
)

// EntityService is the operation set shared by the four catalog kinds. Every
// operation returns a view or a redirect; model.ErrNotFound and
// *model.StoreError are the only errors.
type EntityService interface {
	List(ctx context.Context) (*model.Outcome, error)
	Detail(ctx context.Context, id string) (*model.Outcome, error)

	CreateForm(ctx context.Context) (*model.Outcome, error)
	Create(ctx context.Context, body form.Body) (*model.Outcome, error)

	UpdateForm(ctx context.Context, id string) (*model.Outcome, error)
	Update(ctx context.Context, id string, body form.Body) (*model.Outcome, error)

	// DeleteForm redirects to the list when the target does not exist.
	DeleteForm(ctx context.Context, id string) (*model.Outcome, error)
	// Delete refuses while other entities reference the target.
	Delete(ctx context.Context, id string) (*model.Outcome, error)
}

type BookService interface {
	EntityService
	Export(ctx context.Context) (*excelize.File, error)
}

type IndexService interface {
	Index(ctx context.Context) (*model.Outcome, error)
	Counts(ctx context.Context) (*Counts, error)
}
