package service_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-catalog/internal/domains/catalog/form"
	"library-catalog/internal/domains/catalog/model"
	"library-catalog/internal/domains/catalog/service"
	"library-catalog/internal/domains/catalog/store"
	"library-catalog/internal/infrastructure/cache"
)

type catalog struct {
	store *store.MemoryStore
	svc   *service.Services
}

func newCatalog(t *testing.T) *catalog {
	t.Helper()
	s := store.NewMemoryStore()
	return &catalog{
		store: s,
		svc:   service.New(service.Deps{Store: s, LookupTimeout: time.Second}),
	}
}

func (c *catalog) author(t *testing.T, first, family string) model.Author {
	t.Helper()
	a, err := c.store.Authors().Insert(context.Background(), model.Author{FirstName: first, FamilyName: family})
	require.NoError(t, err)
	return *a
}

func (c *catalog) genre(t *testing.T, name string) model.Genre {
	t.Helper()
	g, err := c.store.Genres().Insert(context.Background(), model.Genre{Name: name})
	require.NoError(t, err)
	return *g
}

func (c *catalog) book(t *testing.T, title, authorID string, genres ...string) model.Book {
	t.Helper()
	if genres == nil {
		genres = []string{}
	}
	b, err := c.store.Books().Insert(context.Background(), model.Book{
		Title: title, Summary: "summary", ISBN: "isbn", AuthorID: authorID, GenreIDs: genres,
	})
	require.NoError(t, err)
	return *b
}

func (c *catalog) instance(t *testing.T, bookID string, status model.InstanceStatus) model.BookInstance {
	t.Helper()
	bi, err := c.store.BookInstances().Insert(context.Background(), model.BookInstance{
		BookID: bookID, Imprint: "imprint", Status: status,
	})
	require.NoError(t, err)
	return *bi
}

func idFromRedirect(t *testing.T, out *model.Outcome, kind model.Kind) string {
	t.Helper()
	require.True(t, out.IsRedirect(), "expected redirect, got view %q", out.View)
	prefix := model.ListPath(kind) + "/"
	require.True(t, strings.HasPrefix(out.RedirectTo, prefix), out.RedirectTo)
	return strings.TrimPrefix(out.RedirectTo, prefix)
}

// ========================================
// CREATE / UPDATE
// ========================================

func TestAuthorCreateRoundTrips(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	body := form.Body{"first_name": "Patrick", "family_name": "Rothfuss", "date_of_birth": "1973-06-06"}
	out, err := c.svc.Authors.Create(ctx, body)
	require.NoError(t, err)
	id := idFromRedirect(t, out, model.KindAuthor)

	got, err := c.store.Authors().GetByID(ctx, id)
	require.NoError(t, err)

	want := form.Author(body, id).Entity
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("stored author differs from draft (-want +got):\n%s", diff)
	}
}

func TestCreateStoresSanitizedDraft(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	a := c.author(t, "Patrick", "Rothfuss")
	g := c.genre(t, "Fantasy")
	b := c.book(t, "The Wise Man's Fear", a.ID)

	tests := []struct {
		name string
		kind model.Kind
		body form.Body
		want func(id string) any
		get  func(id string) (any, error)
	}{
		{
			name: "genre",
			kind: model.KindGenre,
			body: form.Body{"name": "  Science <Fiction>  "},
			want: func(id string) any { return form.Genre(form.Body{"name": "  Science <Fiction>  "}, id).Entity },
			get: func(id string) (any, error) {
				got, err := c.store.Genres().GetByID(ctx, id)
				if err != nil {
					return nil, err
				}
				return *got, nil
			},
		},
		{
			name: "book with scalar genre and markup",
			kind: model.KindBook,
			body: form.Body{
				"title":   "<b>The Name</b> & the Wind",
				"author":  a.ID,
				"summary": "<p>A <i>tale</i></p>",
				"isbn":    "9780756404741",
				"genre":   g.ID,
			},
			want: func(id string) any {
				return form.Book(form.Body{
					"title":   "<b>The Name</b> & the Wind",
					"author":  a.ID,
					"summary": "<p>A <i>tale</i></p>",
					"isbn":    "9780756404741",
					"genre":   g.ID,
				}, id).Entity
			},
			get: func(id string) (any, error) {
				got, err := c.store.Books().GetByID(ctx, id)
				if err != nil {
					return nil, err
				}
				return *got, nil
			},
		},
		{
			name: "instance with status and due date",
			kind: model.KindBookInstance,
			body: form.Body{"book": b.ID, "imprint": "DAW, 2011", "status": "Loaned", "due_back": "2026-11-01"},
			want: func(id string) any {
				return form.BookInstance(form.Body{"book": b.ID, "imprint": "DAW, 2011", "status": "Loaned", "due_back": "2026-11-01"}, id).Entity
			},
			get: func(id string) (any, error) {
				got, err := c.store.BookInstances().GetByID(ctx, id)
				if err != nil {
					return nil, err
				}
				return *got, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				out *model.Outcome
				err error
			)
			switch tt.kind {
			case model.KindGenre:
				out, err = c.svc.Genres.Create(ctx, tt.body)
			case model.KindBook:
				out, err = c.svc.Books.Create(ctx, tt.body)
			case model.KindBookInstance:
				out, err = c.svc.Instances.Create(ctx, tt.body)
			}
			require.NoError(t, err)
			id := idFromRedirect(t, out, tt.kind)

			got, err := tt.get(id)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want(id), got); diff != "" {
				t.Errorf("stored %s differs from draft (-want +got):\n%s", tt.kind, diff)
			}
		})
	}

	stored, err := c.store.Books().Find(ctx, store.Where(model.FieldGenre, g.ID))
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "A tale", stored[0].Summary)
	assert.NotContains(t, stored[0].Title, "<")
	assert.Equal(t, []string{g.ID}, stored[0].GenreIDs)
}

func TestAuthorCreateInvalidRedisplays(t *testing.T) {
	c := newCatalog(t)

	out, err := c.svc.Authors.Create(context.Background(), form.Body{"first_name": "", "family_name": "", "date_of_birth": "nope"})
	require.NoError(t, err)
	assert.Equal(t, model.RejectedInvalid, out.Rejected)
	assert.Equal(t, model.ViewAuthorForm, out.View)

	view := out.Data.(service.AuthorFormView)
	assert.Len(t, view.Errors, 3)

	n, err := c.store.Authors().Count(context.Background(), store.All)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAuthorUpdate(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	a := c.author(t, "Jo", "Walton")

	out, err := c.svc.Authors.Update(ctx, a.ID, form.Body{"first_name": "Joanna", "family_name": "Walton"})
	require.NoError(t, err)
	assert.Equal(t, a.URL(), out.RedirectTo)

	got, err := c.store.Authors().GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Joanna", got.FirstName)

	_, err = c.svc.Authors.Update(ctx, "missing", form.Body{"first_name": "A", "family_name": "B"})
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestGenreCreateIsIdempotentByName(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	g1 := c.genre(t, "Fantasy")

	out, err := c.svc.Genres.Create(ctx, form.Body{"name": "Fantasy"})
	require.NoError(t, err)
	assert.Equal(t, "/catalog/genres/"+g1.ID, out.RedirectTo)

	out, err = c.svc.Genres.Create(ctx, form.Body{"name": "  Fantasy "})
	require.NoError(t, err)
	assert.Equal(t, g1.URL(), out.RedirectTo)

	n, err := c.store.Genres().Count(ctx, store.All)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	out, err = c.svc.Genres.Create(ctx, form.Body{"name": "Poetry"})
	require.NoError(t, err)
	assert.NotEqual(t, g1.URL(), out.RedirectTo)
}

func TestFindOrCreateGenreResolvesRace(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	winner, err := s.Genres().Insert(ctx, model.Genre{Name: "Horror"})
	require.NoError(t, err)

	// The name lookup misses, as if the winner committed right after it.
	genres := blindGenres{Collection: s.Genres()}
	g, created, err := service.FindOrCreateGenre(ctx, &genres, model.Genre{Name: "Horror"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, winner.ID, g.ID)
}

type blindGenres struct {
	store.Collection[model.Genre]
	finds int
}

func (b *blindGenres) Find(ctx context.Context, f store.Filter, opts ...store.FindOption) ([]model.Genre, error) {
	b.finds++
	if b.finds == 1 {
		return []model.Genre{}, nil
	}
	return b.Collection.Find(ctx, f, opts...)
}

func TestGenreUpdateNameConflictRedisplays(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	c.genre(t, "Fantasy")
	poetry := c.genre(t, "Poetry")

	out, err := c.svc.Genres.Update(ctx, poetry.ID, form.Body{"name": "Fantasy"})
	require.NoError(t, err)
	assert.Equal(t, model.RejectedInvalid, out.Rejected)
	view := out.Data.(service.GenreFormView)
	require.Len(t, view.Errors, 1)
	assert.Equal(t, model.FieldName, view.Errors[0].Field)
}

func TestBookCreateMissingTitleRedisplaysWithReferences(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	a1 := c.author(t, "Ursula", "LeGuin")
	c.author(t, "Jo", "Walton")
	g1 := c.genre(t, "Fantasy")
	c.genre(t, "Poetry")

	out, err := c.svc.Books.Create(ctx, form.Body{
		"title": "", "author": a1.ID, "summary": "S", "isbn": "I", "genre": g1.ID,
	})
	require.NoError(t, err)
	require.Equal(t, model.RejectedInvalid, out.Rejected)
	assert.Equal(t, model.ViewBookForm, out.View)

	view := out.Data.(service.BookFormView)
	require.Len(t, view.Errors, 1)
	assert.Equal(t, "title", view.Errors[0].Field)
	assert.Len(t, view.Authors, 2)
	require.Len(t, view.Genres, 2)
	for _, opt := range view.Genres {
		assert.Equal(t, opt.Genre.ID == g1.ID, opt.Checked, opt.Genre.Name)
	}

	n, err := c.store.Books().Count(ctx, store.All)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestBookCreateUnknownAuthorRedisplays(t *testing.T) {
	c := newCatalog(t)

	out, err := c.svc.Books.Create(context.Background(), form.Body{
		"title": "T", "author": "ghost", "summary": "S", "isbn": "I",
	})
	require.NoError(t, err)
	view := out.Data.(service.BookFormView)
	require.Len(t, view.Errors, 1)
	assert.Equal(t, model.FieldAuthor, view.Errors[0].Field)
}

func TestBookCreateAndUpdate(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	a := c.author(t, "Ursula", "LeGuin")
	g1 := c.genre(t, "Fantasy")
	g2 := c.genre(t, "SciFi")

	out, err := c.svc.Books.Create(ctx, form.Body{
		"title": "Earthsea", "author": a.ID, "summary": "S", "isbn": "I", "genre": []any{g1.ID, g2.ID},
	})
	require.NoError(t, err)
	id := idFromRedirect(t, out, model.KindBook)

	out, err = c.svc.Books.UpdateForm(ctx, id)
	require.NoError(t, err)
	view := out.Data.(service.BookFormView)
	for _, opt := range view.Genres {
		assert.True(t, opt.Checked)
	}

	out, err = c.svc.Books.Update(ctx, id, form.Body{
		"title": "A Wizard of Earthsea", "author": a.ID, "summary": "S", "isbn": "I",
	})
	require.NoError(t, err)
	assert.Equal(t, "/catalog/books/"+id, out.RedirectTo)

	got, err := c.store.Books().GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "A Wizard of Earthsea", got.Title)
	assert.Empty(t, got.GenreIDs)
}

func TestBookInstanceCreateDefaultsStatus(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	b := c.book(t, "Earthsea", c.author(t, "U", "L").ID)

	out, err := c.svc.Instances.Create(ctx, form.Body{"book": b.ID, "imprint": "Parnassus 1968"})
	require.NoError(t, err)
	id := idFromRedirect(t, out, model.KindBookInstance)

	got, err := c.store.BookInstances().GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StatusMaintenance, got.Status)

	out, err = c.svc.Instances.Create(ctx, form.Body{"book": b.ID, "imprint": "X", "status": "Lost"})
	require.NoError(t, err)
	view := out.Data.(service.InstanceFormView)
	assert.Equal(t, b.ID, view.SelectedBook)
	require.Len(t, view.Books, 1)
	assert.Equal(t, "Earthsea", view.Books[0].Title)
}

// ========================================
// READ
// ========================================

func TestBookDetailNotFoundDiscardsInstances(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	orphan, err := mem.BookInstances().Insert(ctx, model.BookInstance{BookID: "B404", Imprint: "imprint", Status: model.StatusAvailable})
	require.NoError(t, err)

	counted := &countingStore{MemoryStore: mem}
	svc := service.New(service.Deps{Store: counted, LookupTimeout: time.Second})

	out, err := svc.Books.Detail(ctx, "B404")
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Nil(t, out, "no partial detail view")
	assert.EqualValues(t, 1, counted.instanceFinds.Load(), "copies were looked up alongside the book")

	_, err = mem.BookInstances().GetByID(ctx, orphan.ID)
	assert.NoError(t, err, "the lookup leaves the orphaned copy in place")
}

func TestBookDetailAssemblesView(t *testing.T) {
	c := newCatalog(t)
	a := c.author(t, "Ursula", "LeGuin")
	g := c.genre(t, "Fantasy")
	b := c.book(t, "Earthsea", a.ID, g.ID)
	c.instance(t, b.ID, model.StatusAvailable)
	c.instance(t, b.ID, model.StatusLoaned)

	out, err := c.svc.Books.Detail(context.Background(), b.ID)
	require.NoError(t, err)
	view := out.Data.(service.BookDetailView)
	assert.Equal(t, "Earthsea", view.Title)
	require.NotNil(t, view.Book.Author)
	assert.Equal(t, a.ID, view.Book.Author.ID)
	assert.Equal(t, []model.Genre{g}, view.Book.Genres)
	assert.Len(t, view.Instances, 2)
}

func TestAuthorDetailProjectsBooks(t *testing.T) {
	c := newCatalog(t)
	a := c.author(t, "Ursula", "LeGuin")
	c.book(t, "Earthsea", a.ID)

	out, err := c.svc.Authors.Detail(context.Background(), a.ID)
	require.NoError(t, err)
	view := out.Data.(service.AuthorDetailView)
	require.Len(t, view.Books, 1)
	assert.Equal(t, "Earthsea", view.Books[0].Title)
	assert.Equal(t, "summary", view.Books[0].Summary)
	assert.Empty(t, view.Books[0].ISBN)
}

func TestListsAreSorted(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	w := c.author(t, "Jo", "Walton")
	c.author(t, "Ursula", "LeGuin")
	c.genre(t, "Poetry")
	c.genre(t, "Fantasy")
	c.book(t, "Tooth and Claw", w.ID)
	c.book(t, "Among Others", w.ID)

	out, err := c.svc.Authors.List(ctx)
	require.NoError(t, err)
	authors := out.Data.(service.AuthorListView).Authors
	assert.Equal(t, "LeGuin", authors[0].FamilyName)

	out, err = c.svc.Genres.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Fantasy", out.Data.(service.GenreListView).Genres[0].Name)

	out, err = c.svc.Books.List(ctx)
	require.NoError(t, err)
	books := out.Data.(service.BookListView).Books
	assert.Equal(t, "Among Others", books[0].Title)
	require.NotNil(t, books[0].Author)
	assert.Empty(t, books[0].Summary)
}

// ========================================
// DELETE
// ========================================

func TestAuthorDeleteBlockedByBooks(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	a := c.author(t, "Ursula", "LeGuin")
	c.book(t, "B1", a.ID)
	c.book(t, "B2", a.ID)

	out, err := c.svc.Authors.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RejectedBlocked, out.Rejected)
	view := out.Data.(service.AuthorDeleteView)
	assert.Len(t, view.Books, 2)

	_, err = c.store.Authors().GetByID(ctx, a.ID)
	assert.NoError(t, err)
}

func TestAuthorDeleteWithoutBooks(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	a := c.author(t, "Ursula", "LeGuin")

	out, err := c.svc.Authors.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "/catalog/authors", out.RedirectTo)

	_, err = c.store.Authors().GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)

	out, err = c.svc.Authors.Delete(ctx, a.ID)
	require.NoError(t, err, "deleting an absent author is idempotent")
	assert.Equal(t, "/catalog/authors", out.RedirectTo)
}

func TestGenreAndBookDeletesAreGuarded(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	a := c.author(t, "Ursula", "LeGuin")
	g := c.genre(t, "Fantasy")
	b := c.book(t, "Earthsea", a.ID, g.ID)
	bi := c.instance(t, b.ID, model.StatusAvailable)

	out, err := c.svc.Genres.Delete(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RejectedBlocked, out.Rejected)

	out, err = c.svc.Books.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RejectedBlocked, out.Rejected)
	assert.Len(t, out.Data.(service.BookDeleteView).Instances, 1)

	out, err = c.svc.Instances.Delete(ctx, bi.ID)
	require.NoError(t, err)
	assert.Equal(t, "/catalog/bookinstances", out.RedirectTo)

	out, err = c.svc.Books.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "/catalog/books", out.RedirectTo)

	out, err = c.svc.Genres.Delete(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, out.IsRedirect())

	n, err := c.store.Genres().Count(ctx, store.All)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDeleteFormForAbsentTargetRedirects(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)

	for _, tc := range []struct {
		svc  service.EntityService
		kind model.Kind
	}{
		{c.svc.Authors, model.KindAuthor},
		{c.svc.Genres, model.KindGenre},
		{c.svc.Books, model.KindBook},
		{c.svc.Instances, model.KindBookInstance},
	} {
		out, err := tc.svc.DeleteForm(ctx, "missing")
		require.NoError(t, err)
		assert.Equal(t, model.ListPath(tc.kind), out.RedirectTo)
	}
}

// ========================================
// FAILURES
// ========================================

type countingStore struct {
	*store.MemoryStore
	instanceFinds atomic.Int32
}

func (c *countingStore) BookInstances() store.Collection[model.BookInstance] {
	return countingInstances{Collection: c.MemoryStore.BookInstances(), finds: &c.instanceFinds}
}

type countingInstances struct {
	store.Collection[model.BookInstance]
	finds *atomic.Int32
}

func (c countingInstances) Find(ctx context.Context, f store.Filter, opts ...store.FindOption) ([]model.BookInstance, error) {
	c.finds.Add(1)
	return c.Collection.Find(ctx, f, opts...)
}

type failingStore struct {
	*store.MemoryStore
	err error
}

func (f failingStore) BookInstances() store.Collection[model.BookInstance] {
	return failingInstances{Collection: f.MemoryStore.BookInstances(), err: f.err}
}

type failingInstances struct {
	store.Collection[model.BookInstance]
	err error
}

func (f failingInstances) Find(context.Context, store.Filter, ...store.FindOption) ([]model.BookInstance, error) {
	return nil, f.err
}

func (f failingInstances) Count(context.Context, store.Filter) (int, error) {
	return 0, f.err
}

func TestStoreErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	a, err := mem.Authors().Insert(ctx, model.Author{FirstName: "U", FamilyName: "L"})
	require.NoError(t, err)
	b, err := mem.Books().Insert(ctx, model.Book{Title: "T", Summary: "S", ISBN: "I", AuthorID: a.ID})
	require.NoError(t, err)

	boom := model.NewStoreError("find", model.KindBookInstance, errors.New("connection reset"))
	svc := service.New(service.Deps{Store: failingStore{MemoryStore: mem, err: boom}})

	_, err = svc.Books.Detail(ctx, b.ID)
	var se *model.StoreError
	assert.ErrorAs(t, err, &se)

	_, err = svc.Books.Delete(ctx, b.ID)
	assert.ErrorAs(t, err, &se)
	_, err = mem.Books().GetByID(ctx, b.ID)
	assert.NoError(t, err, "book survives a failed guard")

	_, err = svc.Index.Counts(ctx)
	assert.ErrorAs(t, err, &se)
}

// ========================================
// INDEX
// ========================================

func TestIndexCountsAreCachedAndInvalidated(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rc := cache.NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rc.Close() })

	s := store.NewMemoryStore()
	svc := service.New(service.Deps{Store: s, Cache: rc, CountsTTL: time.Minute})

	a, err := s.Authors().Insert(ctx, model.Author{FirstName: "U", FamilyName: "L"})
	require.NoError(t, err)
	b, err := s.Books().Insert(ctx, model.Book{Title: "T", Summary: "S", ISBN: "I", AuthorID: a.ID})
	require.NoError(t, err)
	_, err = s.BookInstances().Insert(ctx, model.BookInstance{BookID: b.ID, Imprint: "I", Status: model.StatusAvailable})
	require.NoError(t, err)
	_, err = s.BookInstances().Insert(ctx, model.BookInstance{BookID: b.ID, Imprint: "I", Status: model.StatusLoaned})
	require.NoError(t, err)

	out, err := svc.Index.Index(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.Counts{Books: 1, Instances: 2, InstancesAvailable: 1, Authors: 1, Genres: 0},
		out.Data.(service.IndexView).Counts)
	assert.True(t, mr.Exists(service.CountsKey))

	// Writes that bypass the services are not seen until the entry goes.
	_, err = s.Genres().Insert(ctx, model.Genre{Name: "Direct"})
	require.NoError(t, err)
	counts, err := svc.Index.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts.Genres)

	_, err = svc.Genres.Create(ctx, form.Body{"name": "Fantasy"})
	require.NoError(t, err)
	assert.False(t, mr.Exists(service.CountsKey))

	counts, err = svc.Index.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Genres)
}

func TestIndexSurvivesCacheOutage(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rc := cache.NewRedisClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rc.Close() })
	mr.Close()

	svc := service.New(service.Deps{Store: store.NewMemoryStore(), Cache: rc})
	counts, err := svc.Index.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.Counts{}, *counts)

	_, err = svc.Genres.Create(ctx, form.Body{"name": "Fantasy"})
	assert.NoError(t, err)
}

func TestExport(t *testing.T) {
	ctx := context.Background()
	c := newCatalog(t)
	a := c.author(t, "Ursula", "LeGuin")
	g := c.genre(t, "Fantasy")
	b := c.book(t, "Earthsea &amp; more", a.ID, g.ID)
	c.instance(t, b.ID, model.StatusAvailable)
	c.instance(t, b.ID, model.StatusLoaned)

	f, err := c.svc.Books.Export(ctx)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Catalog")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"ID", "Title", "Author", "ISBN", "Genres", "Copies", "Available"}, rows[0])
	assert.Equal(t, []string{b.ID, "Earthsea & more", "LeGuin, Ursula", "isbn", "Fantasy", "2", "1"}, rows[1])
}
