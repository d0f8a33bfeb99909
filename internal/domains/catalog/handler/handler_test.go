package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"library-catalog/internal/domains/catalog/handler"
	"library-catalog/internal/domains/catalog/model"
	"library-catalog/internal/domains/catalog/service"
	"library-catalog/internal/domains/catalog/store"
)

type envelope struct {
	Success    bool            `json:"success"`
	View       string          `json:"view"`
	Data       json.RawMessage `json:"data"`
	RedirectTo string          `json:"redirect_to"`
	Error      *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func setup(t *testing.T) (*gin.Engine, *store.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := store.NewMemoryStore()
	svc := service.New(service.Deps{Store: s, LookupTimeout: time.Second})

	r := gin.New()
	handler.NewCatalogHandler(svc).RegisterRoutes(r)
	return r, s
}

func do(t *testing.T, r *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreateAuthorRedirectsToDetail(t *testing.T) {
	r, s := setup(t)

	w, env := do(t, r, postForm("/catalog/authors/create", url.Values{
		"first_name":    {"Ursula"},
		"family_name":   {"Le Guin"},
		"date_of_birth": {"1929-10-21"},
	}))
	// family name contains a space, which is not alphanumeric
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, model.ViewAuthorForm, env.View)
	assert.False(t, env.Success)

	w, env = do(t, r, postForm("/catalog/authors/create", url.Values{
		"first_name":    {"Ursula"},
		"family_name":   {"LeGuin"},
		"date_of_birth": {"1929-10-21"},
	}))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, env.RedirectTo, w.Header().Get("Location"))
	assert.True(t, strings.HasPrefix(env.RedirectTo, "/catalog/authors/"))

	n, err := s.Authors().Count(context.Background(), store.All)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	w, env = do(t, r, httptest.NewRequest(http.MethodGet, env.RedirectTo, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.ViewAuthorDetail, env.View)

	var detail service.AuthorDetailView
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "LeGuin", detail.Author.FamilyName)
	assert.Empty(t, detail.Books)
}

func TestCreateGenreFromJSON(t *testing.T) {
	r, s := setup(t)

	w, env := do(t, r, postJSON("/catalog/genres/create", `{"name":"Fantasy"}`))
	require.Equal(t, http.StatusSeeOther, w.Code)

	// same name resolves to the existing genre
	w2, env2 := do(t, r, postJSON("/catalog/genres/create", `{"name":"Fantasy"}`))
	require.Equal(t, http.StatusSeeOther, w2.Code)
	assert.Equal(t, env.RedirectTo, env2.RedirectTo)

	n, err := s.Genres().Count(context.Background(), store.All)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMalformedJSONIsBadRequest(t *testing.T) {
	r, _ := setup(t)

	w, env := do(t, r, postJSON("/catalog/genres/create", `{"name":`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "BAD_REQUEST", env.Error.Code)
}

func TestDetailNotFound(t *testing.T) {
	r, _ := setup(t)

	w, env := do(t, r, httptest.NewRequest(http.MethodGet, "/catalog/books/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Book not found", env.Error.Message)
}

func TestBookCreateWithRepeatedGenreKeys(t *testing.T) {
	r, s := setup(t)
	ctx := context.Background()

	a, err := s.Authors().Insert(ctx, model.Author{FirstName: "Iain", FamilyName: "Banks"})
	require.NoError(t, err)
	g1, err := s.Genres().Insert(ctx, model.Genre{Name: "SF"})
	require.NoError(t, err)
	g2, err := s.Genres().Insert(ctx, model.Genre{Name: "Space Opera"})
	require.NoError(t, err)

	w, env := do(t, r, postForm("/catalog/books/create", url.Values{
		"title":   {"Excession"},
		"author":  {a.ID},
		"summary": {"<b>Outside</b> Context Problem"},
		"isbn":    {"9781857234572"},
		"genre":   {g1.ID, g2.ID},
	}))
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	id := strings.TrimPrefix(env.RedirectTo, "/catalog/books/")
	b, err := s.Books().GetByID(ctx, id)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{g1.ID, g2.ID}, b.GenreIDs)
	assert.Equal(t, "Outside Context Problem", b.Summary)
}

func TestDeleteBlockedThenAllowed(t *testing.T) {
	r, s := setup(t)
	ctx := context.Background()

	a, err := s.Authors().Insert(ctx, model.Author{FirstName: "Jane", FamilyName: "Austen"})
	require.NoError(t, err)
	b, err := s.Books().Insert(ctx, model.Book{Title: "Emma", Summary: "s", ISBN: "i", AuthorID: a.ID, GenreIDs: []string{}})
	require.NoError(t, err)

	w, env := do(t, r, httptest.NewRequest(http.MethodPost, "/catalog/authors/"+a.ID+"/delete", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, model.ViewAuthorDelete, env.View)

	err = s.Books().DeleteByID(ctx, b.ID)
	require.NoError(t, err)

	w, env = do(t, r, httptest.NewRequest(http.MethodPost, "/catalog/authors/"+a.ID+"/delete", nil))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/catalog/authors", env.RedirectTo)

	// deleting again is idempotent
	w, _ = do(t, r, httptest.NewRequest(http.MethodPost, "/catalog/authors/"+a.ID+"/delete", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestIndexAndCounts(t *testing.T) {
	r, s := setup(t)
	_, err := s.Genres().Insert(context.Background(), model.Genre{Name: "Poetry"})
	require.NoError(t, err)

	w, env := do(t, r, httptest.NewRequest(http.MethodGet, "/catalog", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.ViewIndex, env.View)

	w, env = do(t, r, httptest.NewRequest(http.MethodGet, "/catalog/counts", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var counts service.Counts
	require.NoError(t, json.Unmarshal(env.Data, &counts))
	assert.Equal(t, 1, counts.Genres)
}

func TestExportBooks(t *testing.T) {
	r, s := setup(t)
	ctx := context.Background()
	a, err := s.Authors().Insert(ctx, model.Author{FirstName: "Mary", FamilyName: "Shelley"})
	require.NoError(t, err)
	_, err = s.Books().Insert(ctx, model.Book{Title: "Frankenstein", Summary: "s", ISBN: "i", AuthorID: a.ID, GenreIDs: []string{}})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/catalog/books/export", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "catalog.xlsx")

	f, err := excelize.OpenReader(w.Body)
	require.NoError(t, err)
	defer f.Close()
	title, err := f.GetCellValue("Catalog", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Frankenstein", title)
}
