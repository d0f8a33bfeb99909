package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog/log"

	"library-catalog/internal/domains/catalog/form"
	"library-catalog/internal/domains/catalog/model"
	"library-catalog/internal/domains/catalog/service"
	"library-catalog/internal/shared/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CatalogHandler maps catalog outcomes onto HTTP.
type CatalogHandler struct {
	index     service.IndexService
	authors   service.EntityService
	genres    service.EntityService
	books     service.BookService
	instances service.EntityService
}

func NewCatalogHandler(svc *service.Services) *CatalogHandler {
	return &CatalogHandler{
		index:     svc.Index,
		authors:   svc.Authors,
		genres:    svc.Genres,
		books:     svc.Books,
		instances: svc.Instances,
	}
}

// RegisterRoutes mounts the catalog under /catalog:
//
//	GET  /catalog
//	GET  /catalog/<plural>
//	GET  /catalog/<plural>/create     POST /catalog/<plural>/create
//	GET  /catalog/<plural>/:id
//	GET  /catalog/<plural>/:id/update POST /catalog/<plural>/:id/update
//	GET  /catalog/<plural>/:id/delete POST /catalog/<plural>/:id/delete
//	GET  /catalog/books/export
func (h *CatalogHandler) RegisterRoutes(r gin.IRouter) {
	catalog := r.Group(model.IndexPath())
	{
		catalog.GET("", h.Index)
		catalog.GET("/counts", h.Counts)

		books := catalog.Group("/" + model.KindBook.Plural())
		books.GET("/export", h.ExportBooks)
		entityRoutes(books, model.KindBook, h.books)

		entityRoutes(catalog.Group("/"+model.KindAuthor.Plural()), model.KindAuthor, h.authors)
		entityRoutes(catalog.Group("/"+model.KindGenre.Plural()), model.KindGenre, h.genres)
		entityRoutes(catalog.Group("/"+model.KindBookInstance.Plural()), model.KindBookInstance, h.instances)
	}
}

func entityRoutes(g *gin.RouterGroup, kind model.Kind, svc service.EntityService) {
	e := entity{kind: kind, svc: svc}
	g.GET("", e.list)
	g.GET("/create", e.createForm)
	g.POST("/create", e.create)
	g.GET("/:id", e.detail)
	g.GET("/:id/update", e.updateForm)
	g.POST("/:id/update", e.update)
	g.GET("/:id/delete", e.deleteForm)
	g.POST("/:id/delete", e.delete)
}

type entity struct {
	kind model.Kind
	svc  service.EntityService
}

func (e entity) list(c *gin.Context) {
	out, err := e.svc.List(c.Request.Context())
	render(c, e.kind, out, err)
}

func (e entity) detail(c *gin.Context) {
	out, err := e.svc.Detail(c.Request.Context(), c.Param("id"))
	render(c, e.kind, out, err)
}

func (e entity) createForm(c *gin.Context) {
	out, err := e.svc.CreateForm(c.Request.Context())
	render(c, e.kind, out, err)
}

func (e entity) create(c *gin.Context) {
	body, err := bindBody(c)
	if err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	out, err := e.svc.Create(c.Request.Context(), body)
	render(c, e.kind, out, err)
}

func (e entity) updateForm(c *gin.Context) {
	out, err := e.svc.UpdateForm(c.Request.Context(), c.Param("id"))
	render(c, e.kind, out, err)
}

func (e entity) update(c *gin.Context) {
	body, err := bindBody(c)
	if err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	out, err := e.svc.Update(c.Request.Context(), c.Param("id"), body)
	render(c, e.kind, out, err)
}

func (e entity) deleteForm(c *gin.Context) {
	out, err := e.svc.DeleteForm(c.Request.Context(), c.Param("id"))
	render(c, e.kind, out, err)
}

func (e entity) delete(c *gin.Context) {
	out, err := e.svc.Delete(c.Request.Context(), c.Param("id"))
	render(c, e.kind, out, err)
}

func (h *CatalogHandler) Index(c *gin.Context) {
	out, err := h.index.Index(c.Request.Context())
	render(c, "", out, err)
}

func (h *CatalogHandler) Counts(c *gin.Context) {
	counts, err := h.index.Counts(c.Request.Context())
	if err != nil {
		fail(c, "", err)
		return
	}
	response.Success(c, http.StatusOK, counts)
}

// ExportBooks streams the book catalogue as an XLSX workbook.
func (h *CatalogHandler) ExportBooks(c *gin.Context) {
	f, err := h.books.Export(c.Request.Context())
	if err != nil {
		fail(c, model.KindBook, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", `attachment; filename="catalog.xlsx"`)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("failed to write catalog export")
	}
}

// bindBody reads a JSON object or a url-encoded/multipart form into a Body.
// Repeated form keys arrive as collections.
func bindBody(c *gin.Context) (form.Body, error) {
	if c.ContentType() == binding.MIMEJSON {
		var body form.Body
		if err := c.ShouldBindJSON(&body); err != nil {
			return nil, err
		}
		if body == nil {
			body = form.Body{}
		}
		return body, nil
	}

	if err := c.Request.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}
	body := make(form.Body, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		body[key] = values
	}
	return body, nil
}

func render(c *gin.Context, kind model.Kind, out *model.Outcome, err error) {
	if err != nil {
		fail(c, kind, err)
		return
	}

	switch {
	case out.IsRedirect():
		response.Redirect(c, out.RedirectTo)
	case out.Rejected == model.RejectedInvalid:
		response.View(c, http.StatusUnprocessableEntity, out.View, out.Data)
	case out.Rejected == model.RejectedBlocked:
		response.View(c, http.StatusConflict, out.View, out.Data)
	default:
		response.View(c, http.StatusOK, out.View, out.Data)
	}
}

func fail(c *gin.Context, kind model.Kind, err error) {
	if errors.Is(err, model.ErrNotFound) {
		response.NotFound(c, notFoundMessage(kind))
		return
	}

	log.Error().
		Err(err).
		Str("request_id", c.GetString("request_id")).
		Str("path", c.Request.URL.Path).
		Msg("catalog request failed")
	response.InternalServerError(c, "Internal server error")
}

func notFoundMessage(kind model.Kind) string {
	switch kind {
	case model.KindAuthor:
		return "Author not found"
	case model.KindGenre:
		return "Genre not found"
	case model.KindBook:
		return "Book not found"
	case model.KindBookInstance:
		return "Book copy not found"
	}
	return "Not found"
}
