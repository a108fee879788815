package news

import (
	"errors"
	"net/http"
	"time"

	"lendingapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type ArticleReq struct {
	Title           string `json:"title" validate:"required,max=200"`
	Slug            string `json:"slug" validate:"omitempty,slug,max=200"`
	Excerpt         string `json:"excerpt" validate:"max=500"`
	ContentMarkdown string `json:"content_markdown" validate:"required"`
	CoverImageURL   string `json:"cover_image_url" validate:"omitempty,url"`
	Author          string `json:"author" validate:"max=120"`
	IsPublished     bool   `json:"is_published"`
}

// PublicArticle omits the markdown source and draft bookkeeping.
type PublicArticle struct {
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	ContentHTML   string     `json:"content_html,omitempty"`
	CoverImageURL string     `json:"cover_image_url,omitempty"`
	Author        string     `json:"author"`
	PublishedAt   *time.Time `json:"published_at"`
}

func toPublic(a Article, withBody bool) PublicArticle {
	p := PublicArticle{
		Title:         a.Title,
		Slug:          a.Slug,
		Excerpt:       a.Excerpt,
		CoverImageURL: a.CoverImageURL,
		Author:        a.Author,
		PublishedAt:   a.PublishedAt,
	}
	if withBody {
		p.ContentHTML = a.ContentHTML
	}
	return p
}

// ListPublished handles GET /api/news
// @Summary List published news
// @Tags news
// @Produce json
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/news [get]
func (h *HTTPHandler) ListPublished(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePage(r)
	items, total, err := h.service.List(r.Context(), ListQuery{PublishedOnly: true, Limit: page.Limit(), Offset: page.Offset()})
	if err != nil {
		httpx.InternalError(w, r, "news.list_published", err)
		return
	}
	out := make([]PublicArticle, 0, len(items))
	for _, a := range items {
		out = append(out, toPublic(a, false))
	}
	httpx.JSONSuccess(w, r, out, page.Meta(total))
}

// GetPublished handles GET /api/news/{slug}
// @Summary Get a published article
// @Tags news
// @Produce json
// @Param slug path string true "Article slug"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/news/{slug} [get]
func (h *HTTPHandler) GetPublished(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.GetPublished(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.writeError(w, r, "news.get_published", err)
		return
	}
	httpx.JSONSuccess(w, r, toPublic(a, true), nil)
}

// List handles GET /api/admin/news
// @Summary List all articles including drafts
// @Tags news
// @Produce json
// @Security Session
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/admin/news [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePage(r)
	items, total, err := h.service.List(r.Context(), ListQuery{Limit: page.Limit(), Offset: page.Offset()})
	if err != nil {
		httpx.InternalError(w, r, "news.list", err)
		return
	}
	httpx.JSONSuccess(w, r, items, page.Meta(total))
}

// Get handles GET /api/admin/news/{id}
// @Summary Get an article
// @Tags news
// @Produce json
// @Security Session
// @Param id path string true "Article ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/admin/news/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathUUID(r, "id")
	if !ok {
		h.writeError(w, r, "news.get", ErrNotFound)
		return
	}
	a, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "news.get", err)
		return
	}
	httpx.JSONSuccess(w, r, a, nil)
}

// Create handles POST /api/admin/news
// @Summary Create an article
// @Tags news
// @Accept json
// @Produce json
// @Security Session
// @Param request body ArticleReq true "Article"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /api/admin/news [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeArticle(w, r)
	if !ok {
		return
	}
	a, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeError(w, r, "news.create", err)
		return
	}
	httpx.JSONSuccessCreated(w, r, a)
}

// Update handles PUT /api/admin/news/{id}
// @Summary Replace an article
// @Tags news
// @Accept json
// @Produce json
// @Security Session
// @Param id path string true "Article ID"
// @Param request body ArticleReq true "Article"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Router /api/admin/news/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathUUID(r, "id")
	if !ok {
		h.writeError(w, r, "news.update", ErrNotFound)
		return
	}
	in, ok := decodeArticle(w, r)
	if !ok {
		return
	}
	a, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.writeError(w, r, "news.update", err)
		return
	}
	httpx.JSONSuccess(w, r, a, nil)
}

// Delete handles DELETE /api/admin/news/{id}
// @Summary Delete an article
// @Tags news
// @Security Session
// @Param id path string true "Article ID"
// @Success 204 "No Content"
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/admin/news/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathUUID(r, "id")
	if !ok {
		h.writeError(w, r, "news.delete", ErrNotFound)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, "news.delete", err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func decodeArticle(w http.ResponseWriter, r *http.Request) (Input, bool) {
	var req ArticleReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return Input{}, false
	}
	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return Input{}, false
	}
	return Input(req), true
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Article not found", nil)
	case errors.Is(err, ErrSlugTaken):
		httpx.JSONError(w, r, http.StatusConflict, "SLUG_TAKEN", "An article with this slug already exists", nil)
	case errors.Is(err, ErrEmptySlug):
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", []httpx.ErrorDetail{
			{Field: "slug", Message: "slug is required when the title has no letters or digits"},
		})
	default:
		httpx.InternalError(w, r, op, err)
	}
}
