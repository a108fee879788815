package testimonial

import (
	"errors"
	"net/http"

	"lendingapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type TestimonialReq struct {
	Name      string `json:"name" validate:"required,max=120"`
	Role      string `json:"role" validate:"max=120"`
	Company   string `json:"company" validate:"max=160"`
	Content   string `json:"content" validate:"required,max=2000"`
	Rating    int    `json:"rating" validate:"required,gte=1,lte=5"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url"`
	IsActive  bool   `json:"is_active"`
	SortOrder int    `json:"sort_order" validate:"gte=0"`
}

// ListActive handles GET /api/testimonials
// @Summary List active testimonials
// @Tags testimonials
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/testimonials [get]
func (h *HTTPHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListActive(r.Context())
	if err != nil {
		httpx.InternalError(w, r, "testimonial.list_active", err)
		return
	}
	httpx.JSONSuccess(w, r, items, nil)
}

// List handles GET /api/admin/testimonials
// @Summary List all testimonials
// @Tags testimonials
// @Produce json
// @Security Session
// @Success 200 {object} httpx.SuccessResponse
// @Router /api/admin/testimonials [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListAll(r.Context())
	if err != nil {
		httpx.InternalError(w, r, "testimonial.list", err)
		return
	}
	httpx.JSONSuccess(w, r, items, map[string]any{"total": len(items)})
}

// Get handles GET /api/admin/testimonials/{id}
// @Summary Get a testimonial
// @Tags testimonials
// @Produce json
// @Security Session
// @Param id path string true "Testimonial ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/admin/testimonials/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathUUID(r, "id")
	if !ok {
		notFound(w, r)
		return
	}
	t, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, "testimonial.get", err)
		return
	}
	httpx.JSONSuccess(w, r, t, nil)
}

// Create handles POST /api/admin/testimonials
// @Summary Create a testimonial
// @Tags testimonials
// @Accept json
// @Produce json
// @Security Session
// @Param request body TestimonialReq true "Testimonial"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /api/admin/testimonials [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decode(w, r)
	if !ok {
		return
	}
	t, err := h.service.Create(r.Context(), in)
	if err != nil {
		httpx.InternalError(w, r, "testimonial.create", err)
		return
	}
	httpx.JSONSuccessCreated(w, r, t)
}

// Update handles PUT /api/admin/testimonials/{id}
// @Summary Replace a testimonial
// @Tags testimonials
// @Accept json
// @Produce json
// @Security Session
// @Param id path string true "Testimonial ID"
// @Param request body TestimonialReq true "Testimonial"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/admin/testimonials/{id} [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathUUID(r, "id")
	if !ok {
		notFound(w, r)
		return
	}
	in, ok := decode(w, r)
	if !ok {
		return
	}
	t, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, "testimonial.update", err)
		return
	}
	httpx.JSONSuccess(w, r, t, nil)
}

// Delete handles DELETE /api/admin/testimonials/{id}
// @Summary Delete a testimonial
// @Tags testimonials
// @Security Session
// @Param id path string true "Testimonial ID"
// @Success 204 "No Content"
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/admin/testimonials/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathUUID(r, "id")
	if !ok {
		notFound(w, r)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, "testimonial.delete", err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func decode(w http.ResponseWriter, r *http.Request) (Input, bool) {
	var req TestimonialReq
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

func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	if errors.Is(err, ErrNotFound) {
		notFound(w, r)
		return
	}
	httpx.InternalError(w, r, op, err)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Testimonial not found", nil)
}
