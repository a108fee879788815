package partner

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

type PartnerReq struct {
	Name        string `json:"name" validate:"required,max=160"`
	LogoURL     string `json:"logo_url" validate:"required,url"`
	WebsiteURL  string `json:"website_url" validate:"omitempty,url"`
	Description string `json:"description" validate:"max=1000"`
	IsActive    bool   `json:"is_active"`
	SortOrder   int    `json:"sort_order" validate:"gte=0"`
}

// ListActive handles GET /api/partners
// @Summary List active partners
// @Tags partners
// @Produce json
// @Success 200 {object} httpx.SuccessResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/partners [get]
func (h *HTTPHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListActive(r.Context())
	if err != nil {
		httpx.InternalError(w, r, "partner.list_active", err)
		return
	}
	httpx.JSONSuccess(w, r, items, nil)
}

// List handles GET /api/admin/partners
// @Summary List all partners
// @Tags partners
// @Produce json
// @Security Session
// @Success 200 {object} httpx.SuccessResponse
// @Router /api/admin/partners [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.ListAll(r.Context())
	if err != nil {
		httpx.InternalError(w, r, "partner.list", err)
		return
	}
	httpx.JSONSuccess(w, r, items, map[string]any{"total": len(items)})
}

// Get handles GET /api/admin/partners/{id}
// @Summary Get a partner
// @Tags partners
// @Produce json
// @Security Session
// @Param id path string true "Partner ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/admin/partners/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathUUID(r, "id")
	if !ok {
		notFound(w, r)
		return
	}
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, "partner.get", err)
		return
	}
	httpx.JSONSuccess(w, r, p, nil)
}

// Create handles POST /api/admin/partners
// @Summary Create a partner
// @Tags partners
// @Accept json
// @Produce json
// @Security Session
// @Param request body PartnerReq true "Partner"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /api/admin/partners [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decode(w, r)
	if !ok {
		return
	}
	p, err := h.service.Create(r.Context(), in)
	if err != nil {
		httpx.InternalError(w, r, "partner.create", err)
		return
	}
	httpx.JSONSuccessCreated(w, r, p)
}

// Update handles PUT /api/admin/partners/{id}
// @Summary Replace a partner
// @Tags partners
// @Accept json
// @Produce json
// @Security Session
// @Param id path string true "Partner ID"
// @Param request body PartnerReq true "Partner"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/admin/partners/{id} [put]
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
	p, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, r, "partner.update", err)
		return
	}
	httpx.JSONSuccess(w, r, p, nil)
}

// Delete handles DELETE /api/admin/partners/{id}
// @Summary Delete a partner
// @Tags partners
// @Security Session
// @Param id path string true "Partner ID"
// @Success 204 "No Content"
// @Failure 404 {object} httpx.ErrorResponse
// @Router /api/admin/partners/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathUUID(r, "id")
	if !ok {
		notFound(w, r)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, "partner.delete", err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

func decode(w http.ResponseWriter, r *http.Request) (Input, bool) {
	var req PartnerReq
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
	httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Partner not found", nil)
}
