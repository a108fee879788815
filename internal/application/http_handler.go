package application

import (
	"errors"
	"net/http"
	"strings"

	"lendingapi/internal/httpx"
)

type HTTPHandler struct {
	service *Service
}

func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

type CreateReq struct {
	FullName    string `json:"full_name" validate:"required,min=2,max=120"`
	Email       string `json:"email" validate:"required,email,max=254"`
	Phone       string `json:"phone" validate:"required,phone"`
	CompanyName string `json:"company_name" validate:"max=160"`
	LoanType    string `json:"loan_type" validate:"required,oneof=working_capital investment invoice_financing multipurpose"`
	LoanAmount  int64  `json:"loan_amount" validate:"required,gte=1000000,lte=10000000000"`
	TenorMonths int    `json:"tenor_months" validate:"required,gte=1,lte=120"`
	Purpose     string `json:"purpose" validate:"max=2000"`
}

// UpdateStatusReq is the body accepted by the status endpoint.
type UpdateStatusReq struct {
	Status     string  `json:"status" validate:"required"`
	AdminNotes *string `json:"adminNotes" validate:"omitempty,max=2000"`
}

// Create handles POST /api/applications
// @Summary Submit a loan application
// @Description Public endpoint. The application always starts as pending.
// @Tags applications
// @Accept json
// @Produce json
// @Param request body CreateReq true "Application"
// @Success 201 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 429 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/applications [post]
func (h *HTTPHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	a, err := h.service.Create(r.Context(), CreateInput(req))
	if err != nil {
		httpx.InternalError(w, r, "application.create", err)
		return
	}
	httpx.JSONSuccessCreated(w, r, map[string]any{"id": a.ID, "status": a.Status, "created_at": a.CreatedAt})
}

// List handles GET /api/admin/applications
// @Summary List loan applications
// @Tags applications
// @Produce json
// @Security Session
// @Param status query string false "Filter by status"
// @Param q query string false "Search name, email, company"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/admin/applications [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePage(r)
	q := Query{
		Q:      strings.TrimSpace(r.URL.Query().Get("q")),
		Limit:  page.Limit(),
		Offset: page.Offset(),
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			st, ok := Normalize(part)
			if !ok {
				httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_STATUS", "Invalid status filter", []httpx.ErrorDetail{
					{Field: "status", Message: "status must be one of: " + joinStatuses(Statuses)},
				})
				return
			}
			q.Statuses = append(q.Statuses, st)
		}
	}

	items, total, err := h.service.List(r.Context(), q)
	if err != nil {
		httpx.InternalError(w, r, "application.list", err)
		return
	}
	httpx.JSONSuccess(w, r, items, page.Meta(total))
}

// Get handles GET /api/admin/applications/{id}
// @Summary Get a loan application
// @Description Includes the statuses the application may move to next
// @Tags applications
// @Produce json
// @Security Session
// @Param id path string true "Application ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/admin/applications/{id} [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathUUID(r, "id")
	if !ok {
		notFound(w, r)
		return
	}
	d, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			notFound(w, r)
			return
		}
		httpx.InternalError(w, r, "application.get", err)
		return
	}
	httpx.JSONSuccess(w, r, d, nil)
}

// UpdateStatus handles PATCH /api/admin/applications/{id}/status
// @Summary Change application status
// @Description Applies the status workflow, then emails the customer. Email failure does not fail the request.
// @Tags applications
// @Accept json
// @Produce json
// @Security Session
// @Param id path string true "Application ID"
// @Param request body UpdateStatusReq true "New status"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 409 {object} httpx.ErrorResponse
// @Failure 422 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/admin/applications/{id}/status [patch]
func (h *HTTPHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathUUID(r, "id")
	if !ok {
		notFound(w, r)
		return
	}

	var req UpdateStatusReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	res, err := h.service.UpdateStatus(r.Context(), id, req.Status, req.AdminNotes)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			notFound(w, r)
		case errors.Is(err, ErrConcurrentUpdate):
			httpx.JSONError(w, r, http.StatusConflict, "CONCURRENT_UPDATE", "Application status was changed by someone else; reload and try again", nil)
		default:
			httpx.InternalError(w, r, "application.update_status", err)
		}
		return
	}

	switch res.Decision.Kind {
	case KindInvalidStatus:
		httpx.JSONError(w, r, http.StatusBadRequest, "INVALID_STATUS", res.Decision.Message, nil)
		return
	case KindIllegalTransition:
		httpx.JSONError(w, r, http.StatusUnprocessableEntity, "ILLEGAL_TRANSITION", res.Decision.Message, nil)
		return
	}

	meta := map[string]any{"notification_attempted": res.Notification != nil}
	if res.Notification != nil {
		meta["notification_sent"] = res.Notification.Success
	}
	httpx.JSONSuccess(w, r, res.Application, meta)
}

// Delete handles DELETE /api/admin/applications/{id}
// @Summary Delete a loan application
// @Tags applications
// @Security Session
// @Param id path string true "Application ID"
// @Success 204 "No Content"
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/admin/applications/{id} [delete]
func (h *HTTPHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.PathUUID(r, "id")
	if !ok {
		notFound(w, r)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			notFound(w, r)
			return
		}
		httpx.InternalError(w, r, "application.delete", err)
		return
	}
	httpx.JSONSuccessNoContent(w)
}

// Stats handles GET /api/admin/applications/stats
// @Summary Count applications per status
// @Tags applications
// @Produce json
// @Security Session
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/admin/applications/stats [get]
func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		httpx.InternalError(w, r, "application.stats", err)
		return
	}
	httpx.JSONSuccess(w, r, stats, nil)
}

func notFound(w http.ResponseWriter, r *http.Request) {
	httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Application not found", nil)
}
