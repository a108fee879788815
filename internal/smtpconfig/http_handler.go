package smtpconfig

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"lendingapi/internal/httpx"
	"lendingapi/internal/notification"
)

// TestMailer renders and delivers the SMTP check email.
type TestMailer interface {
	RenderTest(to, adminURL string) (notification.Message, error)
	Deliver(ctx context.Context, op string, msg notification.Message) notification.Receipt
}

type HTTPHandler struct {
	service  *Service
	mailer   TestMailer
	adminURL string
}

func NewHTTPHandler(service *Service, mailer TestMailer, adminURL string) *HTTPHandler {
	return &HTTPHandler{service: service, mailer: mailer, adminURL: adminURL}
}

type SettingsResponse struct {
	Configured  bool       `json:"configured"`
	Host        string     `json:"host"`
	Port        int        `json:"port"`
	Username    string     `json:"username"`
	Password    string     `json:"password"`
	HasPassword bool       `json:"has_password"`
	FromEmail   string     `json:"from_email"`
	FromName    string     `json:"from_name"`
	UseTLS      bool       `json:"use_tls"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

const passwordMask = "********"

func toResponse(s Settings) SettingsResponse {
	resp := SettingsResponse{
		Configured:  s.ID != "",
		Host:        s.Host,
		Port:        s.Port,
		Username:    s.Username,
		HasPassword: s.Password != "",
		FromEmail:   s.FromEmail,
		FromName:    s.FromName,
		UseTLS:      s.UseTLS,
	}
	if resp.HasPassword {
		resp.Password = passwordMask
	}
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		resp.UpdatedAt = &t
	}
	return resp
}

type UpdateReq struct {
	Host      string `json:"host" validate:"required,max=255"`
	Port      int    `json:"port" validate:"required,gte=1,lte=65535"`
	Username  string `json:"username" validate:"max=255"`
	Password  string `json:"password" validate:"max=255"`
	FromEmail string `json:"from_email" validate:"required,email"`
	FromName  string `json:"from_name" validate:"max=120"`
	UseTLS    bool   `json:"use_tls"`
}

type TestReq struct {
	To string `json:"to" validate:"required,email"`
}

// Get handles GET /api/admin/smtp
// @Summary Get SMTP settings
// @Description The password is never returned, only whether one is stored
// @Tags smtp
// @Produce json
// @Security Session
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/admin/smtp [get]
func (h *HTTPHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Get(r.Context())
	if err != nil && !errors.Is(err, ErrNotFound) {
		httpx.InternalError(w, r, "smtp.get", err)
		return
	}
	httpx.JSONSuccess(w, r, toResponse(s), nil)
}

// Update handles PUT /api/admin/smtp
// @Summary Replace SMTP settings
// @Description An empty password keeps the stored password
// @Tags smtp
// @Accept json
// @Produce json
// @Security Session
// @Param request body UpdateReq true "SMTP settings"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/admin/smtp [put]
func (h *HTTPHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}
	if req.Password == passwordMask {
		req.Password = ""
	}

	s, err := h.service.Update(r.Context(), UpdateInput(req))
	if err != nil {
		httpx.InternalError(w, r, "smtp.update", err)
		return
	}
	httpx.JSONSuccess(w, r, toResponse(s), nil)
}

// SendTest handles POST /api/admin/smtp/test
// @Summary Send a test email
// @Description Sends through the configured mail driver and reports the outcome
// @Tags smtp
// @Accept json
// @Produce json
// @Security Session
// @Param request body TestReq true "Recipient"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /api/admin/smtp/test [post]
func (h *HTTPHandler) SendTest(w http.ResponseWriter, r *http.Request) {
	var req TestReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	req.To = strings.TrimSpace(req.To)
	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	msg, err := h.mailer.RenderTest(req.To, h.adminURL)
	if err != nil {
		httpx.InternalError(w, r, "smtp.test.render", err)
		return
	}
	receipt := h.mailer.Deliver(r.Context(), "smtp_test", msg)
	if !receipt.Success {
		httpx.JSONError(w, r, http.StatusBadGateway, "MAIL_DELIVERY_FAILED", "Test email could not be sent; check the SMTP settings", nil)
		return
	}
	httpx.JSONSuccess(w, r, map[string]any{"message_id": receipt.MessageID}, nil)
}
