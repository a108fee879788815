package session

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

type SessionResponse struct {
	ID             string `json:"id"`
	IPAddress      string `json:"ip_address"`
	UserAgent      string `json:"user_agent"`
	DeviceInfo     string `json:"device_info,omitempty"`
	CreatedAt      string `json:"created_at"`
	LastAccessedAt string `json:"last_accessed_at"`
	ExpiresAt      string `json:"expires_at"`
	IsCurrent      bool   `json:"is_current"`
}

// ListSessions handles GET /api/admin/sessions
// @Summary List admin sessions
// @Description Get all currently valid sessions for the authenticated admin
// @Tags sessions
// @Produce json
// @Security Session
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/admin/sessions [get]
func (h *HTTPHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "NO_CREDENTIAL", "Authentication required", nil)
		return
	}

	sessions, err := h.service.ListActive(r.Context(), userID)
	if err != nil {
		httpx.InternalError(w, r, "session.list", err)
		return
	}

	currentID := httpx.SessionIDFrom(r)
	response := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		response = append(response, SessionResponse{
			ID:             s.ID,
			IPAddress:      s.IPAddress,
			UserAgent:      s.UserAgent,
			DeviceInfo:     s.DeviceInfo,
			CreatedAt:      s.CreatedAt.UTC().Format(time.RFC3339),
			LastAccessedAt: s.LastAccessedAt.UTC().Format(time.RFC3339),
			ExpiresAt:      s.ExpiresAt.UTC().Format(time.RFC3339),
			IsCurrent:      s.ID == currentID,
		})
	}

	httpx.JSONSuccess(w, r, response, map[string]any{"total": len(response)})
}

// DeleteSession handles DELETE /api/admin/sessions/{id}
// @Summary Revoke session
// @Description Revoke one of the authenticated admin's sessions
// @Tags sessions
// @Produce json
// @Security Session
// @Param id path string true "Session ID"
// @Success 204 "No Content"
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/admin/sessions/{id} [delete]
func (h *HTTPHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "NO_CREDENTIAL", "Authentication required", nil)
		return
	}

	sessionID, ok := httpx.PathUUID(r, "id")
	if !ok {
		httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Session not found", nil)
		return
	}

	if err := h.service.InvalidateSessionByID(r.Context(), userID, sessionID); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Session not found", nil)
			return
		}
		httpx.InternalError(w, r, "session.delete", err)
		return
	}

	httpx.JSONSuccessNoContent(w)
}
