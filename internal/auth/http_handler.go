package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"lendingapi/internal/httpx"
	"lendingapi/internal/session"
	"lendingapi/internal/user"
)

type HTTPHandler struct {
	service       *Service
	secureCookies bool
}

func NewHTTPHandler(service *Service, secureCookies bool) *HTTPHandler {
	return &HTTPHandler{service: service, secureCookies: secureCookies}
}

type LoginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func toUserResponse(u user.User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: user.RoleAdmin, LastLoginAt: u.LastLoginAt}
}

type LoginResponse struct {
	SessionID   string       `json:"session_id"`
	AccessToken string       `json:"access_token,omitempty"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

// Login handles POST /api/auth/login
// @Summary Admin login
// @Description Authenticate with email and password; sets the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginReq true "Login request"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/auth/login [post]
func (h *HTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	md := session.Metadata{
		IPAddress:  httpx.ClientIP(r),
		UserAgent:  r.Header.Get("User-Agent"),
		DeviceInfo: deviceInfo(r.Header.Get("User-Agent")),
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password, md)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpx.JSONError(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
			return
		}
		httpx.InternalError(w, r, "auth.login", err)
		return
	}

	setSessionCookie(w, res.Token, res.Session.ExpiresAt, res.Session.CreatedAt, h.secureCookies)
	httpx.JSONSuccess(w, r, LoginResponse{
		SessionID:   res.Token,
		AccessToken: res.AccessToken,
		ExpiresAt:   res.Session.ExpiresAt,
		User:        toUserResponse(res.User),
	}, nil)
}

// Logout handles POST /api/auth/logout
// @Summary Admin logout
// @Description Invalidate the current session and clear the cookie. Safe to repeat.
// @Tags auth
// @Produce json
// @Success 204 "No Content"
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/auth/logout [post]
func (h *HTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Logout(r.Context(), ExtractCredential(r)); err != nil {
		httpx.InternalError(w, r, "auth.logout", err)
		return
	}
	clearSessionCookie(w, h.secureCookies)
	httpx.JSONSuccessNoContent(w)
}

// Me handles GET /api/auth/me
// @Summary Current admin
// @Tags auth
// @Produce json
// @Security Session
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/auth/me [get]
func (h *HTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "NO_CREDENTIAL", "Authentication required", nil)
		return
	}

	u, err := h.service.Me(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			httpx.JSONError(w, r, http.StatusUnauthorized, "INVALID_SESSION", "Invalid or expired session", nil)
			return
		}
		httpx.InternalError(w, r, "auth.me", err)
		return
	}
	httpx.JSONSuccess(w, r, toUserResponse(u), nil)
}

// LogoutAll handles POST /api/auth/logout-all
// @Summary Log out everywhere
// @Tags auth
// @Produce json
// @Security Session
// @Success 200 {object} httpx.SuccessResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/auth/logout-all [post]
func (h *HTTPHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	userID := httpx.UserIDFrom(r)
	if userID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "NO_CREDENTIAL", "Authentication required", nil)
		return
	}

	n, err := h.service.LogoutAll(r.Context(), userID)
	if err != nil {
		httpx.InternalError(w, r, "auth.logout_all", err)
		return
	}
	clearSessionCookie(w, h.secureCookies)
	httpx.JSONSuccess(w, r, map[string]any{"revoked": n}, nil)
}

type ExtendReq struct {
	Hours int `json:"hours" validate:"gte=1,lte=720"`
}

// Extend handles POST /api/auth/extend
// @Summary Extend current session
// @Tags auth
// @Accept json
// @Produce json
// @Security Session
// @Param request body ExtendReq true "Hours to add"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 401 {object} httpx.ErrorResponse
// @Failure 500 {object} httpx.ErrorResponse
// @Router /api/auth/extend [post]
func (h *HTTPHandler) Extend(w http.ResponseWriter, r *http.Request) {
	sessionID := httpx.SessionIDFrom(r)
	if sessionID == "" {
		httpx.JSONError(w, r, http.StatusUnauthorized, "NO_CREDENTIAL", "Authentication required", nil)
		return
	}

	var req ExtendReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body", nil)
		return
	}
	if validationErrors := httpx.ValidateStruct(req); len(validationErrors) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", validationErrors)
		return
	}

	res, err := h.service.Extend(r.Context(), sessionID, req.Hours)
	if err != nil {
		if errors.Is(err, ErrSessionNotExtended) {
			httpx.JSONError(w, r, http.StatusUnauthorized, "INVALID_SESSION", "Invalid or expired session", nil)
			return
		}
		httpx.InternalError(w, r, "auth.extend", err)
		return
	}

	if c := ExtractCredential(r); c.Kind == CredentialSessionToken {
		setSessionCookie(w, c.Value, res.ExpiresAt, h.service.now(), h.secureCookies)
	}
	httpx.JSONSuccess(w, r, map[string]any{
		"extended":     true,
		"expires_at":   res.ExpiresAt,
		"access_token": res.AccessToken,
	}, nil)
}

// deviceInfo is a coarse label derived from the user agent, kept for the sessions list.
func deviceInfo(userAgent string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case ua == "":
		return ""
	case strings.Contains(ua, "ipad"), strings.Contains(ua, "tablet"):
		return "tablet"
	case strings.Contains(ua, "mobile"), strings.Contains(ua, "android"), strings.Contains(ua, "iphone"):
		return "mobile"
	default:
		return "desktop"
	}
}
