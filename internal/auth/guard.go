package auth

import (
	"context"
	"net/http"

	"lendingapi/internal/httpx"
	"lendingapi/internal/platform/crypto"
	"lendingapi/internal/session"
	"lendingapi/internal/user"
)

// Reason explains a failed authentication. Expired, revoked and unknown sessions
// share one reason.
type Reason string

const (
	ReasonNone                    Reason = ""
	ReasonNoCredential            Reason = "no_credential"
	ReasonInvalidOrExpiredSession Reason = "invalid_or_expired_session"
)

// Identity is the authenticated caller.
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	SessionID string `json:"-"`
}

// Result is the outcome of Authenticate. Err from Authenticate is reserved for store faults.
type Result struct {
	Authenticated bool
	Identity      Identity
	Reason        Reason
}

// Guard resolves request credentials to an Identity.
type Guard struct {
	sessions  *session.Service
	jwtSecret string
}

// NewGuard returns a Guard. An empty jwtSecret disables the Bearer carrier.
func NewGuard(sessions *session.Service, jwtSecret string) *Guard {
	return &Guard{sessions: sessions, jwtSecret: jwtSecret}
}

func (g *Guard) Authenticate(ctx context.Context, c Credential) (Result, error) {
	var (
		sess *session.Session
		err  error
	)

	switch {
	case c.Kind == CredentialSessionToken:
		sess, err = g.sessions.ValidateSessionFromIP(ctx, c.Value, c.ClientIP)
	case c.Kind == CredentialBearer && g.jwtSecret != "":
		claims, parseErr := crypto.ParseToken(g.jwtSecret, c.Value)
		if parseErr != nil {
			return Result{Reason: ReasonInvalidOrExpiredSession}, nil
		}
		sess, err = g.sessions.ValidateSessionID(ctx, claims.SID, c.ClientIP)
		if err == nil && sess != nil && sess.UserID != claims.Subject {
			sess = nil
		}
	default:
		return Result{Reason: ReasonNoCredential}, nil
	}

	if err != nil {
		return Result{}, err
	}
	if sess == nil {
		return Result{Reason: ReasonInvalidOrExpiredSession}, nil
	}

	return Result{
		Authenticated: true,
		Identity: Identity{
			ID:        sess.UserID,
			Email:     sess.UserEmail,
			Role:      user.RoleAdmin,
			SessionID: sess.ID,
		},
	}, nil
}

// Middleware rejects unauthenticated requests with 401 and stores the identity
// in the request context otherwise.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res, err := g.Authenticate(r.Context(), ExtractCredential(r))
		if err != nil {
			httpx.InternalError(w, r, "auth.authenticate", err)
			return
		}
		if !res.Authenticated {
			if res.Reason == ReasonNoCredential {
				httpx.JSONError(w, r, http.StatusUnauthorized, "NO_CREDENTIAL", "Authentication required", nil)
				return
			}
			httpx.JSONError(w, r, http.StatusUnauthorized, "INVALID_SESSION", "Invalid or expired session", nil)
			return
		}

		id := res.Identity
		ctx := httpx.ContextWithUser(r.Context(), id.ID, id.Email, id.Role, id.SessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
