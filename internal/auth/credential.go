package auth

import (
	"net/http"
	"strings"

	"lendingapi/internal/httpx"
)

// CookieName is the session cookie set at login.
const CookieName = "session_id"

// CredentialKind tells which carrier a request presented.
type CredentialKind int

const (
	CredentialNone CredentialKind = iota
	CredentialSessionToken
	CredentialBearer
)

// Credential is what a request presented, before it is checked.
type Credential struct {
	Kind     CredentialKind
	Value    string
	ClientIP string
}

// ExtractCredential reads the credential from r. The session cookie wins over an
// Authorization header; within the header "Session" and "Bearer" schemes are accepted.
func ExtractCredential(r *http.Request) Credential {
	c := Credential{ClientIP: httpx.ClientIP(r)}

	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		c.Kind = CredentialSessionToken
		c.Value = cookie.Value
		return c
	}

	scheme, value, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return c
	}
	switch {
	case strings.EqualFold(scheme, "Session"):
		c.Kind = CredentialSessionToken
		c.Value = value
	case strings.EqualFold(scheme, "Bearer"):
		c.Kind = CredentialBearer
		c.Value = value
	}
	return c
}
