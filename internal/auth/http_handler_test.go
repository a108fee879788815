package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lendingapi/internal/platform/crypto"
	"lendingapi/internal/session"
	"lendingapi/internal/testutil"
	"lendingapi/internal/user"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	users    *user.MockRepository
	sessions *session.Service
	service  *Service
	handler  *HTTPHandler
	guard    *Guard
}

func newAuthFixture(t *testing.T, secret string) authFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	users := user.NewMockRepository(ctrl)
	sessions := newSessions()
	service := NewService(user.NewService(users), sessions, secret)
	return authFixture{
		users:    users,
		sessions: sessions,
		service:  service,
		handler:  NewHTTPHandler(service, true),
		guard:    NewGuard(sessions, secret),
	}
}

func testAdmin(t *testing.T, password string) user.User {
	t.Helper()
	hash, err := crypto.HashPassword(password)
	require.NoError(t, err)
	return user.User{ID: "u-1", Email: "admin@example.com", Name: "Admin", PasswordHash: hash, Role: user.RoleAdmin}
}

func findCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	return nil
}

func TestHTTPHandler_Login(t *testing.T) {
	f := newAuthFixture(t, testSecret)
	admin := testAdmin(t, "Correct#Horse1")

	t.Run("success", func(t *testing.T) {
		f.users.EXPECT().GetByEmail(gomock.Any(), "admin@example.com").Return(admin, nil)
		f.users.EXPECT().UpdateLastLogin(gomock.Any(), "u-1", gomock.Any()).Return(nil)

		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/api/auth/login", LoginReq{Email: "Admin@Example.com", Password: "Correct#Horse1"})
		f.handler.Login(w, r)

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusOK, resp.Code)

		cookie := findCookie(w)
		require.NotNil(t, cookie)
		assert.True(t, cookie.HttpOnly)
		assert.True(t, cookie.Secure)
		assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		assert.Equal(t, "/", cookie.Path)
		assert.Equal(t, 86400, cookie.MaxAge)

		data := resp.Data()
		assert.Equal(t, cookie.Value, data["session_id"])
		assert.NotEmpty(t, data["access_token"])
		assert.Equal(t, "admin@example.com", data["user"].(map[string]any)["email"])

		got, err := f.sessions.ValidateSession(context.Background(), cookie.Value)
		require.NoError(t, err)
		assert.NotNil(t, got)
	})

	t.Run("validation error", func(t *testing.T) {
		w := httptest.NewRecorder()
		f.handler.Login(w, testutil.NewRequest(http.MethodPost, "/api/auth/login", LoginReq{Email: "not-an-email"}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Nil(t, findCookie(w))
	})
}

func TestHTTPHandler_Login_UndifferentiatedFailure(t *testing.T) {
	f := newAuthFixture(t, "")
	admin := testAdmin(t, "Correct#Horse1")

	f.users.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").Return(user.User{}, user.ErrNotFound)
	f.users.EXPECT().GetByEmail(gomock.Any(), "admin@example.com").Return(admin, nil)

	unknown := httptest.NewRecorder()
	f.handler.Login(unknown, testutil.NewRequest(http.MethodPost, "/api/auth/login", LoginReq{Email: "ghost@example.com", Password: "whatever1"}))

	wrong := httptest.NewRecorder()
	f.handler.Login(wrong, testutil.NewRequest(http.MethodPost, "/api/auth/login", LoginReq{Email: "admin@example.com", Password: "whatever1"}))

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, unknown.Code, wrong.Code)
	assert.Equal(t, unknown.Body.String(), wrong.Body.String())
	assert.Nil(t, findCookie(unknown))
	assert.Nil(t, findCookie(wrong))
}

func TestHTTPHandler_Logout(t *testing.T) {
	f := newAuthFixture(t, testSecret)
	token, _, err := f.sessions.CreateSession(context.Background(), "u-1", "admin@example.com", session.Metadata{}, 0)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
		r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		f.handler.Logout(w, r)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.True(t, strings.Contains(w.Header().Get("Set-Cookie"), "Max-Age=0"))
	}

	got, err := f.sessions.ValidateSession(context.Background(), token)
	require.NoError(t, err)
	assert.Nil(t, got)

	w := httptest.NewRecorder()
	f.handler.Logout(w, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestHTTPHandler_LogoutWithBearer(t *testing.T) {
	f := newAuthFixture(t, testSecret)
	_, sess, err := f.sessions.CreateSession(context.Background(), "u-1", "admin@example.com", session.Metadata{}, 0)
	require.NoError(t, err)
	jwtToken, err := crypto.GenerateToken(testSecret, "u-1", "admin@example.com", sess.ID, sess.ExpiresAt)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	r.Header.Set("Authorization", "Bearer "+jwtToken)
	f.handler.Logout(w, r)
	require.Equal(t, http.StatusNoContent, w.Code)

	res, err := f.guard.Authenticate(context.Background(), Credential{Kind: CredentialBearer, Value: jwtToken})
	require.NoError(t, err)
	assert.False(t, res.Authenticated)
}

func TestHTTPHandler_MeAndLogoutAll(t *testing.T) {
	f := newAuthFixture(t, "")
	admin := testAdmin(t, "Correct#Horse1")
	token, _, err := f.sessions.CreateSession(context.Background(), "u-1", "admin@example.com", session.Metadata{}, 0)
	require.NoError(t, err)
	other, _, err := f.sessions.CreateSession(context.Background(), "u-1", "admin@example.com", session.Metadata{}, 0)
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.Handle("GET /api/auth/me", f.guard.Middleware(http.HandlerFunc(f.handler.Me)))
	mux.Handle("POST /api/auth/logout-all", f.guard.Middleware(http.HandlerFunc(f.handler.LogoutAll)))

	f.users.EXPECT().GetByID(gomock.Any(), "u-1").Return(admin, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	r.Header.Set("Authorization", "Session "+token)
	mux.ServeHTTP(w, r)
	resp := testutil.RecordHTTPResponse(w)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "admin@example.com", resp.Data()["email"])
	assert.NotContains(t, string(resp.Raw), "password")

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodPost, "/api/auth/logout-all", nil)
	r.Header.Set("Authorization", "Session "+token)
	mux.ServeHTTP(w, r)
	resp = testutil.RecordHTTPResponse(w)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, float64(2), resp.Data()["revoked"])

	w = httptest.NewRecorder()
	r = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	r.Header.Set("Authorization", "Session "+other)
	mux.ServeHTTP(w, r)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHTTPHandler_Extend(t *testing.T) {
	f := newAuthFixture(t, testSecret)
	token, sess, err := f.sessions.CreateSession(context.Background(), "u-1", "admin@example.com", session.Metadata{}, 0)
	require.NoError(t, err)

	handler := f.guard.Middleware(http.HandlerFunc(f.handler.Extend))

	t.Run("rejects non-positive hours", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/api/auth/extend", ExtendReq{Hours: 0})
		r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		handler.ServeHTTP(w, r)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("extends", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := testutil.NewRequest(http.MethodPost, "/api/auth/extend", ExtendReq{Hours: 2})
		r.AddCookie(&http.Cookie{Name: CookieName, Value: token})
		handler.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		cookie := findCookie(w)
		require.NotNil(t, cookie)
		assert.Greater(t, cookie.MaxAge, 86400)

		got, err := f.sessions.GetSession(context.Background(), sess.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, sess.ExpiresAt.Add(2*time.Hour), got.ExpiresAt)
	})
}
