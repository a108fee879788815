package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"lendingapi/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPHandler_ListSessions(t *testing.T) {
	svc, _, _ := newTestService(t)
	handler := NewHTTPHandler(svc)

	_, a, err := svc.CreateSession(context.Background(), testutil.TestAdmin.ID, testutil.TestAdmin.Email, testMetadata, 0)
	require.NoError(t, err)
	_, _, err = svc.CreateSession(context.Background(), "someone-else", "x@example.com", testMetadata, 0)
	require.NoError(t, err)

	t.Run("unauthenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ListSessions(w, httptest.NewRequest(http.MethodGet, "/api/admin/sessions", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("own sessions only", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ListSessions(w, testutil.NewAdminRequest(http.MethodGet, "/api/admin/sessions", nil))

		resp := testutil.RecordHTTPResponse(w)
		require.Equal(t, http.StatusOK, resp.Code)
		data := resp.Body["data"].([]any)
		require.Len(t, data, 1)
		assert.Equal(t, a.ID, data[0].(map[string]any)["id"])
	})
}

func TestHTTPHandler_DeleteSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	handler := NewHTTPHandler(svc)

	token, own, err := svc.CreateSession(context.Background(), testutil.TestAdmin.ID, testutil.TestAdmin.Email, testMetadata, 0)
	require.NoError(t, err)
	_, foreign, err := svc.CreateSession(context.Background(), "someone-else", "x@example.com", testMetadata, 0)
	require.NoError(t, err)

	t.Run("malformed id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := testutil.NewAdminRequest(http.MethodDelete, "/api/admin/sessions/abc", nil)
		r.SetPathValue("id", "abc")
		handler.DeleteSession(w, r)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("foreign session", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := testutil.NewAdminRequest(http.MethodDelete, "/api/admin/sessions/"+foreign.ID, nil)
		r.SetPathValue("id", foreign.ID)
		handler.DeleteSession(w, r)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("own session", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := testutil.NewAdminRequest(http.MethodDelete, "/api/admin/sessions/"+own.ID, nil)
		r.SetPathValue("id", own.ID)
		handler.DeleteSession(w, r)
		assert.Equal(t, http.StatusNoContent, w.Code)

		got, err := svc.ValidateSession(context.Background(), token)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
