package handler

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/momotired/servo-msg-demo/internal/model"
	"github.com/momotired/servo-msg-demo/internal/service"
)

func testLogger(t *testing.T) *log.Logger {
	t.Helper()
	return log.New(io.Discard, "", 0)
}

type stubModerator struct {
	messages []model.Message
	err      error

	gotID      int64
	gotVisible bool
}

func (s *stubModerator) ListAllMessages(context.Context) ([]model.Message, error) {
	return s.messages, s.err
}

func (s *stubModerator) SetMessageVisibility(_ context.Context, id int64, visible bool) error {
	s.gotID, s.gotVisible = id, visible
	return s.err
}

type allowAll struct{}

func (allowAll) Authorize(string) bool { return true }

type denyAll struct{}

func (denyAll) Authorize(string) bool { return false }

// adminRouter mounts the handler behind real chi routing so URL params
// resolve the way they do in production.
func adminRouter(h *AdminHandler, gate Authorizer) http.Handler {
	r := chi.NewRouter()
	r.Use(RequireAdmin(gate, "X-Admin-Secret"))
	r.Get("/admin/messages", h.ListAll)
	r.Put("/admin/messages/{id}/visibility", h.SetVisibility)
	return r
}

func TestListAllIncludesHidden(t *testing.T) {
	mod := &stubModerator{messages: []model.Message{
		{ID: 2, User: "bob", Content: "hidden", IsVisible: false},
		{ID: 1, User: "alice", Content: "shown", IsVisible: true},
	}}
	router := adminRouter(NewAdminHandler(mod, testLogger(t)), allowAll{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/messages", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"is_visible":false`)
}

func TestSetVisibility(t *testing.T) {
	mod := &stubModerator{}
	router := adminRouter(NewAdminHandler(mod, testLogger(t)), allowAll{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/admin/messages/5/visibility", strings.NewReader(`{"is_visible":false}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message":"ok","id":5,"is_visible":false}`, rec.Body.String())
	require.Equal(t, int64(5), mod.gotID)
	require.False(t, mod.gotVisible)
}

func TestSetVisibilityRequiresBooleanField(t *testing.T) {
	router := adminRouter(NewAdminHandler(&stubModerator{}, testLogger(t)), allowAll{})

	for _, body := range []string{`{}`, `{"is_visible":"yes"}`, `not json`} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/admin/messages/5/visibility", strings.NewReader(body))
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code, "body %q", body)
	}
}

func TestSetVisibilityUnknownID(t *testing.T) {
	mod := &stubModerator{err: service.ErrNotFound}
	router := adminRouter(NewAdminHandler(mod, testLogger(t)), allowAll{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/admin/messages/999/visibility", strings.NewReader(`{"is_visible":true}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetVisibilityNonNumericID(t *testing.T) {
	router := adminRouter(NewAdminHandler(&stubModerator{}, testLogger(t)), allowAll{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/admin/messages/abc/visibility", strings.NewReader(`{"is_visible":true}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRequireAdminRejectsBadSecret(t *testing.T) {
	mod := &stubModerator{}
	router := adminRouter(NewAdminHandler(mod, testLogger(t)), denyAll{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/admin/messages/5/visibility", strings.NewReader(`{"is_visible":false}`))
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Zero(t, mod.gotID, "handler must not run for unauthorized requests")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/messages", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
