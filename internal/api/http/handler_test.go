package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync"
	"testing"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veranemoloko/route-uploader/internal/domain"
	errpkg "github.com/veranemoloko/route-uploader/internal/errors"
	"github.com/veranemoloko/route-uploader/internal/repository"
)

const testRoute = "a2a0ccea32023010|2023-07-27--13-01-19"

type mockCoordinator struct {
	mu          sync.Mutex
	target      *domain.UploadTarget
	states      map[domain.Category]domain.TaskState
	dispatched  []domain.Category
	dispatchErr error
}

func newMockCoordinator() *mockCoordinator {
	return &mockCoordinator{states: map[domain.Category]domain.TaskState{}}
}

func (m *mockCoordinator) OnTargetChange(target *domain.UploadTarget) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.target = target
}

func (m *mockCoordinator) Target() *domain.UploadTarget {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.target
}

func (m *mockCoordinator) Snapshot() map[domain.Category]domain.TaskState {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[domain.Category]domain.TaskState, len(m.states))
	for c, s := range m.states {
		out[c] = s
	}
	return out
}

func (m *mockCoordinator) Dispatch(category domain.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dispatchErr != nil {
		return m.dispatchErr
	}
	m.dispatched = append(m.dispatched, category)
	return nil
}

func newTestHandler(t *testing.T) (*UploadHandler, *mockCoordinator, *repository.RouteStorage) {
	t.Helper()
	routes, err := repository.NewRouteStorage(filepath.Join(t.TempDir(), "routes.json"))
	require.NoError(t, err)
	coord := newMockCoordinator()
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	return NewUploadHandler(coord, routes, logger), coord, routes
}

func newTestRouter(h *UploadHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/routes", h.ListRoutes)
	r.Post("/routes", h.SaveRoute)
	r.Get("/routes/{name}", h.GetRoute)
	r.Get("/target", h.GetTarget)
	r.Put("/target", h.SelectTarget)
	r.Delete("/target", h.ClearTarget)
	r.Get("/buttons", h.ListButtons)
	r.Post("/buttons/{category}/click", h.ClickButton)
	return r
}

func do(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadHandler_SaveAndGetRoute(t *testing.T) {
	h, _, _ := newTestHandler(t)
	r := newTestRouter(h)

	w := do(r, http.MethodPost, "/routes", map[string]interface{}{"name": testRoute, "max_segment": 5})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(r, http.MethodGet, "/routes/"+url.PathEscape(testRoute), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var route domain.UploadTarget
	require.NoError(t, json.NewDecoder(w.Body).Decode(&route))
	assert.Equal(t, domain.UploadTarget{Name: testRoute, MaxSegment: 5}, route)
}

func TestUploadHandler_SaveRouteValidation(t *testing.T) {
	h, _, _ := newTestHandler(t)
	r := newTestRouter(h)

	tests := []struct {
		name string
		body interface{}
	}{
		{"bad name", map[string]interface{}{"name": "nope", "max_segment": 1}},
		{"missing max segment", map[string]interface{}{"name": testRoute}},
		{"negative max segment", map[string]interface{}{"name": testRoute, "max_segment": -1}},
		{"not json", "{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/routes", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUploadHandler_GetRouteNotFound(t *testing.T) {
	h, _, _ := newTestHandler(t)
	r := newTestRouter(h)

	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/routes/"+url.PathEscape(testRoute), nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/routes/garbage", nil).Code)
}

func TestUploadHandler_SelectAndClearTarget(t *testing.T) {
	h, coord, routes := newTestHandler(t)
	r := newTestRouter(h)

	assert.Equal(t, http.StatusNotFound,
		do(r, http.MethodPut, "/target", map[string]string{"name": testRoute}).Code)

	require.NoError(t, routes.SaveRoute(context.Background(), &domain.UploadTarget{Name: testRoute, MaxSegment: 7}))

	w := do(r, http.MethodPut, "/target", map[string]string{"name": testRoute})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, coord.Target())
	assert.Equal(t, 7, coord.Target().MaxSegment)

	w = do(r, http.MethodGet, "/target", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = do(r, http.MethodDelete, "/target", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Nil(t, coord.Target())

	w = do(r, http.MethodGet, "/target", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestUploadHandler_ListButtons(t *testing.T) {
	h, coord, _ := newTestHandler(t)
	coord.states[domain.CategoryRoad] = domain.TaskStateLoading
	r := newTestRouter(h)

	w := do(r, http.MethodGet, "/buttons", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var buttons []domain.ButtonResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&buttons))
	require.Len(t, buttons, 4)
	assert.Equal(t, domain.CategoryRoad, buttons[0].Category)
	assert.True(t, buttons[0].Disabled)
	assert.True(t, buttons[0].Spinning)
	assert.Equal(t, "progress_activity", buttons[0].Icon)
	assert.Equal(t, domain.CategoryAll, buttons[3].Category)
	assert.False(t, buttons[3].Disabled)
}

func TestUploadHandler_ClickButton(t *testing.T) {
	h, coord, _ := newTestHandler(t)
	coord.states[domain.CategoryLogs] = domain.TaskStateSuccess
	r := newTestRouter(h)

	w := do(r, http.MethodPost, "/buttons/route/click", nil)
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp domain.ClickResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.True(t, resp.Dispatched)
	assert.Equal(t, domain.CategoryAll, resp.Button.Category)

	w = do(r, http.MethodPost, "/buttons/logs/click", nil)
	require.Equal(t, http.StatusAccepted, w.Code)
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.False(t, resp.Dispatched)

	assert.Equal(t, []domain.Category{domain.CategoryAll}, coord.dispatched)
}

func TestUploadHandler_ClickButtonErrors(t *testing.T) {
	h, coord, _ := newTestHandler(t)
	r := newTestRouter(h)

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/buttons/video/click", nil).Code)

	coord.dispatchErr = errpkg.ErrShuttingDown
	assert.Equal(t, http.StatusServiceUnavailable, do(r, http.MethodPost, "/buttons/road/click", nil).Code)
}

func TestUploadHandler_ListRoutes(t *testing.T) {
	h, _, routes := newTestHandler(t)
	r := newTestRouter(h)

	w := do(r, http.MethodGet, "/routes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	other := "b2a0ccea32023010|2023-07-28--09-00-00"
	require.NoError(t, routes.SaveRoute(context.Background(), &domain.UploadTarget{Name: other, MaxSegment: 1}))
	require.NoError(t, routes.SaveRoute(context.Background(), &domain.UploadTarget{Name: testRoute, MaxSegment: 5}))

	w = do(r, http.MethodGet, "/routes", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got []domain.UploadTarget
	require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
	assert.Equal(t, []domain.UploadTarget{
		{Name: testRoute, MaxSegment: 5},
		{Name: other, MaxSegment: 1},
	}, got)
}
