package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"bindgraph/store"
)

func newTestServer(t *testing.T) (*Server, store.Store) {
	t.Helper()
	st, err := store.Open("")
	assert.NoError(t, err)

	opts := DefaultOptions()
	opts.GinMode = "test"
	return New(opts, st, nil), st
}

func TestHandleGetGraphReturnsLatestRun(t *testing.T) {
	s, st := newTestServer(t)
	ctx := context.Background()
	assert.NoError(t, st.SaveRun(ctx, store.Run{
		ID:        "run-1",
		Component: "Root",
		GraphJSON: `{"component":"Root"}`,
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/graphs/Root", nil)
	s.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Root")
}

func TestHandleGetGraphReturns404ForUnknownComponent(t *testing.T) {
	s, _ := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/graphs/Missing", nil)
	s.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleListRunsFiltersByQueryParam(t *testing.T) {
	s, st := newTestServer(t)
	ctx := context.Background()
	st.SaveRun(ctx, store.Run{ID: "a", Component: "Root"})
	st.SaveRun(ctx, store.Run{ID: "b", Component: "Sub"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/runs?component=Sub", nil)
	s.Engine().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"b"`)
	assert.NotContains(t, w.Body.String(), `"a"`)
}
