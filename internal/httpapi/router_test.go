package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/thehipsterciso/hc-enterprise-kg/internal/domain"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/engine"
	_ "github.com/thehipsterciso/hc-enterprise-kg/internal/engine/memory"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/exportimport"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/graphstate"
	"github.com/thehipsterciso/hc-enterprise-kg/internal/tools"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	ctx := context.Background()
	eng, err := engine.New("memory")
	require.NoError(t, err)
	now := time.Now().UTC()
	_, err = eng.AddEntity(ctx, domain.NewEntity(domain.EntitySystem, "Billing API", now))
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "graph.json")
	doc, err := exportimport.Export(ctx, eng)
	require.NoError(t, err)
	data, err := exportimport.Marshal(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	state := graphstate.New("memory", nil)
	require.NoError(t, state.Load(ctx, path))
	return NewRouter(tools.NewDispatcher(state, nil), nil)
}

func TestStatisticsRouteReturnsOK(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/statistics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestEntityRouteRejectsMalformedID(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/entities/"+url.PathEscape("not a valid id!"), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "invalid path parameter", body["error"])
}

func TestEntityRouteNotFoundMapsToHTTP404(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/entities/does-not-exist", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchRouteReturnsMatches(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/search?q=Billing", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestOpenAIToolsRouteListsThirteenTools(t *testing.T) {
	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/openai/tools", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var defs []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &defs))
	require.Len(t, defs, 13)
}
