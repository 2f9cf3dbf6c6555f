package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"assetgraph/backend/internal/graph"
	"assetgraph/backend/internal/layout"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := graph.NewSafeGraph(graph.NewAssetGraph())
	server := NewServer(store, nil, layout.DefaultSpringOptions())
	return server.Router(false)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(payload)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func createTestAsset(t *testing.T, router *gin.Engine, id, class string) {
	t.Helper()
	w := doJSON(t, router, "POST", "/api/assets", map[string]interface{}{
		"id": id, "name": "Asset " + id, "class": class,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "ok", response["status"])
}

func TestCreateAsset(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, "POST", "/api/assets", map[string]interface{}{
		"id": "AAPL", "name": "Apple", "class": "equity", "ticker": "AAPL",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, "GET", "/api/assets/AAPL", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Apple")
}

func TestCreateAsset_GeneratesID(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, "POST", "/api/assets", map[string]interface{}{
		"name": "Anonymous", "class": "commodity",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created["id"])
}

func TestCreateAsset_Invalid(t *testing.T) {
	router := newTestRouter(t)

	// Missing required fields
	w := doJSON(t, router, "POST", "/api/assets", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown class
	w = doJSON(t, router, "POST", "/api/assets", map[string]interface{}{
		"id": "X", "name": "X", "class": "crypto",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAsset_DuplicateConflict(t *testing.T) {
	router := newTestRouter(t)
	createTestAsset(t, router, "AAPL", "equity")

	w := doJSON(t, router, "POST", "/api/assets", map[string]interface{}{
		"id": "AAPL", "name": "Apple again", "class": "equity",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetAsset_NotFound(t *testing.T) {
	router := newTestRouter(t)
	w := doJSON(t, router, "GET", "/api/assets/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteAsset_CascadesToVisualization(t *testing.T) {
	router := newTestRouter(t)
	createTestAsset(t, router, "A", "equity")
	createTestAsset(t, router, "B", "bond")

	w := doJSON(t, router, "POST", "/api/relationships", map[string]interface{}{
		"source_id": "A", "target_id": "B", "type": "owns", "directed": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, "GET", "/api/graph/visualization?layout=circular", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Nodes []map[string]interface{} `json:"nodes"`
		Edges []map[string]interface{} `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.Len(t, data.Nodes, 2)
	require.Len(t, data.Edges, 1)
	assert.Equal(t, "owns", data.Edges[0]["type"])

	w = doJSON(t, router, "DELETE", "/api/assets/A", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/api/graph/visualization?layout=circular", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.Len(t, data.Nodes, 1)
	assert.Empty(t, data.Edges)
}

func TestCreateRelationship_MissingEndpoint(t *testing.T) {
	router := newTestRouter(t)
	createTestAsset(t, router, "A", "equity")

	w := doJSON(t, router, "POST", "/api/relationships", map[string]interface{}{
		"source_id": "A", "target_id": "ghost", "type": "owns",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVisualization_FiltersAndColors(t *testing.T) {
	router := newTestRouter(t)
	createTestAsset(t, router, "A", "equity")
	createTestAsset(t, router, "B", "bond")
	createTestAsset(t, router, "C", "currency")

	w := doJSON(t, router, "POST", "/api/relationships", map[string]interface{}{
		"id": "r1", "source_id": "A", "target_id": "B", "type": "owns", "directed": true,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, "GET",
		"/api/graph/visualization?layout=grid&asset_class=equity,bond&colors=owns:%23ff0000", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Nodes []map[string]interface{} `json:"nodes"`
		Edges []map[string]interface{} `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.Len(t, data.Nodes, 2, "currency filtered out")
	require.Len(t, data.Edges, 1)
	assert.Equal(t, "#ff0000", data.Edges[0]["color"])
}

func TestVisualization_InvalidInputs(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, "GET", "/api/graph/visualization?layout=treemap", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "GET", "/api/graph/visualization?asset_class=crypto", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "GET", "/api/graph/visualization?colors=owns:red", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, "GET", "/api/graph/visualization?seed=abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVisualization_SeedIsReproducible(t *testing.T) {
	router := newTestRouter(t)
	createTestAsset(t, router, "A", "equity")
	createTestAsset(t, router, "B", "bond")
	createTestAsset(t, router, "C", "currency")

	first := doJSON(t, router, "GET", "/api/graph/visualization?layout=spring&seed=9", nil)
	second := doJSON(t, router, "GET", "/api/graph/visualization?layout=spring&seed=9", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestVisualization_3DLayoutIncludesZ(t *testing.T) {
	router := newTestRouter(t)
	createTestAsset(t, router, "A", "equity")
	createTestAsset(t, router, "B", "bond")

	w := doJSON(t, router, "GET", "/api/graph/visualization?layout=spring3d", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Nodes []map[string]interface{} `json:"nodes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	require.Len(t, data.Nodes, 2)
	_, hasZ := data.Nodes[0]["z"]
	assert.True(t, hasZ, "3D layout should include z coordinates")
}

func TestCreateEvent(t *testing.T) {
	router := newTestRouter(t)
	createTestAsset(t, router, "AAPL", "equity")

	w := doJSON(t, router, "POST", "/api/events", map[string]interface{}{
		"asset_ids":     []string{"AAPL"},
		"date":          "2026-03-12",
		"description":   "Antitrust inquiry",
		"activity_type": "inquiry",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Unknown asset reference
	w = doJSON(t, router, "POST", "/api/events", map[string]interface{}{
		"asset_ids":     []string{"ghost"},
		"date":          "2026-03-12",
		"activity_type": "inquiry",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteEvent(t *testing.T) {
	router := newTestRouter(t)
	createTestAsset(t, router, "AAPL", "equity")

	w := doJSON(t, router, "POST", "/api/events", map[string]interface{}{
		"id":            "ev-1",
		"asset_ids":     []string{"AAPL"},
		"date":          "2026-03-12",
		"activity_type": "inquiry",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, "DELETE", "/api/events/ev-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "DELETE", "/api/events/ev-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportFilings(t *testing.T) {
	router := newTestRouter(t)
	createTestAsset(t, router, "AAPL", "equity")

	html := `<table class="filings">
		<tr><th>Date</th><th>Activity</th><th>Description</th><th>Assets</th></tr>
		<tr><td>2026-03-12</td><td>inquiry</td><td>Platform inquiry</td><td>AAPL</td></tr>
		<tr><td>2026-04-01</td><td>inquiry</td><td>Unknown instrument</td><td>ZZZZ</td></tr>
	</table>`

	req, err := http.NewRequest("POST", "/api/events/import", strings.NewReader(html))
	require.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["imported"])
	assert.Equal(t, float64(1), response["unknown_assets"])
	assert.Equal(t, float64(0), response["failed"])
}

func TestImportEvents_CountsRejectionsSeparately(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := graph.NewSafeGraph(graph.NewAssetGraph())
	server := NewServer(store, nil, layout.DefaultSpringOptions())
	require.NoError(t, store.AddAsset(graph.Equity{
		AssetBase: graph.AssetBase{ID: "AAPL", Name: "Apple"},
	}))

	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	events := []graph.RegulatoryEvent{
		{ID: "ev-1", AssetIDs: []string{"AAPL"}, Date: date, ActivityType: "inquiry"},
		{ID: "ev-2", AssetIDs: []string{"ghost"}, Date: date, ActivityType: "inquiry"},
		// Duplicate id is a conflict, not an unknown asset
		{ID: "ev-1", AssetIDs: []string{"AAPL"}, Date: date, ActivityType: "inquiry"},
	}

	added, unknown, failed := server.importEvents(context.Background(), events)
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, unknown)
	assert.Equal(t, 1, failed)
}

func TestImportFilings_NoTable(t *testing.T) {
	router := newTestRouter(t)

	req, err := http.NewRequest("POST", "/api/events/import", strings.NewReader("<p>no filings</p>"))
	require.NoError(t, err)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
