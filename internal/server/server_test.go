package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agenthands/linkgraph/internal/config"
	"github.com/agenthands/linkgraph/internal/core"
	"github.com/agenthands/linkgraph/internal/core/model"
	"github.com/agenthands/linkgraph/internal/metrics"
)

type stubSource struct {
	records []model.EdgeRecord
	err     error
}

func (s *stubSource) Records(ctx context.Context) ([]model.EdgeRecord, error) {
	return s.records, s.err
}

func scenarioRecords() []model.EdgeRecord {
	return []model.EdgeRecord{
		{Source: "1", Target: "2", Value: "5"},
		{Source: "2", Target: "3", Value: "7"},
		{Source: "3000", Target: "3001", Value: "1"},
	}
}

func newTestServer(t *testing.T, src *stubSource) (*Server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	cfg.Limits.MaxRecords = 3
	s := NewServer(core.NewLinkGraph(src), cfg, zap.NewNop(), metrics.NewCollector("linkgraph"))
	return s, s.SetupRouter()
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeDoc(t *testing.T, w *httptest.ResponseRecorder) model.GraphDocument {
	t.Helper()
	var doc model.GraphDocument
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	return doc
}

func TestJSONData(t *testing.T) {
	_, r := newTestServer(t, &stubSource{records: scenarioRecords()})

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		w := do(r, method, "/jsonData", "")
		require.Equal(t, http.StatusOK, w.Code)

		doc := decodeDoc(t, w)
		assert.Equal(t, scenarioRecords(), doc.Links)
		assert.Len(t, doc.Nodes, 5)
		assert.Contains(t, doc.Nodes, model.GraphNode{ID: "3", Group: 0})
	}
}

func TestJSONData_Empty(t *testing.T) {
	_, r := newTestServer(t, &stubSource{})

	w := do(r, http.MethodGet, "/jsonData", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"nodes":[],"links":[]}`, w.Body.String())
}

func TestJSONData_Focus(t *testing.T) {
	_, r := newTestServer(t, &stubSource{records: scenarioRecords()})

	w := do(r, http.MethodGet, "/jsonData?query=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, scenarioRecords()[:2], decodeDoc(t, w).Links)

	w = do(r, http.MethodGet, "/jsonData?query=3000&window=0", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, scenarioRecords()[2:], decodeDoc(t, w).Links)
}

func TestJSONData_BadParams(t *testing.T) {
	_, r := newTestServer(t, &stubSource{records: scenarioRecords()})

	for _, target := range []string{"/jsonData?query=abc", "/jsonData?query=1&window=-5", "/jsonData?query=1&window=x"} {
		w := do(r, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
}

func TestJSONData_BuildFailure(t *testing.T) {
	tests := []struct {
		name   string
		src    *stubSource
		result string
	}{
		{"non-numeric id", &stubSource{records: []model.EdgeRecord{{Source: "a", Target: "2", Value: "1"}}}, metrics.ResultParse},
		{"malformed record", &stubSource{records: []model.EdgeRecord{{Source: "1"}}}, metrics.ResultMalformed},
		{"source error", &stubSource{err: errors.New("no such file")}, metrics.ResultSource},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, r := newTestServer(t, tt.src)

			w := do(r, http.MethodGet, "/jsonData", "")
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t, `{"error":"Failed to build graph"}`, w.Body.String())
			assert.Equal(t, 1.0, testutil.ToFloat64(s.Metrics.Builds.WithLabelValues(tt.result)))
		})
	}
}

func TestIndex(t *testing.T) {
	_, r := newTestServer(t, &stubSource{records: scenarioRecords()})

	w := do(r, http.MethodGet, "/?query=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `window.graphData = {"nodes":[`)
	assert.Contains(t, body, `{"id":"1","group":1}`)
	assert.Contains(t, body, "3 nodes, 2 links")
	assert.Contains(t, body, `/static/main.js`)
}

func TestIndex_Error(t *testing.T) {
	_, r := newTestServer(t, &stubSource{records: []model.EdgeRecord{{Source: "x", Target: "y"}}})

	w := do(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "The graph could not be built.")
}

func TestUpload(t *testing.T) {
	_, r := newTestServer(t, &stubSource{})

	w := do(r, http.MethodPost, "/graph", "source,target,value\n1,2,5\n2,3,7\n")
	require.Equal(t, http.StatusOK, w.Code)
	doc := decodeDoc(t, w)
	assert.Len(t, doc.Links, 2)
	assert.Len(t, doc.Nodes, 3)
}

func TestUpload_Errors(t *testing.T) {
	_, r := newTestServer(t, &stubSource{})

	tests := []struct {
		name string
		body string
		code int
	}{
		{"missing target", "source,target,value\n1\n", http.StatusUnprocessableEntity},
		{"non-numeric id", "source,target,value\na,2,1\n", http.StatusUnprocessableEntity},
		{"too many records", "source,target\n1,2\n2,3\n3,4\n4,5\n", http.StatusRequestEntityTooLarge},
		{"broken quoting", "source,target\n\"1,2\n", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodPost, "/graph", tt.body)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestHealthAndMetrics(t *testing.T) {
	_, r := newTestServer(t, &stubSource{records: scenarioRecords()})

	w := do(r, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	do(r, http.MethodGet, "/jsonData", "")
	w = do(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `linkgraph_graph_builds_total{result="ok"} 1`)
	assert.Contains(t, w.Body.String(), `linkgraph_http_requests_total{method="GET",route="/jsonData",status="200"} 1`)
}

func TestRequestID(t *testing.T) {
	_, r := newTestServer(t, &stubSource{})

	w := do(r, http.MethodGet, "/healthz", "")
	assert.Len(t, w.Header().Get(requestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestStatic(t *testing.T) {
	_, r := newTestServer(t, &stubSource{})

	w := do(r, http.MethodGet, "/static/main.js", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "forceSimulation")
}
