package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/gostremiojackett/internal/config"
	"github.com/amaumene/gostremiojackett/internal/metrics"
	"github.com/amaumene/gostremiojackett/internal/middleware"
	"github.com/amaumene/gostremiojackett/internal/models"
	"github.com/amaumene/gostremiojackett/pkg/logger"
)

type fakeDiscoverer struct {
	mu       sync.Mutex
	requests []models.StreamRequest
	streams  []models.Stream
	ctxErr   error
}

func (f *fakeDiscoverer) Discover(ctx context.Context, req models.StreamRequest) []models.Stream {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	f.ctxErr = ctx.Err()
	return f.streams
}

func setupTestRouter(d StreamDiscoverer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CORS())

	registry := prometheus.NewRegistry()
	metrics.New(registry)

	h := &Handler{
		discoverer: d,
		gatherer:   registry,
		config:     &config.Config{Sources: []config.Source{{Name: "host1"}, {Name: "host2"}}},
		logger:     logger.Nop(),
	}
	h.RegisterRoutes(r)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestManifest(t *testing.T) {
	w := get(setupTestRouter(&fakeDiscoverer{}), "/manifest.json")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	var manifest models.Manifest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &manifest))
	assert.Equal(t, []string{"stream"}, manifest.Resources)
	assert.Equal(t, []string{"movie", "series"}, manifest.Types)
	assert.Equal(t, []string{"tt"}, manifest.IDPrefixes)
	assert.NotNil(t, manifest.Catalogs)
	assert.Contains(t, w.Body.String(), `"catalogs":[]`)
}

func TestStream_Movie(t *testing.T) {
	d := &fakeDiscoverer{streams: []models.Stream{{Name: "yts", InfoHash: "abc", Sources: []string{"dht:abc"}}}}
	w := get(setupTestRouter(d), "/stream/movie/tt0133093.json")

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, d.requests, 1)
	assert.Equal(t, models.StreamRequest{TitleID: "tt0133093", MediaType: models.MediaTypeMovie}, d.requests[0])
	assert.NoError(t, d.ctxErr)

	var resp models.StreamResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Streams, 1)
	assert.Equal(t, "abc", resp.Streams[0].InfoHash)
}

func TestStream_Series(t *testing.T) {
	d := &fakeDiscoverer{}
	w := get(setupTestRouter(d), "/stream/series/tt0903747:3:7.json")

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, d.requests, 1)
	assert.Equal(t, models.StreamRequest{TitleID: "tt0903747", MediaType: models.MediaTypeSeries, Season: 3, Episode: 7, HasEpisode: true}, d.requests[0])
	assert.JSONEq(t, `{"streams":[]}`, w.Body.String())
}

func TestStream_SeriesSpecials(t *testing.T) {
	d := &fakeDiscoverer{}
	w := get(setupTestRouter(d), "/stream/series/tt0903747:0:1.json")

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, d.requests, 1)
	assert.Equal(t, models.StreamRequest{TitleID: "tt0903747", MediaType: models.MediaTypeSeries, Season: 0, Episode: 1, HasEpisode: true}, d.requests[0])
}

func TestStream_InvalidRequests(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"bad id", "/stream/movie/abc.json"},
		{"tmdb id", "/stream/movie/tmdb:123.json"},
		{"partial episode", "/stream/series/tt123:1.json"},
		{"bad type", "/stream/channel/tt123.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDiscoverer{}
			w := get(setupTestRouter(d), tt.path)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, d.requests)
		})
	}
}

func TestParseStreamID(t *testing.T) {
	tests := []struct {
		id   string
		want models.StreamRequest
		ok   bool
	}{
		{"tt123", models.StreamRequest{TitleID: "tt123"}, true},
		{"tt123.json", models.StreamRequest{TitleID: "tt123"}, true},
		{"tt19514434:1:1", models.StreamRequest{TitleID: "tt19514434", Season: 1, Episode: 1, HasEpisode: true}, true},
		{"tt19514434:12:105", models.StreamRequest{TitleID: "tt19514434", Season: 12, Episode: 105, HasEpisode: true}, true},
		{"tt123:0:1", models.StreamRequest{TitleID: "tt123", Season: 0, Episode: 1, HasEpisode: true}, true},
		{"tt123:a:1", models.StreamRequest{}, false},
		{"", models.StreamRequest{}, false},
	}

	for _, tt := range tests {
		req, ok := parseStreamID(tt.id)
		assert.Equal(t, tt.ok, ok, tt.id)
		assert.Equal(t, tt.want, req, tt.id)
	}
}

func TestHealth(t *testing.T) {
	w := get(setupTestRouter(&fakeDiscoverer{}), "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","version":"3.0.0","sources":2}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	w := get(setupTestRouter(&fakeDiscoverer{}), "/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "gostremiojackett_resolve_retries_total"))
}

func TestHome(t *testing.T) {
	w := get(setupTestRouter(&fakeDiscoverer{}), "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "GoStremioJackett")
}
