package services

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/gostremiojackett/internal/config"
	apperrors "github.com/amaumene/gostremiojackett/internal/errors"
	"github.com/amaumene/gostremiojackett/pkg/logger"
)

const jackettBody = `{"Results":[
	{"Tracker":"yts","CategoryDesc":"Movies","Title":"Movie 2020 1080p","Seeders":10,"Peers":12,"Link":"http://jackett/dl/1","MagnetUri":null},
	{"Tracker":"rarbg","CategoryDesc":"Movies/HD","Title":"Movie.2020.720p","Seeders":3,"Peers":4,"Link":null,"MagnetUri":"magnet:?xt=urn:btih:abc"}
]}`

func TestNewJackettSource_WarnsOnMalformedKey(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithOptions(logger.Options{Level: "warn", Output: &buf})

	NewJackettSource(config.Source{Name: "host1", URL: "http://jackett", APIKey: "abcdefgh12345678"}, nil, time.Second, log)
	assert.Empty(t, buf.String())

	NewJackettSource(config.Source{Name: "host1", URL: "http://jackett", APIKey: "short"}, nil, time.Second, log)
	assert.Contains(t, buf.String(), "[host1] API key [***] does not look like a Jackett key")
}

func TestJackettSource_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2.0/indexers/all/results", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "secret", q.Get("apikey"))
		assert.Equal(t, "Movie 2020", q.Get("Query"))
		assert.Equal(t, []string{"2000", "5000"}, q["Category[]"])
		assert.Equal(t, []string{"yts", "rarbg"}, q["Tracker[]"])
		assert.Equal(t, "XMLHttpRequest", r.Header.Get("X-Requested-With"))
		assert.Equal(t, "session=1", r.Header.Get("Cookie"))
		assert.Equal(t, "bar", r.Header.Get("X-Foo"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(jackettBody))
	}))
	defer server.Close()

	src := NewJackettSource(config.Source{
		Name:     "host1",
		URL:      server.URL,
		APIKey:   "secret",
		Trackers: []string{"yts", "rarbg"},
		Cookie:   "session=1",
		Headers:  map[string]string{"X-Foo": "bar"},
	}, []int{2000, 5000}, time.Second, logger.Nop())

	assert.Equal(t, "host1", src.Name())

	candidates, err := src.Search(context.Background(), "Movie 2020")
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "yts", candidates[0].Tracker)
	assert.Equal(t, "Movies", candidates[0].Category)
	assert.Equal(t, 12, candidates[0].Peers)
	assert.Equal(t, "http://jackett/dl/1", candidates[0].URI())
	assert.Equal(t, "host1", candidates[0].SourceID)
	assert.Equal(t, "magnet:?xt=urn:btih:abc", candidates[1].URI())
}

func TestJackettSource_SearchErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"bad status", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}},
		{"bad json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			src := NewJackettSource(config.Source{Name: "host1", URL: server.URL}, nil, time.Second, logger.Nop())
			_, err := src.Search(context.Background(), "q")
			assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeSourceUnavailable))
		})
	}
}
