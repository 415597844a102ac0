package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/amaumene/gostremiojackett/internal/models"
	"github.com/amaumene/gostremiojackett/pkg/logger"
)

type fakeSource struct {
	name       string
	candidates []models.Candidate
	err        error
	delay      time.Duration
	panics     bool
	query      string
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Search(_ context.Context, query string) ([]models.Candidate, error) {
	f.query = query
	if f.panics {
		panic("source exploded")
	}
	time.Sleep(f.delay)
	return f.candidates, f.err
}

func TestMultiSourceSearcher_ConcatenatesInSourceOrder(t *testing.T) {
	slow := &fakeSource{
		name:       "host1",
		delay:      30 * time.Millisecond,
		candidates: []models.Candidate{{Title: "a", SourceID: "host1"}},
	}
	fast := &fakeSource{
		name:       "host2",
		candidates: []models.Candidate{{Title: "b", SourceID: "host2"}, {Title: "c", SourceID: "host2"}},
	}
	s := NewMultiSourceSearcher([]Source{slow, fast}, logger.Nop(), nil)

	result := s.Search(context.Background(), "Movie 2020")

	assert.Len(t, result, 3)
	assert.Equal(t, "a", result[0].Title)
	assert.Equal(t, "b", result[1].Title)
	assert.Equal(t, "Movie 2020", slow.query)
	assert.Equal(t, "Movie 2020", fast.query)
}

func TestMultiSourceSearcher_IsolatesFailures(t *testing.T) {
	sources := []Source{
		&fakeSource{name: "broken", err: errors.New("connection refused")},
		&fakeSource{name: "panicky", panics: true},
		&fakeSource{name: "ok", candidates: []models.Candidate{{Title: "survivor"}}},
	}
	s := NewMultiSourceSearcher(sources, logger.Nop(), nil)

	result := s.Search(context.Background(), "q")

	assert.Equal(t, []models.Candidate{{Title: "survivor"}}, result)
}

func TestMultiSourceSearcher_NoSources(t *testing.T) {
	s := NewMultiSourceSearcher(nil, logger.Nop(), nil)
	assert.Empty(t, s.Search(context.Background(), "q"))
}
