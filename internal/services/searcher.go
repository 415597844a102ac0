package services

import (
	"context"
	"fmt"

	"github.com/cehbz/torrentname"
	"golang.org/x/sync/errgroup"

	"github.com/amaumene/gostremiojackett/internal/constants"
	"github.com/amaumene/gostremiojackett/internal/metrics"
	"github.com/amaumene/gostremiojackett/internal/models"
	"github.com/amaumene/gostremiojackett/pkg/logger"
)

// Source is one indexer endpoint able to answer a search query.
type Source interface {
	Name() string
	Search(ctx context.Context, query string) ([]models.Candidate, error)
}

// MultiSourceSearcher queries all sources concurrently with the same query.
type MultiSourceSearcher struct {
	sources []Source
	logger  logger.Logger
	metrics *metrics.Collector
}

func NewMultiSourceSearcher(sources []Source, log logger.Logger, m *metrics.Collector) *MultiSourceSearcher {
	return &MultiSourceSearcher{sources: sources, logger: log, metrics: m}
}

// Search returns the candidates of every source, concatenated in source order.
// A failing source contributes nothing.
func (s *MultiSourceSearcher) Search(ctx context.Context, query string) []models.Candidate {
	perSource := make([][]models.Candidate, len(s.sources))

	var g errgroup.Group
	for i, src := range s.sources {
		g.Go(func() error {
			perSource[i] = s.searchSource(ctx, src, query)
			return nil
		})
	}
	_ = g.Wait()

	var all []models.Candidate
	for _, candidates := range perSource {
		all = append(all, candidates...)
	}

	s.metrics.AddCandidates("raw", len(all))
	s.logger.Infof("[Searcher] search completed - %d candidates from %d sources for query: %s", len(all), len(s.sources), query)
	return all
}

func (s *MultiSourceSearcher) searchSource(ctx context.Context, src Source, query string) (candidates []models.Candidate) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("[Searcher] %s search panic recovered: %v", src.Name(), r)
			s.metrics.ObserveSourceQuery(src.Name(), "error")
			candidates = nil
		}
	}()

	results, err := src.Search(ctx, query)
	if err != nil {
		s.logger.Warnf("[Searcher] failed to search %s: %v", src.Name(), err)
		s.metrics.ObserveSourceQuery(src.Name(), "error")
		return nil
	}

	s.metrics.ObserveSourceQuery(src.Name(), "ok")
	s.logCandidates(src.Name(), results)
	return results
}

func (s *MultiSourceSearcher) logCandidates(source string, candidates []models.Candidate) {
	for i, c := range candidates {
		if i >= constants.MaxCandidatesToLog {
			return
		}
		var details string
		if parsed := torrentname.Parse(c.Title); parsed != nil {
			details = fmt.Sprintf(" [%s, %d, %s, %s, %s, %v%%]",
				parsed.Title, parsed.Year, parsed.Resolution, parsed.Source, parsed.Codec, parsed.Confidence)
		}
		s.logger.Debugf("[%s] torrent %d: %s (tracker: %s, seeders: %d, peers: %d)%s",
			source, i+1, c.Title, c.Tracker, c.Seeders, c.Peers, details)
	}
}
