package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/amaumene/gostremiojackett/internal/constants"
	"github.com/amaumene/gostremiojackett/internal/metrics"
	"github.com/amaumene/gostremiojackett/internal/models"
	"github.com/amaumene/gostremiojackett/pkg/logger"
)

type MetadataLookup interface {
	Lookup(ctx context.Context, titleID string, mediaType models.MediaType) (models.TitleMeta, error)
}

type CandidateSearcher interface {
	Search(ctx context.Context, query string) []models.Candidate
}

type CandidateResolver interface {
	Run(ctx context.Context, c models.Candidate, req models.StreamRequest) *models.Stream
}

// Coordinator runs the whole discovery: metadata lookup, search, dedup and
// concurrent resolution of every surviving candidate.
type Coordinator struct {
	metadata    MetadataLookup
	searcher    CandidateSearcher
	resolver    CandidateResolver
	minPeers    int
	concurrency int
	logger      logger.Logger
	metrics     *metrics.Collector
}

func NewCoordinator(metadata MetadataLookup, searcher CandidateSearcher, resolver CandidateResolver, minPeers, concurrency int, log logger.Logger, m *metrics.Collector) *Coordinator {
	if concurrency <= 0 {
		concurrency = constants.ResolveConcurrency
	}
	return &Coordinator{
		metadata:    metadata,
		searcher:    searcher,
		resolver:    resolver,
		minPeers:    minPeers,
		concurrency: concurrency,
		logger:      log,
		metrics:     m,
	}
}

// Discover returns the streams for req in deduplicated candidate order.
// It never fails: every per-source and per-candidate error only shrinks the result.
func (c *Coordinator) Discover(ctx context.Context, req models.StreamRequest) []models.Stream {
	start := time.Now()
	defer func() {
		c.metrics.ObserveDiscovery(string(req.MediaType), time.Since(start))
	}()

	meta, err := c.metadata.Lookup(ctx, req.TitleID, req.MediaType)
	if err != nil {
		c.logger.Warnf("[Coordinator] metadata lookup failed for %s, using degraded query: %v", req.TitleID, err)
	}

	query := BuildQuery(meta, req)
	c.logger.Infof("[Coordinator] searching %s with query: %q", req, query)

	candidates := Deduplicate(c.searcher.Search(ctx, query), c.minPeers)
	c.metrics.AddCandidates("deduplicated", len(candidates))
	if len(candidates) == 0 {
		c.logger.Infof("[Coordinator] no candidates for %s", req)
		return []models.Stream{}
	}

	results := make([]*models.Stream, len(candidates))
	g := new(errgroup.Group)
	g.SetLimit(c.concurrency)
	for i, candidate := range candidates {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Errorf("[Coordinator] resolution panic recovered for %s: %v", candidate.Title, r)
				}
			}()
			results[i] = c.resolver.Run(ctx, candidate, req)
			return nil
		})
	}
	_ = g.Wait()

	streams := make([]models.Stream, 0, len(results))
	for _, s := range results {
		if s != nil {
			streams = append(streams, *s)
		}
	}

	c.logger.Infof("[Coordinator] %s: %d streams from %d candidates in %s",
		req, len(streams), len(candidates), time.Since(start).Round(time.Millisecond))
	return streams
}

// BuildQuery returns "<name> <year>" for movies and "<name> S<season>" for series.
func BuildQuery(meta models.TitleMeta, req models.StreamRequest) string {
	if req.MediaType == models.MediaTypeSeries {
		season := req.Season
		if !req.HasEpisode {
			season = 1
		}
		return strings.TrimSpace(fmt.Sprintf("%s S%02d", meta.Name, season))
	}
	if meta.Year > 0 {
		return strings.TrimSpace(fmt.Sprintf("%s %d", meta.Name, meta.Year))
	}
	return strings.TrimSpace(meta.Name)
}
