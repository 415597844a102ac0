// Package services provides the stream discovery pipeline and its dependency injection container.
package services

import (
	"github.com/amaumene/gostremiojackett/internal/cache"
	"github.com/amaumene/gostremiojackett/internal/config"
	"github.com/amaumene/gostremiojackett/internal/constants"
	"github.com/amaumene/gostremiojackett/internal/database"
	"github.com/amaumene/gostremiojackett/internal/metrics"
	"github.com/amaumene/gostremiojackett/internal/models"
	"github.com/amaumene/gostremiojackett/pkg/logger"
)

// Container holds all application services for dependency injection.
type Container struct {
	Metadata    *Metadata
	Searcher    *MultiSourceSearcher
	Pipeline    *MagnetResolutionPipeline
	Coordinator *Coordinator
	Cache       *cache.LRUCache[models.TitleMeta]
	DB          database.MetaStore
	Logger      logger.Logger
	Metrics     *metrics.Collector
}

// NewContainer wires the pipeline from cfg. db may be nil.
func NewContainer(cfg *config.Config, db database.MetaStore, log logger.Logger, m *metrics.Collector) *Container {
	metaCache := cache.New[models.TitleMeta](cfg.CacheSize, cfg.CacheTTL)
	metadata := NewMetadata(metaCache, db, log)

	sources := make([]Source, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		sources = append(sources, NewJackettSource(src, cfg.Categories, cfg.SearchTimeout, log))
	}
	searcher := NewMultiSourceSearcher(sources, log, m)

	var engine FileLister
	if cfg.EngineEnabled {
		engine = NewAnacrolixEngine(cfg.EngineConnections, log)
	}
	resolver := NewTorrentMetadataResolver(NewMetainfoParser(constants.TorrentFetchTimeout), engine, cfg.EngineTimeout, log)
	redirects := NewRedirectResolver(cfg.RedirectTimeout, cfg.MaxRedirects, log)

	pipeline := NewMagnetResolutionPipeline(redirects, resolver, cfg.ResolveAttempts, constants.ResolveRetryDelay, log, m)
	coordinator := NewCoordinator(metadata, searcher, pipeline, cfg.MinPeers, cfg.ResolveConcurrency, log, m)

	return &Container{
		Metadata:    metadata,
		Searcher:    searcher,
		Pipeline:    pipeline,
		Coordinator: coordinator,
		Cache:       metaCache,
		DB:          db,
		Logger:      log,
		Metrics:     m,
	}
}
