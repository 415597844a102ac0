package services

import (
	"context"
	"fmt"
	"time"

	"github.com/avast/retry-go"

	"github.com/amaumene/gostremiojackett/internal/constants"
	apperrors "github.com/amaumene/gostremiojackett/internal/errors"
	"github.com/amaumene/gostremiojackett/internal/metrics"
	"github.com/amaumene/gostremiojackett/internal/models"
	"github.com/amaumene/gostremiojackett/pkg/logger"
)

type URIResolver interface {
	Resolve(ctx context.Context, uri string) (string, error)
}

type MetadataResolver interface {
	Resolve(ctx context.Context, uri string) (*models.ParsedTorrent, error)
}

// MagnetResolutionPipeline resolves one candidate into a stream:
// redirect resolution, then torrent metadata, then stream building.
type MagnetResolutionPipeline struct {
	redirects  URIResolver
	metadata   MetadataResolver
	attempts   uint
	retryDelay time.Duration
	logger     logger.Logger
	metrics    *metrics.Collector
}

func NewMagnetResolutionPipeline(redirects URIResolver, metadata MetadataResolver, attempts int, retryDelay time.Duration, log logger.Logger, m *metrics.Collector) *MagnetResolutionPipeline {
	if attempts <= 0 {
		attempts = constants.MaxResolveAttempts
	}
	if retryDelay < 0 {
		retryDelay = 0
	}
	return &MagnetResolutionPipeline{
		redirects:  redirects,
		metadata:   metadata,
		attempts:   uint(attempts),
		retryDelay: retryDelay,
		logger:     log,
		metrics:    m,
	}
}

// Run returns the stream for c, or nil when the candidate yields no stream.
// Only transient failures are retried; a panic while resolving counts as one.
func (p *MagnetResolutionPipeline) Run(ctx context.Context, c models.Candidate, req models.StreamRequest) *models.Stream {
	var stream *models.Stream

	err := retry.Do(
		func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = apperrors.NewTransientError("panic during resolution", fmt.Errorf("%v", r))
				}
			}()
			s, err := p.resolve(ctx, c, req)
			if err != nil {
				return err
			}
			stream = s
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(p.attempts),
		retry.Delay(p.retryDelay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(apperrors.IsTransient),
		retry.OnRetry(func(n uint, err error) {
			if n+1 >= p.attempts {
				return
			}
			p.metrics.ObserveRetry()
			p.logger.Debugf("[Pipeline] attempt %d for %s failed, retrying: %v", n+1, truncate(c.Title, 60), err)
		}),
	)
	if err != nil {
		if apperrors.IsTransient(err) {
			p.metrics.ObserveResolution(metrics.OutcomeFailed)
			p.logger.Warnf("[Pipeline] %s (%s) failed after %d attempts: %v", truncate(c.Title, 60), c.Tracker, p.attempts, err)
			return nil
		}
		p.metrics.ObserveResolution(metrics.OutcomeDropped)
		p.logger.Debugf("[Pipeline] %s (%s) dropped: %v", truncate(c.Title, 60), c.Tracker, err)
		return nil
	}

	p.metrics.ObserveResolution(metrics.OutcomeStream)
	return stream
}

func (p *MagnetResolutionPipeline) resolve(ctx context.Context, c models.Candidate, req models.StreamRequest) (*models.Stream, error) {
	uri, err := p.redirects.Resolve(ctx, c.URI())
	if err != nil {
		return nil, err
	}
	parsed, err := p.metadata.Resolve(ctx, uri)
	if err != nil {
		return nil, err
	}
	return BuildStream(parsed, c, req)
}
