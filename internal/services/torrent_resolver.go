package services

import (
	"context"
	"errors"
	"time"

	"github.com/amaumene/gostremiojackett/internal/constants"
	apperrors "github.com/amaumene/gostremiojackett/internal/errors"
	"github.com/amaumene/gostremiojackett/internal/models"
	"github.com/amaumene/gostremiojackett/pkg/logger"
)

type TorrentParser interface {
	ParseLocal(uri string) (*models.ParsedTorrent, error)
	ParseRemote(ctx context.Context, uri string) (*models.ParsedTorrent, error)
}

// FileLister enumerates the files of a magnet from the swarm.
type FileLister interface {
	ListFiles(ctx context.Context, magnet string) ([]models.TorrentFile, error)
}

// TorrentMetadataResolver turns a final candidate URI into torrent metadata.
// Magnets without a file list are completed through the FileLister when one is set.
type TorrentMetadataResolver struct {
	parser        TorrentParser
	engine        FileLister
	engineTimeout time.Duration
	logger        logger.Logger
}

func NewTorrentMetadataResolver(parser TorrentParser, engine FileLister, engineTimeout time.Duration, log logger.Logger) *TorrentMetadataResolver {
	if engineTimeout <= 0 {
		engineTimeout = constants.EngineTimeout
	}
	return &TorrentMetadataResolver{
		parser:        parser,
		engine:        engine,
		engineTimeout: engineTimeout,
		logger:        log,
	}
}

func (r *TorrentMetadataResolver) Resolve(ctx context.Context, uri string) (*models.ParsedTorrent, error) {
	switch {
	case isMagnet(uri):
		return r.resolveMagnet(ctx, uri)
	case isHTTP(uri):
		parsed, err := r.parser.ParseRemote(ctx, uri)
		if err != nil {
			return nil, apperrors.NewParseError("failed to parse torrent file", err)
		}
		return parsed, nil
	default:
		return nil, apperrors.NewUnsupportedSchemeError(uri)
	}
}

func (r *TorrentMetadataResolver) resolveMagnet(ctx context.Context, uri string) (*models.ParsedTorrent, error) {
	parsed, err := r.parser.ParseLocal(uri)
	if err != nil {
		return nil, apperrors.NewParseError("failed to parse magnet", err)
	}
	if len(parsed.Files) > 0 || r.engine == nil {
		return parsed, nil
	}

	engineCtx, cancel := context.WithTimeout(ctx, r.engineTimeout)
	defer cancel()

	files, err := r.engine.ListFiles(engineCtx, uri)
	switch {
	case err == nil:
		parsed.Files = files
	case errors.Is(err, context.DeadlineExceeded):
		// keep the magnet's metadata with an empty file list
		r.logger.Debugf("[Resolver] engine timed out for %s", parsed.InfoHash)
	case apperrors.IsTransient(err):
		return nil, err
	default:
		return nil, apperrors.NewTransientError("torrent engine failed", err)
	}
	return parsed, nil
}
