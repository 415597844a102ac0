package services

import (
	"context"
	"os"
	"path"

	"github.com/anacrolix/torrent"

	"github.com/amaumene/gostremiojackett/internal/constants"
	apperrors "github.com/amaumene/gostremiojackett/internal/errors"
	"github.com/amaumene/gostremiojackett/internal/models"
	"github.com/amaumene/gostremiojackett/pkg/logger"
)

// AnacrolixEngine enumerates the files of a magnet by fetching its info
// dictionary from the swarm. Each call runs its own short-lived client.
type AnacrolixEngine struct {
	connections int
	logger      logger.Logger
}

func NewAnacrolixEngine(connections int, log logger.Logger) *AnacrolixEngine {
	if connections <= 0 {
		connections = constants.EngineConnections
	}
	return &AnacrolixEngine{connections: connections, logger: log}
}

// ListFiles blocks until the torrent info is known or ctx is done.
func (e *AnacrolixEngine) ListFiles(ctx context.Context, magnet string) ([]models.TorrentFile, error) {
	dataDir, err := os.MkdirTemp("", "gostremiojackett-engine-")
	if err != nil {
		return nil, apperrors.NewTransientError("failed to create engine data dir", err)
	}
	defer func() {
		if err := os.RemoveAll(dataDir); err != nil {
			e.logger.Warnf("[Engine] failed to remove data dir %s: %v", dataDir, err)
		}
	}()

	cfg := torrent.NewDefaultClientConfig()
	cfg.DataDir = dataDir
	cfg.ListenPort = 0
	cfg.NoUpload = true
	cfg.Seed = false
	cfg.EstablishedConnsPerTorrent = e.connections

	client, err := torrent.NewClient(cfg)
	if err != nil {
		return nil, apperrors.NewTransientError("failed to start torrent engine", err)
	}
	defer func() {
		for _, err := range client.Close() {
			e.logger.Warnf("[Engine] client close: %v", err)
		}
	}()

	t, err := client.AddMagnet(magnet)
	if err != nil {
		return nil, apperrors.NewTransientError("failed to add magnet", err)
	}
	defer t.Drop()

	select {
	case <-t.GotInfo():
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	files := make([]models.TorrentFile, 0, len(t.Files()))
	for _, f := range t.Files() {
		files = append(files, models.TorrentFile{
			Name:   path.Base(f.DisplayPath()),
			Length: f.Length(),
		})
	}
	e.logger.Debugf("[Engine] %s: %d files", t.InfoHash().HexString(), len(files))
	return files, nil
}
