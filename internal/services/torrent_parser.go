package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/anacrolix/torrent/metainfo"

	"github.com/amaumene/gostremiojackett/internal/constants"
	"github.com/amaumene/gostremiojackett/internal/models"
	"github.com/amaumene/gostremiojackett/pkg/httputil"
)

// MetainfoParser decodes magnet URIs and .torrent files.
type MetainfoParser struct {
	httpClient *http.Client
	maxBytes   int64
}

func NewMetainfoParser(fetchTimeout time.Duration) *MetainfoParser {
	if fetchTimeout <= 0 {
		fetchTimeout = constants.TorrentFetchTimeout
	}
	return &MetainfoParser{
		httpClient: httputil.NewHTTPClient(fetchTimeout),
		maxBytes:   constants.MaxTorrentBytes,
	}
}

// ParseLocal decodes a magnet URI. The file list is empty since a magnet
// carries no file information.
func (p *MetainfoParser) ParseLocal(uri string) (*models.ParsedTorrent, error) {
	m, err := metainfo.ParseMagnetUri(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid magnet uri: %w", err)
	}
	return &models.ParsedTorrent{
		InfoHash:     strings.ToLower(m.InfoHash.HexString()),
		Name:         m.DisplayName,
		AnnounceList: uniqueStrings(m.Trackers),
	}, nil
}

// ParseRemote downloads and decodes a .torrent file.
func (p *MetainfoParser) ParseRemote(ctx context.Context, uri string) (*models.ParsedTorrent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch torrent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch torrent: status %d", resp.StatusCode)
	}

	return p.parseTorrent(io.LimitReader(resp.Body, p.maxBytes))
}

func (p *MetainfoParser) parseTorrent(r io.Reader) (*models.ParsedTorrent, error) {
	mi, err := metainfo.Load(r)
	if err != nil {
		return nil, fmt.Errorf("invalid torrent file: %w", err)
	}
	info, err := mi.UnmarshalInfo()
	if err != nil {
		return nil, fmt.Errorf("invalid torrent info: %w", err)
	}

	parsed := &models.ParsedTorrent{
		InfoHash: strings.ToLower(mi.HashInfoBytes().HexString()),
		Name:     info.BestName(),
	}

	if len(info.Files) == 0 {
		parsed.Length = info.Length
		parsed.Files = []models.TorrentFile{{Name: parsed.Name, Length: info.Length}}
	} else {
		for _, f := range info.Files {
			parsed.Length += f.Length
			parsed.Files = append(parsed.Files, models.TorrentFile{
				Name:   path.Base(strings.Join(f.BestPath(), "/")),
				Length: f.Length,
			})
		}
	}

	var announce []string
	for _, tier := range mi.UpvertedAnnounceList() {
		announce = append(announce, tier...)
	}
	parsed.AnnounceList = uniqueStrings(announce)

	return parsed, nil
}

func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
