package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/amaumene/gostremiojackett/internal/constants"
	apperrors "github.com/amaumene/gostremiojackett/internal/errors"
	"github.com/amaumene/gostremiojackett/internal/models"
	"github.com/amaumene/gostremiojackett/pkg/helpers"
)

// BuildStream converts resolved torrent metadata into a Stremio stream.
// For series the episode file must be present in the file list.
func BuildStream(parsed *models.ParsedTorrent, c models.Candidate, req models.StreamRequest) (*models.Stream, error) {
	var (
		fileIdx  int
		fileName string
		size     int64
	)

	if req.MediaType == models.MediaTypeSeries {
		if !req.HasEpisode {
			return nil, apperrors.NewNoMatchingEpisodeError(req.Season, req.Episode)
		}
		idx, err := findEpisodeFile(parsed.Files, req.Season, req.Episode)
		if err != nil {
			return nil, err
		}
		fileIdx = idx
		fileName = parsed.Files[idx].Name
		size = parsed.Files[idx].Length
	} else {
		size = parsed.TotalLength()
	}

	sources := make([]string, 0, len(parsed.AnnounceList)+1)
	for _, tracker := range parsed.AnnounceList {
		sources = append(sources, constants.TrackerPrefix+tracker)
	}
	sources = append(sources, constants.DHTPrefix+parsed.InfoHash)

	return &models.Stream{
		Name:     c.Tracker,
		Type:     req.MediaType,
		InfoHash: parsed.InfoHash,
		FileIdx:  fileIdx,
		Sources:  sources,
		Title:    streamTitle(parsed.Name, fileName, size, c),
		BehaviorHints: models.StreamBehaviorHints{
			BingeGroup:  constants.BingeGroupPrefix + "|" + parsed.InfoHash,
			NotWebReady: true,
		},
	}, nil
}

// findEpisodeFile returns the index of the first video file whose name
// contains both the sNN and eNN markers.
func findEpisodeFile(files []models.TorrentFile, season, episode int) (int, error) {
	if season < 0 || episode < 0 {
		return 0, apperrors.NewNoMatchingEpisodeError(season, episode)
	}
	seasonTag := fmt.Sprintf("s%02d", season)
	episodeTag := fmt.Sprintf("e%02d", episode)

	for i, f := range files {
		name := strings.ToLower(f.Name)
		if strings.Contains(name, seasonTag) && strings.Contains(name, episodeTag) && isVideoFile(name) {
			return i, nil
		}
	}
	return 0, apperrors.NewNoMatchingEpisodeError(season, episode)
}

func isVideoFile(name string) bool {
	for _, ext := range constants.VideoExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func streamTitle(torrentName, fileName string, size int64, c models.Candidate) string {
	composed := torrentName
	if fileName != "" {
		composed += "\n" + fileName
	}

	// the quality slot stays even when empty
	parts := []string{
		helpers.QualityLabel(composed),
		helpers.SizeLabel(size),
		"S:" + strconv.Itoa(c.Seeders) + " /P:" + strconv.Itoa(c.Peers),
	}
	return composed + "\n" + strings.Join(parts, " | ")
}
