package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/amaumene/gostremiojackett/internal/cache"
	"github.com/amaumene/gostremiojackett/internal/constants"
	"github.com/amaumene/gostremiojackett/internal/database"
	apperrors "github.com/amaumene/gostremiojackett/internal/errors"
	"github.com/amaumene/gostremiojackett/internal/models"
	"github.com/amaumene/gostremiojackett/pkg/httputil"
	"github.com/amaumene/gostremiojackett/pkg/logger"
)

const (
	defaultIMDbSuggestURL = "https://v2.sg.media-imdb.com/suggestion/t"
	defaultCinemetaURL    = "https://v3-cinemeta.strem.io/meta"
)

type imdbSuggestResponse struct {
	D []struct {
		L string `json:"l"`
		Y int    `json:"y"`
	} `json:"d"`
}

type cinemetaResponse struct {
	Meta struct {
		Name        string          `json:"name"`
		Year        json.RawMessage `json:"year"`
		ReleaseInfo string          `json:"releaseInfo"`
	} `json:"meta"`
}

// Metadata looks up the display name and year of an IMDb title, trying the
// IMDb suggestion API first and Cinemeta second.
type Metadata struct {
	primaryURL  string
	fallbackURL string
	cache       cache.Cache[models.TitleMeta]
	store       database.MetaStore
	httpClient  *http.Client
	group       singleflight.Group
	logger      logger.Logger
}

func NewMetadata(c cache.Cache[models.TitleMeta], store database.MetaStore, log logger.Logger) *Metadata {
	return &Metadata{
		primaryURL:  defaultIMDbSuggestURL,
		fallbackURL: defaultCinemetaURL,
		cache:       c,
		store:       store,
		httpClient:  httputil.NewHTTPClient(constants.MetadataTimeout),
		logger:      log,
	}
}

// SetEndpoints overrides the lookup base URLs.
func (m *Metadata) SetEndpoints(primaryURL, fallbackURL string) {
	m.primaryURL = strings.TrimRight(primaryURL, "/")
	m.fallbackURL = strings.TrimRight(fallbackURL, "/")
}

// Lookup returns the title metadata. When both providers fail, the returned
// TitleMeta is empty and the error is a METADATA_LOOKUP_FAILED StreamError.
func (m *Metadata) Lookup(ctx context.Context, titleID string, mediaType models.MediaType) (models.TitleMeta, error) {
	cacheKey := fmt.Sprintf("meta:%s:%s", mediaType, titleID)

	if m.cache != nil {
		if meta, found := m.cache.Get(cacheKey); found {
			return meta, nil
		}
	}

	if m.store != nil {
		if stored, err := m.store.GetTitleMeta(mediaType, titleID); err == nil && stored != nil {
			if m.cache != nil {
				m.cache.Set(cacheKey, *stored)
			}
			return *stored, nil
		} else if err != nil {
			m.logger.Warnf("[Metadata] failed to read stored metadata for %s: %v", titleID, err)
		}
	}

	v, err, _ := m.group.Do(cacheKey, func() (interface{}, error) {
		return m.fetch(ctx, titleID, mediaType)
	})
	if err != nil {
		return models.TitleMeta{}, err
	}
	meta := v.(models.TitleMeta)

	if m.cache != nil {
		m.cache.Set(cacheKey, meta)
	}
	if m.store != nil {
		if err := m.store.StoreTitleMeta(mediaType, titleID, meta); err != nil {
			m.logger.Warnf("[Metadata] failed to store metadata for %s: %v", titleID, err)
		}
	}
	return meta, nil
}

func (m *Metadata) fetch(ctx context.Context, titleID string, mediaType models.MediaType) (models.TitleMeta, error) {
	meta, err := m.fetchIMDb(ctx, titleID)
	if err == nil {
		m.logger.Debugf("[Metadata] %s resolved via IMDb: %s (%d)", titleID, meta.Name, meta.Year)
		return meta, nil
	}
	m.logger.Warnf("[Metadata] IMDb lookup failed for %s, trying Cinemeta: %v", titleID, err)

	meta, err = m.fetchCinemeta(ctx, titleID, mediaType)
	if err != nil {
		return models.TitleMeta{}, apperrors.NewMetadataLookupError(titleID, err)
	}
	m.logger.Debugf("[Metadata] %s resolved via Cinemeta: %s (%d)", titleID, meta.Name, meta.Year)
	return meta, nil
}

func (m *Metadata) fetchIMDb(ctx context.Context, titleID string) (models.TitleMeta, error) {
	var resp imdbSuggestResponse
	if err := m.getJSON(ctx, fmt.Sprintf("%s/%s.json", m.primaryURL, titleID), &resp); err != nil {
		return models.TitleMeta{}, err
	}
	if len(resp.D) == 0 || resp.D[0].L == "" {
		return models.TitleMeta{}, fmt.Errorf("no results for %s", titleID)
	}
	return models.TitleMeta{Name: resp.D[0].L, Year: resp.D[0].Y}, nil
}

func (m *Metadata) fetchCinemeta(ctx context.Context, titleID string, mediaType models.MediaType) (models.TitleMeta, error) {
	var resp cinemetaResponse
	if err := m.getJSON(ctx, fmt.Sprintf("%s/%s/%s.json", m.fallbackURL, mediaType, titleID), &resp); err != nil {
		return models.TitleMeta{}, err
	}
	if resp.Meta.Name == "" {
		return models.TitleMeta{}, fmt.Errorf("no meta for %s", titleID)
	}

	year := leadingYear(strings.Trim(string(resp.Meta.Year), `"`))
	if year == 0 {
		year = leadingYear(resp.Meta.ReleaseInfo)
	}
	return models.TitleMeta{Name: resp.Meta.Name, Year: year}, nil
}

func (m *Metadata) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// leadingYear parses the first four characters of s as a year, e.g. "2011-2019" is 2011.
func leadingYear(s string) int {
	if len(s) < 4 {
		return 0
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return 0
	}
	return year
}
