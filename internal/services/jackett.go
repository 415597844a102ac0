package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/amaumene/gostremiojackett/internal/config"
	"github.com/amaumene/gostremiojackett/internal/constants"
	apperrors "github.com/amaumene/gostremiojackett/internal/errors"
	"github.com/amaumene/gostremiojackett/internal/models"
	"github.com/amaumene/gostremiojackett/pkg/httputil"
	"github.com/amaumene/gostremiojackett/pkg/logger"
	"github.com/amaumene/gostremiojackett/pkg/ratelimiter"
	"github.com/amaumene/gostremiojackett/pkg/security"
)

const jackettResultsEndpoint = "/api/v2.0/indexers/all/results"

// JackettSource queries one Jackett instance through its JSON results API.
type JackettSource struct {
	cfg         config.Source
	categories  []int
	httpClient  *http.Client
	rateLimiter ratelimiter.RateLimiter
	logger      logger.Logger
}

type jackettResponse struct {
	Results []jackettResult `json:"Results"`
}

type jackettResult struct {
	Tracker      string `json:"Tracker"`
	CategoryDesc string `json:"CategoryDesc"`
	Title        string `json:"Title"`
	Seeders      int    `json:"Seeders"`
	Peers        int    `json:"Peers"`
	Link         string `json:"Link"`
	MagnetURI    string `json:"MagnetUri"`
}

func NewJackettSource(cfg config.Source, categories []int, timeout time.Duration, log logger.Logger) *JackettSource {
	if timeout <= 0 {
		timeout = constants.SearchTimeout
	}
	if validator := security.NewAPIKeyValidator(); !validator.ValidateAPIKey(cfg.APIKey) {
		log.Warnf("[%s] API key %s does not look like a Jackett key", cfg.Name, validator.MaskAPIKey(cfg.APIKey))
	}
	return &JackettSource{
		cfg:         cfg,
		categories:  categories,
		httpClient:  httputil.NewHTTPClient(timeout),
		rateLimiter: ratelimiter.NewTokenBucket(constants.SourceRateBurst, constants.SourceRateLimit),
		logger:      log,
	}
}

func (s *JackettSource) Name() string {
	return s.cfg.Name
}

// Search returns every result of the query, tagged with this source's name.
func (s *JackettSource) Search(ctx context.Context, query string) ([]models.Candidate, error) {
	if err := s.rateLimiter.Wait(ctx); err != nil {
		return nil, apperrors.NewSourceUnavailableError(s.cfg.Name, err)
	}

	apiURL := s.buildAPIURL(query)
	s.logger.Debugf("[%s] API call to search torrents - key: %s, query: %s",
		s.cfg.Name, security.NewAPIKeyValidator().MaskAPIKey(s.cfg.APIKey), query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, apperrors.NewSourceUnavailableError(s.cfg.Name, err)
	}
	s.setHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewSourceUnavailableError(s.cfg.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewSourceUnavailableError(s.cfg.Name, fmt.Errorf("status %d", resp.StatusCode))
	}

	var payload jackettResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewSourceUnavailableError(s.cfg.Name, fmt.Errorf("failed to decode response: %w", err))
	}

	candidates := make([]models.Candidate, 0, len(payload.Results))
	for _, r := range payload.Results {
		candidates = append(candidates, models.Candidate{
			Tracker:   r.Tracker,
			Category:  r.CategoryDesc,
			Title:     r.Title,
			Seeders:   max(r.Seeders, 0),
			Peers:     max(r.Peers, 0),
			Link:      r.Link,
			MagnetURI: r.MagnetURI,
			SourceID:  s.cfg.Name,
		})
	}

	s.logger.Infof("[%s] API call completed - found %d torrents for query: %s", s.cfg.Name, len(candidates), query)
	return candidates, nil
}

// buildAPIURL constructs the Jackett results URL
func (s *JackettSource) buildAPIURL(query string) string {
	params := url.Values{}
	params.Set("apikey", s.cfg.APIKey)
	params.Set("Query", query)
	for _, cat := range s.categories {
		params.Add("Category[]", strconv.Itoa(cat))
	}
	for _, tracker := range s.cfg.Trackers {
		params.Add("Tracker[]", tracker)
	}
	return s.cfg.URL + jackettResultsEndpoint + "?" + params.Encode()
}

func (s *JackettSource) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	if s.cfg.Cookie != "" {
		req.Header.Set("Cookie", s.cfg.Cookie)
	}
	for k, v := range s.cfg.Headers {
		req.Header.Set(k, v)
	}
}
