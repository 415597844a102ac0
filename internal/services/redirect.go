package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/amaumene/gostremiojackett/internal/constants"
	apperrors "github.com/amaumene/gostremiojackett/internal/errors"
	"github.com/amaumene/gostremiojackett/pkg/httputil"
	"github.com/amaumene/gostremiojackett/pkg/logger"
)

// RedirectResolver follows HTTP redirects hop by hop until it reaches a
// magnet URI, a non-redirecting URL, or a non-HTTP location.
type RedirectResolver struct {
	client     *http.Client
	hopTimeout time.Duration
	maxHops    int
	logger     logger.Logger
}

func NewRedirectResolver(hopTimeout time.Duration, maxHops int, log logger.Logger) *RedirectResolver {
	if hopTimeout <= 0 {
		hopTimeout = constants.RedirectTimeout
	}
	if maxHops <= 0 {
		maxHops = constants.MaxRedirectHops
	}
	return &RedirectResolver{
		client:     httputil.NewNoRedirectClient(0),
		hopTimeout: hopTimeout,
		maxHops:    maxHops,
		logger:     log,
	}
}

// Resolve returns the final location of uri. Magnet URIs are returned unchanged.
func (r *RedirectResolver) Resolve(ctx context.Context, uri string) (string, error) {
	if isMagnet(uri) {
		return uri, nil
	}
	if !isHTTP(uri) {
		return "", apperrors.NewUnsupportedSchemeError(uri)
	}

	current := uri
	for hop := 0; hop <= r.maxHops; hop++ {
		next, done, err := r.step(ctx, current)
		if err != nil {
			return "", err
		}
		if done {
			if next != uri {
				r.logger.Debugf("[Redirect] %s resolved after %d hops", truncate(next, 80), hop)
			}
			return next, nil
		}
		current = next
	}

	return "", apperrors.NewRedirectError(fmt.Sprintf("more than %d redirects", r.maxHops), nil)
}

// step performs one HEAD request. done is true when next is the final location.
func (r *RedirectResolver) step(ctx context.Context, current string) (next string, done bool, err error) {
	hopCtx, cancel := context.WithTimeout(ctx, r.hopTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(hopCtx, http.MethodHead, current, nil)
	if err != nil {
		return "", false, apperrors.NewRedirectError("invalid request", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", false, apperrors.NewResolutionTimeoutError("redirect hop")
		}
		return "", false, apperrors.NewRedirectError("request failed", err)
	}
	resp.Body.Close()

	switch {
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		location := resp.Header.Get("Location")
		if location == "" {
			return "", false, apperrors.NewRedirectError(fmt.Sprintf("status %d without Location", resp.StatusCode), nil)
		}
		target, err := resolveLocation(current, location)
		if err != nil {
			return "", false, apperrors.NewRedirectError("invalid Location header", err)
		}
		if !isHTTP(target) {
			return target, true, nil
		}
		return target, false, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return current, true, nil
	default:
		return "", false, apperrors.NewRedirectError(fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}
}

func resolveLocation(base, location string) (string, error) {
	if isMagnet(location) {
		return location, nil
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	return baseURL.ResolveReference(ref).String(), nil
}

func isMagnet(uri string) bool {
	return strings.HasPrefix(strings.ToLower(uri), "magnet:")
}

func isHTTP(uri string) bool {
	lower := strings.ToLower(uri)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
