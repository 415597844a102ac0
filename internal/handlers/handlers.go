// Package handlers implements HTTP request handlers for the Stremio addon API.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amaumene/gostremiojackett/internal/config"
	"github.com/amaumene/gostremiojackett/internal/constants"
	"github.com/amaumene/gostremiojackett/internal/models"
	"github.com/amaumene/gostremiojackett/internal/services"
	"github.com/amaumene/gostremiojackett/pkg/logger"
)

// StreamDiscoverer produces the streams of one request.
type StreamDiscoverer interface {
	Discover(ctx context.Context, req models.StreamRequest) []models.Stream
}

// Handler handles HTTP requests for the Stremio addon.
type Handler struct {
	discoverer StreamDiscoverer
	gatherer   prometheus.Gatherer
	config     *config.Config
	logger     logger.Logger
}

// New creates a new Handler with the provided services and configuration.
// gatherer backs the /metrics route and may be nil.
func New(services *services.Container, cfg *config.Config, gatherer prometheus.Gatherer) *Handler {
	return &Handler{
		discoverer: services.Coordinator,
		gatherer:   gatherer,
		config:     cfg,
		logger:     services.Logger,
	}
}

// RegisterRoutes registers all HTTP routes for the Stremio addon.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.handleHome)
	r.GET("/health", h.handleHealth)
	r.GET("/manifest.json", h.handleManifest)

	// handles both with and without .json
	r.GET("/stream/:type/:id", h.handleStreamWrapper)

	if h.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})))
	}
}

func (h *Handler) handleHome(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to %s! Install the addon from /manifest.json.", constants.AddonName)
}

func (h *Handler) handleHealth(c *gin.Context) {
	sources := 0
	if h.config != nil {
		sources = len(h.config.Sources)
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": constants.AddonVersion,
		"sources": sources,
	})
}

func (h *Handler) handleStreamWrapper(c *gin.Context) {
	stripJSONExtension(c, "id")
	h.handleStream(c)
}
