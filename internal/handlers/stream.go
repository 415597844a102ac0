package handlers

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/amaumene/gostremiojackett/internal/errors"
	"github.com/amaumene/gostremiojackett/internal/models"
)

var (
	imdbIDRegex  = regexp.MustCompile(`^tt\d+$`)
	episodeRegex = regexp.MustCompile(`^tt\d+:(\d+):(\d+)$`)
)

func (h *Handler) handleStream(c *gin.Context) {
	mediaType := models.MediaType(c.Param("type"))
	id := c.Param("id")

	if !mediaType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported type"})
		return
	}

	req, ok := parseStreamID(id)
	if !ok {
		h.logger.Debugf("[StreamHandler] %v", apperrors.NewInvalidIDError(id))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}
	req.MediaType = mediaType
	h.logger.Infof("[StreamHandler] processing %s", req)

	// discovery runs to completion even if the player disconnects
	streams := h.discoverer.Discover(context.WithoutCancel(c.Request.Context()), req)
	if streams == nil {
		streams = []models.Stream{}
	}

	c.JSON(http.StatusOK, models.StreamResponse{Streams: streams})
}

// parseStreamID splits "tt123" or "tt123:1:2" into its IMDb id, season and episode.
// ok is false when the format is not recognised.
func parseStreamID(id string) (req models.StreamRequest, ok bool) {
	id = strings.TrimSuffix(id, ".json")

	if imdbIDRegex.MatchString(id) {
		return models.StreamRequest{TitleID: id}, true
	}

	if matches := episodeRegex.FindStringSubmatch(id); len(matches) == 3 {
		season, _ := strconv.Atoi(matches[1])
		episode, _ := strconv.Atoi(matches[2])
		return models.StreamRequest{
			TitleID:    id[:strings.Index(id, ":")],
			Season:     season,
			Episode:    episode,
			HasEpisode: true,
		}, true
	}

	return models.StreamRequest{}, false
}
