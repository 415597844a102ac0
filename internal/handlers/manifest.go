package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/gostremiojackett/internal/constants"
	"github.com/amaumene/gostremiojackett/internal/models"
)

func (h *Handler) handleManifest(c *gin.Context) {
	c.JSON(http.StatusOK, createManifest())
}

func createManifest() models.Manifest {
	return models.Manifest{
		ID:          constants.AddonID,
		Version:     constants.AddonVersion,
		Name:        constants.AddonName,
		Description: constants.AddonDescription,
		Types:       []string{string(models.MediaTypeMovie), string(models.MediaTypeSeries)},
		Resources:   []string{"stream"},
		Catalogs:    []models.Catalog{},
		IDPrefixes:  []string{"tt"},
		Logo:        constants.AddonLogo,
	}
}
