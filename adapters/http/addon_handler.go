package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	addonUC "github.com/khoahotran/custom-catalogs/internal/application/usecase/addon"
	"github.com/khoahotran/custom-catalogs/pkg/apperror"
)

// AddonHandler serves the unauthenticated feed the Stremio client polls.
type AddonHandler struct {
	manifestUseCase *addonUC.ManifestUseCase
	listingUseCase  *addonUC.ListingUseCase
}

func NewAddonHandler(manifestUC *addonUC.ManifestUseCase, listingUC *addonUC.ListingUseCase) *AddonHandler {
	return &AddonHandler{
		manifestUseCase: manifestUC,
		listingUseCase:  listingUC,
	}
}

func (h *AddonHandler) Manifest(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.Error(apperror.NewNotFound("user", c.Param("userId")))
		return
	}

	manifest, err := h.manifestUseCase.Execute(c.Request.Context(), userID)
	if err != nil {
		c.Error(err)
		return
	}

	// Clients cache the manifest aggressively; catalog renames and deletes
	// must show up on the next install check.
	c.Header("Cache-Control", "no-store, no-cache, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.JSON(http.StatusOK, manifest)
}

func (h *AddonHandler) Catalog(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusOK, addonUC.Listing{Metas: []addonUC.Meta{}})
		return
	}

	listing, err := h.listingUseCase.Execute(c.Request.Context(), addonUC.ListingInput{
		UserID:    userID,
		Kind:      c.Param("type"),
		CatalogID: c.Param("id"),
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, listing)
}
