package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/avolet/govodmatch/internal/constants"
	"github.com/avolet/govodmatch/internal/models"
)

// pageFromSkip converts a skip offset into the upstream page number.
func pageFromSkip(skip string) int {
	offset, err := strconv.Atoi(skip)
	if err != nil || offset < 0 {
		return 1
	}
	return offset/constants.CatalogPageSize + 1
}

func (h *Handler) handleCatalog(c *gin.Context) {
	mediaType := c.Param("type")
	catalogID := c.Param("id")
	page := pageFromSkip(c.Query("skip"))

	metas, err := h.services.Catalog.Browse(catalogID, mediaType, page)
	if err != nil {
		h.services.Logger.Errorf("[handlers] catalog %s/%s failed: %v", mediaType, catalogID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "catalog unavailable"})
		return
	}
	c.JSON(http.StatusOK, models.CatalogResponse{Metas: metas})
}

func (h *Handler) handleCatalogSearch(c *gin.Context) {
	mediaType := c.Param("type")
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "query is required"})
		return
	}

	metas, err := h.services.Catalog.Search(mediaType, query, pageFromSkip(c.Query("skip")))
	if err != nil {
		h.services.Logger.Errorf("[handlers] search %q failed: %v", query, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "search unavailable"})
		return
	}
	c.JSON(http.StatusOK, models.CatalogResponse{Metas: metas})
}

func (h *Handler) handleMeta(c *gin.Context) {
	meta, err := h.services.Catalog.GetMeta(c.Param("type"), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "metadata unavailable"})
		return
	}
	c.JSON(http.StatusOK, models.MetaResponse{Meta: *meta})
}
