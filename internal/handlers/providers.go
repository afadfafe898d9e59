package handlers

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/avolet/govodmatch/pkg/vodsearch/models"
)

// providerRequest is the admin-facing form of a provider. Optional fields are
// pointers so an omitted value can be told apart from an explicit zero:
// omitted priority falls back to the default rank, omitted enabled means
// enabled, omitted usePlayerTemplate follows whether a template was given.
type providerRequest struct {
	Key               string `json:"key"`
	Name              string `json:"name"`
	SearchEndpoint    string `json:"searchEndpoint"`
	PlayerURLTemplate string `json:"playerUrlTemplate"`
	UsePlayerTemplate *bool  `json:"usePlayerTemplate"`
	Priority          *int   `json:"priority"`
	Enabled           *bool  `json:"enabled"`
}

func (r *providerRequest) toProvider() models.Provider {
	provider := models.Provider{
		Key:               r.Key,
		Name:              r.Name,
		SearchEndpoint:    r.SearchEndpoint,
		PlayerURLTemplate: r.PlayerURLTemplate,
		Priority:          models.DefaultPriority,
		Enabled:           true,
		UsePlayerTemplate: r.PlayerURLTemplate != "",
	}
	if r.Priority != nil {
		provider.Priority = *r.Priority
	}
	if r.Enabled != nil {
		provider.Enabled = *r.Enabled
	}
	if r.UsePlayerTemplate != nil {
		provider.UsePlayerTemplate = *r.UsePlayerTemplate
	}
	return provider
}

func validateProvider(p models.Provider) string {
	if p.Key == "" {
		return "key is required"
	}
	if p.Name == "" {
		return "name is required"
	}
	if p.SearchEndpoint == "" {
		return "searchEndpoint is required"
	}
	parsed, err := url.Parse(p.SearchEndpoint)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "searchEndpoint must be an http(s) URL"
	}
	return ""
}

func (h *Handler) handleListProviders(c *gin.Context) {
	providers, err := h.services.Store.List()
	if err != nil {
		h.services.Logger.Errorf("[handlers] provider list failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "provider registry unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": providers})
}

func (h *Handler) handleGetProvider(c *gin.Context) {
	provider, err := h.services.Store.Get(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "provider registry unavailable"})
		return
	}
	if provider == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "provider not found"})
		return
	}
	c.JSON(http.StatusOK, provider)
}

func (h *Handler) handleSaveProvider(c *gin.Context) {
	var req providerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid provider payload"})
		return
	}
	if pathKey := c.Param("key"); pathKey != "" {
		req.Key = pathKey
	}

	provider := req.toProvider()
	if msg := validateProvider(provider); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	if err := h.services.Store.Put(provider); err != nil {
		h.services.Logger.Errorf("[handlers] provider save failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "provider save failed"})
		return
	}
	c.JSON(http.StatusOK, provider)
}

func (h *Handler) handleDeleteProvider(c *gin.Context) {
	if err := h.services.Store.Delete(c.Param("key")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "provider delete failed"})
		return
	}
	c.Status(http.StatusNoContent)
}
