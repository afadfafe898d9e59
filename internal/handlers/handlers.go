// Package handlers implements the HTTP API of the match service.
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/avolet/govodmatch/internal/config"
	"github.com/avolet/govodmatch/internal/constants"
	"github.com/avolet/govodmatch/internal/middleware"
	"github.com/avolet/govodmatch/internal/services"
)

// Handler handles HTTP requests.
type Handler struct {
	services *services.Container
	config   *config.Config
}

// New creates a new Handler with the provided services and configuration.
func New(services *services.Container, config *config.Config) *Handler {
	return &Handler{
		services: services,
		config:   config,
	}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.handleHome)

	r.POST("/api/login", h.handleLogin)
	r.POST("/api/logout", h.handleLogout)

	api := r.Group("/api", middleware.RequireSession(h.config))

	// Match stream
	api.GET("/match/:title/stream", h.handleMatchStream)

	// Provider registry administration
	api.GET("/providers", h.handleListProviders)
	api.GET("/providers/:key", h.handleGetProvider)
	api.POST("/providers", h.handleSaveProvider)
	api.PUT("/providers/:key", h.handleSaveProvider)
	api.DELETE("/providers/:key", h.handleDeleteProvider)

	// Catalog browsing
	api.GET("/catalog/:type/:id", h.handleCatalog)
	api.GET("/search/:type", h.handleCatalogSearch)
	api.GET("/meta/:type/:id", h.handleMeta)

	// Media relays
	api.GET("/image", h.handleImageProxy)
	api.GET("/video", h.handleVideoProxy)
}

func (h *Handler) handleHome(c *gin.Context) {
	c.JSON(200, gin.H{"name": constants.AppName, "version": constants.AppVersion, "status": "ok"})
}
