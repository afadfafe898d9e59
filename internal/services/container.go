// Package services provides dependency injection container for application services.
package services

import (
	"github.com/avolet/govodmatch/internal/cache"
	"github.com/avolet/govodmatch/internal/database"
	"github.com/avolet/govodmatch/internal/models"
	"github.com/avolet/govodmatch/pkg/logger"
	"github.com/avolet/govodmatch/pkg/vodsearch"
)

// Container holds all application services for dependency injection.
type Container struct {
	Catalog CatalogService
	Store   database.ProviderStore
	Search  *vodsearch.Searcher
	Cache   *cache.LRUCache
	Logger  logger.Logger
}

// CatalogService defines the interface for TMDB catalog operations.
type CatalogService interface {
	Browse(catalogID, mediaType string, page int) ([]models.Meta, error)
	Search(mediaType, query string, page int) ([]models.Meta, error)
	GetMeta(mediaType, id string) (*models.Meta, error)
}
