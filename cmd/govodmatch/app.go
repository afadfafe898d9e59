package main

import (
	"context"
	"os"
	"strings"

	"github.com/avolet/govodmatch/internal/cache"
	"github.com/avolet/govodmatch/internal/config"
	"github.com/avolet/govodmatch/internal/constants"
	"github.com/avolet/govodmatch/internal/database"
	"github.com/avolet/govodmatch/internal/handlers"
	"github.com/avolet/govodmatch/internal/services"
	"github.com/avolet/govodmatch/pkg/logger"
	"github.com/avolet/govodmatch/pkg/vodsearch"
)

var (
	Logger           logger.Logger
	Config           *config.Config
	Store            database.ProviderStore
	memoryCache      *cache.LRUCache
	handler          *handlers.Handler
	serviceContainer *services.Container
)

func InitializeLogger() {
	Logger = logger.New()

	logLevel := strings.ToLower(os.Getenv("LOG_LEVEL"))
	if logLevel == "" {
		logLevel = constants.DefaultLogLevel
	}

	switch logLevel {
	case "debug", "info", "warn", "warning", "error":
		// Valid log levels
	default:
		Logger.Warnf("[App] warning: unknown log level '%s', defaulting to info", os.Getenv("LOG_LEVEL"))
	}
}

func InitializeConfig() {
	var err error
	Config, err = config.Load()
	if err != nil {
		Logger.Fatalf("failed to load configuration: %v", err)
	}
}

func InitializeDatabase() {
	var err error
	Store, err = database.NewBolt(Config.DatabasePath)
	if err != nil {
		Logger.Fatalf("failed to initialize database: %v", err)
	}

	Logger.Infof("[App] provider registry opened at %s", Config.DatabasePath)
}

func InitializeServices(ctx context.Context) {
	memoryCache = cache.New(Config.CacheSize, Config.CacheTTL)
	memoryCache.StartCleanup(ctx, constants.CacheCleanupInterval)

	catalogService := services.NewCatalog(Config.TMDBAPIKey, memoryCache)
	searcher := vodsearch.NewSearcher(vodsearch.NewQueryAdapter())

	serviceContainer = &services.Container{
		Catalog: catalogService,
		Store:   Store,
		Search:  searcher,
		Cache:   memoryCache,
		Logger:  Logger,
	}

	handler = handlers.New(serviceContainer, Config)

	Logger.Infof("[App] services initialized successfully")
}
