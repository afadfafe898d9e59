package services

import (
	"fmt"
	"net/url"
	"strconv"

	tmdb "github.com/ryanbradynd05/go-tmdb"

	"github.com/avolet/govodmatch/internal/cache"
	"github.com/avolet/govodmatch/internal/constants"
	apperrors "github.com/avolet/govodmatch/internal/errors"
	"github.com/avolet/govodmatch/internal/models"
	"github.com/avolet/govodmatch/pkg/logger"
	"github.com/avolet/govodmatch/pkg/ratelimiter"
)

const tmdbImageBase = "https://image.tmdb.org/t/p/w342"

// tmdbClient is the subset of *tmdb.TMDb the catalog service uses. An
// interface so tests can stub the upstream API.
type tmdbClient interface {
	SearchMovie(name string, options map[string]string) (*tmdb.MovieSearchResults, error)
	SearchTv(name string, options map[string]string) (*tmdb.TvSearchResults, error)
	GetMoviePopular(options map[string]string) (*tmdb.MoviePagedResults, error)
	GetTvPopular(options map[string]string) (*tmdb.TvPagedResults, error)
	GetMovieTopRated(options map[string]string) (*tmdb.MoviePagedResults, error)
	GetTvTopRated(options map[string]string) (*tmdb.TvPagedResults, error)
	GetMovieInfo(id int, options map[string]string) (*tmdb.Movie, error)
	GetTvInfo(id int, options map[string]string) (*tmdb.TV, error)
}

// Catalog serves browse/search/detail lookups against TMDB with a cache-aside
// policy: every page is answered from the LRU cache when possible and stored
// there after a fetch. Poster URLs are rewritten to the local image relay so
// clients never talk to the image CDN directly.
type Catalog struct {
	client      tmdbClient
	cache       *cache.LRUCache
	rateLimiter *ratelimiter.TokenBucket
	logger      logger.Logger
	imageProxy  string // path prefix of the local image relay
}

// NewCatalog creates a catalog service. An empty API key is allowed; lookups
// then fail with a catalog error until a key is configured.
func NewCatalog(apiKey string, cache *cache.LRUCache) *Catalog {
	var client tmdbClient
	if apiKey != "" {
		client = tmdb.Init(tmdb.Config{APIKey: apiKey})
	}

	return &Catalog{
		client:      client,
		cache:       cache,
		rateLimiter: ratelimiter.NewTokenBucket(constants.TMDBRateLimit, constants.TMDBRateBurst),
		logger:      logger.New(),
		imageProxy:  "/api/image",
	}
}

// Browse returns one page of a named catalog ("popular" or "top_rated") for
// the given media type ("movie" or "series").
func (c *Catalog) Browse(catalogID, mediaType string, page int) ([]models.Meta, error) {
	if page < 1 {
		page = 1
	}

	cacheKey := fmt.Sprintf("catalog:%s:%s:%d", catalogID, mediaType, page)
	if cached, found := c.cache.Get(cacheKey); found {
		if metas, ok := cached.([]models.Meta); ok {
			c.logger.Debugf("[catalog] cache hit for %s", cacheKey)
			return metas, nil
		}
	}

	if c.client == nil {
		return nil, apperrors.NewCatalogError("TMDB API key not configured", nil)
	}

	c.rateLimiter.Wait()
	options := map[string]string{"page": strconv.Itoa(page)}

	var metas []models.Meta
	var err error

	switch {
	case catalogID == "popular" && mediaType == "movie":
		var results *tmdb.MoviePagedResults
		if results, err = c.client.GetMoviePopular(options); err == nil {
			metas = c.movieShortsToMetas(results.Results)
		}
	case catalogID == "popular" && mediaType == "series":
		var results *tmdb.TvPagedResults
		if results, err = c.client.GetTvPopular(options); err == nil {
			metas = c.tvShortsToMetas(results.Results)
		}
	case catalogID == "top_rated" && mediaType == "movie":
		var results *tmdb.MoviePagedResults
		if results, err = c.client.GetMovieTopRated(options); err == nil {
			metas = c.movieShortsToMetas(results.Results)
		}
	case catalogID == "top_rated" && mediaType == "series":
		var results *tmdb.TvPagedResults
		if results, err = c.client.GetTvTopRated(options); err == nil {
			metas = c.tvShortsToMetas(results.Results)
		}
	default:
		return nil, apperrors.NewCatalogError(fmt.Sprintf("unknown catalog %q for type %q", catalogID, mediaType), nil)
	}

	if err != nil {
		return nil, apperrors.NewCatalogError("catalog fetch failed", err)
	}

	c.cache.Set(cacheKey, metas)
	return metas, nil
}

// Search returns one page of title-search results for the media type.
func (c *Catalog) Search(mediaType, query string, page int) ([]models.Meta, error) {
	if page < 1 {
		page = 1
	}

	cacheKey := fmt.Sprintf("search:%s:%s:%d", mediaType, query, page)
	if cached, found := c.cache.Get(cacheKey); found {
		if metas, ok := cached.([]models.Meta); ok {
			c.logger.Debugf("[catalog] cache hit for %s", cacheKey)
			return metas, nil
		}
	}

	if c.client == nil {
		return nil, apperrors.NewCatalogError("TMDB API key not configured", nil)
	}

	c.rateLimiter.Wait()
	options := map[string]string{"page": strconv.Itoa(page)}

	var metas []models.Meta
	if mediaType == "series" {
		results, err := c.client.SearchTv(query, options)
		if err != nil {
			return nil, apperrors.NewCatalogError("series search failed", err)
		}
		for _, r := range results.Results {
			metas = append(metas, models.Meta{
				ID:          strconv.Itoa(r.ID),
				Type:        "series",
				Title:       r.Name,
				Poster:      c.rewriteImageURL(r.PosterPath),
				ReleaseDate: r.FirstAirDate,
				Rating:      r.VoteAverage,
			})
		}
	} else {
		results, err := c.client.SearchMovie(query, options)
		if err != nil {
			return nil, apperrors.NewCatalogError("movie search failed", err)
		}
		metas = c.movieShortsToMetas(results.Results)
	}

	c.cache.Set(cacheKey, metas)
	return metas, nil
}

// GetMeta returns the detail record for one title.
func (c *Catalog) GetMeta(mediaType, id string) (*models.Meta, error) {
	cacheKey := fmt.Sprintf("meta:%s:%s", mediaType, id)
	if cached, found := c.cache.Get(cacheKey); found {
		if meta, ok := cached.(*models.Meta); ok {
			return meta, nil
		}
	}

	if c.client == nil {
		return nil, apperrors.NewCatalogError("TMDB API key not configured", nil)
	}

	numericID, err := strconv.Atoi(id)
	if err != nil {
		return nil, apperrors.NewCatalogError(fmt.Sprintf("invalid catalog id %q", id), err)
	}

	c.rateLimiter.Wait()

	var meta *models.Meta
	if mediaType == "series" {
		show, err := c.client.GetTvInfo(numericID, nil)
		if err != nil {
			return nil, apperrors.NewCatalogError("series detail fetch failed", err)
		}
		meta = &models.Meta{
			ID:          id,
			Type:        "series",
			Title:       show.Name,
			Poster:      c.rewriteImageURL(show.PosterPath),
			ReleaseDate: show.FirstAirDate,
			Rating:      show.VoteAverage,
			Overview:    show.Overview,
		}
		for _, g := range show.Genres {
			meta.Genres = append(meta.Genres, g.Name)
		}
	} else {
		movie, err := c.client.GetMovieInfo(numericID, nil)
		if err != nil {
			return nil, apperrors.NewCatalogError("movie detail fetch failed", err)
		}
		meta = &models.Meta{
			ID:          id,
			Type:        "movie",
			Title:       movie.Title,
			Poster:      c.rewriteImageURL(movie.PosterPath),
			ReleaseDate: movie.ReleaseDate,
			Rating:      movie.VoteAverage,
			Overview:    movie.Overview,
		}
		for _, g := range movie.Genres {
			meta.Genres = append(meta.Genres, g.Name)
		}
	}

	c.cache.Set(cacheKey, meta)
	return meta, nil
}

func (c *Catalog) movieShortsToMetas(movies []tmdb.MovieShort) []models.Meta {
	metas := make([]models.Meta, 0, len(movies))
	for _, m := range movies {
		metas = append(metas, models.Meta{
			ID:          strconv.Itoa(m.ID),
			Type:        "movie",
			Title:       m.Title,
			Poster:      c.rewriteImageURL(m.PosterPath),
			ReleaseDate: m.ReleaseDate,
			Rating:      m.VoteAverage,
			Overview:    m.Overview,
		})
	}
	return metas
}

func (c *Catalog) tvShortsToMetas(shows []tmdb.TvShort) []models.Meta {
	metas := make([]models.Meta, 0, len(shows))
	for _, s := range shows {
		metas = append(metas, models.Meta{
			ID:          strconv.Itoa(s.ID),
			Type:        "series",
			Title:       s.Name,
			Poster:      c.rewriteImageURL(s.PosterPath),
			ReleaseDate: s.FirstAirDate,
			Rating:      s.VoteAverage,
		})
	}
	return metas
}

// rewriteImageURL turns a TMDB poster path into a local relay URL so the
// browser never fetches from the image CDN directly.
func (c *Catalog) rewriteImageURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return c.imageProxy + "?url=" + url.QueryEscape(tmdbImageBase+posterPath)
}
