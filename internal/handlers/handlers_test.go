package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolet/govodmatch/internal/cache"
	"github.com/avolet/govodmatch/internal/config"
	"github.com/avolet/govodmatch/internal/constants"
	appmodels "github.com/avolet/govodmatch/internal/models"
	"github.com/avolet/govodmatch/internal/services"
	"github.com/avolet/govodmatch/pkg/logger"
	"github.com/avolet/govodmatch/pkg/vodsearch"
	"github.com/avolet/govodmatch/pkg/vodsearch/models"
)

// memStore is an in-memory ProviderStore for handler tests.
type memStore struct {
	mu        sync.Mutex
	providers map[string]models.Provider
}

func newMemStore(providers ...models.Provider) *memStore {
	s := &memStore{providers: make(map[string]models.Provider)}
	for _, p := range providers {
		s.providers[p.Key] = p
	}
	return s
}

func (s *memStore) List() ([]models.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Provider, 0, len(s.providers))
	for _, p := range s.providers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

func (s *memStore) ListEnabled() ([]models.Provider, error) {
	all, _ := s.List()
	enabled := make([]models.Provider, 0, len(all))
	for _, p := range all {
		if p.Enabled {
			enabled = append(enabled, p)
		}
	}
	return enabled, nil
}

func (s *memStore) Get(key string) (*models.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.providers[key]; ok {
		return &p, nil
	}
	return nil, nil
}

func (s *memStore) Put(p models.Provider) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers[p.Key] = p
	return nil
}

func (s *memStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.providers, key)
	return nil
}

func (s *memStore) Close() error { return nil }

// stubQuerier resolves each provider to a fixed match, nil when absent.
type stubQuerier struct {
	matches map[string]*models.MatchResult
}

func (q *stubQuerier) Query(ctx context.Context, p models.Provider, title string) *models.MatchResult {
	match := q.matches[p.Key]
	if match == nil {
		return nil
	}
	out := *match
	out.ProviderKey = p.Key
	out.ProviderName = p.Name
	out.Priority = p.Priority
	return &out
}

// stubCatalog serves canned catalog responses.
type stubCatalog struct {
	metas    []appmodels.Meta
	meta     *appmodels.Meta
	err      error
	lastPage int
}

func (s *stubCatalog) Browse(catalogID, mediaType string, page int) ([]appmodels.Meta, error) {
	s.lastPage = page
	return s.metas, s.err
}

func (s *stubCatalog) Search(mediaType, query string, page int) ([]appmodels.Meta, error) {
	return s.metas, s.err
}

func (s *stubCatalog) GetMeta(mediaType, id string) (*appmodels.Meta, error) {
	return s.meta, s.err
}

func setupRouter(t *testing.T, cfg *config.Config, store *memStore, querier vodsearch.Querier, catalog services.CatalogService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	if cfg == nil {
		cfg = &config.Config{}
	}
	if querier == nil {
		querier = &stubQuerier{}
	}

	container := &services.Container{
		Catalog: catalog,
		Store:   store,
		Search:  vodsearch.NewSearcher(querier),
		Cache:   cache.New(100, time.Hour),
		Logger:  logger.New(),
	}

	r := gin.New()
	New(container, cfg).RegisterRoutes(r)
	return r
}

func TestMatchStreamEventOrder(t *testing.T) {
	store := newMemStore(
		models.Provider{Key: "alpha", Name: "Alpha", SearchEndpoint: "http://a.example/api", Priority: 1, Enabled: true},
		models.Provider{Key: "beta", Name: "Beta", SearchEndpoint: "http://b.example/api", Priority: 2, Enabled: true},
	)
	querier := &stubQuerier{matches: map[string]*models.MatchResult{
		"alpha": {CandidateID: "1", CandidateName: "Avatar", Confidence: models.ConfidenceHigh},
	}}
	router := setupRouter(t, nil, store, querier, nil)

	server := httptest.NewServer(router)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/match/Avatar/stream?contextId=ctx-42")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	text := string(body)

	initIdx := strings.Index(text, "event:init")
	doneIdx := strings.Index(text, "event:done")
	require.GreaterOrEqual(t, initIdx, 0, "stream must begin with an init event")
	require.GreaterOrEqual(t, doneIdx, 0, "stream must end with a done event")
	assert.Less(t, initIdx, doneIdx)
	assert.Equal(t, 2, strings.Count(text, "event:result"))
	assert.Contains(t, text, `"contextId":"ctx-42"`)
	assert.Contains(t, text, `"foundCount":1`)
	assert.Contains(t, text, `"match":null`)
}

func TestMatchStreamNoProviders(t *testing.T) {
	router := setupRouter(t, nil, newMemStore(), nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/match/Avatar/stream", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	assert.Contains(t, w.Body.String(), "no providers configured")
}

func TestMatchStreamSkipsDisabledProviders(t *testing.T) {
	store := newMemStore(
		models.Provider{Key: "off", Name: "Off", SearchEndpoint: "http://off.example/api", Enabled: false},
	)
	router := setupRouter(t, nil, store, nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/match/Avatar/stream", nil)
	router.ServeHTTP(w, req)

	// Only disabled providers configured means nothing to search.
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestProviderCreateDefaults(t *testing.T) {
	store := newMemStore()
	router := setupRouter(t, nil, store, nil, nil)

	payload := `{"key":"alpha","name":"Alpha","searchEndpoint":"https://a.example/api/search"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/providers", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var saved models.Provider
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.Equal(t, models.DefaultPriority, saved.Priority)
	assert.True(t, saved.Enabled)
	assert.False(t, saved.UsePlayerTemplate)

	stored, err := store.Get("alpha")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.DefaultPriority, stored.Priority)
}

func TestProviderCreatePlayerTemplateImpliesUse(t *testing.T) {
	router := setupRouter(t, nil, newMemStore(), nil, nil)

	payload := `{"key":"p","name":"P","searchEndpoint":"https://p.example/api","playerUrlTemplate":"https://p.example/play?id={id}"}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/providers", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var saved models.Provider
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &saved))
	assert.True(t, saved.UsePlayerTemplate)
}

func TestProviderCreateValidation(t *testing.T) {
	router := setupRouter(t, nil, newMemStore(), nil, nil)

	cases := []struct {
		name    string
		payload string
	}{
		{"missing key", `{"name":"A","searchEndpoint":"https://a.example/api"}`},
		{"missing endpoint", `{"key":"a","name":"A"}`},
		{"bad endpoint scheme", `{"key":"a","name":"A","searchEndpoint":"ftp://a.example/api"}`},
		{"malformed json", `{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest("POST", "/api/providers", bytes.NewBufferString(tc.payload))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestProviderGetAndDelete(t *testing.T) {
	store := newMemStore(models.Provider{Key: "alpha", Name: "Alpha", SearchEndpoint: "https://a.example/api", Priority: 1, Enabled: true})
	router := setupRouter(t, nil, store, nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/providers/alpha", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"key":"alpha"`)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/providers/ghost", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/api/providers/alpha", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	stored, err := store.Get("alpha")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestAuthGuardsAPI(t *testing.T) {
	cfg := &config.Config{AdminPassword: "hunter2", SessionSecret: "secret"}
	router := setupRouter(t, cfg, newMemStore(), nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/providers", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginSetsSessionCookie(t *testing.T) {
	cfg := &config.Config{AdminPassword: "hunter2", SessionSecret: "secret"}
	router := setupRouter(t, cfg, newMemStore(), nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/login", bytes.NewBufferString(`{"password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var sessionCookie *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == constants.SessionCookieName {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie, "login must set the session cookie")

	// Cookie opens the guarded API.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/providers", nil)
	req.AddCookie(sessionCookie)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	cfg := &config.Config{AdminPassword: "hunter2", SessionSecret: "secret"}
	router := setupRouter(t, cfg, newMemStore(), nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/login", bytes.NewBufferString(`{"password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCatalogSkipPaging(t *testing.T) {
	catalog := &stubCatalog{metas: []appmodels.Meta{{ID: "1", Type: "movie", Title: "A"}}}
	router := setupRouter(t, nil, newMemStore(), nil, catalog)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/catalog/movie/popular?skip=40", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, catalog.lastPage)
	assert.Contains(t, w.Body.String(), `"metas"`)
}

func TestCatalogSearchRequiresQuery(t *testing.T) {
	router := setupRouter(t, nil, newMemStore(), nil, &stubCatalog{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/search/movie", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestImageProxyCachesUpstream(t *testing.T) {
	var upstreamHits int
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamHits++
		assert.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpeg-bytes"))
	}))
	defer upstream.Close()

	router := setupRouter(t, nil, newMemStore(), nil, nil)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/image?url="+url.QueryEscape(upstream.URL+"/poster.jpg"), nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
		assert.Equal(t, "jpeg-bytes", w.Body.String())
	}
	assert.Equal(t, 1, upstreamHits, "second request should hit the cache")
}

func TestImageProxyRejectsBadURL(t *testing.T) {
	router := setupRouter(t, nil, newMemStore(), nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/image?url=not-a-url", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestVideoProxyForwardsRange(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "bytes=0-99", r.Header.Get("Range"))
		w.Header().Set("Content-Type", "video/mp4")
		w.Header().Set("Content-Range", "bytes 0-99/1000")
		w.WriteHeader(http.StatusPartialContent)
		w.Write(bytes.Repeat([]byte("v"), 100))
	}))
	defer upstream.Close()

	router := setupRouter(t, nil, newMemStore(), nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/video?url="+url.QueryEscape(upstream.URL+"/movie.mp4"), nil)
	req.Header.Set("Range", "bytes=0-99")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusPartialContent, w.Code)
	assert.Equal(t, "bytes 0-99/1000", w.Header().Get("Content-Range"))
	assert.Equal(t, 100, w.Body.Len())
}
