package handlers

import (
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/avolet/govodmatch/internal/constants"
	"github.com/avolet/govodmatch/pkg/httputil"
)

// Clients for the media relays. Video gets no overall timeout because a
// playback session legitimately stays open for hours.
var (
	imageClient = httputil.NewHTTPClient(constants.ProxyRequestTimeout)
	videoClient = httputil.NewHTTPClient(0)
)

type cachedImage struct {
	contentType string
	data        []byte
}

func proxyTargetURL(c *gin.Context) (string, bool) {
	raw := c.Query("url")
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url must be an absolute http(s) URL"})
		return "", false
	}
	return raw, true
}

// handleImageProxy fetches an upstream image with a browser identity and
// serves it from here. Small images are kept in the LRU cache.
func (h *Handler) handleImageProxy(c *gin.Context) {
	target, ok := proxyTargetURL(c)
	if !ok {
		return
	}

	cacheKey := "image:" + target
	if cached, found := h.services.Cache.Get(cacheKey); found {
		if img, ok := cached.(cachedImage); ok {
			c.Header("Cache-Control", "public, max-age=86400")
			c.Data(http.StatusOK, img.contentType, img.data)
			return
		}
	}

	req, err := httputil.NewBrowserRequest(c.Request.Context(), target)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid image URL"})
		return
	}

	resp, err := imageClient.Do(req)
	if err != nil {
		h.services.Logger.Warnf("[handlers] image fetch failed for %s: %v", target, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "image fetch failed"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusBadGateway, gin.H{"error": "image fetch failed"})
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxCachedImageBytes+1))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "image fetch failed"})
		return
	}

	if len(data) <= constants.MaxCachedImageBytes {
		h.services.Cache.Set(cacheKey, cachedImage{contentType: contentType, data: data})
		c.Header("Cache-Control", "public, max-age=86400")
		c.Data(http.StatusOK, contentType, data)
		return
	}

	// Oversized: serve what was read plus the remainder, skip the cache.
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	c.Writer.Write(data)
	io.Copy(c.Writer, resp.Body)
}

// handleVideoProxy relays a media stream with a browser identity, passing
// range requests through so seeking works.
func (h *Handler) handleVideoProxy(c *gin.Context) {
	target, ok := proxyTargetURL(c)
	if !ok {
		return
	}

	req, err := httputil.NewBrowserRequest(c.Request.Context(), target)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid video URL"})
		return
	}
	if rangeHeader := c.GetHeader("Range"); rangeHeader != "" {
		req.Header.Set("Range", rangeHeader)
	}

	resp, err := videoClient.Do(req)
	if err != nil {
		h.services.Logger.Warnf("[handlers] video fetch failed for %s: %v", target, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "video fetch failed"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		c.JSON(http.StatusBadGateway, gin.H{"error": "video fetch failed"})
		return
	}

	for _, header := range []string{"Content-Type", "Content-Length", "Content-Range", "Accept-Ranges"} {
		if value := resp.Header.Get(header); value != "" {
			c.Header(header, value)
		}
	}
	c.Status(resp.StatusCode)
	io.Copy(c.Writer, resp.Body)
}
