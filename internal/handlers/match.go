package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avolet/govodmatch/pkg/vodsearch"
)

// handleMatchStream runs a multi-provider search and relays its progress as
// Server-Sent Events: one init event, one result event per settled provider,
// one final done event.
//
// The search runs on a background context on purpose. A closed browser tab
// stops delivery here, but the provider queries keep running to completion
// and the session keeps settling.
func (h *Handler) handleMatchStream(c *gin.Context) {
	title := c.Param("title")
	contextID := c.Query("contextId")

	providers, err := h.services.Store.ListEnabled()
	if err != nil {
		h.services.Logger.Errorf("[handlers] provider registry read failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "provider registry unavailable"})
		return
	}

	session, err := h.services.Search.Search(context.Background(), title, contextID, providers)
	if err != nil {
		if errors.Is(err, vodsearch.ErrNoProviders) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no providers configured"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	events := session.Events()
	c.Stream(func(w io.Writer) bool {
		event, ok := <-events
		if !ok {
			return false
		}
		c.SSEvent(string(event.Type), event)
		return true
	})
}
