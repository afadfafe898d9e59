package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avolet/govodmatch/internal/auth"
	"github.com/avolet/govodmatch/internal/constants"
)

type loginRequest struct {
	Password string `json:"password"`
}

func (h *Handler) handleLogin(c *gin.Context) {
	if !h.config.AuthEnabled() {
		c.JSON(http.StatusOK, gin.H{"authenticated": true})
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid login payload"})
		return
	}

	if !auth.CheckPassword(h.config.AdminPassword, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid password"})
		return
	}

	expiry := time.Now().Add(constants.SessionTTLDays * 24 * time.Hour)
	token := auth.SignSession(h.config.SessionSecret, expiry)
	c.SetCookie(constants.SessionCookieName, token, int(time.Until(expiry).Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"authenticated": true})
}

func (h *Handler) handleLogout(c *gin.Context) {
	c.SetCookie(constants.SessionCookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"authenticated": false})
}
