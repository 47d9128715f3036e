package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bizdesk/middleware"
	"bizdesk/models"
	"bizdesk/services"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil || input.Username == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Username and password are required"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	profile, err := h.Auth.Authenticate(ctx, input.Username, input.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			middleware.LoginAttemptsTotal.WithLabelValues("rejected", "").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid username or password"})
			return
		}
		h.Log.Error().Err(err).Str("request_id", middleware.RequestID(c)).Msg("login lookup failed")
		middleware.LoginAttemptsTotal.WithLabelValues("error", "").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Internal server error"})
		return
	}
	middleware.LoginAttemptsTotal.WithLabelValues("success", string(profile.Kind)).Inc()

	if err := middleware.SetSessionCookies(c, h.Signer, h.Cookies, profile); err != nil {
		h.Log.Error().Err(err).Msg("error signing session markers")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Error while generating session"})
		return
	}
	resp := gin.H{"success": true, "user": profile}
	if h.BearerTokens {
		token, err := h.Signer.GenerateToken(profile.ID, string(profile.Kind))
		if err != nil {
			h.Log.Error().Err(err).Msg("error generating token")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Error while generating session"})
			return
		}
		resp["token"] = token
	}

	if h.Sessions != nil {
		session := models.Session{
			UserID:    profile.ID,
			Kind:      profile.Kind,
			IP:        c.ClientIP(),
			Device:    c.Request.UserAgent(),
			Timestamp: time.Now(),
		}
		if err := h.Sessions.Record(ctx, session); err != nil {
			h.Log.Warn().Err(err).Str("user_id", profile.ID).Msg("error recording session")
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) Logout(c *gin.Context) {
	middleware.ClearSessionCookies(c, h.Cookies)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CheckSession runs behind middleware.Session, so a profile is present.
func (h *Handler) CheckSession(c *gin.Context) {
	profile, ok := middleware.CurrentProfile(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": profile})
}
