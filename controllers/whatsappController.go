package controllers

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"bizdesk/api"
	"bizdesk/middleware"
	"bizdesk/models"
	"bizdesk/services"
	"bizdesk/utils"

	"github.com/gin-gonic/gin"
)

const maxAttachmentSize = 16 * 1024 * 1024

type sendMessageRequest struct {
	PartyID  string             `json:"party_id" form:"party_id" binding:"required"`
	Event    string             `json:"event" form:"event"`
	Template string             `json:"template" form:"template"`
	Data     utils.TemplateData `json:"data" form:"-"`
}

func (h *Handler) WhatsAppStatus(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	status, err := h.Bridge.Status(ctx)
	if err != nil {
		h.Log.Warn().Err(err).Msg("bridge status failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "WhatsApp bridge unavailable"})
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *Handler) WhatsAppQR(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	qr, err := h.Bridge.QRCode(ctx)
	if err != nil {
		h.Log.Warn().Err(err).Msg("bridge qr failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "WhatsApp bridge unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"qr": qr})
}

// SendWhatsApp accepts JSON, or multipart with an "attachment" file and the
// template data as a JSON string in the "data" field.
func (h *Handler) SendWhatsApp(c *gin.Context) {
	var input sendMessageRequest
	var attachment *api.Attachment

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBind(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if raw := c.PostForm("data"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &input.Data); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data field"})
				return
			}
		}
		file, err := c.FormFile("attachment")
		if err == nil {
			if file.Size > maxAttachmentSize {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Attachment exceeds the 16MB limit"})
				return
			}
			f, err := file.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open attachment"})
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read attachment"})
				return
			}
			contentType := file.Header.Get("Content-Type")
			if contentType == "" {
				contentType = http.DetectContentType(data)
			}
			attachment = &api.Attachment{FileName: file.Filename, ContentType: contentType, Data: data}
		}
	} else if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Event == "" && input.Template == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "event or template is required"})
		return
	}

	profile, _ := middleware.CurrentProfile(c)
	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	result, err := h.Notifier.Send(ctx, profile, services.NotificationRequest{
		PartyID:    input.PartyID,
		Event:      models.MessageEvent(input.Event),
		Template:   input.Template,
		Data:       input.Data,
		Attachment: attachment,
	})
	if err != nil {
		status, msg := notificationError(err)
		middleware.WhatsAppMessagesTotal.WithLabelValues("failed").Inc()
		if status >= http.StatusInternalServerError {
			h.Log.Error().Err(err).Str("request_id", middleware.RequestID(c)).Msg("whatsapp send failed")
		}
		c.JSON(status, gin.H{"success": false, "error": msg})
		return
	}

	middleware.WhatsAppMessagesTotal.WithLabelValues("sent").Inc()
	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

func notificationError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrPartyNotFound):
		return http.StatusNotFound, "Party not found"
	case errors.Is(err, services.ErrNoPhoneNumber):
		return http.StatusUnprocessableEntity, "No phone number for this party"
	case errors.Is(err, services.ErrUnknownEvent):
		return http.StatusBadRequest, "Unknown message event"
	case errors.Is(err, services.ErrRateLimited):
		return http.StatusTooManyRequests, err.Error()
	case errors.Is(err, api.ErrBridgeUnavailable):
		return http.StatusBadGateway, "WhatsApp bridge unavailable"
	default:
		return http.StatusInternalServerError, "Failed to send message"
	}
}

// BridgeEvents is the webhook the bridge posts lifecycle events to. It is
// authenticated by the shared bridge token, not by a user session.
func (h *Handler) BridgeEvents(c *gin.Context) {
	if h.BridgeToken != "" {
		got := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.BridgeToken)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid bridge token"})
			return
		}
	}

	var event api.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !api.ValidEvent(event.Type) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown event type"})
		return
	}
	event.ReceivedAt = time.Now()

	n := h.Events.Publish(event)
	h.Log.Info().Str("event", string(event.Type)).Int("subscribers", n).Msg("bridge event")
	c.JSON(http.StatusOK, gin.H{"success": true})
}
