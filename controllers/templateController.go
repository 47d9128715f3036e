package controllers

import (
	"context"
	"net/http"
	"time"

	"bizdesk/config"
	"bizdesk/middleware"
	"bizdesk/models"
	"bizdesk/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var templateEvents = []models.MessageEvent{
	models.EventSale,
	models.EventPaymentIn,
	models.EventInvoice,
	models.EventReminder,
}

// ListTemplates returns one entry per event: the stored override when there
// is one, the built-in body otherwise.
func (h *Handler) ListTemplates(c *gin.Context) {
	profile, _ := middleware.CurrentProfile(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	cursor, err := config.MessageTemplateCollection.Find(ctx, bson.M{"admin_id": profile.ScopingID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch templates"})
		return
	}
	defer cursor.Close(ctx)

	var stored []models.MessageTemplate
	if err = cursor.All(ctx, &stored); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode templates"})
		return
	}
	byEvent := make(map[models.MessageEvent]models.MessageTemplate, len(stored))
	for _, t := range stored {
		byEvent[t.Event] = t
	}

	out := make([]models.MessageTemplate, 0, len(templateEvents))
	for _, event := range templateEvents {
		if t, ok := byEvent[event]; ok {
			out = append(out, t)
			continue
		}
		body, _ := models.DefaultTemplate(event)
		out = append(out, models.MessageTemplate{AdminID: profile.ScopingID, Event: event, Content: body, IsActive: true})
	}

	c.JSON(http.StatusOK, gin.H{"templates": out, "placeholders": utils.Placeholders()})
}

func (h *Handler) SaveTemplate(c *gin.Context) {
	event := models.MessageEvent(c.Param("event"))
	if _, ok := models.DefaultTemplate(event); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown template event"})
		return
	}

	var input struct {
		Content  string `json:"content" binding:"required"`
		IsActive *bool  `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	profile, _ := middleware.CurrentProfile(c)
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"content":    input.Content,
		"is_active":  active,
		"updated_by": profile.ID,
		"updated_at": time.Now(),
	}}
	_, err := config.MessageTemplateCollection.UpdateOne(ctx,
		bson.M{"admin_id": profile.ScopingID, "event": event},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save template"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Template saved successfully"})
}
