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
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Every party call passes the profile's scoping id, so staff see exactly
// their administrator's parties.

func (h *Handler) ListParties(c *gin.Context) {
	profile, _ := middleware.CurrentProfile(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	parties, err := h.Parties.ListParties(ctx, profile.ScopingID, c.Query("type"))
	if err != nil {
		h.Log.Error().Err(err).Msg("error listing parties")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch parties"})
		return
	}
	c.JSON(http.StatusOK, parties)
}

func (h *Handler) AddParty(c *gin.Context) {
	var party models.Party
	if err := c.ShouldBindJSON(&party); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	profile, _ := middleware.CurrentProfile(c)

	now := time.Now()
	party.ID = primitive.NewObjectID()
	party.AdminID = profile.ScopingID
	party.CreatedBy = profile.ID
	party.CreatedAt = now
	party.UpdatedAt = now
	if party.Type == "" {
		party.Type = "customer"
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Parties.CreateParty(ctx, &party); err != nil {
		h.Log.Error().Err(err).Msg("error adding party")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error adding party"})
		return
	}
	c.JSON(http.StatusCreated, party)
}

func (h *Handler) GetParty(c *gin.Context) {
	id := c.Param("id")
	if !primitive.IsValidObjectID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid party ID"})
		return
	}
	profile, _ := middleware.CurrentProfile(c)

	party, err := h.Parties.FindParty(c.Request.Context(), profile.ScopingID, id)
	if err != nil {
		if errors.Is(err, services.ErrPartyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving party"})
		}
		return
	}
	c.JSON(http.StatusOK, party)
}

func (h *Handler) UpdateParty(c *gin.Context) {
	id := c.Param("id")
	if !primitive.IsValidObjectID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid party ID"})
		return
	}

	var input struct {
		Name       *string  `json:"name"`
		Type       *string  `json:"type"`
		WhatsAppNo *string  `json:"whatsapp_no"`
		MobileNo   *string  `json:"mobile_no"`
		Email      *string  `json:"email"`
		Address    *string  `json:"address"`
		Balance    *float64 `json:"balance"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := map[string]interface{}{}
	setIf := func(field string, v *string) {
		if v != nil {
			update[field] = *v
		}
	}
	setIf("name", input.Name)
	setIf("type", input.Type)
	setIf("whatsapp_no", input.WhatsAppNo)
	setIf("mobile_no", input.MobileNo)
	setIf("email", input.Email)
	setIf("address", input.Address)
	if input.Balance != nil {
		update["balance"] = *input.Balance
	}
	if len(update) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	profile, _ := middleware.CurrentProfile(c)
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := h.Parties.UpdateParty(ctx, profile.ScopingID, id, update); err != nil {
		if errors.Is(err, services.ErrPartyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Party not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update party"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Party updated successfully"})
}
