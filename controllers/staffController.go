package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"bizdesk/config"
	"bizdesk/middleware"
	"bizdesk/models"
	"bizdesk/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type addStaffRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
}

// ListStaff returns the staff owned by the calling administrator.
func (h *Handler) ListStaff(c *gin.Context) {
	profile, _ := middleware.CurrentProfile(c)
	parentID, err := primitive.ObjectIDFromHex(profile.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid administrator ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := config.StaffCollection.Find(ctx, bson.M{"parent_id": parentID}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error retrieving staff"})
		return
	}
	defer cursor.Close(ctx)

	staff := []models.Staff{}
	if err := cursor.All(ctx, &staff); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error decoding staff"})
		return
	}

	c.JSON(http.StatusOK, staff)
}

func (h *Handler) AddStaff(c *gin.Context) {
	var input addStaffRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, _ := middleware.CurrentProfile(c)
	parentID, err := primitive.ObjectIDFromHex(profile.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid administrator ID"})
		return
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error hashing password"})
		return
	}

	staff := models.Staff{
		ID:        primitive.NewObjectID(),
		Email:     strings.TrimSpace(input.Email),
		Password:  hashedPassword,
		Name:      input.Name,
		Phone:     input.Phone,
		Address:   input.Address,
		IsActive:  true,
		ParentID:  parentID,
		CreatedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if _, err := config.StaffCollection.InsertOne(ctx, staff); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already in use"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error adding staff"})
		return
	}

	h.Log.Info().Str("staff_id", staff.ID.Hex()).Str("parent_id", profile.ID).Msg("staff created")
	c.JSON(http.StatusCreated, staff)
}

// SetStaffActive (de)activates a staff account. Deactivation takes effect
// on the account's very next request.
func (h *Handler) SetStaffActive(c *gin.Context) {
	var input struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	staffID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid staff ID"})
		return
	}
	profile, _ := middleware.CurrentProfile(c)
	parentID, err := primitive.ObjectIDFromHex(profile.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid administrator ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	res, err := config.StaffCollection.UpdateOne(ctx,
		bson.M{"_id": staffID, "parent_id": parentID},
		bson.M{"$set": bson.M{"is_active": *input.IsActive}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating staff"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Staff not found"})
		return
	}

	h.Log.Info().Str("staff_id", staffID.Hex()).Bool("is_active", *input.IsActive).Msg("staff status changed")
	c.JSON(http.StatusOK, gin.H{"message": "Staff updated successfully"})
}
