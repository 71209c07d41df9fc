// internal/handlers/users.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"cause-connect/internal/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserHandler struct {
	userCollection *mongo.Collection
}

type UpdateProfileRequest struct {
	Name *string `json:"name,omitempty" binding:"omitempty,min=2,max=100"`
	Bio  *string `json:"bio,omitempty" binding:"omitempty,max=500"`
}

func NewUserHandler(userCollection *mongo.Collection) *UserHandler {
	return &UserHandler{
		userCollection: userCollection,
	}
}

// GetMe returns the caller's own profile.
// GET /api/v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	userID := c.MustGet("user_id").(primitive.ObjectID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := h.userCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Database error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateMe patches the caller's profile. Only the fields present in the
// request change; a field set to its zero value clears it.
// PUT /api/v1/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	userID := c.MustGet("user_id").(primitive.ObjectID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	updateData := bson.M{"updated_at": time.Now()}
	if req.Name != nil {
		updateData["name"] = *req.Name
	}
	if req.Bio != nil {
		updateData["bio"] = *req.Bio
	}

	result := h.userCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": updateData},
		options.FindOneAndUpdate().SetReturnDocument(options.After))

	var user models.User
	if err := result.Decode(&user); err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Error updating profile",
			})
		}
		return
	}

	c.JSON(http.StatusOK, user)
}
