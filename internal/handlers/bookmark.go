// internal/handlers/bookmark.go
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

// BookmarkHandler manages the bookmark list embedded in each user document.
type BookmarkHandler struct {
	userCollection *mongo.Collection
}

type AddBookmarkRequest struct {
	ProjectID string `json:"projectId" binding:"required"`
	Title     string `json:"title" binding:"required"`
	ImageURL  string `json:"imageUrl,omitempty" binding:"omitempty,url"`
}

func NewBookmarkHandler(userCollection *mongo.Collection) *BookmarkHandler {
	return &BookmarkHandler{
		userCollection: userCollection,
	}
}

// GetBookmarks returns the caller's bookmarks in insertion order.
// GET /api/v1/users/me/bookmarks
func (h *BookmarkHandler) GetBookmarks(c *gin.Context) {
	userID := c.MustGet("user_id").(primitive.ObjectID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err := h.userCollection.FindOne(ctx, bson.M{"_id": userID},
		options.FindOne().SetProjection(bson.M{"bookmarks": 1})).Decode(&user)
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

	if user.Bookmarks == nil {
		user.Bookmarks = []models.Bookmark{}
	}

	c.JSON(http.StatusOK, user.Bookmarks)
}

// AddBookmark appends a bookmark to the caller's list. The filter excludes
// users who already hold the project id, so concurrent duplicate saves
// cannot both append.
// POST /api/v1/users/me/bookmarks
func (h *BookmarkHandler) AddBookmark(c *gin.Context) {
	var req AddBookmarkRequest
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

	bookmark := models.Bookmark{
		ProjectID: req.ProjectID,
		Title:     req.Title,
		ImageURL:  req.ImageURL,
	}

	result, err := h.userCollection.UpdateOne(ctx, bson.M{
		"_id":                  userID,
		"bookmarks.project_id": bson.M{"$ne": req.ProjectID},
	}, bson.M{
		"$push": bson.M{"bookmarks": bookmark},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error adding bookmark",
		})
		return
	}

	if result.MatchedCount == 0 {
		// Either the user is gone or the project is already saved
		count, err := h.userCollection.CountDocuments(ctx, bson.M{"_id": userID})
		if err == nil && count == 0 {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
			return
		}
		c.JSON(http.StatusConflict, gin.H{
			"error": "Project already bookmarked",
		})
		return
	}

	c.JSON(http.StatusCreated, bookmark)
}

// RemoveBookmark deletes the bookmark if present. Removing an absent entry
// succeeds, so client retries stay simple.
// DELETE /api/v1/users/me/bookmarks/:projectId
func (h *BookmarkHandler) RemoveBookmark(c *gin.Context) {
	projectID := c.Param("projectId")
	userID := c.MustGet("user_id").(primitive.ObjectID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := h.userCollection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$pull": bson.M{"bookmarks": bson.M{"project_id": projectID}},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error removing bookmark",
		})
		return
	}

	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "User not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bookmark removed",
	})
}
