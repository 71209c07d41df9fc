// internal/handlers/participation.go
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cause-connect/internal/models"
	"cause-connect/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ParticipationHandler struct {
	participationCollection *mongo.Collection
	activityCollection      *mongo.Collection
	userCollection          *mongo.Collection
	notificationService     *services.NotificationService
}

type JoinActivityRequest struct {
	Message string `json:"message,omitempty" binding:"omitempty,max=1000"`
}

type UpdateParticipationRequest struct {
	Status     string `json:"status" binding:"required,oneof=accepted rejected"`
	OrgMessage string `json:"orgMessage,omitempty" binding:"omitempty,max=1000"`
}

func NewParticipationHandler(participationCollection, activityCollection, userCollection *mongo.Collection, notificationService *services.NotificationService) *ParticipationHandler {
	return &ParticipationHandler{
		participationCollection: participationCollection,
		activityCollection:      activityCollection,
		userCollection:          userCollection,
		notificationService:     notificationService,
	}
}

// JoinActivity creates a pending participation for the calling volunteer.
// POST /api/v1/activities/:id/join
func (h *ParticipationHandler) JoinActivity(c *gin.Context) {
	activityID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid activity ID",
		})
		return
	}

	// Body is optional; a join without a message is fine
	var req JoinActivityRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request data",
				"details": err.Error(),
			})
			return
		}
	}

	userID := c.MustGet("user_id").(primitive.ObjectID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var activity models.Activity
	err = h.activityCollection.FindOne(ctx, bson.M{"_id": activityID}).Decode(&activity)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Activity not found",
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Database error",
			})
		}
		return
	}

	participation := models.Participation{
		ActivityID:       activityID,
		VolunteerID:      userID,
		Status:           models.ParticipationPending,
		VolunteerMessage: req.Message,
		CreatedAt:        time.Now(),
	}

	// The unique (activity_id, volunteer_id) index arbitrates concurrent
	// joins; exactly one insert wins, the rest surface as duplicates.
	result, err := h.participationCollection.InsertOne(ctx, participation)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Already joined this activity",
			})
			return
		}
		logrus.WithError(err).Error("error creating participation")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error joining activity",
		})
		return
	}

	participation.ID = result.InsertedID.(primitive.ObjectID)

	if err := h.notificationService.NotifyUser(ctx, activity.OrganizerID,
		"New volunteer sign-up",
		fmt.Sprintf("A volunteer asked to join %q", activity.Title),
		services.NotificationTypeParticipation, &participation.ID); err != nil {
		logrus.WithError(err).Warn("error notifying organizer")
	}

	c.JSON(http.StatusCreated, participation)
}

// GetParticipants returns every participation for one of the caller's own
// activities, each joined with the volunteer's public profile.
// GET /api/v1/activities/:id/participants
func (h *ParticipationHandler) GetParticipants(c *gin.Context) {
	activityID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid activity ID",
		})
		return
	}

	userID := c.MustGet("user_id").(primitive.ObjectID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var activity models.Activity
	err = h.activityCollection.FindOne(ctx, bson.M{"_id": activityID}).Decode(&activity)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Activity not found",
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Database error",
			})
		}
		return
	}

	if !activity.IsOwnedBy(userID) {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "You can only view participants of your own activities",
		})
		return
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := h.participationCollection.Find(ctx, bson.M{"activity_id": activityID}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error fetching participations",
		})
		return
	}
	defer cursor.Close(ctx)

	var participations []models.Participation
	if err := cursor.All(ctx, &participations); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error decoding participations",
		})
		return
	}

	volunteers, err := h.fetchVolunteerProfiles(ctx, participations)
	if err != nil {
		logrus.WithError(err).Error("error fetching volunteer profiles")
	}

	views := make([]models.ParticipantView, 0, len(participations))
	for _, p := range participations {
		view := models.ParticipantView{Participation: p}
		if prof, ok := volunteers[p.VolunteerID]; ok {
			view.Volunteer = &prof
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, gin.H{
		"participants": views,
		"count":        len(views),
	})
}

// UpdateParticipationStatus accepts or rejects a pending participation on
// one of the caller's own activities. Re-applying the current status is a
// no-op success; leaving a terminal status is a conflict.
// PUT /api/v1/participations/:id
func (h *ParticipationHandler) UpdateParticipationStatus(c *gin.Context) {
	participationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid participation ID",
		})
		return
	}

	var req UpdateParticipationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	targetStatus := models.ParticipationStatus(req.Status)
	if !targetStatus.IsSettable() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Status must be accepted or rejected",
		})
		return
	}

	userID := c.MustGet("user_id").(primitive.ObjectID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var participation models.Participation
	err = h.participationCollection.FindOne(ctx, bson.M{"_id": participationID}).Decode(&participation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Participation not found",
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Database error",
			})
		}
		return
	}

	var activity models.Activity
	err = h.activityCollection.FindOne(ctx, bson.M{"_id": participation.ActivityID}).Decode(&activity)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Activity not found",
			})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Database error",
			})
		}
		return
	}

	if !activity.IsOwnedBy(userID) {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "You can only manage participations of your own activities",
		})
		return
	}

	if participation.Status == targetStatus {
		c.JSON(http.StatusOK, participation)
		return
	}

	if !participation.CanTransitionTo(targetStatus) {
		c.JSON(http.StatusConflict, gin.H{
			"error":          "Participation already resolved",
			"current_status": participation.Status.String(),
		})
		return
	}

	updateData := bson.M{"status": targetStatus}
	if req.OrgMessage != "" {
		updateData["org_message"] = req.OrgMessage
	}

	// Status and message land in one document write; the filter re-checks
	// the status so a concurrent resolve cannot be overwritten.
	result, err := h.participationCollection.UpdateOne(ctx, bson.M{
		"_id":    participationID,
		"status": participation.Status,
	}, bson.M{
		"$set": updateData,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error updating participation",
		})
		return
	}

	if result.MatchedCount == 0 {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Participation was updated concurrently",
		})
		return
	}

	participation.Status = targetStatus
	if req.OrgMessage != "" {
		participation.OrgMessage = req.OrgMessage
	}

	title := "Participation accepted"
	body := fmt.Sprintf("You were accepted for %q", activity.Title)
	if targetStatus == models.ParticipationRejected {
		title = "Participation declined"
		body = fmt.Sprintf("Your request to join %q was declined", activity.Title)
	}
	if err := h.notificationService.NotifyUser(ctx, participation.VolunteerID, title, body,
		services.NotificationTypeParticipation, &participation.ID); err != nil {
		logrus.WithError(err).Warn("error notifying volunteer")
	}

	c.JSON(http.StatusOK, participation)
}

// fetchVolunteerProfiles resolves the volunteers of the given participations
// to their public profiles (name, email, bio).
func (h *ParticipationHandler) fetchVolunteerProfiles(ctx context.Context, participations []models.Participation) (map[primitive.ObjectID]models.PublicProfile, error) {
	profiles := make(map[primitive.ObjectID]models.PublicProfile)
	if len(participations) == 0 {
		return profiles, nil
	}

	seen := make(map[primitive.ObjectID]bool)
	var volunteerIDs []primitive.ObjectID
	for _, p := range participations {
		if !seen[p.VolunteerID] {
			seen[p.VolunteerID] = true
			volunteerIDs = append(volunteerIDs, p.VolunteerID)
		}
	}

	cursor, err := h.userCollection.Find(ctx, bson.M{"_id": bson.M{"$in": volunteerIDs}},
		options.Find().SetProjection(bson.M{"name": 1, "email": 1, "bio": 1}))
	if err != nil {
		return profiles, err
	}
	defer cursor.Close(ctx)

	var users []models.PublicProfile
	if err := cursor.All(ctx, &users); err != nil {
		return profiles, err
	}

	for _, u := range users {
		profiles[u.ID] = u
	}
	return profiles, nil
}
