// internal/handlers/activity.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"cause-connect/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ActivityHandler struct {
	activityCollection      *mongo.Collection
	participationCollection *mongo.Collection
	userCollection          *mongo.Collection
}

type CreateActivityRequest struct {
	Title          string    `json:"title" binding:"required,min=3,max=200"`
	Description    string    `json:"description" binding:"required,min=10,max=2000"`
	Date           time.Time `json:"date" binding:"required"`
	Duration       float64   `json:"duration" binding:"required,gt=0"`
	Location       string    `json:"location" binding:"required"`
	PrivateDetails string    `json:"privateDetails,omitempty"`
	ExternalLink   string    `json:"externalLink,omitempty" binding:"omitempty,url"`
}

// UpdateActivityRequest carries a field patch. Pointer fields distinguish
// "clear this field" (pointer to zero value) from "leave it untouched" (nil).
type UpdateActivityRequest struct {
	Title          *string    `json:"title,omitempty" binding:"omitempty,min=3,max=200"`
	Description    *string    `json:"description,omitempty" binding:"omitempty,min=10,max=2000"`
	Date           *time.Time `json:"date,omitempty"`
	Duration       *float64   `json:"duration,omitempty" binding:"omitempty,gt=0"`
	Location       *string    `json:"location,omitempty"`
	PrivateDetails *string    `json:"privateDetails,omitempty"`
	ExternalLink   *string    `json:"externalLink,omitempty"`
}

func NewActivityHandler(activityCollection, participationCollection, userCollection *mongo.Collection) *ActivityHandler {
	return &ActivityHandler{
		activityCollection:      activityCollection,
		participationCollection: participationCollection,
		userCollection:          userCollection,
	}
}

// GetActivities returns every activity with private details stripped.
// Public, no identity required.
// GET /api/v1/activities
func (h *ActivityHandler) GetActivities(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := h.activityCollection.Find(ctx, bson.M{}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error fetching activities",
		})
		return
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error decoding activities",
		})
		return
	}

	organizers, err := h.fetchOrganizerProfiles(ctx, activities)
	if err != nil {
		logrus.WithError(err).Error("error fetching organizer profiles")
	}

	views := make([]models.ActivityView, 0, len(activities))
	for _, activity := range activities {
		view := models.ActivityView{Activity: activity.Sanitized()}
		if p, ok := organizers[activity.OrganizerID]; ok {
			view.Organizer = &p
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, views)
}

// GetMyActivities returns the activities the calling volunteer has joined,
// each annotated with their participation status. Private details are
// included only for accepted participations.
// GET /api/v1/activities/my
func (h *ActivityHandler) GetMyActivities(c *gin.Context) {
	userID := c.MustGet("user_id").(primitive.ObjectID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := h.participationCollection.Find(ctx, bson.M{"volunteer_id": userID}, opts)
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

	activityIDs := make([]primitive.ObjectID, 0, len(participations))
	for _, p := range participations {
		activityIDs = append(activityIDs, p.ActivityID)
	}

	activityMap := make(map[primitive.ObjectID]models.Activity)
	if len(activityIDs) > 0 {
		actCursor, err := h.activityCollection.Find(ctx, bson.M{"_id": bson.M{"$in": activityIDs}})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Error fetching activities",
			})
			return
		}
		defer actCursor.Close(ctx)

		var activities []models.Activity
		if err := actCursor.All(ctx, &activities); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Error decoding activities",
			})
			return
		}
		for _, a := range activities {
			activityMap[a.ID] = a
		}
	}

	var forProfiles []models.Activity
	for _, a := range activityMap {
		forProfiles = append(forProfiles, a)
	}
	organizers, err := h.fetchOrganizerProfiles(ctx, forProfiles)
	if err != nil {
		logrus.WithError(err).Error("error fetching organizer profiles")
	}

	views := make([]models.ActivityView, 0, len(participations))
	for _, p := range participations {
		activity, ok := activityMap[p.ActivityID]
		if !ok {
			continue
		}
		view := models.ActivityView{
			Activity:            activityForParticipant(activity, p.Status),
			ParticipationStatus: p.Status.String(),
		}
		if prof, ok := organizers[activity.OrganizerID]; ok {
			view.Organizer = &prof
		}
		views = append(views, view)
	}

	c.JSON(http.StatusOK, views)
}

// GetCreatedActivities returns the calling organization's own activities
// with full detail, private details included.
// GET /api/v1/activities/created
func (h *ActivityHandler) GetCreatedActivities(c *gin.Context) {
	userID := c.MustGet("user_id").(primitive.ObjectID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := h.activityCollection.Find(ctx, bson.M{"organizer_id": userID}, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error fetching activities",
		})
		return
	}
	defer cursor.Close(ctx)

	activities := []models.Activity{}
	if err := cursor.All(ctx, &activities); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error decoding activities",
		})
		return
	}

	c.JSON(http.StatusOK, activities)
}

// CreateActivity creates a new activity owned by the calling organization.
// POST /api/v1/activities
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	userID := c.MustGet("user_id").(primitive.ObjectID)

	now := time.Now()
	activity := models.Activity{
		OrganizerID:  userID,
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		Duration:     req.Duration,
		Location:     req.Location,
		ExternalLink: req.ExternalLink,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.PrivateDetails != "" {
		activity.PrivateDetails = &req.PrivateDetails
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := h.activityCollection.InsertOne(ctx, activity)
	if err != nil {
		logrus.WithError(err).Error("error creating activity")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error creating activity",
		})
		return
	}

	activity.ID = result.InsertedID.(primitive.ObjectID)

	c.JSON(http.StatusCreated, activity)
}

// UpdateActivity applies a field patch to one of the caller's own
// activities. Absent fields stay untouched; present-but-empty fields clear.
// PUT /api/v1/activities/:id
func (h *ActivityHandler) UpdateActivity(c *gin.Context) {
	activityID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid activity ID",
		})
		return
	}

	var req UpdateActivityRequest
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
			"error": "You can only edit your own activities",
		})
		return
	}

	updateData := buildActivityPatch(&req)
	updateData["updated_at"] = time.Now()

	// Single $set keeps the patch atomic; concurrent updates are
	// last-write-wins per field.
	result, err := h.activityCollection.UpdateOne(ctx, bson.M{"_id": activityID}, bson.M{
		"$set": updateData,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error updating activity",
		})
		return
	}

	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Activity not found",
		})
		return
	}

	err = h.activityCollection.FindOne(ctx, bson.M{"_id": activityID}).Decode(&activity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Error fetching updated activity",
		})
		return
	}

	c.JSON(http.StatusOK, activity)
}

// buildActivityPatch converts the pointer-field request into a $set
// document. Nil pointers are skipped; non-nil pointers are applied even when
// they point at the zero value, which is how a field gets cleared.
func buildActivityPatch(req *UpdateActivityRequest) bson.M {
	updateData := bson.M{}

	if req.Title != nil {
		updateData["title"] = *req.Title
	}
	if req.Description != nil {
		updateData["description"] = *req.Description
	}
	if req.Date != nil {
		updateData["date"] = *req.Date
	}
	if req.Duration != nil {
		updateData["duration"] = *req.Duration
	}
	if req.Location != nil {
		updateData["location"] = *req.Location
	}
	if req.PrivateDetails != nil {
		updateData["private_details"] = *req.PrivateDetails
	}
	if req.ExternalLink != nil {
		updateData["external_link"] = *req.ExternalLink
	}

	return updateData
}

// activityForParticipant strips the private details unless the volunteer's
// participation is accepted.
func activityForParticipant(activity models.Activity, status models.ParticipationStatus) models.Activity {
	if status != models.ParticipationAccepted {
		return activity.Sanitized()
	}
	return activity
}

// fetchOrganizerProfiles resolves the distinct organizers of the given
// activities to their public profiles.
func (h *ActivityHandler) fetchOrganizerProfiles(ctx context.Context, activities []models.Activity) (map[primitive.ObjectID]models.PublicProfile, error) {
	profiles := make(map[primitive.ObjectID]models.PublicProfile)
	if len(activities) == 0 {
		return profiles, nil
	}

	seen := make(map[primitive.ObjectID]bool)
	var organizerIDs []primitive.ObjectID
	for _, a := range activities {
		if !seen[a.OrganizerID] {
			seen[a.OrganizerID] = true
			organizerIDs = append(organizerIDs, a.OrganizerID)
		}
	}

	cursor, err := h.userCollection.Find(ctx, bson.M{"_id": bson.M{"$in": organizerIDs}},
		options.Find().SetProjection(bson.M{"name": 1, "email": 1}))
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
