// internal/handlers/dashboard.go
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

const recentLimit = 5

type DashboardHandler struct {
	activityCollection      *mongo.Collection
	participationCollection *mongo.Collection
	userCollection          *mongo.Collection
}

// VolunteerStats is the dashboard view for a volunteer caller.
type VolunteerStats struct {
	HoursVolunteered     float64               `json:"hoursVolunteered"`
	CausesSupported      int                   `json:"causesSupported"`
	ActiveParticipations int                   `json:"activeParticipations"`
	RecentActivity       []RecentActivityEntry `json:"recentActivity"`
}

// RecentActivityEntry is one row of a volunteer's recent participations.
type RecentActivityEntry struct {
	ParticipationID primitive.ObjectID         `json:"participationId"`
	Status          models.ParticipationStatus `json:"status"`
	ActivityTitle   string                     `json:"activityTitle"`
	ActivityDate    time.Time                  `json:"activityDate"`
	JoinedAt        time.Time                  `json:"joinedAt"`
}

// OrganizationStats is the dashboard view for an organization caller.
type OrganizationStats struct {
	ActiveVolunteers   int                `json:"activeVolunteers"`
	ImpactHoursCreated float64            `json:"impactHoursCreated"`
	RecentSubscribers  []RecentSubscriber `json:"recentSubscribers"`
}

// RecentSubscriber is one of the most recent distinct volunteers across an
// organization's activities.
type RecentSubscriber struct {
	VolunteerID   primitive.ObjectID `json:"volunteerId"`
	Name          string             `json:"name"`
	Email         string             `json:"email"`
	JoinedAt      time.Time          `json:"joinedAt"`
	ActivityTitle string             `json:"activityTitle"`
}

func NewDashboardHandler(activityCollection, participationCollection, userCollection *mongo.Collection) *DashboardHandler {
	return &DashboardHandler{
		activityCollection:      activityCollection,
		participationCollection: participationCollection,
		userCollection:          userCollection,
	}
}

// GetStats computes the dashboard for the calling user, dispatched on role.
// GET /api/v1/dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	userID := c.MustGet("user_id").(primitive.ObjectID)
	role := c.MustGet("role").(models.UserRole)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch role {
	case models.RoleVolunteer:
		stats, err := h.volunteerStats(ctx, userID)
		if err != nil {
			logrus.WithError(err).Error("error computing volunteer stats")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Error computing stats",
			})
			return
		}
		c.JSON(http.StatusOK, stats)

	case models.RoleOrganization:
		stats, err := h.organizationStats(ctx, userID)
		if err != nil {
			logrus.WithError(err).Error("error computing organization stats")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Error computing stats",
			})
			return
		}
		c.JSON(http.StatusOK, stats)

	case models.RoleAdmin:
		// Admins have no dashboard of their own
		c.JSON(http.StatusOK, gin.H{})

	default:
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Unknown role",
		})
	}
}

func (h *DashboardHandler) volunteerStats(ctx context.Context, volunteerID primitive.ObjectID) (*VolunteerStats, error) {
	participations, err := h.fetchParticipations(ctx, bson.M{"volunteer_id": volunteerID})
	if err != nil {
		return nil, err
	}

	activities, err := h.fetchActivitiesFor(ctx, participations)
	if err != nil {
		return nil, err
	}

	return computeVolunteerStats(participations, activities), nil
}

func (h *DashboardHandler) organizationStats(ctx context.Context, organizerID primitive.ObjectID) (*OrganizationStats, error) {
	cursor, err := h.activityCollection.Find(ctx, bson.M{"organizer_id": organizerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, err
	}

	activityMap := make(map[primitive.ObjectID]models.Activity, len(activities))
	activityIDs := make([]primitive.ObjectID, 0, len(activities))
	for _, a := range activities {
		activityMap[a.ID] = a
		activityIDs = append(activityIDs, a.ID)
	}

	var participations []models.Participation
	if len(activityIDs) > 0 {
		participations, err = h.fetchParticipations(ctx, bson.M{"activity_id": bson.M{"$in": activityIDs}})
		if err != nil {
			return nil, err
		}
	}

	stats, subscriberIDs := computeOrganizationStats(participations, activityMap)

	// Resolve subscriber profiles in one query, preserving order
	if len(subscriberIDs) > 0 {
		profCursor, err := h.userCollection.Find(ctx, bson.M{"_id": bson.M{"$in": subscriberIDs}},
			options.Find().SetProjection(bson.M{"name": 1, "email": 1}))
		if err != nil {
			return nil, err
		}
		defer profCursor.Close(ctx)

		var profiles []models.PublicProfile
		if err := profCursor.All(ctx, &profiles); err != nil {
			return nil, err
		}

		profileMap := make(map[primitive.ObjectID]models.PublicProfile, len(profiles))
		for _, p := range profiles {
			profileMap[p.ID] = p
		}
		for i := range stats.RecentSubscribers {
			if p, ok := profileMap[stats.RecentSubscribers[i].VolunteerID]; ok {
				stats.RecentSubscribers[i].Name = p.Name
				stats.RecentSubscribers[i].Email = p.Email
			}
		}
	}

	return stats, nil
}

// fetchParticipations returns participations matching the filter, newest
// first with _id as the deterministic tie-break.
func (h *DashboardHandler) fetchParticipations(ctx context.Context, filter bson.M) ([]models.Participation, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "_id", Value: -1},
	})

	cursor, err := h.participationCollection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var participations []models.Participation
	if err := cursor.All(ctx, &participations); err != nil {
		return nil, err
	}
	return participations, nil
}

func (h *DashboardHandler) fetchActivitiesFor(ctx context.Context, participations []models.Participation) (map[primitive.ObjectID]models.Activity, error) {
	activityMap := make(map[primitive.ObjectID]models.Activity)
	if len(participations) == 0 {
		return activityMap, nil
	}

	ids := make([]primitive.ObjectID, 0, len(participations))
	for _, p := range participations {
		ids = append(ids, p.ActivityID)
	}

	cursor, err := h.activityCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []models.Activity
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, err
	}

	for _, a := range activities {
		activityMap[a.ID] = a
	}
	return activityMap, nil
}

// computeVolunteerStats derives the volunteer dashboard from the volunteer's
// participations (newest first) and the referenced activities.
func computeVolunteerStats(participations []models.Participation, activities map[primitive.ObjectID]models.Activity) *VolunteerStats {
	stats := &VolunteerStats{
		RecentActivity: []RecentActivityEntry{},
	}

	supportedOrganizers := make(map[primitive.ObjectID]bool)

	for _, p := range participations {
		activity, known := activities[p.ActivityID]

		switch p.Status {
		case models.ParticipationAccepted:
			stats.ActiveParticipations++
			if known {
				stats.HoursVolunteered += activity.Duration
				supportedOrganizers[activity.OrganizerID] = true
			}
		case models.ParticipationPending:
			stats.ActiveParticipations++
		}

		if len(stats.RecentActivity) < recentLimit {
			entry := RecentActivityEntry{
				ParticipationID: p.ID,
				Status:          p.Status,
				JoinedAt:        p.CreatedAt,
			}
			if known {
				entry.ActivityTitle = activity.Title
				entry.ActivityDate = activity.Date
			}
			stats.RecentActivity = append(stats.RecentActivity, entry)
		}
	}

	stats.CausesSupported = len(supportedOrganizers)
	return stats
}

// computeOrganizationStats derives the organization dashboard from the
// participations across the organization's activities (newest first). It
// returns the stats plus the ids of the recent subscribers whose profiles
// still need resolving.
func computeOrganizationStats(participations []models.Participation, activities map[primitive.ObjectID]models.Activity) (*OrganizationStats, []primitive.ObjectID) {
	stats := &OrganizationStats{
		RecentSubscribers: []RecentSubscriber{},
	}

	acceptedVolunteers := make(map[primitive.ObjectID]bool)
	seenSubscribers := make(map[primitive.ObjectID]bool)
	var subscriberIDs []primitive.ObjectID

	for _, p := range participations {
		if p.Status == models.ParticipationAccepted {
			acceptedVolunteers[p.VolunteerID] = true
			if activity, ok := activities[p.ActivityID]; ok {
				// Duration counts once per accepted participation
				stats.ImpactHoursCreated += activity.Duration
			}
		}

		// Most recent distinct volunteers, any status
		if !seenSubscribers[p.VolunteerID] && len(stats.RecentSubscribers) < recentLimit {
			seenSubscribers[p.VolunteerID] = true
			subscriber := RecentSubscriber{
				VolunteerID: p.VolunteerID,
				JoinedAt:    p.CreatedAt,
			}
			if activity, ok := activities[p.ActivityID]; ok {
				subscriber.ActivityTitle = activity.Title
			}
			stats.RecentSubscribers = append(stats.RecentSubscribers, subscriber)
			subscriberIDs = append(subscriberIDs, p.VolunteerID)
		}
	}

	stats.ActiveVolunteers = len(acceptedVolunteers)
	return stats, subscriberIDs
}
