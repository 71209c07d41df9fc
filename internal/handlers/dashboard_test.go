package handlers

import (
	"testing"
	"time"

	"cause-connect/internal/models"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func makeParticipation(activityID, volunteerID primitive.ObjectID, status models.ParticipationStatus, createdAt time.Time) models.Participation {
	return models.Participation{
		ID:          primitive.NewObjectID(),
		ActivityID:  activityID,
		VolunteerID: volunteerID,
		Status:      status,
		CreatedAt:   createdAt,
	}
}

func TestComputeVolunteerStats(t *testing.T) {
	orgA := primitive.NewObjectID()
	orgB := primitive.NewObjectID()
	volunteer := primitive.NewObjectID()

	actA := models.Activity{ID: primitive.NewObjectID(), OrganizerID: orgA, Title: "Cleanup", Duration: 4}
	actB := models.Activity{ID: primitive.NewObjectID(), OrganizerID: orgA, Title: "Planting", Duration: 2.5}
	actC := models.Activity{ID: primitive.NewObjectID(), OrganizerID: orgB, Title: "Food drive", Duration: 3}

	activities := map[primitive.ObjectID]models.Activity{
		actA.ID: actA,
		actB.ID: actB,
		actC.ID: actC,
	}

	now := time.Now()
	participations := []models.Participation{
		makeParticipation(actA.ID, volunteer, models.ParticipationAccepted, now),
		makeParticipation(actB.ID, volunteer, models.ParticipationAccepted, now.Add(-time.Hour)),
		makeParticipation(actC.ID, volunteer, models.ParticipationPending, now.Add(-2*time.Hour)),
	}

	stats := computeVolunteerStats(participations, activities)

	// Hours only from accepted participations
	assert.Equal(t, 6.5, stats.HoursVolunteered)
	// Both accepted activities share the same organizer
	assert.Equal(t, 1, stats.CausesSupported)
	// Pending and accepted both count as active
	assert.Equal(t, 3, stats.ActiveParticipations)
	assert.Len(t, stats.RecentActivity, 3)
	assert.Equal(t, "Cleanup", stats.RecentActivity[0].ActivityTitle)
}

func TestComputeVolunteerStatsRejectedExcluded(t *testing.T) {
	org := primitive.NewObjectID()
	volunteer := primitive.NewObjectID()
	act := models.Activity{ID: primitive.NewObjectID(), OrganizerID: org, Title: "Cleanup", Duration: 4}

	participations := []models.Participation{
		makeParticipation(act.ID, volunteer, models.ParticipationRejected, time.Now()),
	}
	activities := map[primitive.ObjectID]models.Activity{act.ID: act}

	stats := computeVolunteerStats(participations, activities)

	assert.Zero(t, stats.HoursVolunteered)
	assert.Zero(t, stats.CausesSupported)
	assert.Zero(t, stats.ActiveParticipations)
	// Rejected still shows up in the recent list
	assert.Len(t, stats.RecentActivity, 1)
}

func TestComputeVolunteerStatsEmpty(t *testing.T) {
	stats := computeVolunteerStats(nil, map[primitive.ObjectID]models.Activity{})

	assert.Zero(t, stats.HoursVolunteered)
	assert.NotNil(t, stats.RecentActivity)
	assert.Empty(t, stats.RecentActivity)
}

func TestComputeVolunteerStatsRecentLimit(t *testing.T) {
	volunteer := primitive.NewObjectID()
	var participations []models.Participation
	for i := 0; i < 8; i++ {
		participations = append(participations,
			makeParticipation(primitive.NewObjectID(), volunteer, models.ParticipationPending,
				time.Now().Add(-time.Duration(i)*time.Hour)))
	}

	stats := computeVolunteerStats(participations, map[primitive.ObjectID]models.Activity{})

	assert.Len(t, stats.RecentActivity, recentLimit)
	assert.Equal(t, 8, stats.ActiveParticipations)
}

func TestComputeOrganizationStats(t *testing.T) {
	org := primitive.NewObjectID()
	volA := primitive.NewObjectID()
	volB := primitive.NewObjectID()

	actA := models.Activity{ID: primitive.NewObjectID(), OrganizerID: org, Title: "Cleanup", Duration: 4}
	actB := models.Activity{ID: primitive.NewObjectID(), OrganizerID: org, Title: "Planting", Duration: 2}

	activities := map[primitive.ObjectID]models.Activity{
		actA.ID: actA,
		actB.ID: actB,
	}

	now := time.Now()
	participations := []models.Participation{
		makeParticipation(actA.ID, volA, models.ParticipationAccepted, now),
		makeParticipation(actB.ID, volA, models.ParticipationAccepted, now.Add(-time.Hour)),
		makeParticipation(actA.ID, volB, models.ParticipationPending, now.Add(-2*time.Hour)),
	}

	stats, subscriberIDs := computeOrganizationStats(participations, activities)

	// volA accepted twice still counts once
	assert.Equal(t, 1, stats.ActiveVolunteers)
	// But each accepted participation contributes its activity's hours
	assert.Equal(t, 6.0, stats.ImpactHoursCreated)

	// Recent subscribers are distinct volunteers, newest first, any status
	assert.Len(t, stats.RecentSubscribers, 2)
	assert.Equal(t, volA, stats.RecentSubscribers[0].VolunteerID)
	assert.Equal(t, "Cleanup", stats.RecentSubscribers[0].ActivityTitle)
	assert.Equal(t, volB, stats.RecentSubscribers[1].VolunteerID)
	assert.Equal(t, []primitive.ObjectID{volA, volB}, subscriberIDs)
}

func TestComputeOrganizationStatsSubscriberLimit(t *testing.T) {
	org := primitive.NewObjectID()
	act := models.Activity{ID: primitive.NewObjectID(), OrganizerID: org, Title: "Cleanup", Duration: 1}
	activities := map[primitive.ObjectID]models.Activity{act.ID: act}

	var participations []models.Participation
	for i := 0; i < 8; i++ {
		participations = append(participations,
			makeParticipation(act.ID, primitive.NewObjectID(), models.ParticipationPending,
				time.Now().Add(-time.Duration(i)*time.Minute)))
	}

	stats, subscriberIDs := computeOrganizationStats(participations, activities)

	assert.Len(t, stats.RecentSubscribers, recentLimit)
	assert.Len(t, subscriberIDs, recentLimit)
	assert.Zero(t, stats.ActiveVolunteers)
}

func TestComputeOrganizationStatsEmpty(t *testing.T) {
	stats, subscriberIDs := computeOrganizationStats(nil, map[primitive.ObjectID]models.Activity{})

	assert.Zero(t, stats.ActiveVolunteers)
	assert.Zero(t, stats.ImpactHoursCreated)
	assert.NotNil(t, stats.RecentSubscribers)
	assert.Empty(t, stats.RecentSubscribers)
	assert.Nil(t, subscriberIDs)
}
