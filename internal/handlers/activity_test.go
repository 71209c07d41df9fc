package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cause-connect/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildActivityPatchSkipsNilFields(t *testing.T) {
	title := "New title"
	req := UpdateActivityRequest{Title: &title}

	patch := buildActivityPatch(&req)

	assert.Equal(t, "New title", patch["title"])
	assert.NotContains(t, patch, "description")
	assert.NotContains(t, patch, "duration")
	assert.NotContains(t, patch, "private_details")
}

func TestBuildActivityPatchClearsWithZeroValue(t *testing.T) {
	empty := ""
	req := UpdateActivityRequest{PrivateDetails: &empty, ExternalLink: &empty}

	patch := buildActivityPatch(&req)

	// Present-but-empty means clear, not skip
	assert.Equal(t, "", patch["private_details"])
	assert.Equal(t, "", patch["external_link"])
	assert.Len(t, patch, 2)
}

func TestBuildActivityPatchAllFields(t *testing.T) {
	title := "Title"
	description := "A longer description"
	date := time.Now()
	duration := 2.5
	location := "Park"
	details := "side entrance"
	link := "https://example.com"

	req := UpdateActivityRequest{
		Title:          &title,
		Description:    &description,
		Date:           &date,
		Duration:       &duration,
		Location:       &location,
		PrivateDetails: &details,
		ExternalLink:   &link,
	}

	patch := buildActivityPatch(&req)
	assert.Len(t, patch, 7)
	assert.Equal(t, 2.5, patch["duration"])
}

func TestBuildActivityPatchEmptyRequest(t *testing.T) {
	patch := buildActivityPatch(&UpdateActivityRequest{})
	assert.Empty(t, patch)
}

func TestActivityForParticipant(t *testing.T) {
	details := "meet at the shed"
	activity := models.Activity{
		Title:          "Cleanup",
		PrivateDetails: &details,
	}

	accepted := activityForParticipant(activity, models.ParticipationAccepted)
	assert.NotNil(t, accepted.PrivateDetails)
	assert.Equal(t, details, *accepted.PrivateDetails)

	pending := activityForParticipant(activity, models.ParticipationPending)
	assert.Nil(t, pending.PrivateDetails)

	rejected := activityForParticipant(activity, models.ParticipationRejected)
	assert.Nil(t, rejected.PrivateDetails)
}

func TestCreateActivityRejectsInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewActivityHandler(nil, nil, nil)

	router := gin.New()
	router.POST("/activities", func(c *gin.Context) {
		c.Set("user_id", primitive.NewObjectID())
		handler.CreateActivity(c)
	})

	// Missing required fields
	body := bytes.NewBufferString(`{"title": "ok"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/activities", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateActivityRejectsBadID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewActivityHandler(nil, nil, nil)

	router := gin.New()
	router.PUT("/activities/:id", handler.UpdateActivity)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/activities/not-an-id", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
