// internal/models/activity.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Activity struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrganizerID primitive.ObjectID `bson:"organizer_id" json:"organizer_id" validate:"required"`

	Title       string    `bson:"title" json:"title" validate:"required,min=3,max=200"`
	Description string    `bson:"description" json:"description" validate:"required,min=10,max=2000"`
	Date        time.Time `bson:"date" json:"date" validate:"required"`
	Duration    float64   `bson:"duration" json:"duration" validate:"required,gt=0"` // hours
	Location    string    `bson:"location" json:"location" validate:"required"`

	// Logistics visible only to the organizer and accepted participants.
	// Pointer so public views can omit the field entirely rather than
	// serialize an empty string.
	PrivateDetails *string `bson:"private_details,omitempty" json:"privateDetails,omitempty"`
	ExternalLink   string  `bson:"external_link,omitempty" json:"externalLink,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Sanitized returns a copy with the private details removed, for views
// served to callers who are not accepted participants or the organizer.
func (a Activity) Sanitized() Activity {
	a.PrivateDetails = nil
	return a
}

// IsOwnedBy reports whether the given user organizes this activity.
func (a *Activity) IsOwnedBy(userID primitive.ObjectID) bool {
	return a.OrganizerID == userID
}

// ActivityView is an activity annotated for a specific volunteer with their
// participation status, as returned by the my-activities listing.
type ActivityView struct {
	Activity            `bson:",inline"`
	Organizer           *PublicProfile `json:"organizer,omitempty"`
	ParticipationStatus string         `json:"participationStatus,omitempty"`
}
