// internal/models/participation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParticipationStatus is the approval state of a volunteer's sign-up.
type ParticipationStatus string

const (
	ParticipationPending  ParticipationStatus = "pending"
	ParticipationAccepted ParticipationStatus = "accepted"
	ParticipationRejected ParticipationStatus = "rejected"
)

// IsValid reports whether the status is one of the known states.
func (s ParticipationStatus) IsValid() bool {
	switch s {
	case ParticipationPending, ParticipationAccepted, ParticipationRejected:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition may leave this status.
func (s ParticipationStatus) IsTerminal() bool {
	return s == ParticipationAccepted || s == ParticipationRejected
}

// IsSettable reports whether an organizer may set this status on an existing
// participation. Pending is the creation state only, never a target.
func (s ParticipationStatus) IsSettable() bool {
	return s == ParticipationAccepted || s == ParticipationRejected
}

func (s ParticipationStatus) String() string {
	return string(s)
}

// Participation is a volunteer's request to join one activity. The pair
// (activity_id, volunteer_id) carries a unique index, so the store itself
// rejects a second sign-up for the same activity.
type Participation struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ActivityID  primitive.ObjectID `bson:"activity_id" json:"activity_id" validate:"required"`
	VolunteerID primitive.ObjectID `bson:"volunteer_id" json:"volunteer_id" validate:"required"`

	Status ParticipationStatus `bson:"status" json:"status"`

	VolunteerMessage string `bson:"volunteer_message,omitempty" json:"volunteerMessage,omitempty"`
	OrgMessage       string `bson:"org_message,omitempty" json:"orgMessage,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// CanTransitionTo reports whether the participation may move to the target
// status. Re-applying the current status is allowed (idempotent no-op);
// accepted and rejected are otherwise terminal.
func (p *Participation) CanTransitionTo(target ParticipationStatus) bool {
	if !target.IsSettable() {
		return false
	}
	if p.Status == target {
		return true
	}
	return !p.Status.IsTerminal()
}

// ParticipantView is a participation joined with the volunteer's public
// profile, as returned to the activity's organizer.
type ParticipantView struct {
	Participation `bson:",inline"`
	Volunteer     *PublicProfile `json:"volunteer,omitempty"`
}
