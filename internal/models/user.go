package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bookmark is a saved reference to a project or organization listing,
// embedded under the owning user. ProjectID is unique within one user's list.
type Bookmark struct {
	ProjectID string `bson:"project_id" json:"projectId" validate:"required"`
	Title     string `bson:"title" json:"title" validate:"required"`
	ImageURL  string `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name         string             `bson:"name" json:"name" validate:"required,min=2,max=100"`
	Email        string             `bson:"email" json:"email" validate:"required,email"`
	PasswordHash string             `bson:"password_hash" json:"-"`

	Role UserRole `bson:"role" json:"role"`
	Bio  string   `bson:"bio" json:"bio"`

	// Saved listings, insertion order preserved
	Bookmarks []Bookmark `bson:"bookmarks" json:"bookmarks"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// PublicProfile is the subset of a user shown to other callers, e.g. the
// volunteer info attached to a participation or an activity's organizer.
type PublicProfile struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
	Bio   string             `bson:"bio,omitempty" json:"bio,omitempty"`
}

// HasBookmark reports whether the user already saved the given project.
func (u *User) HasBookmark(projectID string) bool {
	for _, b := range u.Bookmarks {
		if b.ProjectID == projectID {
			return true
		}
	}
	return false
}

// Profile returns the user's public profile view.
func (u *User) Profile() PublicProfile {
	return PublicProfile{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Bio:   u.Bio,
	}
}
