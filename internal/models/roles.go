// internal/models/roles.go

package models

// UserRole is the closed set of caller roles. Operation boundaries dispatch
// on it exhaustively instead of comparing raw strings.
type UserRole string

const (
	RoleVolunteer    UserRole = "volunteer"
	RoleOrganization UserRole = "organization"
	RoleAdmin        UserRole = "admin"
)

// IsValid reports whether the role is one of the known roles.
func (r UserRole) IsValid() bool {
	switch r {
	case RoleVolunteer, RoleOrganization, RoleAdmin:
		return true
	}
	return false
}

// CanPostActivities reports whether the role may create and manage activities.
func (r UserRole) CanPostActivities() bool {
	return r == RoleOrganization
}

// CanJoinActivities reports whether the role may sign up for activities.
func (r UserRole) CanJoinActivities() bool {
	return r == RoleVolunteer
}

// String returns the string representation of the role.
func (r UserRole) String() string {
	return string(r)
}

// AllRoles returns the list of every known role.
func AllRoles() []UserRole {
	return []UserRole{
		RoleVolunteer,
		RoleOrganization,
		RoleAdmin,
	}
}

// RoleFromString converts a string into a UserRole, reporting validity.
func RoleFromString(role string) (UserRole, bool) {
	r := UserRole(role)
	if r.IsValid() {
		return r, true
	}
	return "", false
}
