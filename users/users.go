package users

import "strings"

// RoleType represents the platform role reported by the backend
type RoleType string

const (
	RoleStudent    RoleType = "student"
	RoleInstructor RoleType = "instructor"
	RoleAdmin      RoleType = "admin"
	RoleMentor     RoleType = "mentor" // Legacy name for instructor, still returned by older accounts
)

// Profile is the nested profile object some backends return the role under.
type Profile struct {
	Role RoleType `json:"role,omitempty"`
	Bio  string   `json:"bio,omitempty"`
}

type User struct {
	ID        int64    `json:"id,omitempty"`         // Backend identifier
	Username  string   `json:"username,omitempty"`   // Unique username
	Email     string   `json:"email,omitempty"`      // User's email address
	FirstName string   `json:"first_name,omitempty"` // First name of the user
	LastName  string   `json:"last_name,omitempty"`  // Last name of the user
	Role      RoleType `json:"role,omitempty"`       // Role, when reported at the top level
	Profile   *Profile `json:"profile,omitempty"`    // Profile, when the role is nested
	Verified  bool     `json:"is_verified,omitempty"`
}

// EffectiveRole returns the user's role, preferring the top level field and defaulting to student.
func (u *User) EffectiveRole() RoleType {
	if u == nil {
		return RoleStudent
	}
	role := u.Role
	if role == "" && u.Profile != nil {
		role = u.Profile.Role
	}
	if role == "" {
		return RoleStudent
	}
	return RoleType(strings.ToLower(string(role)))
}

// IsStaff returns true for roles that author courses and use the admin area
func (u *User) IsStaff() bool {
	switch u.EffectiveRole() {
	case RoleAdmin, RoleInstructor, RoleMentor:
		return true
	}
	return false
}

// DisplayName returns the full name when known, otherwise the username
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	return u.Username
}
