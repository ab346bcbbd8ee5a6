package sessions_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-course-client/sessions"
	"github.com/jrsteele09/go-course-client/users"
)

func TestDecideRedirect(t *testing.T) {
	admin := &users.User{Username: "a", Role: users.RoleAdmin}
	instructor := &users.User{Username: "i", Profile: &users.Profile{Role: users.RoleInstructor}}
	student := &users.User{Username: "s", Role: users.RoleStudent}

	tests := []struct {
		name     string
		prev     *users.User
		next     *users.User
		loading  bool
		path     string
		want     string
		redirect bool
	}{
		{"admin from login", nil, admin, false, "/login", "/admin", true},
		{"instructor from root", nil, instructor, false, "/", "/admin", true},
		{"student from register", nil, student, false, "/register", "/dashboard", true},
		{"invitation page", nil, student, false, "/accept-invitation", "/dashboard", true},
		{"invitation token page", nil, admin, false, "/accept-invitation/abc123", "/admin", true},
		{"still loading", nil, admin, true, "/login", "", false},
		{"already signed in", student, admin, false, "/login", "", false},
		{"signed out", student, nil, false, "/login", "", false},
		{"no user", nil, nil, false, "/login", "", false},
		{"other page", nil, admin, false, "/courses/3", "", false},
		{"lookalike page", nil, admin, false, "/accept-invitations", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := sessions.DecideRedirect(tt.prev, tt.next, tt.loading, tt.path)
			require.Equal(t, tt.redirect, ok)
			require.Equal(t, tt.want, got)
		})
	}
}
