package users_test

import (
	"encoding/json"
	"testing"

	"github.com/jrsteele09/go-course-client/users"
	"github.com/stretchr/testify/require"
)

func TestEffectiveRole(t *testing.T) {
	tests := []struct {
		name string
		user *users.User
		want users.RoleType
	}{
		{"nil user", nil, users.RoleStudent},
		{"no role", &users.User{Username: "amy"}, users.RoleStudent},
		{"top level", &users.User{Role: users.RoleAdmin}, users.RoleAdmin},
		{"nested profile", &users.User{Profile: &users.Profile{Role: users.RoleInstructor}}, users.RoleInstructor},
		{"top level wins", &users.User{Role: users.RoleStudent, Profile: &users.Profile{Role: users.RoleAdmin}}, users.RoleStudent},
		{"case folded", &users.User{Role: "ADMIN"}, users.RoleAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.user.EffectiveRole())
		})
	}
}

func TestIsStaff(t *testing.T) {
	require.True(t, (&users.User{Role: users.RoleAdmin}).IsStaff())
	require.True(t, (&users.User{Role: users.RoleInstructor}).IsStaff())
	require.True(t, (&users.User{Profile: &users.Profile{Role: users.RoleMentor}}).IsStaff())
	require.False(t, (&users.User{Role: users.RoleStudent}).IsStaff())
	require.False(t, (&users.User{}).IsStaff())
}

func TestDecodeNestedProfile(t *testing.T) {
	var u users.User
	err := json.Unmarshal([]byte(`{"id":3,"username":"jo","email":"jo@example.com","profile":{"role":"instructor"}}`), &u)
	require.NoError(t, err)
	require.Equal(t, users.RoleInstructor, u.EffectiveRole())
	require.Equal(t, "jo", u.DisplayName())
}
