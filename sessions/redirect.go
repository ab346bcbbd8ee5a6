package sessions

import (
	"strings"

	"github.com/jrsteele09/go-course-client/navigation"
	"github.com/jrsteele09/go-course-client/users"
)

// redirectPages are the only locations a fresh login redirects away from.
var redirectPages = []string{
	navigation.RouteRoot,
	navigation.RouteLogin,
	navigation.RouteRegister,
	navigation.RouteAcceptInvitation,
}

// DecideRedirect returns where to send the user after the current user changes from prevUser to
// nextUser. It fires only on a nil to non-nil transition, only once loading has finished, and only
// from an auth page; staff go to the admin area and everyone else to the dashboard.
func DecideRedirect(prevUser, nextUser *users.User, loading bool, currentPath string) (string, bool) {
	if prevUser != nil || nextUser == nil || loading {
		return "", false
	}
	if !isRedirectPage(currentPath) {
		return "", false
	}
	if nextUser.IsStaff() {
		return navigation.RouteAdmin, true
	}
	return navigation.RouteDashboard, true
}

func isRedirectPage(path string) bool {
	for _, page := range redirectPages {
		if path == page {
			return true
		}
	}
	return strings.HasPrefix(path, navigation.RouteAcceptInvitation+"/")
}
