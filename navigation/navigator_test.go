package navigation_test

import (
	"testing"

	"github.com/jrsteele09/go-course-client/navigation"
	"github.com/stretchr/testify/require"
)

func TestHistory(t *testing.T) {
	h := navigation.NewHistory("")
	require.Equal(t, navigation.RouteRoot, h.CurrentPath())

	h.Navigate(navigation.RouteLogin)
	h.Replace(navigation.RouteDashboard)
	require.Equal(t, navigation.RouteDashboard, h.CurrentPath())
	require.Equal(t, []string{"/", "/dashboard"}, h.Entries())
}
