// Package navigation abstracts the application's location so session and API code can
// redirect without depending on a UI framework.
package navigation

import "sync"

// Route paths the core navigates to.
const (
	RouteRoot             = "/"
	RouteLogin            = "/login"
	RouteRegister         = "/register"
	RouteAcceptInvitation = "/accept-invitation"
	RouteDashboard        = "/dashboard"
	RouteAdmin            = "/admin"
)

type Navigator interface {
	// Navigate pushes path onto the history.
	Navigate(path string)
	// Replace swaps the current location for path.
	Replace(path string)
	CurrentPath() string
}

// History is an in-memory Navigator that records every transition.
type History struct {
	entries []string
	lock    sync.RWMutex
}

var _ Navigator = (*History)(nil)

func NewHistory(start string) *History {
	if start == "" {
		start = RouteRoot
	}
	return &History{entries: []string{start}}
}

func (h *History) Navigate(path string) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.entries = append(h.entries, path)
}

func (h *History) Replace(path string) {
	h.lock.Lock()
	defer h.lock.Unlock()
	h.entries[len(h.entries)-1] = path
}

func (h *History) CurrentPath() string {
	h.lock.RLock()
	defer h.lock.RUnlock()
	return h.entries[len(h.entries)-1]
}

// Entries returns a copy of the recorded locations, oldest first.
func (h *History) Entries() []string {
	h.lock.RLock()
	defer h.lock.RUnlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}
