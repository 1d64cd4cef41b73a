// Package state holds the session-wide client state: the signed-in user,
// the current page and the notification bus shared by every screen.
package state

import (
	"sync"

	"github.com/elclub/papyrus/internal/notify"
)

// HomePage is where a session starts and where Logout returns to.
const HomePage = "home"

// User is the profile the backend returns for the signed-in account.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// UserFromMap builds a User from a decoded profile object. Missing fields
// stay zero.
func UserFromMap(m map[string]any) User {
	var u User
	switch id := m["id"].(type) {
	case float64:
		u.ID = int64(id)
	case int64:
		u.ID = id
	case int:
		u.ID = int64(id)
	}
	u.Username, _ = m["username"].(string)
	u.FullName, _ = m["full_name"].(string)
	u.Email, _ = m["email"].(string)
	u.Role, _ = m["role"].(string)
	return u
}

// Store is passed to the UI explicitly; there is no package-level instance.
type Store struct {
	mu   sync.RWMutex
	user *User
	page string
	bus  *notify.Bus
}

// New returns a Store on the home page. A nil bus gets a default one.
func New(bus *notify.Bus) *Store {
	if bus == nil {
		bus = notify.NewBus()
	}
	return &Store{page: HomePage, bus: bus}
}

func (s *Store) SetUser(u User) {
	s.mu.Lock()
	s.user = &u
	s.mu.Unlock()
}

// Logout forgets the user and goes back to the home page.
func (s *Store) Logout() {
	s.mu.Lock()
	s.user = nil
	s.page = HomePage
	s.mu.Unlock()
}

func (s *Store) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

func (s *Store) IsAuthenticated() bool {
	_, ok := s.User()
	return ok
}

// Role is the signed-in user's role, or "" when nobody is signed in.
func (s *Store) Role() string {
	u, _ := s.User()
	return u.Role
}

func (s *Store) SetCurrentPage(page string) {
	if page == "" {
		page = HomePage
	}
	s.mu.Lock()
	s.page = page
	s.mu.Unlock()
}

func (s *Store) CurrentPage() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

func (s *Store) Bus() *notify.Bus { return s.bus }

func (s *Store) Notify(message string, severity notify.Severity) notify.Notification {
	return s.bus.Push(message, severity)
}

func (s *Store) Notifications() []notify.Notification { return s.bus.Notifications() }

func (s *Store) SetLoading(loading bool) { s.bus.SetLoading(loading) }

func (s *Store) Loading() bool { return s.bus.Loading() }
