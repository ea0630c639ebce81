package auth

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
)

// sessionName is the login cookie. One cookie carries both the user
// identity and the admin flag, as the frontend expects.
const sessionName = "aseed_session"

// Identity is what the signed cookie asserts about the caller. Zero
// values mean anonymous.
type Identity struct {
	UserID      string
	DisplayName string
	Admin       bool
}

// Manager wraps the signed cookie session carrying login state.
type Manager struct {
	store *sessions.CookieStore
}

// NewManager builds a cookie manager signing with the given secret.
func NewManager(secret string) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Manager{store: store}
}

// Identity reads the caller's identity from the request cookie. A
// missing or tampered cookie simply reads as anonymous.
func (m *Manager) Identity(r *http.Request) Identity {
	session, _ := m.store.Get(r, sessionName)

	var id Identity
	if v, ok := session.Values["user_id"].(string); ok {
		id.UserID = v
	}
	if v, ok := session.Values["display_name"].(string); ok {
		id.DisplayName = v
	}
	if v, ok := session.Values["admin"].(bool); ok {
		id.Admin = v
	}
	return id
}

// SignIn records the user identity in the cookie.
func (m *Manager) SignIn(w http.ResponseWriter, r *http.Request, userID, displayName string) error {
	session, _ := m.store.Get(r, sessionName)
	session.Values["user_id"] = userID
	session.Values["display_name"] = displayName
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("saving login cookie: %w", err)
	}
	return nil
}

// SignOut clears the user identity but leaves an admin flag intact, so
// an admin reviewing a user account stays logged into the dashboard.
func (m *Manager) SignOut(w http.ResponseWriter, r *http.Request) error {
	session, _ := m.store.Get(r, sessionName)
	delete(session.Values, "user_id")
	delete(session.Values, "display_name")
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("clearing login cookie: %w", err)
	}
	return nil
}

// SetAdmin toggles the admin flag on the cookie.
func (m *Manager) SetAdmin(w http.ResponseWriter, r *http.Request, admin bool) error {
	session, _ := m.store.Get(r, sessionName)
	if admin {
		session.Values["admin"] = true
	} else {
		delete(session.Values, "admin")
	}
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("saving admin cookie: %w", err)
	}
	return nil
}
