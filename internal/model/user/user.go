package user

// User is an account as exposed to handlers. The password hash stays
// inside the store and never crosses this boundary.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Store exposes account registration and lookup for HTTP handlers.
type Store interface {
	Register(username, displayName, password string) (User, error)
	Authenticate(username, password string) (User, bool)
	FindByID(username string) (User, bool)
}
