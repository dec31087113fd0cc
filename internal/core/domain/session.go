package domain

// SessionStatus is the two-state machine driving which UI root is shown.
type SessionStatus string

const (
	StatusUnauthenticated SessionStatus = "unauthenticated"
	StatusAuthenticated   SessionStatus = "authenticated"
)

// SessionState is a snapshot of the session store. User is nil unless
// Status is StatusAuthenticated.
type SessionState struct {
	Status SessionStatus
	User   *User
}

func Unauthenticated() SessionState {
	return SessionState{Status: StatusUnauthenticated}
}

// Authenticated returns a state holding a private copy of u.
func Authenticated(u *User) SessionState {
	clone := *u
	return SessionState{Status: StatusAuthenticated, User: &clone}
}

func (s SessionState) IsAuthenticated() bool {
	return s.Status == StatusAuthenticated && s.User != nil
}

// IsAdmin reports whether the state belongs to an administrator.
func (s SessionState) IsAdmin() bool {
	return s.IsAuthenticated() && s.User.Role.IsAdmin()
}
