package domain

import (
	"fmt"
	"strings"
)

// User is the profile persisted next to the session token.
type User struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     Role   `json:"role"`
	UserID   int64  `json:"userId,omitempty"`
}

// Validate checks the fields a session cannot exist without.
func (u *User) Validate() error {
	if u == nil {
		return fmt.Errorf("%w: missing profile", ErrInvalidProfile)
	}
	if strings.TrimSpace(u.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidProfile)
	}
	if !u.Role.Valid() {
		return fmt.Errorf("%w: role %q is not recognised", ErrInvalidProfile, u.Role)
	}
	return nil
}

// Clean returns a copy holding only the persisted fields, with the role
// normalised. It fails when the role cannot be normalised.
func (u *User) Clean() (*User, error) {
	if u == nil {
		return nil, fmt.Errorf("%w: missing profile", ErrInvalidProfile)
	}
	role, err := ParseRole(string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	clean := &User{
		Username: strings.TrimSpace(u.Username),
		Email:    strings.TrimSpace(u.Email),
		Role:     role,
		UserID:   u.UserID,
	}
	if err := clean.Validate(); err != nil {
		return nil, err
	}
	return clean, nil
}

// AuthResult is the body returned by the login and register endpoints.
type AuthResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	UserID   int64  `json:"userId"`
	ID       int64  `json:"id,omitempty"`
}

// Profile converts the wire payload into a normalised User.
func (r AuthResult) Profile() (*User, error) {
	id := r.UserID
	if id == 0 {
		id = r.ID
	}
	u := &User{Username: r.Username, Email: r.Email, Role: Role(r.Role), UserID: id}
	return u.Clean()
}
