package account

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the identity snapshot returned by the "who am I"
// endpoint and by login/signup responses.
type UserProfile struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionState tracks where the client sits in the session lifecycle.
type SessionState string

const (
	// StateAnonymous: no stored credential; identity/cart cache entries
	// are absent or ignored.
	StateAnonymous SessionState = "anonymous"
	// StateAuthenticatedCached: credential and cached profile both
	// present; the UI hydrates instantly while a background check runs.
	StateAuthenticatedCached SessionState = "authenticated_cached"
	// StateAuthenticatedUncached: credential present but no cached
	// profile; the profile fetch is synchronous.
	StateAuthenticatedUncached SessionState = "authenticated_uncached"
)

func (s SessionState) String() string {
	return string(s)
}

// LoginRequest represents the login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest represents the signup request
type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// AuthResponse is the login/signup response: a bearer credential plus
// the profile snapshot, so no extra round trip is needed to hydrate.
type AuthResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// UpdateProfileRequest carries partial profile edits.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}
