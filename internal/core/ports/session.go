package ports

import (
	"context"

	"github.com/lumicart/storefront-cache/internal/core/domain/account"
)

// CredentialStore holds the bearer credential. It lives in the same
// physical device as the cache but outside the versioned cache
// namespace: wiping the cache and deleting the credential are two
// distinct steps of the session state machine.
type CredentialStore interface {
	// Token returns the stored credential. ok=false when anonymous.
	Token(ctx context.Context) (token string, ok bool)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// SessionManager ties cache lifecycle to authentication state.
type SessionManager interface {
	// Bootstrap runs once at process start: purges foreign-version
	// cache entries and, if the stored credential is already expired,
	// wipes cache and credential before any hydration.
	Bootstrap(ctx context.Context)
	// Hydrate resolves the current identity. With a cached profile it
	// returns instantly and revalidates in the background; otherwise it
	// fetches synchronously.
	Hydrate(ctx context.Context) (*account.UserProfile, error)
	Login(ctx context.Context, req *account.LoginRequest) (*account.UserProfile, error)
	Signup(ctx context.Context, req *account.SignupRequest) (*account.UserProfile, error)
	// Logout deletes the credential and wipes the entire namespaced
	// cache, then moves to Anonymous.
	Logout(ctx context.Context)
	UpdateProfile(ctx context.Context, req *account.UpdateProfileRequest) (*account.UserProfile, error)
	State() account.SessionState
	Profile() *account.UserProfile
}
