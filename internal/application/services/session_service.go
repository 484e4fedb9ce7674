package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"

	config "github.com/lumicart/storefront-cache/configs"
	"github.com/lumicart/storefront-cache/internal/core/domain/account"
	"github.com/lumicart/storefront-cache/internal/core/ports"
)

const whoAmIPath = "/users/me"

// SessionService ties cache lifecycle to authentication state and
// prevents cross-session data leakage on a shared device.
type SessionService struct {
	creds      ports.CredentialStore
	cache      ports.CacheManager
	api        ports.APIClient
	profileTTL time.Duration
	logger     *logrus.Logger
	now        func() time.Time

	mu      sync.RWMutex
	state   account.SessionState
	profile *account.UserProfile
}

func NewSessionService(creds ports.CredentialStore, cache ports.CacheManager, api ports.APIClient, cfg *config.CacheConfig, logger *logrus.Logger) *SessionService {
	ttl := cfg.TTLMedium
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SessionService{
		creds:      creds,
		cache:      cache,
		api:        api,
		profileTTL: ttl,
		logger:     logger,
		now:        time.Now,
		state:      account.StateAnonymous,
	}
}

// WithClock replaces the time source used for credential expiry checks.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	s.now = now
	return s
}

// Bootstrap runs once at process start: purge foreign-version cache
// entries, then wipe cache and credential up front when the stored
// token's embedded expiry is already past, so hydration never kicks off
// a guaranteed-failing revalidation.
func (s *SessionService) Bootstrap(ctx context.Context) {
	s.cache.ClearOldVersions(ctx)

	token, ok := s.creds.Token(ctx)
	if !ok {
		s.setSession(account.StateAnonymous, nil)
		return
	}
	if s.tokenExpired(token) {
		if s.logger != nil {
			s.logger.Info("stored credential already expired, clearing session")
		}
		s.teardown(ctx, true)
	}
}

// Hydrate resolves the current identity. With a cached profile the
// caller gets it instantly and a background "who am I" check runs
// concurrently; without one the fetch is synchronous.
func (s *SessionService) Hydrate(ctx context.Context) (*account.UserProfile, error) {
	if _, ok := s.creds.Token(ctx); !ok {
		s.setSession(account.StateAnonymous, nil)
		return nil, nil
	}

	if profile, _, ok := LookupAs[account.UserProfile](ctx, s.cache, ports.KeyUserProfile); ok {
		s.setSession(account.StateAuthenticatedCached, profile)
		go s.refreshProfile()
		return profile, nil
	}

	s.setSession(account.StateAuthenticatedUncached, nil)
	profile, err := s.fetchProfile(ctx)
	if err != nil {
		if ports.IsAuthFailure(err) {
			s.teardown(ctx, false)
			return nil, err
		}
		// Connectivity failure: keep the credential and stay uncached.
		return nil, err
	}
	s.cache.Set(ctx, ports.KeyUserProfile, profile, s.profileTTL)
	s.setSession(account.StateAuthenticatedCached, profile)
	return profile, nil
}

// Login exchanges credentials for a bearer token and hydrates the
// profile cache directly from the response, skipping a second round trip.
func (s *SessionService) Login(ctx context.Context, req *account.LoginRequest) (*account.UserProfile, error) {
	return s.authenticate(ctx, "/auth/login", req)
}

// Signup registers an account; on success the session behaves exactly
// like a fresh login.
func (s *SessionService) Signup(ctx context.Context, req *account.SignupRequest) (*account.UserProfile, error) {
	return s.authenticate(ctx, "/auth/signup", req)
}

func (s *SessionService) authenticate(ctx context.Context, path string, req any) (*account.UserProfile, error) {
	raw, err := s.api.Post(ctx, path, req)
	if err != nil {
		return nil, err
	}
	var resp account.AuthResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode auth response: %w", err)
	}
	if err := s.creds.SetToken(ctx, resp.Token); err != nil {
		// The session still works from memory; it just won't survive
		// the process.
		if s.logger != nil {
			s.logger.WithError(err).Warn("failed to persist credential")
		}
	}
	s.cache.Set(ctx, ports.KeyUserProfile, resp.User, s.profileTTL)
	s.setSession(account.StateAuthenticatedCached, &resp.User)
	return &resp.User, nil
}

// Logout deletes the credential and wipes the entire namespaced cache,
// so no residual authenticated data remains for the next user.
func (s *SessionService) Logout(ctx context.Context) {
	if err := s.creds.ClearToken(ctx); err != nil && s.logger != nil {
		s.logger.WithError(err).Warn("failed to clear credential on logout")
	}
	s.cache.ClearAll(ctx)
	s.setSession(account.StateAnonymous, nil)
}

// UpdateProfile writes profile edits through: the cache is updated from
// the mutation response immediately rather than marked stale.
func (s *SessionService) UpdateProfile(ctx context.Context, req *account.UpdateProfileRequest) (*account.UserProfile, error) {
	raw, err := s.api.Put(ctx, whoAmIPath, req)
	if err != nil {
		if ports.IsAuthFailure(err) {
			s.teardown(ctx, false)
		}
		return nil, err
	}
	var profile account.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}
	s.cache.Set(ctx, ports.KeyUserProfile, profile, s.profileTTL)
	s.setSession(account.StateAuthenticatedCached, &profile)
	return &profile, nil
}

func (s *SessionService) State() account.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *SessionService) Profile() *account.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// refreshProfile is the background "who am I" revalidation behind
// cached hydration. An authorization failure tears the session down; a
// connectivity failure keeps serving the cached identity, since stale
// data beats a forced logout on transient network loss.
func (s *SessionService) refreshProfile() {
	ctx := context.Background()
	profile, err := s.fetchProfile(ctx)
	if err != nil {
		if ports.IsAuthFailure(err) {
			if s.logger != nil {
				s.logger.Info("credential rejected during background check, clearing session")
			}
			s.teardown(ctx, false)
			return
		}
		if s.logger != nil {
			s.logger.WithError(err).Warn("background identity check failed, keeping cached session")
		}
		return
	}
	s.cache.Set(ctx, ports.KeyUserProfile, profile, s.profileTTL)
	s.setSession(account.StateAuthenticatedCached, profile)
}

func (s *SessionService) fetchProfile(ctx context.Context) (*account.UserProfile, error) {
	raw, err := s.api.Get(ctx, whoAmIPath, nil)
	if err != nil {
		return nil, err
	}
	var profile account.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile response: %w", err)
	}
	return &profile, nil
}

// teardown moves to Anonymous: delete the credential and drop the
// identity/cart entries. wipeAll additionally clears the whole
// namespace (expired-credential bootstrap path).
func (s *SessionService) teardown(ctx context.Context, wipeAll bool) {
	if err := s.creds.ClearToken(ctx); err != nil && s.logger != nil {
		s.logger.WithError(err).Warn("failed to clear credential")
	}
	if wipeAll {
		s.cache.ClearAll(ctx)
	} else {
		s.cache.Remove(ctx, ports.KeyUserProfile)
		s.cache.Remove(ctx, ports.KeyCart)
		s.cache.Remove(ctx, ports.KeyCartCount)
	}
	s.setSession(account.StateAnonymous, nil)
}

func (s *SessionService) setSession(state account.SessionState, profile *account.UserProfile) {
	s.mu.Lock()
	s.state = state
	s.profile = profile
	s.mu.Unlock()
}

// tokenExpired peeks at the credential's embedded expiry without
// verifying the signature: the client holds no signing key. Tokens that
// are not self-describing are left for the server to judge.
func (s *SessionService) tokenExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return s.now().After(exp.Time)
}
