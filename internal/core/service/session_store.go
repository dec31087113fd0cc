package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/catalogo/storefront-client/internal/core/domain"
	"github.com/catalogo/storefront-client/internal/core/ports"
	"github.com/catalogo/storefront-client/internal/infrastructure/metrics"
)

// Storage keys shared with earlier releases of the client.
const (
	KeyToken = "auth_token"
	KeyUser  = "user_data"
	KeyTheme = "app_theme"
)

// SessionStore is the single owner of "is a user logged in, and as whom".
// It is created by the application root and handed to the request pipeline
// (as TokenSource and invalidation callback) and to front ends.
//
// Mutating operations are serialised by opMu so two logins never interleave
// their storage writes; readers only take mu.
type SessionStore struct {
	kv  ports.KVStore
	log zerolog.Logger

	opMu sync.Mutex

	mu    sync.RWMutex
	state domain.SessionState
	token string

	subMu   sync.Mutex
	subs    map[int]chan domain.SessionState
	nextSub int
}

var _ ports.SessionManager = (*SessionStore)(nil)

// NewSessionStore returns a store in the unauthenticated state. Call Restore
// before the first front-end render.
func NewSessionStore(kv ports.KVStore, log zerolog.Logger) *SessionStore {
	return &SessionStore{
		kv:    kv,
		log:   log.With().Str("component", "session").Logger(),
		state: domain.Unauthenticated(),
		subs:  make(map[int]chan domain.SessionState),
	}
}

// Restore loads the persisted session. Anything short of a token plus a
// complete profile yields unauthenticated and the leftovers are purged.
// Storage and decode failures are logged, never returned.
func (s *SessionStore) Restore(ctx context.Context) domain.SessionState {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	token, hasToken, err := s.kv.Get(ctx, KeyToken)
	if err != nil {
		s.log.Warn().Err(err).Msg("restore: read token failed")
		return s.clear(ctx, "restore")
	}
	raw, hasUser, err := s.kv.Get(ctx, KeyUser)
	if err != nil {
		s.log.Warn().Err(err).Msg("restore: read profile failed")
		return s.clear(ctx, "restore")
	}

	hasToken = hasToken && strings.TrimSpace(token) != ""
	hasUser = hasUser && strings.TrimSpace(raw) != ""

	s.log.Debug().Bool("has_token", hasToken).Bool("has_user", hasUser).Msg("restoring session")

	if !hasToken && !hasUser {
		return s.publish(domain.Unauthenticated(), "", "restore")
	}
	if !hasToken || !hasUser {
		s.log.Info().Bool("has_token", hasToken).Bool("has_user", hasUser).Msg("partial session discarded")
		return s.clear(ctx, "restore")
	}

	var stored domain.User
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.log.Warn().Err(err).Msg("stored profile is not valid JSON, discarding session")
		return s.clear(ctx, "restore")
	}
	profile, err := stored.Clean()
	if err != nil {
		s.log.Warn().Err(err).Msg("stored profile incomplete, discarding session")
		return s.clear(ctx, "restore")
	}

	s.log.Info().Str("username", profile.Username).Str("role", string(profile.Role)).Msg("session restored")
	return s.publish(domain.Authenticated(profile), token, "restore")
}

// Login validates and persists a new session. The token is written first,
// then the profile; observers only learn about the session after both writes
// succeeded. If a write fails the store is purged and left unauthenticated.
func (s *SessionStore) Login(ctx context.Context, profile *domain.User, token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("login: %w: %w", domain.ErrValidation, domain.ErrMissingToken)
	}
	clean, err := profile.Clean()
	if err != nil {
		return fmt.Errorf("login: %w: %w", domain.ErrValidation, err)
	}
	raw, err := json.Marshal(clean)
	if err != nil {
		return fmt.Errorf("login: encode profile: %w", err)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.kv.Set(ctx, KeyToken, token); err != nil {
		s.clear(ctx, "login")
		return fmt.Errorf("login: persist token: %w", err)
	}
	if err := s.kv.Set(ctx, KeyUser, string(raw)); err != nil {
		s.clear(ctx, "login")
		return fmt.Errorf("login: persist profile: %w", err)
	}

	s.log.Info().Str("username", clean.Username).Str("role", string(clean.Role)).Msg("logged in")
	s.publish(domain.Authenticated(clean), token, "login")
	return nil
}

// Logout removes the persisted session. The in-memory state is cleared even
// when storage removal fails, so a front end is never stuck logged in.
func (s *SessionStore) Logout(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.clear(ctx, "logout")
	s.log.Info().Msg("logged out")
}

// ForceClear is the transition taken when the server rejects the session.
func (s *SessionStore) ForceClear(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.clear(ctx, "forced_clear")
	s.log.Warn().Msg("session cleared after authentication was rejected")
}

// Invalidate is the request pipeline's callback for a 401. A rejection of a
// token other than the current one (a response that raced a fresh login) is
// ignored; an empty rejected token always clears.
func (s *SessionStore) Invalidate(ctx context.Context, rejectedToken string) {
	if rejectedToken != "" && rejectedToken != s.Token(ctx) {
		s.log.Debug().Msg("ignoring rejection of a superseded token")
		return
	}
	s.ForceClear(ctx)
}

// Token implements ports.TokenSource.
func (s *SessionStore) Token(_ context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// State returns a snapshot safe for the caller to keep.
func (s *SessionStore) State() domain.SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot(s.state)
}

// Subscribe returns a channel that receives every state published after the
// call, conflated to the latest value when the reader lags behind, and a
// cancel func that closes the channel.
func (s *SessionStore) Subscribe() (<-chan domain.SessionState, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan domain.SessionState, 1)
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// clear removes both keys, swallowing storage errors, and publishes
// unauthenticated. Callers hold opMu.
func (s *SessionStore) clear(ctx context.Context, cause string) domain.SessionState {
	if err := s.kv.Remove(ctx, KeyToken, KeyUser); err != nil {
		s.log.Warn().Err(err).Str("cause", cause).Msg("failed to remove persisted session, clearing local state anyway")
	}
	return s.publish(domain.Unauthenticated(), "", cause)
}

// publish swaps the in-memory state and notifies subscribers without ever
// blocking on a slow reader. Callers hold opMu, which keeps notifications in
// transition order.
func (s *SessionStore) publish(next domain.SessionState, token, cause string) domain.SessionState {
	s.mu.Lock()
	s.state = next
	s.token = token
	s.mu.Unlock()

	metrics.SessionTransitionsTotal.WithLabelValues(string(next.Status), cause).Inc()

	s.subMu.Lock()
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot(next):
		default:
		}
	}
	s.subMu.Unlock()

	return snapshot(next)
}

func snapshot(st domain.SessionState) domain.SessionState {
	if st.User == nil {
		return st
	}
	u := *st.User
	st.User = &u
	return st
}
