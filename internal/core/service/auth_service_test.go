package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/catalogo/storefront-client/internal/core/domain"
	"github.com/catalogo/storefront-client/internal/core/ports"
	"github.com/catalogo/storefront-client/internal/infrastructure/storage/memory"
)

func newAuthFixture(t *testing.T, api *stubAPI) (*AuthService, *SessionStore, *memory.Store) {
	t.Helper()
	kv := memory.New()
	session := newSessionStore(kv)
	return NewAuthService(api, session, zerolog.Nop()), session, kv
}

func TestAuthService_Login_Success(t *testing.T) {
	api := &stubAPI{}
	api.handle = respondJSON(t, domain.AuthResult{Token: "jwt-1", Username: "ana", Email: "ana@example.com", Role: "ROLE_ADMIN", ID: 4})
	svc, session, kv := newAuthFixture(t, api)

	user, err := svc.Login(context.Background(), " ana ", "secret1")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.Role != domain.RoleAdmin || user.UserID != 4 {
		t.Fatalf("unexpected profile %+v", user)
	}

	req := api.last(t)
	if req.Method != http.MethodPost || req.Path != "/auth/login" || !req.SkipAuth {
		t.Fatalf("unexpected request %+v", req)
	}
	if creds := jsonBodyOf(t, req).(credentials); creds.Username != "ana" || creds.Password != "secret1" {
		t.Fatalf("unexpected credentials %+v", creds)
	}

	st := session.State()
	if !st.IsAuthenticated() || !st.IsAdmin() {
		t.Fatalf("expected admin session, got %+v", st)
	}
	if kv.Value(KeyToken) != "jwt-1" {
		t.Fatalf("token not persisted, got %q", kv.Value(KeyToken))
	}
}

func TestAuthService_Login_RequiresCredentials(t *testing.T) {
	api := &stubAPI{}
	svc, _, _ := newAuthFixture(t, api)

	for _, tc := range []struct{ user, pass string }{{"", "x"}, {"ana", ""}, {"   ", "x"}} {
		if _, err := svc.Login(context.Background(), tc.user, tc.pass); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("Login(%q,%q): expected ErrValidation, got %v", tc.user, tc.pass, err)
		}
	}
	if n := len(api.requests()); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
}

func TestAuthService_Login_MissingToken(t *testing.T) {
	api := &stubAPI{}
	api.handle = respondJSON(t, domain.AuthResult{Username: "ana", Role: "USER"})
	svc, session, _ := newAuthFixture(t, api)

	_, err := svc.Login(context.Background(), "ana", "secret1")
	if !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if session.State().IsAuthenticated() {
		t.Fatal("session must stay unauthenticated")
	}
}

func TestAuthService_Login_ServerErrorPropagates(t *testing.T) {
	apiErr := &domain.APIError{Status: 400, Message: "Bad credentials", Kind: domain.ErrServer}
	api := &stubAPI{handle: respondErr(apiErr)}
	svc, session, _ := newAuthFixture(t, api)

	_, err := svc.Login(context.Background(), "ana", "wrong")
	if domain.UserMessage(err) != "Bad credentials" {
		t.Fatalf("expected server message, got %v", err)
	}
	if session.State().IsAuthenticated() {
		t.Fatal("session must stay unauthenticated")
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	api := &stubAPI{}
	svc, _, _ := newAuthFixture(t, api)

	tests := []struct {
		name string
		in   ports.RegisterInput
	}{
		{"short username", ports.RegisterInput{Username: "ab", Email: "a@b.co", Password: "secret1", Role: "USER"}},
		{"bad email", ports.RegisterInput{Username: "abc", Email: "nope", Password: "secret1", Role: "USER"}},
		{"short password", ports.RegisterInput{Username: "abc", Email: "a@b.co", Password: "123", Role: "USER"}},
		{"unknown role", ports.RegisterInput{Username: "abc", Email: "a@b.co", Password: "secret1", Role: "OWNER"}},
		{"admin without code", ports.RegisterInput{Username: "abc", Email: "a@b.co", Password: "secret1", Role: "ROLE_ADMIN"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Register(context.Background(), tt.in); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
	if n := len(api.requests()); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
}

func TestAuthService_Register_StartsSession(t *testing.T) {
	api := &stubAPI{}
	api.handle = respondJSON(t, domain.AuthResult{Token: "jwt-2", Username: "bob", Email: "bob@example.com", Role: "ROLE_USER", UserID: 9})
	svc, session, _ := newAuthFixture(t, api)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "bob", Email: "bob@example.com", Password: "secret1", Role: "user",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("unexpected role %q", user.Role)
	}
	sent := jsonBodyOf(t, api.last(t)).(ports.RegisterInput)
	if sent.Role != "USER" {
		t.Fatalf("role should be sent canonical, got %q", sent.Role)
	}
	if st := session.State(); !st.IsAuthenticated() || st.User.Username != "bob" {
		t.Fatalf("expected session for bob, got %+v", st)
	}
}

func TestAuthService_ValidateToken(t *testing.T) {
	t.Run("no token skips request", func(t *testing.T) {
		api := &stubAPI{}
		svc, _, _ := newAuthFixture(t, api)

		ok, err := svc.ValidateToken(context.Background())
		if ok || err != nil {
			t.Fatalf("expected false,nil got %v,%v", ok, err)
		}
		if len(api.requests()) != 0 {
			t.Fatal("expected no request")
		}
	})

	t.Run("sends stored token", func(t *testing.T) {
		api := &stubAPI{}
		svc, session, _ := newAuthFixture(t, api)
		if err := session.Login(context.Background(), &domain.User{Username: "ana", Role: domain.RoleUser}, "tok-9"); err != nil {
			t.Fatalf("Login: %v", err)
		}
		api.handle = respondJSON(t, map[string]bool{"valid": true})

		ok, err := svc.ValidateToken(context.Background())
		if !ok || err != nil {
			t.Fatalf("expected true,nil got %v,%v", ok, err)
		}
		req := api.last(t)
		if req.Path != "/auth/validate-token" || req.Headers.Get("Authorization") != "Bearer tok-9" {
			t.Fatalf("unexpected request %+v", req)
		}
	})
}

func TestAuthService_ForgotPassword(t *testing.T) {
	api := &stubAPI{}
	svc, _, _ := newAuthFixture(t, api)

	if err := svc.ForgotPassword(context.Background(), "not-an-email"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err := svc.ForgotPassword(context.Background(), "ana@example.com"); err != nil {
		t.Fatalf("ForgotPassword returned error: %v", err)
	}
	req := api.last(t)
	if req.Path != "/auth/forgot-password" || !req.SkipAuth {
		t.Fatalf("unexpected request %+v", req)
	}
}

func TestAuthService_Logout(t *testing.T) {
	api := &stubAPI{}
	svc, session, kv := newAuthFixture(t, api)
	if err := session.Login(context.Background(), &domain.User{Username: "ana", Role: domain.RoleUser}, "tok"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	svc.Logout(context.Background())
	if session.State().IsAuthenticated() {
		t.Fatal("expected unauthenticated after logout")
	}
	assertCleared(t, kv)
}
