package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/catalogo/storefront-client/internal/core/domain"
	"github.com/catalogo/storefront-client/internal/core/ports"
)

// AuthService talks to the auth endpoints and keeps the session store in
// step with their results.
type AuthService struct {
	api      ports.APIClient
	session  ports.SessionManager
	validate *inputValidator
	logger   zerolog.Logger
}

var _ ports.AuthService = (*AuthService)(nil)

func NewAuthService(api ports.APIClient, session ports.SessionManager, logger zerolog.Logger) *AuthService {
	return &AuthService{api: api, session: session, validate: newInputValidator(), logger: logger}
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token and starts a session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}

	resp, err := s.api.Do(ctx, ports.APIRequest{
		Method:   http.MethodPost,
		Path:     "/auth/login",
		Body:     ports.JSONBody{Value: credentials{Username: username, Password: password}},
		SkipAuth: true,
	})
	if err != nil {
		return nil, err
	}
	return s.startSession(ctx, resp)
}

// Register creates an account. When the server answers with a token the
// new account is logged in straight away.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if role, err := domain.ParseRole(in.Role); err == nil {
		in.Role = string(role)
	}
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}

	resp, err := s.api.Do(ctx, ports.APIRequest{
		Method:   http.MethodPost,
		Path:     "/auth/register",
		Body:     ports.JSONBody{Value: in},
		SkipAuth: true,
	})
	if err != nil {
		return nil, err
	}

	var res domain.AuthResult
	if err := resp.Decode(&res); err != nil {
		return nil, err
	}
	profile, err := res.Profile()
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if res.Token == "" {
		s.logger.Info().Str("username", profile.Username).Msg("registered without session")
		return profile, nil
	}
	if err := s.session.Login(ctx, profile, res.Token); err != nil {
		return nil, err
	}
	s.logger.Info().Str("username", profile.Username).Str("role", string(profile.Role)).Msg("registered")
	return profile, nil
}

func (s *AuthService) startSession(ctx context.Context, resp *ports.APIResponse) (*domain.User, error) {
	var res domain.AuthResult
	if err := resp.Decode(&res); err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, fmt.Errorf("login: %w: %w", domain.ErrServer, domain.ErrMissingToken)
	}
	profile, err := res.Profile()
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := s.session.Login(ctx, profile, res.Token); err != nil {
		return nil, err
	}
	s.logger.Info().Str("username", profile.Username).Str("role", string(profile.Role)).Msg("logged in")
	return profile, nil
}

type validateResponse struct {
	Valid bool `json:"valid"`
}

// ValidateToken asks the server whether the stored token is still good.
// With no token it answers false without a request. A rejected token
// clears the session through the pipeline's 401 handling.
func (s *AuthService) ValidateToken(ctx context.Context) (bool, error) {
	token := s.session.Token(ctx)
	if token == "" {
		return false, nil
	}
	resp, err := s.api.Do(ctx, ports.APIRequest{
		Method:  http.MethodPost,
		Path:    "/auth/validate-token",
		Body:    ports.JSONBody{Value: struct{}{}},
		Headers: http.Header{"Authorization": []string{"Bearer " + token}},
	})
	if err != nil {
		return false, err
	}
	var out validateResponse
	if err := resp.Decode(&out); err != nil {
		return false, err
	}
	return out.Valid, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if err := s.validate.Var("email", email, "required,email"); err != nil {
		return err
	}
	_, err := s.api.Do(ctx, ports.APIRequest{
		Method:   http.MethodPost,
		Path:     "/auth/forgot-password",
		Body:     ports.JSONBody{Value: map[string]string{"email": email}},
		SkipAuth: true,
	})
	return err
}

func (s *AuthService) Logout(ctx context.Context) {
	s.session.Logout(ctx)
	s.logger.Info().Msg("logged out")
}
