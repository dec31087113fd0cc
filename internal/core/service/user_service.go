package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/catalogo/storefront-client/internal/core/domain"
	"github.com/catalogo/storefront-client/internal/core/ports"
)

// UserService wraps the admin user-management endpoints.
type UserService struct {
	api      ports.APIClient
	validate *inputValidator
	logger   zerolog.Logger
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(api ports.APIClient, logger zerolog.Logger) *UserService {
	return &UserService{api: api, validate: newInputValidator(), logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]domain.ManagedUser, error) {
	var out []domain.ManagedUser
	if err := getJSON(ctx, s.api, "/admin/users", nil, &out); err != nil {
		return nil, err
	}
	for i := range out {
		normaliseManaged(&out[i])
	}
	return out, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.ManagedUser, error) {
	var out domain.ManagedUser
	if err := getJSON(ctx, s.api, itemPath("/admin/users", id), nil, &out); err != nil {
		return nil, err
	}
	normaliseManaged(&out)
	return &out, nil
}

func (s *UserService) Update(ctx context.Context, id int64, in ports.UserUpdateInput) (*domain.ManagedUser, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Role != "" {
		if role, err := domain.ParseRole(in.Role); err == nil {
			in.Role = string(role)
		}
	}
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	var out domain.ManagedUser
	if err := sendJSON(ctx, s.api, http.MethodPut, itemPath("/admin/users", id), in, &out); err != nil {
		return nil, err
	}
	normaliseManaged(&out)
	s.logger.Info().Int64("user_id", id).Msg("user updated")
	return &out, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := sendJSON(ctx, s.api, http.MethodDelete, itemPath("/admin/users", id), nil, nil); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}

func (s *UserService) ToggleLock(ctx context.Context, id int64) (*domain.ManagedUser, error) {
	var out domain.ManagedUser
	if err := sendJSON(ctx, s.api, http.MethodPatch, itemPath("/admin/users", id, "toggle-lock"), nil, &out); err != nil {
		return nil, err
	}
	normaliseManaged(&out)
	s.logger.Info().Int64("user_id", id).Bool("locked", out.Locked).Msg("user lock toggled")
	return &out, nil
}

func (s *UserService) ChangePassword(ctx context.Context, id int64, in ports.PasswordChange) error {
	if err := s.validate.Validate(in); err != nil {
		return err
	}
	if err := sendJSON(ctx, s.api, http.MethodPatch, itemPath("/admin/users", id, "change-password"), in, nil); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("password changed")
	return nil
}

func (s *UserService) Stats(ctx context.Context) (*domain.UserStats, error) {
	var out domain.UserStats
	if err := getJSON(ctx, s.api, "/admin/users/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// normaliseManaged maps wire roles (ROLE_ADMIN, admin, ...) to the
// canonical form; unknown roles are left as received.
func normaliseManaged(u *domain.ManagedUser) {
	if role, err := domain.ParseRole(string(u.Role)); err == nil {
		u.Role = role
	}
}
