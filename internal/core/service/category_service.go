package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/catalogo/storefront-client/internal/core/domain"
	"github.com/catalogo/storefront-client/internal/core/ports"
)

type CategoryService struct {
	api      ports.APIClient
	validate *inputValidator
	logger   zerolog.Logger
}

var _ ports.CategoryService = (*CategoryService)(nil)

func NewCategoryService(api ports.APIClient, logger zerolog.Logger) *CategoryService {
	return &CategoryService{api: api, validate: newInputValidator(), logger: logger}
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := getJSON(ctx, s.api, "/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (*domain.Category, error) {
	var out domain.Category
	if err := getJSON(ctx, s.api, itemPath("/categories", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *CategoryService) Create(ctx context.Context, in ports.CategoryInput) (*domain.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	var out domain.Category
	if err := sendJSON(ctx, s.api, http.MethodPost, "/categories", in, &out); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("category_id", out.ID).Str("name", out.Name).Msg("category created")
	return &out, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, in ports.CategoryInput) (*domain.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	var out domain.Category
	if err := sendJSON(ctx, s.api, http.MethodPut, itemPath("/categories", id), in, &out); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("category_id", id).Msg("category updated")
	return &out, nil
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := sendJSON(ctx, s.api, http.MethodDelete, itemPath("/categories", id), nil, nil); err != nil {
		return err
	}
	s.logger.Info().Int64("category_id", id).Msg("category deleted")
	return nil
}
