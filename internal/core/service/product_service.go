package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/catalogo/storefront-client/internal/core/domain"
	"github.com/catalogo/storefront-client/internal/core/ports"
)

type ProductService struct {
	api      ports.APIClient
	validate *inputValidator
	logger   zerolog.Logger
}

var _ ports.ProductService = (*ProductService)(nil)

func NewProductService(api ports.APIClient, logger zerolog.Logger) *ProductService {
	return &ProductService{api: api, validate: newInputValidator(), logger: logger}
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	if err := getJSON(ctx, s.api, "/products", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	var out domain.Product
	if err := getJSON(ctx, s.api, itemPath("/products", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *ProductService) Create(ctx context.Context, in ports.ProductInput) (*domain.Product, error) {
	in = trimProduct(in)
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	var out domain.Product
	if err := sendJSON(ctx, s.api, http.MethodPost, "/products", in, &out); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("product_id", out.ID).Str("name", out.Name).Msg("product created")
	return &out, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, in ports.ProductInput) (*domain.Product, error) {
	in = trimProduct(in)
	if err := s.validate.Validate(in); err != nil {
		return nil, err
	}
	var out domain.Product
	if err := sendJSON(ctx, s.api, http.MethodPut, itemPath("/products", id), in, &out); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("product_id", id).Msg("product updated")
	return &out, nil
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := sendJSON(ctx, s.api, http.MethodDelete, itemPath("/products", id), nil, nil); err != nil {
		return err
	}
	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

// Search matches products by name. A blank term lists everything.
func (s *ProductService) Search(ctx context.Context, name string) ([]domain.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.List(ctx)
	}
	var out []domain.Product
	if err := getJSON(ctx, s.api, "/products/search", url.Values{"name": {name}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ProductService) ByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	if categoryID <= 0 {
		return nil, fmt.Errorf("%w: category id must be positive", domain.ErrValidation)
	}
	var out []domain.Product
	if err := getJSON(ctx, s.api, itemPath("/products/category", categoryID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func trimProduct(in ports.ProductInput) ports.ProductInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	return in
}
