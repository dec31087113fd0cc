package fakeapi

import (
	"errors"
	"fmt"

	"github.com/catalogo/storefront-client/internal/core/domain"
)

var (
	errProductNotFound  = fmt.Errorf("%w: product not found", domain.ErrNotFound)
	errCategoryNotFound = fmt.Errorf("%w: category not found", domain.ErrNotFound)
	errCategoryExists   = errors.New("a category with that name already exists")
	errCategoryInUse    = errors.New("category still has products")
	errInvalidAdminCode = errors.New("invalid admin code")
)
