package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"github.com/catalogo/storefront-client/internal/core/domain"
	"github.com/catalogo/storefront-client/internal/core/ports"
)

func TestProductService_CreateValidates(t *testing.T) {
	api := &stubAPI{}
	svc := NewProductService(api, zerolog.Nop())

	tests := []struct {
		name string
		in   ports.ProductInput
	}{
		{"short name", ports.ProductInput{Name: "a", Price: 10, CategoryID: 1}},
		{"zero price", ports.ProductInput{Name: "Shirt", Price: 0, CategoryID: 1}},
		{"negative stock", ports.ProductInput{Name: "Shirt", Price: 10, Stock: -1, CategoryID: 1}},
		{"missing category", ports.ProductInput{Name: "Shirt", Price: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tt.in); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
	if len(api.requests()) != 0 {
		t.Fatal("invalid input must not reach the server")
	}
}

func TestProductService_Create(t *testing.T) {
	api := &stubAPI{}
	api.handle = respondJSON(t, domain.Product{ID: 3, Name: "Shirt", Price: 19.9, CategoryID: 2})
	svc := NewProductService(api, zerolog.Nop())

	p, err := svc.Create(context.Background(), ports.ProductInput{Name: "  Shirt ", Price: 19.9, Stock: 5, CategoryID: 2})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if p.ID != 3 {
		t.Fatalf("unexpected product %+v", p)
	}
	req := api.last(t)
	if req.Method != http.MethodPost || req.Path != "/products" {
		t.Fatalf("unexpected request %s %s", req.Method, req.Path)
	}
	if in := jsonBodyOf(t, req).(ports.ProductInput); in.Name != "Shirt" {
		t.Fatalf("name should be trimmed, got %q", in.Name)
	}
}

func TestProductService_Paths(t *testing.T) {
	api := &stubAPI{}
	api.handle = respondJSON(t, []domain.Product{})
	svc := NewProductService(api, zerolog.Nop())
	ctx := context.Background()

	if _, err := svc.Search(ctx, "jeans"); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if req := api.last(t); req.Path != "/products/search" || req.Query.Get("name") != "jeans" {
		t.Fatalf("unexpected search request %+v", req)
	}

	if _, err := svc.Search(ctx, "  "); err != nil {
		t.Fatalf("Search blank: %v", err)
	}
	if req := api.last(t); req.Path != "/products" {
		t.Fatalf("blank search should list, got %s", req.Path)
	}

	if _, err := svc.ByCategory(ctx, 7); err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	if req := api.last(t); req.Path != "/products/category/7" {
		t.Fatalf("unexpected path %s", req.Path)
	}
	if _, err := svc.ByCategory(ctx, 0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	api.handle = nil
	if err := svc.Delete(ctx, 5); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if req := api.last(t); req.Method != http.MethodDelete || req.Path != "/products/5" {
		t.Fatalf("unexpected delete %s %s", req.Method, req.Path)
	}
}

func TestProductService_GetNotFound(t *testing.T) {
	api := &stubAPI{handle: respondErr(&domain.APIError{Status: 404, Message: "Product not found", Kind: domain.ErrNotFound})}
	svc := NewProductService(api, zerolog.Nop())

	_, err := svc.Get(context.Background(), 99)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCategoryService_UpdateValidates(t *testing.T) {
	api := &stubAPI{}
	svc := NewCategoryService(api, zerolog.Nop())

	if _, err := svc.Update(context.Background(), 1, ports.CategoryInput{Name: "x"}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	api.handle = respondJSON(t, domain.Category{ID: 1, Name: "Shoes"})
	c, err := svc.Update(context.Background(), 1, ports.CategoryInput{Name: "Shoes", Active: true})
	if err != nil || c.Name != "Shoes" {
		t.Fatalf("Update = %+v, %v", c, err)
	}
	if req := api.last(t); req.Method != http.MethodPut || req.Path != "/categories/1" {
		t.Fatalf("unexpected request %s %s", req.Method, req.Path)
	}
}

func TestUserService_NormalisesRoles(t *testing.T) {
	api := &stubAPI{}
	api.handle = respondJSON(t, []map[string]any{
		{"id": 1, "username": "root", "role": "ROLE_ADMIN"},
		{"id": 2, "username": "ana", "role": "user"},
	})
	svc := NewUserService(api, zerolog.Nop())

	users, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if users[0].Role != domain.RoleAdmin || users[1].Role != domain.RoleUser {
		t.Fatalf("roles not normalised: %+v", users)
	}
	if req := api.last(t); req.Path != "/admin/users" {
		t.Fatalf("unexpected path %s", req.Path)
	}
}

func TestUserService_ToggleLockAndPassword(t *testing.T) {
	api := &stubAPI{}
	api.handle = respondJSON(t, domain.ManagedUser{ID: 2, Username: "ana", Role: "ROLE_USER", Locked: true})
	svc := NewUserService(api, zerolog.Nop())
	ctx := context.Background()

	u, err := svc.ToggleLock(ctx, 2)
	if err != nil || !u.Locked {
		t.Fatalf("ToggleLock = %+v, %v", u, err)
	}
	if req := api.last(t); req.Method != http.MethodPatch || req.Path != "/admin/users/2/toggle-lock" {
		t.Fatalf("unexpected request %s %s", req.Method, req.Path)
	}

	err = svc.ChangePassword(ctx, 2, ports.PasswordChange{CurrentPassword: "secret1", NewPassword: "secret1"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("same password: expected ErrValidation, got %v", err)
	}
	err = svc.ChangePassword(ctx, 2, ports.PasswordChange{CurrentPassword: "secret1", NewPassword: "123"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("short password: expected ErrValidation, got %v", err)
	}
	if err := svc.ChangePassword(ctx, 2, ports.PasswordChange{CurrentPassword: "secret1", NewPassword: "secret2"}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if req := api.last(t); req.Path != "/admin/users/2/change-password" {
		t.Fatalf("unexpected path %s", req.Path)
	}
}

func TestUserService_Stats(t *testing.T) {
	api := &stubAPI{}
	api.handle = respondJSON(t, map[string]int{"totalUsers": 5, "adminUsers": 1, "regularUsers": 4, "lockedUsers": 2})
	svc := NewUserService(api, zerolog.Nop())

	st, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if st.Total != 5 || st.Admins != 1 || st.Users != 4 || st.Locked != 2 {
		t.Fatalf("unexpected stats %+v", st)
	}
}
