package ports

import (
	"context"

	"github.com/catalogo/storefront-client/internal/core/domain"
)

// RegisterInput carries the sign-up form.
type RegisterInput struct {
	Username  string `json:"username"            validate:"required,min=3,max=50"`
	Email     string `json:"email"               validate:"required,email"`
	Password  string `json:"password"            validate:"required,min=6"`
	Role      string `json:"role"                validate:"required,oneof=ADMIN USER"`
	AdminCode string `json:"adminCode,omitempty" validate:"required_if=Role ADMIN"`
}

// AuthService drives login, registration and token checks.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*domain.User, error)
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	ValidateToken(ctx context.Context) (bool, error)
	ForgotPassword(ctx context.Context, email string) error
	Logout(ctx context.Context)
}

// ProductInput is the create/update payload for a product.
type ProductInput struct {
	Name        string  `json:"name"                  validate:"required,min=2"`
	Description string  `json:"description,omitempty" validate:"max=1000"`
	Price       float64 `json:"price"                 validate:"gt=0"`
	Stock       int     `json:"stock"                 validate:"gte=0"`
	CategoryID  int64   `json:"categoryId"            validate:"required,gt=0"`
	Active      bool    `json:"active"`
}

type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, in ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, in ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, name string) ([]domain.Product, error)
	ByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)
}

// CategoryInput is the create/update payload for a category.
type CategoryInput struct {
	Name        string `json:"name"                  validate:"required,min=2"`
	Description string `json:"description,omitempty" validate:"max=500"`
	Active      bool   `json:"active"`
}

type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, id int64) (*domain.Category, error)
	Create(ctx context.Context, in CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id int64, in CategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}

// UserUpdateInput is the admin edit form for an account.
type UserUpdateInput struct {
	Username string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Email    string `json:"email,omitempty"    validate:"omitempty,email"`
	Role     string `json:"role,omitempty"     validate:"omitempty,oneof=ADMIN USER"`
}

// PasswordChange is the payload of the change-password endpoint.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6,nefield=CurrentPassword"`
}

type UserService interface {
	List(ctx context.Context) ([]domain.ManagedUser, error)
	Get(ctx context.Context, id int64) (*domain.ManagedUser, error)
	Update(ctx context.Context, id int64, in UserUpdateInput) (*domain.ManagedUser, error)
	Delete(ctx context.Context, id int64) error
	ToggleLock(ctx context.Context, id int64) (*domain.ManagedUser, error)
	ChangePassword(ctx context.Context, id int64, in PasswordChange) error
	Stats(ctx context.Context) (*domain.UserStats, error)
}

type ImageService interface {
	UploadProductImage(ctx context.Context, productID int64, path string) (*domain.Product, error)
	UploadCategoryImage(ctx context.Context, categoryID int64, path string) (*domain.Category, error)
}

type ReportService interface {
	Generate(ctx context.Context, kind domain.ReportKind) (*domain.Report, error)
	Save(report *domain.Report, dir string) (*domain.SavedReport, error)
	Available(ctx context.Context) ([]domain.ReportInfo, error)
}

type PreferenceService interface {
	DarkMode(ctx context.Context) (bool, error)
	ToggleDarkMode(ctx context.Context) (bool, error)
}
