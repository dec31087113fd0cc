package fakeapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/catalogo/storefront-client/internal/core/domain"
	"github.com/catalogo/storefront-client/internal/fakeapi/middleware"
)

type authHandler struct {
	store *Store
	opts  Options
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerRequest struct {
	Username  string `json:"username"  validate:"required,min=3"`
	Email     string `json:"email"     validate:"required,email"`
	Password  string `json:"password"  validate:"required,min=6"`
	Role      string `json:"role"`
	AdminCode string `json:"adminCode"`
}

type authResponse struct {
	Token    string `json:"token"`
	Type     string `json:"type"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	UserID   int64  `json:"userId"`
}

func (h *authHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	acc, err := h.store.Authenticate(strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		return err
	}
	return h.respond(c, http.StatusOK, acc)
}

func (h *authHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	role := domain.RoleUser
	if req.Role != "" {
		r, err := domain.ParseRole(req.Role)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid role")
		}
		role = r
	}
	if role.IsAdmin() && (h.opts.AdminCode == "" || req.AdminCode != h.opts.AdminCode) {
		return errInvalidAdminCode
	}

	acc, err := h.store.CreateAccount(strings.TrimSpace(req.Username), strings.TrimSpace(req.Email), req.Password, role)
	if err != nil {
		return err
	}
	return h.respond(c, http.StatusCreated, acc)
}

func (h *authHandler) ValidateToken(c echo.Context) error {
	username, _ := c.Get(middleware.CtxUsername).(string)
	role, _ := c.Get(middleware.CtxRole).(string)
	return c.JSON(http.StatusOK, map[string]any{
		"valid":    true,
		"username": username,
		"role":     role,
	})
}

// ForgotPassword always answers the same way so account existence is not
// revealed.
func (h *authHandler) ForgotPassword(c echo.Context) error {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	c.Logger().Infof("password reset requested (known=%t)", h.store.AccountExists(req.Email))
	return c.JSON(http.StatusOK, map[string]string{
		"message": "If the email is registered, reset instructions have been sent",
	})
}

func (h *authHandler) respond(c echo.Context, status int, acc *account) error {
	token, err := h.issueToken(acc)
	if err != nil {
		return err
	}
	return c.JSON(status, authResponse{
		Token:    token,
		Type:     "Bearer",
		Username: acc.Username,
		Email:    acc.Email,
		Role:     acc.Role.Authority(),
		UserID:   acc.ID,
	})
}

func (h *authHandler) issueToken(acc *account) (string, error) {
	now := time.Now()
	claims := middleware.Claims{
		Role:   acc.Role.Authority(),
		UserID: acc.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acc.Username,
			ID:        strconv.FormatInt(acc.ID, 10) + "-" + strconv.FormatInt(now.UnixNano(), 36),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.opts.TokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(h.opts.JWTSecret))
}
