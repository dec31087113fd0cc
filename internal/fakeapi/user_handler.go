package fakeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/catalogo/storefront-client/internal/core/domain"
)

type userHandler struct {
	store *Store
}

type userUpdateRequest struct {
	Username string `json:"username" validate:"omitempty,min=3"`
	Email    string `json:"email"    validate:"omitempty,email"`
	Role     string `json:"role"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6"`
}

func (h *userHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Accounts())
}

func (h *userHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	u, err := h.store.Account(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *userHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req userUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	var role domain.Role
	if req.Role != "" {
		if role, err = domain.ParseRole(req.Role); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid role")
		}
	}
	u, err := h.store.UpdateAccount(id, req.Username, req.Email, role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *userHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.store.DeleteAccount(id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *userHandler) ToggleLock(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	u, err := h.store.ToggleLock(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *userHandler) ChangePassword(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req passwordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if err := h.store.ChangePassword(id, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Password updated"})
}

func (h *userHandler) Stats(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Stats())
}
