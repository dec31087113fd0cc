package domain

import "time"

// Product mirrors the server representation; the client keeps no invariants
// of its own beyond input validation.
type Product struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description,omitempty"`
	Price        float64 `json:"price"`
	Stock        int     `json:"stock"`
	CategoryID   int64   `json:"categoryId"`
	CategoryName string  `json:"categoryName,omitempty"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	Active       bool    `json:"active"`
}

// Category mirrors the server representation.
type Category struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ImageURL     string `json:"imageUrl,omitempty"`
	Active       bool   `json:"active"`
	ProductCount int    `json:"productCount,omitempty"`
}

// ManagedUser is a user account as seen from the admin endpoints.
type ManagedUser struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Locked    bool      `json:"locked"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// UserStats is the summary returned by the admin stats endpoint.
type UserStats struct {
	Total  int `json:"totalUsers"`
	Admins int `json:"adminUsers"`
	Users  int `json:"regularUsers"`
	Locked int `json:"lockedUsers"`
}
