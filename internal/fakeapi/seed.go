package fakeapi

import (
	"github.com/catalogo/storefront-client/internal/core/domain"
)

// SeedAccount creates an account and returns its id.
func (s *Server) SeedAccount(username, email, password string, role domain.Role) (int64, error) {
	acc, err := s.Store.CreateAccount(username, email, password, role)
	if err != nil {
		return 0, err
	}
	return acc.ID, nil
}

// SeedDemoCatalog fills the store with a small catalog.
func (s *Server) SeedDemoCatalog() error {
	cats := []domain.Category{
		{Name: "Shirts", Description: "Casual and formal shirts", Active: true},
		{Name: "Trousers", Description: "Jeans and chinos", Active: true},
		{Name: "Shoes", Description: "Sneakers and boots", Active: true},
	}
	ids := make([]int64, 0, len(cats))
	for _, c := range cats {
		saved, err := s.Store.SaveCategory(c)
		if err != nil {
			return err
		}
		ids = append(ids, saved.ID)
	}

	products := []domain.Product{
		{Name: "Oxford shirt", Price: 34.90, Stock: 25, CategoryID: ids[0], Active: true},
		{Name: "Linen shirt", Price: 39.50, Stock: 12, CategoryID: ids[0], Active: true},
		{Name: "Slim jeans", Price: 49.00, Stock: 30, CategoryID: ids[1], Active: true},
		{Name: "Chino trousers", Price: 44.00, Stock: 0, CategoryID: ids[1], Active: false},
		{Name: "Leather boots", Price: 89.99, Stock: 8, CategoryID: ids[2], Active: true},
	}
	for _, p := range products {
		if _, err := s.Store.SaveProduct(p); err != nil {
			return err
		}
	}
	return nil
}
