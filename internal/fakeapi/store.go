package fakeapi

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/catalogo/storefront-client/internal/core/domain"
)

// account is a stored user. Roles are kept canonical and rendered in
// authority form on the wire.
type account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash []byte
	Role         domain.Role
	Locked       bool
	CreatedAt    time.Time
}

func (a *account) view() domain.ManagedUser {
	return domain.ManagedUser{
		ID:        a.ID,
		Username:  a.Username,
		Email:     a.Email,
		Role:      domain.Role(a.Role.Authority()),
		Locked:    a.Locked,
		CreatedAt: a.CreatedAt,
	}
}

// Store holds the fake API's data in memory.
type Store struct {
	mu         sync.RWMutex
	accounts   map[int64]*account
	products   map[int64]*domain.Product
	categories map[int64]*domain.Category
	nextID     int64
	now        func() time.Time
	bcryptCost int
}

func NewStore() *Store {
	return &Store{
		accounts:   make(map[int64]*account),
		products:   make(map[int64]*domain.Product),
		categories: make(map[int64]*domain.Category),
		now:        time.Now,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// ── Accounts ──────────────────────────────────────────────────────────────────

func (s *Store) CreateAccount(username, email, password string, role domain.Role) (*account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.Username, username) || (email != "" && strings.EqualFold(a.Email, email)) {
			return nil, domain.ErrUserExists
		}
	}
	acc := &account{
		ID:           s.id(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	s.accounts[acc.ID] = acc
	clone := *acc
	return &clone, nil
}

// Authenticate checks a password. Locked accounts are refused with
// ErrForbidden after the password matched.
func (s *Store) Authenticate(username, password string) (*account, error) {
	s.mu.RLock()
	var found *account
	for _, a := range s.accounts {
		if strings.EqualFold(a.Username, username) {
			clone := *a
			found = &clone
			break
		}
	}
	s.mu.RUnlock()

	if found == nil || bcrypt.CompareHashAndPassword(found.PasswordHash, []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if found.Locked {
		return nil, fmt.Errorf("%w: account is locked", domain.ErrForbidden)
	}
	return found, nil
}

func (s *Store) AccountExists(email string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if strings.EqualFold(a.Email, email) {
			return true
		}
	}
	return false
}

func (s *Store) Accounts() []domain.ManagedUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ManagedUser, 0, len(s.accounts))
	for _, a := range s.accounts {
		out = append(out, a.view())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Account(id int64) (domain.ManagedUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return domain.ManagedUser{}, domain.ErrUserNotFound
	}
	return a.view(), nil
}

func (s *Store) UpdateAccount(id int64, username, email string, role domain.Role) (domain.ManagedUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return domain.ManagedUser{}, domain.ErrUserNotFound
	}
	if username != "" {
		a.Username = username
	}
	if email != "" {
		a.Email = email
	}
	if role != "" {
		a.Role = role
	}
	return a.view(), nil
}

func (s *Store) DeleteAccount(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(s.accounts, id)
	return nil
}

func (s *Store) ToggleLock(id int64) (domain.ManagedUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return domain.ManagedUser{}, domain.ErrUserNotFound
	}
	a.Locked = !a.Locked
	return a.view(), nil
}

var errWrongPassword = errors.New("current password is incorrect")

func (s *Store) ChangePassword(id int64, current, next string) error {
	s.mu.RLock()
	a, ok := s.accounts[id]
	var hash []byte
	if ok {
		hash = a.PasswordHash
	}
	s.mu.RUnlock()
	if !ok {
		return domain.ErrUserNotFound
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(current)) != nil {
		return errWrongPassword
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(next), s.bcryptCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.accounts[id]; ok {
		a.PasswordHash = newHash
	}
	return nil
}

func (s *Store) Stats() domain.UserStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var st domain.UserStats
	for _, a := range s.accounts {
		st.Total++
		if a.Role.IsAdmin() {
			st.Admins++
		} else {
			st.Users++
		}
		if a.Locked {
			st.Locked++
		}
	}
	return st
}

// ── Categories ────────────────────────────────────────────────────────────────

func (s *Store) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, s.categoryView(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Category(id int64) (domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return domain.Category{}, errCategoryNotFound
	}
	return s.categoryView(c), nil
}

func (s *Store) SaveCategory(c domain.Category) (domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.categories {
		if other.ID != c.ID && strings.EqualFold(other.Name, c.Name) {
			return domain.Category{}, errCategoryExists
		}
	}
	if c.ID == 0 {
		c.ID = s.id()
	} else if old, ok := s.categories[c.ID]; ok {
		c.ImageURL = old.ImageURL
	} else {
		return domain.Category{}, errCategoryNotFound
	}
	s.categories[c.ID] = &c
	return s.categoryView(&c), nil
}

func (s *Store) DeleteCategory(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return errCategoryNotFound
	}
	for _, p := range s.products {
		if p.CategoryID == id {
			return errCategoryInUse
		}
	}
	delete(s.categories, id)
	return nil
}

func (s *Store) SetCategoryImage(id int64, url string) (domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return domain.Category{}, errCategoryNotFound
	}
	c.ImageURL = url
	return s.categoryView(c), nil
}

// categoryView must be called with mu held.
func (s *Store) categoryView(c *domain.Category) domain.Category {
	out := *c
	out.ProductCount = 0
	for _, p := range s.products {
		if p.CategoryID == c.ID {
			out.ProductCount++
		}
	}
	return out
}

// ── Products ──────────────────────────────────────────────────────────────────

// Products returns products matching keep, ordered by id.
func (s *Store) Products(keep func(domain.Product) bool) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		v := s.productView(p)
		if keep == nil || keep(v) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) Product(id int64) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, errProductNotFound
	}
	return s.productView(p), nil
}

func (s *Store) SaveProduct(p domain.Product) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[p.CategoryID]; !ok {
		return domain.Product{}, errCategoryNotFound
	}
	if p.ID == 0 {
		p.ID = s.id()
	} else if old, ok := s.products[p.ID]; ok {
		p.ImageURL = old.ImageURL
	} else {
		return domain.Product{}, errProductNotFound
	}
	s.products[p.ID] = &p
	return s.productView(&p), nil
}

func (s *Store) DeleteProduct(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return errProductNotFound
	}
	delete(s.products, id)
	return nil
}

func (s *Store) SetProductImage(id int64, url string) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, errProductNotFound
	}
	p.ImageURL = url
	return s.productView(p), nil
}

// productView must be called with mu held.
func (s *Store) productView(p *domain.Product) domain.Product {
	out := *p
	if c, ok := s.categories[p.CategoryID]; ok {
		out.CategoryName = c.Name
	}
	return out
}

// Ping reports whether the store is usable; it always is.
func (s *Store) Ping() error { return nil }
