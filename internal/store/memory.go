package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"sales-dashboard/internal/models"
)

// MemStore keeps all entities in mutex-guarded maps with auto-increment
// identifiers. List operations return copies sorted by ID so callers always
// see a consistent snapshot in insertion order.
type MemStore struct {
	mu           sync.RWMutex
	users        map[int]models.User
	products     map[int]models.Product
	transactions map[int]models.Transaction

	userID        int
	productID     int
	transactionID int
}

func NewMemStore() *MemStore {
	return &MemStore{
		users:        make(map[int]models.User),
		products:     make(map[int]models.Product),
		transactions: make(map[int]models.Transaction),
	}
}

func (s *MemStore) GetUser(ctx context.Context, id int) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (s *MemStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, ErrNotFound
}

func (s *MemStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return models.User{}, fmt.Errorf("username %q already taken", user.Username)
		}
	}

	s.userID++
	user.ID = s.userID
	s.users[user.ID] = user
	return user, nil
}

func (s *MemStore) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, user)
	}
	slices.SortFunc(out, func(a, b models.User) int { return a.ID - b.ID })
	return out, nil
}

func (s *MemStore) GetProduct(ctx context.Context, id int) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}
	return product, nil
}

func (s *MemStore) CreateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.products {
		if existing.SKU == product.SKU {
			return models.Product{}, fmt.Errorf("sku %q already exists", product.SKU)
		}
	}

	s.productID++
	product.ID = s.productID
	s.products[product.ID] = product
	return product, nil
}

func (s *MemStore) UpdateProductStock(ctx context.Context, id int, stock *int) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return models.Product{}, ErrNotFound
	}

	product.Stock = stock
	s.products[id] = product
	return product, nil
}

func (s *MemStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, 0, len(s.products))
	for _, product := range s.products {
		out = append(out, product)
	}
	slices.SortFunc(out, func(a, b models.Product) int { return a.ID - b.ID })
	return out, nil
}

func (s *MemStore) GetTransaction(ctx context.Context, id int) (models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.transactions[id]
	if !ok {
		return models.Transaction{}, ErrNotFound
	}
	return tx, nil
}

func (s *MemStore) CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transactionID++
	tx.ID = s.transactionID
	s.transactions[tx.ID] = tx
	return tx, nil
}

func (s *MemStore) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		out = append(out, tx)
	}
	slices.SortFunc(out, func(a, b models.Transaction) int { return a.ID - b.ID })
	return out, nil
}

func (s *MemStore) Close() error {
	return nil
}
