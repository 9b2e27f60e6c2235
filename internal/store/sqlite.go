package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"sales-dashboard/internal/models"
)

// SQLiteStore is the persistent backend. It exposes the same read contracts
// as MemStore; the aggregation layer cannot tell the two apart.
type SQLiteStore struct {
	db *sqlx.DB
}

func OpenSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under concurrent broadcasts.
	db.SetMaxOpenConns(1)

	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS users(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT NOT NULL UNIQUE,
  password TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  balance REAL NOT NULL DEFAULT 0 CHECK (balance >= 0)
);

CREATE TABLE IF NOT EXISTS products(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  sku TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL,
  price REAL NOT NULL CHECK (price >= 0),
  selling_price REAL NOT NULL,
  stock INTEGER CHECK (stock IS NULL OR stock >= 0)
);

CREATE TABLE IF NOT EXISTS transactions(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  user_id INTEGER NOT NULL,
  sku TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1 CHECK (quantity >= 1),
  status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending','success','failed')),
  price REAL NOT NULL,
  selling_price REAL NOT NULL,
  date TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_transactions_status ON transactions(status);
CREATE INDEX IF NOT EXISTS idx_transactions_sku    ON transactions(sku);
`
	_, err := db.Exec(schema)
	return err
}

func (s *SQLiteStore) GetUser(ctx context.Context, id int) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		`SELECT id, username, password, is_active, balance FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	return user, err
}

func (s *SQLiteStore) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		`SELECT id, username, password, is_active, balance FROM users WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	return user, err
}

func (s *SQLiteStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users(username, password, is_active, balance) VALUES(?, ?, ?, ?)`,
		user.Username, user.Password, user.IsActive, user.Balance)
	if err != nil {
		return models.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}
	user.ID = int(id)
	return user, nil
}

func (s *SQLiteStore) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.db.SelectContext(ctx, &users,
		`SELECT id, username, password, is_active, balance FROM users ORDER BY id`)
	return users, err
}

func (s *SQLiteStore) GetProduct(ctx context.Context, id int) (models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product,
		`SELECT id, sku, name, description, category, price, selling_price, stock
		   FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrNotFound
	}
	return product, err
}

func (s *SQLiteStore) CreateProduct(ctx context.Context, product models.Product) (models.Product, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO products(sku, name, description, category, price, selling_price, stock)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		product.SKU, product.Name, product.Description, product.Category,
		product.Price, product.SellingPrice, product.Stock)
	if err != nil {
		return models.Product{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Product{}, err
	}
	product.ID = int(id)
	return product, nil
}

func (s *SQLiteStore) UpdateProductStock(ctx context.Context, id int, stock *int) (models.Product, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE products SET stock = ? WHERE id = ?`, stock, id)
	if err != nil {
		return models.Product{}, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return models.Product{}, err
	} else if n == 0 {
		return models.Product{}, ErrNotFound
	}
	return s.GetProduct(ctx, id)
}

func (s *SQLiteStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products,
		`SELECT id, sku, name, description, category, price, selling_price, stock
		   FROM products ORDER BY id`)
	return products, err
}

func (s *SQLiteStore) GetTransaction(ctx context.Context, id int) (models.Transaction, error) {
	var tx models.Transaction
	err := s.db.GetContext(ctx, &tx,
		`SELECT id, user_id, sku, quantity, status, price, selling_price, date
		   FROM transactions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Transaction{}, ErrNotFound
	}
	return tx, err
}

func (s *SQLiteStore) CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO transactions(user_id, sku, quantity, status, price, selling_price, date)
		 VALUES(?, ?, ?, ?, ?, ?, ?)`,
		tx.UserID, tx.SKU, tx.Quantity, tx.Status, tx.Price, tx.SellingPrice, tx.Date)
	if err != nil {
		return models.Transaction{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.Transaction{}, err
	}
	tx.ID = int(id)
	return tx, nil
}

func (s *SQLiteStore) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	txs := []models.Transaction{}
	err := s.db.SelectContext(ctx, &txs,
		`SELECT id, user_id, sku, quantity, status, price, selling_price, date
		   FROM transactions ORDER BY id`)
	return txs, err
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
