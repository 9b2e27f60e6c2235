package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/models"
)

// ErrNotFound is returned by point lookups when no record matches.
var ErrNotFound = errors.New("record not found")

// Store owns all entity records. List operations return full, internally
// consistent snapshots with no pagination; the aggregation layer only ever
// reads. Implementations must be safe for concurrent use.
type Store interface {
	GetUser(ctx context.Context, id int) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	GetProduct(ctx context.Context, id int) (models.Product, error)
	CreateProduct(ctx context.Context, product models.Product) (models.Product, error)
	UpdateProductStock(ctx context.Context, id int, stock *int) (models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)

	GetTransaction(ctx context.Context, id int) (models.Transaction, error)
	CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error)
	ListTransactions(ctx context.Context) ([]models.Transaction, error)

	Close() error
}

// Open selects the configured backend and seeds it with sample data when
// empty.
func Open(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (Store, error) {
	var (
		s   Store
		err error
	)

	switch cfg.Backend {
	case config.BackendMemory:
		s = NewMemStore()
	case config.BackendSQLite:
		s, err = OpenSQLite(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}

	if cfg.Seed {
		if err := Seed(ctx, s, logger); err != nil {
			s.Close()
			return nil, fmt.Errorf("seed store: %w", err)
		}
	}

	return s, nil
}
