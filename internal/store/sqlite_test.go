package store

import (
	"context"
	"path/filepath"
	"testing"

	"sales-dashboard/internal/config"
	"sales-dashboard/internal/models"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_Contract(t *testing.T) {
	storeContract(t, newTestSQLite(t))
}

func TestSQLiteStore_SchemaIsIdempotent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "test.db")

	s1, err := OpenSQLite(dsn)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s1.CreateProduct(context.Background(), models.Product{SKU: "KEEP", Name: "Keep"}); err != nil {
		t.Fatal(err)
	}
	if err := s1.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopening the same file must keep existing data.
	s2, err := OpenSQLite(dsn)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()

	products, err := s2.ListProducts(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 1 || products[0].SKU != "KEEP" {
		t.Errorf("products after reopen = %+v, want the one created before close", products)
	}
}

func TestSQLiteStore_NullableStock(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	created, err := s.CreateProduct(ctx, models.Product{SKU: "NOSTOCK", Name: "Unlimited"})
	if err != nil {
		t.Fatal(err)
	}

	got, err := s.GetProduct(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Stock != nil {
		t.Errorf("Stock = %v, want nil for NULL column", got.Stock)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory backend with seed", func(t *testing.T) {
		s, err := Open(ctx, config.StoreConfig{Backend: config.BackendMemory, Seed: true}, discardLogger())
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close()

		products, err := s.ListProducts(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(products) == 0 {
			t.Error("expected seeded products")
		}
	})

	t.Run("sqlite backend", func(t *testing.T) {
		cfg := config.StoreConfig{
			Backend: config.BackendSQLite,
			DSN:     filepath.Join(t.TempDir(), "open.db"),
		}
		s, err := Open(ctx, cfg, discardLogger())
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close()

		if _, ok := s.(*SQLiteStore); !ok {
			t.Errorf("Open() returned %T, want *SQLiteStore", s)
		}
	})

	t.Run("unknown backend", func(t *testing.T) {
		if _, err := Open(ctx, config.StoreConfig{Backend: "bogus"}, discardLogger()); err == nil {
			t.Error("Open() with unknown backend succeeded, want error")
		}
	})
}
