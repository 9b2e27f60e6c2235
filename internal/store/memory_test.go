package store

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"sales-dashboard/internal/models"
)

// storeContract runs the behavior every backend must share.
func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		created, err := s.CreateUser(ctx, models.User{
			Username: "alice",
			Password: "hashed",
			IsActive: true,
			Balance:  1000,
		})
		if err != nil {
			t.Fatalf("CreateUser() error = %v", err)
		}
		if created.ID == 0 {
			t.Error("CreateUser() did not assign an ID")
		}

		got, err := s.GetUser(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetUser() error = %v", err)
		}
		if got.Username != "alice" || !got.IsActive || got.Balance != 1000 {
			t.Errorf("GetUser() = %+v, want created user back", got)
		}

		byName, err := s.GetUserByUsername(ctx, "alice")
		if err != nil {
			t.Fatalf("GetUserByUsername() error = %v", err)
		}
		if byName.ID != created.ID {
			t.Errorf("GetUserByUsername() ID = %d, want %d", byName.ID, created.ID)
		}

		if _, err := s.GetUser(ctx, 99999); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetUser(missing) error = %v, want ErrNotFound", err)
		}
		if _, err := s.GetUserByUsername(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetUserByUsername(missing) error = %v, want ErrNotFound", err)
		}

		if _, err := s.CreateUser(ctx, models.User{Username: "alice"}); err == nil {
			t.Error("CreateUser() with duplicate username succeeded, want error")
		}
	})

	t.Run("products", func(t *testing.T) {
		stock := 10
		created, err := s.CreateProduct(ctx, models.Product{
			SKU:          "TEST-SKU",
			Name:         "Test Product",
			Category:     "Testing",
			Price:        100,
			SellingPrice: 150,
			Stock:        &stock,
		})
		if err != nil {
			t.Fatalf("CreateProduct() error = %v", err)
		}
		if created.ID == 0 {
			t.Error("CreateProduct() did not assign an ID")
		}

		got, err := s.GetProduct(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetProduct() error = %v", err)
		}
		if got.SKU != "TEST-SKU" || got.Stock == nil || *got.Stock != 10 {
			t.Errorf("GetProduct() = %+v, want created product back", got)
		}

		if _, err := s.CreateProduct(ctx, models.Product{SKU: "TEST-SKU"}); err == nil {
			t.Error("CreateProduct() with duplicate SKU succeeded, want error")
		}

		newStock := 3
		updated, err := s.UpdateProductStock(ctx, created.ID, &newStock)
		if err != nil {
			t.Fatalf("UpdateProductStock() error = %v", err)
		}
		if updated.Stock == nil || *updated.Stock != 3 {
			t.Errorf("UpdateProductStock() stock = %v, want 3", updated.Stock)
		}

		cleared, err := s.UpdateProductStock(ctx, created.ID, nil)
		if err != nil {
			t.Fatalf("UpdateProductStock(nil) error = %v", err)
		}
		if cleared.Stock != nil {
			t.Errorf("UpdateProductStock(nil) stock = %v, want nil", cleared.Stock)
		}

		if _, err := s.UpdateProductStock(ctx, 99999, &newStock); !errors.Is(err, ErrNotFound) {
			t.Errorf("UpdateProductStock(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("transactions", func(t *testing.T) {
		date := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
		created, err := s.CreateTransaction(ctx, models.Transaction{
			UserID:       1,
			SKU:          "TEST-SKU",
			Quantity:     2,
			Status:       models.StatusSuccess,
			Price:        100,
			SellingPrice: 150,
			Date:         date,
		})
		if err != nil {
			t.Fatalf("CreateTransaction() error = %v", err)
		}
		if created.ID == 0 {
			t.Error("CreateTransaction() did not assign an ID")
		}

		got, err := s.GetTransaction(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetTransaction() error = %v", err)
		}
		if got.SKU != "TEST-SKU" || got.Quantity != 2 || got.Status != models.StatusSuccess {
			t.Errorf("GetTransaction() = %+v, want created transaction back", got)
		}
		if !got.Date.Equal(date) {
			t.Errorf("GetTransaction() date = %v, want %v", got.Date, date)
		}

		if _, err := s.GetTransaction(ctx, 99999); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetTransaction(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("list ordering", func(t *testing.T) {
		for _, sku := range []string{"ORD-A", "ORD-B", "ORD-C"} {
			if _, err := s.CreateProduct(ctx, models.Product{SKU: sku, Name: sku}); err != nil {
				t.Fatal(err)
			}
		}

		products, err := s.ListProducts(ctx)
		if err != nil {
			t.Fatalf("ListProducts() error = %v", err)
		}
		for i := 1; i < len(products); i++ {
			if products[i].ID <= products[i-1].ID {
				t.Errorf("ListProducts() not sorted by ID at index %d", i)
			}
		}
	})
}

func TestMemStore_Contract(t *testing.T) {
	s := NewMemStore()
	defer s.Close()
	storeContract(t, s)
}

func TestMemStore_SnapshotIsolation(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	stock := 5
	if _, err := s.CreateProduct(ctx, models.Product{SKU: "ISO", Stock: &stock}); err != nil {
		t.Fatal(err)
	}

	snapshot, err := s.ListProducts(ctx)
	if err != nil {
		t.Fatal(err)
	}

	// Mutating the snapshot must not leak into the store.
	snapshot[0].Name = "mutated"

	fresh, err := s.ListProducts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if fresh[0].Name == "mutated" {
		t.Error("snapshot mutation leaked into the store")
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestSeed(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	if err := Seed(ctx, s, discardLogger()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 5 {
		t.Errorf("seeded users = %d, want 5", len(users))
	}
	for _, u := range users {
		if u.Password == "password" {
			t.Errorf("user %s has plaintext password", u.Username)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("password")); err != nil {
			t.Errorf("user %s password is not a bcrypt hash of the sample password", u.Username)
		}
	}

	products, err := s.ListProducts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 12 {
		t.Errorf("seeded products = %d, want 12", len(products))
	}

	transactions, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(transactions) != seedTransactionCount {
		t.Errorf("seeded transactions = %d, want %d", len(transactions), seedTransactionCount)
	}
	for _, tx := range transactions {
		if tx.Status != models.StatusSuccess && tx.Status != models.StatusFailed {
			t.Errorf("seeded transaction %d has status %q", tx.ID, tx.Status)
		}
		if tx.Quantity < 1 || tx.Quantity > 3 {
			t.Errorf("seeded transaction %d has quantity %d, want 1..3", tx.ID, tx.Quantity)
		}
	}
}

func TestSeed_Idempotent(t *testing.T) {
	s := NewMemStore()
	ctx := context.Background()

	if err := Seed(ctx, s, discardLogger()); err != nil {
		t.Fatal(err)
	}
	if err := Seed(ctx, s, discardLogger()); err != nil {
		t.Fatalf("second Seed() error = %v", err)
	}

	products, err := s.ListProducts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(products) != 12 {
		t.Errorf("products after double seed = %d, want 12", len(products))
	}
}
