package store

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"golang.org/x/crypto/bcrypt"

	"sales-dashboard/internal/models"
)

const seedTransactionCount = 200

func intPtr(v int) *int { return &v }

// Seed populates an empty store with a sample catalog, users and about 200
// transactions spread over the last 7 days. Safe to call on every start;
// it is a no-op when products already exist.
func Seed(ctx context.Context, s Store, logger *slog.Logger) error {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return err
	}
	if len(products) > 0 {
		return nil
	}

	logger.Info("seeding sample data")

	sampleUsers := []models.User{
		{Username: "john_doe", IsActive: true, Balance: 5000000},
		{Username: "jane_smith", IsActive: true, Balance: 3500000},
		{Username: "mike_johnson", IsActive: true, Balance: 2000000},
		{Username: "sarah_williams", IsActive: false, Balance: 1500000},
		{Username: "david_brown", IsActive: true, Balance: 4500000},
	}

	users := make([]models.User, 0, len(sampleUsers))
	for _, u := range sampleUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		u.Password = string(hash)

		created, err := s.CreateUser(ctx, u)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", u.Username, err)
		}
		users = append(users, created)
	}

	sampleProducts := []models.Product{
		{SKU: "MOB-XPRO", Name: "Smartphone X Pro", Description: "Latest flagship smartphone", Category: "Mobile", Price: 7500000, SellingPrice: 12999000, Stock: intPtr(45)},
		{SKU: "AUD-EBUD", Name: "Wireless Earbuds", Description: "Premium wireless earbuds", Category: "Audio", Price: 1500000, SellingPrice: 3899000, Stock: intPtr(75)},
		{SKU: "WEA-SW5", Name: "Smart Watch Series 5", Description: "Advanced smartwatch", Category: "Wearables", Price: 2000000, SellingPrice: 4500000, Stock: intPtr(30)},
		{SKU: "AUD-BTSPK", Name: "Bluetooth Speaker", Description: "Portable speaker with HD sound", Category: "Audio", Price: 800000, SellingPrice: 1899000, Stock: intPtr(60)},
		{SKU: "ELC-LAPRO", Name: "Premium Laptop Pro", Description: "High-performance laptop", Category: "Electronics", Price: 10000000, SellingPrice: 15499000, Stock: intPtr(25)},
		{SKU: "AUD-NCHP", Name: "Wireless Noise-Cancelling Headphones", Description: "Premium headphones", Category: "Audio", Price: 2250000, SellingPrice: 3899000, Stock: intPtr(40)},
		{SKU: "ELC-TV55", Name: "Ultra HD Smart TV 55\"", Description: "4K Smart TV", Category: "Electronics", Price: 5300000, SellingPrice: 8299000, Stock: intPtr(20)},
		{SKU: "HOM-COFFEE", Name: "Premium Coffee Machine", Description: "Professional coffee maker", Category: "Home Appliances", Price: 3800000, SellingPrice: 6499000, Stock: intPtr(15)},
		{SKU: "ELC-MON27", Name: "Ultra HD Monitor 27\"", Description: "4K Monitor", Category: "Electronics", Price: 3500000, SellingPrice: 5899000, Stock: intPtr(3)},
		{SKU: "GAM-KBRGB", Name: "Gaming Keyboard RGB", Description: "Mechanical gaming keyboard", Category: "Gaming", Price: 800000, SellingPrice: 1499000, Stock: intPtr(5)},
		{SKU: "AUD-BTHP", Name: "Bluetooth Headphones", Description: "Wireless headphones", Category: "Audio", Price: 600000, SellingPrice: 1299000, Stock: intPtr(12)},
		{SKU: "STO-SSD1T", Name: "External SSD 1TB", Description: "Fast external storage", Category: "Storage", Price: 1200000, SellingPrice: 1899000, Stock: intPtr(15)},
	}

	catalog := make([]models.Product, 0, len(sampleProducts))
	for _, p := range sampleProducts {
		created, err := s.CreateProduct(ctx, p)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.SKU, err)
		}
		catalog = append(catalog, created)
	}

	now := time.Now()
	for i := 0; i < seedTransactionCount; i++ {
		user := users[rand.IntN(len(users))]
		product := catalog[rand.IntN(len(catalog))]

		status := models.StatusSuccess
		if rand.Float64() < 0.1 {
			status = models.StatusFailed
		}

		tx := models.Transaction{
			UserID:       user.ID,
			SKU:          product.SKU,
			Quantity:     rand.IntN(3) + 1,
			Status:       status,
			Price:        product.Price,
			SellingPrice: product.SellingPrice,
			Date:         now.AddDate(0, 0, -rand.IntN(7)),
		}

		if _, err := s.CreateTransaction(ctx, tx); err != nil {
			return fmt.Errorf("seed transaction: %w", err)
		}
	}

	logger.Info("sample data seeded",
		"users", len(users),
		"products", len(catalog),
		"transactions", seedTransactionCount,
	)
	return nil
}
