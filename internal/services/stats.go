package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"sales-dashboard/internal/models"
	"sales-dashboard/internal/store"
)

const (
	bestSellingLimit    = 4
	mostProfitableLimit = 5
	lowStockLimit       = 4
	lowStockThreshold   = 15
	dailyWindowDays     = 7
)

// Stats computes the dashboard statistics views. It is stateless: every call
// reads a fresh snapshot from the store and recomputes from scratch, so the
// results always reflect the current data.
type Stats struct {
	store  store.Store
	logger *slog.Logger
}

func NewStats(st store.Store, logger *slog.Logger) *Stats {
	return &Stats{
		store:  st,
		logger: logger,
	}
}

func (s *Stats) SalesStats(ctx context.Context) (models.SalesStats, error) {
	transactions, err := s.store.ListTransactions(ctx)
	if err != nil {
		return models.SalesStats{}, fmt.Errorf("list transactions: %w", err)
	}
	return computeSalesStats(transactions), nil
}

func (s *Stats) UserStats(ctx context.Context) (models.UserStats, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return models.UserStats{}, fmt.Errorf("list users: %w", err)
	}
	return computeUserStats(users), nil
}

func (s *Stats) ProductStats(ctx context.Context) (models.ProductStats, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return models.ProductStats{}, fmt.Errorf("list products: %w", err)
	}
	transactions, err := s.store.ListTransactions(ctx)
	if err != nil {
		return models.ProductStats{}, fmt.Errorf("list transactions: %w", err)
	}
	return computeProductStats(products, transactions), nil
}

func (s *Stats) TransactionStats(ctx context.Context) (models.TransactionStats, error) {
	transactions, err := s.store.ListTransactions(ctx)
	if err != nil {
		return models.TransactionStats{}, fmt.Errorf("list transactions: %w", err)
	}
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return models.TransactionStats{}, fmt.Errorf("list products: %w", err)
	}
	return computeTransactionStats(transactions, products, time.Now()), nil
}

// Dashboard computes all four views concurrently and bundles them for the
// push channel. Any store failure fails the whole bundle; there are no
// partial results.
func (s *Stats) Dashboard(ctx context.Context) (models.DashboardData, error) {
	var data models.DashboardData

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		data.SalesStats, err = s.SalesStats(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.UserStats, err = s.UserStats(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.ProductStats, err = s.ProductStats(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		data.TransactionStats, err = s.TransactionStats(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return models.DashboardData{}, err
	}
	return data, nil
}

func computeSalesStats(transactions []models.Transaction) models.SalesStats {
	var stats models.SalesStats

	for _, tx := range transactions {
		if tx.Status != models.StatusSuccess {
			continue
		}
		qty := float64(tx.Quantity)
		stats.TotalTransactions++
		stats.TotalRevenue += tx.SellingPrice * qty
		stats.TotalProfit += (tx.SellingPrice - tx.Price) * qty
	}

	return stats
}

func computeUserStats(users []models.User) models.UserStats {
	var stats models.UserStats

	var balanceSum float64
	for _, user := range users {
		if !user.IsActive {
			continue
		}
		stats.TotalActiveUsers++
		balanceSum += user.Balance
	}

	// Average is defined as zero for an empty active set.
	if stats.TotalActiveUsers > 0 {
		stats.AverageBalance = balanceSum / float64(stats.TotalActiveUsers)
	}

	return stats
}

// productAccumulator collects per-SKU totals in first-encounter order so the
// stable sorts below produce deterministic tie-breaks.
type productAccumulator struct {
	product      models.Product
	soldQuantity int
	totalProfit  float64
}

func computeProductStats(products []models.Product, transactions []models.Transaction) models.ProductStats {
	bySKU := make(map[string]models.Product, len(products))
	for _, p := range products {
		bySKU[p.SKU] = p
	}

	order := make([]string, 0, len(products))
	groups := make(map[string]*productAccumulator, len(products))

	for _, tx := range transactions {
		if tx.Status != models.StatusSuccess {
			continue
		}
		product, ok := bySKU[tx.SKU]
		if !ok {
			// Transactions referencing unknown SKUs never contribute.
			continue
		}

		acc := groups[tx.SKU]
		if acc == nil {
			acc = &productAccumulator{product: product}
			groups[tx.SKU] = acc
			order = append(order, tx.SKU)
		}
		acc.soldQuantity += tx.Quantity
		acc.totalProfit += (tx.SellingPrice - tx.Price) * float64(tx.Quantity)
	}

	bestSelling := make([]models.ProductSales, 0, len(order))
	mostProfitable := make([]models.ProductProfit, 0, len(order))
	for _, sku := range order {
		acc := groups[sku]
		bestSelling = append(bestSelling, models.ProductSales{
			Product:      acc.product,
			SoldQuantity: acc.soldQuantity,
		})
		mostProfitable = append(mostProfitable, models.ProductProfit{
			Product:      acc.product,
			ProfitMargin: profitMargin(acc.product),
			TotalSales:   acc.soldQuantity,
			TotalProfit:  acc.totalProfit,
		})
	}

	slices.SortStableFunc(bestSelling, func(a, b models.ProductSales) int {
		return b.SoldQuantity - a.SoldQuantity
	})
	slices.SortStableFunc(mostProfitable, func(a, b models.ProductProfit) int {
		if a.TotalProfit > b.TotalProfit {
			return -1
		}
		if a.TotalProfit < b.TotalProfit {
			return 1
		}
		return 0
	})

	lowStock := make([]models.Product, 0, lowStockLimit)
	for _, p := range products {
		if p.Stock != nil && *p.Stock <= lowStockThreshold {
			lowStock = append(lowStock, p)
		}
	}
	slices.SortStableFunc(lowStock, func(a, b models.Product) int {
		return *a.Stock - *b.Stock
	})

	return models.ProductStats{
		BestSelling:    truncate(bestSelling, bestSellingLimit),
		MostProfitable: truncate(mostProfitable, mostProfitableLimit),
		LowStock:       truncate(lowStock, lowStockLimit),
	}
}

func computeTransactionStats(transactions []models.Transaction, products []models.Product, now time.Time) models.TransactionStats {
	bySKU := make(map[string]models.Product, len(products))
	for _, p := range products {
		bySKU[p.SKU] = p
	}

	// Fixed 7-day series keyed by local calendar date, oldest first.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	daily := make([]models.DailyCount, dailyWindowDays)
	bucket := make(map[string]int, dailyWindowDays)
	for i := range daily {
		date := today.AddDate(0, 0, i-(dailyWindowDays-1)).Format(time.DateOnly)
		daily[i] = models.DailyCount{Date: date}
		bucket[date] = i
	}

	categoryOrder := make([]string, 0)
	categoryCounts := make(map[string]int)

	for _, tx := range transactions {
		if tx.Status != models.StatusSuccess {
			continue
		}

		// Transactions outside the window simply don't count.
		date := tx.Date.In(now.Location()).Format(time.DateOnly)
		if i, ok := bucket[date]; ok {
			daily[i].Count++
		}

		product, ok := bySKU[tx.SKU]
		if !ok {
			continue
		}
		if _, seen := categoryCounts[product.Category]; !seen {
			categoryOrder = append(categoryOrder, product.Category)
		}
		categoryCounts[product.Category] += tx.Quantity
	}

	distribution := make([]models.CategoryCount, 0, len(categoryOrder))
	for _, category := range categoryOrder {
		distribution = append(distribution, models.CategoryCount{
			Category: category,
			Count:    categoryCounts[category],
		})
	}
	slices.SortStableFunc(distribution, func(a, b models.CategoryCount) int {
		return b.Count - a.Count
	})

	return models.TransactionStats{
		DailyTransactions:    daily,
		CategoryDistribution: distribution,
	}
}

// profitMargin is a percentage of the current catalog prices, deliberately
// independent of the transaction-time prices used for profit totals. It is
// nil when the selling price is zero: the margin is undefined, not infinite.
func profitMargin(p models.Product) *float64 {
	if p.SellingPrice == 0 {
		return nil
	}
	margin := (p.SellingPrice - p.Price) / p.SellingPrice * 100
	return &margin
}

func truncate[T any](s []T, limit int) []T {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
