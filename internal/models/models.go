package models

import "time"

// Transaction lifecycle. A transaction is created as pending and moves to
// exactly one terminal state; only successful transactions feed the
// dashboard aggregates.
const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

type User struct {
	ID       int     `json:"id" db:"id"`
	Username string  `json:"username" db:"username"`
	Password string  `json:"-" db:"password"`
	IsActive bool    `json:"isActive" db:"is_active"`
	Balance  float64 `json:"balance" db:"balance"`
}

// Product describes a catalog entry. SKU is the stable join key used by
// transactions, independent of the numeric row ID. Price is the cost price;
// SellingPrice is the listed price. A nil Stock means unlimited stock.
type Product struct {
	ID           int     `json:"id" db:"id"`
	SKU          string  `json:"sku" db:"sku"`
	Name         string  `json:"name" db:"name"`
	Description  string  `json:"description" db:"description"`
	Category     string  `json:"category" db:"category"`
	Price        float64 `json:"price" db:"price"`
	SellingPrice float64 `json:"sellingPrice" db:"selling_price"`
	Stock        *int    `json:"stock" db:"stock"`
}

// Transaction records a purchase. Price and SellingPrice are copied from the
// product at purchase time so later catalog price changes do not rewrite
// historical statistics.
type Transaction struct {
	ID           int       `json:"id" db:"id"`
	UserID       int       `json:"userId" db:"user_id"`
	SKU          string    `json:"sku" db:"sku"`
	Quantity     int       `json:"quantity" db:"quantity"`
	Status       string    `json:"status" db:"status"`
	Price        float64   `json:"price" db:"price"`
	SellingPrice float64   `json:"sellingPrice" db:"selling_price"`
	Date         time.Time `json:"date" db:"date"`
}

type SalesStats struct {
	TotalTransactions int     `json:"totalTransactions"`
	TotalRevenue      float64 `json:"totalRevenue"`
	TotalProfit       float64 `json:"totalProfit"`
}

type UserStats struct {
	TotalActiveUsers int     `json:"totalActiveUsers"`
	AverageBalance   float64 `json:"averageBalance"`
}

type ProductSales struct {
	Product      Product `json:"product"`
	SoldQuantity int     `json:"soldQuantity"`
}

// ProductProfit ranks a product by historical profit. ProfitMargin is
// computed from the current catalog prices and is nil when the selling
// price is zero (margin undefined).
type ProductProfit struct {
	Product      Product  `json:"product"`
	ProfitMargin *float64 `json:"profitMargin"`
	TotalSales   int      `json:"totalSales"`
	TotalProfit  float64  `json:"totalProfit"`
}

type ProductStats struct {
	BestSelling    []ProductSales  `json:"bestSelling"`
	MostProfitable []ProductProfit `json:"mostProfitable"`
	LowStock       []Product       `json:"lowStock"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type TransactionStats struct {
	DailyTransactions    []DailyCount    `json:"dailyTransactions"`
	CategoryDistribution []CategoryCount `json:"categoryDistribution"`
}

// DashboardData bundles all four statistics views for the push channel.
type DashboardData struct {
	SalesStats       SalesStats       `json:"salesStats"`
	UserStats        UserStats        `json:"userStats"`
	ProductStats     ProductStats     `json:"productStats"`
	TransactionStats TransactionStats `json:"transactionStats"`
}
