package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/store"
)

// APIHandlers serves the synchronous request/response side of the dashboard:
// one endpoint per statistic plus raw entity listings.
type APIHandlers struct {
	stats  *services.Stats
	store  store.Store
	logger *slog.Logger
}

func NewAPIHandlers(stats *services.Stats, st store.Store, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		stats:  stats,
		store:  st,
		logger: logger,
	}
}

func (h *APIHandlers) HandleSalesStats(w http.ResponseWriter, r *http.Request) {
	data, err := h.stats.SalesStats(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch sales statistics")
		return
	}
	errors.WriteJSON(w, data)
}

func (h *APIHandlers) HandleUserStats(w http.ResponseWriter, r *http.Request) {
	data, err := h.stats.UserStats(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch user statistics")
		return
	}
	errors.WriteJSON(w, data)
}

func (h *APIHandlers) HandleProductStats(w http.ResponseWriter, r *http.Request) {
	data, err := h.stats.ProductStats(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch product statistics")
		return
	}
	errors.WriteJSON(w, data)
}

func (h *APIHandlers) HandleTransactionStats(w http.ResponseWriter, r *http.Request) {
	data, err := h.stats.TransactionStats(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch transaction statistics")
		return
	}
	errors.WriteJSON(w, data)
}

func (h *APIHandlers) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch users")
		return
	}
	errors.WriteJSON(w, users)
}

func (h *APIHandlers) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.store.ListProducts(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch products")
		return
	}
	errors.WriteJSON(w, products)
}

func (h *APIHandlers) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.store.ListTransactions(r.Context())
	if err != nil {
		h.writeError(w, r, err, "Failed to fetch transactions")
		return
	}
	errors.WriteJSON(w, transactions)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	errors.WriteJSON(w, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (h *APIHandlers) writeError(w http.ResponseWriter, r *http.Request, err error, message string) {
	requestID := observability.GetRequestID(r.Context())
	errors.WriteError(w, h.logger, errors.InternalWrap(err, message), requestID)
}
