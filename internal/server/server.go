package server

import (
	"log/slog"
	"net/http"

	"sales-dashboard/internal/handlers"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/store"
)

// Server wires the delivery layer: REST statistics endpoints, the WebSocket
// push channel and the SSE stream.
type Server struct {
	mux         *http.ServeMux
	logger      *slog.Logger
	apiHandlers *handlers.APIHandlers
	sseHandlers *handlers.SSEHandlers
	hub         *handlers.Hub
}

func NewServer(stats *services.Stats, st store.Store, hub *handlers.Hub, sseHandlers *handlers.SSEHandlers, logger *slog.Logger) *Server {
	s := &Server{
		mux:         http.NewServeMux(),
		logger:      logger,
		apiHandlers: handlers.NewAPIHandlers(stats, st, logger),
		sseHandlers: sseHandlers,
		hub:         hub,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("GET /health", s.apiHandlers.HandleHealth)

	// Dashboard statistics, one endpoint per view
	s.mux.HandleFunc("GET /api/stats/sales", s.apiHandlers.HandleSalesStats)
	s.mux.HandleFunc("GET /api/stats/users", s.apiHandlers.HandleUserStats)
	s.mux.HandleFunc("GET /api/stats/products", s.apiHandlers.HandleProductStats)
	s.mux.HandleFunc("GET /api/stats/transactions", s.apiHandlers.HandleTransactionStats)

	// Raw entity listings
	s.mux.HandleFunc("GET /api/users", s.apiHandlers.HandleListUsers)
	s.mux.HandleFunc("GET /api/products", s.apiHandlers.HandleListProducts)
	s.mux.HandleFunc("GET /api/transactions", s.apiHandlers.HandleListTransactions)

	// Live update channels
	s.mux.HandleFunc("GET /ws", s.hub.HandleWS)
	s.mux.HandleFunc("GET /sse/dashboard", s.sseHandlers.HandleDashboard)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
