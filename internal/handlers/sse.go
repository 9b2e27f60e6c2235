package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/services"
)

// SSEHandlers streams the dashboard bundle to browser clients as datastar
// signal patches. Unlike the WebSocket hub there is no inbound traffic; the
// stream sends one bundle on connect and then one per interval.
type SSEHandlers struct {
	stats    *services.Stats
	logger   *slog.Logger
	interval time.Duration
}

func NewSSEHandlers(stats *services.Stats, logger *slog.Logger, interval time.Duration) *SSEHandlers {
	return &SSEHandlers{
		stats:    stats,
		logger:   logger,
		interval: interval,
	}
}

func (h *SSEHandlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	// The stream outlives the server write timeout.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("could not clear write deadline for sse stream", "error", err)
	}

	sse := datastar.NewSSE(w, r)

	if !h.patchDashboard(sse, r) {
		return
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if !h.patchDashboard(sse, r) {
				return
			}
		}
	}
}

func (h *SSEHandlers) patchDashboard(sse *datastar.ServerSentEventGenerator, r *http.Request) bool {
	data, err := h.stats.Dashboard(r.Context())
	if err != nil {
		h.logger.Error("failed to compute dashboard data for sse", "error", err)
		return false
	}

	signals, err := json.Marshal(map[string]any{
		"dashboardData": data,
	})
	if err != nil {
		h.logger.Error("marshal dashboard signals", "error", err)
		return false
	}

	if err := sse.PatchSignals(signals); err != nil {
		return false
	}
	return true
}
