package api

import (
	"context"
	"net/http"

	"github.com/signalcraft/signalcraft/internal/domain/model"
	"github.com/signalcraft/signalcraft/pkg/logger"
)

// DashboardDependencies supplies the dashboard payloads.
type DashboardDependencies interface {
	KPIs(ctx context.Context) (model.KPIResponse, error)
	Charts(ctx context.Context) (model.ChartResponse, error)
	Alerts(ctx context.Context) (model.AlertsResponse, error)
	News(ctx context.Context) (model.NewsResponse, error)
}

// DashboardHandler serves the read-only dashboard payloads.
type DashboardHandler struct {
	deps   DashboardDependencies
	logger logger.Logger
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps DashboardDependencies, l logger.Logger) *DashboardHandler {
	return &DashboardHandler{deps: deps, logger: l}
}

// HandleKPIData handles GET /api/kpi-data.
func (h *DashboardHandler) HandleKPIData(w http.ResponseWriter, r *http.Request) {
	resp, err := h.deps.KPIs(r.Context())
	h.respond(w, r, "api.get_kpi_data", resp, err)
}

// HandleChartData handles GET /api/chart-data.
func (h *DashboardHandler) HandleChartData(w http.ResponseWriter, r *http.Request) {
	resp, err := h.deps.Charts(r.Context())
	h.respond(w, r, "api.get_chart_data", resp, err)
}

// HandleAlerts handles GET /api/alerts.
func (h *DashboardHandler) HandleAlerts(w http.ResponseWriter, r *http.Request) {
	resp, err := h.deps.Alerts(r.Context())
	h.respond(w, r, "api.get_alerts", resp, err)
}

// HandleNews handles GET /api/news.
func (h *DashboardHandler) HandleNews(w http.ResponseWriter, r *http.Request) {
	resp, err := h.deps.News(r.Context())
	h.respond(w, r, "api.get_news", resp, err)
}

func (h *DashboardHandler) respond(w http.ResponseWriter, r *http.Request, op string, resp any, err error) {
	if err != nil {
		h.logger.Error(r.Context(), "dashboard payload failed", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
