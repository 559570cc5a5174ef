package model

// KPIResponse is the body of GET /api/kpi-data.
type KPIResponse struct {
	KPIs []KPI `json:"kpis"`
}

// ChartResponse is the body of GET /api/chart-data.
type ChartResponse struct {
	Revenue ChartSeries `json:"revenue"`
	Orders  ChartSeries `json:"orders"`
}

// AlertsResponse is the body of GET /api/alerts.
type AlertsResponse struct {
	Alerts []Alert `json:"alerts"`
}

// NewsResponse is the body of GET /api/news.
type NewsResponse struct {
	News []NewsItem `json:"news"`
}

// MetricsAck is the body returned for every accepted metrics request.
type MetricsAck struct {
	Status string   `json:"status"`
	Data   struct{} `json:"data"`
}

// StatusOK is the acknowledgment status.
const StatusOK = "ok"

// NewMetricsAck returns {"status":"ok","data":{}}.
func NewMetricsAck() MetricsAck {
	return MetricsAck{Status: StatusOK}
}

// StatusMessage is the JSON body of the root status route.
type StatusMessage struct {
	Message string `json:"message"`
}
