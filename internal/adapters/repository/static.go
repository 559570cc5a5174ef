package repository

import (
	"context"
	"slices"

	"github.com/signalcraft/signalcraft/internal/domain/model"
)

var (
	staticKPIs = []model.KPI{
		{Title: "Total Revenue", Value: 24750, Unit: "$", Change: 12.5, Trend: model.TrendUp},
		{Title: "New Customers", Value: 156, Change: -3.2, Trend: model.TrendDown},
		{Title: "Orders", Value: 89, Change: 8.1, Trend: model.TrendUp},
		{Title: "Avg Order Value", Value: 278, Unit: "$", Change: 5.4, Trend: model.TrendUp},
	}

	staticRevenue = model.ChartSeries{
		Labels: []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul"},
		Datasets: []model.Dataset{{
			Label:           "Revenue",
			Data:            []float64{12000, 19000, 15000, 25000, 22000, 30000, 24750},
			BorderColor:     "#4f46e5",
			BackgroundColor: "rgba(79, 70, 229, 0.1)",
			Fill:            true,
		}},
	}

	staticOrders = model.ChartSeries{
		Labels: []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		Datasets: []model.Dataset{{
			Label:           "Orders",
			Data:            []float64{12, 19, 15, 25, 22, 30, 28},
			BorderColor:     "#f59e0b",
			BackgroundColor: "rgba(245, 158, 11, 0.1)",
		}},
	}

	staticAlerts = []model.Alert{
		{
			ID:      1,
			Type:    model.AlertWarning,
			Title:   "Revenue below target",
			Message: "Daily revenue is 15% below your target of $1,000",
			Time:    "2 hours ago",
		},
		{
			ID:      2,
			Type:    model.AlertInfo,
			Title:   "New forecast available",
			Message: "Your 30-day revenue forecast has been updated",
			Time:    "4 hours ago",
		},
	}

	staticNews = []model.NewsItem{
		{
			ID:        1,
			Title:     "Local Business Growth Trends Show Positive Outlook",
			Summary:   "Recent analysis indicates strong growth potential for small businesses in the retail sector...",
			Sentiment: model.SentimentPositive,
			Relevance: 85,
			Time:      "1 hour ago",
		},
		{
			ID:        2,
			Title:     "Supply Chain Disruptions May Impact Q2 Performance",
			Summary:   "Industry experts warn of potential delays that could affect inventory levels...",
			Sentiment: model.SentimentNegative,
			Relevance: 72,
			Time:      "3 hours ago",
		},
	}
)

// StaticStore serves the hand-authored dashboard payloads. Each call returns
// fresh copies so a caller cannot alter what later requests see.
type StaticStore struct{}

// NewStatic returns the fixed payload store.
func NewStatic() *StaticStore {
	return &StaticStore{}
}

var _ Store = (*StaticStore)(nil)

// KPIs implements Store.
func (s *StaticStore) KPIs(ctx context.Context) ([]model.KPI, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(staticKPIs), nil
}

// Charts implements Store.
func (s *StaticStore) Charts(ctx context.Context) (model.ChartResponse, error) {
	if err := ctx.Err(); err != nil {
		return model.ChartResponse{}, err
	}
	return model.ChartResponse{
		Revenue: cloneSeries(staticRevenue),
		Orders:  cloneSeries(staticOrders),
	}, nil
}

// Alerts implements Store.
func (s *StaticStore) Alerts(ctx context.Context) ([]model.Alert, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(staticAlerts), nil
}

// News implements Store.
func (s *StaticStore) News(ctx context.Context) ([]model.NewsItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(staticNews), nil
}

func cloneSeries(in model.ChartSeries) model.ChartSeries {
	out := model.ChartSeries{
		Labels:   slices.Clone(in.Labels),
		Datasets: make([]model.Dataset, len(in.Datasets)),
	}
	for i, d := range in.Datasets {
		d.Data = slices.Clone(d.Data)
		out.Datasets[i] = d
	}
	return out
}
