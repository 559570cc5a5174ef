// Package repository defines the dashboard payload store.
package repository

import (
	"context"

	"github.com/signalcraft/signalcraft/internal/domain/model"
)

// Store provides read access to the dashboard payloads.
type Store interface {
	// KPIs returns the headline indicators in display order.
	KPIs(ctx context.Context) ([]model.KPI, error)

	// Charts returns the revenue and orders series.
	Charts(ctx context.Context) (model.ChartResponse, error)

	// Alerts returns the active alerts.
	Alerts(ctx context.Context) ([]model.Alert, error)

	// News returns the news items relevant to the business.
	News(ctx context.Context) ([]model.NewsItem, error)
}
