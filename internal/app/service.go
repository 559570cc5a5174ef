// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"

	"github.com/signalcraft/signalcraft/internal/adapters/repository"
	"github.com/signalcraft/signalcraft/internal/domain/model"
	"github.com/signalcraft/signalcraft/pkg/logger"
	"github.com/signalcraft/signalcraft/pkg/metrics"
)

// Dataset names used for logging and the payloads_served metric.
const (
	DatasetKPIs   = "kpis"
	DatasetCharts = "charts"
	DatasetAlerts = "alerts"
	DatasetNews   = "news"
)

// StatusMessage is the text returned by the root status route.
const StatusMessage = "SignalCraft API is running"

// Service implements the API dependencies for the dashboard.
type Service struct {
	store  repository.Store
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore replaces the payload store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service backed by the static store.
func New(opts ...Option) *Service {
	s := &Service{
		store: repository.NewStatic(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// KPIs returns the KPI payload.
func (s *Service) KPIs(ctx context.Context) (model.KPIResponse, error) {
	kpis, err := s.store.KPIs(ctx)
	if err != nil {
		return model.KPIResponse{}, s.fail(ctx, DatasetKPIs, err)
	}
	s.served(ctx, DatasetKPIs)
	return model.KPIResponse{KPIs: kpis}, nil
}

// Charts returns the chart payload.
func (s *Service) Charts(ctx context.Context) (model.ChartResponse, error) {
	charts, err := s.store.Charts(ctx)
	if err != nil {
		return model.ChartResponse{}, s.fail(ctx, DatasetCharts, err)
	}
	s.served(ctx, DatasetCharts)
	return charts, nil
}

// Alerts returns the alerts payload.
func (s *Service) Alerts(ctx context.Context) (model.AlertsResponse, error) {
	alerts, err := s.store.Alerts(ctx)
	if err != nil {
		return model.AlertsResponse{}, s.fail(ctx, DatasetAlerts, err)
	}
	s.served(ctx, DatasetAlerts)
	return model.AlertsResponse{Alerts: alerts}, nil
}

// News returns the news payload.
func (s *Service) News(ctx context.Context) (model.NewsResponse, error) {
	news, err := s.store.News(ctx)
	if err != nil {
		return model.NewsResponse{}, s.fail(ctx, DatasetNews, err)
	}
	s.served(ctx, DatasetNews)
	return model.NewsResponse{News: news}, nil
}

// SubmitMetrics acknowledges a metrics request. The business id is logged
// and otherwise ignored.
func (s *Service) SubmitMetrics(ctx context.Context, req model.MetricsRequest) model.MetricsAck {
	s.logger.Debug(ctx, "metrics request accepted", logger.String("business_id", req.BusinessID))
	metrics.RecordMetricsSubmission()
	return model.NewMetricsAck()
}

// Status returns the root status message.
func (s *Service) Status(_ context.Context) model.StatusMessage {
	return model.StatusMessage{Message: StatusMessage}
}

func (s *Service) served(ctx context.Context, dataset string) {
	metrics.RecordPayloadServed(dataset)
	s.logger.Debug(ctx, "payload served", logger.String("dataset", dataset))
}

func (s *Service) fail(ctx context.Context, dataset string, err error) error {
	s.logger.Error(ctx, "payload lookup failed", logger.String("dataset", dataset), logger.Error(err))
	return fmt.Errorf("service.%s: %w", dataset, err)
}
