// Package model contains the dashboard payload records passed between layers.
// Every value is immutable once built; handlers only encode them.
package model

// Trend is the direction of a KPI change.
type Trend string

const (
	TrendUp   Trend = "up"
	TrendDown Trend = "down"
)

// Valid reports whether t is one of the known trend directions.
func (t Trend) Valid() bool {
	return t == TrendUp || t == TrendDown
}

// KPI is a single labeled metric with its period-over-period change.
type KPI struct {
	Title  string  `json:"title"`
	Value  float64 `json:"value"`
	Unit   string  `json:"unit,omitempty"`
	Change float64 `json:"change"` // percent
	Trend  Trend   `json:"trend"`
}

// Dataset is one line of a chart.
type Dataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BorderColor     string    `json:"borderColor"`
	BackgroundColor string    `json:"backgroundColor"`
	Fill            bool      `json:"fill,omitempty"`
}

// ChartSeries is a labeled x-axis with one or more datasets over it.
type ChartSeries struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

// AlertType classifies an alert.
type AlertType string

const (
	AlertWarning AlertType = "warning"
	AlertInfo    AlertType = "info"
)

// Alert is a dashboard notification.
type Alert struct {
	ID      int       `json:"id"`
	Type    AlertType `json:"type"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Time    string    `json:"time"` // relative, e.g. "2 hours ago"
}

// Sentiment is the tone of a news item.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// Valid reports whether s is one of the known sentiments.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// NewsItem is a headline with sentiment and a 0-100 relevance score.
type NewsItem struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Sentiment Sentiment `json:"sentiment"`
	Relevance int       `json:"relevance"`
	Time      string    `json:"time"`
}

// MetricsRequest is the body of POST /dashboard/metrics. The id is accepted
// and otherwise ignored.
type MetricsRequest struct {
	BusinessID string `json:"business_id"`
}
