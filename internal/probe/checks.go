package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/signalcraft/signalcraft/internal/domain/model"
)

// Check is one named contract assertion against the server.
type Check struct {
	Name string
	Run  func(ctx context.Context, c *client, cfg Config) error
}

// Expected payload sizes.
const (
	kpiCount     = 4
	seriesLen    = 7
	alertCount   = 2
	newsCount    = 2
	statusPhrase = "SignalCraft API is running"
)

// DefaultChecks lists every check Run performs.
func DefaultChecks() []Check {
	return []Check{
		{Name: "kpi-data", Run: checkKPIs},
		{Name: "chart-data", Run: checkCharts},
		{Name: "alerts", Run: checkAlerts},
		{Name: "news", Run: checkNews},
		{Name: "metrics-accept", Run: checkMetricsAccept},
		{Name: "metrics-reject", Run: checkMetricsReject},
		{Name: "root-page", Run: checkRootPage},
		{Name: "unknown-route", Run: checkUnknownRoute},
		{Name: "cors-preflight", Run: checkPreflight},
		{Name: "stable-bytes", Run: checkStableBytes},
	}
}

func checkKPIs(ctx context.Context, c *client, _ Config) error {
	var body model.KPIResponse
	if err := c.getJSON(ctx, "/api/kpi-data", &body); err != nil {
		return err
	}
	if len(body.KPIs) != kpiCount {
		return fmt.Errorf("want %d kpis, got %d", kpiCount, len(body.KPIs))
	}
	for _, k := range body.KPIs {
		if k.Title == "" || !k.Trend.Valid() {
			return fmt.Errorf("malformed kpi %q (trend %q)", k.Title, k.Trend)
		}
	}
	return nil
}

func checkCharts(ctx context.Context, c *client, _ Config) error {
	var body model.ChartResponse
	if err := c.getJSON(ctx, "/api/chart-data", &body); err != nil {
		return err
	}
	for name, s := range map[string]model.ChartSeries{"revenue": body.Revenue, "orders": body.Orders} {
		if len(s.Labels) != seriesLen {
			return fmt.Errorf("%s: want %d labels, got %d", name, seriesLen, len(s.Labels))
		}
		if len(s.Datasets) == 0 {
			return fmt.Errorf("%s: no datasets", name)
		}
		for _, d := range s.Datasets {
			if len(d.Data) != len(s.Labels) {
				return fmt.Errorf("%s/%s: %d points for %d labels", name, d.Label, len(d.Data), len(s.Labels))
			}
		}
	}
	return nil
}

func checkAlerts(ctx context.Context, c *client, _ Config) error {
	var body model.AlertsResponse
	if err := c.getJSON(ctx, "/api/alerts", &body); err != nil {
		return err
	}
	ids := make([]int, 0, len(body.Alerts))
	for _, a := range body.Alerts {
		ids = append(ids, a.ID)
	}
	return uniqueIDs("alerts", ids, alertCount)
}

func checkNews(ctx context.Context, c *client, _ Config) error {
	var body model.NewsResponse
	if err := c.getJSON(ctx, "/api/news", &body); err != nil {
		return err
	}
	ids := make([]int, 0, len(body.News))
	for _, n := range body.News {
		if !n.Sentiment.Valid() || n.Relevance < 0 || n.Relevance > 100 {
			return fmt.Errorf("news %d: sentiment %q relevance %d", n.ID, n.Sentiment, n.Relevance)
		}
		ids = append(ids, n.ID)
	}
	return uniqueIDs("news", ids, newsCount)
}

func uniqueIDs(kind string, ids []int, want int) error {
	if len(ids) != want {
		return fmt.Errorf("want %d %s, got %d", want, kind, len(ids))
	}
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%s: duplicate id %d", kind, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func checkMetricsAccept(ctx context.Context, c *client, _ Config) error {
	resp, err := c.do(ctx, http.MethodPost, "/dashboard/metrics", []byte(`{"business_id":"probe"}`), nil)
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK {
		return fmt.Errorf("status %d", resp.status)
	}
	var ack model.MetricsAck
	if err := json.Unmarshal(resp.body, &ack); err != nil {
		return fmt.Errorf("decode ack: %w", err)
	}
	if ack.Status != model.StatusOK {
		return fmt.Errorf("ack status %q", ack.Status)
	}
	return nil
}

func checkMetricsReject(ctx context.Context, c *client, _ Config) error {
	for _, body := range []string{`{}`, `{"business_id":42}`} {
		resp, err := c.do(ctx, http.MethodPost, "/dashboard/metrics", []byte(body), nil)
		if err != nil {
			return err
		}
		if resp.status != http.StatusUnprocessableEntity {
			return fmt.Errorf("%s: want 422, got %d", body, resp.status)
		}
	}
	return nil
}

// checkRootPage accepts a 404 when the index file is absent, but never the
// JSON status message.
func checkRootPage(ctx context.Context, c *client, _ Config) error {
	resp, err := c.get(ctx, "/")
	if err != nil {
		return err
	}
	if bytes.Contains(resp.body, []byte(statusPhrase)) {
		return fmt.Errorf("GET / returned the JSON status instead of the index page")
	}
	switch resp.status {
	case http.StatusOK:
		if !strings.HasPrefix(resp.header.Get("Content-Type"), "text/html") {
			return fmt.Errorf("GET /: content type %q", resp.header.Get("Content-Type"))
		}
		return nil
	case http.StatusNotFound:
		return nil
	default:
		return fmt.Errorf("GET /: status %d", resp.status)
	}
}

func checkUnknownRoute(ctx context.Context, c *client, _ Config) error {
	resp, err := c.get(ctx, "/definitely-not-a-route")
	if err != nil {
		return err
	}
	if resp.status != http.StatusNotFound {
		return fmt.Errorf("want 404, got %d", resp.status)
	}
	return nil
}

func checkPreflight(ctx context.Context, c *client, _ Config) error {
	const origin = "https://probe.invalid"
	resp, err := c.do(ctx, http.MethodOptions, "/dashboard/metrics", nil, map[string]string{
		"Origin":                         origin,
		"Access-Control-Request-Method":  http.MethodPost,
		"Access-Control-Request-Headers": "Content-Type, X-Probe",
	})
	if err != nil {
		return err
	}
	if resp.status != http.StatusOK {
		return fmt.Errorf("preflight status %d", resp.status)
	}
	if got := resp.header.Get("Access-Control-Allow-Origin"); got != origin && got != "*" {
		return fmt.Errorf("allow-origin %q", got)
	}
	return nil
}

func checkStableBytes(ctx context.Context, c *client, cfg Config) error {
	for _, path := range []string{"/api/kpi-data", "/api/chart-data", "/api/alerts", "/api/news"} {
		var first []byte
		for i := 0; i < cfg.Repeat; i++ {
			resp, err := c.get(ctx, path)
			if err != nil {
				return err
			}
			if i == 0 {
				first = resp.body
				continue
			}
			if !bytes.Equal(first, resp.body) {
				return fmt.Errorf("%s: response %d differs from the first", path, i+1)
			}
		}
	}
	return nil
}
