package probe

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/signalcraft/signalcraft/pkg/logger"
)

// Run checks service health and then executes checks over a worker pool.
// It returns the collected stats, and ErrChecksFailed if any check failed.
func Run(ctx context.Context, cfg Config, checks []Check) (*Stats, error) {
	cfg = cfg.withDefaults()
	if len(checks) == 0 {
		checks = DefaultChecks()
	}
	log := logger.Get().Named("probe")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("checks", len(checks)),
		logger.Int("workers", cfg.Workers),
		logger.String("timeout", cfg.Timeout.String()))

	c := newClient(cfg.BaseURL, cfg.Timeout)
	if err := checkServiceHealth(ctx, c); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	results := runChecks(ctx, c, cfg, checks)

	stats.Results = results
	stats.Checks = len(results)
	for _, r := range results {
		if r.Err != nil {
			stats.Failed++
			log.Error(ctx, "check failed", logger.String("check", r.Name), logger.Error(r.Err))
			continue
		}
		stats.Passed++
		if cfg.Verbose {
			log.Info(ctx, "check passed", logger.String("check", r.Name), logger.String("duration", r.Duration.String()))
		}
	}
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	log.Info(ctx, "final statistics",
		logger.Int("checks", stats.Checks),
		logger.Int("passed", stats.Passed),
		logger.Int("failed", stats.Failed),
		logger.String("duration", stats.Duration.String()))

	if stats.Failed > 0 {
		return stats, fmt.Errorf("%w: %d of %d", ErrChecksFailed, stats.Failed, stats.Checks)
	}
	return stats, nil
}

// runChecks fans checks out to cfg.Workers goroutines. Results keep the
// order of checks.
func runChecks(ctx context.Context, c *client, cfg Config, checks []Check) []Result {
	results := make([]Result, len(checks))
	jobs := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				ch := checks[idx]
				start := time.Now()
				err := ctx.Err()
				if err == nil {
					err = ch.Run(ctx, c, cfg)
				}
				results[idx] = Result{Name: ch.Name, Err: err, Duration: time.Since(start)}
			}
		}()
	}

	for i := range checks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, c *client) error {
	resp, err := c.get(ctx, "/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if resp.status != http.StatusOK {
		return fmt.Errorf("status %d", resp.status)
	}
	return nil
}
