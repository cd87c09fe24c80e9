package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/correspondence-monitor/internal/storage"
)

// Component states.
const (
	stateUp         = "up"
	stateDown       = "down"
	stateDegraded   = "degraded"
	msgUnconfigured = "not configured"
)

// HealthStatus is the aggregate health report.
type HealthStatus struct {
	Status  string                    `json:"status"` // healthy | degraded | unhealthy
	Version string                    `json:"version"`
	Uptime  string                    `json:"uptime"`
	Checks  map[string]ComponentCheck `json:"checks"`
}

// ComponentCheck is the state of one dependency.
type ComponentCheck struct {
	Status  string                 `json:"status"` // up | down | degraded
	Latency string                 `json:"latency,omitempty"`
	Message string                 `json:"message,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// DatasetSource reports the current dataset and its in-memory cache state.
type DatasetSource interface {
	Current() (*storage.Dataset, error)
	GetCacheStats() map[string]interface{}
}

type probe struct {
	name     string
	critical bool
	run      func(ctx context.Context) ComponentCheck
}

// HealthChecker probes PostgreSQL, Redis and the loaded dataset. Nil
// dependencies report "not configured" and never fail the service.
type HealthChecker struct {
	probes  []probe
	started time.Time
}

// NewHealthChecker builds the probes for the given dependencies.
func NewHealthChecker(db *sql.DB, redisClient *redis.Client, datasets DatasetSource) *HealthChecker {
	hc := &HealthChecker{started: time.Now()}
	hc.probes = []probe{
		{name: "database", critical: true, run: pingProbe(db != nil, 3*time.Second, time.Second, func(ctx context.Context) error {
			return db.PingContext(ctx)
		})},
		{name: "redis", run: pingProbe(redisClient != nil, 2*time.Second, 500*time.Millisecond, func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})},
		{name: "dataset", run: func(context.Context) ComponentCheck {
			return datasetCheck(datasets)
		}},
	}
	return hc
}

const healthVersion = "1.0.0"

// HandleHealth reports every component. Always 200; the verdict is in the body.
//
//	GET /health
func (hc *HealthChecker) HandleHealth(w http.ResponseWriter, r *http.Request) {
	checks, overall := hc.evaluate(r.Context())
	respondJSON(w, http.StatusOK, HealthStatus{
		Status:  overall,
		Version: healthVersion,
		Uptime:  hc.uptime(),
		Checks:  checks,
	})
}

// HandleLiveness answers while the process runs.
//
//	GET /health/live
func (hc *HealthChecker) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "alive",
		"uptime": hc.uptime(),
	})
}

// HandleReadiness returns 503 when a configured critical dependency is down.
//
//	GET /health/ready
func (hc *HealthChecker) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	checks, overall := hc.evaluate(r.Context())
	ready := overall != "unhealthy"
	code := http.StatusOK
	if !ready {
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, map[string]interface{}{
		"ready":  ready,
		"status": overall,
		"checks": checks,
	})
}

// evaluate runs all probes concurrently and derives the overall verdict:
// unhealthy when a configured critical probe is down, degraded when any
// probe is degraded or a configured one is down, healthy otherwise.
func (hc *HealthChecker) evaluate(ctx context.Context) (map[string]ComponentCheck, string) {
	results := make([]ComponentCheck, len(hc.probes))
	var wg sync.WaitGroup
	for i, p := range hc.probes {
		wg.Add(1)
		go func(i int, p probe) {
			defer wg.Done()
			results[i] = p.run(ctx)
		}(i, p)
	}
	wg.Wait()

	checks := make(map[string]ComponentCheck, len(hc.probes))
	overall := "healthy"
	for i, p := range hc.probes {
		c := results[i]
		checks[p.name] = c
		failing := c.Status == stateDown && c.Message != msgUnconfigured
		switch {
		case failing && p.critical:
			overall = "unhealthy"
		case (failing || c.Status == stateDegraded) && overall == "healthy":
			overall = "degraded"
		}
	}
	return checks, overall
}

func (hc *HealthChecker) uptime() string {
	return time.Since(hc.started).Truncate(time.Second).String()
}

// pingProbe times ping under timeout; responses slower than slow degrade.
func pingProbe(configured bool, timeout, slow time.Duration, ping func(ctx context.Context) error) func(ctx context.Context) ComponentCheck {
	return func(ctx context.Context) ComponentCheck {
		if !configured {
			return ComponentCheck{Status: stateDown, Message: msgUnconfigured}
		}
		pingCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		start := time.Now()
		err := ping(pingCtx)
		latency := time.Since(start)

		switch {
		case err != nil:
			return ComponentCheck{Status: stateDown, Latency: latency.String(), Message: fmt.Sprintf("ping failed: %v", err)}
		case latency > slow:
			return ComponentCheck{Status: stateDegraded, Latency: latency.String(), Message: fmt.Sprintf("slow response (%s)", latency)}
		default:
			return ComponentCheck{Status: stateUp, Latency: latency.String(), Message: "connected"}
		}
	}
}

// datasetCheck reports the loaded dataset. An empty service is degraded.
func datasetCheck(datasets DatasetSource) ComponentCheck {
	if datasets == nil {
		return ComponentCheck{Status: stateDown, Message: msgUnconfigured}
	}
	stats := datasets.GetCacheStats()
	ds, err := datasets.Current()
	if errors.Is(err, storage.ErrNoDataset) {
		return ComponentCheck{Status: stateDegraded, Message: "no dataset loaded", Details: stats}
	}
	if err != nil {
		return ComponentCheck{Status: stateDown, Message: err.Error(), Details: stats}
	}
	return ComponentCheck{
		Status:  stateUp,
		Message: fmt.Sprintf("%d records loaded %s", len(ds.Records), ds.LoadedAt.UTC().Format(time.RFC3339)),
		Details: stats,
	}
}
