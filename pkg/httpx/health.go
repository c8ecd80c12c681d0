package httpx

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// HealthTimeout bounds each dependency check.
const HealthTimeout = 2 * time.Second

// HealthChecker is satisfied by any infrastructure dependency that exposes
// a Ping method (database.Database, cache.RedisClient and events.EventBus all qualify).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks maps a component name, as reported in the response, to its check.
// Nil checks are skipped.
type HealthChecks map[string]HealthChecker

// HealthResponse is the body written by HealthHandler.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// HealthHandler runs every check concurrently and responds 200 when all
// succeed, or 503 with status "degraded" naming the unreachable components.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name, c := range checks {
		if c != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
		var mu sync.Mutex

		g, ctx := errgroup.WithContext(r.Context())
		for _, name := range names {
			g.Go(func() error {
				pingCtx, cancel := context.WithTimeout(ctx, HealthTimeout)
				defer cancel()

				state := "ok"
				if err := checks[name].Ping(pingCtx); err != nil {
					state = "unreachable"
				}
				mu.Lock()
				resp.Checks[name] = state
				mu.Unlock()
				return nil
			})
		}
		_ = g.Wait()

		status := http.StatusOK
		for _, state := range resp.Checks {
			if state != "ok" {
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
			}
		}
		JSON(w, status, resp)
	}
}
