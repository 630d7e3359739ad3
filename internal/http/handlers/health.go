package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

const healthTimeout = 2 * time.Second

// Health reports {"status":"ok"} when every configured check passes and 503
// with the failing dependency names otherwise.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	var failed []string
	for name, check := range a.Checks {
		if err := check(ctx); err != nil {
			a.Logger.Warn().Err(err).Str("dependency", name).Msg("health check failed")
			failed = append(failed, name)
		}
	}
	if len(failed) > 0 {
		sort.Strings(failed)
		a.json(w, http.StatusServiceUnavailable, map[string]any{"status": "unavailable", "failed": failed})
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
