package httpserver

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const healthProbeTimeout = 2 * time.Second

type dependencyHealth struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
}

// healthCheck probes every dependency concurrently. Any failing probe degrades the console.
func (s *Server) healthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthProbeTimeout)
	defer cancel()

	var (
		mu   sync.Mutex
		deps = make(map[string]dependencyHealth, len(s.healthCheckers))
		g    errgroup.Group
	)
	for _, hc := range s.healthCheckers {
		if hc == nil {
			continue
		}
		g.Go(func() error {
			start := time.Now()
			err := hc.Check(ctx)
			h := dependencyHealth{Status: "healthy", LatencyMS: time.Since(start).Milliseconds()}
			if err != nil {
				h.Status = "unhealthy"
				if s.logger != nil {
					s.logger.WithFields(logrus.Fields{"dependency": hc.Name()}).WithError(err).Warn("health probe failed")
				}
			}
			mu.Lock()
			deps[hc.Name()] = h
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	overall, code := "healthy", http.StatusOK
	for _, h := range deps {
		if h.Status != "healthy" {
			overall, code = "degraded", http.StatusServiceUnavailable
			break
		}
	}
	body := map[string]any{
		"status":       overall,
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"service":      "clinic-console",
		"dependencies": deps,
	}
	if s.registry != nil {
		body["live_workspaces"] = s.registry.Len()
	}
	return c.JSON(code, body)
}
