package ports

import "context"

// HealthChecker probes one dependency of the console: the workspace store, the audit database
// or the clinic backend. Name is the key reported under /health.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}
