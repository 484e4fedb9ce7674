package ports

import "context"

// HealthChecker probes a store backend. Run before wiring a backend as
// the cache device so startup fails fast on misconfiguration.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}
