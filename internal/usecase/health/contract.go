package health

import "context"

// DBPinger checks record store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// TranslatorChecker checks translator availability.
type TranslatorChecker interface {
	HealthCheck(ctx context.Context) error
}
