package health

import "context"

// DBPinger checks catalog store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// IndexProber checks text index availability.
type IndexProber interface {
	DocCount() (uint64, error)
}
