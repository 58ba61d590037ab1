package attendance

import (
	"context"
)

// LedgerService runs the attendance pipeline over a date range
type LedgerService interface {
	// Compute fetches punches, applies fixes and holidays, and returns the ledger
	Compute(ctx context.Context, req ComputeLedgerRequest) (Ledger, error)

	// Review returns the assembled rows that need an operator decision
	Review(ctx context.Context, req ComputeLedgerRequest) ([]ComputedRow, error)

	// Export renders the ledger as an xlsx workbook
	Export(ctx context.Context, req ComputeLedgerRequest) ([]byte, error)

	// SyncPunches copies punches and users from the device into the local cache
	SyncPunches(ctx context.Context, req SyncPunchesRequest) (SyncPunchesResponse, error)
}

// FixService manages operator corrections
type FixService interface {
	Upsert(ctx context.Context, req UpsertFixRequest) (FixResponse, error)
	List(ctx context.Context, req ListFixesRequest) ([]FixResponse, error)
	Delete(ctx context.Context, id string) error
}
