package attendance

import (
	"context"
	"time"
)

// PunchSource supplies the raw inputs of a ledger run. Implementations talk to
// the biometric device, read a spreadsheet, or read the local punch cache.
type PunchSource interface {
	// FetchUsers returns the user directory. Missing names fall back to the id.
	FetchUsers(ctx context.Context) (Directory, error)

	// FetchPunches returns every punch whose local date is within [from, to].
	FetchPunches(ctx context.Context, from, to time.Time) ([]PunchEvent, error)
}

// ExceptionFixRepository stores operator corrections keyed by user and date.
type ExceptionFixRepository interface {
	// Upsert creates the fix for (user, date) or replaces the existing one
	Upsert(ctx context.Context, fix ExceptionFix) (ExceptionFix, error)

	// ListByRange returns fixes whose date is within [from, to], oldest first
	ListByRange(ctx context.Context, from, to time.Time) ([]ExceptionFix, error)

	GetByID(ctx context.Context, id string) (ExceptionFix, error)
	Delete(ctx context.Context, id string) error
}

// PunchRepository caches device punches and users so runs can work offline.
type PunchRepository interface {
	PunchSource

	// UpsertPunches stores punches keyed by device id and returns how many rows changed
	UpsertPunches(ctx context.Context, punches []PunchEvent) (int64, error)

	// UpsertUsers stores the directory
	UpsertUsers(ctx context.Context, users Directory) error
}
