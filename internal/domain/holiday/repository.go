package holiday

import (
	"context"
	"time"
)

// HolidayRepository stores holiday slots picked by operators
type HolidayRepository interface {
	// Create stores a slot, replacing any existing slot for the same date
	Create(ctx context.Context, slot Slot) (Slot, error)

	// ListByRange returns slots whose date is within [from, to]
	ListByRange(ctx context.Context, from, to time.Time) ([]Slot, error)

	Delete(ctx context.Context, id string) error
}
