package holiday

import (
	"context"
	"time"
)

// HolidayService manages holiday slots and builds calendars for ledger runs
type HolidayService interface {
	Create(ctx context.Context, req CreateSlotRequest) (SlotResponse, error)
	List(ctx context.Context, req ListSlotsRequest) ([]SlotResponse, error)
	Delete(ctx context.Context, id string) error

	// CalendarFor returns the calendar covering [from, to]
	CalendarFor(ctx context.Context, from, to time.Time) (Calendar, error)
}
