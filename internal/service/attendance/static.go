package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/domain/holiday"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
)

// StaticFixes serves fixes loaded up front, e.g. from a run file.
type StaticFixes []attendance.ExceptionFix

func (f StaticFixes) ListByRange(_ context.Context, from, to time.Time) ([]attendance.ExceptionFix, error) {
	from, to = utils.DayOf(from), utils.DayOf(to)
	out := make([]attendance.ExceptionFix, 0, len(f))
	for _, fix := range f {
		day := utils.DayOf(fix.Date)
		if day.Before(from) || day.After(to) {
			continue
		}
		out = append(out, fix)
	}
	return out, nil
}

// StaticCalendar serves a fixed holiday calendar.
type StaticCalendar struct {
	Calendar holiday.Calendar
}

func (c StaticCalendar) CalendarFor(_ context.Context, _, _ time.Time) (holiday.Calendar, error) {
	return c.Calendar, nil
}
