package holiday

import (
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
)

// Slot marks a calendar date, or part of it, as a holiday. From and To are
// offsets from midnight; To == 0 means end of day.
type Slot struct {
	ID        string
	Date      time.Time
	From      time.Duration
	To        time.Duration
	Name      string
	CreatedAt time.Time
}

var lastMinute = utils.HM(23, 59)

// IsFullDay reports whether the slot covers the whole date: 00:00-00:00 or 00:00 to at least 23:59.
func (s Slot) IsFullDay() bool {
	return s.From == 0 && (s.To == 0 || s.To >= lastMinute)
}

// Bounds returns the slot window on its own date.
func (s Slot) Bounds() (time.Time, time.Time) {
	start := utils.AtClock(s.Date, s.From)
	if s.To == 0 {
		return start, utils.AtClock(s.Date, 24*time.Hour)
	}
	return start, utils.AtClock(s.Date, s.To)
}

// Calendar is a read-only holiday lookup for one pipeline run.
type Calendar struct {
	slots map[string]Slot
}

// NewCalendar indexes slots by date. When a date has several slots the last one wins.
func NewCalendar(slots []Slot) Calendar {
	c := Calendar{slots: make(map[string]Slot, len(slots))}
	for _, s := range slots {
		c.slots[utils.DateKey(s.Date)] = s
	}
	return c
}

// IsHoliday reports whether any slot falls on the date of t.
func (c Calendar) IsHoliday(t time.Time) bool {
	_, ok := c.slots[utils.DateKey(t)]
	return ok
}

// SlotOn returns the slot for the date of t.
func (c Calendar) SlotOn(t time.Time) (Slot, bool) {
	s, ok := c.slots[utils.DateKey(t)]
	return s, ok
}

func (c Calendar) Len() int {
	return len(c.slots)
}

// Slots returns the indexed slots in date order.
func (c Calendar) Slots() []Slot {
	out := make([]Slot, 0, len(c.slots))
	for _, s := range c.slots {
		out = append(out, s)
	}
	sortSlots(out)
	return out
}
