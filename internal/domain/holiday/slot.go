package holiday

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
)

// ParseSlot builds a slot from operator input. Blank from/to mean the whole day.
func ParseSlot(date, from, to string, loc *time.Location) (Slot, error) {
	day, err := utils.ParseDateIn(date, loc)
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %v", ErrInvalidSlotDate, err)
	}

	slot := Slot{Date: day}
	if strings.TrimSpace(from) != "" {
		if slot.From, err = utils.ParseClock(from); err != nil {
			return Slot{}, fmt.Errorf("%w: %v", ErrInvalidSlotTime, err)
		}
	}
	if strings.TrimSpace(to) != "" {
		if slot.To, err = utils.ParseClock(to); err != nil {
			return Slot{}, fmt.Errorf("%w: %v", ErrInvalidSlotTime, err)
		}
	}

	if slot.To != 0 && slot.To <= slot.From {
		return Slot{}, ErrInvalidSlotWindow
	}
	return slot, nil
}

// FormatClock renders a slot offset as H:mm.
func FormatClock(d time.Duration) string {
	return fmt.Sprintf("%d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}

func sortSlots(slots []Slot) {
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].Date.Equal(slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		return slots[i].From < slots[j].From
	})
}
