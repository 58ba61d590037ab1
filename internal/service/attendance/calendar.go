package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/domain/holiday"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
)

const (
	descriptionSunday      = "Sunday work"
	descriptionHoliday     = "Holiday"
	descriptionHolidayWork = "Holiday work"
)

// ApplySundays turns complete Sunday rows into all-overtime rows and drops unworked Sundays.
func ApplySundays(rows []attendance.ComputedRow) []attendance.ComputedRow {
	out := make([]attendance.ComputedRow, 0, len(rows))
	for _, row := range rows {
		if row.Date.Weekday() != time.Sunday {
			out = append(out, row)
			continue
		}
		if !row.HasMarks() {
			continue
		}
		if !row.IsComplete() {
			out = append(out, row)
			continue
		}
		out = append(out, allOvertime(row, *row.In, *row.Out, attendance.DayStateSunday, descriptionSunday))
	}
	return out
}

// ApplyHolidays re-tags rows that fall on a holiday slot. A partial slot that
// overlaps the worked interval splits the row into a Holiday row for the
// overlap and an Ok row with zeroed metrics for the rest.
func ApplyHolidays(rows []attendance.ComputedRow, cal holiday.Calendar) []attendance.ComputedRow {
	if cal.Len() == 0 {
		return rows
	}

	// days already split keep their rows as they are
	split := make(map[fixKey]bool)
	for _, row := range rows {
		if row.State == attendance.DayStateHoliday {
			split[fixKey{userID: row.UserID, date: utils.DateKey(row.Date)}] = true
		}
	}

	out := make([]attendance.ComputedRow, 0, len(rows))
	for _, row := range rows {
		slot, ok := cal.SlotOn(row.Date)
		if !ok || split[fixKey{userID: row.UserID, date: utils.DateKey(row.Date)}] {
			out = append(out, row)
			continue
		}
		if slot.IsFullDay() {
			if r, keep := fullDayHoliday(row); keep {
				out = append(out, r)
			}
			continue
		}
		out = append(out, partialHoliday(row, slot)...)
	}
	return out
}

func fullDayHoliday(row attendance.ComputedRow) (attendance.ComputedRow, bool) {
	switch {
	case !row.HasMarks():
		placeholder := row.WithMinutes(0, 0, 0)
		placeholder.Shift = attendance.ShiftNone
		placeholder.In, placeholder.Out = nil, nil
		placeholder.OvertimeWindow = nil
		placeholder.State = attendance.DayStateHoliday
		if placeholder.Description == "" {
			placeholder.Description = descriptionHoliday
		}
		return placeholder, true
	case !row.IsComplete():
		return row, true
	default:
		return allOvertime(row, *row.In, *row.Out, attendance.DayStateHoliday, descriptionHolidayWork), true
	}
}

func partialHoliday(row attendance.ComputedRow, slot holiday.Slot) []attendance.ComputedRow {
	if !row.HasMarks() {
		return nil
	}
	if !row.IsComplete() {
		return []attendance.ComputedRow{row}
	}

	in, out := *row.In, *row.Out
	slotStart, slotEnd := slot.Bounds()

	start, end := in, out
	if slotStart.After(start) {
		start = slotStart
	}
	if slotEnd.Before(end) {
		end = slotEnd
	}
	if !end.After(start) {
		return []attendance.ComputedRow{row}
	}

	coversStart := start.Equal(in)
	coversEnd := end.Equal(out)
	if coversStart && coversEnd {
		return []attendance.ComputedRow{row}
	}

	worked := allOvertime(row, start, end, attendance.DayStateHoliday, descriptionHolidayWork)

	switch {
	case coversStart:
		return []attendance.ComputedRow{worked, remainder(row, end, out)}
	case coversEnd:
		return []attendance.ComputedRow{remainder(row, in, start), worked}
	default:
		// Slot inside the shift: no three-way split. The Ok remainder keeps the
		// full in/out, spanning the holiday window, and carries zero minutes.
		return []attendance.ComputedRow{worked, remainder(row, in, out)}
	}
}

// allOvertime returns a copy of row for [in, out] where every worked minute is overtime.
func allOvertime(row attendance.ComputedRow, in, out time.Time, state attendance.DayState, fallback string) attendance.ComputedRow {
	minutes := max(0, utils.MinutesBetween(in, out))
	r := row.WithMinutes(0, minutes, minutes)
	r.In, r.Out = &in, &out
	r.Shift = attendance.ShiftNone
	r.State = state
	r.OvertimeWindow = &attendance.Window{Start: in, End: out}
	if r.Description == "" {
		r.Description = fallback
	}
	return r
}

// remainder is the non-holiday part of a split row. Its minutes are already
// carried by the Holiday row so its metrics are zero.
func remainder(row attendance.ComputedRow, in, out time.Time) attendance.ComputedRow {
	r := row.WithMinutes(0, 0, 0)
	r.In, r.Out = &in, &out
	r.State = attendance.DayStateOk
	r.OvertimeWindow = nil
	return r
}
