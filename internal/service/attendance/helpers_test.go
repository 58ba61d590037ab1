package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/domain/holiday"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
)

// Week of Monday 2024-03-04. Saturday is the 9th, Sunday the 10th.
var (
	monday    = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	tuesday   = monday.AddDate(0, 0, 1)
	wednesday = monday.AddDate(0, 0, 2)
	saturday  = monday.AddDate(0, 0, 5)
	sunday    = monday.AddDate(0, 0, 6)
)

func at(day time.Time, hour, minute int) time.Time {
	return utils.AtClock(day, utils.HM(hour, minute))
}

func ptr(t time.Time) *time.Time {
	return &t
}

func punch(id, userID int64, ts time.Time) attendance.PunchEvent {
	return attendance.PunchEvent{ID: id, UserID: &userID, Timestamp: ts}
}

func punchesFor(userID int64, times ...time.Time) []attendance.PunchEvent {
	out := make([]attendance.PunchEvent, 0, len(times))
	for i, ts := range times {
		out = append(out, punch(int64(i+1), userID, ts))
	}
	return out
}

func completeRow(userID int64, shift attendance.Shift, in, out time.Time) attendance.ComputedRow {
	return attendance.ComputedRow{
		Date:     utils.DayOf(in),
		UserID:   userID,
		UserName: "Ana",
		Shift:    shift,
		In:       ptr(in),
		Out:      ptr(out),
		State:    attendance.DayStateOk,
	}
}

func emptyRow(userID int64, day time.Time, shift attendance.Shift) attendance.ComputedRow {
	return attendance.ComputedRow{
		Date:     day,
		UserID:   userID,
		UserName: "Ana",
		Shift:    shift,
		State:    attendance.DayStateNoPunches,
	}
}

func calendarOf(slots ...holiday.Slot) holiday.Calendar {
	return holiday.NewCalendar(slots)
}

func slotOn(day time.Time, from, to time.Duration) holiday.Slot {
	return holiday.Slot{Date: day, From: from, To: to}
}

func clockOrEmpty(t *time.Time) string {
	return utils.FormatClock(t)
}
