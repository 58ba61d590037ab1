package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
)

// Shift timetables
var (
	earlyStart        = utils.HM(8, 0)
	earlyEnd          = utils.HM(16, 30)
	lateStart         = utils.HM(10, 0)
	lateEnd           = utils.HM(18, 0)
	lateSaturdayStart = utils.HM(8, 0)
	lateSaturdayEnd   = utils.HM(12, 0)
)

// Entry-time windows that decide a shift without cost comparison
var (
	earlyEntryFrom = utils.HM(7, 0)
	earlyEntryTo   = utils.HM(9, 14)
	lateEntryFrom  = utils.HM(9, 15)
	lateEntryTo    = utils.HM(14, 59)
)

// ExpectedStart returns the scheduled start of a shift on the given weekday.
func ExpectedStart(s attendance.Shift, wd time.Weekday) time.Duration {
	if s == attendance.ShiftLate {
		if wd == time.Saturday {
			return lateSaturdayStart
		}
		return lateStart
	}
	return earlyStart
}

// ExpectedEnd returns the scheduled end of a shift on the given weekday.
func ExpectedEnd(s attendance.Shift, wd time.Weekday) time.Duration {
	if s == attendance.ShiftLate {
		if wd == time.Saturday {
			return lateSaturdayEnd
		}
		return lateEnd
	}
	return earlyEnd
}

// DefaultShift is used when neither the weekly majority nor the day itself resolves a shift.
func DefaultShift(wd time.Weekday) attendance.Shift {
	if wd == time.Saturday {
		return attendance.ShiftLate
	}
	return attendance.ShiftEarly
}

// InferShift picks the most likely shift for a day from its in/out punches.
// Ties in the gray zone go to hint, or to Early when hint is ShiftNone.
func InferShift(in, out time.Time, hint attendance.Shift) attendance.Shift {
	wd := in.Weekday()
	if wd == time.Saturday {
		return attendance.ShiftLate
	}

	clock := utils.ClockOf(in)
	if clock >= earlyEntryFrom && clock < earlyEntryTo {
		return attendance.ShiftEarly
	}
	if clock >= lateEntryFrom && clock < lateEntryTo {
		return attendance.ShiftLate
	}

	costEarly := shiftCost(in, out, attendance.ShiftEarly, wd)
	costLate := shiftCost(in, out, attendance.ShiftLate, wd)

	if costEarly == costLate && hint != attendance.ShiftNone {
		return hint
	}
	if costEarly <= costLate {
		return attendance.ShiftEarly
	}
	return attendance.ShiftLate
}

// shiftCost penalises late arrival 1:1 and early arrival at a third. Saturday
// Late also pays half the drift from the 12:00 end.
func shiftCost(in, out time.Time, s attendance.Shift, wd time.Weekday) int {
	delta := utils.MinutesBetween(utils.AtClock(in, ExpectedStart(s, wd)), in)

	cost := max(0, delta) + max(0, -delta)/3

	if wd == time.Saturday && s == attendance.ShiftLate {
		drift := utils.MinutesBetween(utils.AtClock(out, ExpectedEnd(s, wd)), out)
		if drift < 0 {
			drift = -drift
		}
		cost += drift / 2
	}
	return cost
}

// DayShift is the raw shift inferred for one day.
type DayShift struct {
	Day   time.Time
	Shift attendance.Shift
}

// InferRawShifts infers a shift for every Ok session with both punches. The
// previous day's raw shift is the tie-break hint, Early when unknown.
func InferRawShifts(sessions []attendance.DailySession) []DayShift {
	byDay := make(map[string]attendance.Shift, len(sessions))
	raw := make([]DayShift, 0, len(sessions))

	for _, s := range sessions {
		if s.State != attendance.DayStateOk || s.In == nil || s.Out == nil {
			continue
		}

		hint, ok := byDay[utils.DateKey(s.Day.AddDate(0, 0, -1))]
		if !ok {
			hint = attendance.ShiftEarly
		}

		shift := InferShift(*s.In, *s.Out, hint)
		byDay[utils.DateKey(s.Day)] = shift
		raw = append(raw, DayShift{Day: s.Day, Shift: shift})
	}
	return raw
}

type shiftTally struct {
	early int
	late  int
}

func (t shiftTally) majority() (attendance.Shift, bool) {
	if t.early == 0 && t.late == 0 {
		return attendance.ShiftNone, false
	}
	if t.early >= t.late {
		return attendance.ShiftEarly, true
	}
	return attendance.ShiftLate, true
}

func (t *shiftTally) add(s attendance.Shift) {
	switch s {
	case attendance.ShiftEarly:
		t.early++
	case attendance.ShiftLate:
		t.late++
	}
}

// ResolveMajorityShift votes the raw shifts of each ISO week (keyed by its
// Monday). Ties go to Early.
func ResolveMajorityShift(raw []DayShift) map[string]attendance.Shift {
	tallies := make(map[string]*shiftTally)
	for _, r := range raw {
		week := utils.DateKey(utils.WeekStart(r.Day))
		t, ok := tallies[week]
		if !ok {
			t = &shiftTally{}
			tallies[week] = t
		}
		t.add(r.Shift)
	}

	majority := make(map[string]attendance.Shift, len(tallies))
	for week, t := range tallies {
		if s, ok := t.majority(); ok {
			majority[week] = s
		}
	}
	return majority
}

// MajorityShiftPerWeek votes per user and ISO week over rows in a complete
// state that carry a resolved shift.
func MajorityShiftPerWeek(rows []attendance.ComputedRow) map[int64]map[string]attendance.Shift {
	tallies := make(map[int64]map[string]*shiftTally)
	for _, r := range rows {
		if r.Shift == attendance.ShiftNone {
			continue
		}
		if r.State != attendance.DayStateOk && r.State != attendance.DayStateEarlyDeparture {
			continue
		}

		weeks, ok := tallies[r.UserID]
		if !ok {
			weeks = make(map[string]*shiftTally)
			tallies[r.UserID] = weeks
		}
		week := utils.DateKey(utils.WeekStart(r.Date))
		t, ok := weeks[week]
		if !ok {
			t = &shiftTally{}
			weeks[week] = t
		}
		t.add(r.Shift)
	}

	result := make(map[int64]map[string]attendance.Shift, len(tallies))
	for user, weeks := range tallies {
		perWeek := make(map[string]attendance.Shift, len(weeks))
		for week, t := range weeks {
			if s, ok := t.majority(); ok {
				perWeek[week] = s
			}
		}
		result[user] = perWeek
	}
	return result
}
