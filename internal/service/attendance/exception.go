package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/domain/holiday"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
)

// departures before this on a weekday are reviewed as leaving early
var leftEarlyLimit = utils.HM(16, 10)

// fixKey identifies one user-day.
type fixKey struct {
	userID int64
	date   string
}

// indexFixes keys fixes by user and date. The last fix for a key wins.
func indexFixes(fixes []attendance.ExceptionFix) map[fixKey]attendance.ExceptionFix {
	idx := make(map[fixKey]attendance.ExceptionFix, len(fixes))
	for _, f := range fixes {
		if f.UserID == 0 || f.Date.IsZero() {
			continue
		}
		idx[fixKey{userID: f.UserID, date: utils.DateKey(f.Date)}] = f
	}
	return idx
}

// ApplyExceptions overlays operator fixes on assembled rows. Rows without a fix
// pass through, except unworked Saturdays of Early-shift users which are dropped.
func ApplyExceptions(rows []attendance.ComputedRow, fixes []attendance.ExceptionFix, cal holiday.Calendar) []attendance.ComputedRow {
	out := make([]attendance.ComputedRow, 0, len(rows))
	if len(rows) == 0 {
		return out
	}

	idx := indexFixes(fixes)
	majority := MajorityShiftPerWeek(rows)

	for _, row := range rows {
		fix, ok := idx[fixKey{userID: row.UserID, date: utils.DateKey(row.Date)}]
		if !ok {
			if isUnworkedEarlySaturday(row, majority, cal) {
				continue
			}
			out = append(out, row)
			continue
		}
		out = append(out, applyFix(row, fix, cal))
	}
	return out
}

func isUnworkedEarlySaturday(row attendance.ComputedRow, majority map[int64]map[string]attendance.Shift, cal holiday.Calendar) bool {
	if row.Date.Weekday() != time.Saturday || cal.IsHoliday(row.Date) {
		return false
	}
	if row.State != attendance.DayStateNoPunches || row.HasMarks() {
		return false
	}
	return effectiveShift(row, majority) == attendance.ShiftEarly
}

// effectiveShift is the row's own shift, or the user's weekly majority when the row has none.
func effectiveShift(row attendance.ComputedRow, majority map[int64]map[string]attendance.Shift) attendance.Shift {
	if row.Shift != attendance.ShiftNone {
		return row.Shift
	}
	if weeks, ok := majority[row.UserID]; ok {
		return weeks[utils.DateKey(utils.WeekStart(row.Date))]
	}
	return attendance.ShiftNone
}

// applyFix returns a new row with the fix's non-blank fields and the policy of its reason.
// Times that do not parse keep the computed value.
func applyFix(row attendance.ComputedRow, fix attendance.ExceptionFix, cal holiday.Calendar) attendance.ComputedRow {
	patched := row

	if strings.TrimSpace(fix.Shift) != "" {
		patched.Shift = attendance.ParseShift(fix.Shift)
	}
	if t, ok := fixClock(row.Date, fix.InTime); ok {
		patched.In = &t
	}
	if t, ok := fixClock(row.Date, fix.OutTime); ok {
		patched.Out = &t
	}
	if strings.TrimSpace(fix.Reason) != "" {
		patched.Description = fix.Reason
	}

	lateness, overtime, net := row.LatenessMin, row.OvertimeMin, row.NetMin
	wd := row.Date.Weekday()

	switch attendance.ParseReason(patched.Description) {
	case attendance.ReasonAbsence:
		if isWorkingDay(row.Date, cal) {
			shift := attendance.ShiftLate
			if patched.Shift == attendance.ShiftEarly {
				shift = attendance.ShiftEarly
			}
			duration := ShiftDuration(shift, wd)
			lateness, overtime, net = duration, 0, -duration
		}
	case attendance.ReasonJustifiedDeparture, attendance.ReasonOther:
		lateness, overtime, net = 0, 0, 0
	default:
		if patched.Shift != attendance.ShiftNone && patched.IsComplete() {
			lateness, overtime, net = recompute(*patched.In, *patched.Out, patched.Shift)
		}
	}

	if wd == time.Saturday && patched.Shift == attendance.ShiftEarly {
		worked := 0
		if patched.IsComplete() {
			worked = max(0, utils.MinutesBetween(*patched.In, *patched.Out))
		}
		switch {
		case attendance.MarksExtra(patched.Description):
			lateness, overtime, net = 0, worked, worked
		case attendance.MarksOwed(patched.Description):
			lateness, overtime, net = 0, 0, worked
		}
	}

	return patched.WithMinutes(lateness, overtime, net)
}

// recompute evaluates a fixed day. An Early shift on Saturday counts all worked time as overtime.
func recompute(in, out time.Time, s attendance.Shift) (lateness, overtime, net int) {
	if in.Weekday() == time.Saturday && s == attendance.ShiftEarly {
		worked := max(0, utils.MinutesBetween(in, out))
		return 0, worked, worked
	}
	return standardMetrics(in, out, s).Totals()
}

func fixClock(day time.Time, value string) (time.Time, bool) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, false
	}
	clock, err := utils.ParseClock(value)
	if err != nil {
		return time.Time{}, false
	}
	return utils.AtClock(day, clock), true
}

func isWorkingDay(day time.Time, cal holiday.Calendar) bool {
	wd := day.Weekday()
	return wd != time.Saturday && wd != time.Sunday && !cal.IsHoliday(day)
}

// ShouldGoToExceptions reports whether a row needs an operator decision.
func ShouldGoToExceptions(row attendance.ComputedRow, majority map[int64]map[string]attendance.Shift, cal holiday.Calendar) bool {
	if isLeftEarly(row, cal) {
		return true
	}

	wd := row.Date.Weekday()
	if wd == time.Sunday || cal.IsHoliday(row.Date) {
		return row.State == attendance.DayStateIncomplete
	}

	if row.State != attendance.DayStateNoPunches && row.State != attendance.DayStateIncomplete {
		return false
	}

	if wd == time.Saturday {
		return !(effectiveShift(row, majority) == attendance.ShiftEarly && !row.HasMarks())
	}
	return true
}

func isLeftEarly(row attendance.ComputedRow, cal holiday.Calendar) bool {
	if !isWorkingDay(row.Date, cal) || !row.IsComplete() {
		return false
	}
	return utils.ClockOf(*row.Out) < leftEarlyLimit
}

// ReviewQueue returns the rows that should go to manual review.
func ReviewQueue(rows []attendance.ComputedRow, cal holiday.Calendar) []attendance.ComputedRow {
	majority := MajorityShiftPerWeek(rows)
	queue := make([]attendance.ComputedRow, 0)
	for _, r := range rows {
		if ShouldGoToExceptions(r, majority, cal) {
			queue = append(queue, r)
		}
	}
	return queue
}
