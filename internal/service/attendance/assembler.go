package attendance

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
)

const (
	descriptionOwed     = "Owed"
	descriptionOvertime = "Overtime"
)

// AssembleRows builds one row per user and day in [from, to]. Punches without
// a user are skipped and unknown users are named by their id.
func AssembleRows(punches []attendance.PunchEvent, directory attendance.Directory, from, to time.Time) []attendance.ComputedRow {
	byUser := make(map[int64][]attendance.PunchEvent)
	for _, p := range punches {
		if p.UserID == nil {
			continue
		}
		byUser[*p.UserID] = append(byUser[*p.UserID], p)
	}

	userIDs := make([]int64, 0, len(byUser))
	for id := range byUser {
		userIDs = append(userIDs, id)
	}
	sort.Slice(userIDs, func(i, j int) bool { return userIDs[i] < userIDs[j] })

	var rows []attendance.ComputedRow
	for _, userID := range userIDs {
		name, ok := directory[userID]
		if !ok || strings.TrimSpace(name) == "" {
			name = strconv.FormatInt(userID, 10)
		}
		rows = append(rows, assembleUser(userID, name, byUser[userID], from, to)...)
	}

	SortRows(rows)
	return rows
}

// assembleUser runs both passes for one user: raw shifts and weekly majority
// first, then final metrics with the majority shift.
func assembleUser(userID int64, name string, punches []attendance.PunchEvent, from, to time.Time) []attendance.ComputedRow {
	sessions := PairSessions(punches, from, to)
	raw := InferRawShifts(sessions)
	majority := ResolveMajorityShift(raw)

	rawByDay := make(map[string]attendance.Shift, len(raw))
	for _, r := range raw {
		rawByDay[utils.DateKey(r.Day)] = r.Shift
	}

	marks := groupByDay(punches)

	rows := make([]attendance.ComputedRow, 0, len(sessions))
	for _, s := range sessions {
		key := utils.DateKey(s.Day)

		shift, ok := majority[utils.DateKey(utils.WeekStart(s.Day))]
		if !ok {
			shift, ok = rawByDay[key]
		}
		if !ok {
			shift = DefaultShift(s.Day.Weekday())
		}

		row := attendance.ComputedRow{
			Date:       s.Day,
			UserID:     userID,
			UserName:   name,
			Shift:      shift,
			In:         s.In,
			Out:        s.Out,
			State:      s.State,
			Premium50:  zeroHours,
			Premium100: zeroHours,
		}

		if today := marks[key]; len(today) > 0 {
			first, last := today[0], today[len(today)-1]
			row.RawIn = &first
			row.RawOut = &last
		}

		if s.In != nil && s.Out != nil {
			row = withMetrics(row, *s.In, *s.Out)
		}

		rows = append(rows, row)
	}
	return rows
}

func withMetrics(row attendance.ComputedRow, in, out time.Time) attendance.ComputedRow {
	m := ComputeMetrics(in, out, row.Shift)
	lateness, overtime, net := m.Totals()
	row = row.WithMinutes(lateness, overtime, net)

	if m.SaturdayEarly {
		var parts []string
		if m.Owed > 0 {
			parts = append(parts, descriptionOwed)
		}
		if overtime > 0 {
			parts = append(parts, descriptionOvertime)
		}
		row.Description = strings.Join(parts, ", ")
	}

	windowShift := row.Shift
	if m.SaturdayEarly {
		windowShift = attendance.ShiftLate
	}
	schedEnd := utils.AtClock(row.Date, ExpectedEnd(windowShift, row.Date.Weekday()))
	if out.After(schedEnd) {
		row.OvertimeWindow = &attendance.Window{Start: schedEnd, End: out}
	}

	wd := row.Date.Weekday()
	if row.State == attendance.DayStateOk && m.EarlyDeparture > 0 && wd != time.Saturday && wd != time.Sunday {
		row.State = attendance.DayStateEarlyDeparture
	}
	return row
}

// SortRows orders rows by date, then user name, then user id.
func SortRows(rows []attendance.ComputedRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !utils.SameDay(a.Date, b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.UserName != b.UserName {
			return a.UserName < b.UserName
		}
		return a.UserID < b.UserID
	})
}
