package attendance

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/domain/holiday"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
)

// PipelineInput is the immutable snapshot one ledger run works on.
type PipelineInput struct {
	Punches   []attendance.PunchEvent
	Directory attendance.Directory
	Fixes     []attendance.ExceptionFix
	Calendar  holiday.Calendar
	From      time.Time
	To        time.Time
}

// FetchStart is the first day whose punches a run over [from, to] needs:
// the Monday of from's week, so the weekly shift vote sees the whole week.
func FetchStart(from time.Time) time.Time {
	return utils.WeekStart(from)
}

// FetchEnd is the last day whose punches a run needs: the day after to, for
// departures that cross midnight.
func FetchEnd(to time.Time) time.Time {
	return utils.DayOf(to).AddDate(0, 0, 1)
}

// RunPipeline computes the ledger for [in.From, in.To].
func RunPipeline(in PipelineInput) attendance.Ledger {
	from, to := utils.DayOf(in.From), utils.DayOf(in.To)

	rows := AssembleRows(in.Punches, in.Directory, FetchStart(from), to)
	slog.Debug("rows assembled", "rows", len(rows), "punches", len(in.Punches))

	rows = ApplyExceptions(rows, in.Fixes, in.Calendar)
	slog.Debug("exceptions applied", "rows", len(rows), "fixes", len(in.Fixes))

	rows = ApplySundays(rows)
	rows = ApplyHolidays(rows, in.Calendar)
	slog.Debug("calendar applied", "rows", len(rows), "holidays", in.Calendar.Len())

	rows = ApplyPremiums(rows, in.Calendar)

	rows = filterRange(rows, from, to)
	SortRows(rows)

	return attendance.Ledger{
		From:   from,
		To:     to,
		Rows:   rows,
		Totals: Totals(rows),
	}
}

// ReviewRows returns the assembled rows in [in.From, in.To] that need an
// operator decision and have no fix yet.
func ReviewRows(in PipelineInput) []attendance.ComputedRow {
	from, to := utils.DayOf(in.From), utils.DayOf(in.To)

	rows := AssembleRows(in.Punches, in.Directory, FetchStart(from), to)
	fixed := indexFixes(in.Fixes)

	pending := make([]attendance.ComputedRow, 0)
	for _, r := range ReviewQueue(rows, in.Calendar) {
		if _, ok := fixed[fixKey{userID: r.UserID, date: utils.DateKey(r.Date)}]; ok {
			continue
		}
		pending = append(pending, r)
	}
	return filterRange(pending, from, to)
}

func filterRange(rows []attendance.ComputedRow, from, to time.Time) []attendance.ComputedRow {
	out := make([]attendance.ComputedRow, 0, len(rows))
	for _, r := range rows {
		day := utils.DayOf(r.Date)
		if day.Before(from) || day.After(to) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Totals sums rows per user, ordered by name ignoring case.
func Totals(rows []attendance.ComputedRow) []attendance.UserTotals {
	byUser := make(map[int64]*attendance.UserTotals)
	for _, r := range rows {
		t, ok := byUser[r.UserID]
		if !ok {
			t = &attendance.UserTotals{
				UserID:     r.UserID,
				UserName:   r.UserName,
				Premium50:  zeroHours,
				Premium100: zeroHours,
			}
			byUser[r.UserID] = t
		}
		t.LatenessMin += r.LatenessMin
		t.OvertimeMin += r.OvertimeMin
		t.NetMin += r.NetMin
		t.Premium50 = t.Premium50.Add(r.Premium50)
		t.Premium100 = t.Premium100.Add(r.Premium100)
	}

	totals := make([]attendance.UserTotals, 0, len(byUser))
	for _, t := range byUser {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool {
		a, b := strings.ToLower(totals[i].UserName), strings.ToLower(totals[j].UserName)
		if a != b {
			return a < b
		}
		return totals[i].UserID < totals[j].UserID
	})
	return totals
}
