package attendance

import (
	"sort"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
)

// Pairing windows, as offsets from midnight
var (
	inWindowStart   = utils.HM(5, 0)
	inWindowEnd     = utils.HM(14, 0)
	outWindowStart  = utils.HM(14, 1)
	nextDayOutLimit = utils.HM(8, 0)
)

const (
	minSessionHours = 2
	maxSessionHours = 16
)

// PairSessions returns one session per calendar day in [from, to] for the
// punches of a single user. Punches outside the pairing windows are ignored.
func PairSessions(punches []attendance.PunchEvent, from, to time.Time) []attendance.DailySession {
	from, to = utils.DayOf(from), utils.DayOf(to)
	if to.Before(from) {
		return nil
	}

	byDay := groupByDay(punches)
	sessions := make([]attendance.DailySession, 0, int(to.Sub(from).Hours()/24)+1)

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		today := byDay[utils.DateKey(day)]

		if day.Weekday() == time.Sunday {
			sessions = append(sessions, pairSunday(day, today))
			continue
		}

		if len(today) == 0 {
			sessions = append(sessions, attendance.DailySession{Day: day, State: attendance.DayStateNoPunches})
			continue
		}

		next := byDay[utils.DateKey(day.AddDate(0, 0, 1))]
		sessions = append(sessions, pairDay(day, today, next))
	}

	return sessions
}

// pairSunday uses the first and last punch of the day without time windows.
func pairSunday(day time.Time, today []time.Time) attendance.DailySession {
	switch {
	case len(today) >= 2:
		in, out := today[0], today[len(today)-1]
		return attendance.DailySession{Day: day, In: &in, Out: &out, State: attendance.DayStateOk}
	case len(today) == 1:
		in := today[0]
		return attendance.DailySession{Day: day, In: &in, State: attendance.DayStateIncomplete}
	default:
		return attendance.DailySession{Day: day, State: attendance.DayStateNoPunches}
	}
}

func pairDay(day time.Time, today, next []time.Time) attendance.DailySession {
	var in, out *time.Time

	for i := range today {
		clock := utils.ClockOf(today[i])
		if clock >= inWindowStart && clock < inWindowEnd {
			in = &today[i]
			break
		}
	}

	for i := len(today) - 1; i >= 0; i-- {
		if utils.ClockOf(today[i]) >= outWindowStart {
			out = &today[i]
			break
		}
	}

	// controlled midnight crossover
	if out == nil {
		for i := len(next) - 1; i >= 0; i-- {
			if utils.ClockOf(next[i]) <= nextDayOutLimit {
				out = &next[i]
				break
			}
		}
	}

	if in != nil && out != nil && out.Before(*in) {
		crossover := utils.DayOf(*out).After(day) && utils.ClockOf(*out) <= nextDayOutLimit
		if !crossover {
			out = nil
		}
	}

	session := attendance.DailySession{Day: day, State: attendance.DayStateIncomplete}
	if in != nil {
		v := *in
		session.In = &v
	}
	if out != nil {
		v := *out
		session.Out = &v
	}

	if in != nil && out != nil {
		hours := int(out.Sub(*in) / time.Hour)
		if hours >= minSessionHours && hours <= maxSessionHours {
			session.State = attendance.DayStateOk
		}
	}

	return session
}

// groupByDay buckets punch timestamps by local date, each bucket sorted ascending.
func groupByDay(punches []attendance.PunchEvent) map[string][]time.Time {
	byDay := make(map[string][]time.Time)
	for _, p := range punches {
		key := utils.DateKey(p.Timestamp)
		byDay[key] = append(byDay[key], p.Timestamp)
	}
	for _, ts := range byDay {
		sort.Slice(ts, func(i, j int) bool { return ts[i].Before(ts[j]) })
	}
	return byDay
}
