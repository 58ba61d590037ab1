package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
)

const (
	// attendance minutes below this are ignored
	attendanceThreshold = 20
	// |net| below this is noise
	netNoiseThreshold = 15
)

// RoundAttendance rounds lateness, overtime and early-departure minutes:
// under 20 is zero, otherwise the remainder of the hour rounds down below 20,
// to the half hour below 45, and up to the next hour from 45.
func RoundAttendance(minutes int) int {
	if minutes < attendanceThreshold {
		return 0
	}

	hours := minutes / 60
	remainder := minutes % 60

	switch {
	case remainder < 20:
		return hours * 60
	case remainder < 45:
		return hours*60 + 30
	default:
		return (hours + 1) * 60
	}
}

// NormalizeNet zeroes a net balance whose magnitude is below 15 minutes.
func NormalizeNet(net int) int {
	if net > -netNoiseThreshold && net < netNoiseThreshold {
		return 0
	}
	return net
}

// Lateness is the rounded late arrival against the shift start. Saturdays start at 08:00 for both shifts.
func Lateness(in time.Time, s attendance.Shift) int {
	start := ExpectedStart(s, in.Weekday())
	if in.Weekday() == time.Saturday {
		start = lateSaturdayStart
	}
	return RoundAttendance(max(0, utils.MinutesBetween(utils.AtClock(in, start), in)))
}

// Overtime is the rounded sum of early arrival and late departure, each
// counted only when it reaches 20 minutes. Both are measured on the day of in
// so a departure after midnight still counts.
func Overtime(in, out time.Time, s attendance.Shift) int {
	wd := in.Weekday()

	early := max(0, utils.MinutesBetween(in, utils.AtClock(in, ExpectedStart(s, wd))))
	late := max(0, utils.MinutesBetween(utils.AtClock(in, ExpectedEnd(s, wd)), out))

	total := 0
	if early >= attendanceThreshold {
		total += early
	}
	if late >= attendanceThreshold {
		total += late
	}
	return RoundAttendance(total)
}

// EarlyDeparture is the rounded time missing between out and the shift end.
// Saturdays end at 12:00 for both shifts.
func EarlyDeparture(in, out time.Time, s attendance.Shift) int {
	end := ExpectedEnd(s, in.Weekday())
	if in.Weekday() == time.Saturday {
		end = lateSaturdayEnd
	}
	endAt := utils.AtClock(in, end)
	if !out.Before(endAt) {
		return 0
	}

	worked := utils.MinutesBetween(in, out)
	required := utils.MinutesBetween(in, endAt)
	missing := required - worked
	if missing <= 0 {
		return 0
	}
	return RoundAttendance(missing)
}

// SaturdayOwed is the raw overlap of [in, out] with the Saturday 08:00-12:00 window.
func SaturdayOwed(in, out time.Time) int {
	start := utils.AtClock(in, lateSaturdayStart)
	end := utils.AtClock(in, lateSaturdayEnd)
	if in.After(start) {
		start = in
	}
	if out.Before(end) {
		end = out
	}
	if !end.After(start) {
		return 0
	}
	return utils.MinutesBetween(start, end)
}

// Metrics holds the minute figures of one worked day.
type Metrics struct {
	Lateness       int
	Overtime       int
	EarlyDeparture int
	Owed           int
	SaturdayEarly  bool
}

// ComputeMetrics evaluates a complete day against shift s. An Early shift
// working a Saturday is measured against the Saturday Late window: no
// lateness or early departure, the window overlap is owed time and anything
// beyond it is overtime.
func ComputeMetrics(in, out time.Time, s attendance.Shift) Metrics {
	if in.Weekday() == time.Saturday && s == attendance.ShiftEarly {
		return Metrics{
			Overtime:      Overtime(in, out, attendance.ShiftLate),
			Owed:          SaturdayOwed(in, out),
			SaturdayEarly: true,
		}
	}
	return standardMetrics(in, out, s)
}

func standardMetrics(in, out time.Time, s attendance.Shift) Metrics {
	return Metrics{
		Lateness:       Lateness(in, s),
		Overtime:       Overtime(in, out, s),
		EarlyDeparture: EarlyDeparture(in, out, s),
	}
}

// Totals folds metrics into row figures: lateness includes early departure
// and net credits owed time.
func (m Metrics) Totals() (lateness, overtime, net int) {
	lateness = m.Lateness + m.EarlyDeparture
	overtime = m.Overtime
	net = NormalizeNet(overtime - lateness + m.Owed)
	return lateness, overtime, net
}

// ShiftDuration is the scheduled length of s on the given weekday.
func ShiftDuration(s attendance.Shift, wd time.Weekday) int {
	d := int((ExpectedEnd(s, wd) - ExpectedStart(s, wd)) / time.Minute)
	return max(0, d)
}
