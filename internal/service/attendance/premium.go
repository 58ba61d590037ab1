package attendance

import (
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/domain/holiday"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
	"github.com/shopspring/decimal"
)

const (
	rate50  = 50
	rate100 = 100

	// premium minutes below this are not paid
	premiumFloor = 20
	// paid premium block, in minutes
	premiumBlock = 30
)

var (
	zeroHours = decimal.Zero
	halfHour  = decimal.New(5, -1)
)

type band struct {
	from time.Duration
	to   time.Duration
	rate int
}

var (
	restDayBands = []band{{from: 0, to: 24 * time.Hour, rate: rate100}}

	saturdayBands = []band{
		{from: utils.HM(7, 0), to: utils.HM(13, 0), rate: rate50},
		{from: utils.HM(13, 0), to: 24 * time.Hour, rate: rate100},
	}

	weekdayBands = []band{
		{from: 0, to: utils.HM(7, 0), rate: rate100},
		{from: utils.HM(7, 0), to: utils.HM(23, 59) + 59*time.Second, rate: rate50},
	}
)

// PremiumHours converts premium minutes to paid hours: nothing below 20
// minutes, then one half hour for the first 20 and another for every full
// 30 minutes after it.
func PremiumHours(minutes int) decimal.Decimal {
	if minutes < premiumFloor {
		return zeroHours
	}
	blocks := (minutes-premiumFloor)/premiumBlock + 1
	return decimal.NewFromInt(int64(blocks)).Mul(halfHour)
}

// SplitPremium returns the overtime minutes of row paid at 50% and at 100%.
// Sundays and holidays pay the whole worked interval at 100%. Other days pay
// the time before the shift start and after the shift end by time-of-day band.
func SplitPremium(row attendance.ComputedRow, cal holiday.Calendar) (min50, min100 int) {
	if !row.IsComplete() || !row.Out.After(*row.In) {
		return 0, 0
	}
	in, out := *row.In, *row.Out

	if row.Date.Weekday() == time.Sunday || cal.IsHoliday(row.Date) {
		return 0, utils.MinutesBetween(in, out)
	}

	shift := row.Shift
	if shift == attendance.ShiftNone {
		shift = InferShift(in, out, DefaultShift(row.Date.Weekday()))
	}
	wd := row.Date.Weekday()
	if wd == time.Saturday && shift == attendance.ShiftEarly {
		shift = attendance.ShiftLate
	}

	startAt := utils.AtClock(row.Date, ExpectedStart(shift, wd))
	endAt := utils.AtClock(row.Date, ExpectedEnd(shift, wd))

	perRate := make(map[int]time.Duration, 2)
	if in.Before(startAt) {
		addBanded(perRate, in, minTime(startAt, out), cal)
	}
	if out.After(endAt) {
		addBanded(perRate, maxTime(endAt, in), out, cal)
	}

	return int(perRate[rate50] / time.Minute), int(perRate[rate100] / time.Minute)
}

// addBanded splits [from, to) into calendar days and adds the overlap with each day's bands.
func addBanded(perRate map[int]time.Duration, from, to time.Time, cal holiday.Calendar) {
	for day := utils.DayOf(from); day.Before(to); day = day.AddDate(0, 0, 1) {
		for _, b := range bandsFor(day, cal) {
			lo := maxTime(from, utils.AtClock(day, b.from))
			hi := minTime(to, utils.AtClock(day, b.to))
			if hi.After(lo) {
				perRate[b.rate] += hi.Sub(lo)
			}
		}
	}
}

func bandsFor(day time.Time, cal holiday.Calendar) []band {
	switch {
	case day.Weekday() == time.Sunday || cal.IsHoliday(day):
		return restDayBands
	case day.Weekday() == time.Saturday:
		return saturdayBands
	default:
		return weekdayBands
	}
}

// ApplyPremiums recomputes the 50% and 100% premium hours of every row with overtime.
func ApplyPremiums(rows []attendance.ComputedRow, cal holiday.Calendar) []attendance.ComputedRow {
	out := make([]attendance.ComputedRow, 0, len(rows))
	for _, row := range rows {
		row.Premium50, row.Premium100 = zeroHours, zeroHours
		if row.OvertimeMin > 0 {
			min50, min100 := SplitPremium(row, cal)
			row.Premium50 = PremiumHours(min50)
			row.Premium100 = PremiumHours(min100)
		}
		out = append(out, row)
	}
	return out
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
