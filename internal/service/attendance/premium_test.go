package attendance

import (
	"testing"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/domain/holiday"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPremiumHours(t *testing.T) {
	tests := []struct {
		minutes  int
		expected string
	}{
		{0, "0"},
		{19, "0"},
		{20, "0.5"},
		{49, "0.5"},
		{50, "1"},
		{80, "1.5"},
		{115, "2"},
	}

	for _, tt := range tests {
		if got := PremiumHours(tt.minutes); got.String() != tt.expected {
			t.Errorf("PremiumHours(%d) = %s, want %s", tt.minutes, got.String(), tt.expected)
		}
	}
}

func TestSplitPremium(t *testing.T) {
	tests := []struct {
		name   string
		row    attendance.ComputedRow
		cal    holiday.Calendar
		min50  int
		min100 int
	}{
		{
			name:  "weekday early arrival and late departure",
			row:   completeRow(1, attendance.ShiftEarly, at(tuesday, 7, 55), at(tuesday, 18, 20)),
			min50: 115,
		},
		{
			name:   "weekday before dawn pays double",
			row:    completeRow(1, attendance.ShiftEarly, at(tuesday, 5, 0), at(tuesday, 16, 30)),
			min50:  60,
			min100: 120,
		},
		{
			name:   "saturday afternoon pays double",
			row:    completeRow(1, attendance.ShiftLate, at(saturday, 8, 0), at(saturday, 15, 0)),
			min50:  60,
			min100: 120,
		},
		{
			name:  "saturday early shift uses the saturday window",
			row:   completeRow(1, attendance.ShiftEarly, at(saturday, 8, 0), at(saturday, 13, 0)),
			min50: 60,
		},
		{
			name:   "sunday pays the whole interval double",
			row:    completeRow(1, attendance.ShiftNone, at(sunday, 9, 0), at(sunday, 13, 0)),
			min100: 240,
		},
		{
			name:   "holiday pays the whole interval double",
			row:    completeRow(1, attendance.ShiftEarly, at(tuesday, 8, 0), at(tuesday, 11, 30)),
			cal:    calendarOf(slotOn(tuesday, 0, 0)),
			min100: 210,
		},
		{
			name:   "departure after midnight",
			row:    completeRow(1, attendance.ShiftLate, at(tuesday, 13, 0), at(wednesday, 1, 0)),
			min50:  359,
			min100: 60,
		},
		{
			name:  "shift inferred when missing",
			row:   completeRow(1, attendance.ShiftNone, at(tuesday, 10, 0), at(tuesday, 19, 0)),
			min50: 60,
		},
		{
			name: "incomplete row",
			row:  emptyRow(1, tuesday, attendance.ShiftEarly),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			min50, min100 := SplitPremium(tt.row, tt.cal)
			assert.Equal(t, tt.min50, min50, "50%")
			assert.Equal(t, tt.min100, min100, "100%")
		})
	}
}

func TestApplyPremiums(t *testing.T) {
	withOvertime := completeRow(1, attendance.ShiftEarly, at(tuesday, 7, 55), at(tuesday, 18, 20)).WithMinutes(0, 120, 120)
	noOvertime := completeRow(2, attendance.ShiftEarly, at(tuesday, 5, 0), at(tuesday, 16, 30))
	noOvertime.Premium50 = PremiumHours(60)

	out := ApplyPremiums([]attendance.ComputedRow{withOvertime, noOvertime}, holiday.Calendar{})
	require.Len(t, out, 2)

	assert.Equal(t, "2", out[0].Premium50.String())
	assert.True(t, out[0].Premium100.IsZero())

	assert.True(t, out[1].Premium50.IsZero())
	assert.True(t, out[1].Premium100.IsZero())
}

func TestApplyPremiums_HolidayScenario(t *testing.T) {
	cal := calendarOf(slotOn(tuesday, utils.HM(8, 0), utils.HM(11, 30)))
	row := completeRow(1, attendance.ShiftEarly, at(tuesday, 7, 0), at(tuesday, 16, 0))

	out := ApplyPremiums(ApplyHolidays([]attendance.ComputedRow{row}, cal), cal)
	require.Len(t, out, 2)

	assert.Equal(t, "3.5", out[0].Premium100.String())
	assert.True(t, out[0].Premium50.IsZero())
	assert.True(t, out[1].Premium100.IsZero())
}
