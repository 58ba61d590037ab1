package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferShift(t *testing.T) {
	tests := []struct {
		name     string
		in       int
		inMinute int
		expected attendance.Shift
	}{
		{"early window", 8, 30, attendance.ShiftEarly},
		{"early window start", 7, 0, attendance.ShiftEarly},
		{"late window", 10, 0, attendance.ShiftLate},
		{"late window start", 9, 15, attendance.ShiftLate},
		{"gray zone before dawn", 6, 0, attendance.ShiftEarly},
		{"gray zone between windows", 9, 14, attendance.ShiftLate},
		{"gray zone afternoon", 15, 0, attendance.ShiftLate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := at(tuesday, tt.in, tt.inMinute)
			got := InferShift(in, in.Add(8*time.Hour), attendance.ShiftNone)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestInferShift_SaturdayIsLate(t *testing.T) {
	got := InferShift(at(saturday, 7, 30), at(saturday, 16, 30), attendance.ShiftEarly)
	assert.Equal(t, attendance.ShiftLate, got)
}

func TestDefaultShift(t *testing.T) {
	assert.Equal(t, attendance.ShiftLate, DefaultShift(saturday.Weekday()))
	assert.Equal(t, attendance.ShiftEarly, DefaultShift(tuesday.Weekday()))
}

func TestInferRawShifts_SkipsIncompleteDays(t *testing.T) {
	sessions := []attendance.DailySession{
		{Day: monday, In: ptr(at(monday, 8, 0)), Out: ptr(at(monday, 16, 30)), State: attendance.DayStateOk},
		{Day: tuesday, In: ptr(at(tuesday, 10, 0)), Out: ptr(at(tuesday, 18, 0)), State: attendance.DayStateOk},
		{Day: wednesday, In: ptr(at(wednesday, 8, 0)), State: attendance.DayStateIncomplete},
	}

	raw := InferRawShifts(sessions)
	require.Len(t, raw, 2)
	assert.Equal(t, attendance.ShiftEarly, raw[0].Shift)
	assert.Equal(t, attendance.ShiftLate, raw[1].Shift)
}

func TestResolveMajorityShift(t *testing.T) {
	nextMonday := monday.AddDate(0, 0, 7)
	raw := []DayShift{
		{Day: monday, Shift: attendance.ShiftLate},
		{Day: tuesday, Shift: attendance.ShiftEarly},
		{Day: wednesday, Shift: attendance.ShiftLate},
		{Day: nextMonday, Shift: attendance.ShiftLate},
		{Day: nextMonday.AddDate(0, 0, 1), Shift: attendance.ShiftEarly},
	}

	majority := ResolveMajorityShift(raw)
	require.Len(t, majority, 2)
	assert.Equal(t, attendance.ShiftLate, majority[utils.DateKey(monday)])
	// ties go to Early
	assert.Equal(t, attendance.ShiftEarly, majority[utils.DateKey(nextMonday)])
}

func TestMajorityShiftPerWeek_CountsCompleteRowsOnly(t *testing.T) {
	rows := []attendance.ComputedRow{
		completeRow(1, attendance.ShiftLate, at(monday, 10, 0), at(monday, 18, 0)),
		emptyRow(1, tuesday, attendance.ShiftEarly),
		emptyRow(1, wednesday, attendance.ShiftEarly),
		completeRow(2, attendance.ShiftEarly, at(monday, 8, 0), at(monday, 16, 30)),
	}

	majority := MajorityShiftPerWeek(rows)
	week := utils.DateKey(monday)
	assert.Equal(t, attendance.ShiftLate, majority[1][week])
	assert.Equal(t, attendance.ShiftEarly, majority[2][week])
}
