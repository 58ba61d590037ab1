package attendance

import (
	"testing"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleRows_EarlyShiftWithOvertime(t *testing.T) {
	punches := punchesFor(7, at(tuesday, 7, 55), at(tuesday, 18, 20))

	rows := AssembleRows(punches, attendance.Directory{7: "Ana"}, monday, tuesday)
	require.Len(t, rows, 2)

	mon := rows[0]
	assert.True(t, mon.Date.Equal(monday))
	assert.Equal(t, attendance.DayStateNoPunches, mon.State)
	assert.Equal(t, attendance.ShiftEarly, mon.Shift)

	tue := rows[1]
	assert.Equal(t, "Ana", tue.UserName)
	assert.Equal(t, attendance.ShiftEarly, tue.Shift)
	assert.Equal(t, attendance.DayStateOk, tue.State)
	assert.Equal(t, 0, tue.LatenessMin)
	assert.Equal(t, 120, tue.OvertimeMin)
	assert.Equal(t, 120, tue.NetMin)
	assert.Equal(t, "07:55", clockOrEmpty(tue.RawIn))
	assert.Equal(t, "18:20", clockOrEmpty(tue.RawOut))
	require.NotNil(t, tue.OvertimeWindow)
	assert.True(t, tue.OvertimeWindow.Start.Equal(at(tuesday, 16, 30)))
	assert.True(t, tue.OvertimeWindow.End.Equal(at(tuesday, 18, 20)))
	assert.True(t, tue.Premium50.IsZero())
}

func TestAssembleRows_SkipsAnonymousPunchesAndNamesUnknownUsers(t *testing.T) {
	punches := append(punchesFor(9, at(tuesday, 8, 0), at(tuesday, 16, 30)),
		attendance.PunchEvent{ID: 99, Timestamp: at(tuesday, 9, 0)})

	rows := AssembleRows(punches, attendance.Directory{}, tuesday, tuesday)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(9), rows[0].UserID)
	assert.Equal(t, "9", rows[0].UserName)
}

func TestAssembleRows_EarlyDeparture(t *testing.T) {
	punches := punchesFor(1, at(wednesday, 8, 0), at(wednesday, 15, 0))

	rows := AssembleRows(punches, attendance.Directory{1: "Ana"}, wednesday, wednesday)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, attendance.DayStateEarlyDeparture, row.State)
	assert.Equal(t, 90, row.LatenessMin)
	assert.Equal(t, 0, row.OvertimeMin)
	assert.Equal(t, -90, row.NetMin)
	assert.Nil(t, row.OvertimeWindow)
}

func TestAssembleRows_SaturdayForEarlyShift(t *testing.T) {
	punches := punchesFor(1,
		at(monday, 8, 0), at(monday, 16, 30),
		at(tuesday, 8, 0), at(tuesday, 16, 30),
		at(saturday, 7, 30), at(saturday, 14, 30),
	)

	rows := AssembleRows(punches, attendance.Directory{1: "Ana"}, monday, saturday)
	require.Len(t, rows, 6)

	sat := rows[5]
	assert.True(t, sat.Date.Equal(saturday))
	assert.Equal(t, attendance.ShiftEarly, sat.Shift)
	assert.Equal(t, attendance.DayStateOk, sat.State)
	assert.Equal(t, 0, sat.LatenessMin)
	assert.Equal(t, 180, sat.OvertimeMin)
	assert.Equal(t, 420, sat.NetMin)
	assert.Equal(t, "Owed, Overtime", sat.Description)
	require.NotNil(t, sat.OvertimeWindow)
	assert.True(t, sat.OvertimeWindow.Start.Equal(at(saturday, 12, 0)))
}

func TestAssembleRows_MajorityOverridesOutlierDay(t *testing.T) {
	// Wednesday alone looks like a Late shift, the week votes Early
	punches := punchesFor(1,
		at(monday, 8, 0), at(monday, 16, 30),
		at(tuesday, 8, 0), at(tuesday, 16, 30),
		at(wednesday, 10, 0), at(wednesday, 18, 0),
	)

	rows := AssembleRows(punches, attendance.Directory{1: "Ana"}, monday, wednesday)
	require.Len(t, rows, 3)

	wed := rows[2]
	assert.Equal(t, attendance.ShiftEarly, wed.Shift)
	// 2h late against 08:00, 90 minutes of overtime after 16:30
	assert.Equal(t, 120, wed.LatenessMin)
	assert.Equal(t, 90, wed.OvertimeMin)
	assert.Equal(t, -30, wed.NetMin)
}

func TestSortRows(t *testing.T) {
	rows := []attendance.ComputedRow{
		{Date: tuesday, UserID: 2, UserName: "Bea"},
		{Date: monday, UserID: 3, UserName: "Carl"},
		{Date: tuesday, UserID: 1, UserName: "Ana"},
	}

	SortRows(rows)
	assert.Equal(t, []int64{3, 1, 2}, []int64{rows[0].UserID, rows[1].UserID, rows[2].UserID})
}
