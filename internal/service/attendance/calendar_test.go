package attendance

import (
	"testing"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplySundays(t *testing.T) {
	oneMark := emptyRow(2, sunday, attendance.ShiftEarly)
	oneMark.In = ptr(at(sunday, 9, 0))
	oneMark.State = attendance.DayStateIncomplete

	worked := completeRow(3, attendance.ShiftEarly, at(sunday, 9, 0), at(sunday, 13, 10)).WithMinutes(60, 0, -60)

	rows := []attendance.ComputedRow{
		emptyRow(1, sunday, attendance.ShiftEarly),
		oneMark,
		worked,
		completeRow(4, attendance.ShiftEarly, at(tuesday, 8, 0), at(tuesday, 16, 30)),
	}

	out := ApplySundays(rows)
	require.Len(t, out, 3)

	if diff := cmp.Diff(oneMark, out[0]); diff != "" {
		t.Errorf("single punch Sunday changed (-want +got):\n%s", diff)
	}

	sun := out[1]
	assert.Equal(t, attendance.DayStateSunday, sun.State)
	assert.Equal(t, attendance.ShiftNone, sun.Shift)
	assert.Equal(t, 0, sun.LatenessMin)
	assert.Equal(t, 250, sun.OvertimeMin)
	assert.Equal(t, sun.OvertimeMin, sun.NetMin)
	assert.Equal(t, "Sunday work", sun.Description)

	assert.Equal(t, int64(4), out[2].UserID)
}

func TestApplyHolidays_FullDay(t *testing.T) {
	cal := calendarOf(slotOn(tuesday, 0, utils.HM(23, 59)))

	rows := []attendance.ComputedRow{
		emptyRow(1, tuesday, attendance.ShiftEarly),
		completeRow(2, attendance.ShiftEarly, at(tuesday, 8, 0), at(tuesday, 12, 0)),
	}

	out := ApplyHolidays(rows, cal)
	require.Len(t, out, 2)

	placeholder := out[0]
	assert.Equal(t, attendance.DayStateHoliday, placeholder.State)
	assert.Equal(t, attendance.ShiftNone, placeholder.Shift)
	assert.Nil(t, placeholder.In)
	assert.Nil(t, placeholder.Out)
	assert.Equal(t, 0, placeholder.NetMin)
	assert.Equal(t, "Holiday", placeholder.Description)

	worked := out[1]
	assert.Equal(t, attendance.DayStateHoliday, worked.State)
	assert.Equal(t, 0, worked.LatenessMin)
	assert.Equal(t, 240, worked.OvertimeMin)
	assert.Equal(t, 240, worked.NetMin)
	assert.Equal(t, "Holiday work", worked.Description)
}

func TestApplyHolidays_SlotInsideWorkedInterval(t *testing.T) {
	cal := calendarOf(slotOn(tuesday, utils.HM(8, 0), utils.HM(11, 30)))
	row := completeRow(1, attendance.ShiftEarly, at(tuesday, 7, 0), at(tuesday, 16, 0)).WithMinutes(0, 60, 60)

	out := ApplyHolidays([]attendance.ComputedRow{row}, cal)
	require.Len(t, out, 2)

	hol, rest := out[0], out[1]
	assert.Equal(t, attendance.DayStateHoliday, hol.State)
	assert.Equal(t, "08:00", clockOrEmpty(hol.In))
	assert.Equal(t, "11:30", clockOrEmpty(hol.Out))
	assert.Equal(t, 210, hol.OvertimeMin)
	assert.Equal(t, 210, hol.NetMin)

	assert.Equal(t, attendance.DayStateOk, rest.State)
	assert.Equal(t, "07:00", clockOrEmpty(rest.In))
	assert.Equal(t, "16:00", clockOrEmpty(rest.Out))
	assert.Equal(t, attendance.ShiftEarly, rest.Shift)
	assert.Equal(t, 0, rest.LatenessMin)
	assert.Equal(t, 0, rest.OvertimeMin)
	assert.Equal(t, 0, rest.NetMin)
}

func TestApplyHolidays_PartialSlotSplits(t *testing.T) {
	row := completeRow(1, attendance.ShiftEarly, at(tuesday, 7, 0), at(tuesday, 16, 0))

	tests := []struct {
		name     string
		from, to int
		clocks   [][2]string
		states   []attendance.DayState
		overtime []int
	}{
		{
			name:     "slot covers the start",
			from:     6,
			to:       10,
			clocks:   [][2]string{{"07:00", "10:00"}, {"10:00", "16:00"}},
			states:   []attendance.DayState{attendance.DayStateHoliday, attendance.DayStateOk},
			overtime: []int{180, 0},
		},
		{
			name:     "slot covers the end",
			from:     14,
			to:       20,
			clocks:   [][2]string{{"07:00", "14:00"}, {"14:00", "16:00"}},
			states:   []attendance.DayState{attendance.DayStateOk, attendance.DayStateHoliday},
			overtime: []int{0, 120},
		},
		{
			name:     "slot after the worked interval",
			from:     18,
			to:       20,
			clocks:   [][2]string{{"07:00", "16:00"}},
			states:   []attendance.DayState{attendance.DayStateOk},
			overtime: []int{0},
		},
		{
			name:     "slot covers the whole interval",
			from:     6,
			to:       17,
			clocks:   [][2]string{{"07:00", "16:00"}},
			states:   []attendance.DayState{attendance.DayStateOk},
			overtime: []int{0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := calendarOf(slotOn(tuesday, utils.HM(tt.from, 0), utils.HM(tt.to, 0)))

			out := ApplyHolidays([]attendance.ComputedRow{row}, cal)
			require.Len(t, out, len(tt.clocks))
			for i, r := range out {
				assert.Equal(t, tt.clocks[i][0], clockOrEmpty(r.In))
				assert.Equal(t, tt.clocks[i][1], clockOrEmpty(r.Out))
				assert.Equal(t, tt.states[i], r.State)
				assert.Equal(t, tt.overtime[i], r.OvertimeMin)
			}
		})
	}
}

func TestApplyHolidays_PartialSlotDropsUnworkedDay(t *testing.T) {
	cal := calendarOf(slotOn(tuesday, utils.HM(8, 0), utils.HM(12, 0)))

	out := ApplyHolidays([]attendance.ComputedRow{emptyRow(1, tuesday, attendance.ShiftEarly)}, cal)
	assert.Empty(t, out)
}

func TestCalendarOverlay_Idempotent(t *testing.T) {
	cal := calendarOf(
		slotOn(tuesday, utils.HM(8, 0), utils.HM(11, 30)),
		slotOn(wednesday, 0, 0),
	)
	rows := []attendance.ComputedRow{
		completeRow(1, attendance.ShiftEarly, at(tuesday, 7, 0), at(tuesday, 16, 0)),
		completeRow(1, attendance.ShiftEarly, at(wednesday, 8, 0), at(wednesday, 16, 30)),
		completeRow(1, attendance.ShiftEarly, at(sunday, 9, 0), at(sunday, 13, 0)),
	}

	once := ApplyPremiums(ApplyHolidays(ApplySundays(rows), cal), cal)
	twice := ApplyPremiums(ApplyHolidays(ApplySundays(once), cal), cal)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Errorf("second pass changed rows (-once +twice):\n%s", diff)
	}
}
