package attendance

import (
	"testing"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairSessions_OneSessionPerDay(t *testing.T) {
	sessions := PairSessions(nil, monday, sunday)

	require.Len(t, sessions, 7)
	for i, s := range sessions {
		assert.True(t, s.Day.Equal(monday.AddDate(0, 0, i)))
		assert.Equal(t, attendance.DayStateNoPunches, s.State)
		assert.Nil(t, s.In)
		assert.Nil(t, s.Out)
	}
}

func TestPairSessions_RangeReversed(t *testing.T) {
	assert.Empty(t, PairSessions(nil, tuesday, monday))
}

func TestPairSessions_Weekday(t *testing.T) {
	tests := []struct {
		name    string
		punches []attendance.PunchEvent
		in      string
		out     string
		state   attendance.DayState
	}{
		{
			name:    "first in and last out",
			punches: punchesFor(1, at(tuesday, 18, 20), at(tuesday, 7, 55), at(tuesday, 12, 0), at(tuesday, 8, 10)),
			in:      "07:55",
			out:     "18:20",
			state:   attendance.DayStateOk,
		},
		{
			name:    "punches outside windows are ignored",
			punches: punchesFor(1, at(tuesday, 4, 30), at(tuesday, 8, 0), at(tuesday, 14, 0), at(tuesday, 16, 30)),
			in:      "08:00",
			out:     "16:30",
			state:   attendance.DayStateOk,
		},
		{
			name:    "only out",
			punches: punchesFor(1, at(tuesday, 18, 0)),
			out:     "18:00",
			state:   attendance.DayStateIncomplete,
		},
		{
			name:    "only in",
			punches: punchesFor(1, at(tuesday, 8, 0)),
			in:      "08:00",
			state:   attendance.DayStateIncomplete,
		},
		{
			name:    "session shorter than two hours",
			punches: punchesFor(1, at(tuesday, 13, 0), at(tuesday, 14, 30)),
			in:      "13:00",
			out:     "14:30",
			state:   attendance.DayStateIncomplete,
		},
		{
			name:    "departure after midnight",
			punches: punchesFor(1, at(tuesday, 13, 30), at(wednesday, 1, 0)),
			in:      "13:30",
			out:     "01:00",
			state:   attendance.DayStateOk,
		},
		{
			name:    "next day punch after 08:00 is not a departure",
			punches: punchesFor(1, at(tuesday, 13, 30), at(wednesday, 9, 0)),
			in:      "13:30",
			state:   attendance.DayStateIncomplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := PairSessions(tt.punches, tuesday, tuesday)
			require.Len(t, sessions, 1)

			s := sessions[0]
			assert.Equal(t, tt.state, s.State)
			assert.Equal(t, tt.in, clockOrEmpty(s.In))
			assert.Equal(t, tt.out, clockOrEmpty(s.Out))
		})
	}
}

func TestPairSessions_Sunday(t *testing.T) {
	two := PairSessions(punchesFor(1, at(sunday, 3, 0), at(sunday, 22, 0), at(sunday, 12, 0)), sunday, sunday)
	require.Len(t, two, 1)
	assert.Equal(t, attendance.DayStateOk, two[0].State)
	assert.Equal(t, "03:00", clockOrEmpty(two[0].In))
	assert.Equal(t, "22:00", clockOrEmpty(two[0].Out))

	one := PairSessions(punchesFor(1, at(sunday, 9, 0)), sunday, sunday)
	require.Len(t, one, 1)
	assert.Equal(t, attendance.DayStateIncomplete, one[0].State)
	assert.Equal(t, "09:00", clockOrEmpty(one[0].In))
	assert.Nil(t, one[0].Out)
}
