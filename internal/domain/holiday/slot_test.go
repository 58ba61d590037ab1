package holiday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlot(t *testing.T) {
	t.Run("blank bounds cover the whole day", func(t *testing.T) {
		slot, err := ParseSlot("2024-03-08", "", "", time.UTC)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), slot.Date)
		assert.True(t, slot.IsFullDay())

		start, end := slot.Bounds()
		assert.Equal(t, time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), end)
	})

	t.Run("partial window", func(t *testing.T) {
		slot, err := ParseSlot("2024-03-08", "13:00", "18:30", time.UTC)
		require.NoError(t, err)
		assert.False(t, slot.IsFullDay())
		assert.Equal(t, 13*time.Hour, slot.From)

		start, end := slot.Bounds()
		assert.Equal(t, time.Date(2024, 3, 8, 13, 0, 0, 0, time.UTC), start)
		assert.Equal(t, time.Date(2024, 3, 8, 18, 30, 0, 0, time.UTC), end)
	})

	t.Run("midnight to last minute is a full day", func(t *testing.T) {
		slot, err := ParseSlot("2024-03-08", "0:00", "23:59", time.UTC)
		require.NoError(t, err)
		assert.True(t, slot.IsFullDay())
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := ParseSlot("08/03/2024", "", "", time.UTC)
		assert.ErrorIs(t, err, ErrInvalidSlotDate)

		_, err = ParseSlot("2024-03-08", "25:00", "", time.UTC)
		assert.ErrorIs(t, err, ErrInvalidSlotTime)

		_, err = ParseSlot("2024-03-08", "18:00", "13:00", time.UTC)
		assert.ErrorIs(t, err, ErrInvalidSlotWindow)
	})
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "0:00", FormatClock(0))
	assert.Equal(t, "13:30", FormatClock(13*time.Hour+30*time.Minute))
}

func TestCalendar(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }

	cal := NewCalendar([]Slot{
		{Date: day(8), From: 13 * time.Hour, Name: "first"},
		{Date: day(1), Name: "carnival"},
		{Date: day(8), Name: "second"},
	})

	assert.Equal(t, 2, cal.Len())
	assert.True(t, cal.IsHoliday(day(8).Add(15*time.Hour)))
	assert.False(t, cal.IsHoliday(day(9)))

	slot, ok := cal.SlotOn(day(8))
	require.True(t, ok)
	assert.Equal(t, "second", slot.Name)

	slots := cal.Slots()
	require.Len(t, slots, 2)
	assert.Equal(t, "carnival", slots[0].Name)
	assert.Equal(t, "second", slots[1].Name)
}

func TestCreateSlotRequest_Validate(t *testing.T) {
	req := CreateSlotRequest{Date: "2024-03-08", From: "13:00"}
	assert.NoError(t, req.Validate())

	req = CreateSlotRequest{From: "1pm"}
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date: date is required")
	assert.Contains(t, err.Error(), "from: from must be in H:mm format")
}
