package spreadsheet

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeWorkbook(t *testing.T, users [][]interface{}, punches [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", UsersSheet))
	_, err := f.NewSheet(PunchesSheet)
	require.NoError(t, err)

	write := func(sheet string, header []interface{}, rows [][]interface{}) {
		require.NoError(t, f.SetSheetRow(sheet, "A1", &header))
		for i, row := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+2)
			require.NoError(t, f.SetSheetRow(sheet, cell, &row))
		}
	}
	write(UsersSheet, []interface{}{"ID", "Nombre"}, users)
	write(PunchesSheet, []interface{}{"ID", "FechaHora", "UserID"}, punches)

	path := filepath.Join(t.TempDir(), "punches.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReader_FetchUsers(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{1, "Ana"},
		{2, ""},
		{"x", "Broken"},
	}, nil)

	users, err := NewReader(path, 0, time.UTC).FetchUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, attendance.Directory{1: "Ana", 2: "2"}, users)
}

func TestReader_FetchPunches(t *testing.T) {
	path := writeWorkbook(t, nil, [][]interface{}{
		{10, "05/03/2024 16:30:00", 1},
		{11, "05/03/2024 08:00:00", 1},
		{12, 45356.5, 2},
		{13, "05/03/2024 09:00:00", nil},
		{14, "not a date", 1},
		{15, "07/03/2024 08:00:00", 1},
		{"", "05/03/2024 08:00:00", 1},
	})

	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	punches, err := NewReader(path, 0, time.UTC).FetchPunches(context.Background(), day, day)
	require.NoError(t, err)
	require.Len(t, punches, 4)

	ids := make([]int64, len(punches))
	for i, p := range punches {
		ids[i] = p.ID
	}
	assert.Equal(t, []int64{11, 10, 12, 13}, ids)
	assert.Equal(t, time.Date(2024, time.March, 5, 12, 0, 0, 0, time.UTC), punches[2].Timestamp)
	assert.Nil(t, punches[3].UserID)
}

func TestReader_AppliesOffset(t *testing.T) {
	path := writeWorkbook(t, nil, [][]interface{}{
		{1, "05/03/2024 05:00:00", 1},
	})

	day := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	punches, err := NewReader(path, 3*time.Hour, time.UTC).FetchPunches(context.Background(), day, day)
	require.NoError(t, err)
	require.Len(t, punches, 1)
	assert.Equal(t, 8, punches[0].Timestamp.Hour())
}

func TestReader_MissingFile(t *testing.T) {
	r := NewReader(filepath.Join(t.TempDir(), "missing.xlsx"), 0, time.UTC)

	_, err := r.FetchUsers(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, attendance.ErrPunchSourceUnavailable))
}
