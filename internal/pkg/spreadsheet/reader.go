package spreadsheet

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

const (
	UsersSheet   = "usuarios"
	PunchesSheet = "fichadas"

	timestampLayout = "02/01/2006 15:04:05"
	maxXLSRows      = 100000
)

// Reader is a punch source backed by a workbook with a users sheet
// (ID, Name) and a punches sheet (ID, timestamp, UserID).
type Reader struct {
	path   string
	offset time.Duration
	loc    *time.Location
}

func NewReader(path string, offset time.Duration, loc *time.Location) *Reader {
	if loc == nil {
		loc = time.Local
	}
	return &Reader{path: path, offset: offset, loc: loc}
}

// FetchUsers implements attendance.PunchSource.
func (r *Reader) FetchUsers(ctx context.Context) (attendance.Directory, error) {
	sheets, err := r.load()
	if err != nil {
		return nil, err
	}

	users := make(attendance.Directory)
	for i, row := range sheets[UsersSheet] {
		if i == 0 {
			continue
		}
		id, ok := parseID(cell(row, 0))
		if !ok {
			continue
		}
		name := cell(row, 1)
		if name == "" {
			name = strconv.FormatInt(id, 10)
		}
		users[id] = name
	}
	return users, nil
}

// FetchPunches implements attendance.PunchSource. Bad rows are skipped.
func (r *Reader) FetchPunches(ctx context.Context, from, to time.Time) ([]attendance.PunchEvent, error) {
	sheets, err := r.load()
	if err != nil {
		return nil, err
	}

	start := utils.DayOf(from.In(r.loc))
	end := utils.DayOf(to.In(r.loc)).AddDate(0, 0, 1)

	var punches []attendance.PunchEvent
	skipped := 0
	for i, row := range sheets[PunchesSheet] {
		if i == 0 {
			continue
		}
		id, ok := parseID(cell(row, 0))
		if !ok {
			skipped++
			continue
		}
		ts, ok := r.parseTimestamp(cell(row, 1))
		if !ok {
			skipped++
			continue
		}
		if ts.Before(start) || !ts.Before(end) {
			continue
		}

		p := attendance.PunchEvent{ID: id, Timestamp: ts}
		if uid, ok := parseID(cell(row, 2)); ok {
			p.UserID = &uid
		}
		punches = append(punches, p)
	}

	if skipped > 0 {
		slog.Warn("Skipped unreadable punch rows", "file", r.path, "rows", skipped)
	}

	sort.SliceStable(punches, func(i, j int) bool {
		a, b := punches[i], punches[j]
		switch {
		case a.UserID == nil && b.UserID != nil:
			return false
		case a.UserID != nil && b.UserID == nil:
			return true
		case a.UserID != nil && b.UserID != nil && *a.UserID != *b.UserID:
			return *a.UserID < *b.UserID
		}
		return a.Timestamp.Before(b.Timestamp)
	})
	return punches, nil
}

func (r *Reader) load() (map[string][][]string, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", attendance.ErrPunchSourceUnavailable, err)
	}

	var sheets map[string][][]string
	switch strings.ToLower(filepath.Ext(r.path)) {
	case ".xls":
		sheets, err = readXLS(data)
	default:
		sheets, err = readXLSX(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", attendance.ErrPunchSourceUnavailable, r.path, err)
	}
	return sheets, nil
}

func readXLSX(data []byte) (map[string][][]string, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	sheets := make(map[string][][]string)
	for _, name := range file.GetSheetList() {
		key := strings.ToLower(strings.TrimSpace(name))
		if key != UsersSheet && key != PunchesSheet {
			continue
		}
		rows, err := file.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		sheets[key] = rows
	}
	return sheets, nil
}

func readXLS(data []byte) (map[string][][]string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}

	sheets := make(map[string][][]string)
	for i := 0; i < workbook.NumSheets(); i++ {
		sheet := workbook.GetSheet(i)
		if sheet == nil {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(sheet.Name))
		if key != UsersSheet && key != PunchesSheet {
			continue
		}

		var rows [][]string
		for j := 0; j <= int(sheet.MaxRow) && j < maxXLSRows; j++ {
			row := sheet.Row(j)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			values := make([]string, 0, row.LastCol())
			for k := 0; k < row.LastCol(); k++ {
				values = append(values, row.Col(k))
			}
			rows = append(rows, values)
		}
		sheets[key] = rows
	}
	return sheets, nil
}

// parseTimestamp accepts dd/MM/yyyy HH:mm:ss text or an Excel serial.
func (r *Reader) parseTimestamp(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}

	if t, err := time.ParseInLocation(timestampLayout, value, r.loc); err == nil {
		return t.Add(r.offset), true
	}

	serial, err := strconv.ParseFloat(value, 64)
	if err != nil || serial <= 0 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	t = t.Round(time.Second)
	// serials carry wall-clock time with no zone
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, r.loc)
	return wall.Add(r.offset), true
}

func parseID(value string) (int64, bool) {
	if value == "" {
		return 0, false
	}
	if id, err := strconv.ParseInt(value, 10, 64); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
