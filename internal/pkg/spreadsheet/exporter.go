package spreadsheet

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/cmlabs-hris/attendance-ledger/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	LedgerSheet = "Ledger"
	TotalsSheet = "Totals"

	maxSheetName = 31
	unnamedSheet = "Unnamed"
)

var stateFills = map[attendance.DayState]string{
	attendance.DayStateEarlyDeparture: "#FFCC99",
	attendance.DayStateNoPunches:      "#FF99CC",
	attendance.DayStateIncomplete:     "#FFFF99",
	attendance.DayStateSunday:         "#99CCFF",
	attendance.DayStateHoliday:        "#FFC0CB",
}

var (
	ledgerHeader = []interface{}{
		"Date", "User", "Shift", "In", "Out", "Lateness (min)", "Overtime (min)", "Net (min)",
		"Premium 50% (h)", "Premium 100% (h)", "Description", "State",
	}
	totalsHeader = []interface{}{"User", "Lateness (h)", "Premium 50% (h)", "Premium 100% (h)"}
	userHeader   = []interface{}{
		"Date", "Shift", "In", "Out", "Lateness (min)", "Overtime (min)",
		"Premium 50% (h)", "Premium 100% (h)", "Description", "State",
	}
)

// Exporter renders a ledger as an xlsx workbook.
type Exporter struct{}

func NewExporter() *Exporter {
	return &Exporter{}
}

type workbook struct {
	file   *excelize.File
	header int
	fills  map[attendance.DayState]int
}

func (e *Exporter) Export(ledger attendance.Ledger) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	wb, err := newWorkbook(f)
	if err != nil {
		return nil, err
	}

	if err := wb.writeLedger(ledger.Rows); err != nil {
		return nil, fmt.Errorf("failed to write ledger sheet: %w", err)
	}
	if err := wb.writeTotals(ledger.Totals); err != nil {
		return nil, fmt.Errorf("failed to write totals sheet: %w", err)
	}

	used := map[string]bool{
		strings.ToLower(LedgerSheet): true,
		strings.ToLower(TotalsSheet): true,
	}
	for _, t := range ledger.Totals {
		name := uniqueSheetName(SanitizeSheetName(t.UserName), used)
		if err := wb.writeUser(name, rowsOf(ledger.Rows, t.UserID), t); err != nil {
			return nil, fmt.Errorf("failed to write sheet for user %d: %w", t.UserID, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func newWorkbook(f *excelize.File) (*workbook, error) {
	if err := f.SetSheetName("Sheet1", LedgerSheet); err != nil {
		return nil, err
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9D9D9"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	wb := &workbook{file: f, header: header, fills: make(map[attendance.DayState]int)}
	for state, color := range stateFills {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create style for %s: %w", state, err)
		}
		wb.fills[state] = id
	}
	return wb, nil
}

func (wb *workbook) writeHeader(sheet string, header []interface{}) error {
	if err := wb.file.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	return wb.file.SetCellStyle(sheet, "A1", last, wb.header)
}

func (wb *workbook) writeRow(sheet string, rowNum int, values []interface{}, state *attendance.DayState) error {
	first, _ := excelize.CoordinatesToCellName(1, rowNum)
	if err := wb.file.SetSheetRow(sheet, first, &values); err != nil {
		return err
	}
	if state == nil {
		return nil
	}
	style, ok := wb.fills[*state]
	if !ok {
		return nil
	}
	last, _ := excelize.CoordinatesToCellName(len(values), rowNum)
	return wb.file.SetCellStyle(sheet, first, last, style)
}

func (wb *workbook) writeLedger(rows []attendance.ComputedRow) error {
	if err := wb.writeHeader(LedgerSheet, ledgerHeader); err != nil {
		return err
	}
	for i, r := range rows {
		values := []interface{}{
			utils.DateKey(r.Date), r.UserName, r.Shift.Code(),
			utils.FormatClock(r.In), utils.FormatClock(r.Out),
			r.LatenessMin, r.OvertimeMin, r.NetMin,
			hours(r.Premium50), hours(r.Premium100),
			r.Description, r.State.String(),
		}
		if err := wb.writeRow(LedgerSheet, i+2, values, &r.State); err != nil {
			return err
		}
	}
	return nil
}

func (wb *workbook) writeTotals(totals []attendance.UserTotals) error {
	if _, err := wb.file.NewSheet(TotalsSheet); err != nil {
		return err
	}
	if err := wb.writeHeader(TotalsSheet, totalsHeader); err != nil {
		return err
	}
	for i, t := range totals {
		values := []interface{}{
			t.UserName, minutesAsHours(t.LatenessMin), hours(t.Premium50), hours(t.Premium100),
		}
		if err := wb.writeRow(TotalsSheet, i+2, values, nil); err != nil {
			return err
		}
	}
	return nil
}

func (wb *workbook) writeUser(sheet string, rows []attendance.ComputedRow, t attendance.UserTotals) error {
	if _, err := wb.file.NewSheet(sheet); err != nil {
		return err
	}
	if err := wb.writeHeader(sheet, userHeader); err != nil {
		return err
	}

	lateness, overtime := 0, 0
	for i, r := range rows {
		values := []interface{}{
			utils.DateKey(r.Date), r.Shift.Code(),
			utils.FormatClock(r.In), utils.FormatClock(r.Out),
			r.LatenessMin, r.OvertimeMin,
			hours(r.Premium50), hours(r.Premium100),
			r.Description, r.State.String(),
		}
		if err := wb.writeRow(sheet, i+2, values, &r.State); err != nil {
			return err
		}
		lateness += max(0, r.LatenessMin)
		overtime += max(0, r.OvertimeMin)
	}

	// one blank line, then the totals
	total := []interface{}{
		"TOTAL", nil, nil, nil,
		minutesAsHours(lateness), minutesAsHours(overtime),
		hours(t.Premium50), hours(t.Premium100),
	}
	return wb.writeRow(sheet, len(rows)+3, total, nil)
}

// rowsOf returns a user's rows ordered by date and entry time.
func rowsOf(rows []attendance.ComputedRow, userID int64) []attendance.ComputedRow {
	var out []attendance.ComputedRow
	for _, r := range rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		a, b := out[i].In, out[j].In
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.Before(*b)
	})
	return out
}

// SanitizeSheetName strips the characters Excel rejects and truncates to 31 characters.
func SanitizeSheetName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]*?/\:`, r) {
			return -1
		}
		return r
	}, name)
	cleaned = strings.TrimSpace(cleaned)
	cleaned = truncate(cleaned, maxSheetName)
	if cleaned == "" {
		return unnamedSheet
	}
	return cleaned
}

func uniqueSheetName(name string, used map[string]bool) string {
	candidate := name
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = truncate(name, maxSheetName-utf8.RuneCountInString(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}

func hours(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func minutesAsHours(minutes int) float64 {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).Round(2).InexactFloat64()
}
