package attendance

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PunchEvent is a single clock event read from a device or a spreadsheet.
type PunchEvent struct {
	ID        int64
	UserID    *int64
	Timestamp time.Time
}

// Directory maps user ids to display names.
type Directory map[int64]string

// DayState classifies one user-day.
type DayState int

const (
	DayStateOk DayState = iota
	DayStateIncomplete
	DayStateNoPunches
	DayStateEarlyDeparture
	DayStateSunday
	DayStateHoliday
)

var dayStateCodes = map[DayState]string{
	DayStateOk:             "OK",
	DayStateIncomplete:     "INCOMPLETE",
	DayStateNoPunches:      "NO_PUNCHES",
	DayStateEarlyDeparture: "EARLY_DEPARTURE",
	DayStateSunday:         "SUNDAY",
	DayStateHoliday:        "HOLIDAY",
}

func (s DayState) String() string {
	if code, ok := dayStateCodes[s]; ok {
		return code
	}
	return "UNKNOWN"
}

// Shift is the expected working window assigned to a user for one day.
type Shift int

const (
	ShiftNone Shift = iota
	ShiftEarly
	ShiftLate
)

// Code returns the operator-facing shift code: "A", "B" or "-".
func (s Shift) Code() string {
	switch s {
	case ShiftEarly:
		return "A"
	case ShiftLate:
		return "B"
	default:
		return "-"
	}
}

func (s Shift) String() string {
	switch s {
	case ShiftEarly:
		return "early"
	case ShiftLate:
		return "late"
	default:
		return "none"
	}
}

// ParseShift accepts "A"/"B" codes and "early"/"late" names. Anything else is ShiftNone.
func ParseShift(s string) Shift {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "early":
		return ShiftEarly
	case "b", "late":
		return ShiftLate
	default:
		return ShiftNone
	}
}

// DailySession is the paired in/out of one user-day.
type DailySession struct {
	Day   time.Time
	In    *time.Time
	Out   *time.Time
	State DayState
}

// Window is a closed time interval.
type Window struct {
	Start time.Time
	End   time.Time
}

// ComputedRow is one ledger line for a user-day. Overlays never mutate a row,
// they return modified copies.
type ComputedRow struct {
	Date           time.Time
	UserID         int64
	UserName       string
	Shift          Shift
	In             *time.Time
	Out            *time.Time
	LatenessMin    int
	OvertimeMin    int
	NetMin         int
	State          DayState
	Description    string
	RawIn          *time.Time
	RawOut         *time.Time
	OvertimeWindow *Window
	Premium50      decimal.Decimal
	Premium100     decimal.Decimal
}

func (r ComputedRow) HasMarks() bool {
	return r.In != nil || r.Out != nil
}

func (r ComputedRow) IsComplete() bool {
	return r.In != nil && r.Out != nil
}

// WithMinutes returns a copy carrying new lateness, overtime and net minutes.
func (r ComputedRow) WithMinutes(lateness, overtime, net int) ComputedRow {
	r.LatenessMin = lateness
	r.OvertimeMin = overtime
	r.NetMin = net
	return r
}

// Reason is the policy category of an exception fix.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonAbsence
	ReasonJustifiedDeparture
	ReasonOther
)

var reasonAliases = map[string]Reason{
	"absence":             ReasonAbsence,
	"ausencia":            ReasonAbsence,
	"justified departure": ReasonJustifiedDeparture,
	"salida justificada":  ReasonJustifiedDeparture,
	"other":               ReasonOther,
	"otro":                ReasonOther,
}

// ParseReason maps a free-text fix reason onto a policy category.
func ParseReason(text string) Reason {
	if r, ok := reasonAliases[strings.ToLower(strings.TrimSpace(text))]; ok {
		return r
	}
	return ReasonNone
}

// MarksExtra reports whether a free-text reason asks for worked time to count as overtime.
func MarksExtra(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "extra") || strings.Contains(lower, "overtime")
}

// MarksOwed reports whether a free-text reason asks for worked time to be credited as owed time.
func MarksOwed(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "adeud") || strings.Contains(lower, "owed")
}

// ExceptionFix is an operator correction for one user-day. Blank fields keep the computed value.
type ExceptionFix struct {
	ID        string
	UserID    int64
	Date      time.Time
	Shift     string
	InTime    string
	OutTime   string
	Reason    string
	CreatedBy *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserTotals aggregates a user's ledger over a range.
type UserTotals struct {
	UserID      int64
	UserName    string
	LatenessMin int
	OvertimeMin int
	NetMin      int
	Premium50   decimal.Decimal
	Premium100  decimal.Decimal
}

// Ledger is the output of one pipeline run over a visible range.
type Ledger struct {
	From   time.Time
	To     time.Time
	Rows   []ComputedRow
	Totals []UserTotals
}
