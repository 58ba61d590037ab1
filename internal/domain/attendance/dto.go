package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// MaxRangeDays bounds a single ledger run.
const MaxRangeDays = 93

// ========================================
// LEDGER DTOs
// ========================================

type ComputeLedgerRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	UserID *int64 `json:"user_id,omitempty"`
}

func (r *ComputeLedgerRequest) Validate() error {
	return validateRange(r.From, r.To)
}

type SyncPunchesRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (r *SyncPunchesRequest) Validate() error {
	return validateRange(r.From, r.To)
}

type SyncPunchesResponse struct {
	Users   int   `json:"users"`
	Punches int   `json:"punches"`
	Stored  int64 `json:"stored"`
}

func validateRange(from, to string) error {
	var errs validator.ValidationErrors

	fromDate, fromOK := validator.IsValidDate(from)
	if validator.IsEmpty(from) {
		errs = append(errs, validator.ValidationError{Field: "from", Message: "from is required"})
	} else if !fromOK {
		errs = append(errs, validator.ValidationError{Field: "from", Message: "from must be in YYYY-MM-DD format"})
	}

	toDate, toOK := validator.IsValidDate(to)
	if validator.IsEmpty(to) {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "to is required"})
	} else if !toOK {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "to must be in YYYY-MM-DD format"})
	}

	if fromOK && toOK {
		if fromDate.After(toDate) {
			errs = append(errs, validator.ValidationError{Field: "to", Message: ErrInvalidDateRange.Error()})
		} else if toDate.Sub(fromDate) > time.Duration(MaxRangeDays)*24*time.Hour {
			errs = append(errs, validator.ValidationError{
				Field:   "to",
				Message: fmt.Sprintf("%s (%d days)", ErrDateRangeTooLong.Error(), MaxRangeDays),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ComputedRowResponse struct {
	Date            string          `json:"date"`
	UserID          int64           `json:"user_id"`
	UserName        string          `json:"user_name"`
	Shift           string          `json:"shift"`
	InTime          string          `json:"in_time"`
	OutTime         string          `json:"out_time"`
	LatenessMin     int             `json:"lateness_min"`
	OvertimeMin     int             `json:"overtime_min"`
	NetMin          int             `json:"net_min"`
	State           string          `json:"state"`
	Description     string          `json:"description"`
	RawInTime       string          `json:"raw_in_time"`
	RawOutTime      string          `json:"raw_out_time"`
	OvertimeStart   *string         `json:"overtime_start,omitempty"`
	OvertimeEnd     *string         `json:"overtime_end,omitempty"`
	Premium50Hours  decimal.Decimal `json:"premium_50_hours"`
	Premium100Hours decimal.Decimal `json:"premium_100_hours"`
}

func NewComputedRowResponse(r ComputedRow) ComputedRowResponse {
	resp := ComputedRowResponse{
		Date:            utils.DateKey(r.Date),
		UserID:          r.UserID,
		UserName:        r.UserName,
		Shift:           r.Shift.Code(),
		InTime:          utils.FormatClock(r.In),
		OutTime:         utils.FormatClock(r.Out),
		LatenessMin:     r.LatenessMin,
		OvertimeMin:     r.OvertimeMin,
		NetMin:          r.NetMin,
		State:           r.State.String(),
		Description:     r.Description,
		RawInTime:       utils.FormatClock(r.RawIn),
		RawOutTime:      utils.FormatClock(r.RawOut),
		Premium50Hours:  r.Premium50,
		Premium100Hours: r.Premium100,
	}
	if r.OvertimeWindow != nil {
		start := r.OvertimeWindow.Start.Format(utils.ClockLayout)
		end := r.OvertimeWindow.End.Format(utils.ClockLayout)
		resp.OvertimeStart = &start
		resp.OvertimeEnd = &end
	}
	return resp
}

type UserTotalsResponse struct {
	UserID          int64           `json:"user_id"`
	UserName        string          `json:"user_name"`
	LatenessMin     int             `json:"lateness_min"`
	OvertimeMin     int             `json:"overtime_min"`
	NetMin          int             `json:"net_min"`
	Premium50Hours  decimal.Decimal `json:"premium_50_hours"`
	Premium100Hours decimal.Decimal `json:"premium_100_hours"`
}

type LedgerResponse struct {
	From   string                `json:"from"`
	To     string                `json:"to"`
	Rows   []ComputedRowResponse `json:"rows"`
	Totals []UserTotalsResponse  `json:"totals"`
}

func NewLedgerResponse(l Ledger) LedgerResponse {
	resp := LedgerResponse{
		From:   utils.DateKey(l.From),
		To:     utils.DateKey(l.To),
		Rows:   make([]ComputedRowResponse, 0, len(l.Rows)),
		Totals: make([]UserTotalsResponse, 0, len(l.Totals)),
	}
	for _, r := range l.Rows {
		resp.Rows = append(resp.Rows, NewComputedRowResponse(r))
	}
	for _, t := range l.Totals {
		resp.Totals = append(resp.Totals, UserTotalsResponse{
			UserID:          t.UserID,
			UserName:        t.UserName,
			LatenessMin:     t.LatenessMin,
			OvertimeMin:     t.OvertimeMin,
			NetMin:          t.NetMin,
			Premium50Hours:  t.Premium50,
			Premium100Hours: t.Premium100,
		})
	}
	return resp
}

// ========================================
// EXCEPTION FIX DTOs
// ========================================

type UpsertFixRequest struct {
	UserID    int64   `json:"user_id"`
	Date      string  `json:"date"`
	Shift     string  `json:"shift"`
	InTime    string  `json:"in_time"`
	OutTime   string  `json:"out_time"`
	Reason    string  `json:"reason"`
	CreatedBy *string `json:"-"`
}

func (r *UpsertFixRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.UserID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "user_id", Message: "user_id must be a positive number"})
	}

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date is required"})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}

	if !validator.IsEmpty(r.Shift) && !validator.IsInSlice(r.Shift, []string{"A", "B", "-", "a", "b"}) {
		errs = append(errs, validator.ValidationError{Field: "shift", Message: "shift must be A, B or -"})
	}

	if !validator.IsEmpty(r.InTime) && !validator.IsValidClock(r.InTime) {
		errs = append(errs, validator.ValidationError{Field: "in_time", Message: "in_time must be in HH:mm format"})
	}

	if !validator.IsEmpty(r.OutTime) && !validator.IsValidClock(r.OutTime) {
		errs = append(errs, validator.ValidationError{Field: "out_time", Message: "out_time must be in HH:mm format"})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListFixesRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (r *ListFixesRequest) Validate() error {
	return validateRange(r.From, r.To)
}

type FixResponse struct {
	ID        string  `json:"id"`
	UserID    int64   `json:"user_id"`
	Date      string  `json:"date"`
	Shift     string  `json:"shift,omitempty"`
	InTime    string  `json:"in_time,omitempty"`
	OutTime   string  `json:"out_time,omitempty"`
	Reason    string  `json:"reason"`
	CreatedBy *string `json:"created_by,omitempty"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func NewFixResponse(f ExceptionFix) FixResponse {
	return FixResponse{
		ID:        f.ID,
		UserID:    f.UserID,
		Date:      utils.DateKey(f.Date),
		Shift:     f.Shift,
		InTime:    f.InTime,
		OutTime:   f.OutTime,
		Reason:    f.Reason,
		CreatedBy: f.CreatedBy,
		CreatedAt: f.CreatedAt.Format(time.RFC3339),
		UpdatedAt: f.UpdatedAt.Format(time.RFC3339),
	}
}
