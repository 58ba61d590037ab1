package holiday

import (
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/utils"
	"github.com/cmlabs-hris/attendance-ledger/internal/pkg/validator"
)

type CreateSlotRequest struct {
	Date string `json:"date"`
	From string `json:"from"`
	To   string `json:"to"`
	Name string `json:"name"`
}

func (r *CreateSlotRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date is required"})
	} else if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "date must be in YYYY-MM-DD format"})
	}

	if !validator.IsEmpty(r.From) && !validator.IsValidClock(r.From) {
		errs = append(errs, validator.ValidationError{Field: "from", Message: "from must be in H:mm format"})
	}
	if !validator.IsEmpty(r.To) && !validator.IsValidClock(r.To) {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "to must be in H:mm format"})
	}

	if len(r.Name) > 120 {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name must be at most 120 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListSlotsRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (r *ListSlotsRequest) Validate() error {
	var errs validator.ValidationErrors
	if _, ok := validator.IsValidDate(r.From); !ok {
		errs = append(errs, validator.ValidationError{Field: "from", Message: "from must be in YYYY-MM-DD format"})
	}
	if _, ok := validator.IsValidDate(r.To); !ok {
		errs = append(errs, validator.ValidationError{Field: "to", Message: "to must be in YYYY-MM-DD format"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SlotResponse struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	From    string `json:"from"`
	To      string `json:"to"`
	Name    string `json:"name,omitempty"`
	FullDay bool   `json:"full_day"`
}

func NewSlotResponse(s Slot) SlotResponse {
	return SlotResponse{
		ID:      s.ID,
		Date:    utils.DateKey(s.Date),
		From:    FormatClock(s.From),
		To:      FormatClock(s.To),
		Name:    s.Name,
		FullDay: s.IsFullDay(),
	}
}
