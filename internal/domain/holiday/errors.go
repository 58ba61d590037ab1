package holiday

import "errors"

// Holiday domain errors
var (
	ErrHolidayNotFound   = errors.New("holiday slot not found")
	ErrInvalidSlotDate   = errors.New("holiday date is not valid")
	ErrInvalidSlotTime   = errors.New("holiday time is not valid")
	ErrInvalidSlotWindow = errors.New("holiday window must end after it starts")
)
