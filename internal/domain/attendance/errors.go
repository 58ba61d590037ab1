package attendance

import "errors"

// Attendance ledger domain errors
var (
	// Range errors
	ErrInvalidDateRange = errors.New("from must not be after to")
	ErrDateRangeTooLong = errors.New("date range exceeds the maximum allowed span")

	// Source errors
	ErrPunchSourceUnavailable = errors.New("punch source unavailable")
	ErrDeviceAuthFailed       = errors.New("device rejected the credentials")
	ErrPunchCacheDisabled     = errors.New("punch cache is not configured")

	// Exception fix errors
	ErrFixNotFound = errors.New("exception fix not found")
	ErrInvalidFix  = errors.New("exception fix is not valid")
)
