package fiscalweek

import "errors"

var (
	ErrInvalidYear        = errors.New("fiscalweek: invalid year")
	ErrInvalidMonth       = errors.New("fiscalweek: invalid month")
	ErrInvalidWeekInMonth = errors.New("fiscalweek: invalid week in month")
	ErrInvalidMonthRule   = errors.New("fiscalweek: invalid month rule")
	ErrInvalidDateRange   = errors.New("fiscalweek: invalid date range")
)
