package schedule

import (
	"errors"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrDateRequired         = errors.New("schedule date is required")
	ErrInvalidDate          = errors.New("schedule date must be in YYYY-MM-DD format")
	ErrNameRequired         = errors.New("schedule name is required")
	ErrConfirmationRequired = errors.New("clearing all schedules must be confirmed")
	ErrRecordNotFound       = errors.New("schedule record not found")
	ErrCorruptData          = errors.New("stored schedules could not be decoded")
)

// Record is a user authored annotation on one calendar date. Several records may share a date.
type Record struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// Day returns the record date as midnight UTC.
func (r Record) Day() (time.Time, error) {
	return time.Parse(DateLayout, r.Date)
}

// IsValidation reports whether err is a user input error rather than a storage failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrDateRequired) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrConfirmationRequired)
}
