package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

// DefaultMaxDayCount bounds a single grid to roughly ten years.
const DefaultMaxDayCount = 3660

var (
	ErrStartDateRequired = errors.New("start date is required")
	ErrInvalidStartDate  = errors.New("start date must be in YYYY-MM-DD format")
	ErrInvalidDayCount   = errors.New("day count must be a positive integer")

	ErrInvalidViewportHeight = errors.New("viewport height must be a positive integer")
)

// IsValidation reports whether err was caused by user input.
func IsValidation(err error) bool {
	return errors.Is(err, ErrStartDateRequired) ||
		errors.Is(err, ErrInvalidStartDate) ||
		errors.Is(err, ErrInvalidDayCount) ||
		errors.Is(err, ErrInvalidViewportHeight)
}

// Settings select the date range and the space the grid has to fit into.
type Settings struct {
	Start          time.Time
	DayCount       int
	ViewportHeight int
}

// ParseSettings validates the raw start date and day count as typed by the user.
// The day count must lie in [1, maxDayCount]; a non positive maxDayCount means DefaultMaxDayCount.
func ParseSettings(start string, dayCount string, viewportHeight int, maxDayCount int) (Settings, error) {
	start = strings.TrimSpace(start)
	if start == "" {
		return Settings{}, ErrStartDateRequired
	}
	startDate, err := time.Parse(DateLayout, start)
	if err != nil {
		return Settings{}, ErrInvalidStartDate
	}
	count, err := strconv.Atoi(strings.TrimSpace(dayCount))
	if err != nil {
		return Settings{}, ErrInvalidDayCount
	}
	if err := checkDayCount(count, maxDayCount); err != nil {
		return Settings{}, err
	}
	return Settings{Start: startDate, DayCount: count, ViewportHeight: viewportHeight}, nil
}

func checkDayCount(count int, maxDayCount int) error {
	if maxDayCount <= 0 {
		maxDayCount = DefaultMaxDayCount
	}
	if count < 1 {
		return ErrInvalidDayCount
	}
	if count > maxDayCount {
		return fmt.Errorf("%w (at most %d)", ErrInvalidDayCount, maxDayCount)
	}
	return nil
}

// Slot is one of the seven positions of a week. Invalid slots are padding.
type Slot struct {
	Date  time.Time
	Valid bool
}

// Week is Sunday aligned: Slots[0] is Sunday.
type Week struct {
	Slots [7]Slot
}

type Cell struct {
	Date        string
	Day         int
	Empty       bool
	Holiday     bool
	HolidayName string
	Saturday    bool
	Today       bool
	HasSchedule bool
	Title       string
}

type Row struct {
	// Label is "YYYY/MM" when the week holds the first of a month, empty otherwise.
	Label string
	Cells [7]Cell
}

type HeaderCell struct {
	Name     string
	Sunday   bool
	Saturday bool
}

type Column struct {
	Header     [7]HeaderCell
	Rows       []Row
	Indicators []Indicator
}

// Grid is the computed calendar, ready to be rendered.
type Grid struct {
	Start          time.Time
	DayCount       int
	WeeksPerColumn int
	WeekCount      int
	// Today is the date highlighted when the grid was built.
	Today          time.Time
	Metrics        Metrics
	Columns        []Column
}
