package calendar

import (
	"fmt"
	"time"
)

// Metrics are the fixed pixel sizes of the rendered grid.
type Metrics struct {
	RowHeight          int
	HeaderHeight       int
	Padding            int
	ScrollbarAllowance int
	BottomMargin       int
	LabelWidth         int
	CellWidth          int
}

func DefaultMetrics() Metrics {
	return Metrics{
		RowHeight:          32,
		HeaderHeight:       32,
		Padding:            8,
		ScrollbarAllowance: 20,
		BottomMargin:       32,
		LabelWidth:         64,
		CellWidth:          32,
	}
}

// WeeksPerColumn returns how many week rows fit below one header in viewportHeight pixels.
// It never returns less than 1.
func (m Metrics) WeeksPerColumn(viewportHeight int) int {
	if m.RowHeight <= 0 {
		return 1
	}
	available := viewportHeight - m.Padding - m.HeaderHeight - m.ScrollbarAllowance - m.BottomMargin
	if available < m.RowHeight {
		return 1
	}
	return available / m.RowHeight
}

func (m Metrics) ColumnWidth() int {
	return m.LabelWidth + 7*m.CellWidth
}

// DateSequence returns count consecutive calendar days beginning at start, as midnight UTC.
func DateSequence(start time.Time, count int) []time.Time {
	if count < 1 {
		return nil
	}
	first := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, count)
	for i := range dates {
		dates[i] = first.AddDate(0, 0, i)
	}
	return dates
}

// GroupWeeks splits dates into Sunday aligned weeks. A week starts at the first date and at every Sunday,
// so only the first week has leading padding. The slots after the last date stay empty.
func GroupWeeks(dates []time.Time) []Week {
	var weeks []Week
	for i, date := range dates {
		if i == 0 || date.Weekday() == time.Sunday {
			weeks = append(weeks, Week{})
		}
		weeks[len(weeks)-1].Slots[date.Weekday()] = Slot{Date: date, Valid: true}
	}
	return weeks
}

// WeekLabel returns "YYYY/MM" for the month starting within week, or "" when no month starts there.
func WeekLabel(week Week) string {
	for _, slot := range week.Slots {
		if slot.Valid && slot.Date.Day() == 1 {
			return fmt.Sprintf("%d/%02d", slot.Date.Year(), int(slot.Date.Month()))
		}
	}
	return ""
}

// PackColumns slices weeks into runs of at most perColumn weeks.
func PackColumns(weeks []Week, perColumn int) [][]Week {
	if perColumn < 1 {
		perColumn = 1
	}
	columns := make([][]Week, 0, (len(weeks)+perColumn-1)/perColumn)
	for start := 0; start < len(weeks); start += perColumn {
		end := min(start+perColumn, len(weeks))
		columns = append(columns, weeks[start:end])
	}
	return columns
}

// HolidayLookup resolves an ISO date to a holiday name.
type HolidayLookup interface {
	Name(date string) (string, bool)
}

type noHolidays struct{}

func (noHolidays) Name(string) (string, bool) { return "", false }

// ScheduleMark is a labelled date to be flagged and pointed at in the grid.
type ScheduleMark struct {
	Date string
	Name string
}

// Input is everything one layout pass depends on.
type Input struct {
	Settings     Settings
	Today        time.Time
	Holidays     HolidayLookup
	Schedules    []ScheduleMark
	WeekdayNames []string
	Metrics      Metrics
}

var defaultWeekdayNames = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Build computes the complete grid for in. It is a pure function of its input.
func Build(in Input) (Grid, error) {
	if in.Settings.Start.IsZero() {
		return Grid{}, ErrStartDateRequired
	}
	if in.Settings.DayCount < 1 {
		return Grid{}, ErrInvalidDayCount
	}
	holidays := in.Holidays
	if holidays == nil {
		holidays = noHolidays{}
	}
	names := in.WeekdayNames
	if len(names) != 7 {
		names = defaultWeekdayNames
	}
	metrics := in.Metrics
	if metrics == (Metrics{}) {
		metrics = DefaultMetrics()
	}

	scheduled := make(map[string]bool, len(in.Schedules))
	for _, mark := range in.Schedules {
		scheduled[mark.Date] = true
	}
	today := in.Today.Format(DateLayout)

	weeks := GroupWeeks(DateSequence(in.Settings.Start, in.Settings.DayCount))
	perColumn := metrics.WeeksPerColumn(in.Settings.ViewportHeight)

	grid := Grid{
		Start:          weeksStart(weeks),
		DayCount:       in.Settings.DayCount,
		WeeksPerColumn: perColumn,
		WeekCount:      len(weeks),
		Today:          in.Today,
		Metrics:        metrics,
	}
	for _, packed := range PackColumns(weeks, perColumn) {
		column := Column{Header: header(names)}
		for _, week := range packed {
			row := Row{Label: WeekLabel(week)}
			for i, slot := range week.Slots {
				row.Cells[i] = cell(slot, holidays, today, scheduled)
			}
			column.Rows = append(column.Rows, row)
		}
		column.Indicators = Indicators(column, in.Schedules, metrics)
		grid.Columns = append(grid.Columns, column)
	}
	return grid, nil
}

func weeksStart(weeks []Week) time.Time {
	for _, slot := range weeks[0].Slots {
		if slot.Valid {
			return slot.Date
		}
	}
	return time.Time{}
}

func header(names []string) [7]HeaderCell {
	var cells [7]HeaderCell
	for i := range cells {
		cells[i] = HeaderCell{
			Name:     names[i],
			Sunday:   i == int(time.Sunday),
			Saturday: i == int(time.Saturday),
		}
	}
	return cells
}

func cell(slot Slot, holidays HolidayLookup, today string, scheduled map[string]bool) Cell {
	if !slot.Valid {
		return Cell{Empty: true}
	}
	date := slot.Date.Format(DateLayout)
	name, isHoliday := holidays.Name(date)
	weekday := slot.Date.Weekday()

	c := Cell{
		Date:        date,
		Day:         slot.Date.Day(),
		Holiday:     isHoliday || weekday == time.Sunday,
		HolidayName: name,
		Today:       date == today,
		HasSchedule: scheduled[date],
		Title:       date,
	}
	c.Saturday = weekday == time.Saturday && !c.Holiday
	if isHoliday {
		c.Title = fmt.Sprintf("%s (%s)", date, name)
	}
	return c
}
