package calendar

import (
	"time"

	"github.com/scrollcal/scrollcal/internal/utils"
	"github.com/scrollcal/scrollcal/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

type ScheduleLister interface {
	List() []schedule.Record
}

// Service lays out grids against the live holiday table and schedule list.
type Service struct {
	holidays              HolidayLookup
	schedules             ScheduleLister
	clock                 utils.Clock
	location              *time.Location
	weekdayNames          []string
	metrics               Metrics
	defaultViewportHeight int
	maxDayCount           int
}

func NewService(
	holidays HolidayLookup,
	schedules ScheduleLister,
	clock utils.Clock,
	location *time.Location,
	weekdayNames []string,
	defaultViewportHeight int,
) *Service {
	return &Service{
		holidays:              holidays,
		schedules:             schedules,
		clock:                 clock,
		location:              location,
		weekdayNames:          weekdayNames,
		metrics:               DefaultMetrics(),
		defaultViewportHeight: defaultViewportHeight,
		maxDayCount:           DefaultMaxDayCount,
	}
}

// WithMaxDayCount sets the largest day count Generate accepts. Non positive values keep the default.
func (s *Service) WithMaxDayCount(maxDayCount int) *Service {
	if maxDayCount > 0 {
		s.maxDayCount = maxDayCount
	}
	return s
}

func (s *Service) MaxDayCount() int {
	return s.maxDayCount
}

// Today is the current calendar date in the configured location.
func (s *Service) Today() time.Time {
	return utils.Today(s.clock, s.location)
}

func (s *Service) Metrics() Metrics {
	return s.metrics
}

// Generate builds the grid for settings. A zero viewport height means the configured default.
func (s *Service) Generate(settings Settings) (Grid, error) {
	if err := checkDayCount(settings.DayCount, s.maxDayCount); err != nil {
		return Grid{}, err
	}
	if settings.ViewportHeight <= 0 {
		settings.ViewportHeight = s.defaultViewportHeight
	}

	var marks []ScheduleMark
	if s.schedules != nil {
		for _, record := range s.schedules.List() {
			marks = append(marks, ScheduleMark{Date: record.Date, Name: record.Name})
		}
	}

	grid, err := Build(Input{
		Settings:     settings,
		Today:        s.Today(),
		Holidays:     s.holidays,
		Schedules:    marks,
		WeekdayNames: s.weekdayNames,
		Metrics:      s.metrics,
	})
	if err != nil {
		return Grid{}, err
	}
	log.Debugf("Generated %d weeks in %d columns of %d from %s",
		grid.WeekCount, len(grid.Columns), grid.WeeksPerColumn, settings.Start.Format(DateLayout))
	return grid, nil
}
