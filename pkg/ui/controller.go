package ui

import (
	"context"
	"sync"

	"github.com/scrollcal/scrollcal/internal/event_bus"
	"github.com/scrollcal/scrollcal/pkg/calendar"
	"github.com/scrollcal/scrollcal/pkg/holiday"
	"github.com/scrollcal/scrollcal/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

type HolidayFetcher interface {
	Fetch(ctx context.Context) holiday.Report
}

// State is a consistent copy of what the page shows.
type State struct {
	Ready     bool
	Settings  calendar.Settings
	Grid      *calendar.Grid
	Schedules []schedule.Record
	Holidays  holiday.Report
}

// Controller owns the page state: the current settings, the last generated grid and the startup readiness.
type Controller struct {
	calendar        *calendar.Service
	schedules       schedule.Service
	fetcher         HolidayFetcher
	defaultDayCount int

	mu       sync.Mutex
	settings calendar.Settings
	grid     *calendar.Grid
	report   holiday.Report
	// chosen is set once the user generated a grid; startup then keeps their settings.
	chosen   bool

	ready     chan struct{}
	readyOnce sync.Once
}

func NewController(
	calendarService *calendar.Service,
	scheduleService schedule.Service,
	fetcher HolidayFetcher,
	eventBus *event_bus.EventBus,
	defaultDayCount int,
	defaultViewportHeight int,
) *Controller {
	c := &Controller{
		calendar:        calendarService,
		schedules:       scheduleService,
		fetcher:         fetcher,
		defaultDayCount: defaultDayCount,
		settings:        calendar.Settings{DayCount: defaultDayCount, ViewportHeight: defaultViewportHeight},
		ready:           make(chan struct{}),
	}
	if eventBus != nil {
		event_bus.SubscribeTyped(eventBus, event_bus.ScheduleChangedEvent, c.onScheduleChanged)
	}
	return c
}

// Startup loads schedules, fetches holidays and generates the initial grid from today, unless the
// user already generated one, in which case that grid is rebuilt with the loaded data.
// The controller becomes ready when Startup returns, whatever happened on the way.
func (c *Controller) Startup(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("startup aborted: %v", r)
		}
		c.markReady()
	}()

	c.schedules.Load(ctx)

	report := c.fetcher.Fetch(ctx)
	if len(report.Failed) > 0 {
		log.Warnf("Holidays missing for years %v", report.Failed)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.report = report
	if !c.chosen {
		c.settings.Start = c.calendar.Today()
		c.settings.DayCount = c.defaultDayCount
	}
	if err := c.regenerate(); err != nil {
		log.Errorf("failed to generate initial calendar: %v", err)
	}
}

func (c *Controller) markReady() {
	c.readyOnce.Do(func() {
		close(c.ready)
		log.Info("Calendar ready")
	})
}

// Done is closed once startup has finished.
func (c *Controller) Done() <-chan struct{} {
	return c.ready
}

func (c *Controller) Ready() bool {
	select {
	case <-c.ready:
		return true
	default:
		return false
	}
}

// Generate validates the form values and replaces the grid. On error the current grid is kept.
// A non positive viewportHeight keeps the last reported height.
func (c *Controller) Generate(start string, dayCount string, viewportHeight int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if viewportHeight <= 0 {
		viewportHeight = c.settings.ViewportHeight
	}
	settings, err := calendar.ParseSettings(start, dayCount, viewportHeight, c.calendar.MaxDayCount())
	if err != nil {
		return err
	}
	grid, err := c.calendar.Generate(settings)
	if err != nil {
		return err
	}
	c.settings = settings
	c.grid = &grid
	c.chosen = true
	return nil
}

// Resize records the viewport height and regenerates the grid if one is shown.
// It reports whether the grid was regenerated.
func (c *Controller) Resize(viewportHeight int) (bool, error) {
	if viewportHeight <= 0 {
		return false, calendar.ErrInvalidViewportHeight
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.settings.ViewportHeight == viewportHeight && c.grid != nil {
		return false, nil
	}
	c.settings.ViewportHeight = viewportHeight
	if c.grid == nil {
		return false, nil
	}
	if err := c.regenerate(); err != nil {
		return false, err
	}
	return true, nil
}

// Snapshot returns the current state. Grids are never modified once built, so the pointer is shared.
// A grid built before midnight is rebuilt first so the today highlight follows the clock.
func (c *Controller) Snapshot() State {
	schedules := c.schedules.List()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.grid != nil {
		if today := c.calendar.Today(); !c.grid.Today.Equal(today) {
			log.Debugf("Date changed to %s, regenerating calendar", today.Format(calendar.DateLayout))
			if err := c.regenerate(); err != nil {
				log.Errorf("failed to regenerate calendar for the new day: %v", err)
			}
		}
	}
	return State{
		Ready:     c.Ready(),
		Settings:  c.settings,
		Grid:      c.grid,
		Schedules: schedules,
		Holidays:  c.report,
	}
}

func (c *Controller) onScheduleChanged(e event_bus.EventT[event_bus.ScheduleChanged]) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.grid == nil {
		return nil
	}
	log.Debugf("Schedules %s, %d left, regenerating calendar", e.Data.Operation, e.Data.Count)
	return c.regenerate()
}

// regenerate rebuilds the grid from the current settings. Callers hold c.mu.
func (c *Controller) regenerate() error {
	grid, err := c.calendar.Generate(c.settings)
	if err != nil {
		return err
	}
	c.grid = &grid
	return nil
}
