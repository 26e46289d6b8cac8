package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/scrollcal/scrollcal/internal/config"
	"github.com/scrollcal/scrollcal/internal/event_bus"
	"github.com/scrollcal/scrollcal/internal/kvstore"
	"github.com/scrollcal/scrollcal/internal/utils"
	"github.com/scrollcal/scrollcal/pkg/calendar"
	"github.com/scrollcal/scrollcal/pkg/holiday"
	"github.com/scrollcal/scrollcal/pkg/schedule"
	"github.com/scrollcal/scrollcal/pkg/ui"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Clock    utils.Clock
	EventBus *event_bus.EventBus

	ScheduleRepo    schedule.Repository
	ScheduleService *schedule.ServiceImpl
	ScheduleHandler *schedule.Handler

	HolidayTable   *holiday.Table
	HolidayClient  holiday.Client
	HolidayFetcher *holiday.Fetcher
	HolidayHandler *holiday.Handler

	CalendarService *calendar.Service
	CalendarHandler *calendar.Handler

	Controller *ui.Controller
	UIHandler  *ui.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(store kvstore.Store, cfg config.Application) (*Dependencies, error) {
	location, err := loadLocation(cfg.Calendar.Timezone)
	if err != nil {
		return nil, err
	}

	deps := &Dependencies{}
	deps.Clock = utils.SystemClock{}
	deps.EventBus = event_bus.NewEventBus()

	deps.ScheduleRepo = schedule.NewRepo(store, cfg.Storage.Key)
	deps.ScheduleService = schedule.NewService(deps.ScheduleRepo, deps.EventBus)
	deps.ScheduleHandler = schedule.NewHandler(deps.ScheduleService)

	deps.HolidayTable = holiday.NewTable()
	deps.HolidayClient = holiday.NewNagerClient(cfg.Holidays.BaseURL, http.DefaultClient)
	deps.HolidayFetcher = holiday.NewFetcher(deps.HolidayClient, deps.HolidayTable,
		cfg.Holidays.Country, cfg.Holidays.FromYear, cfg.Holidays.ToYear)
	deps.HolidayHandler = holiday.NewHandler(deps.HolidayTable)

	deps.CalendarService = calendar.NewService(deps.HolidayTable, deps.ScheduleService, deps.Clock, location,
		cfg.Calendar.WeekdayNames, cfg.Calendar.DefaultViewportHeight).WithMaxDayCount(cfg.Calendar.MaxDayCount)
	deps.CalendarHandler = calendar.NewHandler(deps.CalendarService)

	deps.Controller = ui.NewController(deps.CalendarService, deps.ScheduleService, deps.HolidayFetcher, deps.EventBus,
		cfg.Calendar.DefaultDayCount, cfg.Calendar.DefaultViewportHeight)
	deps.UIHandler, err = ui.NewHandler(deps.Controller, deps.ScheduleService)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}

	return deps, nil
}

// loadLocation resolves the zone "today" is computed in. Empty means the server's local zone.
func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	location, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid calendar timezone %q: %w", name, err)
	}
	return location, nil
}
