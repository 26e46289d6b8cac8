package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/scrollcal/scrollcal/pkg/ui"
)

// RegisterRoutes registers the page, its form actions and all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Page
	r.HandleFunc("/", deps.UIHandler.Index).Methods("GET")
	r.HandleFunc("/generate", deps.UIHandler.Generate).Methods("POST")
	r.HandleFunc("/viewport", deps.UIHandler.Viewport).Methods("POST")
	r.HandleFunc("/schedule", deps.UIHandler.AddSchedule).Methods("POST")
	r.HandleFunc("/schedule/clear", deps.UIHandler.ClearSchedules).Methods("POST")
	r.HandleFunc("/schedule/{index:[0-9]+}/delete", deps.UIHandler.DeleteSchedule).Methods("POST")
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(ui.StaticFS())))).Methods("GET")

	// Status
	r.HandleFunc("/api/status", deps.UIHandler.Status).Methods("GET")

	// Calendar
	r.HandleFunc("/api/calendar", deps.CalendarHandler.GetCalendar).Methods("GET")

	// Holidays
	r.HandleFunc("/api/holiday", deps.HolidayHandler.ListHolidays).Methods("GET")

	// Schedules
	r.HandleFunc("/api/schedule", deps.ScheduleHandler.ListSchedules).Methods("GET")
	r.HandleFunc("/api/schedule", deps.ScheduleHandler.AddSchedule).Methods("POST")
	r.HandleFunc("/api/schedule", deps.ScheduleHandler.ClearSchedules).Methods("DELETE")
	r.HandleFunc("/api/schedule/{index}", deps.ScheduleHandler.DeleteSchedule).Methods("DELETE")
}
