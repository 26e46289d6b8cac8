package ui

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/scrollcal/scrollcal/internal/rest"
	"github.com/scrollcal/scrollcal/pkg/calendar"
	"github.com/scrollcal/scrollcal/pkg/schedule"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	controller *Controller
	schedules  schedule.Service
	tmpl       *template.Template
}

type StatusDTO struct {
	Ready        bool  `json:"ready"`
	Generated    bool  `json:"generated"`
	Schedules    int   `json:"schedules"`
	HolidayYears []int `json:"holidayYears"`
	FailedYears  []int `json:"failedYears"`
}

func NewHandler(controller *Controller, schedules schedule.Service) (*Handler, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	return &Handler{controller: controller, schedules: schedules, tmpl: tmpl}, nil
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	state := h.controller.Snapshot()
	query := r.URL.Query()

	data := pageData{
		Ready:          state.Ready,
		StartDate:      formatDate(state.Settings),
		DayCount:       state.Settings.DayCount,
		ViewportHeight: state.Settings.ViewportHeight,
		Grid:           state.Grid,
		Schedules:      make([]scheduleItem, 0, len(state.Schedules)),
		ScheduleDate:   query.Get("scheduleDate"),
		Error:          query.Get("error"),
	}
	for i, record := range state.Schedules {
		data.Schedules = append(data.Schedules, scheduleItem{Index: i, Date: record.Date, Name: record.Name})
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, data); err != nil {
		log.Errorf("failed to render page: %v", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := buf.WriteTo(w); err != nil {
		log.Debugf("failed to write page: %v", err)
	}
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, err, nil)
		return
	}
	height, _ := strconv.Atoi(r.PostForm.Get("height"))
	if err := h.controller.Generate(r.PostForm.Get("startDate"), r.PostForm.Get("dayCount"), height); err != nil {
		redirectWithError(w, r, err, nil)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) Viewport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, err, nil)
		return
	}
	kept := pageQuery(r.PostForm)
	height, err := strconv.Atoi(r.PostForm.Get("height"))
	if err != nil {
		redirectWithError(w, r, calendar.ErrInvalidViewportHeight, kept)
		return
	}
	if _, err := h.controller.Resize(height); err != nil {
		redirectWithError(w, r, err, kept)
		return
	}
	target := "/"
	if len(kept) > 0 {
		target += "?" + kept.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) AddSchedule(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, err, nil)
		return
	}
	date := r.PostForm.Get("scheduleDate")
	if _, err := h.schedules.Add(r.Context(), date, r.PostForm.Get("scheduleName")); err != nil {
		redirectWithError(w, r, err, url.Values{"scheduleDate": {date}})
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err == nil {
		err = h.schedules.Delete(r.Context(), index)
	}
	// A stale page may point past the end of the list; that is a no-op.
	if err != nil && !errors.Is(err, schedule.ErrRecordNotFound) {
		redirectWithError(w, r, err, nil)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) ClearSchedules(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, err, nil)
		return
	}
	if err := h.schedules.Clear(r.Context(), r.PostForm.Get("confirm") == "yes"); err != nil {
		redirectWithError(w, r, err, nil)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Status godoc
// @Summary Calendar readiness
// @Description Reports whether startup has finished and a grid has been generated
// @Tags UI
// @Produce json
// @Success 200 {object} StatusDTO
// @Router /api/status [get]
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	state := h.controller.Snapshot()
	status := StatusDTO{
		Ready:        state.Ready,
		Generated:    state.Grid != nil,
		Schedules:    len(state.Schedules),
		HolidayYears: state.Holidays.Loaded,
		FailedYears:  state.Holidays.Failed,
	}
	if status.HolidayYears == nil {
		status.HolidayYears = []int{}
	}
	if status.FailedYears == nil {
		status.FailedYears = []int{}
	}
	rest.WriteJSON(w, http.StatusOK, status)
}

// redirectWithError sends the user back to the page with a message. Storage failures are logged and
// reported generically.
func redirectWithError(w http.ResponseWriter, r *http.Request, err error, extra url.Values) {
	message := err.Error()
	if !schedule.IsValidation(err) && !calendar.IsValidation(err) {
		log.Errorf("%s %s failed: %v", r.Method, r.URL.Path, err)
		message = "The request could not be completed"
	}
	query := url.Values{"error": {message}}
	for k, v := range extra {
		query[k] = v
	}
	http.Redirect(w, r, "/?"+query.Encode(), http.StatusSeeOther)
}

// pageQuery carries the banner and the preselected schedule date across a resize round trip.
func pageQuery(form url.Values) url.Values {
	query := url.Values{}
	for _, key := range []string{"error", "scheduleDate"} {
		if v := form.Get(key); v != "" {
			query.Set(key, v)
		}
	}
	return query
}

func formatDate(settings calendar.Settings) string {
	if settings.Start.IsZero() {
		return ""
	}
	return settings.Start.Format(calendar.DateLayout)
}
