package ui

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/scrollcal/scrollcal/pkg/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T, f *fixture) *mux.Router {
	t.Helper()
	handler, err := NewHandler(f.controller, f.schedules)
	require.NoError(t, err)

	r := mux.NewRouter()
	r.HandleFunc("/", handler.Index).Methods("GET")
	r.HandleFunc("/generate", handler.Generate).Methods("POST")
	r.HandleFunc("/viewport", handler.Viewport).Methods("POST")
	r.HandleFunc("/schedule", handler.AddSchedule).Methods("POST")
	r.HandleFunc("/schedule/clear", handler.ClearSchedules).Methods("POST")
	r.HandleFunc("/schedule/{index:[0-9]+}/delete", handler.DeleteSchedule).Methods("POST")
	r.HandleFunc("/api/status", handler.Status).Methods("GET")
	return r
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func post(router http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func redirectQuery(t *testing.T, rr *httptest.ResponseRecorder) url.Values {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rr.Code)
	location, err := url.Parse(rr.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/", location.Path)
	return location.Query()
}

func TestHandler_Index(t *testing.T) {
	t.Run("should show the loading overlay until ready", func(t *testing.T) {
		f := newFixture(t)
		router := setupRouter(t, f)

		rr := get(router, "/")

		assert.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, `id="loadingOverlay"`)
		assert.Contains(t, body, `http-equiv="refresh"`)
		assert.NotContains(t, body, `id="calendar"`)
	})

	t.Run("should render the calendar once ready", func(t *testing.T) {
		f := newFixture(t)
		f.controller.Startup(ctx)
		router := setupRouter(t, f)

		rr := get(router, "/")

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
		body := rr.Body.String()
		assert.NotContains(t, body, `id="loadingOverlay"`)
		assert.Contains(t, body, `id="calendar"`)
		assert.Contains(t, body, `data-date="2025-01-01"`)
		assert.Contains(t, body, `value="2025-01-01"`)
		assert.Contains(t, body, `value="300"`)
		assert.Contains(t, body, "2025/01")
		assert.Contains(t, body, "No schedules")
	})

	t.Run("should prefill the schedule date from a day link", func(t *testing.T) {
		f := newFixture(t)
		f.controller.Startup(ctx)
		router := setupRouter(t, f)

		body := get(router, "/?scheduleDate=2025-01-05").Body.String()

		assert.Contains(t, body, `name="scheduleDate" value="2025-01-05"`)
		assert.Contains(t, body, "autofocus")
	})

	t.Run("should list schedules with indicators", func(t *testing.T) {
		f := newFixture(t)
		f.controller.Startup(ctx)
		_, err := f.schedules.Add(ctx, "2025-01-03", "Dentist")
		require.NoError(t, err)
		router := setupRouter(t, f)

		body := get(router, "/").Body.String()

		assert.NotContains(t, body, "No schedules")
		assert.Contains(t, body, `action="/schedule/0/delete"`)
		assert.Contains(t, body, `class="schedule-label"`)
		assert.Contains(t, body, "day-cell has-schedule")
		assert.Contains(t, body, "Dentist")
	})

	t.Run("should show an error message", func(t *testing.T) {
		f := newFixture(t)
		router := setupRouter(t, f)

		body := get(router, "/?error="+url.QueryEscape("day count must be a positive integer")).Body.String()

		assert.Contains(t, body, `role="alert"`)
		assert.Contains(t, body, "day count must be a positive integer")
	})
}

func TestHandler_Generate(t *testing.T) {
	t.Run("should regenerate and redirect", func(t *testing.T) {
		f := newFixture(t)
		router := setupRouter(t, f)

		rr := post(router, "/generate", url.Values{"startDate": {"2025-01-01"}, "dayCount": {"10"}, "height": {"640"}})

		assert.Empty(t, redirectQuery(t, rr).Get("error"))
		state := f.controller.Snapshot()
		require.NotNil(t, state.Grid)
		assert.Equal(t, 10, state.Grid.DayCount)
		assert.Equal(t, 640, state.Settings.ViewportHeight)
	})

	t.Run("should report invalid day count", func(t *testing.T) {
		f := newFixture(t)
		router := setupRouter(t, f)

		rr := post(router, "/generate", url.Values{"startDate": {"2025-01-01"}, "dayCount": {"0"}})

		assert.Equal(t, "day count must be a positive integer", redirectQuery(t, rr).Get("error"))
		assert.Nil(t, f.controller.Snapshot().Grid)
	})

	t.Run("should reject a day count above the maximum", func(t *testing.T) {
		f := newFixture(t)
		f.controller.Startup(ctx)
		router := setupRouter(t, f)

		rr := post(router, "/generate", url.Values{"startDate": {"2025-01-01"}, "dayCount": {"2000000000"}})

		assert.Equal(t, "day count must be a positive integer (at most 3660)", redirectQuery(t, rr).Get("error"))
		assert.Equal(t, 300, f.controller.Snapshot().Grid.DayCount)
	})
}

func TestHandler_Viewport(t *testing.T) {
	f := newFixture(t)
	f.controller.Startup(ctx)
	router := setupRouter(t, f)

	rr := post(router, "/viewport", url.Values{"height": {"156"}})

	assert.Empty(t, redirectQuery(t, rr).Get("error"))
	assert.Equal(t, 2, f.controller.Snapshot().Grid.WeeksPerColumn)

	rr = post(router, "/viewport", url.Values{"height": {"tall"}})
	assert.NotEmpty(t, redirectQuery(t, rr).Get("error"))
}

func TestHandler_ViewportKeepsPageState(t *testing.T) {
	t.Run("should keep the error banner and schedule date across a resize", func(t *testing.T) {
		f := newFixture(t)
		f.controller.Startup(ctx)
		router := setupRouter(t, f)

		rr := post(router, "/viewport", url.Values{
			"height":       {"156"},
			"error":        {"day count must be a positive integer"},
			"scheduleDate": {"2025-01-05"},
		})

		query := redirectQuery(t, rr)
		assert.Equal(t, "day count must be a positive integer", query.Get("error"))
		assert.Equal(t, "2025-01-05", query.Get("scheduleDate"))
		assert.Equal(t, 2, f.controller.Snapshot().Grid.WeeksPerColumn)
	})

	t.Run("should keep the schedule date when the height is invalid", func(t *testing.T) {
		f := newFixture(t)
		router := setupRouter(t, f)

		rr := post(router, "/viewport", url.Values{"height": {"0"}, "scheduleDate": {"2025-01-05"}})

		query := redirectQuery(t, rr)
		assert.Equal(t, "viewport height must be a positive integer", query.Get("error"))
		assert.Equal(t, "2025-01-05", query.Get("scheduleDate"))
	})

	t.Run("should render page state into the viewport form", func(t *testing.T) {
		f := newFixture(t)
		f.controller.Startup(ctx)
		router := setupRouter(t, f)

		body := get(router, "/?scheduleDate=2025-01-05&error="+url.QueryEscape("start date is required")).Body.String()

		form := body[strings.Index(body, `id="viewportForm"`):]
		form = form[:strings.Index(form, "</form>")]
		assert.Contains(t, form, `name="error" value="start date is required"`)
		assert.Contains(t, form, `name="scheduleDate" value="2025-01-05"`)
	})
}

func TestHandler_Schedules(t *testing.T) {
	t.Run("should add a schedule", func(t *testing.T) {
		f := newFixture(t)
		router := setupRouter(t, f)

		rr := post(router, "/schedule", url.Values{"scheduleDate": {"2025-01-05"}, "scheduleName": {"Kickoff"}})

		assert.Empty(t, redirectQuery(t, rr).Get("error"))
		assert.Equal(t, []schedule.Record{{Date: "2025-01-05", Name: "Kickoff"}}, f.schedules.List())
	})

	t.Run("should keep the date when the name is missing", func(t *testing.T) {
		f := newFixture(t)
		router := setupRouter(t, f)

		rr := post(router, "/schedule", url.Values{"scheduleDate": {"2025-01-05"}, "scheduleName": {"  "}})

		query := redirectQuery(t, rr)
		assert.Equal(t, schedule.ErrNameRequired.Error(), query.Get("error"))
		assert.Equal(t, "2025-01-05", query.Get("scheduleDate"))
		assert.Empty(t, f.schedules.List())
	})

	t.Run("should hide storage errors behind a generic message", func(t *testing.T) {
		f := newFixture(t)
		f.repo.SetSaveError(errors.New("disk full"))
		router := setupRouter(t, f)

		rr := post(router, "/schedule", url.Values{"scheduleDate": {"2025-01-05"}, "scheduleName": {"Kickoff"}})

		assert.Equal(t, "The request could not be completed", redirectQuery(t, rr).Get("error"))
	})

	t.Run("should delete a schedule", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.schedules.Add(ctx, "2025-01-05", "Kickoff")
		require.NoError(t, err)
		router := setupRouter(t, f)

		rr := post(router, "/schedule/0/delete", nil)

		assert.Empty(t, redirectQuery(t, rr).Get("error"))
		assert.Empty(t, f.schedules.List())
	})

	t.Run("should ignore a stale delete", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.schedules.Add(ctx, "2025-01-05", "Kickoff")
		require.NoError(t, err)
		router := setupRouter(t, f)

		rr := post(router, "/schedule/4/delete", nil)

		assert.Empty(t, redirectQuery(t, rr).Get("error"))
		assert.Len(t, f.schedules.List(), 1)
	})

	t.Run("should clear only when confirmed", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.schedules.Add(ctx, "2025-01-05", "Kickoff")
		require.NoError(t, err)
		router := setupRouter(t, f)

		rr := post(router, "/schedule/clear", url.Values{"confirm": {""}})
		assert.Equal(t, schedule.ErrConfirmationRequired.Error(), redirectQuery(t, rr).Get("error"))
		assert.Len(t, f.schedules.List(), 1)

		rr = post(router, "/schedule/clear", url.Values{"confirm": {"yes"}})
		assert.Empty(t, redirectQuery(t, rr).Get("error"))
		assert.Empty(t, f.schedules.List())
	})
}

func TestHandler_Status(t *testing.T) {
	f := newFixture(t)
	router := setupRouter(t, f)

	var status StatusDTO
	require.NoError(t, json.Unmarshal(get(router, "/api/status").Body.Bytes(), &status))
	assert.False(t, status.Ready)
	assert.False(t, status.Generated)

	f.controller.Startup(ctx)

	require.NoError(t, json.Unmarshal(get(router, "/api/status").Body.Bytes(), &status))
	assert.True(t, status.Ready)
	assert.True(t, status.Generated)
	assert.Equal(t, []int{2024, 2025}, status.HolidayYears)
	assert.Empty(t, status.FailedYears)
}
