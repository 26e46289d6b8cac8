package schedule

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/scrollcal/scrollcal/internal/rest"
	log "github.com/sirupsen/logrus"
)

type ScheduleDTO struct {
	Index int    `json:"index"`
	Date  string `json:"date"`
	Name  string `json:"name"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// ListSchedules godoc
// @Summary List schedules
// @Description Returns all schedule records sorted by date. Index is the position used for deletion.
// @Tags Schedule
// @Produce json
// @Success 200 {array} ScheduleDTO
// @Router /api/schedule [get]
func (h *Handler) ListSchedules(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, toDTOs(h.service.List()))
}

// AddSchedule godoc
// @Summary Add a schedule
// @Tags Schedule
// @Accept json
// @Produce json
// @Param schedule body object{date=string,name=string} true "Schedule date (YYYY-MM-DD) and name"
// @Success 201 {array} ScheduleDTO "The full list after the addition"
// @Failure 400 {object} rest.ErrorResponse "Invalid schedule"
// @Router /api/schedule [post]
func (h *Handler) AddSchedule(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Date string `json:"date"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if _, err := h.service.Add(r.Context(), body.Date, body.Name); err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, toDTOs(h.service.List()))
}

// DeleteSchedule godoc
// @Summary Delete a schedule by index
// @Tags Schedule
// @Produce json
// @Param index path int true "Position in the list"
// @Success 200 {array} ScheduleDTO "The full list after the deletion"
// @Failure 400 {object} rest.ErrorResponse "Invalid index"
// @Failure 404 {object} rest.ErrorResponse "Index out of range"
// @Router /api/schedule/{index} [delete]
func (h *Handler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid index", "index must be an integer")
		return
	}

	if err := h.service.Delete(r.Context(), index); err != nil {
		writeServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toDTOs(h.service.List()))
}

// ClearSchedules godoc
// @Summary Delete all schedules
// @Tags Schedule
// @Param confirm query bool true "Must be true"
// @Success 204
// @Failure 400 {object} rest.ErrorResponse "Confirmation missing"
// @Router /api/schedule [delete]
func (h *Handler) ClearSchedules(w http.ResponseWriter, r *http.Request) {
	confirmed, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	if err := h.service.Clear(r.Context(), confirmed); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case IsValidation(err):
		rest.WriteError(w, http.StatusBadRequest, "Invalid schedule", err.Error())
	case errors.Is(err, ErrRecordNotFound):
		rest.WriteError(w, http.StatusNotFound, "Schedule not found", err.Error())
	default:
		log.Errorf("schedule request failed: %v", err)
		rest.WriteError(w, http.StatusInternalServerError, "Internal error", err.Error())
	}
}

func toDTOs(records []Record) []ScheduleDTO {
	dtos := make([]ScheduleDTO, 0, len(records))
	for i, record := range records {
		dtos = append(dtos, ScheduleDTO{Index: i, Date: record.Date, Name: record.Name})
	}
	return dtos
}
