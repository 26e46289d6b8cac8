package holiday

import (
	"net/http"

	"github.com/scrollcal/scrollcal/internal/rest"
)

type HolidayDTO struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

type Handler struct {
	table *Table
}

func NewHandler(table *Table) *Handler {
	return &Handler{table: table}
}

// ListHolidays godoc
// @Summary List holidays
// @Description Returns the holiday table sorted by date
// @Tags Holiday
// @Produce json
// @Success 200 {array} HolidayDTO
// @Router /api/holiday [get]
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays := h.table.All()
	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, holiday := range holidays {
		dtos = append(dtos, HolidayDTO{Date: holiday.Date, Name: holiday.LocalName})
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}
