package calendar

import (
	"net/http"
	"strconv"

	"github.com/scrollcal/scrollcal/internal/rest"
)

type Handler struct {
	calendar *Service
}

type CellDTO struct {
	Date        string `json:"date,omitempty"`
	Day         int    `json:"day,omitempty"`
	Empty       bool   `json:"empty"`
	Holiday     bool   `json:"holiday"`
	HolidayName string `json:"holidayName,omitempty"`
	Saturday    bool   `json:"saturday"`
	Today       bool   `json:"today"`
	HasSchedule bool   `json:"hasSchedule"`
	Title       string `json:"title,omitempty"`
}

type RowDTO struct {
	Label string    `json:"label"`
	Cells []CellDTO `json:"cells"`
}

type IndicatorDTO struct {
	Date   string  `json:"date"`
	Name   string  `json:"name"`
	StartX float64 `json:"startX"`
	StartY float64 `json:"startY"`
	Length float64 `json:"length"`
	Angle  float64 `json:"angle"`
	LabelX float64 `json:"labelX"`
	LabelY float64 `json:"labelY"`
}

type ColumnDTO struct {
	Weekdays   []string       `json:"weekdays"`
	Rows       []RowDTO       `json:"rows"`
	Indicators []IndicatorDTO `json:"indicators"`
}

type GridDTO struct {
	Start          string      `json:"start"`
	DayCount       int         `json:"dayCount"`
	WeeksPerColumn int         `json:"weeksPerColumn"`
	WeekCount      int         `json:"weekCount"`
	Columns        []ColumnDTO `json:"columns"`
}

func NewHandler(s *Service) *Handler {
	return &Handler{calendar: s}
}

// GetCalendar godoc
// @Summary Compute a calendar grid
// @Description Lays out the date range into week rows and columns fitting the given height
// @Tags Calendar
// @Produce json
// @Param start query string true "First date (YYYY-MM-DD)"
// @Param days query int true "Number of days, between 1 and the configured maximum"
// @Param height query int false "Viewport height in pixels"
// @Success 200 {object} GridDTO
// @Failure 400 {object} rest.ErrorResponse "Invalid parameters"
// @Router /api/calendar [get]
func (h *Handler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	height := 0
	if raw := query.Get("height"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid height", "'height' must be an integer")
			return
		}
		height = parsed
	}

	settings, err := ParseSettings(query.Get("start"), query.Get("days"), height, h.calendar.MaxDayCount())
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid calendar parameters", err.Error())
		return
	}

	grid, err := h.calendar.Generate(settings)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid calendar parameters", err.Error())
		return
	}
	rest.WriteJSON(w, http.StatusOK, gridToDTO(grid))
}

func gridToDTO(grid Grid) GridDTO {
	dto := GridDTO{
		Start:          grid.Start.Format(DateLayout),
		DayCount:       grid.DayCount,
		WeeksPerColumn: grid.WeeksPerColumn,
		WeekCount:      grid.WeekCount,
		Columns:        make([]ColumnDTO, 0, len(grid.Columns)),
	}
	for _, column := range grid.Columns {
		c := ColumnDTO{
			Weekdays:   make([]string, 0, 7),
			Rows:       make([]RowDTO, 0, len(column.Rows)),
			Indicators: make([]IndicatorDTO, 0, len(column.Indicators)),
		}
		for _, h := range column.Header {
			c.Weekdays = append(c.Weekdays, h.Name)
		}
		for _, row := range column.Rows {
			r := RowDTO{Label: row.Label, Cells: make([]CellDTO, 0, 7)}
			for _, cell := range row.Cells {
				r.Cells = append(r.Cells, CellDTO(cell))
			}
			c.Rows = append(c.Rows, r)
		}
		for _, i := range column.Indicators {
			c.Indicators = append(c.Indicators, IndicatorDTO{
				Date:   i.Date,
				Name:   i.Name,
				StartX: i.StartX,
				StartY: i.StartY,
				Length: i.Length,
				Angle:  i.Angle,
				LabelX: i.LabelX,
				LabelY: i.LabelY,
			})
		}
		dto.Columns = append(dto.Columns, c)
	}
	return dto
}
