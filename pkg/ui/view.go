package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"github.com/scrollcal/scrollcal/pkg/calendar"
)

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static/*
var staticFiles embed.FS

// StaticFS serves app.js and style.css.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

type scheduleItem struct {
	Index int
	Date  string
	Name  string
}

type pageData struct {
	Ready          bool
	StartDate      string
	DayCount       int
	ViewportHeight int
	Grid           *calendar.Grid
	Schedules      []scheduleItem
	ScheduleDate   string
	Error          string
}

func parseTemplates() (*template.Template, error) {
	return template.New("index.html").Funcs(template.FuncMap{
		"cellClass":   cellClass,
		"columnStyle": columnStyle,
		"lineStyle":   lineStyle,
		"labelStyle":  labelStyle,
	}).ParseFS(templateFiles, "templates/*.html")
}

func cellClass(c calendar.Cell) string {
	classes := []string{"day-cell"}
	if c.Empty {
		return "day-cell empty"
	}
	if c.Holiday {
		classes = append(classes, "holiday")
	} else if c.Saturday {
		classes = append(classes, "saturday")
	}
	if c.Today {
		classes = append(classes, "today")
	}
	if c.HasSchedule {
		classes = append(classes, "has-schedule")
	}
	return strings.Join(classes, " ")
}

func columnStyle(m calendar.Metrics) template.CSS {
	return template.CSS(fmt.Sprintf("width: %dpx; --row-height: %dpx; --label-width: %dpx; --cell-width: %dpx",
		m.ColumnWidth(), m.RowHeight, m.LabelWidth, m.CellWidth))
}

func lineStyle(i calendar.Indicator) template.CSS {
	return template.CSS(fmt.Sprintf("left: %.2fpx; top: %.2fpx; width: %.2fpx; transform: rotate(%.2fdeg)",
		i.StartX, i.StartY, i.Length, i.Angle))
}

func labelStyle(i calendar.Indicator) template.CSS {
	return template.CSS(fmt.Sprintf("left: %.2fpx; top: %.2fpx", i.LabelX, i.LabelY))
}
