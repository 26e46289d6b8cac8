package calendar

import "math"

const (
	anchorOffsetX = 10
	anchorRise    = 50
	labelOffsetX  = 5
	labelOffsetY  = -10
)

// Indicator is a line from a scheduled cell's center to a label anchored beyond the right edge of its column.
// Coordinates are pixels relative to the column's top left corner; Angle is in degrees.
type Indicator struct {
	Date   string
	Name   string
	Row    int
	Slot   int
	StartX float64
	StartY float64
	EndX   float64
	EndY   float64
	Length float64
	Angle  float64
	LabelX float64
	LabelY float64
}

// Indicators lists one indicator per schedule mark and matching cell of column, in schedule order.
func Indicators(column Column, marks []ScheduleMark, m Metrics) []Indicator {
	var indicators []Indicator
	for _, mark := range marks {
		for row, r := range column.Rows {
			for slot, c := range r.Cells {
				if c.Empty || c.Date != mark.Date {
					continue
				}
				indicators = append(indicators, indicator(mark, row, slot, m))
			}
		}
	}
	return indicators
}

func indicator(mark ScheduleMark, row int, slot int, m Metrics) Indicator {
	startX := float64(m.LabelWidth) + float64(slot*m.CellWidth) + float64(m.CellWidth)/2
	startY := float64(m.HeaderHeight) + float64(row*m.RowHeight) + float64(m.RowHeight)/2
	endX := float64(m.ColumnWidth() + anchorOffsetX)
	endY := math.Max(0, startY-anchorRise)
	dx, dy := endX-startX, endY-startY

	return Indicator{
		Date:   mark.Date,
		Name:   mark.Name,
		Row:    row,
		Slot:   slot,
		StartX: startX,
		StartY: startY,
		EndX:   endX,
		EndY:   endY,
		Length: math.Hypot(dx, dy),
		Angle:  math.Atan2(dy, dx) * 180 / math.Pi,
		LabelX: endX + labelOffsetX,
		LabelY: endY + labelOffsetY,
	}
}
