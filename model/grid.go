package model

// WeekdayColumn holds the borders of one weekday's column in the timetable.
type WeekdayColumn struct {
	Left   PdfUnits
	Right  PdfUnits
	Top    PdfUnits
	Bottom PdfUnits
}

// ContainsX reports whether an x coordinate falls inside the column. The
// right border is exclusive so adjacent columns never overlap.
func (c WeekdayColumn) ContainsX(x PdfUnits) bool {
	return x >= c.Left && x < c.Right
}

// Bounds is the overall bounding frame of the schedule area.
type Bounds struct {
	Top    PdfUnits
	Bottom PdfUnits
	Left   PdfUnits
	Right  PdfUnits
}

// Grid is the calibrated geometry of one rendered timetable: the five weekday
// columns (Monday..Friday, left to right), the overall frame, and the
// pixel-to-time calibration derived from the hour-label gutter. A Grid is
// built once per document and read-only afterward.
type Grid struct {
	Weekdays [5]WeekdayColumn
	Bounds   Bounds

	// FirstHour is the hour of the first labeled tick on the time axis.
	FirstHour int

	// HourHeight is the vertical distance covering one hour.
	HourHeight Pixels

	// MinutesToFirstHour is how many minutes before the first labeled hour
	// the schedule area actually starts.
	MinutesToFirstHour Minutes

	// TopStart is the top edge of the schedule background, in pixels.
	TopStart Pixels
}

// MinuteHeight returns the vertical distance covering one minute.
func (g *Grid) MinuteHeight() Pixels {
	return g.HourHeight / 60
}

// WeekdayFor returns the index (0..4) of the weekday column containing the
// given x coordinate, testing left to right with the first match winning.
// It returns -1 when no column contains the coordinate.
func (g *Grid) WeekdayFor(x PdfUnits) int {
	for i, col := range g.Weekdays {
		if col.ContainsX(x) {
			return i
		}
	}
	return -1
}
