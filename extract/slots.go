package extract

import (
	"time"

	"github.com/gradee/skema/model"
)

// Extractor turns residual shapes into lesson slots with absolute start and
// end instants anchored to a target ISO week.
type Extractor struct {
	// Location anchors weekday dates; defaults to Europe/Stockholm.
	Location *time.Location

	// Now supplies the reference instant whose ISO week-year anchors the
	// target week. Defaults to time.Now.
	Now func() time.Time

	// Palette maps a shape's color index to a background color.
	Palette []string
}

// NewExtractor creates an extractor with the default location, clock and
// palette.
func NewExtractor() *Extractor {
	return &Extractor{
		Location: defaultLocation(),
		Now:      time.Now,
		Palette:  model.Palette(),
	}
}

func defaultLocation() *time.Location {
	loc, err := time.LoadLocation("Europe/Stockholm")
	if err != nil {
		return time.UTC
	}
	return loc
}

// Slots maps each residual shape to a lesson slot. The weekday is the first
// column (left to right) containing the shape's x coordinate; start and end
// are snapped to 5-minute resolution. Shapes outside every column, and
// degenerate shapes whose snapped duration is zero, are dropped. The returned
// slots are unordered and carry no text yet.
func (e *Extractor) Slots(g *model.Grid, shapes []model.Shape, week int) []model.LessonSlot {
	loc := e.Location
	if loc == nil {
		loc = defaultLocation()
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	year, _ := now().In(loc).ISOWeek()
	monday := isoWeekStart(year, week, loc)

	minuteHeight := g.MinuteHeight()
	slots := make([]model.LessonSlot, 0, len(shapes))
	for _, shape := range shapes {
		day := g.WeekdayFor(shape.X)
		if day < 0 {
			continue
		}

		startsAfter := model.SnapMinutes(float64((shape.Y.Pixels() - g.TopStart) / minuteHeight))
		duration := model.SnapMinutes(float64(shape.H.Pixels() / minuteHeight))
		if duration <= 0 {
			continue
		}

		dayStart := monday.AddDate(0, 0, day)
		base := time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(), g.FirstHour, 0, 0, 0, loc)
		base = base.Add(-time.Duration(g.MinutesToFirstHour) * time.Minute)

		start := base.Add(time.Duration(startsAfter) * time.Minute)
		end := start.Add(time.Duration(duration) * time.Minute)

		slots = append(slots, model.LessonSlot{
			Weekday: day,
			BBox:    shape.BBox(),
			Start:   start,
			End:     end,
			Color:   e.shapeColor(shape),
		})
	}
	return slots
}

// shapeColor resolves a shape's background color: palette lookup for a
// non-negative index, the explicit override color otherwise.
func (e *Extractor) shapeColor(s model.Shape) string {
	if s.ColorIndex >= 0 && s.ColorIndex < len(e.Palette) {
		return e.Palette[s.ColorIndex]
	}
	return s.OverrideColor
}

// isoWeekStart returns the Monday of the given ISO week in the given week
// year. January 4th is always inside week 1.
func isoWeekStart(year, week int, loc *time.Location) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	weekday := int(jan4.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	week1Monday := jan4.AddDate(0, 0, 1-weekday)
	return week1Monday.AddDate(0, 0, (week-1)*7)
}
