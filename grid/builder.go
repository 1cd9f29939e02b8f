package grid

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/gradee/skema/model"
)

// timePattern matches an HH:MM or HH:MM:SS clock string.
var timePattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-4]):([0-5][0-9])(:[0-5][0-9])?$`)

// IsTime reports whether a string is a bare clock time (HH:MM, optionally
// with seconds).
func IsTime(s string) bool {
	return timePattern.MatchString(s)
}

// TickSignature identifies an hour-label tick fill by its exact size and
// palette color.
type TickSignature struct {
	H     model.PdfUnits
	W     model.PdfUnits
	Color int
}

// Config holds the layout constants the builder calibrates against.
type Config struct {
	// FrameMaxHeight is the tallest fill that is still part of the schedule;
	// taller fills are the page frame and are discarded.
	FrameMaxHeight model.PdfUnits

	// GutterX are the x positions of the time-axis label columns.
	GutterX []model.PdfUnits

	// TickSignatures identify the small label tick fills that must be
	// removed before lesson detection.
	TickSignatures []TickSignature

	// LabelOffset is the constant vertical distance between an hour label
	// and the row it marks.
	LabelOffset model.PdfUnits
}

// DefaultConfig returns the constants of the known upstream layout.
func DefaultConfig() Config {
	return Config{
		FrameMaxHeight: 31.125,
		GutterX:        []model.PdfUnits{1.875, 2.563},
		TickSignatures: []TickSignature{
			{H: 0.438, W: 1.25, Color: 1},
			{H: 0.5, W: 1.063, Color: 1},
			{H: 0.375, W: 0.875, Color: 1},
		},
		LabelOffset: 0.5,
	}
}

// ConfigurationError reports that a document's geometry does not match the
// expected layout. It is fatal for that document; no partial grid is usable.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "grid: layout not understood: " + e.Reason
}

// Residual holds the primitives left over after the builder's removals: the
// shapes are lesson boxes, the texts are everything that is neither a clock
// label nor consumed by calibration.
type Residual struct {
	Shapes []model.Shape
	Texts  []model.TextRun
}

// Builder derives a Grid from the raw primitives of one document.
type Builder struct {
	config Config
}

// NewBuilder creates a builder with the default layout constants.
func NewBuilder() *Builder {
	return &Builder{config: DefaultConfig()}
}

// Configure replaces the builder's layout constants.
func (b *Builder) Configure(config Config) {
	b.config = config
}

// Build derives the grid geometry from a document's shapes and texts. It
// returns the grid together with the residual primitives for the slot
// extractor and text assigner. Build never mutates the document.
func (b *Builder) Build(doc model.Document) (*model.Grid, *Residual, error) {
	// Step 1: pull all clock strings out of the text list. The gutter
	// labels among them calibrate the vertical axis.
	texts := make([]model.TextRun, len(doc.Texts))
	copy(texts, doc.Texts)
	sort.SliceStable(texts, func(i, j int) bool {
		if texts[i].Y != texts[j].Y {
			return texts[i].Y < texts[j].Y
		}
		return texts[i].X < texts[j].X
	})

	var gutterLabels []model.TextRun
	residualTexts := texts[:0:0]
	for _, t := range texts {
		if IsTime(t.Text) {
			if b.inGutter(t.X) {
				gutterLabels = append(gutterLabels, t)
			}
			continue
		}
		residualTexts = append(residualTexts, t)
	}
	if len(gutterLabels) < 2 {
		return nil, nil, &ConfigurationError{Reason: "no hour labels found in time gutter"}
	}

	// Step 2: the mean vertical distance between consecutive hour labels
	// gives the height of one hour. Rounded to the nearest 0.05 unit, then
	// to two decimals, to absorb renderer jitter.
	var total model.PdfUnits
	for i := 0; i < len(gutterLabels)-1; i++ {
		total += gutterLabels[i+1].Y - gutterLabels[i].Y
	}
	spacing := float64(total) / float64(len(gutterLabels)-1)
	spacing = math.Round(spacing/0.05) * 0.05
	spacing = math.Round(spacing*100) / 100

	firstHour, err := labelHour(gutterLabels[0].Text)
	if err != nil {
		return nil, nil, &ConfigurationError{Reason: "unreadable hour label " + strconv.Quote(gutterLabels[0].Text)}
	}
	hourHeight := model.PdfUnits(spacing).Pixels()
	minuteHeight := hourHeight / 60

	// Step 3: sort shapes by height and discard the page frame. The five
	// tallest remaining fills are the week backgrounds.
	shapes := make([]model.Shape, 0, len(doc.Shapes))
	for _, s := range doc.Shapes {
		if s.H <= b.config.FrameMaxHeight {
			shapes = append(shapes, s)
		}
	}
	sort.SliceStable(shapes, func(i, j int) bool { return shapes[i].H < shapes[j].H })
	if len(shapes) < 10 {
		return nil, nil, &ConfigurationError{Reason: "too few fills for a five-day schedule"}
	}
	weekBacks := append([]model.Shape(nil), shapes[len(shapes)-5:]...)
	shapes = shapes[:len(shapes)-5]

	topStart := weekBacks[0].Y.Pixels()
	bottom := weekBacks[0].Y + weekBacks[0].H
	distanceToFirstHour := (gutterLabels[0].Y + b.config.LabelOffset - weekBacks[0].Y).Pixels()
	minutesToFirstHour := model.SnapMinutes(float64(distanceToFirstHour / minuteHeight))

	// Step 4: below the top border sit exactly five weekday fills. A
	// degenerate zero-sized artifact sometimes precedes them.
	sort.SliceStable(shapes, func(i, j int) bool { return shapes[i].Y < shapes[j].Y })
	if shapes[0].BBox().IsZero() {
		shapes = shapes[1:]
	}
	if len(shapes) < 5 {
		return nil, nil, &ConfigurationError{Reason: "fewer than 5 weekday fills"}
	}
	weekdayFills := append([]model.Shape(nil), shapes[:5]...)
	shapes = shapes[5:]
	sort.SliceStable(weekdayFills, func(i, j int) bool { return weekdayFills[i].X < weekdayFills[j].X })

	grid := &model.Grid{
		FirstHour:          firstHour,
		HourHeight:         hourHeight,
		MinutesToFirstHour: minutesToFirstHour,
		TopStart:           topStart,
	}
	for i, fill := range weekdayFills {
		grid.Weekdays[i] = model.WeekdayColumn{
			Top:    fill.Y,
			Bottom: (fill.Y + fill.H).Round2(),
			Left:   fill.X,
			Right:  (fill.X + fill.W).Round2(),
		}
	}
	last := weekdayFills[len(weekdayFills)-1]
	grid.Bounds = model.Bounds{
		Top:    weekdayFills[0].Y,
		Bottom: bottom,
		Left:   weekdayFills[0].X,
		Right:  last.X + last.W,
	}
	for i := 0; i < len(grid.Weekdays)-1; i++ {
		if grid.Weekdays[i].Right > grid.Weekdays[i+1].Left {
			return nil, nil, &ConfigurationError{Reason: "weekday columns overlap"}
		}
	}

	// Step 5: remove the hour tick fills. Whatever is left is a lesson box.
	sort.SliceStable(shapes, func(i, j int) bool { return shapes[i].H < shapes[j].H })
	lessonShapes := shapes[:0:0]
	for _, s := range shapes {
		if !b.isTick(s) {
			lessonShapes = append(lessonShapes, s)
		}
	}

	return grid, &Residual{Shapes: lessonShapes, Texts: residualTexts}, nil
}

// inGutter reports whether an x position sits on one of the time-axis label
// columns.
func (b *Builder) inGutter(x model.PdfUnits) bool {
	for _, gx := range b.config.GutterX {
		if x == gx {
			return true
		}
	}
	return false
}

// isTick reports whether a shape matches one of the hour tick signatures.
func (b *Builder) isTick(s model.Shape) bool {
	for _, sig := range b.config.TickSignatures {
		if s.H == sig.H && s.W == sig.W && s.ColorIndex == sig.Color {
			return true
		}
	}
	return false
}

// labelHour extracts the hour component from an HH:MM label.
func labelHour(label string) (int, error) {
	h, _, ok := strings.Cut(label, ":")
	if !ok {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(h)
}
