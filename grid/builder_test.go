package grid

import (
	"errors"
	"testing"

	"github.com/gradee/skema/model"
)

// scheduleDocument builds a minimal five-day document: a page frame, five
// week backgrounds, five weekday fills, hour labels with their tick fills,
// and two lesson boxes with their text fragments.
func scheduleDocument() model.Document {
	shapes := []model.Shape{
		// Page frame, taller than any schedule fill.
		{X: 0.5, Y: 0.5, W: 30, H: 49},
		// Degenerate artifact.
		{},
	}
	for i := 0; i < 5; i++ {
		x := model.PdfUnits(3 + i*5)
		// Week background.
		shapes = append(shapes, model.Shape{X: x, Y: 4, W: 4.75, H: 30})
		// Weekday fill.
		shapes = append(shapes, model.Shape{X: x, Y: 3, W: 4.75, H: 0.5})
	}
	// Hour tick fills next to the labels.
	shapes = append(shapes,
		model.Shape{X: 1.875, Y: 4.5, W: 1.25, H: 0.438, ColorIndex: 1},
		model.Shape{X: 1.875, Y: 7, W: 1.25, H: 0.438, ColorIndex: 1},
	)
	// Lesson boxes.
	shapes = append(shapes,
		model.Shape{X: 3.5, Y: 6.5, W: 3, H: 2.5, ColorIndex: 3},
		model.Shape{X: 8.5, Y: 5, W: 3, H: 1.25, ColorIndex: 5},
	)

	texts := []model.TextRun{
		{X: 1.875, Y: 4.5, Text: "08:00"},
		{X: 1.875, Y: 7, Text: "09:00"},
		{X: 1.875, Y: 9.5, Text: "10:00"},
		// Clock string inside a lesson box, not a gutter label.
		{X: 4, Y: 6.6, Text: "08:30"},
		{X: 3.6, Y: 6.7, Text: "Matematik"},
		{X: 8.6, Y: 5.1, Text: "Svenska"},
	}
	return model.Document{Shapes: shapes, Texts: texts}
}

func TestIsTime(t *testing.T) {
	valid := []string{"8:00", "08:00", "23:59", "08:00:30"}
	for _, s := range valid {
		if !IsTime(s) {
			t.Errorf("IsTime(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "8:60", "25:00", "08.00", "Matematik", "08:00 "}
	for _, s := range invalid {
		if IsTime(s) {
			t.Errorf("IsTime(%q) = true, want false", s)
		}
	}
}

func TestBuild(t *testing.T) {
	b := NewBuilder()
	grid, _, err := b.Build(scheduleDocument())
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if grid.FirstHour != 8 {
		t.Errorf("FirstHour = %d, want 8", grid.FirstHour)
	}
	if grid.HourHeight != 40 {
		t.Errorf("HourHeight = %v, want 40", grid.HourHeight)
	}
	if grid.TopStart != 64 {
		t.Errorf("TopStart = %v, want 64", grid.TopStart)
	}
	// 16px to the first label row at a minute height of 2/3px snaps to 25.
	if grid.MinutesToFirstHour != 25 {
		t.Errorf("MinutesToFirstHour = %d, want 25", grid.MinutesToFirstHour)
	}

	monday := grid.Weekdays[0]
	if monday.Left != 3 || monday.Right != 7.75 {
		t.Errorf("monday column = [%v, %v], want [3, 7.75]", monday.Left, monday.Right)
	}
	if monday.Top != 3 || monday.Bottom != 3.5 {
		t.Errorf("monday rows = [%v, %v], want [3, 3.5]", monday.Top, monday.Bottom)
	}
	if grid.Bounds.Left != 3 || grid.Bounds.Right != 27.75 {
		t.Errorf("bounds = [%v, %v], want [3, 27.75]", grid.Bounds.Left, grid.Bounds.Right)
	}
	if grid.Bounds.Bottom != 34 {
		t.Errorf("bounds bottom = %v, want 34", grid.Bounds.Bottom)
	}
}

func TestBuild_Residual(t *testing.T) {
	b := NewBuilder()
	_, residual, err := b.Build(scheduleDocument())
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}

	if len(residual.Shapes) != 2 {
		t.Fatalf("residual shapes = %d, want 2 lesson boxes", len(residual.Shapes))
	}
	for _, s := range residual.Shapes {
		if s.H == 0.438 {
			t.Errorf("tick fill survived into residual shapes")
		}
		if s.H == 30 || s.H == 0.5 {
			t.Errorf("grid fill with height %v survived into residual shapes", s.H)
		}
	}

	if len(residual.Texts) != 2 {
		t.Fatalf("residual texts = %d, want 2", len(residual.Texts))
	}
	for _, run := range residual.Texts {
		if IsTime(run.Text) {
			t.Errorf("clock string %q survived into residual texts", run.Text)
		}
	}
}

func TestBuild_WeekdaysSortedByX(t *testing.T) {
	doc := scheduleDocument()
	// Shuffle the shapes; ordering must not matter.
	for i, j := 0, len(doc.Shapes)-1; i < j; i, j = i+1, j-1 {
		doc.Shapes[i], doc.Shapes[j] = doc.Shapes[j], doc.Shapes[i]
	}

	b := NewBuilder()
	grid, _, err := b.Build(doc)
	if err != nil {
		t.Fatalf("Build() failed: %v", err)
	}
	for i := 1; i < len(grid.Weekdays); i++ {
		if grid.Weekdays[i].Left <= grid.Weekdays[i-1].Left {
			t.Errorf("weekday %d left = %v, not right of weekday %d (%v)",
				i, grid.Weekdays[i].Left, i-1, grid.Weekdays[i-1].Left)
		}
	}
}

func TestBuild_NoHourLabels(t *testing.T) {
	doc := scheduleDocument()
	doc.Texts = []model.TextRun{{X: 3.6, Y: 6.7, Text: "Matematik"}}

	b := NewBuilder()
	_, _, err := b.Build(doc)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Build() without labels = %v, want ConfigurationError", err)
	}
}

func TestBuild_TooFewFills(t *testing.T) {
	doc := scheduleDocument()
	doc.Shapes = doc.Shapes[:6]

	b := NewBuilder()
	_, _, err := b.Build(doc)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Build() with too few fills = %v, want ConfigurationError", err)
	}
}

func TestBuild_OverlappingColumns(t *testing.T) {
	doc := scheduleDocument()
	for i := range doc.Shapes {
		// Widen every weekday fill past its right neighbor.
		if doc.Shapes[i].H == 0.5 {
			doc.Shapes[i].W = 6
		}
	}

	b := NewBuilder()
	_, _, err := b.Build(doc)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("Build() with overlapping columns = %v, want ConfigurationError", err)
	}
}

func TestConfigure(t *testing.T) {
	b := NewBuilder()
	custom := DefaultConfig()
	custom.FrameMaxHeight = 50
	b.Configure(custom)

	if b.config.FrameMaxHeight != 50 {
		t.Errorf("FrameMaxHeight = %v, want 50", b.config.FrameMaxHeight)
	}
}
