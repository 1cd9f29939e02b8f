package extract

import (
	"testing"
	"time"

	"github.com/gradee/skema/model"
)

// testGrid mirrors the geometry of a five-day schedule starting at 08:00,
// with 25 minutes of header space above the first hour row.
func testGrid() *model.Grid {
	g := &model.Grid{
		FirstHour:          8,
		HourHeight:         40,
		MinutesToFirstHour: 25,
		TopStart:           64,
	}
	for i := 0; i < 5; i++ {
		left := model.PdfUnits(3 + i*5)
		g.Weekdays[i] = model.WeekdayColumn{Left: left, Right: left + 4.75, Top: 3, Bottom: 3.5}
	}
	g.Bounds = model.Bounds{Top: 3, Bottom: 34, Left: 3, Right: 27.75}
	return g
}

func testExtractor() *Extractor {
	return &Extractor{
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2018, 3, 15, 12, 0, 0, 0, time.UTC) },
		Palette:  model.Palette(),
	}
}

func TestSlots(t *testing.T) {
	e := testExtractor()
	shapes := []model.Shape{
		{X: 3.5, Y: 6.5, W: 3, H: 2.5, ColorIndex: 3},
	}

	slots := e.Slots(testGrid(), shapes, 11)
	if len(slots) != 1 {
		t.Fatalf("Slots() returned %d slots, want 1", len(slots))
	}

	slot := slots[0]
	if slot.Weekday != 0 {
		t.Errorf("Weekday = %d, want 0", slot.Weekday)
	}
	// Week 11 of 2018 starts Monday March 12. The slot sits 60 minutes
	// below the top border, whose own offset is 25 minutes before 08:00.
	wantStart := time.Date(2018, 3, 12, 8, 35, 0, 0, time.UTC)
	if !slot.Start.Equal(wantStart) {
		t.Errorf("Start = %v, want %v", slot.Start, wantStart)
	}
	wantEnd := wantStart.Add(60 * time.Minute)
	if !slot.End.Equal(wantEnd) {
		t.Errorf("End = %v, want %v", slot.End, wantEnd)
	}
	if want := model.Palette()[3]; slot.Color != want {
		t.Errorf("Color = %q, want %q", slot.Color, want)
	}
}

func TestSlots_WeekdayColumns(t *testing.T) {
	e := testExtractor()
	shapes := []model.Shape{
		{X: 8.5, Y: 6.5, W: 3, H: 2.5},  // tuesday
		{X: 23.5, Y: 6.5, W: 3, H: 2.5}, // friday
	}

	slots := e.Slots(testGrid(), shapes, 11)
	if len(slots) != 2 {
		t.Fatalf("Slots() returned %d slots, want 2", len(slots))
	}
	if slots[0].Weekday != 1 {
		t.Errorf("first slot weekday = %d, want 1", slots[0].Weekday)
	}
	if slots[1].Weekday != 4 {
		t.Errorf("second slot weekday = %d, want 4", slots[1].Weekday)
	}
	if slots[1].Start.Weekday() != time.Friday {
		t.Errorf("second slot starts on %v, want Friday", slots[1].Start.Weekday())
	}
}

func TestSlots_DropsOutsideAndDegenerate(t *testing.T) {
	e := testExtractor()
	shapes := []model.Shape{
		{X: 1, Y: 6.5, W: 0.5, H: 2.5},   // left of every column
		{X: 3.5, Y: 6.5, W: 3, H: 0.02},  // snaps to zero duration
		{X: 28.5, Y: 6.5, W: 0.5, H: 2.5}, // right of every column
	}

	if slots := e.Slots(testGrid(), shapes, 11); len(slots) != 0 {
		t.Errorf("Slots() returned %d slots, want 0", len(slots))
	}
}

func TestSlots_FiveMinuteSnapping(t *testing.T) {
	e := testExtractor()
	// 40.16px below the top border is 60.24 minutes, snapping to 60.
	shapes := []model.Shape{{X: 3.5, Y: 6.51, W: 3, H: 2.5}}

	slots := e.Slots(testGrid(), shapes, 11)
	if len(slots) != 1 {
		t.Fatalf("Slots() returned %d slots, want 1", len(slots))
	}
	if got := slots[0].Start.Minute(); got != 35 {
		t.Errorf("start minute = %d, want 35", got)
	}
}

func TestSlots_OverrideColor(t *testing.T) {
	e := testExtractor()
	shapes := []model.Shape{
		{X: 3.5, Y: 6.5, W: 3, H: 2.5, ColorIndex: -1, OverrideColor: "#123456"},
	}

	slots := e.Slots(testGrid(), shapes, 11)
	if len(slots) != 1 {
		t.Fatalf("Slots() returned %d slots, want 1", len(slots))
	}
	if slots[0].Color != "#123456" {
		t.Errorf("Color = %q, want #123456", slots[0].Color)
	}
}

func TestSlots_WeekAnchoredToISOYear(t *testing.T) {
	e := testExtractor()
	// Late December 2018: week 1 must anchor to ISO year 2019.
	e.Now = func() time.Time { return time.Date(2018, 12, 31, 12, 0, 0, 0, time.UTC) }
	shapes := []model.Shape{{X: 3.5, Y: 6.5, W: 3, H: 2.5}}

	slots := e.Slots(testGrid(), shapes, 1)
	if len(slots) != 1 {
		t.Fatalf("Slots() returned %d slots, want 1", len(slots))
	}
	want := time.Date(2018, 12, 31, 8, 35, 0, 0, time.UTC)
	if !slots[0].Start.Equal(want) {
		t.Errorf("Start = %v, want %v", slots[0].Start, want)
	}
}
