package extract

import (
	"sort"
	"strings"

	"github.com/gradee/skema/model"
)

// Positional correction between primitive coordinates and visible glyph
// bounds. The rendered output is systematically offset from the primitive
// data by a quarter unit, and reported widths run wide by 0.98.
const (
	textOffsetX = 0.25
	textOffsetY = 0.25
	textWidth   = -0.98
)

// correctedText is a text run adjusted for the rendering offset, with its
// computed right edge.
type correctedText struct {
	x, y model.PdfUnits
	x2   model.PdfUnits
	text string
}

// AssignTexts attributes residual text runs to the slots they visually
// belong to. The first five corrected runs (top to bottom) are the weekday
// headers and are excluded. A run may attach to multiple overlapping slots;
// a run hanging past a slot's right border is kept only while less than half
// of it lies outside. Fragments are appended in top-to-bottom, left-to-right
// order, and the slots are finally sorted by (x, y) for deterministic output.
func (e *Extractor) AssignTexts(g *model.Grid, slots []model.LessonSlot, texts []model.TextRun) []model.LessonSlot {
	runs := make([]model.TextRun, len(texts))
	copy(runs, texts)
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Y < runs[j].Y })

	corrected := make([]correctedText, 0, len(runs))
	for _, t := range runs {
		x := t.X + textOffsetX
		w := t.W + textWidth
		corrected = append(corrected, correctedText{
			x:    x,
			y:    t.Y + textOffsetY,
			x2:   x + w/model.PixelsPerUnit,
			text: t.Text,
		})
	}

	// The weekday headers are always the five topmost runs.
	if len(corrected) >= 5 {
		corrected = corrected[5:]
	} else {
		corrected = corrected[:0]
	}

	sort.SliceStable(corrected, func(i, j int) bool {
		if corrected[i].y != corrected[j].y {
			return corrected[i].y < corrected[j].y
		}
		return corrected[i].x < corrected[j].x
	})

	for _, t := range corrected {
		for i := range slots {
			slot := &slots[i]
			if !slot.BBox.Contains(model.Point{X: t.x, Y: t.y}) {
				continue
			}
			if t.x2 > slot.BBox.Right() {
				// The run hangs over the slot's right border; keep it
				// only while less than half of it lies outside.
				if t.x/slot.BBox.Right() >= 0.5 {
					continue
				}
			}
			slot.Texts = append(slot.Texts, t.text)
			slot.Joined = cleanSpaces(strings.Join(slot.Texts, " "))
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if slots[i].BBox.X != slots[j].BBox.X {
			return slots[i].BBox.X < slots[j].BBox.X
		}
		return slots[i].BBox.Y < slots[j].BBox.Y
	})
	return slots
}

// cleanSpaces collapses whitespace runs to single spaces and trims the ends.
func cleanSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
