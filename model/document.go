package model

// Shape is a filled rectangle read from the upstream renderer. Shapes are
// immutable once decoded.
type Shape struct {
	X, Y PdfUnits
	W, H PdfUnits

	// ColorIndex is an index into the background palette, or -1 when the
	// renderer supplied an explicit color instead.
	ColorIndex int

	// OverrideColor is the explicit fill color ("#rrggbb") used when
	// ColorIndex is negative.
	OverrideColor string

	// Order is the source-assigned z-order.
	Order int
}

// BBox returns the shape's bounding box.
func (s Shape) BBox() BBox {
	return BBox{X: s.X, Y: s.Y, Width: s.W, Height: s.H}
}

// TextRun is a positioned text fragment. The content is already decoded
// (percent-decoding and renderer code-point translation applied at the
// source adapter). TextRuns are immutable.
type TextRun struct {
	X, Y PdfUnits
	W    PdfUnits
	Text string
}

// Document holds the raw primitives of one rendered timetable page.
type Document struct {
	Shapes []Shape
	Texts  []TextRun
}
