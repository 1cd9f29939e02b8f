package model

// Point represents a 2D position in renderer units.
type Point struct {
	X, Y PdfUnits
}

// BBox represents a bounding box. Y is the top edge (Y grows downward).
type BBox struct {
	X      PdfUnits
	Y      PdfUnits
	Width  PdfUnits
	Height PdfUnits
}

// NewBBox creates a bounding box from coordinates.
func NewBBox(x, y, width, height PdfUnits) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// Left returns the left edge X coordinate.
func (b BBox) Left() PdfUnits {
	return b.X
}

// Right returns the right edge X coordinate.
func (b BBox) Right() PdfUnits {
	return b.X + b.Width
}

// Top returns the top edge Y coordinate.
func (b BBox) Top() PdfUnits {
	return b.Y
}

// Bottom returns the bottom edge Y coordinate.
func (b BBox) Bottom() PdfUnits {
	return b.Y + b.Height
}

// Position returns the top-left corner.
func (b BBox) Position() Point {
	return Point{X: b.X, Y: b.Y}
}

// Contains checks whether a point lies inside the box. The right and bottom
// edges are exclusive so that adjacent boxes do not both claim a shared edge.
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Left() && p.X < b.Right() &&
		p.Y >= b.Top() && p.Y < b.Bottom()
}

// IsZero reports whether the box carries no position and no extent. The
// renderer occasionally emits such degenerate artifacts.
func (b BBox) IsZero() bool {
	return b.X == 0 && b.Y == 0 && b.Width == 0 && b.Height == 0
}
