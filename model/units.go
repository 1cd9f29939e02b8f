package model

import "math"

// PdfUnits is a length in the renderer's internal unit. One unit corresponds
// to 16 rendered pixels.
type PdfUnits float64

// PixelsPerUnit is the fixed ratio between renderer units and pixels.
const PixelsPerUnit = 16

// Pixels converts a length to rendered pixels.
func (u PdfUnits) Pixels() Pixels {
	return Pixels(u * PixelsPerUnit)
}

// Round2 rounds to two decimal places, matching the precision the upstream
// renderer emits for fill edges.
func (u PdfUnits) Round2() PdfUnits {
	return PdfUnits(math.Round(float64(u)*100) / 100)
}

// Pixels is a length in rendered pixels.
type Pixels float64

// Units converts a pixel length back to renderer units.
func (p Pixels) Units() PdfUnits {
	return PdfUnits(p / PixelsPerUnit)
}

// Minutes is a duration on the timetable's vertical axis.
type Minutes int

// SnapMinutes snaps a fractional minute count to the timetable's 5-minute
// resolution.
func SnapMinutes(m float64) Minutes {
	return Minutes(math.Round(m/5) * 5)
}
