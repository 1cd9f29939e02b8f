// Package model defines the shared data model for timetable extraction:
// geometric primitives as they arrive from the upstream renderers, the
// calibrated grid derived from them, and the lesson records produced by the
// extraction pipeline.
//
// Coordinates use the renderer's convention: the origin is the top-left
// corner of the page and Y grows downward. Values are expressed in named unit
// types (PdfUnits, Pixels, Minutes) so conversions are explicit.
package model
