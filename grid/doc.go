// Package grid reconstructs the timetable's weekday-column and hour-row
// geometry from the raw shape list of one rendered document.
//
// The renderer emits no labels on its fills, so everything is derived from
// size and position heuristics: the five tallest background fills frame the
// week, the five fills below the top border are the weekday columns, and the
// HH:MM labels in the left gutter calibrate the pixel-to-minute ratio.
package grid
