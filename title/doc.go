// Package title decomposes a lesson's free-text title into a course
// reference and participant references, using a known-entity list and an
// external course-code dictionary. It also provides the normalized
// edit-distance similarity score the detail resolver uses for row
// disambiguation.
package title
