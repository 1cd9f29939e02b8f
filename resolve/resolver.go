package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/gradee/skema/model"
	"github.com/gradee/skema/title"
)

// timeRangeRe matches an "HH:MM-HH:MM" span, with optional spaces around the
// dash.
var timeRangeRe = regexp.MustCompile(`([01]?[0-9]|2[0-3]):[0-5][0-9] ?- ?([01]?[0-9]|2[0-3]):[0-5][0-9]`)

// blockLabel is the prefix of the label row some tables carry above their
// time row.
const blockLabel = "Block:"

// ResolutionError reports that a single slot's detail lookup failed. It is
// non-fatal: the caller skips the slot and continues with its siblings.
type ResolutionError struct {
	Op  string
	Err error
}

func (e *ResolutionError) Error() string {
	if e.Err == nil {
		return "resolve: " + e.Op
	}
	return fmt.Sprintf("resolve: %s: %v", e.Op, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// Resolution is the outcome of resolving one slot's detail table. Times are
// clock strings ("HH:MM") on the slot's own day.
type Resolution struct {
	Kind      model.LessonKind
	StartTime string
	EndTime   string
	Title     string
	Texts     []string
}

// Resolver classifies a slot's detail table and disambiguates which row
// describes the slot.
//
// Multi tables stack several lessons behind one table; the legacy scraper
// hinted at using the previous sibling slot to choose a row but never wired
// it up consistently. The policy here is deterministic: after dropping a
// leading "Block:" label row, the first time row is authoritative.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver creates a resolver. A nil logger falls back to slog.Default.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{logger: logger}
}

// Resolve simulates a click at the slot's position and disambiguates the
// returned table. The second return value is false for a free-day response
// (the slot has no detail). initials, when non-empty, are the schedule's own
// teacher initials, stripped from candidate cells before scoring.
//
// Resolve never partially fills a Resolution: on any failure the zero value
// is returned alongside a *ResolutionError.
func (r *Resolver) Resolve(ctx context.Context, sess Session, slot model.LessonSlot, week int, initials string) (Resolution, bool, error) {
	table, err := sess.LessonTable(ctx, slot.BBox.Position(), week)
	if err != nil {
		return Resolution{}, false, &ResolutionError{Op: "lesson table lookup", Err: err}
	}
	if table.FreeDay {
		return Resolution{}, false, nil
	}
	if len(table.Rows) == 0 {
		return Resolution{}, false, &ResolutionError{Op: "empty detail table"}
	}

	res, err := r.classify(table.Rows, slot, initials)
	if err != nil {
		return Resolution{}, false, err
	}
	return res, true, nil
}

// classify applies the Simple/Block/Multi heuristics to the table rows.
func (r *Resolver) classify(rows [][]string, slot model.LessonSlot, initials string) (Resolution, error) {
	timeRows := 0
	for _, row := range rows {
		if timeRangeRe.MatchString(strings.Join(row, " ")) {
			timeRows++
		}
	}

	switch {
	case timeRows > 1:
		return r.classifyMulti(rows)
	case isBlockRow(rows[0]):
		return r.classifyBlock(rows, slot)
	default:
		return r.classifySimple(rows, slot, initials)
	}
}

// classifyMulti handles tables stacking several lessons. The first time row
// after an optional "Block:" label is taken as this slot's data.
func (r *Resolver) classifyMulti(rows [][]string) (Resolution, error) {
	if isBlockRow(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return Resolution{}, &ResolutionError{Op: "multi table with only a block label"}
	}

	// A multi time row packs "HH:MM-HH:MM title" into its first cell.
	first := rows[0][0]
	span, rest, found := strings.Cut(first, " ")
	if !found {
		span = first
	}
	start, end, ok := splitTimeSpan(span)
	if !ok {
		return Resolution{}, &ResolutionError{Op: "unreadable multi time row " + quote(first)}
	}
	return Resolution{
		Kind:      model.KindMulti,
		StartTime: start,
		EndTime:   end,
		Title:     rest,
		Texts:     rows[0][1:],
	}, nil
}

// classifyBlock handles a single lesson under a "Block:" label: label row,
// then time row, then one or more candidate detail rows.
func (r *Resolver) classifyBlock(rows [][]string, slot model.LessonSlot) (Resolution, error) {
	rows = rows[1:]
	if len(rows) < 2 {
		return Resolution{}, &ResolutionError{Op: "block table too short"}
	}
	start, end, ok := splitTimeSpan(rows[0][0])
	if !ok {
		return Resolution{}, &ResolutionError{Op: "unreadable block time row " + quote(rows[0][0])}
	}
	candidates := rows[1:]

	var chosen []string
	if len(candidates) == 1 {
		chosen = candidates[0]
	} else {
		chosen = r.pickRow(candidates, flatten(slot.Texts), model.KindBlock)
	}
	return Resolution{
		Kind:      model.KindBlock,
		StartTime: start,
		EndTime:   end,
		Title:     chosen[0],
		Texts:     chosen[1:],
	}, nil
}

// classifySimple handles a plain lesson: time row followed by one or more
// candidate detail rows. With several candidates, the schedule's own teacher
// initials are stripped before scoring against the slot's joined text.
func (r *Resolver) classifySimple(rows [][]string, slot model.LessonSlot, initials string) (Resolution, error) {
	start, end, ok := splitTimeSpan(rows[0][0])
	if !ok {
		return Resolution{}, &ResolutionError{Op: "unreadable time row " + quote(rows[0][0])}
	}
	candidates := rows[1:]
	if len(candidates) == 0 {
		return Resolution{}, &ResolutionError{Op: "time row without detail rows"}
	}

	var chosen []string
	if len(candidates) == 1 {
		chosen = candidates[0]
	} else {
		stripped := make([][]string, 0, len(candidates))
		for _, row := range candidates {
			cells := make([]string, 0, len(row))
			for _, cell := range row {
				if cell == "" || (initials != "" && cell == initials) {
					continue
				}
				cells = append(cells, cell)
			}
			if len(cells) == 0 {
				cells = row
			}
			stripped = append(stripped, cells)
		}
		chosen = r.pickRow(stripped, flatten(slot.Texts), model.KindSimple)
	}
	return Resolution{
		Kind:      model.KindSimple,
		StartTime: start,
		EndTime:   end,
		Title:     chosen[0],
		Texts:     chosen[1:],
	}, nil
}

// pickRow picks the candidate whose flattened text scores highest against
// the reference; ties keep the first row encountered. Disambiguation never
// fails outright: the best-scored candidate always wins, and an unconfident
// pick is only logged.
func (r *Resolver) pickRow(candidates [][]string, reference string, kind model.LessonKind) []string {
	best := candidates[0]
	bestScore := -1.0
	for _, row := range candidates {
		score := title.Similarity(reference, flatten(row))
		if score > bestScore {
			best = row
			bestScore = score
		}
	}
	if bestScore < 0.5 {
		r.logger.Debug("ambiguous detail rows, keeping best-scored candidate",
			"kind", kind.String(), "candidates", len(candidates), "score", bestScore)
	}
	return best
}

// flatten joins strings and strips every space, the form rows are compared
// in.
func flatten(parts []string) string {
	return strings.ReplaceAll(strings.Join(parts, ""), " ", "")
}

// isBlockRow reports whether a row is the "Block:" label row.
func isBlockRow(row []string) bool {
	return strings.Contains(strings.Join(row, " "), blockLabel)
}

// splitTimeSpan splits "HH:MM - HH:MM" (spaces optional) into its two clock
// strings.
func splitTimeSpan(s string) (start, end string, ok bool) {
	if !timeRangeRe.MatchString(s) {
		return "", "", false
	}
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), true
}

// quote wraps a cell value for error messages.
func quote(s string) string {
	return fmt.Sprintf("%q", s)
}
