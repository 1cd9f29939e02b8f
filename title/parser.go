package title

import (
	"sort"
	"strings"

	"github.com/gradee/skema/model"
)

// Parse decomposes a lesson title into a course reference and participant
// references. Entities and the course dictionary are read-only inputs; each
// entity is scanned by its own search key (initials for teachers, name
// otherwise).
//
// Resolution is all-or-nothing: the returned lesson carries only title and
// reference fields, never partial state from a failed pass.
func Parse(raw string, entities []model.ScheduleEntity, courses map[string]string) model.ResolvedLesson {
	var result model.ResolvedLesson

	// Term-of-year markers and commas carry no information for matching.
	working := raw
	for _, marker := range []string{"Läsår", "Vt", "Ht"} {
		working = strings.ReplaceAll(working, marker, "")
	}
	working = strings.ReplaceAll(working, ",", " ")

	// Step 1: course resolution. A course name appearing case-insensitively
	// in the title pins the lesson to that course; the matched span and
	// everything before it is stripped (course names precede the trailing
	// group tokens). Codes are scanned in sorted order for determinism.
	codes := make([]string, 0, len(courses))
	for code := range courses {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var guaranteedTitle, titleCourseCode string
	for _, code := range codes {
		name := courses[code]
		idx := strings.Index(strings.ToLower(working), strings.ToLower(name))
		if idx < 0 {
			continue
		}
		titleCourseCode = code
		guaranteedTitle = name
		working = working[idx+len(name):]
	}

	// Step 2: any course code appearing inside a remaining token marks that
	// token as the course's section/group label.
	parts := strings.Split(working, " ")
	for _, code := range codes {
		var groups []string
		for _, part := range parts {
			if part != "" && strings.Contains(part, code) {
				groups = append(groups, part)
				working = strings.Replace(working, part, "", 1)
			}
		}
		if len(groups) == 0 {
			continue
		}
		if code == titleCourseCode {
			// Same course found again; merge instead of duplicating.
			titleCourseCode = ""
		}
		result.Courses = append(result.Courses, model.CourseRef{
			Code:   code,
			Name:   courses[code],
			Groups: groups,
		})
	}
	if titleCourseCode != "" {
		result.Courses = append(result.Courses, model.CourseRef{
			Code: titleCourseCode,
			Name: courses[titleCourseCode],
		})
	}

	// Step 3: entity resolution. An entity's search key counts only when it
	// is bounded by non-letters on both sides, to avoid partial-word hits.
	for _, entity := range entities {
		key := entity.SearchKey()
		if key == "" {
			continue
		}
		idx := strings.Index(working, key)
		if idx < 0 {
			continue
		}
		if letterAt(working, idx-1) || letterAt(working, idx+len(key)) {
			continue
		}
		working = strings.Replace(working, key, "", 1)
		result.AddEntity(entity.Type, model.EntityRef{Name: entity.Name, ID: entity.ID})
	}

	// Step 4: strip stray colons and collapse whitespace. A guaranteed
	// course title always wins over the residual string.
	working = strings.ReplaceAll(working, ":", "")
	if guaranteedTitle != "" {
		result.Title = guaranteedTitle
	} else {
		result.Title = cleanSpaces(working)
	}
	return result
}

// letterAt reports whether the byte at i is an ASCII letter. Out-of-range
// positions count as boundaries. The check is deliberately ASCII-only: the
// legacy matcher treated Swedish åäö as boundary characters, and entity keys
// depend on that.
func letterAt(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return false
	}
	c := s[i]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// cleanSpaces collapses whitespace runs to single spaces and trims the ends.
func cleanSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
