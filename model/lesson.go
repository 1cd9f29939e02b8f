package model

import "time"

// LessonSlot is one visual lesson box mapped to a weekday and an absolute
// time range. Text fragments are appended by the assigner; the detail
// resolver may later override the times and attach a resolved title. A slot
// is owned by a single extraction run and never shared.
type LessonSlot struct {
	Weekday int // 0 = Monday .. 4 = Friday
	BBox    BBox
	Start   time.Time
	End     time.Time

	// Texts are the raw fragments attached to the slot, in top-to-bottom,
	// left-to-right order. Joined is the fragments joined with single
	// spaces, with repeated spaces collapsed and ends trimmed.
	Texts  []string
	Joined string

	// Color is the slot's background color ("#rrggbb").
	Color string
}

// LessonKind classifies how a lesson's detail table was structured.
type LessonKind int

const (
	// KindSimple is a plain lesson with its own detail table.
	KindSimple LessonKind = iota

	// KindBlock is one of several simultaneous lessons that have separate
	// detail tables under a shared "Block:" label.
	KindBlock

	// KindMulti is one of several stacked lessons sharing a single detail
	// table.
	KindMulti
)

// String returns the kind's wire name.
func (k LessonKind) String() string {
	switch k {
	case KindSimple:
		return "simple"
	case KindBlock:
		return "block"
	case KindMulti:
		return "multi"
	}
	return "unknown"
}

// CourseRef ties a lesson to a course from the course dictionary, with any
// section/group tokens found next to it in the title.
type CourseRef struct {
	Code   string   `json:"code"`
	Name   string   `json:"name"`
	Groups []string `json:"groups,omitempty"`
}

// EntityRef is a resolved participant reference.
type EntityRef struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// ResolvedLesson is the externally visible unit: a lesson with resolved
// title, classification, times and participant references.
type ResolvedLesson struct {
	Title string     `json:"title"`
	Kind  LessonKind `json:"type"`
	Start time.Time  `json:"startTime"`
	End   time.Time  `json:"endTime"`
	Color string     `json:"backgroundColor,omitempty"`

	Courses []CourseRef `json:"courses,omitempty"`

	Teachers []EntityRef `json:"teachers,omitempty"`
	Classes  []EntityRef `json:"classes,omitempty"`
	Groups   []EntityRef `json:"groups,omitempty"`
	Students []EntityRef `json:"students,omitempty"`
	Rooms    []EntityRef `json:"rooms,omitempty"`
	Subjects []EntityRef `json:"subjects,omitempty"`
	Aulas    []EntityRef `json:"aulas,omitempty"`
}

// AddEntity records a participant reference under the category for the given
// type key. Course-type entities carry no reference list on lessons (courses
// resolve through the dictionary instead) and are ignored.
func (l *ResolvedLesson) AddEntity(key TypeKey, ref EntityRef) {
	switch key {
	case TypeTeacher:
		l.Teachers = append(l.Teachers, ref)
	case TypeClass:
		l.Classes = append(l.Classes, ref)
	case TypeGroup:
		l.Groups = append(l.Groups, ref)
	case TypeStudent:
		l.Students = append(l.Students, ref)
	case TypeRoom:
		l.Rooms = append(l.Rooms, ref)
	case TypeSubject:
		l.Subjects = append(l.Subjects, ref)
	case TypeAula:
		l.Aulas = append(l.Aulas, ref)
	}
}
