package model

// TypeKey identifies a schedule category as numbered by the upstream system.
type TypeKey int

// Schedule categories, in upstream key order.
const (
	TypeTeacher TypeKey = iota
	TypeClass
	TypeGroup
	TypeStudent
	TypeRoom
	TypeSubject
	TypeCourse
	TypeAula
)

// ScheduleType describes one schedule category: its upstream display name and
// the slug used for the category's entity list on resolved lessons.
type ScheduleType struct {
	Key  TypeKey
	Name string
	Slug string
}

// ScheduleTypes returns the category table. The returned slice is a fresh
// copy; callers may not rely on shared state.
func ScheduleTypes() []ScheduleType {
	return []ScheduleType{
		{Key: TypeTeacher, Name: "Lärare", Slug: "teachers"},
		{Key: TypeClass, Name: "Klass", Slug: "classes"},
		{Key: TypeGroup, Name: "Grupp", Slug: "groups"},
		{Key: TypeStudent, Name: "Elev", Slug: "students"},
		{Key: TypeRoom, Name: "Sal", Slug: "rooms"},
		{Key: TypeSubject, Name: "Ämne", Slug: "subjects"},
		{Key: TypeCourse, Name: "Kurskod", Slug: "courses"},
		{Key: TypeAula, Name: "Samling", Slug: "aulas"},
	}
}

// ScheduleEntity is a known participant (teacher, class, room, ...) supplied
// by the entity dictionary provider. Read-only disambiguation input.
type ScheduleEntity struct {
	ID        string
	Name      string
	Initials  string // teachers only
	ClassName string // students only
	Type      TypeKey
}

// SearchKey returns the string the title parser scans for: initials for
// teachers, the display name for everything else.
func (e ScheduleEntity) SearchKey() string {
	if e.Type == TypeTeacher {
		return e.Initials
	}
	return e.Name
}

// ScheduleRef identifies one schedule against its upstream system.
type ScheduleRef struct {
	// InstallationID and AccessCode are the upstream credentials of the
	// owning school.
	InstallationID string
	AccessCode     string

	// Type is the schedule's category.
	Type TypeKey

	// ID is the schedule's upstream identifier (a GUID for the PDF source).
	ID string

	// Initials are the schedule's own teacher initials, when Type is
	// TypeTeacher. The detail resolver strips them from candidate rows.
	Initials string
}
