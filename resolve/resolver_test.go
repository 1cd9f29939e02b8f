package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/gradee/skema/model"
)

// fakeSession serves a canned table regardless of position.
type fakeSession struct {
	table  Table
	err    error
	clicks int
	closed bool
}

func (s *fakeSession) LessonTable(ctx context.Context, pos model.Point, week int) (Table, error) {
	s.clicks++
	return s.table, s.err
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

func TestResolve_Simple(t *testing.T) {
	sess := &fakeSession{table: Table{Rows: [][]string{
		{"08:20 - 09:10"},
		{"Matematik", "A1", "ABG"},
	}}}

	r := NewResolver(nil)
	res, ok, err := r.Resolve(context.Background(), sess, model.LessonSlot{}, 11, "")
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if !ok {
		t.Fatal("Resolve() reported no detail for a lesson table")
	}
	if res.Kind != model.KindSimple {
		t.Errorf("Kind = %v, want simple", res.Kind)
	}
	if res.StartTime != "08:20" || res.EndTime != "09:10" {
		t.Errorf("times = %q-%q, want 08:20-09:10", res.StartTime, res.EndTime)
	}
	if res.Title != "Matematik" {
		t.Errorf("Title = %q, want Matematik", res.Title)
	}
	if len(res.Texts) != 2 || res.Texts[0] != "A1" {
		t.Errorf("Texts = %v, want [A1 ABG]", res.Texts)
	}
}

func TestResolve_SimplePicksClosestRow(t *testing.T) {
	sess := &fakeSession{table: Table{Rows: [][]string{
		{"08:20 - 09:10"},
		{"Engelska", "EN1"},
		{"Matematik", "MA2"},
	}}}
	slot := model.LessonSlot{Texts: []string{"Matematik", "MA2"}}

	r := NewResolver(nil)
	res, ok, err := r.Resolve(context.Background(), sess, slot, 11, "")
	if err != nil || !ok {
		t.Fatalf("Resolve() = %v, ok %v", err, ok)
	}
	if res.Title != "Matematik" {
		t.Errorf("Title = %q, want the row matching the slot's text", res.Title)
	}
}

func TestResolve_SimpleStripsOwnInitials(t *testing.T) {
	// On a teacher's own schedule every row repeats the teacher's initials;
	// they carry no signal and are stripped before scoring.
	sess := &fakeSession{table: Table{Rows: [][]string{
		{"10:00 - 11:00"},
		{"ABG", "Fysik", "F12"},
		{"ABG", "Kemi", "K1"},
	}}}
	slot := model.LessonSlot{Texts: []string{"Kemi", "K1"}}

	r := NewResolver(nil)
	res, ok, err := r.Resolve(context.Background(), sess, slot, 11, "ABG")
	if err != nil || !ok {
		t.Fatalf("Resolve() = %v, ok %v", err, ok)
	}
	if res.Title != "Kemi" {
		t.Errorf("Title = %q, want Kemi", res.Title)
	}
	if len(res.Texts) != 1 || res.Texts[0] != "K1" {
		t.Errorf("Texts = %v, want [K1]", res.Texts)
	}
}

func TestResolve_Block(t *testing.T) {
	sess := &fakeSession{table: Table{Rows: [][]string{
		{"Block: NO"},
		{"09:30 - 10:30"},
		{"Fysik", "F1"},
		{"Kemi", "K1"},
	}}}
	slot := model.LessonSlot{Texts: []string{"Kemi", "K1"}}

	r := NewResolver(nil)
	res, ok, err := r.Resolve(context.Background(), sess, slot, 11, "")
	if err != nil || !ok {
		t.Fatalf("Resolve() = %v, ok %v", err, ok)
	}
	if res.Kind != model.KindBlock {
		t.Errorf("Kind = %v, want block", res.Kind)
	}
	if res.StartTime != "09:30" || res.EndTime != "10:30" {
		t.Errorf("times = %q-%q, want 09:30-10:30", res.StartTime, res.EndTime)
	}
	if res.Title != "Kemi" {
		t.Errorf("Title = %q, want Kemi", res.Title)
	}
}

func TestResolve_Multi(t *testing.T) {
	sess := &fakeSession{table: Table{Rows: [][]string{
		{"08:20-09:10 Svenska", "B2"},
		{"09:10-10:00 Engelska", "B2"},
	}}}

	r := NewResolver(nil)
	res, ok, err := r.Resolve(context.Background(), sess, model.LessonSlot{}, 11, "")
	if err != nil || !ok {
		t.Fatalf("Resolve() = %v, ok %v", err, ok)
	}
	if res.Kind != model.KindMulti {
		t.Errorf("Kind = %v, want multi", res.Kind)
	}
	if res.StartTime != "08:20" || res.EndTime != "09:10" {
		t.Errorf("times = %q-%q, want 08:20-09:10", res.StartTime, res.EndTime)
	}
	if res.Title != "Svenska" {
		t.Errorf("Title = %q, want Svenska", res.Title)
	}
	if len(res.Texts) != 1 || res.Texts[0] != "B2" {
		t.Errorf("Texts = %v, want [B2]", res.Texts)
	}
}

func TestResolve_FreeDay(t *testing.T) {
	sess := &fakeSession{table: Table{FreeDay: true}}

	r := NewResolver(nil)
	_, ok, err := r.Resolve(context.Background(), sess, model.LessonSlot{}, 11, "")
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if ok {
		t.Error("Resolve() reported detail for a free-day response")
	}
}

func TestResolve_SessionError(t *testing.T) {
	sess := &fakeSession{err: errors.New("connection reset")}

	r := NewResolver(nil)
	_, _, err := r.Resolve(context.Background(), sess, model.LessonSlot{}, 11, "")
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("Resolve() = %v, want ResolutionError", err)
	}
}

func TestResolve_EmptyTable(t *testing.T) {
	sess := &fakeSession{}

	r := NewResolver(nil)
	_, _, err := r.Resolve(context.Background(), sess, model.LessonSlot{}, 11, "")
	var resErr *ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("Resolve() = %v, want ResolutionError", err)
	}
}
