package skolverket

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gradee/skema/upstream"
)

func TestCourses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"code": "MATMAT02b", "name": "Matematik 2b"},
			{"code": "FYSFYS01a", "name": "Fysik 1a"},
			{"code": "", "name": "nameless"},
			{"code": "codeless", "name": ""}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	courses, err := c.Courses(context.Background())
	if err != nil {
		t.Fatalf("Courses() failed: %v", err)
	}
	if len(courses) != 2 {
		t.Fatalf("courses = %d, want 2 (incomplete entries dropped)", len(courses))
	}
	if courses["MATMAT02b"] != "Matematik 2b" {
		t.Errorf("MATMAT02b = %q, want 'Matematik 2b'", courses["MATMAT02b"])
	}
}

func TestCourses_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	_, err := c.Courses(context.Background())
	if !errors.Is(err, upstream.ErrUnavailable) {
		t.Errorf("Courses() = %v, want ErrUnavailable", err)
	}
}

func TestCourses_MalformedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	if _, err := c.Courses(context.Background()); err == nil {
		t.Error("Courses() accepted a malformed payload")
	}
}
