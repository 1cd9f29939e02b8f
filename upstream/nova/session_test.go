package nova

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gradee/skema/model"
)

// fakeViewer emulates the stateful viewer: a landing page carrying the
// session token, dropdown postbacks, a map click answering with a redirect
// stub, and the lesson detail page behind it.
type fakeViewer struct {
	postbacks []string
	clicked   string
	clickedID string
	detail    string
	freeDay   bool
}

func (v *fakeViewer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/MZDesign1.aspx", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><input id="PrinterDialogUrl" value="/webviewer/(S(abc123))/printerdialog.aspx"/></body></html>`)
	})
	mux.HandleFunc("/webviewer/(S(abc123))/MZDesign1.aspx", func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		target := r.PostFormValue("__EVENTTARGET")
		if target != "NovaschemWebViewer2" {
			v.postbacks = append(v.postbacks, target)
			fmt.Fprint(w, "<html><body>ok</body></html>")
			return
		}
		v.clicked = r.PostFormValue("__EVENTARGUMENT")
		v.clickedID = r.PostFormValue("ScheduleIDDropDownList")
		if v.freeDay {
			fmt.Fprint(w, "free day")
			return
		}
		fmt.Fprint(w, `<html><head><title>Object moved</title></head><body><a href="/webviewer/(S(abc123))/ttdetail.aspx?id=7">here</a></body></html>`)
	})
	mux.HandleFunc("/webviewer/(S(abc123))/ttdetail.aspx", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, v.detail)
	})
	return mux
}

func openTestSession(t *testing.T, v *fakeViewer) (*httptest.Server, *Session) {
	t.Helper()
	srv := httptest.NewServer(v.handler())
	t.Cleanup(srv.Close)

	c := NewClient(Config{SchoolID: "89920", ViewerURL: srv.URL + "/MZDesign1.aspx"})
	ref := model.ScheduleRef{Type: model.TypeClass, ID: "AAAAAAAA-0000-0000-0000-000000000001"}
	sess, err := c.OpenSession(context.Background(), ref, 11)
	if err != nil {
		t.Fatalf("OpenSession() failed: %v", err)
	}
	return srv, sess.(*Session)
}

func TestOpenSession(t *testing.T) {
	v := &fakeViewer{}
	_, sess := openTestSession(t, v)
	defer sess.Close()

	if len(v.postbacks) != 2 {
		t.Fatalf("postbacks = %d, want 2", len(v.postbacks))
	}
	if v.postbacks[0] != "TypeDropDownList" || v.postbacks[1] != "ScheduleIDDropDownList" {
		t.Errorf("postback order = %v, want type then schedule id", v.postbacks)
	}
}

func TestOpenSession_BadID(t *testing.T) {
	c := NewClient(Config{SchoolID: "89920"})
	_, err := c.OpenSession(context.Background(), model.ScheduleRef{ID: "not-a-guid"}, 11)
	if err == nil {
		t.Error("OpenSession() accepted a malformed schedule id")
	}
}

func TestLessonTable(t *testing.T) {
	v := &fakeViewer{detail: `<html><body><table>
		<tr><td>08:20 - 09:10</td></tr>
		<tr><td>Matematik</td><td>A1</td></tr>
	</table></body></html>`}
	_, sess := openTestSession(t, v)
	defer sess.Close()

	table, err := sess.LessonTable(context.Background(), model.Point{X: 4, Y: 6.5}, 11)
	if err != nil {
		t.Fatalf("LessonTable() failed: %v", err)
	}
	if table.FreeDay {
		t.Fatal("FreeDay = true for a lesson hit")
	}
	if len(table.Rows) != 2 || table.Rows[1][0] != "Matematik" {
		t.Errorf("Rows = %v, want the detail table", table.Rows)
	}

	// Unit position 4/6.5 renders at pixel 64/104, minus the page padding.
	if v.clicked != "MapClick|36|76|536|784" {
		t.Errorf("click argument = %q, want MapClick|36|76|536|784", v.clicked)
	}
	if v.clickedID != "{AAAAAAAA-0000-0000-0000-000000000001}" {
		t.Errorf("click schedule id = %q, want the braced GUID", v.clickedID)
	}
}

func TestLessonTable_FreeDay(t *testing.T) {
	v := &fakeViewer{freeDay: true}
	_, sess := openTestSession(t, v)
	defer sess.Close()

	table, err := sess.LessonTable(context.Background(), model.Point{X: 4, Y: 6.5}, 11)
	if err != nil {
		t.Fatalf("LessonTable() failed: %v", err)
	}
	if !table.FreeDay {
		t.Error("FreeDay = false for an empty-space click")
	}
}

func TestLessonTable_NoTableInDetail(t *testing.T) {
	v := &fakeViewer{detail: "<html><body><p>nothing here</p></body></html>"}
	_, sess := openTestSession(t, v)
	defer sess.Close()

	if _, err := sess.LessonTable(context.Background(), model.Point{X: 4, Y: 6.5}, 11); err == nil {
		t.Error("LessonTable() accepted a detail page without a table")
	}
}
