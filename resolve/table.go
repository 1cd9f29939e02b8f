package resolve

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/net/html"

	"github.com/gradee/skema/model"
)

// ErrNoTable reports that a click response contained no detail table.
var ErrNoTable = errors.New("resolve: no table in click response")

// Table is the detail table returned for one slot position. FreeDay marks
// the upstream "no lesson here" sentinel; Rows are the table's rows in
// document order, each a list of cell texts.
type Table struct {
	FreeDay bool
	Rows    [][]string
}

// Session is a live upstream browsing session capable of simulating a map
// click at a slot position. Sessions are stateful and must not be shared
// across concurrent resolutions; Close releases the session's resources.
type Session interface {
	LessonTable(ctx context.Context, pos model.Point, week int) (Table, error)
	Close() error
}

// ParseTable extracts the first <table> from an HTML fragment into rows of
// cell texts. The tolerant parser also repairs the upstream's occasionally
// unclosed row tags.
func ParseTable(fragment string) (Table, error) {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return Table{}, err
	}

	table := findElement(doc, "table")
	if table == nil {
		return Table{}, ErrNoTable
	}

	var rows [][]string
	walkElements(table, "tr", func(tr *html.Node) {
		var cells []string
		walkElements(tr, "td", func(td *html.Node) {
			cells = append(cells, textContent(td))
		})
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	})
	return Table{Rows: rows}, nil
}

// findElement returns the first element with the given tag in depth-first
// order, or nil.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// walkElements calls fn for every descendant element with the given tag.
func walkElements(n *html.Node, tag string, fn func(*html.Node)) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			fn(c)
			continue
		}
		walkElements(c, tag, fn)
	}
}

// textContent collects the concatenated text of a node's subtree.
func textContent(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
