package nova

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gradee/skema/model"
	"github.com/gradee/skema/resolve"
	"github.com/gradee/skema/upstream"
)

// Session is a stateful viewer session pinned to one schedule and week. The
// viewer keeps the selection server-side, so a session must not be shared
// between goroutines and calls must be made one at a time.
type Session struct {
	client *http.Client
	logger *slog.Logger

	// pageURL is the session-tokened viewer page every POST goes to.
	pageURL string

	// scheduleID is the braced schedule GUID; every click form repeats it.
	scheduleID string
}

// OpenSession boots a viewer session for one schedule: it fetches the
// landing page to obtain a session token, then replays the type and schedule
// dropdown postbacks so subsequent image clicks resolve against the right
// schedule.
func (c *Client) OpenSession(ctx context.Context, ref model.ScheduleRef, week int) (resolve.Session, error) {
	id, err := bracedID(ref.ID)
	if err != nil {
		return nil, fmt.Errorf("nova: schedule id: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	sess := &Session{
		client:     &http.Client{Timeout: c.http.Timeout, Jar: jar},
		logger:     c.logger.With("schedule", ref.ID, "week", week),
		scheduleID: id,
	}

	landing := c.viewerURL(nil)
	page, err := sess.get(ctx, landing)
	if err != nil {
		return nil, err
	}
	sess.pageURL, err = sessionPageURL(landing, page)
	if err != nil {
		return nil, err
	}

	// Replay the dropdown postbacks that pin the server-side selection.
	if err := sess.postBack(ctx, url.Values{
		"__EVENTTARGET":    {"TypeDropDownList"},
		"TypeDropDownList": {fmt.Sprintf("%d", ref.Type)},
		"WeekDropDownList": {fmt.Sprintf("%d", week)},
	}); err != nil {
		return nil, err
	}
	if err := sess.postBack(ctx, url.Values{
		"__EVENTTARGET":          {"ScheduleIDDropDownList"},
		"ScheduleIDDropDownList": {id},
		"WeekDropDownList":       {fmt.Sprintf("%d", week)},
	}); err != nil {
		return nil, err
	}
	return sess, nil
}

// sessionPageURL extracts the session token from the landing page's hidden
// PrinterDialogUrl input and rebases the landing URL onto it.
func sessionPageURL(landing string, page []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("nova: parse session page: %w", err)
	}
	dialog, ok := doc.Find("input#PrinterDialogUrl").Attr("value")
	if !ok {
		return "", fmt.Errorf("nova: session token input missing")
	}
	const prefix, suffix = "/webviewer/", "/printerdialog.aspx"
	start := strings.Index(dialog, prefix)
	end := strings.Index(strings.ToLower(dialog), suffix)
	if start < 0 || end <= start {
		return "", fmt.Errorf("nova: malformed printer dialog url %q", dialog)
	}
	token := dialog[start+len(prefix) : end]

	base, err := url.Parse(landing)
	if err != nil {
		return "", err
	}
	rebased := *base
	rebased.Path = "/webviewer/" + token + "/MZDesign1.aspx"
	return rebased.String(), nil
}

// LessonTable clicks the rendered schedule at the lesson's position and
// follows the redirect to the detail page, returning its parsed table. A
// click on empty space yields a free-day table.
func (s *Session) LessonTable(ctx context.Context, pos model.Point, week int) (resolve.Table, error) {
	x := int(math.Round(float64(pos.X.Pixels()))) - renderPadding
	y := int(math.Round(float64(pos.Y.Pixels()))) - renderPadding
	body, err := s.post(ctx, url.Values{
		"__EVENTTARGET":          {"NovaschemWebViewer2"},
		"__EVENTARGUMENT":        {fmt.Sprintf("MapClick|%d|%d|%d|%d", x, y, renderWidth, renderHeight)},
		"ScheduleIDDropDownList": {s.scheduleID},
		"WeekDropDownList":       {fmt.Sprintf("%d", week)},
	})
	if err != nil {
		return resolve.Table{}, err
	}

	// A hit answers with a bare redirect stub; anything else means the
	// click landed on empty space.
	if !strings.HasPrefix(strings.TrimSpace(string(body)), "<html>") {
		return resolve.Table{FreeDay: true}, nil
	}
	href, err := clickTarget(string(body))
	if err != nil {
		return resolve.Table{}, err
	}
	detail, err := s.get(ctx, s.rebase(href))
	if err != nil {
		return resolve.Table{}, err
	}
	fragment, err := tableFragment(string(detail))
	if err != nil {
		return resolve.Table{}, err
	}
	s.logger.Debug("fetched lesson table", "x", x, "y", y)
	return resolve.ParseTable(fragment)
}

// Close releases the session. The server expires its state on its own, so
// there is nothing to tear down.
func (s *Session) Close() error { return nil }

// clickTarget pulls the redirect href out of the click response stub.
func clickTarget(body string) (string, error) {
	const open, closed = `<a href="`, `">here</a>`
	start := strings.Index(body, open)
	end := strings.Index(body, closed)
	if start < 0 || end <= start {
		return "", fmt.Errorf("nova: click response carried no redirect")
	}
	href := body[start+len(open) : end]
	if decoded, err := url.QueryUnescape(href); err == nil {
		href = decoded
	}
	return href, nil
}

// rebase resolves a detail-page href against the session's host.
func (s *Session) rebase(href string) string {
	base, err := url.Parse(s.pageURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// tableFragment cuts the lesson table out of the detail page. The page
// sometimes omits the closing tag of the last row, which the HTML parser
// downstream repairs.
func tableFragment(page string) (string, error) {
	start := strings.Index(page, "<table")
	end := strings.Index(page, "</table>")
	if start < 0 || end <= start {
		return "", fmt.Errorf("%w: detail page carried no table", resolve.ErrNoTable)
	}
	return page[start : end+len("</table>")], nil
}

func (s *Session) postBack(ctx context.Context, form url.Values) error {
	_, err := s.post(ctx, form)
	return err
}

func (s *Session) post(ctx context.Context, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.pageURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

func (s *Session) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return s.do(req)
}

func (s *Session) do(req *http.Request) ([]byte, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", upstream.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from %s", upstream.ErrUnavailable, resp.StatusCode, req.URL)
	}
	return io.ReadAll(resp.Body)
}
