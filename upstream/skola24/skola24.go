// Package skola24 implements the document source for the successor platform.
// Its renderer measures boxes and texts in pixels rather than PDF units and
// only serves the current week, so the adapter normalizes geometry on decode
// and reports no week support.
package skola24

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gradee/skema/model"
	"github.com/gradee/skema/upstream"
)

// DefaultRenderURL is the platform's schedule render endpoint.
const DefaultRenderURL = "https://web.skola24.se/api/render/timetable"

// Render geometry, matching the legacy page so the same grid constants apply.
const (
	renderWidth  = 2480
	renderHeight = 3500
)

// Config holds the host and school identity for one client.
type Config struct {
	// Host is the school's tenant hostname, e.g. "goteborg.skola24.se".
	Host string

	// SchoolUUID identifies the school within the tenant.
	SchoolUUID string

	// RenderURL overrides the default render endpoint, for tests.
	RenderURL string

	Timeout time.Duration

	Logger *slog.Logger
}

// Client talks to one school on the platform. It implements
// upstream.DocumentFetcher.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a client for one school.
func NewClient(cfg Config) *Client {
	if cfg.RenderURL == "" {
		cfg.RenderURL = DefaultRenderURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger.With("host", cfg.Host),
	}
}

// SupportsWeeks reports that the renderer only serves the current week.
func (c *Client) SupportsWeeks() bool { return false }

// FetchDocument downloads the rendered schedule of one entity. The week
// argument is accepted for interface symmetry but the renderer ignores it.
func (c *Client) FetchDocument(ctx context.Context, ref model.ScheduleRef, week int) ([]byte, error) {
	q := url.Values{}
	q.Set("host", c.cfg.Host)
	q.Set("school", c.cfg.SchoolUUID)
	q.Set("id", ref.ID)
	q.Set("type", fmt.Sprintf("%d", ref.Type))
	q.Set("week", fmt.Sprintf("%d", week))
	q.Set("width", fmt.Sprintf("%d", renderWidth))
	q.Set("height", fmt.Sprintf("%d", renderHeight))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.RenderURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", upstream.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from render endpoint", upstream.ErrUnavailable, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("fetched schedule render", "schedule", ref.ID, "bytes", len(body))
	return body, nil
}

// renderPayload mirrors the renderer's JSON: boxes and texts measured in
// pixels, with RGB hex colors instead of palette indexes.
type renderPayload struct {
	Boxes []struct {
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Width  float64 `json:"width"`
		Height float64 `json:"height"`
		BColor string  `json:"bcolor"`
	} `json:"boxList"`
	Texts []struct {
		X     float64 `json:"x"`
		Y     float64 `json:"y"`
		Width float64 `json:"width"`
		Text  string  `json:"text"`
	} `json:"textList"`
}

// DecodeDocument parses a render payload, converting pixel geometry to the
// unit space the grid constants are calibrated for.
func (c *Client) DecodeDocument(data []byte) (model.Document, error) {
	var payload renderPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return model.Document{}, fmt.Errorf("skola24: decode render: %w", err)
	}

	doc := model.Document{
		Shapes: make([]model.Shape, 0, len(payload.Boxes)),
		Texts:  make([]model.TextRun, 0, len(payload.Texts)),
	}
	for i, b := range payload.Boxes {
		doc.Shapes = append(doc.Shapes, model.Shape{
			X:             model.Pixels(b.X).Units(),
			Y:             model.Pixels(b.Y).Units(),
			W:             model.Pixels(b.Width).Units(),
			H:             model.Pixels(b.Height).Units(),
			ColorIndex:    -1,
			OverrideColor: b.BColor,
			Order:         i,
		})
	}
	for _, t := range payload.Texts {
		doc.Texts = append(doc.Texts, model.TextRun{
			X:    model.Pixels(t.X).Units(),
			Y:    model.Pixels(t.Y).Units(),
			W:    model.Pixels(t.Width).Units(),
			Text: t.Text,
		})
	}
	return doc, nil
}
