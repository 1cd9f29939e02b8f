// Package nova implements the collaborator contracts against the legacy
// ASP.NET schedule viewer: the PDF-primitive document source, the option-list
// entity provider, the update-timestamp staleness oracle, and the stateful
// click session used for lesson detail lookup.
package nova

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gradee/skema/model"
	"github.com/gradee/skema/upstream"
)

// Default endpoints of the upstream installation.
const (
	DefaultViewerURL    = "http://www.novasoftware.se/webviewer/(S(cuybov55kqxjfn45yuspxieg))/MZDesign1.aspx"
	DefaultGeneratorURL = "http://www.novasoftware.se/ImgGen/schedulegenerator.aspx"
)

// Render geometry of the clickable schedule image.
const (
	renderWidth  = 536
	renderHeight = 784

	// renderPadding is the pixel padding around the rendered page; click
	// coordinates are relative to the padded image.
	renderPadding = 28
)

// Converter turns the generator's PDF response into the primitive JSON
// document DecodeDocument reads. The conversion runs outside this package;
// implementations wrap whatever pdf-to-primitive tool is installed.
type Converter interface {
	Convert(ctx context.Context, pdf []byte) ([]byte, error)
}

// Config holds the school credentials and endpoints for one client.
type Config struct {
	// SchoolID and AccessCode identify the school's installation.
	SchoolID   string
	AccessCode string

	// ViewerURL and GeneratorURL override the default endpoints, for tests
	// and mirrored installations.
	ViewerURL    string
	GeneratorURL string

	// Converter extracts primitives from the generator's PDF. Required for
	// FetchDocument; the other client operations work without it.
	Converter Converter

	// Timeout bounds every upstream call. Defaults to 30 seconds.
	Timeout time.Duration

	Logger *slog.Logger
}

// Client talks to one school's viewer installation. It implements
// upstream.DocumentFetcher, upstream.SessionOpener, upstream.EntityProvider
// and upstream.StalenessOracle. Clients are safe for concurrent use; click
// sessions opened from a client are not.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a client for one school.
func NewClient(cfg Config) *Client {
	if cfg.ViewerURL == "" {
		cfg.ViewerURL = DefaultViewerURL
	}
	if cfg.GeneratorURL == "" {
		cfg.GeneratorURL = DefaultGeneratorURL
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
		logger: logger.With("school", cfg.SchoolID),
	}
}

// SupportsWeeks reports that the generator renders arbitrary weeks.
func (c *Client) SupportsWeeks() bool { return true }

// FetchDocument downloads the PDF rendering of one schedule week and runs
// the configured converter over it, returning the primitive JSON document.
func (c *Client) FetchDocument(ctx context.Context, ref model.ScheduleRef, week int) ([]byte, error) {
	if c.cfg.Converter == nil {
		return nil, fmt.Errorf("nova: no pdf converter configured")
	}
	id, err := bracedID(ref.ID)
	if err != nil {
		return nil, fmt.Errorf("nova: schedule id: %w", err)
	}

	u := c.generatorURL(ref.Type, id, week)
	pdf, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	body, err := c.cfg.Converter.Convert(ctx, pdf)
	if err != nil {
		return nil, fmt.Errorf("nova: convert schedule pdf: %w", err)
	}
	c.logger.Debug("fetched schedule document", "schedule", ref.ID, "week", week, "pdfBytes", len(pdf), "bytes", len(body))
	return body, nil
}

// generatorURL builds the schedule generator URL for one schedule week,
// matching the legacy renderer's fixed page geometry.
func (c *Client) generatorURL(typeKey model.TypeKey, bracedID string, week int) string {
	q := url.Values{}
	q.Set("format", "pdf")
	q.Set("schoolid", c.cfg.SchoolID)
	q.Set("type", fmt.Sprintf("%d", typeKey))
	q.Set("id", bracedID)
	q.Set("week", fmt.Sprintf("%d", week))
	q.Set("period", "")
	q.Set("mode", "0")
	q.Set("colors", "32")
	q.Set("width", "2480")
	q.Set("height", "3500")
	q.Set("printer", "1")
	return c.cfg.GeneratorURL + "?" + q.Encode()
}

// viewerURL builds the viewer page URL, optionally pinned to one schedule
// type.
func (c *Client) viewerURL(typeKey *model.TypeKey) string {
	u := c.cfg.ViewerURL + "?schoolId=" + url.QueryEscape(c.cfg.SchoolID) + "&code=" + url.QueryEscape(c.cfg.AccessCode)
	if typeKey != nil {
		u += fmt.Sprintf("&type=%d", *typeKey)
	}
	return u
}

// get performs a GET with the client's timeout, mapping network failures and
// non-200 responses to upstream.ErrUnavailable.
func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", upstream.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from %s", upstream.ErrUnavailable, resp.StatusCode, u)
	}
	return io.ReadAll(resp.Body)
}

// bracedID normalizes a schedule GUID to the braced upper-case form the
// upstream form fields expect.
func bracedID(id string) (string, error) {
	u, err := uuid.Parse(strings.Trim(id, "{}"))
	if err != nil {
		return "", err
	}
	return "{" + strings.ToUpper(u.String()) + "}", nil
}
