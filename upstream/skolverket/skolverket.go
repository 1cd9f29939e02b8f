// Package skolverket provides the national course code dictionary used to
// resolve course codes found in lesson titles to their display names.
package skolverket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gradee/skema/upstream"
)

// DefaultDictionaryURL serves the course code dictionary as a JSON array.
const DefaultDictionaryURL = "https://api.skolverket.se/syllabus/v1/courses"

// Client downloads the course dictionary. It implements
// upstream.CourseProvider.
type Client struct {
	url    string
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a dictionary client. An empty url selects the default
// endpoint.
func NewClient(url string, logger *slog.Logger) *Client {
	if url == "" {
		url = DefaultDictionaryURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		url:    url,
		http:   &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// Courses fetches the dictionary and returns course names keyed by code.
func (c *Client) Courses(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", upstream.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from course dictionary", upstream.ErrUnavailable, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var entries []struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("skolverket: decode course dictionary: %w", err)
	}
	courses := make(map[string]string, len(entries))
	for _, entry := range entries {
		if entry.Code == "" || entry.Name == "" {
			continue
		}
		courses[entry.Code] = entry.Name
	}
	c.logger.Debug("loaded course dictionary", "count", len(courses))
	return courses, nil
}
