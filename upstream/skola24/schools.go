package skola24

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/gradee/skema/upstream"
)

// DefaultDirectoryURL lists every tenant's schools, embedded as a JS data
// assignment inside the page rather than served as plain JSON.
const DefaultDirectoryURL = "https://www.skola24.se/anvandare/skolor/"

// School is one importable school directory entry.
type School struct {
	Name string `json:"name" yaml:"name"`
	Slug string `json:"slug" yaml:"slug"`
	UUID string `json:"uuid" yaml:"uuid"`
	Host string `json:"host" yaml:"host"`
}

// directoryPayload mirrors the embedded data object: tenant hostnames mapped
// to their school lists.
type directoryPayload map[string][]struct {
	Name string `json:"name"`
	UUID string `json:"guid"`
}

// ImportSchools downloads the public school directory and returns every
// school with a slug derived from its name, sorted by host then slug.
func ImportSchools(ctx context.Context, client *http.Client, pageURL string) ([]School, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if pageURL == "" {
		pageURL = DefaultDirectoryURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", upstream.ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from school directory", upstream.ErrUnavailable, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return ParseDirectory(body)
}

// ParseDirectory extracts the embedded data object from the directory page
// and flattens it into a school list.
func ParseDirectory(page []byte) ([]School, error) {
	raw, err := directoryJSON(string(page))
	if err != nil {
		return nil, err
	}
	var payload directoryPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("skola24: parse school directory: %w", err)
	}

	var schools []School
	for host, entries := range payload {
		for _, entry := range entries {
			schools = append(schools, School{
				Name: entry.Name,
				Slug: Slugify(entry.Name),
				UUID: entry.UUID,
				Host: host,
			})
		}
	}
	sort.Slice(schools, func(i, j int) bool {
		if schools[i].Host != schools[j].Host {
			return schools[i].Host < schools[j].Host
		}
		return schools[i].Slug < schools[j].Slug
	})
	return schools, nil
}

// directoryJSON cuts the JSON object out of the page's data assignment,
// which ends at the closing script tag.
func directoryJSON(page string) (string, error) {
	const marker = "'].data = {"
	start := strings.Index(page, marker)
	if start < 0 {
		return "", fmt.Errorf("skola24: school directory data not found")
	}
	// Back up to include the opening brace.
	start += len(marker) - 1
	rest := page[start:]
	end := strings.Index(rest, "</script>")
	if end < 0 {
		return "", fmt.Errorf("skola24: school directory data unterminated")
	}
	raw := strings.TrimSpace(rest[:end])
	raw = strings.TrimSuffix(raw, ";")
	return raw, nil
}

// latinize strips combining marks after canonical decomposition, so "Ö"
// becomes "O" and "é" becomes "e".
var latinize = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives a URL-safe identifier from a school name.
func Slugify(name string) string {
	flat, _, err := transform.String(latinize, name)
	if err != nil {
		flat = name
	}
	flat = strings.ToLower(flat)

	var b strings.Builder
	lastDash := true
	for _, r := range flat {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
