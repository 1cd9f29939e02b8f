// Package upstream defines the collaborator contracts the extraction core
// depends on: document fetching, click-session opening, and the entity,
// course and staleness providers. Reference implementations live in the
// subpackages nova (PDF-primitive source), skola24 (JSON box source) and
// skolverket (course dictionary).
package upstream

import (
	"context"
	"errors"
	"time"

	"github.com/gradee/skema/model"
	"github.com/gradee/skema/resolve"
)

// ErrUnavailable reports a network failure or non-200 response from an
// upstream system. It is retryable, but retry policy is a caller concern:
// the core never retries.
var ErrUnavailable = errors.New("upstream: unavailable")

// DocumentFetcher retrieves and decodes one schedule's rendered document.
// FetchDocument returns the raw artifact bytes (cacheable as-is);
// DecodeDocument turns them into geometric primitives. SupportsWeeks reports
// whether the source can render arbitrary weeks or only the current one.
type DocumentFetcher interface {
	FetchDocument(ctx context.Context, ref model.ScheduleRef, week int) ([]byte, error)
	DecodeDocument(data []byte) (model.Document, error)
	SupportsWeeks() bool
}

// SessionOpener is implemented by sources that expose lesson detail behind a
// stateful click session (the PDF source). The returned session must be used
// sequentially and closed by the caller.
type SessionOpener interface {
	OpenSession(ctx context.Context, ref model.ScheduleRef, week int) (resolve.Session, error)
}

// EntityProvider supplies the known participants of a schedule's owning
// school, used as the title parser's disambiguation dictionary.
type EntityProvider interface {
	Entities(ctx context.Context) ([]model.ScheduleEntity, error)
}

// CourseProvider supplies the course code to course name mapping. Refreshed
// independently of any single extraction.
type CourseProvider interface {
	Courses(ctx context.Context) (map[string]string, error)
}

// StalenessOracle reports the school's last-known upstream update timestamp.
type StalenessOracle interface {
	LastUpdated(ctx context.Context) (time.Time, error)
}
