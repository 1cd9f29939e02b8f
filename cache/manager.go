// Package cache persists per-schedule-per-week rendered artifacts and
// decides whether a re-fetch is required before an extraction run. Staleness
// is judged against the owning school's last-known upstream update timestamp,
// supplied by the caller.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"
)

// ErrUnavailable reports that no artifact can be served: nothing is cached
// and the source cannot fetch the requested week.
var ErrUnavailable = errors.New("cache: artifact unavailable for requested week")

const indexFile = "index.yaml"

// Key identifies one cached artifact.
type Key struct {
	ScheduleID string
	Week       int
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%d", k.ScheduleID, k.Week)
}

// Entry records one cached artifact. FileUpdatedAt never exceeds the current
// time; it is compared against the school's upstream update timestamp to
// decide staleness.
type Entry struct {
	ScheduleID    string    `yaml:"schedule_id"`
	Week          int       `yaml:"week"`
	Path          string    `yaml:"path"`
	FileUpdatedAt time.Time `yaml:"file_updated_at"`
	Checksum      string    `yaml:"checksum"`
}

// FetchFunc retrieves a fresh artifact from upstream.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Manager owns the artifact directory and its index. Reads, staleness checks
// and fetches for the same key are serialized: a per-key in-flight guard
// ensures two concurrent requests never trigger two fetches.
type Manager struct {
	dir    string
	logger *slog.Logger

	// Now supplies the clock; tests pin it. Defaults to time.Now.
	Now func() time.Time

	mu      sync.Mutex
	entries map[Key]Entry
	group   singleflight.Group
}

// NewManager opens (or creates) an artifact directory and loads its index.
func NewManager(dir string, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	m := &Manager{
		dir:     dir,
		logger:  logger,
		Now:     time.Now,
		entries: make(map[Key]Entry),
	}
	if err := m.loadIndex(); err != nil {
		return nil, err
	}
	return m, nil
}

// Entry returns the cache record for a key, if any.
func (m *Manager) Entry(key Key) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	return e, ok
}

// Artifact returns the artifact bytes for a key, fetching from upstream when
// nothing is cached or the cached file is strictly older than lastUpdated.
//
// When the source does not support per-week selection, only the current
// calendar week may be freshly fetched: other weeks fall back to whatever is
// cached, or fail with ErrUnavailable when nothing is. A failed refetch of a
// cached key also falls back to the cached copy.
func (m *Manager) Artifact(ctx context.Context, key Key, lastUpdated time.Time, supportsWeeks bool, fetch FetchFunc) ([]byte, error) {
	v, err, _ := m.group.Do(key.String(), func() (interface{}, error) {
		return m.artifact(ctx, key, lastUpdated, supportsWeeks, fetch)
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (m *Manager) artifact(ctx context.Context, key Key, lastUpdated time.Time, supportsWeeks bool, fetch FetchFunc) ([]byte, error) {
	entry, cached := m.Entry(key)

	_, currentWeek := m.Now().ISOWeek()
	canFetch := supportsWeeks || key.Week == currentWeek

	if cached {
		stale := entry.FileUpdatedAt.Before(lastUpdated)
		if !stale || !canFetch {
			return os.ReadFile(entry.Path)
		}
	} else if !canFetch {
		return nil, fmt.Errorf("%w: schedule %s week %d", ErrUnavailable, key.ScheduleID, key.Week)
	}

	data, err := fetch(ctx)
	if err != nil {
		// A failed refresh of a stale artifact still serves the old copy.
		if cached {
			m.logger.Warn("refetch failed, serving stale artifact",
				"schedule", key.ScheduleID, "week", key.Week, "error", err)
			return os.ReadFile(entry.Path)
		}
		return nil, err
	}
	if err := m.store(key, data); err != nil {
		return nil, err
	}
	return data, nil
}

// store writes the artifact file atomically and upserts the index record.
func (m *Manager) store(key Key, data []byte) error {
	path := filepath.Join(m.dir, fmt.Sprintf("%s-w%d.json", key.ScheduleID, key.Week))
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}

	sum := sha256.Sum256(data)
	m.mu.Lock()
	m.entries[key] = Entry{
		ScheduleID:    key.ScheduleID,
		Week:          key.Week,
		Path:          path,
		FileUpdatedAt: m.Now(),
		Checksum:      hex.EncodeToString(sum[:]),
	}
	err := m.persistIndexLocked()
	m.mu.Unlock()
	if err != nil {
		return err
	}

	m.logger.Debug("cached schedule artifact", "schedule", key.ScheduleID, "week", key.Week, "bytes", len(data))
	return nil
}

// loadIndex reads the yaml index, tolerating a missing file.
func (m *Manager) loadIndex() error {
	data, err := os.ReadFile(filepath.Join(m.dir, indexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading cache index: %w", err)
	}

	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parsing cache index: %w", err)
	}
	for _, e := range entries {
		m.entries[Key{ScheduleID: e.ScheduleID, Week: e.Week}] = e
	}
	return nil
}

// persistIndexLocked writes the yaml index. Callers hold m.mu.
func (m *Manager) persistIndexLocked() error {
	entries := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ScheduleID != entries[j].ScheduleID {
			return entries[i].ScheduleID < entries[j].ScheduleID
		}
		return entries[i].Week < entries[j].Week
	})
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding cache index: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(m.dir, indexFile), data); err != nil {
		return fmt.Errorf("writing cache index: %w", err)
	}
	return nil
}

// writeFileAtomic writes via a temp file and rename so readers never observe
// a partial artifact.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
