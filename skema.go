// Package skema reconstructs school timetables from rendered schedule
// documents. A schedule arrives as geometric primitives (colored fills and
// positioned text runs); the pipeline rebuilds the weekday/time grid from
// them, extracts lesson slots, attaches text fragments, optionally
// disambiguates ambiguous slots against the source's lesson detail pages,
// and resolves titles into course and participant references.
//
// The stages live in their own packages: grid (grid reconstruction), extract
// (slot extraction and text assignment), resolve (detail table
// classification), title (title and reference resolution), cache (artifact
// caching) and upstream (source contracts and reference clients).
package skema

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gradee/skema/cache"
	"github.com/gradee/skema/extract"
	"github.com/gradee/skema/grid"
	"github.com/gradee/skema/model"
	"github.com/gradee/skema/resolve"
	"github.com/gradee/skema/title"
	"github.com/gradee/skema/upstream"
)

// Service runs the reconstruction pipeline. The cache is required; the
// entity, course and staleness providers are optional and degrade the output
// (unreferenced titles, uncached freshness) rather than fail it.
type Service struct {
	Cache     *cache.Manager
	Entities  upstream.EntityProvider
	Courses   upstream.CourseProvider
	Staleness upstream.StalenessOracle

	Grid     *grid.Builder
	Extract  *extract.Extractor
	Resolver *resolve.Resolver

	Logger *slog.Logger
}

// NewService creates a service with default pipeline stages.
func NewService(c *cache.Manager, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		Cache:    c,
		Grid:     grid.NewBuilder(),
		Extract:  extract.NewExtractor(),
		Resolver: resolve.NewResolver(logger),
		Logger:   logger,
	}
}

// ResolveSchedule reconstructs one schedule week into resolved lessons,
// sorted by start time. When the source exposes a click session, ambiguous
// slots are disambiguated against their detail tables; slots whose
// resolution fails are reported from raw geometry alone.
func (s *Service) ResolveSchedule(ctx context.Context, src upstream.DocumentFetcher, ref model.ScheduleRef, week int) ([]model.ResolvedLesson, error) {
	doc, err := s.document(ctx, src, ref, week)
	if err != nil {
		return nil, err
	}

	g, residual, err := s.Grid.Build(doc)
	if err != nil {
		return nil, fmt.Errorf("schedule %s week %d: %w", ref.ID, week, err)
	}

	slots := s.Extract.Slots(g, residual.Shapes, week)
	slots = s.Extract.AssignTexts(g, slots, residual.Texts)

	entities := s.entities(ctx)
	courses := s.courses(ctx)
	resolutions := s.resolveSlots(ctx, src, ref, slots, week)

	lessons := make([]model.ResolvedLesson, 0, len(slots))
	for i, slot := range slots {
		lessons = append(lessons, s.buildLesson(slot, resolutions[i], entities, courses))
	}
	sort.Slice(lessons, func(i, j int) bool {
		if !lessons[i].Start.Equal(lessons[j].Start) {
			return lessons[i].Start.Before(lessons[j].Start)
		}
		return lessons[i].End.Before(lessons[j].End)
	})
	s.Logger.Info("resolved schedule", "schedule", ref.ID, "week", week, "lessons", len(lessons))
	return lessons, nil
}

// document loads the schedule's rendered artifact through the cache and
// decodes it.
func (s *Service) document(ctx context.Context, src upstream.DocumentFetcher, ref model.ScheduleRef, week int) (model.Document, error) {
	var lastUpdated time.Time
	if s.Staleness != nil {
		stamp, err := s.Staleness.LastUpdated(ctx)
		if err != nil {
			s.Logger.Warn("staleness check failed, serving cache as fresh", "error", err)
		} else {
			lastUpdated = stamp
		}
	}

	key := cache.Key{ScheduleID: ref.ID, Week: week}
	data, err := s.Cache.Artifact(ctx, key, lastUpdated, src.SupportsWeeks(), func(ctx context.Context) ([]byte, error) {
		return src.FetchDocument(ctx, ref, week)
	})
	if err != nil {
		return model.Document{}, fmt.Errorf("schedule %s week %d: %w", ref.ID, week, err)
	}
	return src.DecodeDocument(data)
}

func (s *Service) entities(ctx context.Context) []model.ScheduleEntity {
	if s.Entities == nil {
		return nil
	}
	entities, err := s.Entities.Entities(ctx)
	if err != nil {
		s.Logger.Warn("entity listing failed, titles will carry no references", "error", err)
		return nil
	}
	return entities
}

func (s *Service) courses(ctx context.Context) map[string]string {
	if s.Courses == nil {
		return nil
	}
	courses, err := s.Courses.Courses(ctx)
	if err != nil {
		s.Logger.Warn("course dictionary failed, codes will not resolve to names", "error", err)
		return nil
	}
	return courses
}

// resolveSlots disambiguates every slot through one click session, strictly
// sequentially: the session holds its selection server-side. The result
// slice is index-aligned with slots; a nil entry means the slot resolves
// from geometry alone.
func (s *Service) resolveSlots(ctx context.Context, src upstream.DocumentFetcher, ref model.ScheduleRef, slots []model.LessonSlot, week int) []*resolve.Resolution {
	resolutions := make([]*resolve.Resolution, len(slots))
	opener, ok := src.(upstream.SessionOpener)
	if !ok || len(slots) == 0 {
		return resolutions
	}

	sess, err := opener.OpenSession(ctx, ref, week)
	if err != nil {
		s.Logger.Warn("detail session failed, resolving from geometry alone", "schedule", ref.ID, "error", err)
		return resolutions
	}
	defer sess.Close()

	for i, slot := range slots {
		res, resolved, err := s.Resolver.Resolve(ctx, sess, slot, week, ref.Initials)
		if err != nil {
			s.Logger.Warn("slot resolution failed",
				"schedule", ref.ID, "week", week,
				"weekday", slot.Weekday, "start", slot.Start.Format("15:04"), "error", err)
			continue
		}
		if resolved {
			resolutions[i] = &res
		}
	}
	return resolutions
}

// buildLesson merges a slot and its optional resolution into the final
// lesson record.
func (s *Service) buildLesson(slot model.LessonSlot, res *resolve.Resolution, entities []model.ScheduleEntity, courses map[string]string) model.ResolvedLesson {
	raw := slot.Joined
	start, end := slot.Start, slot.End
	kind := model.KindSimple

	if res != nil {
		kind = res.Kind
		if res.Title != "" {
			raw = res.Title
		} else if len(res.Texts) > 0 {
			raw = strings.Join(res.Texts, " ")
		}
		if t, ok := clockOn(slot.Start, res.StartTime); ok {
			start = t
		}
		if t, ok := clockOn(slot.Start, res.EndTime); ok {
			end = t
		}
	}

	lesson := title.Parse(raw, entities, courses)
	lesson.Kind = kind
	lesson.Start = start
	lesson.End = end
	lesson.Color = slot.Color
	return lesson
}

// clockOn places an "HH:MM" clock string on day's date, keeping day's
// location.
func clockOn(day time.Time, clock string) (time.Time, bool) {
	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return time.Time{}, false
	}
	hour, err := strconv.Atoi(strings.TrimSpace(hh))
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, false
	}
	minute, err := strconv.Atoi(strings.TrimSpace(mm))
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), true
}
