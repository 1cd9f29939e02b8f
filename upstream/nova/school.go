package nova

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/gradee/skema/model"
)

// Placeholder options the viewer puts first in every dropdown.
const (
	placeholderType = "(Välj typ)"
	placeholderID   = "(Välj ID)"
)

// TypeList is one schedule type as the viewer presents it, with the entities
// listed under it when the page carried them.
type TypeList struct {
	Key      model.TypeKey
	Name     string
	Entities []model.ScheduleEntity
}

// BaseData is everything parsed from the viewer's landing page. Complete
// reports whether the page listed entities inline; when false, each type's
// entities must be fetched from its own page.
type BaseData struct {
	Types    []TypeList
	Weeks    []int
	Complete bool
}

// ParseBaseData reads the viewer landing page. Some installations render a
// single type dropdown, others render one multi-select per type inside
// table#table1 and carry every entity inline.
func ParseBaseData(page []byte) (BaseData, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return BaseData{}, fmt.Errorf("nova: parse base data: %w", err)
	}

	var base BaseData
	if sel := doc.Find("select#TypeDropDownList"); sel.Length() > 0 {
		sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
			name := cleanSpaces(opt.Text())
			if name == "" || name == placeholderType {
				return
			}
			value, _ := opt.Attr("value")
			key, err := strconv.Atoi(value)
			if err != nil {
				return
			}
			base.Types = append(base.Types, TypeList{Key: model.TypeKey(key), Name: name})
		})
	} else {
		base.Complete = true
		doc.Find("table#table1 select").Each(func(_ int, sel *goquery.Selection) {
			opts := sel.Find("option")
			if opts.Length() == 0 {
				return
			}
			// The first option names the type and carries its key.
			first := opts.First()
			value, _ := first.Attr("value")
			key, err := strconv.Atoi(value)
			if err != nil {
				return
			}
			list := TypeList{Key: model.TypeKey(key), Name: cleanSpaces(first.Text())}
			opts.Slice(1, opts.Length()).Each(func(_ int, opt *goquery.Selection) {
				id, _ := opt.Attr("value")
				if entity, ok := parseEntityOption(id, opt.Text(), list.Key); ok {
					list.Entities = append(list.Entities, entity)
				}
			})
			base.Types = append(base.Types, list)
		})
	}

	doc.Find("select#WeekDropDownList option").Each(func(_ int, opt *goquery.Selection) {
		value, _ := opt.Attr("value")
		week, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return
		}
		base.Weeks = append(base.Weeks, week)
	})

	if len(base.Types) == 0 {
		return BaseData{}, fmt.Errorf("nova: parse base data: no schedule types found")
	}
	return base, nil
}

// parseEntityOption turns one dropdown option into an entity. Teacher options
// carry initials in a trailing parenthesis; student options prefix the class
// name separated by a double space and list the name surname-first.
func parseEntityOption(id, text string, key model.TypeKey) (model.ScheduleEntity, bool) {
	name := cleanSpacesKeepDouble(text)
	if name == "" || name == placeholderID {
		return model.ScheduleEntity{}, false
	}

	entity := model.ScheduleEntity{ID: strings.Trim(id, "{}"), Type: key}
	switch key {
	case model.TypeTeacher:
		if open := strings.LastIndex(name, "("); open >= 0 && strings.HasSuffix(name, ")") {
			entity.Initials = strings.TrimSpace(name[open+1 : len(name)-1])
			name = strings.TrimSpace(name[:open])
		}
		if name == "" {
			name = entity.Initials
		}
		entity.Name = cleanSpaces(name)
	case model.TypeStudent:
		if class, rest, ok := strings.Cut(name, "  "); ok {
			entity.ClassName = strings.TrimSpace(class)
			name = strings.TrimSpace(rest)
		}
		if last, first, ok := strings.Cut(name, ","); ok {
			name = strings.TrimSpace(first) + " " + strings.TrimSpace(last)
		}
		entity.Name = cleanSpaces(entity.ClassName + " " + name)
	default:
		entity.Name = cleanSpaces(name)
	}
	return entity, true
}

// Entities lists every schedule entity of the school, across all types.
// Installations whose landing page only has a type dropdown require one
// follow-up request per type.
func (c *Client) Entities(ctx context.Context) ([]model.ScheduleEntity, error) {
	page, err := c.get(ctx, c.viewerURL(nil))
	if err != nil {
		return nil, err
	}
	base, err := ParseBaseData(page)
	if err != nil {
		return nil, err
	}

	var entities []model.ScheduleEntity
	for _, list := range base.Types {
		if base.Complete {
			entities = append(entities, list.Entities...)
			continue
		}
		key := list.Key
		typed, err := c.get(ctx, c.viewerURL(&key))
		if err != nil {
			return nil, err
		}
		parsed, err := parseTypeEntities(typed, key)
		if err != nil {
			return nil, err
		}
		entities = append(entities, parsed...)
	}
	c.logger.Debug("listed schedule entities", "count", len(entities))
	return entities, nil
}

// Weeks lists the weeks the viewer offers for rendering.
func (c *Client) Weeks(ctx context.Context) ([]int, error) {
	page, err := c.get(ctx, c.viewerURL(nil))
	if err != nil {
		return nil, err
	}
	base, err := ParseBaseData(page)
	if err != nil {
		return nil, err
	}
	return base.Weeks, nil
}

// parseTypeEntities reads the schedule id dropdown of a type-pinned viewer
// page.
func parseTypeEntities(page []byte, key model.TypeKey) ([]model.ScheduleEntity, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("nova: parse entities: %w", err)
	}
	var entities []model.ScheduleEntity
	doc.Find("select#ScheduleIDDropDownList option").Each(func(_ int, opt *goquery.Selection) {
		id, _ := opt.Attr("value")
		if entity, ok := parseEntityOption(id, opt.Text(), key); ok {
			entities = append(entities, entity)
		}
	})
	return entities, nil
}

var brSplit = regexp.MustCompile(`<br\s*/?>`)

// LastUpdated reads the viewer's counter label, whose first line ends with
// the schedule data's update timestamp.
func (c *Client) LastUpdated(ctx context.Context) (time.Time, error) {
	page, err := c.get(ctx, c.viewerURL(nil))
	if err != nil {
		return time.Time{}, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return time.Time{}, fmt.Errorf("nova: parse counter label: %w", err)
	}
	label, err := doc.Find("span#CounterLabel").Html()
	if err != nil || label == "" {
		return time.Time{}, fmt.Errorf("nova: counter label missing")
	}

	line := strings.TrimSpace(brSplit.Split(label, -1)[0])
	const stampLen = len("2006-01-02 15:04:05")
	if len(line) < stampLen {
		return time.Time{}, fmt.Errorf("nova: counter label %q too short", line)
	}
	loc, err := time.LoadLocation("Europe/Stockholm")
	if err != nil {
		loc = time.UTC
	}
	stamp, err := time.ParseInLocation("2006-01-02 15:04:05", line[len(line)-stampLen:], loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("nova: counter label %q: %w", line, err)
	}
	return stamp, nil
}

func cleanSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cleanSpacesKeepDouble trims the ends and collapses runs of three or more
// spaces to two, preserving the double space that separates a student's
// class from their name.
func cleanSpacesKeepDouble(s string) string {
	s = strings.TrimSpace(s)
	for strings.Contains(s, "   ") {
		s = strings.ReplaceAll(s, "   ", "  ")
	}
	return s
}
