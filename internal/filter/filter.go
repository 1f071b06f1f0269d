// Package filter provides pure filter functions for catalog items.
// All functions are simple: []Item in, []Item out. No side effects, and the
// input slice is never reordered in place.
package filter

import (
	"slices"
	"strings"

	"github.com/abelbrown/releasebase/internal/catalog"
)

// Query is the facet and search state applied to the image collection.
type Query struct {
	Person *catalog.PersonFacet
	Text   string
}

// Active reports whether the query narrows anything.
func (q Query) Active() bool {
	return q.Person != nil || strings.TrimSpace(q.Text) != ""
}

// Images returns the visible, ordered image subset for q.
//
// Precedence: a selected person wins over the search text; an empty or
// whitespace-only text shows everything. The result is then partitioned
// people-first.
func Images(items []catalog.Item, q Query) []catalog.Item {
	visible := Renderable(items)

	switch {
	case q.Person != nil:
		visible = ByPerson(visible, q.Person.Name)
	case strings.TrimSpace(q.Text) != "":
		visible = ByText(visible, q.Text)
	}

	return PeopleFirst(visible)
}

// Renderable drops images that have no media reference at all.
func Renderable(items []catalog.Item) []catalog.Item {
	if len(items) == 0 {
		return []catalog.Item{}
	}

	result := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		if item.Renderable() {
			result = append(result, item)
		}
	}
	return result
}

// ByPerson keeps items whose combined people set contains name, compared
// case-insensitively.
func ByPerson(items []catalog.Item, name string) []catalog.Item {
	if len(items) == 0 {
		return []catalog.Item{}
	}

	result := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		if slices.ContainsFunc(item.AllPeople(), func(p string) bool {
			return strings.EqualFold(p, name)
		}) {
			result = append(result, item)
		}
	}
	return result
}

// ByText keeps items where the trimmed text is a case-insensitive substring
// of the title, description, context or any associated person.
// A blank text keeps everything.
func ByText(items []catalog.Item, text string) []catalog.Item {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return slices.Clone(items)
	}
	if len(items) == 0 {
		return []catalog.Item{}
	}

	result := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		if matchesText(item, needle) {
			result = append(result, item)
		}
	}
	return result
}

func matchesText(item catalog.Item, needle string) bool {
	for _, field := range []string{item.Title, item.Description, item.Context} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	for _, p := range item.AllPeople() {
		if strings.Contains(strings.ToLower(p), needle) {
			return true
		}
	}
	return false
}

// PeopleFirst is a stable partition: items with at least one person come
// before items with none, relative order preserved on both sides.
func PeopleFirst(items []catalog.Item) []catalog.Item {
	result := slices.Clone(items)
	if result == nil {
		return []catalog.Item{}
	}
	slices.SortStableFunc(result, func(a, b catalog.Item) int {
		switch {
		case a.HasPeople() == b.HasPeople():
			return 0
		case a.HasPeople():
			return -1
		default:
			return 1
		}
	})
	return result
}

// BySource keeps only items from the specified source names.
func BySource(items []catalog.Item, sources []string) []catalog.Item {
	if len(items) == 0 || len(sources) == 0 {
		return []catalog.Item{}
	}

	// Build a set of allowed sources for O(1) lookup
	allowed := make(map[string]bool, len(sources))
	for _, s := range sources {
		allowed[strings.ToLower(s)] = true
	}

	result := make([]catalog.Item, 0, len(items))
	for _, item := range items {
		if allowed[strings.ToLower(item.Source)] {
			result = append(result, item)
		}
	}
	return result
}

// Limit caps items at n. n <= 0 means no cap.
func Limit(items []catalog.Item, n int) []catalog.Item {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}
