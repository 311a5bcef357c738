// ABOUTME: Filter projection: derives category/type filters and counts from an item list.
// ABOUTME: Mirrors the board's filter bar semantics, including category filters hiding stories.
package board

import (
	"sort"
	"strings"

	"github.com/2389-research/storyboard/core"
)

// FilterAll is the sentinel meaning "no filter" for both type and category.
const FilterAll = "ALL"

// Categories returns the unique upper-cased categories across TASK items,
// sorted. STORY categories are ignored; the field is only meaningful on tasks.
func Categories(items []core.WorkItem) []string {
	seen := make(map[string]bool)
	for _, it := range items {
		if it.Type == core.TypeTask && it.Category != "" {
			seen[strings.ToUpper(it.Category)] = true
		}
	}
	cats := make([]string, 0, len(seen))
	for c := range seen {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	return cats
}

// Counts holds the story/task totals shown on the filter badges.
type Counts struct {
	Stories int
	Tasks   int
}

// CountByType tallies stories and tasks in the item list.
func CountByType(items []core.WorkItem) Counts {
	var c Counts
	for _, it := range items {
		switch it.Type {
		case core.TypeStory:
			c.Stories++
		case core.TypeTask:
			c.Tasks++
		}
	}
	return c
}

// Filter applies the type and category filters to an item list. A specific
// category hides stories entirely: category filtering is a task-level view.
func Filter(items []core.WorkItem, typeFilter, categoryFilter string) []core.WorkItem {
	out := make([]core.WorkItem, 0, len(items))
	for _, it := range items {
		if typeFilter != FilterAll && string(it.Type) != typeFilter {
			continue
		}
		if categoryFilter != FilterAll {
			if it.Type == core.TypeStory {
				continue
			}
			if !strings.EqualFold(it.Category, categoryFilter) {
				continue
			}
		}
		out = append(out, it)
	}
	return out
}
