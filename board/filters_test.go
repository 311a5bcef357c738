// ABOUTME: Tests for the filter projection: categories, counts, and type/category filtering.
// ABOUTME: Verifies category filters hide stories and matching is case-insensitive.
package board

import (
	"testing"

	"github.com/2389-research/storyboard/core"
)

func filterFixture() []core.WorkItem {
	specID := core.NewULID()
	return []core.WorkItem{
		core.NewWorkItem(specID, core.TypeStory, "S1", "", "", 0),
		core.NewWorkItem(specID, core.TypeStory, "S2", "", "ignored", 1),
		core.NewWorkItem(specID, core.TypeTask, "T1", "", "api", 2),
		core.NewWorkItem(specID, core.TypeTask, "T2", "", "API", 3),
		core.NewWorkItem(specID, core.TypeTask, "T3", "", "DB", 4),
		core.NewWorkItem(specID, core.TypeTask, "T4", "", "", 5),
	}
}

func TestCategories(t *testing.T) {
	cats := Categories(filterFixture())
	want := []string{"API", "DB"}
	if len(cats) != len(want) {
		t.Fatalf("categories = %v, want %v", cats, want)
	}
	for i := range want {
		if cats[i] != want[i] {
			t.Errorf("categories[%d] = %s, want %s", i, cats[i], want[i])
		}
	}
}

func TestCountByType(t *testing.T) {
	c := CountByType(filterFixture())
	if c.Stories != 2 || c.Tasks != 4 {
		t.Errorf("counts = %+v, want 2 stories, 4 tasks", c)
	}
}

func TestFilter(t *testing.T) {
	items := filterFixture()

	tests := []struct {
		name     string
		typ, cat string
		want     int
	}{
		{"no filters", FilterAll, FilterAll, 6},
		{"stories only", "STORY", FilterAll, 2},
		{"tasks only", "TASK", FilterAll, 4},
		{"category hides stories", FilterAll, "API", 2},
		{"category case-insensitive", FilterAll, "db", 1},
		{"type and category", "TASK", "DB", 1},
		{"unknown category", FilterAll, "FRONTEND", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(items, tt.typ, tt.cat)
			if len(got) != tt.want {
				t.Errorf("Filter(%q, %q) returned %d items, want %d", tt.typ, tt.cat, len(got), tt.want)
			}
		})
	}
}
