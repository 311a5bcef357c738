// ABOUTME: Tests for the SQLite work item store.
// ABOUTME: Covers atomic spec creation, dense reordering on move, partial updates, and not-found paths.
package store_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/oklog/ulid/v2"

	"github.com/2389-research/storyboard/core"
	"github.com/2389-research/storyboard/store"
)

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "storyboard.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func makeBrief() core.Brief {
	return core.Brief{Title: "X", Goal: "G", Users: "U", Constraints: "C"}
}

// seedSpec creates a spec with the given number of stories and tasks,
// ordered the way the generation pipeline orders them.
func seedSpec(t *testing.T, st *store.Store, stories, tasks int) (core.Spec, []core.WorkItem) {
	t.Helper()
	spec := core.NewSpec(makeBrief())
	var items []core.WorkItem
	for i := 0; i < stories; i++ {
		items = append(items, core.NewWorkItem(spec.ID, core.TypeStory, "S", "d", "", i))
	}
	for i := 0; i < tasks; i++ {
		items = append(items, core.NewWorkItem(spec.ID, core.TypeTask, "T", "d", "API", stories+i))
	}
	if err := st.CreateSpecWithItems(spec, items); err != nil {
		t.Fatalf("CreateSpecWithItems: %v", err)
	}
	return spec, items
}

// assertDenseColumns checks that every (spec, status) partition has orders
// forming exactly 0..n-1.
func assertDenseColumns(t *testing.T, st *store.Store, specID ulid.ULID) {
	t.Helper()
	items, err := st.ListWorkItems(specID)
	if err != nil {
		t.Fatalf("ListWorkItems: %v", err)
	}
	byStatus := make(map[core.Status][]int)
	for _, it := range items {
		byStatus[it.Status] = append(byStatus[it.Status], it.Order)
	}
	for status, orders := range byStatus {
		seen := make(map[int]bool)
		for _, o := range orders {
			if o < 0 || o >= len(orders) {
				t.Errorf("status %s: order %d out of range [0,%d)", status, o, len(orders))
			}
			if seen[o] {
				t.Errorf("status %s: duplicate order %d", status, o)
			}
			seen[o] = true
		}
	}
}

func TestCreateSpecWithItemsAtomic(t *testing.T) {
	st := openStore(t)
	spec, items := seedSpec(t, st, 2, 3)

	got, err := st.GetSpec(spec.ID)
	if err != nil {
		t.Fatalf("GetSpec: %v", err)
	}
	if got.Title != "X" || got.Risks != "" {
		t.Errorf("spec round-trip mismatch: %+v", got)
	}

	listed, err := st.ListWorkItems(spec.ID)
	if err != nil {
		t.Fatalf("ListWorkItems: %v", err)
	}
	if len(listed) != len(items) {
		t.Fatalf("listed %d items, want %d", len(listed), len(items))
	}
	assertDenseColumns(t, st, spec.ID)
}

func TestCreateSpecWithItemsRollsBackOnDuplicate(t *testing.T) {
	st := openStore(t)
	spec := core.NewSpec(makeBrief())
	good := core.NewWorkItem(spec.ID, core.TypeStory, "S1", "", "", 0)
	dup := good // same primary key forces a constraint failure mid-transaction

	err := st.CreateSpecWithItems(spec, []core.WorkItem{good, dup})
	if err == nil {
		t.Fatal("expected constraint error")
	}

	// Nothing from the failed transaction is observable.
	if _, err := st.GetSpec(spec.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetSpec after rollback = %v, want ErrNotFound", err)
	}
	items, err := st.ListWorkItems(spec.ID)
	if err != nil {
		t.Fatalf("ListWorkItems: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("found %d items after rollback, want 0", len(items))
	}
}

func TestOrderContinuityAcrossTypes(t *testing.T) {
	st := openStore(t)
	spec, _ := seedSpec(t, st, 2, 3)

	items, err := st.ListWorkItems(spec.ID)
	if err != nil {
		t.Fatalf("ListWorkItems: %v", err)
	}
	for _, it := range items {
		if it.Status != core.StatusTodo {
			t.Errorf("item %s status = %s, want TODO", it.ID, it.Status)
		}
		switch it.Type {
		case core.TypeStory:
			if it.Order < 0 || it.Order >= 2 {
				t.Errorf("story order %d outside [0,2)", it.Order)
			}
		case core.TypeTask:
			if it.Order < 2 || it.Order >= 5 {
				t.Errorf("task order %d outside [2,5)", it.Order)
			}
		}
	}
}

func TestMoveWorkItemReordersColumn(t *testing.T) {
	st := openStore(t)
	spec, items := seedSpec(t, st, 3, 0) // TODO = [A(0), B(1), C(2)]
	a, b, c := items[0], items[1], items[2]

	// Move B to index 0 within TODO.
	if err := st.MoveWorkItem(b.ID, core.StatusTodo, []ulid.ULID{b.ID, a.ID, c.ID}); err != nil {
		t.Fatalf("MoveWorkItem: %v", err)
	}

	listed, err := st.ListWorkItems(spec.ID)
	if err != nil {
		t.Fatalf("ListWorkItems: %v", err)
	}
	orderByID := make(map[ulid.ULID]int)
	for _, it := range listed {
		orderByID[it.ID] = it.Order
	}
	if orderByID[b.ID] != 0 || orderByID[a.ID] != 1 || orderByID[c.ID] != 2 {
		t.Errorf("orders after move = B:%d A:%d C:%d, want 0 1 2",
			orderByID[b.ID], orderByID[a.ID], orderByID[c.ID])
	}
	assertDenseColumns(t, st, spec.ID)
}

func TestMoveWorkItemAcrossColumns(t *testing.T) {
	st := openStore(t)
	spec, items := seedSpec(t, st, 2, 1)
	moved := items[2]

	// Move the task into IN_PROGRESS; destination column is just the task.
	if err := st.MoveWorkItem(moved.ID, core.StatusInProgress, []ulid.ULID{moved.ID}); err != nil {
		t.Fatalf("MoveWorkItem: %v", err)
	}

	got, err := st.GetWorkItem(moved.ID)
	if err != nil {
		t.Fatalf("GetWorkItem: %v", err)
	}
	if got.Status != core.StatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", got.Status)
	}
	if got.Order != 0 {
		t.Errorf("order = %d, want 0", got.Order)
	}
	assertDenseColumns(t, st, spec.ID)
}

func TestMoveWorkItemNotFound(t *testing.T) {
	st := openStore(t)
	seedSpec(t, st, 1, 0)

	err := st.MoveWorkItem(core.NewULID(), core.StatusDone, nil)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateWorkItem(t *testing.T) {
	st := openStore(t)
	_, items := seedSpec(t, st, 1, 1)
	task := items[1]

	title := "Renamed"
	cat := "DB"
	if err := st.UpdateWorkItem(task.ID, store.WorkItemUpdate{Title: &title, Category: &cat}); err != nil {
		t.Fatalf("UpdateWorkItem: %v", err)
	}

	got, err := st.GetWorkItem(task.ID)
	if err != nil {
		t.Fatalf("GetWorkItem: %v", err)
	}
	if got.Title != "Renamed" || got.Category != "DB" {
		t.Errorf("update not applied: %+v", got)
	}
	// Untouched fields survive.
	if got.Details != task.Details || got.Order != task.Order {
		t.Errorf("unrelated fields changed: %+v", got)
	}

	if err := st.UpdateWorkItem(core.NewULID(), store.WorkItemUpdate{Title: &title}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("update missing id = %v, want ErrNotFound", err)
	}
}

func TestDeleteWorkItem(t *testing.T) {
	st := openStore(t)
	spec, items := seedSpec(t, st, 2, 0)

	if err := st.DeleteWorkItem(items[0].ID); err != nil {
		t.Fatalf("DeleteWorkItem: %v", err)
	}
	if _, err := st.GetWorkItem(items[0].ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetWorkItem after delete = %v, want ErrNotFound", err)
	}
	listed, err := st.ListWorkItems(spec.ID)
	if err != nil {
		t.Fatalf("ListWorkItems: %v", err)
	}
	if len(listed) != 1 {
		t.Errorf("listed %d items after delete, want 1", len(listed))
	}

	if err := st.DeleteWorkItem(items[0].ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second delete = %v, want ErrNotFound", err)
	}
}

func TestListSpecsNewestFirst(t *testing.T) {
	st := openStore(t)
	first, _ := seedSpec(t, st, 1, 0)
	second, _ := seedSpec(t, st, 1, 0)

	specs, err := st.ListSpecs()
	if err != nil {
		t.Fatalf("ListSpecs: %v", err)
	}
	if len(specs) != 2 {
		t.Fatalf("listed %d specs, want 2", len(specs))
	}
	// ULIDs are time-ordered, so the second spec sorts first.
	if specs[0].ID != second.ID || specs[1].ID != first.ID {
		t.Errorf("specs not newest-first: got [%s %s]", specs[0].ID, specs[1].ID)
	}
}
