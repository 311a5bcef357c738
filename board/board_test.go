// ABOUTME: Tests for column derivation and the pure move computation.
// ABOUTME: Covers same-column reorder, cross-column moves, no-ops, and dense renumbering.
package board

import (
	"testing"

	"github.com/oklog/ulid/v2"

	"github.com/2389-research/storyboard/core"
)

// testBoard builds TODO = [A(0), B(1), C(2)] and IN_PROGRESS = [D(0)].
func testBoard() ([]core.WorkItem, map[string]ulid.ULID) {
	specID := core.NewULID()
	ids := make(map[string]ulid.ULID)
	var items []core.WorkItem
	for i, name := range []string{"A", "B", "C"} {
		it := core.NewWorkItem(specID, core.TypeStory, name, "", "", i)
		ids[name] = it.ID
		items = append(items, it)
	}
	d := core.NewWorkItem(specID, core.TypeTask, "D", "", "API", 0)
	d.Status = core.StatusInProgress
	ids["D"] = d.ID
	items = append(items, d)
	return items, ids
}

func columnTitles(items []core.WorkItem, status core.Status) []string {
	var titles []string
	for _, it := range Columns(items)[status] {
		titles = append(titles, it.Title)
	}
	return titles
}

func TestColumnsSortedByOrder(t *testing.T) {
	items, _ := testBoard()
	// Scramble input order; columns must still sort by Order.
	items[0], items[2] = items[2], items[0]

	cols := Columns(items)
	todo := cols[core.StatusTodo]
	if len(todo) != 3 {
		t.Fatalf("TODO has %d items, want 3", len(todo))
	}
	for i, want := range []string{"A", "B", "C"} {
		if todo[i].Title != want {
			t.Errorf("TODO[%d] = %s, want %s", i, todo[i].Title, want)
		}
	}
	if len(cols[core.StatusDone]) != 0 {
		t.Errorf("DONE should be empty, got %d", len(cols[core.StatusDone]))
	}
}

func TestComputeMoveReorderWithinColumn(t *testing.T) {
	items, ids := testBoard()

	// Move B to index 0 within TODO: expect TODO = [B, A, C].
	move, err := ComputeMove(items, ids["B"], core.StatusTodo, 0)
	if err != nil {
		t.Fatalf("ComputeMove: %v", err)
	}
	if move == nil {
		t.Fatal("expected a move, got no-op")
	}

	wantIDs := []ulid.ULID{ids["B"], ids["A"], ids["C"]}
	if len(move.OrderedIDs) != len(wantIDs) {
		t.Fatalf("orderedIDs len = %d, want %d", len(move.OrderedIDs), len(wantIDs))
	}
	for i, id := range wantIDs {
		if move.OrderedIDs[i] != id {
			t.Errorf("orderedIDs[%d] = %s, want %s", i, move.OrderedIDs[i], id)
		}
	}

	got := columnTitles(move.Items, core.StatusTodo)
	for i, want := range []string{"B", "A", "C"} {
		if got[i] != want {
			t.Errorf("TODO[%d] = %s, want %s", i, got[i], want)
		}
	}
	for i, it := range Columns(move.Items)[core.StatusTodo] {
		if it.Order != i {
			t.Errorf("TODO[%d].Order = %d, want %d", i, it.Order, i)
		}
	}
}

func TestComputeMoveAcrossColumns(t *testing.T) {
	items, ids := testBoard()

	// Move A into IN_PROGRESS at index 1 (after D).
	move, err := ComputeMove(items, ids["A"], core.StatusInProgress, 1)
	if err != nil {
		t.Fatalf("ComputeMove: %v", err)
	}
	if move == nil {
		t.Fatal("expected a move")
	}
	if move.Status != core.StatusInProgress {
		t.Errorf("status = %s, want IN_PROGRESS", move.Status)
	}
	if len(move.OrderedIDs) != 2 || move.OrderedIDs[0] != ids["D"] || move.OrderedIDs[1] != ids["A"] {
		t.Errorf("orderedIDs = %v, want [D A]", move.OrderedIDs)
	}

	// Source column closes its gap: TODO = [B(0), C(1)].
	todo := Columns(move.Items)[core.StatusTodo]
	if len(todo) != 2 {
		t.Fatalf("TODO has %d items, want 2", len(todo))
	}
	for i, want := range []string{"B", "C"} {
		if todo[i].Title != want || todo[i].Order != i {
			t.Errorf("TODO[%d] = %s(%d), want %s(%d)", i, todo[i].Title, todo[i].Order, want, i)
		}
	}
}

func TestComputeMoveNoOp(t *testing.T) {
	items, ids := testBoard()

	// B already sits at index 1 in TODO.
	move, err := ComputeMove(items, ids["B"], core.StatusTodo, 1)
	if err != nil {
		t.Fatalf("ComputeMove: %v", err)
	}
	if move != nil {
		t.Errorf("expected no-op, got move %+v", move)
	}
}

func TestComputeMoveUnknownItem(t *testing.T) {
	items, _ := testBoard()
	if _, err := ComputeMove(items, core.NewULID(), core.StatusTodo, 0); err == nil {
		t.Error("expected error for unknown item")
	}
}

func TestComputeMoveIndexOutOfRange(t *testing.T) {
	items, ids := testBoard()
	if _, err := ComputeMove(items, ids["A"], core.StatusDone, 1); err == nil {
		t.Error("expected error for index past end of empty column")
	}
}

func TestComputeMoveDoesNotMutateInput(t *testing.T) {
	items, ids := testBoard()
	before := make([]core.WorkItem, len(items))
	copy(before, items)

	if _, err := ComputeMove(items, ids["C"], core.StatusDone, 0); err != nil {
		t.Fatalf("ComputeMove: %v", err)
	}
	for i := range before {
		if items[i] != before[i] {
			t.Errorf("input item %d mutated: %+v -> %+v", i, before[i], items[i])
		}
	}
}
