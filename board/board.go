// ABOUTME: Pure board logic: derives status columns from a flat item list and computes moves.
// ABOUTME: A move splices the item into the destination column and renumbers it densely.
package board

import (
	"fmt"
	"sort"

	"github.com/oklog/ulid/v2"

	"github.com/2389-research/storyboard/core"
)

// Columns partitions one spec's work items by status, each column sorted by
// order ascending. Every status gets an entry even when its column is empty.
func Columns(items []core.WorkItem) map[core.Status][]core.WorkItem {
	cols := make(map[core.Status][]core.WorkItem, len(core.Statuses()))
	for _, status := range core.Statuses() {
		cols[status] = []core.WorkItem{}
	}
	for _, it := range items {
		cols[it.Status] = append(cols[it.Status], it)
	}
	for status := range cols {
		col := cols[status]
		sort.SliceStable(col, func(i, j int) bool {
			return col[i].Order < col[j].Order
		})
	}
	return cols
}

// Move describes one computed drag result: the item's new status and the
// full ordered id list of the destination column after the move. OrderedIDs
// is what the store needs to renumber every shifted row in one transaction.
type Move struct {
	ItemID     ulid.ULID
	Status     core.Status
	OrderedIDs []ulid.ULID
	// Items is the full item list with the move applied locally:
	// new status on the moved item, dense orders across the destination column.
	Items []core.WorkItem
}

// ComputeMove relocates one item to destIndex within the destStatus column
// and returns the resulting reconciliation payload plus the locally updated
// item list. Returns (nil, nil) when the move is a no-op — the item already
// sits at destIndex in destStatus — so no write should be issued.
func ComputeMove(items []core.WorkItem, itemID ulid.ULID, destStatus core.Status, destIndex int) (*Move, error) {
	cols := Columns(items)

	var moved *core.WorkItem
	srcIndex := -1
	for i := range items {
		if items[i].ID == itemID {
			moved = &items[i]
			break
		}
	}
	if moved == nil {
		return nil, fmt.Errorf("item %s not on board", itemID)
	}

	srcCol := cols[moved.Status]
	for i, it := range srcCol {
		if it.ID == itemID {
			srcIndex = i
			break
		}
	}

	if moved.Status == destStatus && srcIndex == destIndex {
		return nil, nil
	}

	// Splice out of the source column.
	srcCol = append(append([]core.WorkItem{}, srcCol[:srcIndex]...), srcCol[srcIndex+1:]...)

	destCol := srcCol
	if moved.Status != destStatus {
		destCol = append([]core.WorkItem{}, cols[destStatus]...)
	}

	if destIndex < 0 || destIndex > len(destCol) {
		return nil, fmt.Errorf("destination index %d out of range [0,%d]", destIndex, len(destCol))
	}

	movedCopy := *moved
	movedCopy.Status = destStatus
	destCol = append(destCol[:destIndex], append([]core.WorkItem{movedCopy}, destCol[destIndex:]...)...)

	// Renumber the destination column densely in list order. For a
	// cross-column move the vacated source column is renumbered too, so
	// every (spec, status) partition stays gap-free. The store compacts the
	// source column inside the same move transaction.
	orderedIDs := make([]ulid.ULID, len(destCol))
	newOrder := make(map[ulid.ULID]int, len(destCol))
	for i, it := range destCol {
		orderedIDs[i] = it.ID
		newOrder[it.ID] = i
	}
	if moved.Status != destStatus {
		for i, it := range srcCol {
			newOrder[it.ID] = i
		}
	}

	updated := make([]core.WorkItem, len(items))
	for i, it := range items {
		if it.ID == itemID {
			it.Status = destStatus
		}
		if pos, ok := newOrder[it.ID]; ok {
			it.Order = pos
		}
		updated[i] = it
	}

	return &Move{
		ItemID:     itemID,
		Status:     destStatus,
		OrderedIDs: orderedIDs,
		Items:      updated,
	}, nil
}
