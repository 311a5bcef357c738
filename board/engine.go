// ABOUTME: Client-resident ordering engine: optimistic move application with rollback.
// ABOUTME: Snapshot-capture, local apply, one reconciling store write, refresh after settle.
package board

import (
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/2389-research/storyboard/core"
	"github.com/2389-research/storyboard/store"
)

// Reconciler is the durable side of the board: the single-request writes the
// engine issues and the refetch it uses to re-synchronize after each settle.
// *store.Store satisfies it; a remote API client can too.
type Reconciler interface {
	ListWorkItems(specID ulid.ULID) ([]core.WorkItem, error)
	MoveWorkItem(id ulid.ULID, status core.Status, orderedIDs []ulid.ULID) error
	UpdateWorkItem(id ulid.ULID, upd store.WorkItemUpdate) error
	DeleteWorkItem(id ulid.ULID) error
}

// Engine holds one spec's work items as local board state and reconciles
// user edits against the durable store. Moves are optimistic: the local list
// reflects the move before the write confirms, and rolls back to the
// pre-move snapshot if the write fails. Edits and deletes are
// confirmed-then-reflected.
//
// The engine is not safe for concurrent use; it models a single-threaded,
// event-driven client.
type Engine struct {
	specID ulid.ULID
	rec    Reconciler
	items  []core.WorkItem
}

// NewEngine creates an engine for one spec and loads its items.
func NewEngine(specID ulid.ULID, rec Reconciler) (*Engine, error) {
	e := &Engine{specID: specID, rec: rec}
	if err := e.Refresh(); err != nil {
		return nil, err
	}
	return e, nil
}

// Items returns the current local item list.
func (e *Engine) Items() []core.WorkItem {
	return e.items
}

// Column returns the local column for one status, sorted by order.
func (e *Engine) Column(status core.Status) []core.WorkItem {
	return Columns(e.items)[status]
}

// Refresh replaces local state with the store's view.
func (e *Engine) Refresh() error {
	items, err := e.rec.ListWorkItems(e.specID)
	if err != nil {
		return fmt.Errorf("refresh board: %w", err)
	}
	e.items = items
	return nil
}

// MoveItem relocates one item to destIndex within the destStatus column.
// The move is applied locally first, then reconciled with one store write.
// On write failure the local state is rolled back to the pre-move snapshot
// and the error is returned. Whichever way the write settles, local state is
// re-synchronized from the store so any divergence self-heals. A no-op move
// returns immediately without issuing a write.
func (e *Engine) MoveItem(itemID ulid.ULID, destStatus core.Status, destIndex int) error {
	move, err := ComputeMove(e.items, itemID, destStatus, destIndex)
	if err != nil {
		return err
	}
	if move == nil {
		return nil
	}

	snapshot := e.items
	e.items = move.Items

	writeErr := e.rec.MoveWorkItem(move.ItemID, move.Status, move.OrderedIDs)
	if writeErr != nil {
		e.items = snapshot
	}

	// Refresh after settle regardless of outcome. A refresh failure after a
	// failed write keeps the rolled-back snapshot, which is still coherent.
	if refreshErr := e.Refresh(); refreshErr != nil && writeErr == nil {
		return refreshErr
	}

	if writeErr != nil {
		return fmt.Errorf("reconcile move: %w", writeErr)
	}
	return nil
}

// UpdateItem edits one item's fields. Confirmed-then-reflected: the write
// lands first, then local state refreshes from the store.
func (e *Engine) UpdateItem(itemID ulid.ULID, upd store.WorkItemUpdate) error {
	if err := e.rec.UpdateWorkItem(itemID, upd); err != nil {
		return err
	}
	return e.Refresh()
}

// DeleteItem removes one item. Confirmed-then-reflected, like UpdateItem.
func (e *Engine) DeleteItem(itemID ulid.ULID) error {
	if err := e.rec.DeleteWorkItem(itemID); err != nil {
		return err
	}
	return e.Refresh()
}
