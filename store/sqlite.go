// ABOUTME: SQLite-backed durable store for specs and their ordered work items.
// ABOUTME: Provides the atomic create-with-items and move transactions the board depends on.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/2389-research/storyboard/core"
)

// ErrNotFound is returned when an operation targets a spec or work item id
// that does not exist.
var ErrNotFound = errors.New("not found")

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// Store is the SQLite-backed work item store. All multi-row mutations go
// through a single transaction so a reader never observes a column with
// duplicate or missing order values.
type Store struct {
	db *sql.DB
}

// Open opens or creates the storyboard database at the given path and
// ensures the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS specs (
			spec_id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			goal TEXT NOT NULL,
			users TEXT NOT NULL,
			constraints TEXT NOT NULL,
			risks TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS work_items (
			item_id TEXT PRIMARY KEY,
			spec_id TEXT NOT NULL,
			item_type TEXT NOT NULL,
			title TEXT NOT NULL,
			details TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			sort_order INTEGER NOT NULL,
			created_at TEXT NOT NULL,
			FOREIGN KEY (spec_id) REFERENCES specs(spec_id)
		);

		CREATE INDEX IF NOT EXISTS idx_work_items_column
			ON work_items(spec_id, status, sort_order);`

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSpecWithItems inserts a spec and all of its work items in one
// transaction. Either every row becomes visible or none do.
func (s *Store) CreateSpecWithItems(spec core.Spec, items []core.WorkItem) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin create spec: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(
		`INSERT INTO specs (spec_id, title, goal, users, constraints, risks, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		spec.ID.String(), spec.Title, spec.Goal, spec.Users, spec.Constraints, spec.Risks,
		spec.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert spec: %w", err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO work_items (item_id, spec_id, item_type, title, details, category, status, sort_order, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare item insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range items {
		it := &items[i]
		_, err := stmt.Exec(
			it.ID.String(), it.SpecID.String(), string(it.Type), it.Title, it.Details,
			it.Category, string(it.Status), it.Order, it.CreatedAt.Format(timeLayout),
		)
		if err != nil {
			return fmt.Errorf("insert work item %s: %w", it.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create spec: %w", err)
	}
	return nil
}

// GetSpec returns one spec by id, or ErrNotFound.
func (s *Store) GetSpec(id ulid.ULID) (core.Spec, error) {
	row := s.db.QueryRow(
		`SELECT spec_id, title, goal, users, constraints, risks, created_at
		 FROM specs WHERE spec_id = ?`, id.String())
	spec, err := scanSpec(row)
	if err == sql.ErrNoRows {
		return core.Spec{}, ErrNotFound
	}
	if err != nil {
		return core.Spec{}, fmt.Errorf("get spec: %w", err)
	}
	return spec, nil
}

// ListSpecs returns all specs, newest first.
func (s *Store) ListSpecs() ([]core.Spec, error) {
	rows, err := s.db.Query(
		`SELECT spec_id, title, goal, users, constraints, risks, created_at
		 FROM specs ORDER BY created_at DESC, spec_id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query specs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var specs []core.Spec
	for rows.Next() {
		spec, err := scanSpec(rows)
		if err != nil {
			return nil, fmt.Errorf("scan spec row: %w", err)
		}
		specs = append(specs, spec)
	}
	return specs, rows.Err()
}

// ListWorkItems returns all work items for a spec, ordered by status column
// then position within the column.
func (s *Store) ListWorkItems(specID ulid.ULID) ([]core.WorkItem, error) {
	rows, err := s.db.Query(
		`SELECT item_id, spec_id, item_type, title, details, category, status, sort_order, created_at
		 FROM work_items WHERE spec_id = ? ORDER BY status ASC, sort_order ASC`,
		specID.String())
	if err != nil {
		return nil, fmt.Errorf("query work items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []core.WorkItem
	for rows.Next() {
		item, err := scanWorkItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work item row: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetWorkItem returns one work item by id, or ErrNotFound.
func (s *Store) GetWorkItem(id ulid.ULID) (core.WorkItem, error) {
	row := s.db.QueryRow(
		`SELECT item_id, spec_id, item_type, title, details, category, status, sort_order, created_at
		 FROM work_items WHERE item_id = ?`, id.String())
	item, err := scanWorkItem(row)
	if err == sql.ErrNoRows {
		return core.WorkItem{}, ErrNotFound
	}
	if err != nil {
		return core.WorkItem{}, fmt.Errorf("get work item: %w", err)
	}
	return item, nil
}

// MoveWorkItem applies one board move as a single transaction: the moved
// item's status is set, then every id in orderedIDs gets its sort_order set
// to its position in the list. orderedIDs is the full destination column
// after the move, so every shifted neighbor is renumbered in the same commit.
// When the move crosses columns, the vacated source column is compacted in
// the same transaction, keeping every (spec, status) partition gap-free.
func (s *Store) MoveWorkItem(id ulid.ULID, status core.Status, orderedIDs []ulid.ULID) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin move: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var specIDStr, oldStatus string
	err = tx.QueryRow(
		"SELECT spec_id, status FROM work_items WHERE item_id = ?", id.String()).
		Scan(&specIDStr, &oldStatus)
	if err == sql.ErrNoRows {
		return fmt.Errorf("move work item %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("read item before move: %w", err)
	}

	if _, err := tx.Exec(
		"UPDATE work_items SET status = ? WHERE item_id = ?",
		string(status), id.String()); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	stmt, err := tx.Prepare("UPDATE work_items SET sort_order = ? WHERE item_id = ?")
	if err != nil {
		return fmt.Errorf("prepare order update: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for pos, itemID := range orderedIDs {
		if _, err := stmt.Exec(pos, itemID.String()); err != nil {
			return fmt.Errorf("renumber item %s: %w", itemID, err)
		}
	}

	if oldStatus != string(status) {
		if err := compactColumn(tx, stmt, specIDStr, oldStatus); err != nil {
			return fmt.Errorf("compact source column: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit move: %w", err)
	}
	return nil
}

// compactColumn renumbers one (spec, status) column to 0..n-1 by current rank.
func compactColumn(tx *sql.Tx, setOrder *sql.Stmt, specID, status string) error {
	rows, err := tx.Query(
		"SELECT item_id FROM work_items WHERE spec_id = ? AND status = ? ORDER BY sort_order ASC",
		specID, status)
	if err != nil {
		return fmt.Errorf("query column: %w", err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return fmt.Errorf("scan column id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	_ = rows.Close()

	for pos, id := range ids {
		if _, err := setOrder.Exec(pos, id); err != nil {
			return fmt.Errorf("renumber item %s: %w", id, err)
		}
	}
	return nil
}

// WorkItemUpdate carries the fields a direct edit may change. Nil fields are
// left untouched.
type WorkItemUpdate struct {
	Title    *string
	Details  *string
	Category *string
	Type     *core.ItemType
	Status   *core.Status
}

// UpdateWorkItem applies a partial field update to one work item.
// Returns ErrNotFound if the id does not exist.
func (s *Store) UpdateWorkItem(id ulid.ULID, upd WorkItemUpdate) error {
	var sets []string
	var args []any
	if upd.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *upd.Title)
	}
	if upd.Details != nil {
		sets = append(sets, "details = ?")
		args = append(args, *upd.Details)
	}
	if upd.Category != nil {
		sets = append(sets, "category = ?")
		args = append(args, *upd.Category)
	}
	if upd.Type != nil {
		sets = append(sets, "item_type = ?")
		args = append(args, string(*upd.Type))
	}
	if upd.Status != nil {
		sets = append(sets, "status = ?")
		args = append(args, string(*upd.Status))
	}
	if len(sets) == 0 {
		// Nothing to change, but the id must still exist.
		_, err := s.GetWorkItem(id)
		return err
	}

	query := "UPDATE work_items SET " + joinSets(sets) + " WHERE item_id = ?"
	args = append(args, id.String())

	res, err := s.db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("update work item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update work item %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteWorkItem removes one work item by id. Returns ErrNotFound if the id
// does not exist. Ordering of the remaining column is untouched; gaps close
// on the next move through that column.
func (s *Store) DeleteWorkItem(id ulid.ULID) error {
	res, err := s.db.Exec("DELETE FROM work_items WHERE item_id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete work item: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete work item %s: %w", id, ErrNotFound)
	}
	return nil
}

func joinSets(sets []string) string {
	out := sets[0]
	for _, s := range sets[1:] {
		out += ", " + s
	}
	return out
}

// scanner abstracts sql.Row and sql.Rows for the shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanSpec(sc scanner) (core.Spec, error) {
	var (
		spec      core.Spec
		idStr     string
		createdAt string
	)
	if err := sc.Scan(&idStr, &spec.Title, &spec.Goal, &spec.Users, &spec.Constraints,
		&spec.Risks, &createdAt); err != nil {
		return core.Spec{}, err
	}
	id, err := ulid.Parse(idStr)
	if err != nil {
		return core.Spec{}, fmt.Errorf("parse spec id %q: %w", idStr, err)
	}
	spec.ID = id
	ts, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return core.Spec{}, fmt.Errorf("parse spec created_at %q: %w", createdAt, err)
	}
	spec.CreatedAt = ts
	return spec, nil
}

func scanWorkItem(sc scanner) (core.WorkItem, error) {
	var (
		item      core.WorkItem
		idStr     string
		specIDStr string
		typStr    string
		statStr   string
		createdAt string
	)
	if err := sc.Scan(&idStr, &specIDStr, &typStr, &item.Title, &item.Details,
		&item.Category, &statStr, &item.Order, &createdAt); err != nil {
		return core.WorkItem{}, err
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return core.WorkItem{}, fmt.Errorf("parse item id %q: %w", idStr, err)
	}
	item.ID = id

	specID, err := ulid.Parse(specIDStr)
	if err != nil {
		return core.WorkItem{}, fmt.Errorf("parse item spec id %q: %w", specIDStr, err)
	}
	item.SpecID = specID

	typ, err := core.ParseItemType(typStr)
	if err != nil {
		return core.WorkItem{}, fmt.Errorf("scan item type: %w", err)
	}
	item.Type = typ

	status, err := core.ParseStatus(statStr)
	if err != nil {
		return core.WorkItem{}, fmt.Errorf("scan item status: %w", err)
	}
	item.Status = status

	ts, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return core.WorkItem{}, fmt.Errorf("parse item created_at %q: %w", createdAt, err)
	}
	item.CreatedAt = ts
	return item, nil
}
