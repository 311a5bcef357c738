// ABOUTME: Domain model for storyboard: briefs, specs, and backlog work items.
// ABOUTME: Defines the Spec/WorkItem row shapes plus the status and item type enumerations.
package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// ItemType discriminates the two kinds of work items a generation produces.
type ItemType string

const (
	TypeStory ItemType = "STORY"
	TypeTask  ItemType = "TASK"
)

// ParseItemType validates a raw string against the known item types.
func ParseItemType(s string) (ItemType, error) {
	switch ItemType(s) {
	case TypeStory, TypeTask:
		return ItemType(s), nil
	}
	return "", fmt.Errorf("unknown item type %q", s)
}

// Status is the board column a work item lives in.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Statuses returns the board columns in display order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusDone}
}

// ParseStatus validates a raw string against the known statuses.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusTodo, StatusInProgress, StatusDone:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// Brief is the user's free-text project description that seeds a generation.
type Brief struct {
	Title       string `yaml:"title"`
	Goal        string `yaml:"goal"`
	Users       string `yaml:"users"`
	Constraints string `yaml:"constraints"`
	Risks       string `yaml:"risks,omitempty"`
}

// Validate checks that every field except Risks is non-empty.
func (b Brief) Validate() error {
	var missing []string
	if b.Title == "" {
		missing = append(missing, "title")
	}
	if b.Goal == "" {
		missing = append(missing, "goal")
	}
	if b.Users == "" {
		missing = append(missing, "users")
	}
	if b.Constraints == "" {
		missing = append(missing, "constraints")
	}
	if len(missing) > 0 {
		return fmt.Errorf("brief is missing required fields: %v", missing)
	}
	return nil
}

// ErrEmptyTitle is returned when a work item would be created without a title.
var ErrEmptyTitle = errors.New("work item title must not be empty")

// Spec is the durable record of one generation request. Specs are immutable
// after creation; only their work items change.
type Spec struct {
	ID          ulid.ULID `json:"id"`
	Title       string    `json:"title"`
	Goal        string    `json:"goal"`
	Users       string    `json:"users"`
	Constraints string    `json:"constraints"`
	Risks       string    `json:"risks"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewSpec creates a Spec from a brief with a fresh ULID. Risks is carried
// through as-is, so an empty risks field persists as empty text.
func NewSpec(b Brief) Spec {
	return Spec{
		ID:          NewULID(),
		Title:       b.Title,
		Goal:        b.Goal,
		Users:       b.Users,
		Constraints: b.Constraints,
		Risks:       b.Risks,
		CreatedAt:   time.Now().UTC(),
	}
}

// WorkItem is a single backlog entry, either a STORY or a TASK, belonging to
// exactly one spec. Order is the item's zero-based position within its
// (spec, status) column.
type WorkItem struct {
	ID        ulid.ULID `json:"id"`
	SpecID    ulid.ULID `json:"spec_id"`
	Type      ItemType  `json:"type"`
	Title     string    `json:"title"`
	Details   string    `json:"details,omitempty"`
	Category  string    `json:"category,omitempty"`
	Status    Status    `json:"status"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

// NewWorkItem creates a WorkItem in the TODO column at the given order.
func NewWorkItem(specID ulid.ULID, typ ItemType, title, details, category string, order int) WorkItem {
	return WorkItem{
		ID:        NewULID(),
		SpecID:    specID,
		Type:      typ,
		Title:     title,
		Details:   details,
		Category:  category,
		Status:    StatusTodo,
		Order:     order,
		CreatedAt: time.Now().UTC(),
	}
}
