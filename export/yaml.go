// ABOUTME: Exports a spec and its work items as a structured YAML document.
// ABOUTME: Uses gopkg.in/yaml.v3 for serialization with deterministic column ordering.
package export

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/2389-research/storyboard/board"
	"github.com/2389-research/storyboard/core"
)

// YamlItem is a serializable YAML representation of a single work item
// within a column.
type YamlItem struct {
	ID       string `yaml:"id"`
	ItemType string `yaml:"type"`
	Title    string `yaml:"title"`
	Details  string `yaml:"details,omitempty"`
	Category string `yaml:"category,omitempty"`
	Order    int    `yaml:"order"`
}

// YamlColumn is a serializable YAML representation of a board column.
type YamlColumn struct {
	Status string     `yaml:"status"`
	Items  []YamlItem `yaml:"items"`
}

// YamlSpec is the top-level serializable YAML representation of a spec
// and its backlog.
type YamlSpec struct {
	ID          string       `yaml:"id"`
	Title       string       `yaml:"title"`
	Goal        string       `yaml:"goal"`
	Users       string       `yaml:"users"`
	Constraints string       `yaml:"constraints"`
	Risks       string       `yaml:"risks,omitempty"`
	CreatedAt   string       `yaml:"created_at"`
	Columns     []YamlColumn `yaml:"columns"`
}

// ExportYAML exports a spec and its items as structured YAML.
//
// Columns appear in board order (TODO, IN_PROGRESS, DONE), each present even
// when empty. Items within a column are sorted by their order field.
func ExportYAML(spec core.Spec, items []core.WorkItem) (string, error) {
	columns := board.Columns(items)

	yamlColumns := make([]YamlColumn, 0, len(core.Statuses()))
	for _, status := range core.Statuses() {
		yamlItems := make([]YamlItem, 0, len(columns[status]))
		for _, item := range columns[status] {
			yamlItems = append(yamlItems, YamlItem{
				ID:       item.ID.String(),
				ItemType: string(item.Type),
				Title:    item.Title,
				Details:  item.Details,
				Category: item.Category,
				Order:    item.Order,
			})
		}
		yamlColumns = append(yamlColumns, YamlColumn{
			Status: string(status),
			Items:  yamlItems,
		})
	}

	doc := YamlSpec{
		ID:          spec.ID.String(),
		Title:       spec.Title,
		Goal:        spec.Goal,
		Users:       spec.Users,
		Constraints: spec.Constraints,
		Risks:       spec.Risks,
		CreatedAt:   spec.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Columns:     yamlColumns,
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("yaml marshal: %w", err)
	}
	return string(data), nil
}
