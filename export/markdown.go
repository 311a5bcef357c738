// ABOUTME: Exports a spec and its work items as a deterministic Markdown document.
// ABOUTME: Sections: header and brief fields first, then one section per board column.
package export

import (
	"fmt"
	"strings"

	"github.com/2389-research/storyboard/board"
	"github.com/2389-research/storyboard/core"
)

// ExportMarkdown renders a spec and its backlog as a Markdown string.
//
// Column ordering follows the board: TODO, IN_PROGRESS, DONE. Items within
// each column are ordered by their order field. Empty columns are shown with
// a placeholder so the document structure stays stable across exports.
func ExportMarkdown(spec core.Spec, items []core.WorkItem) string {
	var out strings.Builder

	fmt.Fprintf(&out, "# %s\n", spec.Title)
	fmt.Fprintln(&out)
	fmt.Fprintln(&out, "## Goal")
	fmt.Fprintln(&out)
	fmt.Fprintln(&out, spec.Goal)
	fmt.Fprintln(&out)
	fmt.Fprintln(&out, "## Target Users")
	fmt.Fprintln(&out)
	fmt.Fprintln(&out, spec.Users)
	fmt.Fprintln(&out)
	fmt.Fprintln(&out, "## Constraints")
	fmt.Fprintln(&out)
	fmt.Fprintln(&out, spec.Constraints)

	if spec.Risks != "" {
		fmt.Fprintln(&out)
		fmt.Fprintln(&out, "## Risks")
		fmt.Fprintln(&out)
		fmt.Fprintln(&out, spec.Risks)
	}

	fmt.Fprintln(&out)
	fmt.Fprintln(&out, "---")

	columns := board.Columns(items)
	for _, status := range core.Statuses() {
		fmt.Fprintln(&out)
		fmt.Fprintf(&out, "## %s\n", columnHeading(status))

		column := columns[status]
		if len(column) == 0 {
			fmt.Fprintln(&out)
			fmt.Fprintln(&out, "_No items._")
			continue
		}
		for _, item := range column {
			fmt.Fprintln(&out)
			if item.Category != "" {
				fmt.Fprintf(&out, "### %s (%s, %s)\n", item.Title, item.Type, item.Category)
			} else {
				fmt.Fprintf(&out, "### %s (%s)\n", item.Title, item.Type)
			}
			if item.Details != "" {
				fmt.Fprintln(&out)
				fmt.Fprintln(&out, item.Details)
			}
		}
	}

	return out.String()
}

func columnHeading(status core.Status) string {
	switch status {
	case core.StatusTodo:
		return "To Do"
	case core.StatusInProgress:
		return "In Progress"
	case core.StatusDone:
		return "Done"
	}
	return string(status)
}
