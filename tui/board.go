// ABOUTME: Bubble Tea BoardModel rendering a spec's kanban board in the terminal.
// ABOUTME: Implements tea.Model (Init, Update, View) with keyboard-driven moves, edits, and filters.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/oklog/ulid/v2"

	"github.com/2389-research/storyboard/board"
	"github.com/2389-research/storyboard/core"
	"github.com/2389-research/storyboard/store"
)

type mode int

const (
	modeBrowse mode = iota
	modeEdit
)

// BoardModel is the top-level Bubble Tea model for one spec's board.
type BoardModel struct {
	spec   core.Spec
	engine *board.Engine

	typeFilter     string
	categoryFilter string

	col int // focused column index into core.Statuses()
	row int // selected card within the focused column

	mode      mode
	editInput textinput.Model
	editItem  ulid.ULID

	status string // transient status or error line
	width  int
	height int
}

// NewBoardModel creates a BoardModel over an already-loaded engine.
func NewBoardModel(spec core.Spec, engine *board.Engine) BoardModel {
	ti := textinput.New()
	ti.CharLimit = 200
	return BoardModel{
		spec:           spec,
		engine:         engine,
		typeFilter:     board.FilterAll,
		categoryFilter: board.FilterAll,
		editInput:      ti,
	}
}

// Init implements tea.Model.
func (m BoardModel) Init() tea.Cmd {
	return nil
}

// visibleColumns applies the active filters and groups items into columns.
func (m BoardModel) visibleColumns() map[core.Status][]core.WorkItem {
	visible := board.Filter(m.engine.Items(), m.typeFilter, m.categoryFilter)
	return board.Columns(visible)
}

// focusedColumn returns the status and items of the column under the cursor.
func (m BoardModel) focusedColumn() (core.Status, []core.WorkItem) {
	status := core.Statuses()[m.col]
	return status, m.visibleColumns()[status]
}

// selectedItem returns the item under the cursor, or nil for an empty column.
func (m BoardModel) selectedItem() *core.WorkItem {
	_, items := m.focusedColumn()
	if m.row < 0 || m.row >= len(items) {
		return nil
	}
	item := items[m.row]
	return &item
}

// clampSelection keeps the cursor inside the focused column after any mutation.
func (m *BoardModel) clampSelection() {
	_, items := m.focusedColumn()
	if m.row >= len(items) {
		m.row = len(items) - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

// Update implements tea.Model.
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeEdit {
			return m.updateEdit(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m BoardModel) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "left", "h":
		if m.col > 0 {
			m.col--
		}
		m.clampSelection()
	case "right", "l":
		if m.col < len(core.Statuses())-1 {
			m.col++
		}
		m.clampSelection()
	case "up", "k":
		if m.row > 0 {
			m.row--
		}
	case "down", "j":
		_, items := m.focusedColumn()
		if m.row < len(items)-1 {
			m.row++
		}

	case "shift+left", "H":
		m.moveAcross(-1)
	case "shift+right", "L":
		m.moveAcross(1)
	case "shift+up", "K":
		m.moveWithin(-1)
	case "shift+down", "J":
		m.moveWithin(1)

	case "e":
		if item := m.selectedItem(); item != nil {
			m.mode = modeEdit
			m.editItem = item.ID
			m.editInput.SetValue(item.Title)
			m.editInput.CursorEnd()
			m.editInput.Focus()
		}
	case "x":
		if item := m.selectedItem(); item != nil {
			if err := m.engine.DeleteItem(item.ID); err != nil {
				m.status = "delete failed: " + err.Error()
			} else {
				m.status = "deleted " + item.Title
			}
			m.clampSelection()
		}

	case "f":
		m.typeFilter = nextTypeFilter(m.typeFilter)
		m.clampSelection()
	case "c":
		m.categoryFilter = nextCategoryFilter(m.categoryFilter, board.Categories(m.engine.Items()))
		m.clampSelection()

	case "r":
		if err := m.engine.Refresh(); err != nil {
			m.status = "refresh failed: " + err.Error()
		}
		m.clampSelection()
	}
	return m, nil
}

func (m BoardModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeBrowse
		m.editInput.Blur()
		return m, nil
	case "enter":
		title := strings.TrimSpace(m.editInput.Value())
		m.mode = modeBrowse
		m.editInput.Blur()
		if title == "" {
			m.status = "title must not be empty"
			return m, nil
		}
		if err := m.engine.UpdateItem(m.editItem, store.WorkItemUpdate{Title: &title}); err != nil {
			m.status = "update failed: " + err.Error()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	return m, cmd
}

// filtersActive reports whether any filter hides items. Moves are disabled
// while filtering because visible row positions no longer match the dense
// column ordering the engine reconciles against.
func (m BoardModel) filtersActive() bool {
	return m.typeFilter != board.FilterAll || m.categoryFilter != board.FilterAll
}

// moveAcross moves the selected item to the adjacent column in direction dir,
// keeping its row position where possible.
func (m *BoardModel) moveAcross(dir int) {
	if m.filtersActive() {
		m.status = "clear filters before moving items"
		return
	}
	item := m.selectedItem()
	if item == nil {
		return
	}
	destCol := m.col + dir
	if destCol < 0 || destCol >= len(core.Statuses()) {
		return
	}
	destStatus := core.Statuses()[destCol]
	destIndex := m.row
	if n := len(m.visibleColumns()[destStatus]); destIndex > n {
		destIndex = n
	}
	if err := m.engine.MoveItem(item.ID, destStatus, destIndex); err != nil {
		m.status = "move failed, restored previous order: " + err.Error()
		return
	}
	m.col = destCol
	m.row = destIndex
	m.clampSelection()
}

// moveWithin reorders the selected item one slot up or down in its column.
func (m *BoardModel) moveWithin(dir int) {
	if m.filtersActive() {
		m.status = "clear filters before moving items"
		return
	}
	item := m.selectedItem()
	if item == nil {
		return
	}
	status, items := m.focusedColumn()
	destIndex := m.row + dir
	if destIndex < 0 || destIndex >= len(items) {
		return
	}
	if err := m.engine.MoveItem(item.ID, status, destIndex); err != nil {
		m.status = "move failed, restored previous order: " + err.Error()
		return
	}
	m.row = destIndex
}

func nextTypeFilter(current string) string {
	switch current {
	case board.FilterAll:
		return string(core.TypeStory)
	case string(core.TypeStory):
		return string(core.TypeTask)
	default:
		return board.FilterAll
	}
}

func nextCategoryFilter(current string, categories []string) string {
	if len(categories) == 0 {
		return board.FilterAll
	}
	if current == board.FilterAll {
		return categories[0]
	}
	for i, c := range categories {
		if c == current {
			if i+1 < len(categories) {
				return categories[i+1]
			}
			return board.FilterAll
		}
	}
	return board.FilterAll
}

// View implements tea.Model.
func (m BoardModel) View() string {
	if m.width == 0 {
		return "Loading board..."
	}

	counts := board.CountByType(m.engine.Items())
	bar := fmt.Sprintf("%s · %d stories · %d tasks · type=%s category=%s",
		m.spec.Title, counts.Stories, counts.Tasks,
		m.typeFilter, m.categoryFilter)
	statusLine := StatusBarStyle.Render(bar)
	if m.status != "" {
		statusLine += " " + ErrorStyle.Render(m.status)
	}

	colWidth := m.width/3 - 4
	if colWidth < 16 {
		colWidth = 16
	}
	columns := m.visibleColumns()
	rendered := make([]string, 0, len(core.Statuses()))
	for i, status := range core.Statuses() {
		rendered = append(rendered, m.renderColumn(status, columns[status], i == m.col, colWidth))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	var help string
	if m.mode == modeEdit {
		help = HelpStyle.Render("enter save · esc cancel")
		return strings.Join([]string{statusLine, body, "Edit title: " + m.editInput.View(), help}, "\n")
	}
	help = HelpStyle.Render("←→/hl column · ↑↓/jk card · HJKL move · e edit · x delete · f/c filter · r refresh · q quit")
	return strings.Join([]string{statusLine, body, help}, "\n")
}

func (m BoardModel) renderColumn(status core.Status, items []core.WorkItem, focused bool, width int) string {
	var b strings.Builder
	b.WriteString(ColumnTitleStyle.Render(fmt.Sprintf("%s (%d)", columnTitle(status), len(items))))
	b.WriteString("\n")

	for i, item := range items {
		line := item.Title
		if item.Type == core.TypeTask && item.Category != "" {
			line += " " + CategoryStyle.Render("["+item.Category+"]")
		}
		badge := StoryBadgeStyle.Render("S")
		if item.Type == core.TypeTask {
			badge = TaskBadgeStyle.Render("T")
		}
		line = badge + " " + line

		style := CardStyle
		if focused && i == m.row {
			style = SelectedCardStyle
		}
		b.WriteString(style.MaxWidth(width).Render(line))
		b.WriteString("\n")
	}
	if len(items) == 0 {
		b.WriteString(HelpStyle.Render("(empty)"))
		b.WriteString("\n")
	}

	return styleForColumn(focused).Width(width).Render(b.String())
}

func columnTitle(status core.Status) string {
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
