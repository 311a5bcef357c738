// ABOUTME: Handlers for the kanban board: viewing, filtering, moving, editing, deleting items.
// ABOUTME: Serves HTMX partials that update the board in-place via swap targets.
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/oklog/ulid/v2"

	"github.com/2389-research/storyboard/board"
	"github.com/2389-research/storyboard/core"
	"github.com/2389-research/storyboard/store"
)

// ItemView is the view-model for a single card in a template.
type ItemView struct {
	SpecID   string
	ID       string
	Type     string
	Title    string
	Details  string
	Category string
	Status   string
	Order    int
}

// ColumnView groups items under one board column for template rendering.
type ColumnView struct {
	Status string
	Title  string
	Items  []ItemView
}

// BoardView is the view-model for the board partial.
type BoardView struct {
	SpecID         string
	Columns        []ColumnView
	TypeFilter     string
	CategoryFilter string
	Categories     []string
	StoryCount     int
	TaskCount      int
}

// BoardPageData is the view-model for the full board page.
type BoardPageData struct {
	SpecID string
	Title  string
	Board  BoardView
}

// buildBoardView loads a spec's items and assembles the filtered board view.
func (s *Server) buildBoardView(specID ulid.ULID, typeFilter, categoryFilter string) (BoardView, error) {
	items, err := s.store.ListWorkItems(specID)
	if err != nil {
		return BoardView{}, err
	}

	if typeFilter == "" {
		typeFilter = board.FilterAll
	}
	if categoryFilter == "" {
		categoryFilter = board.FilterAll
	}

	counts := board.CountByType(items)
	categories := board.Categories(items)
	visible := board.Filter(items, typeFilter, categoryFilter)
	columns := board.Columns(visible)

	view := BoardView{
		SpecID:         specID.String(),
		TypeFilter:     typeFilter,
		CategoryFilter: categoryFilter,
		Categories:     categories,
		StoryCount:     counts.Stories,
		TaskCount:      counts.Tasks,
	}
	for _, status := range core.Statuses() {
		col := ColumnView{Status: string(status), Title: columnTitle(status)}
		for _, item := range columns[status] {
			col.Items = append(col.Items, ItemView{
				SpecID:   specID.String(),
				ID:       item.ID.String(),
				Type:     string(item.Type),
				Title:    item.Title,
				Details:  item.Details,
				Category: item.Category,
				Status:   string(item.Status),
				Order:    item.Order,
			})
		}
		view.Columns = append(view.Columns, col)
	}
	return view, nil
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

func (s *Server) handleBoardPage(w http.ResponseWriter, r *http.Request) {
	specID, ok := parseSpecID(w, r)
	if !ok {
		return
	}
	spec, err := s.store.GetSpec(specID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "spec not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load spec", http.StatusInternalServerError)
		return
	}

	view, err := s.buildBoardView(specID, r.URL.Query().Get("type"), r.URL.Query().Get("category"))
	if err != nil {
		http.Error(w, "failed to load board", http.StatusInternalServerError)
		return
	}
	s.renderer.Render(w, "board_page.html", BoardPageData{
		SpecID: specID.String(),
		Title:  spec.Title,
		Board:  view,
	})
}

func (s *Server) handleBoardPartial(w http.ResponseWriter, r *http.Request) {
	specID, ok := parseSpecID(w, r)
	if !ok {
		return
	}
	view, err := s.buildBoardView(specID, r.URL.Query().Get("type"), r.URL.Query().Get("category"))
	if err != nil {
		http.Error(w, "failed to load board", http.StatusInternalServerError)
		return
	}
	s.renderer.RenderPartial(w, "board.html", view)
}

// moveRequest is the JSON body of a move call: the destination column and the
// full item ordering for that column after the move.
type moveRequest struct {
	Status     string   `json:"status"`
	OrderedIDs []string `json:"orderedIds"`
}

func (s *Server) handleMoveItem(w http.ResponseWriter, r *http.Request) {
	specID, ok := parseSpecID(w, r)
	if !ok {
		return
	}
	itemID, ok := parseItemID(w, r)
	if !ok {
		return
	}

	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	status, err := core.ParseStatus(req.Status)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	orderedIDs := make([]ulid.ULID, 0, len(req.OrderedIDs))
	for _, raw := range req.OrderedIDs {
		id, err := ulid.Parse(raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "invalid item id in orderedIds")
			return
		}
		orderedIDs = append(orderedIDs, id)
	}

	if err := s.store.MoveWorkItem(itemID, status, orderedIDs); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeJSONError(w, http.StatusNotFound, "item not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "move failed")
		return
	}

	// Clients refresh the board partial after a settled move; returning the
	// canonical item list here saves the second round trip for API callers.
	items, err := s.store.ListWorkItems(specID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "move applied but reload failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "items": itemPayload(items)})
}

type itemJSON struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Category string `json:"category,omitempty"`
	Status   string `json:"status"`
	Order    int    `json:"order"`
}

func itemPayload(items []core.WorkItem) []itemJSON {
	out := make([]itemJSON, 0, len(items))
	for _, it := range items {
		out = append(out, itemJSON{
			ID:       it.ID.String(),
			Type:     string(it.Type),
			Title:    it.Title,
			Category: it.Category,
			Status:   string(it.Status),
			Order:    it.Order,
		})
	}
	return out
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func (s *Server) handleEditForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := parseSpecID(w, r); !ok {
		return
	}
	itemID, ok := parseItemID(w, r)
	if !ok {
		return
	}
	item, err := s.store.GetWorkItem(itemID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load item", http.StatusInternalServerError)
		return
	}
	s.renderer.RenderPartial(w, "item_edit_form.html", ItemView{
		SpecID:   item.SpecID.String(),
		ID:       item.ID.String(),
		Type:     string(item.Type),
		Title:    item.Title,
		Details:  item.Details,
		Category: item.Category,
		Status:   string(item.Status),
		Order:    item.Order,
	})
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	specID, ok := parseSpecID(w, r)
	if !ok {
		return
	}
	itemID, ok := parseItemID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	var update store.WorkItemUpdate
	if r.Form.Has("title") {
		title := r.FormValue("title")
		if title == "" {
			http.Error(w, "title must not be empty", http.StatusBadRequest)
			return
		}
		update.Title = &title
	}
	if r.Form.Has("details") {
		details := r.FormValue("details")
		update.Details = &details
	}
	if r.Form.Has("category") {
		category := r.FormValue("category")
		update.Category = &category
	}
	if r.Form.Has("type") {
		typ, err := core.ParseItemType(r.FormValue("type"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		update.Type = &typ
	}

	if err := s.store.UpdateWorkItem(itemID, update); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}
		http.Error(w, "update failed", http.StatusInternalServerError)
		return
	}

	view, err := s.buildBoardView(specID, r.FormValue("typeFilter"), r.FormValue("categoryFilter"))
	if err != nil {
		http.Error(w, "failed to reload board", http.StatusInternalServerError)
		return
	}
	s.renderer.RenderPartial(w, "board.html", view)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	specID, ok := parseSpecID(w, r)
	if !ok {
		return
	}
	itemID, ok := parseItemID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeleteWorkItem(itemID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "item not found", http.StatusNotFound)
			return
		}
		http.Error(w, "delete failed", http.StatusInternalServerError)
		return
	}

	view, err := s.buildBoardView(specID, r.FormValue("typeFilter"), r.FormValue("categoryFilter"))
	if err != nil {
		http.Error(w, "failed to reload board", http.StatusInternalServerError)
		return
	}
	s.renderer.RenderPartial(w, "board.html", view)
}
