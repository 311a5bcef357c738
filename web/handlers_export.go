// ABOUTME: Handlers for downloading a spec's backlog as Markdown or YAML files.
// ABOUTME: Both exports are served as attachments named after the spec id.
package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/2389-research/storyboard/export"
	"github.com/2389-research/storyboard/store"
)

func (s *Server) handleExportMarkdown(w http.ResponseWriter, r *http.Request) {
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
	items, err := s.store.ListWorkItems(specID)
	if err != nil {
		http.Error(w, "failed to load items", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.md", specID))
	_, _ = w.Write([]byte(export.ExportMarkdown(spec, items)))
}

func (s *Server) handleExportYAML(w http.ResponseWriter, r *http.Request) {
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
	items, err := s.store.ListWorkItems(specID)
	if err != nil {
		http.Error(w, "failed to load items", http.StatusInternalServerError)
		return
	}

	out, err := export.ExportYAML(spec, items)
	if err != nil {
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.yaml", specID))
	_, _ = w.Write([]byte(out))
}
