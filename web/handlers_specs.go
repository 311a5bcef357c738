// ABOUTME: Handlers for the spec list page and the generate-backlog form.
// ABOUTME: Generation runs the two-stage pipeline and redirects to the new board.
package web

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/2389-research/storyboard/core"
	"github.com/2389-research/storyboard/generate"
)

// SpecRow is the view-model for one spec in the index list.
type SpecRow struct {
	ID        string
	Title     string
	Goal      string
	CreatedAt time.Time
}

// IndexData is the view-model for the index page.
type IndexData struct {
	Specs       []SpecRow
	HasProvider bool
	Provider    string
	Error       string
	Form        core.Brief
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderIndex(w, r, IndexData{})
}

// renderIndex loads the spec list and renders the index page, merging in any
// form state and error message from a failed generation attempt.
func (s *Server) renderIndex(w http.ResponseWriter, _ *http.Request, data IndexData) {
	specs, err := s.store.ListSpecs()
	if err != nil {
		http.Error(w, "failed to load specs", http.StatusInternalServerError)
		return
	}
	for _, sp := range specs {
		data.Specs = append(data.Specs, SpecRow{
			ID:        sp.ID.String(),
			Title:     sp.Title,
			Goal:      sp.Goal,
			CreatedAt: sp.CreatedAt,
		})
	}
	if s.gateway != nil {
		data.HasProvider = true
		data.Provider = s.gateway.Name()
	}
	s.renderer.Render(w, "index.html", data)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.pipeline == nil {
		s.renderIndex(w, r, IndexData{
			Error: "No model provider configured. Set GEMINI_API_KEY or OPENAI_API_KEY and restart.",
		})
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	brief := core.Brief{
		Title:       r.FormValue("title"),
		Goal:        r.FormValue("goal"),
		Users:       r.FormValue("users"),
		Constraints: r.FormValue("constraints"),
		Risks:       r.FormValue("risks"),
	}

	res, err := s.pipeline.Generate(r.Context(), brief)
	if err != nil {
		var genErr *generate.GenerationError
		msg := err.Error()
		if errors.As(err, &genErr) {
			msg = "Generation failed at the " + genErr.Stage + " stage. Check the provider configuration and try again."
			log.Printf("generate failed stage=%s err=%v", genErr.Stage, genErr.Err)
		}
		s.renderIndex(w, r, IndexData{Error: msg, Form: brief})
		return
	}
	if !res.Success {
		s.renderIndex(w, r, IndexData{
			Error: "The model returned output that could not be parsed. Nothing was saved; try again.",
			Form:  brief,
		})
		return
	}

	http.Redirect(w, r, "/specs/"+res.SpecID.String(), http.StatusSeeOther)
}
