// ABOUTME: Template loading, rendering, and FuncMap for the storyboard web UI.
// ABOUTME: Provides TemplateRenderer that parses base + partials from an fs.FS.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"
)

// TemplateRenderer loads and renders HTML templates for the web UI.
// Each page gets its own clone of the base+partials set because pages define
// the same "title" and "content" blocks and would otherwise clobber each
// other. Templates are parsed once at construction and reused per request.
type TemplateRenderer struct {
	pages    map[string]*template.Template
	partials *template.Template
}

// NewTemplateRenderer parses all templates from the given filesystem.
// It expects templates/base.html, page templates, and a templates/partials/
// subdirectory with partial templates.
func NewTemplateRenderer(fsys fs.FS) (*TemplateRenderer, error) {
	funcMap := buildFuncMap()

	base, err := template.New("base.html").Funcs(funcMap).ParseFS(fsys, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("parse base template: %w", err)
	}

	err = fs.WalkDir(fsys, "templates/partials", func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}
		if _, parseErr := base.ParseFS(fsys, path); parseErr != nil {
			return fmt.Errorf("parse partial %s: %w", path, parseErr)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse partial templates: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, page := range []string{"index.html", "board_page.html"} {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone base set for %s: %w", page, err)
		}
		if _, err := clone.ParseFS(fsys, "templates/"+page); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", page, err)
		}
		pages[page] = clone
	}

	return &TemplateRenderer{pages: pages, partials: base}, nil
}

// Render executes a named page template inside the base layout.
func (r *TemplateRenderer) Render(w http.ResponseWriter, pageName string, data any) {
	page, ok := r.pages[pageName]
	if !ok {
		http.Error(w, fmt.Sprintf("unknown page template %q", pageName), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.ExecuteTemplate(w, "base.html", data); err != nil {
		http.Error(w, fmt.Sprintf("template render error: %v", err), http.StatusInternalServerError)
	}
}

// RenderPartial executes a named partial template with no layout wrapping.
func (r *TemplateRenderer) RenderPartial(w http.ResponseWriter, partialName string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := r.partials.ExecuteTemplate(w, partialName, data); err != nil {
		http.Error(w, fmt.Sprintf("partial render error: %v", err), http.StatusInternalServerError)
	}
}

func buildFuncMap() template.FuncMap {
	return template.FuncMap{
		"markdown": markdownToHTML,
		"timeAgo":  timeAgo,
		"truncate": truncate,
		"typeIcon": typeIcon,
	}
}

// markdownToHTML converts a markdown string to HTML using goldmark.
// Raw HTML in the input is escaped by goldmark's default renderer.
func markdownToHTML(input string) template.HTML {
	var buf bytes.Buffer
	md := goldmark.New()
	if err := md.Convert([]byte(input), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(input))
	}
	return template.HTML(buf.String())
}

// timeAgo formats a time as a relative duration string (e.g. "5m ago", "2h ago").
func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hours := int(d.Hours())
		if hours == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hours)
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	}
}

// truncate shortens a string to at most maxLen characters, appending "..." if truncated.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// typeIcon returns an emoji for a work item type.
func typeIcon(itemType string) string {
	switch itemType {
	case "STORY":
		return "\U0001f4d6"
	case "TASK":
		return "\U0001f4cb"
	default:
		return "\U0001f4cc"
	}
}
