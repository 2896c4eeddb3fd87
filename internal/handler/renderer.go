package handler

import (
	"fmt"
	"html/template"
	"io"
	"net/http"
	"path/filepath"
	"time"
)

// Renderer manages template parsing and rendering with isolated template sets
type Renderer struct {
	templates map[string]*template.Template
	logger    errorLogger
}

type errorLogger interface {
	Error(msg string, args ...any)
}

// TemplateFuncs returns a FuncMap with custom template functions
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"year": func() int {
			return time.Now().Year()
		},
	}
}

// NewRenderer parses the layout plus every page template under templatesDir.
// Partials (files with a "_" prefix) are rendered standalone, without the
// layout, so they can be swapped into the page by the widget script.
func NewRenderer(templatesDir string, logger errorLogger) (*Renderer, error) {
	templates := make(map[string]*template.Template)

	layoutPath := filepath.Join(templatesDir, "layout.html")
	baseTmpl, err := template.New("base").Funcs(TemplateFuncs()).ParseFiles(layoutPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	pages, err := filepath.Glob(filepath.Join(templatesDir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob templates: %w", err)
	}

	for _, page := range pages {
		baseName := filepath.Base(page)
		if baseName == "layout.html" {
			continue
		}
		pageName := baseName[:len(baseName)-len(filepath.Ext(baseName))]

		if baseName[0] == '_' {
			partial, err := template.New(baseName).Funcs(TemplateFuncs()).ParseFiles(page)
			if err != nil {
				return nil, fmt.Errorf("failed to parse partial %s: %w", page, err)
			}
			templates[pageName] = partial
			continue
		}

		pageTmpl, err := baseTmpl.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone template for %s: %w", page, err)
		}
		pageTmpl, err = pageTmpl.ParseFiles(page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", page, err)
		}
		templates[pageName] = pageTmpl
	}

	return &Renderer{templates: templates, logger: logger}, nil
}

// Render executes a template and writes it to an io.Writer
func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	// Partials execute themselves; pages execute through the layout.
	if name[0] == '_' {
		return tmpl.ExecuteTemplate(w, name+".html", data)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

// RenderHTTP renders to an http.ResponseWriter with error handling
func (r *Renderer) RenderHTTP(w http.ResponseWriter, name string, data interface{}) {
	if err := r.Render(w, name, data); err != nil {
		r.logger.Error("render failed", "template", name, "error", err)
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
	}
}
