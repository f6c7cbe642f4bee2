// Package web renders the server-side HTML pages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names accepted by Render.
const (
	PageHome      = "home"
	PageDashboard = "dashboard"
	PageConfig    = "config"
	PageQuiz      = "quiz"
	PageResults   = "results"
)

var pages = []string{PageHome, PageDashboard, PageConfig, PageQuiz, PageResults}

var funcs = template.FuncMap{
	"add1": func(i int) int { return i + 1 },
	// letter turns an option index into its label: 0 -> A.
	"letter": func(i int) string {
		if i < 0 || i > 25 {
			return "?"
		}
		return string(rune('A' + i))
	},
	"pct": func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
}

// Views holds one parsed template set per page, each sharing the layout.
type Views struct {
	pages map[string]*template.Template
}

// New parses every embedded page.
func New() (*Views, error) {
	v := &Views{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		v.pages[name] = t
	}
	return v, nil
}

// Render executes page into w. Nothing is written to w on a template error.
func (v *Views) Render(w io.Writer, page string, data any) error {
	t, ok := v.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	_, err := buf.WriteTo(w)
	return err
}
