package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/Belphemur/Raznime/internal/seo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	layoutFile   = "templates/layout.html"
	partialsFile = "templates/partials.html"
)

// page is the data every full page template receives.
type page struct {
	Meta   seo.Metadata
	Query  string
	Toasts []string
	Data   any
}

type renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"title":     func(s string) string { return cases.Title(language.English).String(strings.ToLower(s)) },
	"genreHref": genreHref,
	"add":       func(a, b int) int { return a + b },
}

// genreHref links a genre name as the detail API returns it ("Slice of Life").
func genreHref(name string) string {
	return "/genre/" + strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

// newRenderer parses every page template on top of the layout and partials.
func newRenderer() (*renderer, error) {
	base, err := template.New("base").Funcs(funcs).ParseFS(templateFS, layoutFile, partialsFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &renderer{pages: make(map[string]*template.Template)}
	for _, file := range files {
		if file == layoutFile || file == partialsFile {
			continue
		}
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", file, err)
		}
		r.pages[strings.TrimSuffix(path.Base(file), ".html")] = t
	}
	return r, nil
}

// render executes the named template of a page into a buffer first so that template
// failures never leave a half written response.
func (r *renderer) render(w http.ResponseWriter, status int, pageName, templateName string, data any) error {
	t, ok := r.pages[pageName]
	if !ok {
		return fmt.Errorf("unknown page %q", pageName)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, templateName, data); err != nil {
		return fmt.Errorf("render %s/%s: %w", pageName, templateName, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
