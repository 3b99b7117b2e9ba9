package storefront

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"ProductCatalog/internal/catalog"
	"ProductCatalog/web"
)

const (
	pageProducts = "products.html"
	pageForm     = "product_form.html"
	pageError    = "error.html"
)

// Templates holds each page parsed together with the shared layout.
type Templates struct {
	pages map[string]*template.Template
}

// LoadTemplates parses the embedded page templates.
func LoadTemplates() (*Templates, error) {
	return loadTemplates(web.TemplatesFS())
}

func loadTemplates(tfs fs.FS) (*Templates, error) {
	layout, err := fs.ReadFile(tfs, "layout.html")
	if err != nil {
		return nil, fmt.Errorf("reading layout template: %w", err)
	}

	ts := &Templates{pages: make(map[string]*template.Template)}
	for _, name := range []string{pageProducts, pageForm, pageError} {
		body, err := fs.ReadFile(tfs, name)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", name, err)
		}

		tmpl, err := template.New(name).Parse(string(layout))
		if err != nil {
			return nil, fmt.Errorf("parsing layout for %s: %w", name, err)
		}
		if tmpl, err = tmpl.Parse(string(body)); err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		ts.pages[name] = tmpl
	}
	return ts, nil
}

// Render executes the named page into a buffer first, so a template error
// never leaves a half-written response.
func (ts *Templates) Render(w http.ResponseWriter, status int, name string, data pageData) error {
	tmpl, ok := ts.pages[name]
	if !ok {
		return fmt.Errorf("template %s not loaded", name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// pageData is shared by every page; each template reads the fields it needs.
type pageData struct {
	Title string
	Error string

	Products []catalog.Product

	Product    catalog.Product
	Amounts    amounts
	Action     string
	Violations map[string]string
	Categories []catalog.Category

	Message string
}
