// Package view renders the console's HTML pages.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"floradmin/internal/model"
)

//go:embed "templates"
var FS embed.FS

const layout = "templates/layout.html"

// Page is the data every page template receives.
type Page struct {
	Title  string
	User   *model.Identity
	Flash  string
	Error  string
	Fields map[string]string
	Data   any
}

// Field returns the validation message for name.
func (p Page) Field(name string) string {
	return p.Fields[name]
}

// IsAdmin reports whether the viewer is an administrator.
func (p Page) IsAdmin() bool {
	return p.User != nil && p.User.Role == model.RoleAdmin
}

// Renderer implements echo.Renderer over the embedded templates. Each page
// is parsed together with the layout and rendered through it.
type Renderer struct {
	pages map[string]*template.Template
}

var _ echo.Renderer = (*Renderer)(nil)

// New parses every page template.
func New() (*Renderer, error) {
	names, err := fs.Glob(FS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, name := range names {
		if name == layout {
			continue
		}
		t, err := template.New(path.Base(name)).Funcs(funcs).ParseFS(FS, layout, name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[path.Base(name)] = t
	}
	return r, nil
}

// Render executes page name with data.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return "$" + d.StringFixed(2)
	},
	"decimal": func(d *decimal.Decimal) string {
		if d == nil {
			return ""
		}
		return d.String()
	},
	"int": func(n *int) string {
		if n == nil {
			return ""
		}
		return fmt.Sprint(*n)
	},
	"contains": func(list []string, s string) bool {
		for _, v := range list {
			if v == s {
				return true
			}
		}
		return false
	},
	"lookup": func(m map[string]string, key fmt.Stringer) string {
		if v, ok := m[key.String()]; ok {
			return v
		}
		return key.String()
	},
	"names": func(m map[string]string, refs model.Refs) []string {
		out := make([]string, 0, len(refs))
		for _, r := range refs {
			if v, ok := m[r.String()]; ok {
				out = append(out, v)
			} else {
				out = append(out, r.String())
			}
		}
		return out
	},
}
