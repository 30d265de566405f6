// Package templates parses the embedded server-rendered views. Every page is
// parsed together with the base layout and the shared partials into its own
// template set.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"
)

//go:embed *.html
var files embed.FS

var pages = []string{
	"home.html",
	"home_anon.html",
	"signup.html",
	"login.html",
	"users_index.html",
	"users_show.html",
	"users_following.html",
	"users_followers.html",
	"users_edit.html",
	"users_liked.html",
	"messages_new.html",
	"messages_show.html",
}

var funcs = template.FuncMap{
	"datetime": func(t time.Time) string {
		return t.Format("2 January 2006 at 15:04")
	},
}

// Renderer holds the parsed template sets keyed by page name.
type Renderer struct {
	sets map[string]*template.Template
}

// New parses all embedded pages.
func New() (*Renderer, error) {
	sets := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		ts, err := template.New("base.html").Funcs(funcs).
			ParseFS(files, "base.html", "message_card.html", page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		sets[page] = ts
	}
	return &Renderer{sets: sets}, nil
}

// Render writes the named page into w with the given data.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	ts, ok := r.sets[page]
	if !ok {
		return fmt.Errorf("unknown template %q", page)
	}
	return ts.ExecuteTemplate(w, "base.html", data)
}
