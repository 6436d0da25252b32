package storefront

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"io/fs"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Static returns the stylesheet and script served under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("store").
		Funcs(template.FuncMap{
			"money":   money,
			"credits": wholeCredits,
		}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render executes the store page into w. Output is buffered so a template
// error never leaves a half written page.
func (r *Renderer) Render(w io.Writer, p *Page) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "store.html", p); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}
