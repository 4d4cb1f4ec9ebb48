package echoweb

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templatesFS embed.FS

type renderer struct {
	templates *template.Template
}

var templateFuncs = template.FuncMap{
	"deref": func(f *float64) float64 {
		if f == nil {
			return 0
		}
		return *f
	},
}

func newRenderer() *renderer {
	return &renderer{
		templates: template.Must(template.New("").Funcs(templateFuncs).ParseFS(templatesFS, "templates/*.html")),
	}
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
