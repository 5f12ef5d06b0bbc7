package render

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html.tmpl"))

// Page is the data of the "page" template.
type Page struct {
	VideoURL string
	View     View
}

// Templates returns the parsed "page" and "results" templates.
func Templates() *template.Template {
	return templates
}

// WriteHTML writes the status region and the results container for v.
func WriteHTML(w io.Writer, v View) error {
	return templates.ExecuteTemplate(w, "results", v)
}
