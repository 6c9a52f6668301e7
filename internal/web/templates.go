// Package web holds the embedded HTML templates and the helpers handlers use
// to render pages and pass flash messages across redirects.
package web

import (
	"embed"         // Templates compiled into the binary
	"html/template" // HTML rendering
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// LoadTemplates parses every page template. Page templates are named after
// their file, e.g. "home.tmpl".
func LoadTemplates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.tmpl")
}
