// Package render turns built PR reports into the static output page.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/reez/ackamoto/internal/models"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var funcs = template.FuncMap{
	"date":     func(t time.Time) string { return t.UTC().Format("2006-01-02") },
	"datetime": func(t time.Time) string { return t.UTC().Format("2006-01-02 15:04 MST") },
	"short": func(hash string) string {
		if len(hash) > 12 {
			return hash[:12]
		}
		return hash
	},
}

var templates = template.Must(
	template.New("render").Funcs(funcs).ParseFS(templatesFS, "templates/*.tmpl"),
)

// PageData is everything the page template needs.
type PageData struct {
	Mode        models.Mode
	Repo        string
	GeneratedAt time.Time
	Reports     []models.PRReport
}

// Page renders the report page HTML.
func Page(data PageData) ([]byte, error) {
	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = time.Now()
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "page.html.tmpl", data); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}

// ErrorData is everything the error page template needs.
type ErrorData struct {
	Mode        models.Mode
	Message     string
	GeneratedAt time.Time
}

// ErrorPage renders the degraded page written when fetching fails, so the
// published site explains itself instead of going stale silently.
func ErrorPage(data ErrorData) ([]byte, error) {
	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = time.Now()
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "error.html.tmpl", data); err != nil {
		return nil, fmt.Errorf("render error page: %w", err)
	}
	return buf.Bytes(), nil
}
