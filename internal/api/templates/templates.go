// Package templates holds the server-rendered pages.
package templates

import (
	"embed"
	"html/template"
	"time"

	"github.com/vietanh2810/eventsplus-api/internal/domain"
)

//go:embed html/*.html
var files embed.FS

var funcs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Mon 02 Jan 2006")
	},
	"formatDateTime": func(t time.Time) string {
		return t.Format("02/01/2006 15:04")
	},
	"spotsLeft": func(e domain.Event) int {
		return e.SpotsLeft()
	},
	"participantCount": func(e domain.Event) int {
		return len(e.Participants)
	},
	"isAdmin": func(i domain.Identity) bool {
		return i.IsAdmin()
	},
	"terminal": func(s domain.EventStatus) bool {
		return s.Terminal()
	},
}

// Load parses every page. Pages are named after their file.
func Load() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "html/*.html")
}
