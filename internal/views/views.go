// Package views renders the server-side pages of the site.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/dto"
	"github.com/Maheshwaran-fullstackdeveloper/Natours-Full-Stack-App/internal/models"
)

//go:embed templates/*.html
var files embed.FS

// Pages that can be rendered.
const (
	Overview = "overview"
	Tour     = "tour"
	Login    = "login"
	Signup   = "signup"
	Account  = "account"
	Error    = "error"
)

var pages = []string{Overview, Tour, Login, Signup, Account, Error}

// Page is the data passed to every template.
type Page struct {
	Title string
	User  *models.User
	Alert string

	Tours []models.Tour
	Tour  *TourDetail
	Msg   string
}

// TourDetail is a tour with its guides and reviews resolved.
type TourDetail struct {
	models.Tour
	Guides  []dto.UserSummary
	Reviews []dto.ReviewResponse
}

var funcs = template.FuncMap{
	"upper": strings.ToUpper,
	"firstName": func(name string) string {
		first, _, _ := strings.Cut(strings.TrimSpace(name), " ")
		return first
	},
	"monthYear": func(t time.Time) string { return t.Format("January 2006") },
	"img": func(folder, name string) string {
		return "/img/" + folder + "/" + name
	},
	"stars": func(rating float64) []bool {
		out := make([]bool, 5)
		for i := range out {
			out[i] = float64(i+1) <= rating
		}
		return out
	},
	"inc": func(i int) int { return i + 1 },
	"split": func(text string) []string {
		var out []string
		for _, p := range strings.Split(text, "\n") {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	},
}

// Renderer executes the embedded page templates.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page together with the shared layout.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.New("base.html").Funcs(funcs).ParseFS(files, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render writes page with the given status. Nothing is written when the
// template fails.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, p Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	if p.Title != "" {
		p.Title = "Natours | " + p.Title
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base.html", p); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
