// Package web renders the server-side pages.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"strings"

	"github.com/AbiralTr/Arc-Web/internal/leaderboard"
	"github.com/AbiralTr/Arc-Web/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	PageHome        = "home"
	PageLeaderboard = "leaderboard"
	PageLogin       = "login"
	PageRegister    = "register"
)

var pageNames = []string{PageHome, PageLeaderboard, PageLogin, PageRegister}

var funcs = template.FuncMap{
	"upper": strings.ToUpper,
	"inc":   func(i int) int { return i + 1 },
	"percent": func(cur, need int) int {
		if need <= 0 {
			return 0
		}
		p := cur * 100 / need
		if p > 100 {
			return 100
		}
		if p < 0 {
			return 0
		}
		return p
	},
}

// Page is the data shared by every page.
type Page struct {
	Title         string
	Viewer        string
	ShowAuthLinks bool
}

// StatView is one row of the stat panel.
type StatView struct {
	Key   models.Stat
	Label string
	Value int
}

type HomePage struct {
	Page
	User    *models.UserProgress
	Stats   []StatView
	Pending []models.Quest
	Recent  []models.QuestActivity
}

type LeaderboardPage struct {
	Page
	Board *leaderboard.Board
}

// StatViews lists stats in display order.
func StatViews(stats models.Stats) []StatView {
	all := models.AllStats()
	views := make([]StatView, 0, len(all))
	for _, s := range all {
		views = append(views, StatView{Key: s, Label: s.Label(), Value: stats.Value(s)})
	}
	return views
}

type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page against the shared layout.
func NewRenderer() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return &Renderer{pages: pages}, nil
}

// Render executes page into a buffer first so a template error never leaves
// a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render page %s: %w", page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Pages lists the loaded page names.
func (r *Renderer) Pages() []string {
	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
