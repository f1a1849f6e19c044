package ui

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"time"

	"github.com/ytget/yt-music/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Page templates
const (
	PagePlayer     = "player.html"
	PageDownloader = "downloader.html"

	layoutTemplate = "templates/layout.html"
	timeLayout     = "2006-01-02 15:04"
)

// staticFileSystem serves the embedded static directory
func staticFileSystem() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}

// Renderer executes the embedded page templates
type Renderer struct {
	pages map[string]*template.Template
	loc   *Localization
}

// NewRenderer parses every page together with the shared layout
func NewRenderer(loc *Localization) (*Renderer, error) {
	funcs := template.FuncMap{
		"t": loc.Text,
		"tf": func(lang, key string, args ...any) string {
			return loc.Format(lang, key, args...)
		},
		"duration": model.FormatDuration,
		"size":     model.FormatSize,
		"short": func(r model.SearchResult) string {
			return r.ShortTitle(TitleMaxRunes)
		},
		"when": func(t time.Time) string {
			if t.IsZero() {
				return DashPlaceholder
			}
			return t.Local().Format(timeLayout)
		},
		"icon": func(kind model.DownloadKind) string {
			if kind == model.KindAudio {
				return IconMusic
			}
			return IconVideo
		},
		"sep":        func() string { return MiddleDotSeparator },
		"pathescape": url.PathEscape,
	}

	r := &Renderer{pages: make(map[string]*template.Template), loc: loc}
	for _, page := range []string{PagePlayer, PageDownloader} {
		tmpl, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, layoutTemplate, "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[page] = tmpl
	}
	return r, nil
}

// Render writes page with data. Output is buffered so a template error
// never leaves a half-written page.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", ContentTypeHTML)
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// basePage is the data every page shares
type basePage struct {
	Lang      string
	Languages map[string]string
	Title     string
	Flashes   []flashView
}

type flashView struct {
	Level string
	Text  string
}
