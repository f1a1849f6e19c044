package ui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ytget/yt-music/internal/config"
	"github.com/ytget/yt-music/internal/cookies"
	"github.com/ytget/yt-music/internal/model"
	"github.com/ytget/yt-music/internal/session"
)

// Player searches and resolves playable audio
type Player interface {
	Search(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error)
	ResolveAudio(ctx context.Context, videoURL string) (*model.AudioInfo, error)
	ConfigureCookiesIfAvailable() bool
}

// CookieStore saves and reports stored cookies
type CookieStore interface {
	Save(service string, entries []model.CookieEntry) error
	Status(services ...string) []model.CookieStatus
}

// BrowserImporter copies cookies out of installed browsers
type BrowserImporter interface {
	ImportFromInstalledBrowser(ctx context.Context, service, browser string) (string, error)
	TransferPath(service string) string
}

// LoginStarter opens interactive browser logins
type LoginStarter interface {
	Begin(ctx context.Context, service, loginURL string) (*cookies.LoginSession, error)
}

// PlayerDeps groups what the player UI needs
type PlayerDeps struct {
	Player   Player
	Cookies  CookieStore
	Importer BrowserImporter
	Logins   LoginStarter
	Sessions *session.Store
	Loc      *Localization
	Renderer *Renderer
	Settings *config.Settings
	Logger   *slog.Logger
}

// PlayerHandler serves the music player
type PlayerHandler struct {
	PlayerDeps
	logger *slog.Logger
}

// NewPlayerHandler creates the player UI handler
func NewPlayerHandler(deps PlayerDeps) *PlayerHandler {
	return &PlayerHandler{
		PlayerDeps: deps,
		logger:     deps.Logger.With(slog.String("component", "ui.player")),
	}
}

// Routes returns the player router
func (h *PlayerHandler) Routes() http.Handler {
	router := newRouter(h.Logger, h.Loc, h.Sessions)

	router.Group(func(r chi.Router) {
		r.Use(h.Sessions.Middleware())

		r.Get("/", h.HandleIndex)
		r.Post("/search", h.HandleSearch)
		r.Post("/play/{index}", h.HandlePlay)
		r.Post("/cookies/service", h.HandleSelectService)
		r.Post("/cookies/import", h.HandleImport)
		r.Post("/cookies/upload", h.HandleUpload)
		r.Post("/cookies/login", h.HandleLoginStart)
		r.Post("/cookies/login/confirm", h.HandleLoginConfirm)
		r.Post("/cookies/login/abort", h.HandleLoginAbort)
	})

	return router
}

type serviceView struct {
	Key      string
	Name     string
	LoginURL string
	Selected bool
	Status   model.CookieStatus
}

type loginView struct {
	Service  string
	URL      string
	Deadline time.Time
}

type playerPage struct {
	basePage
	Query        string
	Results      []model.SearchResult
	Current      *model.AudioInfo
	Services     []serviceView
	Selected     serviceView
	Browsers     []string
	Login        *loginView
	CookiesInUse bool
}

// HandleIndex renders the player page
func (h *PlayerHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	lang := LanguageFromContext(r.Context())
	flashes := sess.PopFlashes()
	st := sess.Snapshot()

	// a login that timed out in the background is reported once
	if st.Login != nil && st.Login.Done() {
		if login := sess.TakeLogin(); login != nil && login.Err() != nil {
			flashes = append(flashes, session.Flash{Level: session.FlashError, Text: errorMessage(h.Loc, lang, login.Err())})
		}
		st.Login = nil
	}

	page := playerPage{
		basePage:     newBasePage(h.Loc, lang, KeyPlayerTitle, flashes),
		Query:        st.Query,
		Results:      st.Results,
		Current:      st.Current,
		Browsers:     cookies.SupportedBrowsers,
		CookiesInUse: h.Player.ConfigureCookiesIfAvailable(),
	}

	keys := make([]string, 0, len(cookies.KnownServices))
	for _, s := range cookies.KnownServices {
		keys = append(keys, s.Key)
	}
	statuses := h.Cookies.Status(keys...)
	for i, s := range cookies.KnownServices {
		view := serviceView{
			Key:      s.Key,
			Name:     s.Name,
			LoginURL: s.LoginURL,
			Selected: s.Key == st.Service,
			Status:   statuses[i],
		}
		if view.Selected {
			page.Selected = view
		}
		page.Services = append(page.Services, view)
	}

	if st.Login != nil {
		page.Login = &loginView{Service: st.Login.Service, URL: st.Login.URL, Deadline: st.Login.Deadline}
	}

	if err := h.Renderer.Render(w, http.StatusOK, PagePlayer, page); err != nil {
		h.logger.Error("render player", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// HandleSearch runs a search and stores the results in the session
func (h *PlayerHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	lang := LanguageFromContext(r.Context())
	defer redirectHome(w, r)

	query := strings.TrimSpace(r.FormValue(FieldQuery))
	sess.Update(func(st *session.State) { st.Query = query })
	if query == "" {
		sess.AddFlash(session.FlashError, h.Loc.Text(lang, KeyPleaseEnterQuery))
		return
	}

	h.Player.ConfigureCookiesIfAvailable()
	results, err := h.Player.Search(r.Context(), query, h.Settings.SearchMaxResults)
	sess.Update(func(st *session.State) { st.Results = results })
	if err != nil {
		sess.AddFlash(session.FlashError, errorMessage(h.Loc, lang, err))
	}
}

// HandlePlay resolves the audio stream of a search result
func (h *PlayerHandler) HandlePlay(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	lang := LanguageFromContext(r.Context())
	defer redirectHome(w, r)

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		sess.AddFlash(session.FlashError, h.Loc.Text(lang, KeyInvalidSelection))
		return
	}
	result, ok := sess.ResultAt(index)
	if !ok {
		sess.AddFlash(session.FlashError, h.Loc.Text(lang, KeyInvalidSelection))
		return
	}

	h.Player.ConfigureCookiesIfAvailable()
	audio, err := h.Player.ResolveAudio(r.Context(), result.WatchURL())
	if err != nil {
		sess.AddFlash(session.FlashError, errorMessage(h.Loc, lang, err))
		return
	}
	sess.Update(func(st *session.State) { st.Current = audio })
	if !audio.Playable() {
		sess.AddFlash(session.FlashError, h.Loc.Text(lang, KeyAudioUnavailable))
	}
}

// HandleSelectService changes the service the cookie sidebar acts on
func (h *PlayerHandler) HandleSelectService(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if s, ok := cookies.LookupService(r.FormValue(FieldService)); ok {
		sess.Update(func(st *session.State) { st.Service = s.Key })
	}
	redirectHome(w, r)
}

// HandleImport imports cookies of the selected service from an installed browser
func (h *PlayerHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	lang := LanguageFromContext(r.Context())
	defer redirectHome(w, r)

	browser := r.FormValue(FieldBrowser)
	if _, err := h.Importer.ImportFromInstalledBrowser(r.Context(), selectedService(sess), browser); err != nil {
		sess.AddFlash(session.FlashError, errorMessage(h.Loc, lang, err))
		return
	}
	sess.AddFlash(session.FlashSuccess, h.Loc.Format(lang, KeyCookiesImported, browser))
}

// HandleUpload accepts a JSON export (stored) or a Netscape file (written as the service's transfer file)
func (h *PlayerHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	lang := LanguageFromContext(r.Context())
	service := selectedService(sess)
	defer redirectHome(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, MaxCookieUploadBytes+4096)
	file, header, err := r.FormFile(FieldCookies)
	if err != nil {
		sess.AddFlash(session.FlashError, h.Loc.Text(lang, KeyUnsupportedUpload))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxCookieUploadBytes))
	if err != nil {
		sess.AddFlash(session.FlashError, errorMessage(h.Loc, lang, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)))
		return
	}

	var entries []model.CookieEntry
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".json":
		entries, err = cookies.ParseJSONCookies(data)
		if err == nil {
			err = h.Cookies.Save(service, entries)
		}
	case ".txt":
		entries, err = cookies.ParseTransferFormat(bytes.NewReader(data))
		if err == nil {
			err = cookies.WriteTransferFile(h.Importer.TransferPath(service), entries)
		}
	default:
		sess.AddFlash(session.FlashError, h.Loc.Text(lang, KeyUnsupportedUpload))
		return
	}

	if err != nil {
		sess.AddFlash(session.FlashError, errorMessage(h.Loc, lang, err))
		return
	}
	h.logger.Info("cookies uploaded", slog.String("service", service), slog.String("file", header.Filename), slog.Int("count", len(entries)))
	sess.AddFlash(session.FlashSuccess, h.Loc.Format(lang, KeyCookiesSaved, len(entries), service))
}

// HandleLoginStart opens a browser window for the selected service
func (h *PlayerHandler) HandleLoginStart(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	lang := LanguageFromContext(r.Context())
	service := selectedService(sess)
	defer redirectHome(w, r)

	loginURL := strings.TrimSpace(r.FormValue(FieldURL))
	if loginURL == "" {
		if s, ok := cookies.LookupService(service); ok {
			loginURL = s.LoginURL
		}
	}

	if previous := sess.TakeLogin(); previous != nil {
		previous.Abort()
	}

	login, err := h.Logins.Begin(r.Context(), service, loginURL)
	if err != nil {
		sess.AddFlash(session.FlashError, errorMessage(h.Loc, lang, err))
		return
	}
	sess.Update(func(st *session.State) { st.Login = login })
	sess.AddFlash(session.FlashInfo, h.Loc.Text(lang, KeyLoginStarted))
}

// HandleLoginConfirm saves the cookies of the open login browser
func (h *PlayerHandler) HandleLoginConfirm(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	lang := LanguageFromContext(r.Context())
	defer redirectHome(w, r)

	login := sess.TakeLogin()
	if login == nil {
		sess.AddFlash(session.FlashError, h.Loc.Text(lang, KeyNoLoginPending))
		return
	}

	entries, err := login.Confirm(r.Context())
	if err != nil {
		if r.Context().Err() != nil && !login.Done() {
			// request gone, keep the browser for another attempt
			sess.Update(func(st *session.State) { st.Login = login })
		}
		sess.AddFlash(session.FlashError, errorMessage(h.Loc, lang, err))
		return
	}
	sess.AddFlash(session.FlashSuccess, h.Loc.Format(lang, KeyCookiesSaved, len(entries), login.Service))
}

// HandleLoginAbort closes the open login browser without saving
func (h *PlayerHandler) HandleLoginAbort(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if login := sess.TakeLogin(); login != nil {
		login.Abort()
	}
	redirectHome(w, r)
}

func selectedService(sess *session.Session) string {
	service := sess.Snapshot().Service
	if service == "" {
		return cookies.ServiceYouTube
	}
	return service
}

func newBasePage(loc *Localization, lang, titleKey string, flashes []session.Flash) basePage {
	views := make([]flashView, 0, len(flashes))
	for _, f := range flashes {
		views = append(views, flashView{Level: f.Level, Text: f.Text})
	}
	return basePage{
		Lang:      lang,
		Languages: loc.GetAvailableLanguages(),
		Title:     loc.Text(lang, titleKey),
		Flashes:   views,
	}
}
