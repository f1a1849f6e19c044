package ui

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ytget/yt-music/internal/config"
	"github.com/ytget/yt-music/internal/download"
	"github.com/ytget/yt-music/internal/model"
	"github.com/ytget/yt-music/internal/platform"
	"github.com/ytget/yt-music/internal/session"
)

// DownloaderDeps groups what the downloader UI needs
type DownloaderDeps struct {
	Downloader download.Downloader
	Sessions   *session.Store
	Loc        *Localization
	Renderer   *Renderer
	Settings   *config.Settings
	Logger     *slog.Logger
}

// DownloaderHandler serves the download page
type DownloaderHandler struct {
	DownloaderDeps
	logger *slog.Logger
}

// NewDownloaderHandler creates the downloader UI handler
func NewDownloaderHandler(deps DownloaderDeps) *DownloaderHandler {
	return &DownloaderHandler{
		DownloaderDeps: deps,
		logger:         deps.Logger.With(slog.String("component", "ui.downloader")),
	}
}

// Routes returns the downloader router
func (h *DownloaderHandler) Routes() http.Handler {
	router := newRouter(h.Logger, h.Loc, h.Sessions)

	router.Group(func(r chi.Router) {
		r.Use(h.Sessions.Middleware())

		r.Get("/", h.HandleIndex)
		r.Post("/download", h.HandleDownload)
		r.Post("/playlist", h.HandlePlaylist)
		r.Post("/archive", h.HandleArchive)
		r.Post("/clear", h.HandleClear)
	})
	router.Get("/archive", h.HandleArchiveFile)
	router.Get("/files/{name}", h.HandleFile)

	return router
}

type downloaderPage struct {
	basePage
	Qualities      []string
	DefaultQuality string
	Tasks          []*model.DownloadTask
	Playlist       *model.Playlist
	Files          []model.DownloadedFile
	ArchiveReady   bool
}

// HandleIndex renders the downloader page
func (h *DownloaderHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	lang := LanguageFromContext(r.Context())
	flashes := sess.PopFlashes()
	st := sess.Snapshot()

	files, err := h.Downloader.ListDownloads(h.Settings.DownloadDir)
	if err != nil {
		h.logger.Warn("list downloads", slog.Any("error", err))
		flashes = append(flashes, session.Flash{Level: session.FlashError, Text: errorMessage(h.Loc, lang, err)})
	}

	page := downloaderPage{
		basePage:       newBasePage(h.Loc, lang, KeyDownloaderTitle, flashes),
		DefaultQuality: string(h.Settings.DefaultQuality),
		Tasks:          st.Tasks,
		Playlist:       st.Playlist,
		Files:          files,
		ArchiveReady:   isRegularFile(h.Settings.ArchivePath),
	}
	for _, q := range config.GetQualityPresetOptions() {
		page.Qualities = append(page.Qualities, string(q))
	}

	if err := h.Renderer.Render(w, http.StatusOK, PageDownloader, page); err != nil {
		h.logger.Error("render downloader", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// HandleDownload downloads one URL as video or audio
func (h *DownloaderHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	lang := LanguageFromContext(r.Context())
	defer redirectHome(w, r)

	url := strings.TrimSpace(r.FormValue(FieldURL))
	if url == "" {
		sess.AddFlash(session.FlashError, h.Loc.Text(lang, KeyPleaseEnterURL))
		return
	}

	kind := model.DownloadKind(r.FormValue(FieldKind))
	if kind != model.KindAudio {
		kind = model.KindVideo
	}
	quality := r.FormValue(FieldQuality)
	if !config.IsValidQuality(config.QualityPreset(quality)) {
		quality = string(h.Settings.DefaultQuality)
	}

	task := h.Downloader.Run(r.Context(), download.Request{
		URL:     url,
		Kind:    kind,
		Quality: quality,
		Dir:     h.Settings.DownloadDir,
	})
	sess.AddTask(task)

	if task.Status == model.TaskStatusCompleted {
		sess.AddFlash(session.FlashSuccess, h.Loc.Format(lang, KeyDownloadCompleted, filepath.Base(task.OutputPath)))
		return
	}
	err := task.Err()
	if err == nil {
		err = errors.New(task.LastError)
	}
	sess.AddFlash(session.FlashError, errorMessage(h.Loc, lang, err))
}

// HandlePlaylist expands a playlist URL into per-video download rows
func (h *DownloaderHandler) HandlePlaylist(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	lang := LanguageFromContext(r.Context())
	defer redirectHome(w, r)

	url := strings.TrimSpace(r.FormValue(FieldURL))
	if url == "" {
		sess.AddFlash(session.FlashError, h.Loc.Text(lang, KeyPleaseEnterURL))
		return
	}

	playlist, err := h.Downloader.ExpandPlaylist(r.Context(), url)
	if err != nil {
		sess.AddFlash(session.FlashError, errorMessage(h.Loc, lang, err))
		return
	}
	sess.Update(func(st *session.State) { st.Playlist = playlist })
	sess.AddFlash(session.FlashInfo, h.Loc.Format(lang, KeyPlaylistLoaded, len(playlist.Videos)))
}

// HandleArchive zips every downloaded file
func (h *DownloaderHandler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	lang := LanguageFromContext(r.Context())
	defer redirectHome(w, r)

	if _, err := h.Downloader.ArchiveAll(h.Settings.DownloadDir, h.Settings.ArchivePath); err != nil {
		sess.AddFlash(session.FlashError, errorMessage(h.Loc, lang, err))
		return
	}
	sess.AddFlash(session.FlashSuccess, h.Loc.Text(lang, KeyArchiveCreated))
}

// HandleClear deletes every downloaded file
func (h *DownloaderHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	lang := LanguageFromContext(r.Context())
	defer redirectHome(w, r)

	removed, err := h.Downloader.ClearAll(h.Settings.DownloadDir)
	if err != nil {
		sess.AddFlash(session.FlashError, errorMessage(h.Loc, lang, err))
	}
	if removed > 0 || err == nil {
		sess.AddFlash(session.FlashSuccess, h.Loc.Format(lang, KeyFilesCleared, removed))
	}
}

// HandleArchiveFile sends the last built archive
func (h *DownloaderHandler) HandleArchiveFile(w http.ResponseWriter, r *http.Request) {
	serveAttachment(w, r, h.Settings.ArchivePath, ContentTypeZip)
}

// HandleFile sends one downloaded file
func (h *DownloaderHandler) HandleFile(w http.ResponseWriter, r *http.Request) {
	path, err := platform.ResolveInDir(h.Settings.DownloadDir, chi.URLParam(r, "name"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	serveAttachment(w, r, path, "")
}

func serveAttachment(w http.ResponseWriter, r *http.Request, path, contentType string) {
	f, err := os.Open(path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": info.Name()}))
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
