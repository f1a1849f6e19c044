package ui

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/ytget/yt-music/internal/config"
	"github.com/ytget/yt-music/internal/download"
	"github.com/ytget/yt-music/internal/model"
	"github.com/ytget/yt-music/internal/platform"
)

type fakeDownloader struct {
	mu       sync.Mutex
	requests []download.Request
	failWith error
	playlist *model.Playlist
}

func (f *fakeDownloader) Run(_ context.Context, req download.Request) *model.DownloadTask {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)

	task := &model.DownloadTask{
		ID:         "task-1",
		URL:        req.URL,
		Kind:       req.Kind,
		Quality:    req.Quality,
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
	}
	if f.failWith != nil {
		task.Fail(f.failWith)
		return task
	}

	ext := ".mp4"
	if req.Kind == model.KindAudio {
		ext = ".mp3"
	}
	task.OutputPath = filepath.Join(req.Dir, "Some Song"+ext)
	task.Title = "Some Song"
	task.Status = model.TaskStatusCompleted
	os.WriteFile(task.OutputPath, []byte("media"), 0o644)
	task.FileSize = 5
	return task
}

func (f *fakeDownloader) DownloadVideo(context.Context, string, string, string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeDownloader) DownloadAudio(context.Context, string, string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeDownloader) ExpandPlaylist(context.Context, string) (*model.Playlist, error) {
	if f.playlist == nil {
		return nil, errors.Join(model.ErrInvalidInput, errors.New("not a playlist URL"))
	}
	return f.playlist, nil
}

func (f *fakeDownloader) ListDownloads(dir string) ([]model.DownloadedFile, error) {
	return platform.ListFiles(dir)
}

func (f *fakeDownloader) ArchiveFiles([]string, string) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeDownloader) ArchiveAll(_ string, archivePath string) (string, error) {
	return archivePath, os.WriteFile(archivePath, []byte("PK"), 0o644)
}

func (f *fakeDownloader) ClearAll(dir string) (int, error) {
	files, err := platform.ListFiles(dir)
	if err != nil {
		return 0, err
	}
	for _, file := range files {
		os.Remove(filepath.Join(dir, file.Name))
	}
	return len(files), nil
}

func (f *fakeDownloader) lastRequest() download.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return download.Request{}
	}
	return f.requests[len(f.requests)-1]
}

type downloaderFixture struct {
	downloader *fakeDownloader
	settings   *config.Settings
	browser    *browser
}

func newDownloaderFixture(t *testing.T) *downloaderFixture {
	t.Helper()
	root := t.TempDir()
	downloads := filepath.Join(root, "downloads")
	if err := os.MkdirAll(downloads, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	loc := NewLocalization()
	f := &downloaderFixture{
		downloader: &fakeDownloader{},
		settings: &config.Settings{
			DownloadDir:    downloads,
			ArchivePath:    filepath.Join(root, "downloads.zip"),
			DefaultQuality: config.Quality720,
		},
	}
	handler := NewDownloaderHandler(DownloaderDeps{
		Downloader: f.downloader,
		Sessions:   testSessions(),
		Loc:        loc,
		Renderer:   testRenderer(t, loc),
		Settings:   f.settings,
		Logger:     testLogger(),
	})
	f.browser = newBrowser(t, handler.Routes())
	return f
}

func TestDownloaderIndex(t *testing.T) {
	f := newDownloaderFixture(t)

	status, body := f.browser.get("/")
	if status != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	assertContains(t, body, "YT Downloader")
	assertContains(t, body, `<option value="720" selected>`)
	assertNotContains(t, body, `href="/archive"`)
}

func TestDownloaderDownloadVideo(t *testing.T) {
	f := newDownloaderFixture(t)

	_, body := f.browser.post("/download", url.Values{
		FieldURL:     {" https://www.youtube.com/watch?v=abc "},
		FieldKind:    {"video"},
		FieldQuality: {"1080"},
	})

	req := f.downloader.lastRequest()
	if req.URL != "https://www.youtube.com/watch?v=abc" {
		t.Errorf("Expected trimmed URL, got %q", req.URL)
	}
	if req.Kind != model.KindVideo || req.Quality != "1080" || req.Dir != f.settings.DownloadDir {
		t.Errorf("Unexpected request %+v", req)
	}
	assertContains(t, body, "Saved Some Song.mp4")
	assertContains(t, body, "/files/Some%20Song.mp4")
}

func TestDownloaderDownloadAudioDefaults(t *testing.T) {
	f := newDownloaderFixture(t)

	f.browser.post("/download", url.Values{
		FieldURL:     {"https://youtu.be/abc"},
		FieldKind:    {"audio"},
		FieldQuality: {"999"},
	})

	req := f.downloader.lastRequest()
	if req.Kind != model.KindAudio {
		t.Errorf("Expected audio kind, got %q", req.Kind)
	}
	if req.Quality != string(config.Quality720) {
		t.Errorf("Expected unknown quality to fall back to 720, got %q", req.Quality)
	}
}

func TestDownloaderDownloadFailure(t *testing.T) {
	f := newDownloaderFixture(t)
	f.downloader.failWith = fmt.Errorf("%w: video unavailable", model.ErrExtraction)

	_, body := f.browser.post("/download", url.Values{FieldURL: {"https://youtu.be/gone"}})
	assertContains(t, body, "YouTube extraction failed: extraction failed: video unavailable")
	assertContains(t, body, "status-Error")
}

func TestDownloaderDownloadEmptyURL(t *testing.T) {
	f := newDownloaderFixture(t)

	_, body := f.browser.post("/download", url.Values{FieldURL: {"  "}})
	assertContains(t, body, "Please enter a URL")
	if req := f.downloader.lastRequest(); req.URL != "" {
		t.Errorf("Download should not run for an empty URL, got %+v", req)
	}
}

func TestDownloaderPlaylist(t *testing.T) {
	f := newDownloaderFixture(t)
	f.downloader.playlist = &model.Playlist{
		Title: "Road Trip",
		Videos: []*model.PlaylistVideo{
			{ID: "a", Title: "First Track", URL: "https://www.youtube.com/watch?v=a"},
			{ID: "b", Title: "Second Track", URL: "https://www.youtube.com/watch?v=b"},
		},
	}

	_, body := f.browser.post("/playlist", url.Values{FieldURL: {"https://www.youtube.com/playlist?list=PL1"}})
	assertContains(t, body, "Playlist loaded: 2 videos")
	assertContains(t, body, "Road Trip")
	assertContains(t, body, "Second Track")
}

func TestDownloaderPlaylistError(t *testing.T) {
	f := newDownloaderFixture(t)

	_, body := f.browser.post("/playlist", url.Values{FieldURL: {"https://example.com"}})
	assertContains(t, body, "not a playlist URL")
}

func TestDownloaderFiles(t *testing.T) {
	f := newDownloaderFixture(t)
	if err := os.WriteFile(filepath.Join(f.settings.DownloadDir, "Clip.mp4"), []byte("video-bytes"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	resp, err := f.browser.client.Get(f.browser.server.URL + "/files/Clip.mp4")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	status, body := readResponse(t, resp)
	if status != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", status)
	}
	if body != "video-bytes" {
		t.Errorf("Unexpected body %q", body)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != `attachment; filename=Clip.mp4` {
		t.Errorf("Unexpected Content-Disposition %q", cd)
	}

	status, _ = f.browser.get("/files/missing.mp4")
	if status != http.StatusNotFound {
		t.Errorf("Expected 404 for a missing file, got %d", status)
	}
}

func TestDownloaderFileLinks(t *testing.T) {
	f := newDownloaderFixture(t)
	names := []string{"Song #shorts.mp3", "100% Hits.mp3"}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(f.settings.DownloadDir, name), []byte(name), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	_, body := f.browser.get("/")
	links := regexp.MustCompile(`href="(/files/[^"]+)"`).FindAllStringSubmatch(body, -1)
	if len(links) != len(names) {
		t.Fatalf("Expected %d file links, got %d", len(names), len(links))
	}

	served := map[string]bool{}
	for _, link := range links {
		status, content := f.browser.get(html.UnescapeString(link[1]))
		if status != http.StatusOK {
			t.Errorf("GET %s: expected status 200, got %d", link[1], status)
			continue
		}
		served[content] = true
	}
	for _, name := range names {
		if !served[name] {
			t.Errorf("Expected %q to be reachable from its link", name)
		}
	}
}

func TestDownloaderArchive(t *testing.T) {
	f := newDownloaderFixture(t)

	status, _ := f.browser.get("/archive")
	if status != http.StatusNotFound {
		t.Errorf("Expected 404 before an archive exists, got %d", status)
	}

	_, body := f.browser.post("/archive", nil)
	assertContains(t, body, "Archive created")

	resp, err := f.browser.client.Get(f.browser.server.URL + "/archive")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	status, body = readResponse(t, resp)
	if status != http.StatusOK || body != "PK" {
		t.Errorf("Expected archive bytes, got %d %q", status, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != ContentTypeZip {
		t.Errorf("Expected %s, got %q", ContentTypeZip, ct)
	}
}

func TestDownloaderClear(t *testing.T) {
	f := newDownloaderFixture(t)
	for _, name := range []string{"a.mp4", "b.mp3"} {
		if err := os.WriteFile(filepath.Join(f.settings.DownloadDir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	_, body := f.browser.post("/clear", nil)
	assertContains(t, body, "2 files deleted")
	assertContains(t, body, "No files yet")

	files, err := platform.ListFiles(f.settings.DownloadDir)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("Expected empty downloads directory, got %v", files)
	}
}
