package extract

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"golang.org/x/time/rate"

	"github.com/ytget/yt-music/internal/model"
)

// fakeRunner records calls and replays canned results
type fakeRunner struct {
	mu     sync.Mutex
	calls  []fakeCall
	stdout string
	stderr string
	err    error
	onCall func(opts Options, target string) error
}

type fakeCall struct {
	opts   Options
	target string
}

func (f *fakeRunner) Run(ctx context.Context, opts Options, target string) (*Result, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fakeCall{opts: opts, target: target})
	f.mu.Unlock()

	if f.onCall != nil {
		if err := f.onCall(opts, target); err != nil {
			return &Result{Stderr: f.stderr, ExitCode: 1}, err
		}
	}
	if f.err != nil {
		return &Result{Stderr: f.stderr, ExitCode: 1}, f.err
	}
	return &Result{Stdout: f.stdout}, nil
}

func (f *fakeRunner) lastCall(t *testing.T) fakeCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		t.Fatal("Expected at least one yt-dlp call")
	}
	return f.calls[len(f.calls)-1]
}

const searchJSON = `{"_type":"playlist","id":"believer","entries":[
 {"id":"7wtfhZwyrcc","title":"Believer","duration":217.0,"uploader":"ImagineDragonsVEVO","url":"https://www.youtube.com/watch?v=7wtfhZwyrcc"},
 {"id":"abc","title":"Believer (Lyrics)","duration":null,"channel":"Lyrics Channel"}
]}`

func TestSearch(t *testing.T) {
	runner := &fakeRunner{stdout: "WARNING: something\n" + searchJSON}
	client := NewClient(runner, nil, nil)
	client.SetCookieFile("youtube_cookies.txt")

	info, err := client.Search(context.Background(), "  imagine dragons believer ", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	call := runner.lastCall(t)
	if call.target != "ytsearch5:imagine dragons believer" {
		t.Errorf("Unexpected target %q", call.target)
	}
	if !call.opts.FlatPlaylist || !call.opts.DumpJSON {
		t.Errorf("Search must use flat playlist JSON dump, got %+v", call.opts)
	}
	if call.opts.CookieFile != "youtube_cookies.txt" {
		t.Errorf("Expected client cookie file, got %q", call.opts.CookieFile)
	}

	if len(info.Entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(info.Entries))
	}
	if info.Entries[0].DurationSeconds() != 217 {
		t.Errorf("Expected 217s, got %d", info.Entries[0].DurationSeconds())
	}
	if info.Entries[1].Artist() != "Lyrics Channel" {
		t.Errorf("Expected channel fallback, got %q", info.Entries[1].Artist())
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	runner := &fakeRunner{}
	client := NewClient(runner, nil, nil)

	_, err := client.Search(context.Background(), "   ", 5)
	if !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput, got %v", err)
	}
	if len(runner.calls) != 0 {
		t.Error("yt-dlp must not run for an empty query")
	}
}

func TestInfo_FailureWrapsStderr(t *testing.T) {
	runner := &fakeRunner{
		err:    errors.New("exit status 1"),
		stderr: "[youtube] abc: Downloading webpage\nERROR: [youtube] abc: Video unavailable",
	}
	client := NewClient(runner, nil, nil)

	_, err := client.Info(context.Background(), "https://www.youtube.com/watch?v=abc")
	if !errors.Is(err, model.ErrExtraction) {
		t.Fatalf("Expected ErrExtraction, got %v", err)
	}
	if !strings.Contains(err.Error(), "Video unavailable") {
		t.Errorf("Expected stderr tail in error, got %q", err.Error())
	}
	if strings.Contains(err.Error(), "Downloading webpage") {
		t.Errorf("Only the last stderr line should be kept, got %q", err.Error())
	}
}

func TestInfo_InvalidJSON(t *testing.T) {
	runner := &fakeRunner{stdout: "not json"}
	client := NewClient(runner, nil, nil)

	_, err := client.Info(context.Background(), "https://www.youtube.com/watch?v=abc")
	if !errors.Is(err, model.ErrExtraction) {
		t.Errorf("Expected ErrExtraction, got %v", err)
	}
}

func TestDownload(t *testing.T) {
	runner := &fakeRunner{}
	client := NewClient(runner, nil, nil)

	if err := client.Download(context.Background(), "", Options{OutputTemplate: "x"}); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty URL, got %v", err)
	}
	if err := client.Download(context.Background(), "https://y/v", Options{}); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for missing template, got %v", err)
	}

	err := client.Download(context.Background(), "https://y/v", Options{
		Format:         "bestaudio/best",
		OutputTemplate: "downloads/Song.%(ext)s",
		CookieFile:     "explicit.txt",
	})
	if err != nil {
		t.Fatalf("Download() error = %v", err)
	}

	call := runner.lastCall(t)
	if !call.opts.NoPlaylist {
		t.Error("Downloads must not expand playlists")
	}
	if call.opts.CookieFile != "explicit.txt" {
		t.Errorf("Explicit cookie file must win, got %q", call.opts.CookieFile)
	}
}

func TestExportBrowserCookies(t *testing.T) {
	runner := &fakeRunner{}
	client := NewClient(runner, nil, nil)
	client.SetCookieFile("ignored.txt")

	err := client.ExportBrowserCookies(context.Background(), "firefox", "cookies_youtube.txt", "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if err != nil {
		t.Fatalf("ExportBrowserCookies() error = %v", err)
	}

	call := runner.lastCall(t)
	if call.opts.CookiesFromBrowser != "firefox" || call.opts.CookieFile != "cookies_youtube.txt" || !call.opts.SkipDownload {
		t.Errorf("Unexpected export options %+v", call.opts)
	}

	runner.err = errors.New("could not find firefox cookies database")
	err = client.ExportBrowserCookies(context.Background(), "firefox", "cookies_youtube.txt", "https://example.com")
	if !errors.Is(err, model.ErrExtraction) {
		t.Errorf("Expected ErrExtraction, got %v", err)
	}
}

func TestExportBrowserCookies_RateLimited(t *testing.T) {
	runner := &fakeRunner{}
	client := NewClient(runner, rate.NewLimiter(0, 0), nil)

	err := client.ExportBrowserCookies(context.Background(), "chrome", "cookies_youtube.txt", "https://www.youtube.com/watch?v=dQw4w9WgXcQ")
	if !errors.Is(err, model.ErrExtraction) {
		t.Errorf("Expected ErrExtraction from the limiter, got %v", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("Expected no yt-dlp call past the limiter, got %d", len(runner.calls))
	}
}

func TestSetCookieFile(t *testing.T) {
	client := NewClient(&fakeRunner{}, nil, nil)
	if client.CookieFile() != "" {
		t.Error("Expected no cookie file initially")
	}
	client.SetCookieFile("a.txt")
	if client.CookieFile() != "a.txt" {
		t.Errorf("Expected a.txt, got %s", client.CookieFile())
	}
	client.SetCookieFile("")
	if client.CookieFile() != "" {
		t.Error("Expected cookie file to be cleared")
	}
}
