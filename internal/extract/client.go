package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ytget/yt-music/internal/model"
)

// Operation labels
const (
	OpSearch        = "search"
	OpInfo          = "info"
	OpDownload      = "download"
	OpExportCookies = "export_cookies"
)

// maxStderrInError bounds how much yt-dlp stderr is copied into an error
const maxStderrInError = 400

// Client runs yt-dlp calls with a shared cookie file and rate limit
type Client struct {
	runner  Runner
	limiter *rate.Limiter
	logger  *slog.Logger

	mu         sync.RWMutex
	cookieFile string
}

// NewClient creates a client. A nil limiter disables rate limiting.
func NewClient(runner Runner, limiter *rate.Limiter, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		runner:  runner,
		limiter: limiter,
		logger:  logger,
	}
}

// SetCookieFile sets the Netscape cookie file used by subsequent calls; empty disables cookies
func (c *Client) SetCookieFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cookieFile = path
}

// CookieFile returns the cookie file in use, if any
func (c *Client) CookieFile() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cookieFile
}

// Search lists up to max entries for query without resolving each one
func (c *Client) Search(ctx context.Context, query string, max int) (*Info, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", model.ErrInvalidInput)
	}
	if max < 1 {
		max = 1
	}

	opts := Options{
		FlatPlaylist: true,
		DumpJSON:     true,
	}
	res, err := c.run(ctx, OpSearch, opts, SearchTarget(query, max))
	if err != nil {
		return nil, err
	}
	return c.decode(OpSearch, res)
}

// Info fetches the full metadata, including the format list, of a single video
func (c *Client) Info(ctx context.Context, url string) (*Info, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("%w: empty URL", model.ErrInvalidInput)
	}

	opts := Options{
		Format:     "bestaudio/best",
		NoPlaylist: true,
		DumpJSON:   true,
	}
	res, err := c.run(ctx, OpInfo, opts, url)
	if err != nil {
		return nil, err
	}
	return c.decode(OpInfo, res)
}

// Download fetches url with opts. The client cookie file applies unless opts names one.
func (c *Client) Download(ctx context.Context, url string, opts Options) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("%w: empty URL", model.ErrInvalidInput)
	}
	if opts.OutputTemplate == "" {
		return fmt.Errorf("%w: missing output template", model.ErrInvalidInput)
	}
	opts.NoPlaylist = true

	_, err := c.run(ctx, OpDownload, opts, url)
	return err
}

// ExportBrowserCookies reads cookies of an installed browser through a check
// request and writes them to file in Netscape format. The client cookie file
// is not used. yt-dlp may write file even when the check video fails.
func (c *Client) ExportBrowserCookies(ctx context.Context, browser, file, checkURL string) error {
	if browser == "" || file == "" {
		return fmt.Errorf("%w: browser and cookie file are required", model.ErrInvalidInput)
	}

	opts := Options{
		CookiesFromBrowser: browser,
		CookieFile:         file,
		SkipDownload:       true,
		NoPlaylist:         true,
	}
	if _, err := c.run(ctx, OpExportCookies, opts, checkURL); err != nil {
		return fmt.Errorf("cookie export from %s: %w", browser, err)
	}
	return nil
}

// run applies rate limiting and the cookie file, then executes the call
func (c *Client) run(ctx context.Context, op string, opts Options, target string) (*Result, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", model.ErrExtraction, op, err)
		}
	}
	if opts.CookieFile == "" {
		opts.CookieFile = c.CookieFile()
	}

	start := time.Now()
	c.logger.Debug("running yt-dlp",
		slog.String("op", op),
		slog.String("target", target),
		slog.Bool("cookies", opts.CookieFile != ""),
	)

	res, err := c.runner.Run(ctx, opts, target)
	c.observe(op, start, err)
	if err != nil {
		return res, fmt.Errorf("%w: %s: %s", model.ErrExtraction, op, describe(err, res))
	}
	if res == nil {
		return nil, fmt.Errorf("%w: %s: no output", model.ErrExtraction, op)
	}
	return res, nil
}

// decode parses the JSON document of a metadata call
func (c *Client) decode(op string, res *Result) (*Info, error) {
	info, err := ParseInfo(res.Stdout)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", model.ErrExtraction, op, err)
	}
	return info, nil
}

// observe records call metrics
func (c *Client) observe(op string, start time.Time, err error) {
	result := "ok"
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		result = "canceled"
	case err != nil:
		result = "error"
	}
	extractCallsTotal.WithLabelValues(op, result).Inc()
	extractDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// describe combines the run error with the tail of yt-dlp's stderr
func describe(err error, res *Result) string {
	msg := err.Error()
	if res == nil {
		return msg
	}
	stderr := strings.TrimSpace(res.Stderr)
	if stderr == "" {
		return msg
	}
	if lines := strings.Split(stderr, "\n"); len(lines) > 0 {
		stderr = strings.TrimSpace(lines[len(lines)-1])
	}
	if len(stderr) > maxStderrInError {
		stderr = stderr[:maxStderrInError]
	}
	if strings.Contains(msg, stderr) {
		return msg
	}
	return msg + ": " + stderr
}
