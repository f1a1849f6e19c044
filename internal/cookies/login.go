package cookies

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ytget/yt-music/internal/model"
)

// DefaultLoginTimeout bounds how long a login browser stays open unconfirmed
const DefaultLoginTimeout = 10 * time.Minute

// Browser is a visible, automatable browser window
type Browser interface {
	Open(ctx context.Context, url string) error
	Cookies(ctx context.Context) ([]model.CookieEntry, error)
	Close() error
}

// BrowserFactory launches a Browser living until ctx is cancelled or Close is called
type BrowserFactory func(ctx context.Context) (Browser, error)

// Acquirer captures cookies from an interactive browser login
type Acquirer struct {
	store      *Store
	newBrowser BrowserFactory
	timeout    time.Duration
	logger     *slog.Logger
}

// NewAcquirer creates an acquirer saving into store
func NewAcquirer(store *Store, newBrowser BrowserFactory, timeout time.Duration, logger *slog.Logger) *Acquirer {
	if timeout <= 0 {
		timeout = DefaultLoginTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Acquirer{
		store:      store,
		newBrowser: newBrowser,
		timeout:    timeout,
		logger:     logger,
	}
}

// Begin opens a browser on loginURL and returns a session waiting for the
// user to confirm. The session outlives ctx; ctx only bounds the launch.
func (a *Acquirer) Begin(ctx context.Context, service, loginURL string) (*LoginSession, error) {
	key := ServiceKey(service)
	loginURL = strings.TrimSpace(loginURL)
	if key == "" || loginURL == "" {
		return nil, fmt.Errorf("%w: service and login URL are required", model.ErrInvalidInput)
	}

	sessionCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	browser, err := a.newBrowser(sessionCtx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: launch browser: %v", model.ErrAutomation, err)
	}
	if err := browser.Open(ctx, loginURL); err != nil {
		browser.Close()
		cancel()
		return nil, fmt.Errorf("%w: open %s: %v", model.ErrAutomation, loginURL, err)
	}

	l := &LoginSession{
		Service:   key,
		URL:       loginURL,
		StartedAt: time.Now(),
		Deadline:  time.Now().Add(a.timeout),
		browser:   browser,
		store:     a.store,
		logger:    a.logger,
		confirmCh: make(chan struct{}),
		abortCh:   make(chan struct{}),
		done:      make(chan struct{}),
	}
	go l.wait(sessionCtx, cancel, a.timeout)

	a.logger.Info("browser login started",
		slog.String("service", key),
		slog.String("url", loginURL),
		slog.Duration("timeout", a.timeout),
	)
	return l, nil
}

// LoginSession is one open login browser
type LoginSession struct {
	Service   string
	URL       string
	StartedAt time.Time
	Deadline  time.Time

	browser Browser
	store   *Store
	logger  *slog.Logger

	confirmCh chan struct{}
	abortCh   chan struct{}
	abortOnce sync.Once
	done      chan struct{}

	// set before done is closed
	cookies []model.CookieEntry
	err     error
}

// Confirm reads the browser's cookies, saves them for the session's service
// and closes the browser.
func (l *LoginSession) Confirm(ctx context.Context) ([]model.CookieEntry, error) {
	select {
	case l.confirmCh <- struct{}{}:
	case <-l.done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case <-l.done:
		return l.cookies, l.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Abort closes the browser without saving
func (l *LoginSession) Abort() {
	l.abortOnce.Do(func() { close(l.abortCh) })
	<-l.done
}

// Done reports whether the session has finished
func (l *LoginSession) Done() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// Err returns the outcome of a finished session
func (l *LoginSession) Err() error {
	if !l.Done() {
		return nil
	}
	return l.err
}

func (l *LoginSession) wait(ctx context.Context, cancel context.CancelFunc, timeout time.Duration) {
	timer := time.NewTimer(timeout)
	defer func() {
		timer.Stop()
		if err := l.browser.Close(); err != nil {
			l.logger.Warn("close login browser", slog.Any("error", err))
		}
		cancel()
		close(l.done)
	}()

	select {
	case <-l.confirmCh:
		entries, err := l.browser.Cookies(ctx)
		if err != nil {
			l.err = fmt.Errorf("%w: read cookies: %v", model.ErrAutomation, err)
			break
		}
		if err := l.store.Save(l.Service, entries); err != nil {
			l.err = err
			break
		}
		l.cookies = entries
		l.logger.Info("browser login confirmed",
			slog.String("service", l.Service),
			slog.Int("count", len(entries)),
		)
	case <-l.abortCh:
		l.err = model.ErrLoginAborted
	case <-timer.C:
		l.err = model.ErrLoginTimeout
	case <-ctx.Done():
		l.err = fmt.Errorf("%w: %v", model.ErrLoginAborted, ctx.Err())
	}

	if l.err != nil {
		l.logger.Warn("browser login ended without cookies",
			slog.String("service", l.Service),
			slog.Any("error", l.err),
		)
	}
}
