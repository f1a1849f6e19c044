package cookies

import (
	"context"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/ytget/yt-music/internal/model"
)

// chromeBrowser drives a visible Chrome/Chromium window over DevTools
type chromeBrowser struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

// NewChromeFactory returns a BrowserFactory launching a headed Chrome.
// An empty execPath lets chromedp locate the browser.
func NewChromeFactory(execPath string) BrowserFactory {
	return func(ctx context.Context) (Browser, error) {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", false),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.NoSandbox,
			chromedp.WindowSize(1200, 900),
		)
		if execPath != "" {
			opts = append(opts, chromedp.ExecPath(execPath))
		}

		allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
		browserCtx, cancel := chromedp.NewContext(allocCtx)

		// first Run starts the browser process
		if err := chromedp.Run(browserCtx); err != nil {
			cancel()
			allocCancel()
			return nil, err
		}
		return &chromeBrowser{ctx: browserCtx, cancel: cancel, allocCancel: allocCancel}, nil
	}
}

func (b *chromeBrowser) Open(_ context.Context, url string) error {
	return chromedp.Run(b.ctx, chromedp.Navigate(url))
}

func (b *chromeBrowser) Cookies(_ context.Context) ([]model.CookieEntry, error) {
	var cookies []*network.Cookie
	err := chromedp.Run(b.ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = network.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return nil, err
	}

	entries := make([]model.CookieEntry, 0, len(cookies))
	for _, c := range cookies {
		var expiry int64
		if !c.Session && c.Expires > 0 {
			expiry = int64(c.Expires)
		}
		entries = append(entries, model.CookieEntry{
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			Expiry:   expiry,
			Name:     c.Name,
			Value:    c.Value,
			HTTPOnly: c.HTTPOnly,
			SameSite: c.SameSite.String(),
		})
	}
	return entries, nil
}

func (b *chromeBrowser) Close() error {
	b.cancel()
	b.allocCancel()
	return nil
}
