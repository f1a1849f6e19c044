package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/time/rate"

	"github.com/ytget/yt-music/internal/config"
	"github.com/ytget/yt-music/internal/cookies"
	"github.com/ytget/yt-music/internal/extract"
	"github.com/ytget/yt-music/internal/player"
	"github.com/ytget/yt-music/internal/session"
	"github.com/ytget/yt-music/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "music-player:", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := config.SetupLogger(settings)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter := rate.NewLimiter(rate.Limit(settings.ExtractRate), settings.ExtractBurst)
	client := extract.NewClient(extract.NewYTDLPRunner(settings.YTDLPPath), limiter, logger)

	store := cookies.NewStore(settings.CookieFile, settings.CookieMaxAge, logger)
	importer := cookies.NewImporter(client, filepath.Dir(settings.CookieFile), settings.CookieCheckURL, logger)
	logins := cookies.NewAcquirer(store, cookies.NewChromeFactory(settings.BrowserPath), settings.BrowserLoginTimeout, logger)

	svc := player.NewService(client, store, settings.YouTubeCookieTxt, importer.TransferPath(cookies.ServiceYouTube), logger)
	svc.ConfigureCookiesIfAvailable()

	loc := ui.NewLocalization()
	loc.SetLanguage(settings.Language)
	renderer, err := ui.NewRenderer(loc)
	if err != nil {
		return err
	}

	handler := ui.NewPlayerHandler(ui.PlayerDeps{
		Player:   svc,
		Cookies:  store,
		Importer: importer,
		Logins:   logins,
		Sessions: session.NewStore(settings.SessionMax, settings.SessionTTL, logger),
		Loc:      loc,
		Renderer: renderer,
		Settings: settings,
		Logger:   logger,
	})

	logger.Info("starting music player",
		slog.String("addr", settings.PlayerAddr),
		slog.String("cookie_file", settings.CookieFile),
	)
	return ui.NewServer(settings.PlayerAddr, handler.Routes(), settings, logger).Run(ctx)
}
