package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"github.com/ytget/yt-music/internal/compress"
	"github.com/ytget/yt-music/internal/config"
	"github.com/ytget/yt-music/internal/download"
	"github.com/ytget/yt-music/internal/extract"
	"github.com/ytget/yt-music/internal/platform"
	"github.com/ytget/yt-music/internal/session"
	"github.com/ytget/yt-music/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "yt-downloader:", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := config.SetupLogger(settings)

	if err := platform.CreateDirectoryIfNotExists(settings.DownloadDir); err != nil {
		return fmt.Errorf("create download directory: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter := rate.NewLimiter(rate.Limit(settings.ExtractRate), settings.ExtractBurst)
	client := extract.NewClient(extract.NewYTDLPRunner(settings.YTDLPPath), limiter, logger)

	svc := download.NewService(
		client,
		compress.NewFFmpegTranscoder(settings.FFmpegPath, settings.FFprobePath, settings.AudioBitrate, logger),
		compress.NewZipArchiver(logger),
		platform.NewPlaylistParserService(),
		logger,
	)
	svc.SetAudioTranscoder(settings.AudioTranscoder, settings.AudioBitrate)

	loc := ui.NewLocalization()
	loc.SetLanguage(settings.Language)
	renderer, err := ui.NewRenderer(loc)
	if err != nil {
		return err
	}

	handler := ui.NewDownloaderHandler(ui.DownloaderDeps{
		Downloader: svc,
		Sessions:   session.NewStore(settings.SessionMax, settings.SessionTTL, logger),
		Loc:        loc,
		Renderer:   renderer,
		Settings:   settings,
		Logger:     logger,
	})

	logger.Info("starting downloader",
		slog.String("addr", settings.DownloaderAddr),
		slog.String("download_dir", settings.DownloadDir),
		slog.String("audio_transcoder", settings.AudioTranscoder),
	)
	return ui.NewServer(settings.DownloaderAddr, handler.Routes(), settings, logger).Run(ctx)
}
