package cookies

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ytget/yt-music/internal/model"
)

// BrowserExporter writes a browser profile's cookies to a Netscape file
type BrowserExporter interface {
	ExportBrowserCookies(ctx context.Context, browser, file, checkURL string) error
}

// Importer copies cookies out of an installed browser profile via yt-dlp
type Importer struct {
	exporter BrowserExporter
	dir      string
	checkURL string
	logger   *slog.Logger
}

// NewImporter creates an importer writing transfer files into dir
func NewImporter(exporter BrowserExporter, dir, checkURL string, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		exporter: exporter,
		dir:      dir,
		checkURL: checkURL,
		logger:   logger,
	}
}

// TransferPath returns where the transfer file of service lives
func (i *Importer) TransferPath(service string) string {
	return filepath.Join(i.dir, TransferFileName(service))
}

// ImportFromInstalledBrowser exports the browser's cookies into the
// service's transfer file and returns its path. The import succeeds only
// when the file exists afterwards; a previous file is kept on failure.
func (i *Importer) ImportFromInstalledBrowser(ctx context.Context, service, browser string) (string, error) {
	browser = strings.ToLower(strings.TrimSpace(browser))
	if !IsSupportedBrowser(browser) {
		return "", fmt.Errorf("%w: unsupported browser %q", model.ErrInvalidInput, browser)
	}
	if ServiceKey(service) == "" {
		return "", fmt.Errorf("%w: empty service name", model.ErrInvalidInput)
	}

	target := i.TransferPath(service)
	staging := target + ".import"
	os.Remove(staging)

	// yt-dlp writes the jar on exit even when the check video fails
	// (e.g. the bot check), so the file decides the outcome
	exportErr := i.exporter.ExportBrowserCookies(ctx, browser, staging, i.checkURL)
	if exportErr != nil {
		i.logger.Warn("browser cookie export reported an error",
			slog.String("browser", browser),
			slog.Any("error", exportErr),
		)
	}

	info, err := os.Stat(staging)
	if err != nil {
		os.Remove(staging)
		if errors.Is(err, os.ErrNotExist) {
			if exportErr != nil {
				return "", exportErr
			}
			return "", fmt.Errorf("%w: %s produced no cookie file", model.ErrExtraction, browser)
		}
		return "", fmt.Errorf("%w: stat %s: %v", model.ErrFilesystem, staging, err)
	}
	if err := os.Rename(staging, target); err != nil {
		os.Remove(staging)
		return "", fmt.Errorf("%w: replace %s: %v", model.ErrFilesystem, target, err)
	}

	i.logger.Info("browser cookies imported",
		slog.String("service", ServiceKey(service)),
		slog.String("browser", browser),
		slog.Int64("bytes", info.Size()),
	)
	return target, nil
}
