package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ytget/yt-music/internal/cookies"
	"github.com/ytget/yt-music/internal/extract"
	"github.com/ytget/yt-music/internal/model"
)

// Extractor is the subset of extract.Client the player uses
type Extractor interface {
	Search(ctx context.Context, query string, max int) (*extract.Info, error)
	Info(ctx context.Context, url string) (*extract.Info, error)
	SetCookieFile(path string)
	CookieFile() string
}

// CookieSource returns fresh cookies of a service
type CookieSource interface {
	Load(service string) ([]model.CookieEntry, bool)
}

// Service orchestrates search and playback
type Service struct {
	extractor    Extractor
	cookies      CookieSource
	transferPath string
	importedPath string
	logger       *slog.Logger
}

// NewService creates a player. transferPath receives stored YouTube cookies
// in Netscape format; importedPath is the file written by a browser import.
func NewService(extractor Extractor, source CookieSource, transferPath, importedPath string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		extractor:    extractor,
		cookies:      source,
		transferPath: transferPath,
		importedPath: importedPath,
		logger:       logger,
	}
}

// Search returns at most maxResults matches for query. On failure the
// result list is empty and the error is returned.
func (s *Service) Search(ctx context.Context, query string, maxResults int) ([]model.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []model.SearchResult{}, fmt.Errorf("%w: empty search query", model.ErrInvalidInput)
	}
	if maxResults < 1 {
		maxResults = 1
	}

	info, err := s.extractor.Search(ctx, query, maxResults)
	if err != nil {
		s.logger.Error("search failed", slog.String("query", query), slog.Any("error", err))
		return []model.SearchResult{}, err
	}

	results := make([]model.SearchResult, 0, min(len(info.Entries), maxResults))
	for _, entry := range info.Entries {
		if entry == nil {
			continue
		}
		if len(results) == maxResults {
			break
		}
		results = append(results, toSearchResult(entry))
	}

	s.logger.Info("search completed",
		slog.String("query", query),
		slog.Int("results", len(results)),
	)
	return results, nil
}

func toSearchResult(entry *extract.Info) model.SearchResult {
	r := model.SearchResult{
		Title:    strings.TrimSpace(entry.Title),
		ID:       entry.ID,
		URL:      entry.URL,
		Duration: entry.DurationSeconds(),
		Uploader: strings.TrimSpace(entry.Artist()),
	}
	if r.Title == "" {
		r.Title = model.UnknownTitle
	}
	if r.Uploader == "" {
		r.Uploader = model.UnknownUploader
	}
	if r.URL == "" || !strings.HasPrefix(r.URL, "http") {
		r.URL = r.WatchURL()
	}
	return r
}

// ResolveAudio fetches full metadata for videoURL and picks the first
// audio-only format. Media without one yields an AudioInfo with an empty
// AudioURL rather than an error.
func (s *Service) ResolveAudio(ctx context.Context, videoURL string) (*model.AudioInfo, error) {
	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return nil, fmt.Errorf("%w: empty video URL", model.ErrInvalidInput)
	}

	info, err := s.extractor.Info(ctx, videoURL)
	if err != nil {
		s.logger.Error("audio resolution failed", slog.String("url", videoURL), slog.Any("error", err))
		return nil, err
	}

	audio := &model.AudioInfo{
		Title:     strings.TrimSpace(info.Title),
		Duration:  info.DurationSeconds(),
		Thumbnail: info.Thumbnail,
	}
	if audio.Title == "" {
		audio.Title = model.UnknownTitle
	}

	for _, f := range info.Formats {
		if f != nil && f.IsAudioOnly() && f.URL != "" {
			audio.AudioURL = f.URL
			break
		}
	}

	if !audio.Playable() {
		s.logger.Warn("no audio-only format", slog.String("url", videoURL), slog.Int("formats", len(info.Formats)))
	}
	return audio, nil
}

// ConfigureCookiesIfAvailable points the extractor at fresh stored YouTube
// cookies, then at a browser-imported cookie file, and otherwise runs
// unauthenticated. It reports whether cookies are in use.
func (s *Service) ConfigureCookiesIfAvailable() bool {
	if entries, ok := s.cookies.Load(cookies.ServiceYouTube); ok && len(entries) > 0 {
		if err := cookies.WriteTransferFile(s.transferPath, entries); err != nil {
			s.logger.Error("write cookie transfer file", slog.String("path", s.transferPath), slog.Any("error", err))
		} else {
			s.use(s.transferPath, "store")
			return true
		}
	}

	if s.importedPath != "" {
		if _, err := os.Stat(s.importedPath); err == nil {
			s.use(s.importedPath, "import")
			return true
		} else if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("imported cookie file unreadable", slog.String("path", s.importedPath), slog.Any("error", err))
		}
	}

	if s.extractor.CookieFile() != "" {
		s.logger.Info("cookies cleared, running unauthenticated")
	}
	s.extractor.SetCookieFile("")
	return false
}

func (s *Service) use(path, source string) {
	if s.extractor.CookieFile() != path {
		s.logger.Info("using cookie file", slog.String("path", path), slog.String("source", source))
	}
	s.extractor.SetCookieFile(path)
}
