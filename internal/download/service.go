package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ytget/yt-music/internal/compress"
	"github.com/ytget/yt-music/internal/config"
	"github.com/ytget/yt-music/internal/extract"
	"github.com/ytget/yt-music/internal/model"
	"github.com/ytget/yt-music/internal/platform"
)

// yt-dlp settings
const (
	AudioFormatSelector = "bestaudio/best"
	MergeOutputFormat   = "mp4"
	OutputExtTemplate   = ".%(ext)s"
	AudioCodecMP3       = "mp3"

	VideoExtension = ".mp4"
	AudioExtension = ".mp3"

	// stagingPattern names the private per-download directory for audio
	stagingPattern = ".staging-*"
	taskIDPrefix   = "task-"
	progressStep   = 10
)

// Request describes one download submitted from the UI
type Request struct {
	URL     string
	Kind    model.DownloadKind
	Quality string
	Dir     string
}

// Service handles download operations
type Service struct {
	extractor    Extractor
	transcoder   compress.Transcoder
	archiver     compress.Archiver
	playlists    PlaylistExpander
	audioMode    string
	audioBitrate string
	logger       *slog.Logger
}

// NewService creates a new download service. Audio is transcoded by
// transcoder unless SetAudioTranscoder selects yt-dlp's post-processor.
func NewService(extractor Extractor, transcoder compress.Transcoder, archiver compress.Archiver, playlists PlaylistExpander, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		extractor:    extractor,
		transcoder:   transcoder,
		archiver:     archiver,
		playlists:    playlists,
		audioMode:    config.TranscoderFF,
		audioBitrate: compress.DefaultAudioBitrate,
		logger:       logger,
	}
}

// SetAudioTranscoder selects ffmpeg or yt-dlp for MP3 conversion
func (s *Service) SetAudioTranscoder(mode, bitrate string) {
	if mode == config.TranscoderYT {
		s.audioMode = config.TranscoderYT
	} else {
		s.audioMode = config.TranscoderFF
	}
	if bitrate != "" {
		s.audioBitrate = bitrate
	}
}

// Run performs req and records its outcome as a task
func (s *Service) Run(ctx context.Context, req Request) *model.DownloadTask {
	task := &model.DownloadTask{
		ID:        generateTaskID(),
		URL:       strings.TrimSpace(req.URL),
		Kind:      req.Kind,
		Quality:   req.Quality,
		Status:    model.TaskStatusDownloading,
		StartedAt: time.Now(),
	}

	var (
		path string
		err  error
	)
	switch req.Kind {
	case model.KindAudio:
		path, err = s.DownloadAudio(ctx, task.URL, req.Dir)
	case model.KindVideo:
		path, err = s.DownloadVideo(ctx, task.URL, req.Quality, req.Dir)
	default:
		err = fmt.Errorf("%w: unknown download kind %q", model.ErrInvalidInput, req.Kind)
	}
	task.FinishedAt = time.Now()

	result := "ok"
	if err != nil {
		result = "error"
		task.Fail(err)
		s.logger.Error("download failed",
			slog.String("task_id", task.ID),
			slog.String("url", task.URL),
			slog.String("kind", string(req.Kind)),
			slog.Any("error", err),
		)
	} else {
		task.Status = model.TaskStatusCompleted
		task.OutputPath = path
		task.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if info, statErr := os.Stat(path); statErr == nil {
			task.FileSize = info.Size()
			downloadedBytes.WithLabelValues(string(req.Kind)).Add(float64(task.FileSize))
		}
		s.logger.Info("download completed",
			slog.String("task_id", task.ID),
			slog.String("path", path),
			slog.Int64("bytes", task.FileSize),
			slog.Duration("elapsed", task.Elapsed()),
		)
	}

	downloadsTotal.WithLabelValues(string(req.Kind), result).Inc()
	downloadDuration.WithLabelValues(string(req.Kind)).Observe(task.FinishedAt.Sub(task.StartedAt).Seconds())
	return task
}

// VideoFormatSelector returns the yt-dlp format expression for a quality preset
func VideoFormatSelector(quality string) string {
	if quality == "" || quality == string(config.QualityBest) {
		return "bestvideo+bestaudio/best"
	}
	return fmt.Sprintf("bestvideo[height<=%[1]s]+bestaudio/best[height<=%[1]s]/best", quality)
}

// DownloadVideo downloads url merged into an MP4 named after its title and
// returns the file path. On failure the files it created are removed.
func (s *Service) DownloadVideo(ctx context.Context, url string, quality string, dir string) (string, error) {
	if quality == "" {
		quality = string(config.QualityBest)
	}
	if !config.IsValidQuality(config.QualityPreset(quality)) {
		return "", fmt.Errorf("%w: unknown quality %q", model.ErrInvalidInput, quality)
	}

	name, err := s.prepare(ctx, url, dir)
	if err != nil {
		return "", err
	}

	before := platform.Artifacts(dir, name)
	opts := extract.Options{
		Format:            VideoFormatSelector(quality),
		OutputTemplate:    filepath.Join(dir, name+OutputExtTemplate),
		MergeOutputFormat: MergeOutputFormat,
		OnProgress:        s.progressLogger(url),
	}
	if err := s.extractor.Download(ctx, url, opts); err != nil {
		s.cleanup(dir, name, before)
		return "", err
	}

	path, err := platform.FindDownloadedFile(dir, name, VideoExtension)
	if err != nil {
		path, err = platform.FindDownloadedFile(dir, name, "")
	}
	if err != nil {
		s.cleanup(dir, name, before)
		return "", fmt.Errorf("%w: %v", model.ErrFilesystem, err)
	}
	return path, nil
}

// DownloadAudio downloads the best audio stream of url into a private
// staging directory and converts it to <dir>/<title>.mp3. The destination
// directory only changes when the MP3 is complete.
func (s *Service) DownloadAudio(ctx context.Context, url string, dir string) (string, error) {
	name, err := s.prepare(ctx, url, dir)
	if err != nil {
		return "", err
	}

	staging, err := os.MkdirTemp(dir, stagingPattern)
	if err != nil {
		return "", fmt.Errorf("%w: staging directory: %v", model.ErrFilesystem, err)
	}
	defer os.RemoveAll(staging)

	target := filepath.Join(dir, name+AudioExtension)
	opts := extract.Options{
		Format:          AudioFormatSelector,
		OutputTemplate:  filepath.Join(staging, name+OutputExtTemplate),
		ForceOverwrites: true,
		OnProgress:      s.progressLogger(url),
	}

	if s.audioMode == config.TranscoderYT {
		opts.PostProcessor = &extract.AudioPostProcessor{Codec: AudioCodecMP3, Quality: strings.ToUpper(s.audioBitrate)}
		if err := s.extractor.Download(ctx, url, opts); err != nil {
			return "", err
		}
		converted, err := platform.FindDownloadedFile(staging, name, AudioExtension)
		if err != nil {
			return "", fmt.Errorf("%w: %v", model.ErrTranscode, err)
		}
		if err := os.Rename(converted, target); err != nil {
			return "", fmt.Errorf("%w: move %s: %v", model.ErrFilesystem, converted, err)
		}
		return target, nil
	}

	if err := s.extractor.Download(ctx, url, opts); err != nil {
		return "", err
	}
	source, err := platform.FindDownloadedFile(staging, name, "")
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrFilesystem, err)
	}

	if err := s.transcoder.ToMP3(ctx, source, target, func(percent int) {
		s.logger.Debug("transcoding", slog.String("output", target), slog.Int("percent", percent))
	}); err != nil {
		return "", err
	}
	return target, nil
}

// prepare validates url, ensures dir exists and derives the file name from the title
func (s *Service) prepare(ctx context.Context, url, dir string) (string, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", fmt.Errorf("%w: empty URL", model.ErrInvalidInput)
	}
	if err := platform.CreateDirectoryIfNotExists(dir); err != nil {
		return "", fmt.Errorf("%w: create %s: %v", model.ErrFilesystem, dir, err)
	}

	info, err := s.extractor.Info(ctx, url)
	if err != nil {
		return "", err
	}
	return platform.SanitizeFilename(info.Title), nil
}

// cleanup removes artifacts of a failed download that did not exist before it
func (s *Service) cleanup(dir, name string, before map[string]bool) {
	if removed := platform.RemoveArtifacts(dir, name, before); len(removed) > 0 {
		s.logger.Info("removed partial download", slog.Any("files", removed))
	}
}

// progressLogger returns a progress callback logging every progressStep percent
func (s *Service) progressLogger(url string) func(extract.Progress) {
	next := 0.0
	return func(p extract.Progress) {
		if p.Percent < next {
			return
		}
		next = p.Percent + progressStep
		s.logger.Debug("downloading",
			slog.String("url", url),
			slog.Float64("percent", p.Percent),
			slog.Int("downloaded_bytes", p.DownloadedBytes),
			slog.Int("total_bytes", p.TotalBytes),
		)
	}
}

// ExpandPlaylist lists the videos of a playlist URL
func (s *Service) ExpandPlaylist(ctx context.Context, url string) (*model.Playlist, error) {
	if s.playlists == nil {
		return nil, errors.New("playlist expansion is not configured")
	}
	if !platform.IsPlaylistURL(url) {
		return nil, fmt.Errorf("%w: %q has no playlist id", model.ErrInvalidInput, url)
	}

	playlist, err := s.playlists.ParsePlaylist(ctx, url)
	if err != nil {
		return nil, err
	}
	if !playlist.IsReady() {
		return nil, fmt.Errorf("%w: playlist %s has no videos", model.ErrExtraction, playlist.ID)
	}
	return playlist, nil
}

// ListDownloads lists finished files in dir
func (s *Service) ListDownloads(dir string) ([]model.DownloadedFile, error) {
	files, err := platform.ListFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrFilesystem, err)
	}
	return files, nil
}

// ArchiveFiles zips paths into archivePath
func (s *Service) ArchiveFiles(paths []string, archivePath string) (string, error) {
	return s.archiver.Archive(paths, archivePath)
}

// ArchiveAll zips every finished file in dir into archivePath
func (s *Service) ArchiveAll(dir, archivePath string) (string, error) {
	files, err := s.ListDownloads(dir)
	if err != nil {
		return "", err
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, filepath.Join(dir, f.Name))
	}
	return s.ArchiveFiles(paths, archivePath)
}

// ClearAll deletes every file ListDownloads reports and returns how many were removed
func (s *Service) ClearAll(dir string) (int, error) {
	files, err := s.ListDownloads(dir)
	if err != nil {
		return 0, err
	}

	removed := 0
	var errs []error
	for _, f := range files {
		if err := os.Remove(filepath.Join(dir, f.Name)); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
			continue
		}
		removed++
	}

	s.logger.Info("downloads cleared", slog.String("dir", dir), slog.Int("removed", removed))
	if len(errs) > 0 {
		return removed, fmt.Errorf("%w: %v", model.ErrFilesystem, errors.Join(errs...))
	}
	return removed, nil
}

// generateTaskID generates a unique task ID using UUID v7 for time ordering
func generateTaskID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to timestamp if UUID generation fails
		return fmt.Sprintf(taskIDPrefix+"%d", time.Now().UnixNano())
	}
	return taskIDPrefix + id.String()
}
