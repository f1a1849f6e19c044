package download

import (
	"context"

	"github.com/ytget/yt-music/internal/extract"
	"github.com/ytget/yt-music/internal/model"
)

// Extractor is the subset of extract.Client the downloader uses
type Extractor interface {
	Info(ctx context.Context, url string) (*extract.Info, error)
	Download(ctx context.Context, url string, opts extract.Options) error
}

// PlaylistExpander lists the videos of a playlist URL
type PlaylistExpander interface {
	ParsePlaylist(ctx context.Context, url string) (*model.Playlist, error)
}

// Downloader defines the interface for the download service.
type Downloader interface {
	Run(ctx context.Context, req Request) *model.DownloadTask
	DownloadVideo(ctx context.Context, url string, quality string, dir string) (string, error)
	DownloadAudio(ctx context.Context, url string, dir string) (string, error)
	ExpandPlaylist(ctx context.Context, url string) (*model.Playlist, error)
	ListDownloads(dir string) ([]model.DownloadedFile, error)
	ArchiveFiles(paths []string, archivePath string) (string, error)
	ArchiveAll(dir, archivePath string) (string, error)
	ClearAll(dir string) (int, error)
}
