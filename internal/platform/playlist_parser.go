package platform

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ytget/yt-music/internal/model"
	"github.com/ytget/ytdlp/v2"
)

// Timeout constants
const (
	DefaultPlaylistParseTimeout = 60 * time.Second
)

// URL parameters
const (
	PlaylistURLParam = "list"
)

// Default values
const (
	DefaultPlaylistTitle = "Untitled Playlist"
	DefaultTitleSuffix   = " - Playlist"
	MaxTitleLength       = 50
	TitleTruncateSuffix  = "..."
	DefaultPlaylistLimit = 200
)

// PlaylistFetchFunc lists up to limit videos of a playlist id
type PlaylistFetchFunc func(ctx context.Context, playlistID string, limit int) ([]*model.PlaylistVideo, error)

// PlaylistParserService expands YouTube playlists into single videos
type PlaylistParserService struct {
	timeout time.Duration
	limit   int
	fetch   PlaylistFetchFunc
}

// NewPlaylistParserService creates a parser backed by the ytdlp library
func NewPlaylistParserService() *PlaylistParserService {
	return &PlaylistParserService{
		timeout: DefaultPlaylistParseTimeout,
		limit:   DefaultPlaylistLimit,
		fetch:   fetchWithLibrary,
	}
}

// SetFetchFunc replaces the playlist source
func (p *PlaylistParserService) SetFetchFunc(fetch PlaylistFetchFunc) {
	p.fetch = fetch
}

// IsPlaylistURL reports whether rawURL carries a playlist id
func IsPlaylistURL(rawURL string) bool {
	id, err := ExtractPlaylistID(rawURL)
	return err == nil && id != ""
}

// ParsePlaylist parses a YouTube playlist URL and returns playlist information
func (p *PlaylistParserService) ParsePlaylist(ctx context.Context, rawURL string) (*model.Playlist, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	playlist := model.NewPlaylist(rawURL)

	playlistID, err := ExtractPlaylistID(rawURL)
	if err != nil {
		playlist.Error = err.Error()
		playlist.UpdateStatus(model.PlaylistStatusError)
		return playlist, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
	}
	playlist.ID = playlistID

	videos, err := p.fetch(ctx, playlistID, p.limit)
	if err != nil {
		playlist.Error = err.Error()
		playlist.UpdateStatus(model.PlaylistStatusError)
		return playlist, fmt.Errorf("%w: failed to get playlist items: %v", model.ErrExtraction, err)
	}

	for _, video := range videos {
		playlist.AddVideo(video)
	}

	playlist.Title = p.generatePlaylistTitle(playlist)
	playlist.UpdateStatus(model.PlaylistStatusReady)
	return playlist, nil
}

// ExtractPlaylistID extracts the list parameter from a playlist or watch URL
func ExtractPlaylistID(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("invalid playlist URL format: %s", rawURL)
	}
	id := u.Query().Get(PlaylistURLParam)
	if id == "" {
		return "", fmt.Errorf("could not extract playlist ID from URL: %s", rawURL)
	}
	return id, nil
}

// generatePlaylistTitle derives a display title from the first entry
func (p *PlaylistParserService) generatePlaylistTitle(playlist *model.Playlist) string {
	if len(playlist.Videos) == 0 || playlist.Videos[0].Title == "" {
		return DefaultPlaylistTitle
	}
	title := playlist.Videos[0].Title
	if runes := []rune(title); len(runes) > MaxTitleLength {
		title = string(runes[:MaxTitleLength]) + TitleTruncateSuffix
	}
	return title + DefaultTitleSuffix
}

// fetchWithLibrary lists playlist entries through the ytdlp library
func fetchWithLibrary(ctx context.Context, playlistID string, limit int) ([]*model.PlaylistVideo, error) {
	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, limit)
	if err != nil {
		return nil, err
	}

	videos := make([]*model.PlaylistVideo, 0, len(items))
	for _, it := range items {
		videos = append(videos, &model.PlaylistVideo{
			ID:    it.VideoID,
			Title: it.Title,
			URL:   fmt.Sprintf(model.YouTubeWatchURLTemplate, it.VideoID),
		})
	}
	return videos, nil
}
