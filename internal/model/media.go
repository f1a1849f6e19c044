package model

import (
	"fmt"
	"strings"
)

// Fallback labels for entries that miss metadata
const (
	UnknownTitle    = "Title unavailable"
	UnknownUploader = "Unknown"
)

// YouTubeWatchURLTemplate builds a watch URL from a video id
const YouTubeWatchURLTemplate = "https://www.youtube.com/watch?v=%s"

// SearchResult is one candidate returned by a search
type SearchResult struct {
	Title    string
	ID       string
	URL      string
	Duration int // seconds
	Uploader string
}

// WatchURL returns the canonical watch URL of the result
func (r SearchResult) WatchURL() string {
	if r.ID == "" {
		return r.URL
	}
	return fmt.Sprintf(YouTubeWatchURLTemplate, r.ID)
}

// ShortTitle truncates the title to max runes, appending an ellipsis
func (r SearchResult) ShortTitle(max int) string {
	runes := []rune(r.Title)
	if max <= 0 || len(runes) <= max {
		return r.Title
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}

// AudioInfo describes a resolved audio stream. AudioURL is empty when the
// media has no audio-only format; callers must treat that as unavailable.
type AudioInfo struct {
	Title     string
	AudioURL  string
	Duration  int // seconds
	Thumbnail string
}

// Playable reports whether a direct audio URL was resolved
func (a *AudioInfo) Playable() bool {
	return a != nil && a.AudioURL != ""
}

// DownloadedFile is a file found directly under the downloads directory
type DownloadedFile struct {
	Name string
	Size int64
}

// FormatDuration renders seconds as m:ss, or h:mm:ss from one hour up
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0:00"
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// FormatSize renders a byte count with a binary unit
func FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
