package cookies

import (
	"strings"
)

// Service keys
const (
	ServiceYouTube      = "youtube"
	ServiceYouTubeMusic = "youtube_music"
	ServiceSpotify      = "spotify"
	ServiceOther        = "other"
)

// TransferFilePrefix and TransferFileExt name per-service Netscape files
const (
	TransferFilePrefix = "cookies_"
	TransferFileExt    = ".txt"
)

// Service describes a service selectable in the cookie sidebar
type Service struct {
	Key      string
	Name     string
	LoginURL string
}

// KnownServices lists the services offered in the UI, in display order
var KnownServices = []Service{
	{Key: ServiceYouTube, Name: "YouTube", LoginURL: "https://accounts.google.com/ServiceLogin?service=youtube&continue=https://www.youtube.com/"},
	{Key: ServiceYouTubeMusic, Name: "YouTube Music", LoginURL: "https://music.youtube.com/"},
	{Key: ServiceSpotify, Name: "Spotify", LoginURL: "https://accounts.spotify.com/login"},
	{Key: ServiceOther, Name: "Other", LoginURL: ""},
}

// SupportedBrowsers are the profiles yt-dlp can read cookies from
var SupportedBrowsers = []string{"chrome", "firefox", "edge", "brave", "chromium", "opera", "safari", "vivaldi"}

// ServiceKey normalises a display name or key: "YouTube Music" -> "youtube_music"
func ServiceKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

// LookupService finds a known service by key or display name
func LookupService(name string) (Service, bool) {
	key := ServiceKey(name)
	for _, s := range KnownServices {
		if s.Key == key {
			return s, true
		}
	}
	return Service{}, false
}

// TransferFileName returns the per-service Netscape file name, e.g. cookies_youtube.txt
func TransferFileName(service string) string {
	return TransferFilePrefix + ServiceKey(service) + TransferFileExt
}

// IsSupportedBrowser reports whether yt-dlp can import from browser
func IsSupportedBrowser(browser string) bool {
	for _, b := range SupportedBrowsers {
		if b == browser {
			return true
		}
	}
	return false
}
