package extract

import "fmt"

// SearchPrefix is the yt-dlp pseudo-URL scheme for YouTube search
const SearchPrefix = "ytsearch"

// Options enumerates the yt-dlp options this module uses. Zero values leave
// the corresponding flag unset.
type Options struct {
	// Format is the -f selection expression, e.g. "bestaudio/best".
	Format string
	// OutputTemplate is the -o path template, e.g. "downloads/Song.%(ext)s".
	OutputTemplate string
	// NoPlaylist downloads only the video when a watch URL also names a playlist.
	NoPlaylist bool
	// FlatPlaylist lists playlist or search entries without resolving each one.
	FlatPlaylist bool
	// DumpJSON prints the metadata of the whole target as one JSON document and
	// downloads nothing.
	DumpJSON bool
	// SkipDownload runs extraction (and cookie export) without fetching media.
	SkipDownload bool
	// MergeOutputFormat is the container used when video and audio are merged.
	MergeOutputFormat string
	// PostProcessor extracts audio inside yt-dlp after the download.
	PostProcessor *AudioPostProcessor
	// CookieFile is a Netscape cookie file read before and written after the run.
	CookieFile string
	// CookiesFromBrowser loads cookies from an installed browser profile.
	CookiesFromBrowser string
	// ForceOverwrites replaces existing output files.
	ForceOverwrites bool
	// OnProgress receives download progress while media is fetched.
	OnProgress func(Progress)
}

// AudioPostProcessor configures yt-dlp's FFmpegExtractAudio post-processor
type AudioPostProcessor struct {
	Codec   string // mp3, m4a, opus...
	Quality string // bitrate such as 192K, or 0-10 VBR
}

// Progress is a download progress snapshot
type Progress struct {
	Title           string
	DownloadedBytes int
	TotalBytes      int
	Percent         float64
}

// SearchTarget builds the search pseudo-URL returning at most max entries
func SearchTarget(query string, max int) string {
	return fmt.Sprintf("%s%d:%s", SearchPrefix, max, query)
}
