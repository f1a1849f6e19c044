// Package download implements the download pipeline built on top of yt-dlp
// (via github.com/lrstanley/go-ytdlp) and ffmpeg. Each download runs to
// completion inside the calling request; the package resolves the title,
// names the output file, fetches the media, transcodes audio and cleans up
// after failures. It also lists, archives and clears the downloads directory
// and expands playlists into single videos.
package download
