// Package extract drives yt-dlp (through github.com/lrstanley/go-ytdlp) with an
// explicit Options struct instead of a free-form option map. It exposes the
// calls both web UIs need: search, metadata/format listing, download and
// browser cookie export.
package extract
