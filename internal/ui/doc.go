package ui

// Package ui contains the server-rendered web interfaces of the music player
// and the downloader. It wires form submissions to the player, cookie and
// download services, keeps per-browser state in sessions and renders pages
// from embedded templates. All UI strings are localized via Localization.
