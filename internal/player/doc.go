// Package player searches YouTube, resolves direct audio stream URLs for
// in-page playback and keeps the extraction client's cookie file in sync
// with the cookie store.
package player
