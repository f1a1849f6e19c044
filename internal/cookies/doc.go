// Package cookies persists per-service cookie sets, converts them to the
// Netscape cookie file format read by yt-dlp, and acquires them either from
// an interactive browser login or from an installed browser profile.
package cookies
