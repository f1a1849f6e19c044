package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Activity icons per download kind
const (
	IconMusic = "🎵"
	IconVideo = "🎬"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	DashPlaceholder    = "—"
	TitleMaxRunes      = 70
)

// Form fields
const (
	FieldQuery    = "q"
	FieldURL      = "url"
	FieldKind     = "kind"
	FieldQuality  = "quality"
	FieldService  = "service"
	FieldBrowser  = "browser"
	FieldCookies  = "cookies"
	FieldLanguage = "lang"
)

// Upload limits
const (
	MaxCookieUploadBytes = 1 << 20
)

// Language cookie
const (
	LangCookieName   = "lang"
	LangCookieMaxAge = 365 * 24 * time.Hour
)

// Content types
const (
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypeZip  = "application/zip"
)
