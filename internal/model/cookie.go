package model

import "time"

// DefaultCookieMaxAge is the freshness window of a stored cookie record.
const DefaultCookieMaxAge = 30 * 24 * time.Hour

// CookieEntry is a single browser cookie as exported by the automated browser
// or uploaded by the user as JSON.
type CookieEntry struct {
	Domain   string `json:"domain"`
	Path     string `json:"path,omitempty"`
	Secure   bool   `json:"secure"`
	Expiry   int64  `json:"expiry,omitempty"` // epoch seconds, 0 for session cookies
	Name     string `json:"name"`
	Value    string `json:"value"`
	HTTPOnly bool   `json:"httpOnly,omitempty"`
	SameSite string `json:"sameSite,omitempty"`
}

// CookieRecord is the stored cookie set of one service.
type CookieRecord struct {
	Cookies   []CookieEntry `json:"cookies"`
	Timestamp time.Time     `json:"-"`
}

// IsFresh reports whether the record is younger than maxAge at now.
func (r *CookieRecord) IsFresh(now time.Time, maxAge time.Duration) bool {
	if r == nil || r.Timestamp.IsZero() {
		return false
	}
	return now.Sub(r.Timestamp) < maxAge
}

// CookieStatus summarises the stored cookies of a service for display.
type CookieStatus struct {
	Service   string
	Count     int
	SavedAt   time.Time
	Fresh     bool
	HasRecord bool
}
