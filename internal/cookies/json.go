package cookies

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/ytget/yt-music/internal/model"
)

// uploadedCookie accepts both the WebDriver shape (expiry) and the browser
// extension shape (expirationDate, fractional seconds).
type uploadedCookie struct {
	Domain         string       `json:"domain"`
	Path           string       `json:"path"`
	Secure         bool         `json:"secure"`
	Expiry         *json.Number `json:"expiry"`
	ExpirationDate *json.Number `json:"expirationDate"`
	Name           string       `json:"name"`
	Value          string       `json:"value"`
	HTTPOnly       bool         `json:"httpOnly"`
	SameSite       string       `json:"sameSite"`
}

// ParseJSONCookies decodes an uploaded JSON array of cookies
func ParseJSONCookies(data []byte) ([]model.CookieEntry, error) {
	var raw []uploadedCookie
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: cookie JSON: %v", model.ErrInvalidInput, err)
	}

	entries := make([]model.CookieEntry, 0, len(raw))
	for i, c := range raw {
		if c.Name == "" || c.Domain == "" {
			return nil, fmt.Errorf("%w: cookie %d has no name or domain", model.ErrInvalidInput, i)
		}
		expiry, err := epochSeconds(c.Expiry, c.ExpirationDate)
		if err != nil {
			return nil, fmt.Errorf("%w: cookie %q: %v", model.ErrInvalidInput, c.Name, err)
		}
		entries = append(entries, model.CookieEntry{
			Domain:   c.Domain,
			Path:     c.Path,
			Secure:   c.Secure,
			Expiry:   expiry,
			Name:     c.Name,
			Value:    c.Value,
			HTTPOnly: c.HTTPOnly,
			SameSite: c.SameSite,
		})
	}
	return entries, nil
}

func epochSeconds(candidates ...*json.Number) (int64, error) {
	for _, n := range candidates {
		if n == nil {
			continue
		}
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("invalid expiry %q", n.String())
		}
		if f <= 0 {
			return 0, nil
		}
		return int64(math.Floor(f)), nil
	}
	return 0, nil
}
