package ui

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ytget/yt-music/internal/model"
)

func TestLocalizationFallback(t *testing.T) {
	loc := NewLocalization()

	if got := loc.Text("ru", KeySearch); got != "Поиск" {
		t.Errorf("Expected Russian text, got %q", got)
	}
	if got := loc.Text("de", KeySearch); got != "Search" {
		t.Errorf("Expected English fallback for unknown language, got %q", got)
	}
	if got := loc.Text("en", "missing_key"); got != "missing_key" {
		t.Errorf("Expected key fallback, got %q", got)
	}
}

func TestLocalizationSetLanguage(t *testing.T) {
	loc := NewLocalization()

	loc.SetLanguage("pt")
	if loc.GetCurrentLanguage() != "pt" {
		t.Errorf("Expected pt, got %s", loc.GetCurrentLanguage())
	}

	loc.SetLanguage("xx")
	if loc.GetCurrentLanguage() != "pt" {
		t.Error("Unknown language must not replace the current one")
	}

	loc.SetLanguage("system")
	if loc.GetCurrentLanguage() != DefaultLanguage {
		t.Errorf("Expected system to select %s, got %s", DefaultLanguage, loc.GetCurrentLanguage())
	}
}

func TestLocalizationComplete(t *testing.T) {
	loc := NewLocalization()

	for key := range loc.texts[DefaultLanguage] {
		for _, lang := range loc.LanguageCodes() {
			if _, ok := loc.texts[lang][key]; !ok {
				t.Errorf("Language %s is missing %s", lang, key)
			}
		}
	}
}

func TestLocalizationFormat(t *testing.T) {
	loc := NewLocalization()

	if got := loc.Format("en", KeyCookiesSaved, 3, "youtube"); got != "3 cookies saved for youtube" {
		t.Errorf("Unexpected formatted text %q", got)
	}
}

func TestMatchLanguage(t *testing.T) {
	loc := NewLocalization()

	tests := []struct {
		accept string
		want   string
		ok     bool
	}{
		{"ru-RU,ru;q=0.9,en;q=0.8", "ru", true},
		{"de-DE, pt-BR;q=0.7", "pt", true},
		{"EN-us", "en", true},
		{"de, fr", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := loc.MatchLanguage(tt.accept)
		if got != tt.want || ok != tt.ok {
			t.Errorf("MatchLanguage(%q) = %q, %v; want %q, %v", tt.accept, got, ok, tt.want, tt.ok)
		}
	}
}

func TestErrorKey(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("%w: empty query", model.ErrInvalidInput), KeyErrorInvalidInput},
		{fmt.Errorf("%w: exit status 1", model.ErrExtraction), KeyErrorExtraction},
		{fmt.Errorf("%w: launch", model.ErrAutomation), KeyErrorAutomation},
		{model.ErrLoginTimeout, KeyErrorLoginTimeout},
		{fmt.Errorf("%w: context canceled", model.ErrLoginAborted), KeyErrorLoginAborted},
		{fmt.Errorf("%w: disk full", model.ErrFilesystem), KeyErrorFilesystem},
		{fmt.Errorf("%w: ffmpeg", model.ErrTranscode), KeyErrorTranscode},
		{fmt.Errorf("search: %w", context.Canceled), KeyErrorCanceled},
		{errors.New("boom"), KeyErrorGeneric},
	}

	for _, tt := range tests {
		if got := errorKey(tt.err); got != tt.want {
			t.Errorf("errorKey(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	loc := NewLocalization()
	err := fmt.Errorf("%w: disk full", model.ErrFilesystem)

	got := errorMessage(loc, "en", err)
	want := loc.Text("en", KeyErrorFilesystem) + ": filesystem operation failed: disk full"
	if got != want {
		t.Errorf("errorMessage = %q, want %q", got, want)
	}
}
