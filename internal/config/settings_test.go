package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	s, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if s.DownloadDir != DefaultDownloadDir {
		t.Errorf("Expected download dir %s, got %s", DefaultDownloadDir, s.DownloadDir)
	}
	if s.CookieFile != DefaultCookieFile {
		t.Errorf("Expected cookie file %s, got %s", DefaultCookieFile, s.CookieFile)
	}
	if s.CookieMaxAge != 30*24*time.Hour {
		t.Errorf("Expected 30 day cookie max age, got %v", s.CookieMaxAge)
	}
	if s.SearchMaxResults != DefaultSearchMaxResults {
		t.Errorf("Expected %d search results, got %d", DefaultSearchMaxResults, s.SearchMaxResults)
	}
	if s.DefaultQuality != DefaultQuality {
		t.Errorf("Expected default quality %s, got %s", DefaultQuality, s.DefaultQuality)
	}
	if s.AudioTranscoder != TranscoderFF {
		t.Errorf("Expected transcoder %s, got %s", TranscoderFF, s.AudioTranscoder)
	}
	if s.LogLevel != slog.LevelInfo {
		t.Errorf("Expected info log level, got %v", s.LogLevel)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv(KeyDownloadDir, "/srv/media")
	t.Setenv(KeySearchMaxResults, "10")
	t.Setenv(KeyDefaultQuality, "1080")
	t.Setenv(KeyAudioTranscoder, TranscoderYT)
	t.Setenv(KeyLogLevel, "debug")
	t.Setenv(KeyLogFormat, "json")
	t.Setenv(KeyLanguage, "PT")

	s, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if s.DownloadDir != "/srv/media" {
		t.Errorf("Expected /srv/media, got %s", s.DownloadDir)
	}
	if s.SearchMaxResults != 10 {
		t.Errorf("Expected 10, got %d", s.SearchMaxResults)
	}
	if s.DefaultQuality != Quality1080 {
		t.Errorf("Expected 1080, got %s", s.DefaultQuality)
	}
	if s.AudioTranscoder != TranscoderYT {
		t.Errorf("Expected yt-dlp transcoder, got %s", s.AudioTranscoder)
	}
	if s.LogLevel != slog.LevelDebug {
		t.Errorf("Expected debug level, got %v", s.LogLevel)
	}
	if s.Language != "pt" {
		t.Errorf("Expected pt, got %s", s.Language)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{KeyLogLevel, "verbose"},
		{KeyLogFormat, "xml"},
		{KeyDefaultQuality, "999"},
		{KeyAudioTranscoder, "sox"},
	}

	for _, test := range tests {
		t.Run(test.key, func(t *testing.T) {
			t.Setenv(test.key, test.value)
			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%s", test.key, test.value)
			}
		})
	}
}

func TestSearchMaxResultsClamping(t *testing.T) {
	s := &Settings{}

	s.SetSearchMaxResults(0)
	if s.SearchMaxResults != 1 {
		t.Errorf("Expected clamp to 1, got %d", s.SearchMaxResults)
	}

	s.SetSearchMaxResults(100)
	if s.SearchMaxResults != MaxSearchResults {
		t.Errorf("Expected clamp to %d, got %d", MaxSearchResults, s.SearchMaxResults)
	}

	s.SetSearchMaxResults(7)
	if s.SearchMaxResults != 7 {
		t.Errorf("Expected 7, got %d", s.SearchMaxResults)
	}
}

func TestGetQualityPresetOptions(t *testing.T) {
	options := GetQualityPresetOptions()
	if options[0] != QualityBest {
		t.Errorf("Expected best first, got %s", options[0])
	}
	for _, o := range options {
		if !IsValidQuality(o) {
			t.Errorf("Option %s should be valid", o)
		}
	}
	if IsValidQuality("4k") {
		t.Error("4k should not be a valid preset")
	}
}

func TestSetLanguage(t *testing.T) {
	s := &Settings{}

	s.SetLanguage("ru")
	if s.Language != "ru" {
		t.Errorf("Expected ru, got %s", s.Language)
	}

	s.SetLanguage("de")
	if s.Language != DefaultLanguage {
		t.Errorf("Unknown language should fall back to %s, got %s", DefaultLanguage, s.Language)
	}
}
