package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
)

// Version is set during build via -ldflags "-X .../internal/config.Version=X.Y.Z"
var Version = "dev"

// QualityPreset is a video height cap or the best-available sentinel
type QualityPreset string

const (
	QualityBest QualityPreset = "best"
	Quality2160 QualityPreset = "2160"
	Quality1440 QualityPreset = "1440"
	Quality1080 QualityPreset = "1080"
	Quality720  QualityPreset = "720"
	Quality480  QualityPreset = "480"
	Quality360  QualityPreset = "360"
)

// Audio transcoders
const (
	TranscoderFF = "ffmpeg"
	TranscoderYT = "yt-dlp"
)

// Environment keys
const (
	KeyPlayerAddr          = "PLAYER_ADDR"
	KeyDownloaderAddr      = "DOWNLOADER_ADDR"
	KeyLogLevel            = "LOG_LEVEL"
	KeyLogFormat           = "LOG_FORMAT"
	KeyDownloadDir         = "DOWNLOAD_DIR"
	KeyArchivePath         = "ARCHIVE_PATH"
	KeyCookieFile          = "COOKIE_FILE"
	KeyYouTubeCookieTxt    = "YOUTUBE_COOKIE_TXT"
	KeyCookieMaxAge        = "COOKIE_MAX_AGE"
	KeySearchMaxResults    = "SEARCH_MAX_RESULTS"
	KeyDefaultQuality      = "DEFAULT_QUALITY"
	KeyYTDLPPath           = "YTDLP_PATH"
	KeyFFmpegPath          = "FFMPEG_PATH"
	KeyFFprobePath         = "FFPROBE_PATH"
	KeyAudioBitrate        = "AUDIO_BITRATE"
	KeyAudioTranscoder     = "AUDIO_TRANSCODER"
	KeyExtractRate         = "EXTRACT_RATE"
	KeyExtractBurst        = "EXTRACT_BURST"
	KeySessionTTL          = "SESSION_TTL"
	KeySessionMax          = "SESSION_MAX"
	KeyBrowserLoginTimeout = "BROWSER_LOGIN_TIMEOUT"
	KeyBrowserPath         = "BROWSER_PATH"
	KeyCookieCheckURL      = "COOKIE_CHECK_URL"
	KeyLanguage            = "UI_LANGUAGE"
	KeyHTTPReadTimeout     = "HTTP_READ_TIMEOUT"
	KeyHTTPWriteTimeout    = "HTTP_WRITE_TIMEOUT"
	KeyHTTPIdleTimeout     = "HTTP_IDLE_TIMEOUT"
	KeyShutdownTimeout     = "SHUTDOWN_TIMEOUT"
)

// Default values
const (
	DefaultPlayerAddr          = ":8501"
	DefaultDownloaderAddr      = ":8502"
	DefaultLogLevel            = "info"
	DefaultLogFormat           = "text"
	DefaultDownloadDir         = "downloads"
	DefaultArchivePath         = "downloads.zip"
	DefaultCookieFile          = "music_cookies.json"
	DefaultYouTubeCookieTxt    = "youtube_cookies.txt"
	DefaultCookieMaxAge        = 30 * 24 * time.Hour
	DefaultSearchMaxResults    = 5
	MaxSearchResults           = 25
	DefaultQuality             = Quality720
	DefaultAudioBitrate        = "192k"
	DefaultAudioTranscoder     = TranscoderFF
	DefaultExtractRate         = 2.0
	DefaultExtractBurst        = 4
	DefaultSessionTTL          = 12 * time.Hour
	DefaultSessionMax          = 256
	DefaultBrowserLoginTimeout = 10 * time.Minute
	DefaultCookieCheckURL      = "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	DefaultLanguage            = "en"
	DefaultHTTPReadTimeout     = 30 * time.Second
	DefaultHTTPWriteTimeout    = 30 * time.Minute
	DefaultHTTPIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout     = 5 * time.Second
)

// Settings holds the configuration shared by both web UIs
type Settings struct {
	PlayerAddr     string
	DownloaderAddr string
	LogLevel       slog.Level
	LogFormat      string

	DownloadDir      string
	ArchivePath      string
	CookieFile       string
	YouTubeCookieTxt string
	CookieMaxAge     time.Duration
	SearchMaxResults int
	DefaultQuality   QualityPreset

	YTDLPPath       string
	FFmpegPath      string
	FFprobePath     string
	AudioBitrate    string
	AudioTranscoder string
	ExtractRate     float64
	ExtractBurst    int

	SessionTTL          time.Duration
	SessionMax          int
	BrowserLoginTimeout time.Duration
	BrowserPath         string
	CookieCheckURL      string
	Language            string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	ShutdownTimeout  time.Duration
}

// Load reads settings from the environment, applying defaults and bounds.
func Load() (*Settings, error) {
	s := &Settings{
		PlayerAddr:          env.Str(KeyPlayerAddr, DefaultPlayerAddr),
		DownloaderAddr:      env.Str(KeyDownloaderAddr, DefaultDownloaderAddr),
		LogFormat:           env.Str(KeyLogFormat, DefaultLogFormat),
		DownloadDir:         env.Str(KeyDownloadDir, DefaultDownloadDir),
		ArchivePath:         env.Str(KeyArchivePath, DefaultArchivePath),
		CookieFile:          env.Str(KeyCookieFile, DefaultCookieFile),
		YouTubeCookieTxt:    env.Str(KeyYouTubeCookieTxt, DefaultYouTubeCookieTxt),
		CookieMaxAge:        env.Duration(KeyCookieMaxAge, DefaultCookieMaxAge),
		YTDLPPath:           env.Str(KeyYTDLPPath, ""),
		FFmpegPath:          env.Str(KeyFFmpegPath, "ffmpeg"),
		FFprobePath:         env.Str(KeyFFprobePath, "ffprobe"),
		AudioBitrate:        env.Str(KeyAudioBitrate, DefaultAudioBitrate),
		ExtractRate:         env.Float(KeyExtractRate, DefaultExtractRate),
		SessionTTL:          env.Duration(KeySessionTTL, DefaultSessionTTL),
		BrowserLoginTimeout: env.Duration(KeyBrowserLoginTimeout, DefaultBrowserLoginTimeout),
		BrowserPath:         env.Str(KeyBrowserPath, ""),
		CookieCheckURL:      env.Str(KeyCookieCheckURL, DefaultCookieCheckURL),
		HTTPReadTimeout:     env.Duration(KeyHTTPReadTimeout, DefaultHTTPReadTimeout),
		HTTPWriteTimeout:    env.Duration(KeyHTTPWriteTimeout, DefaultHTTPWriteTimeout),
		HTTPIdleTimeout:     env.Duration(KeyHTTPIdleTimeout, DefaultHTTPIdleTimeout),
		ShutdownTimeout:     env.Duration(KeyShutdownTimeout, DefaultShutdownTimeout),
	}

	level, err := ParseLogLevel(env.Str(KeyLogLevel, DefaultLogLevel))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyLogLevel, err)
	}
	s.LogLevel = level

	if s.LogFormat != "json" && s.LogFormat != "text" {
		return nil, fmt.Errorf("%s: unsupported format %q, expected json or text", KeyLogFormat, s.LogFormat)
	}

	if err := s.SetDefaultQuality(QualityPreset(env.Str(KeyDefaultQuality, string(DefaultQuality)))); err != nil {
		return nil, fmt.Errorf("%s: %w", KeyDefaultQuality, err)
	}

	switch t := env.Str(KeyAudioTranscoder, DefaultAudioTranscoder); t {
	case TranscoderFF, TranscoderYT:
		s.AudioTranscoder = t
	default:
		return nil, fmt.Errorf("%s: unsupported transcoder %q, expected %s or %s", KeyAudioTranscoder, t, TranscoderFF, TranscoderYT)
	}

	s.SetSearchMaxResults(env.Int(KeySearchMaxResults, DefaultSearchMaxResults))
	s.SetExtractBurst(env.Int(KeyExtractBurst, DefaultExtractBurst))
	s.SetSessionMax(env.Int(KeySessionMax, DefaultSessionMax))
	s.SetLanguage(env.Str(KeyLanguage, DefaultLanguage))

	if s.CookieMaxAge <= 0 {
		s.CookieMaxAge = DefaultCookieMaxAge
	}
	if s.ExtractRate <= 0 {
		s.ExtractRate = DefaultExtractRate
	}

	return s, nil
}

// SetSearchMaxResults sets the search bound, clamped to [1, MaxSearchResults]
func (s *Settings) SetSearchMaxResults(count int) {
	if count < 1 {
		count = 1
	}
	if count > MaxSearchResults {
		count = MaxSearchResults
	}
	s.SearchMaxResults = count
}

// SetExtractBurst sets the limiter burst, at least 1
func (s *Settings) SetExtractBurst(burst int) {
	if burst < 1 {
		burst = 1
	}
	s.ExtractBurst = burst
}

// SetSessionMax sets the session capacity, at least 1
func (s *Settings) SetSessionMax(max int) {
	if max < 1 {
		max = DefaultSessionMax
	}
	s.SessionMax = max
}

// SetDefaultQuality validates and sets the preselected quality
func (s *Settings) SetDefaultQuality(preset QualityPreset) error {
	if !IsValidQuality(preset) {
		return fmt.Errorf("unknown quality preset %q", preset)
	}
	s.DefaultQuality = preset
	return nil
}

// SetLanguage sets the UI language, falling back to the default for unknown codes
func (s *Settings) SetLanguage(lang string) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if _, ok := GetLanguageOptions()[lang]; !ok {
		lang = DefaultLanguage
	}
	s.Language = lang
}

// GetQualityPresetOptions returns available quality options, best first
func GetQualityPresetOptions() []QualityPreset {
	return []QualityPreset{QualityBest, Quality2160, Quality1440, Quality1080, Quality720, Quality480, Quality360}
}

// IsValidQuality reports whether preset is one of GetQualityPresetOptions
func IsValidQuality(preset QualityPreset) bool {
	for _, p := range GetQualityPresetOptions() {
		if p == preset {
			return true
		}
	}
	return false
}

// GetLanguageOptions returns available language options
func GetLanguageOptions() map[string]string {
	return map[string]string{
		"en": "English",
		"pt": "Português",
		"ru": "Русский",
	}
}

// ParseLogLevel maps a level name to slog.Level
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// SetupLogger configures the default slog logger from settings.
func SetupLogger(s *Settings) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: s.LogLevel,
	}

	var handler slog.Handler
	if s.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler).With(slog.String("version", Version))
	slog.SetDefault(logger)
	return logger
}
