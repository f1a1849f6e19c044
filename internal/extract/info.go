package extract

import (
	"encoding/json"
	"fmt"
	"strings"
)

// CodecNone is the codec value yt-dlp reports for a missing stream
const CodecNone = "none"

// Info is the subset of yt-dlp's info dict this module reads
type Info struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	URL        string    `json:"url"`
	WebpageURL string    `json:"webpage_url"`
	Duration   float64   `json:"duration"`
	Uploader   string    `json:"uploader"`
	Channel    string    `json:"channel"`
	Thumbnail  string    `json:"thumbnail"`
	Formats    []*Format `json:"formats"`
	Entries    []*Info   `json:"entries"`
}

// Format is one entry of Info.Formats. Codec fields are pointers because
// yt-dlp omits them when unknown, which is different from "none".
type Format struct {
	FormatID string  `json:"format_id"`
	URL      string  `json:"url"`
	Ext      string  `json:"ext"`
	ACodec   *string `json:"acodec"`
	VCodec   *string `json:"vcodec"`
	ABR      float64 `json:"abr"`
	Height   int     `json:"height"`
}

// HasAudio reports whether the format carries audio. Unknown codecs count as present.
func (f *Format) HasAudio() bool {
	return f.ACodec == nil || *f.ACodec != CodecNone
}

// IsVideoless reports whether yt-dlp explicitly marked the video codec as none
func (f *Format) IsVideoless() bool {
	return f.VCodec != nil && *f.VCodec == CodecNone
}

// IsAudioOnly reports whether the format is an audio-only stream
func (f *Format) IsAudioOnly() bool {
	return f.HasAudio() && f.IsVideoless()
}

// DurationSeconds returns the duration rounded down to whole seconds
func (i *Info) DurationSeconds() int {
	if i == nil || i.Duration <= 0 {
		return 0
	}
	return int(i.Duration)
}

// Artist returns the uploader, falling back to the channel name
func (i *Info) Artist() string {
	if i.Uploader != "" {
		return i.Uploader
	}
	return i.Channel
}

// ParseInfo decodes the JSON document printed by --dump-single-json. Leading
// non-JSON lines (warnings printed to stdout) are skipped.
func ParseInfo(output string) (*Info, error) {
	start := strings.IndexByte(output, '{')
	if start < 0 {
		return nil, fmt.Errorf("no JSON document in yt-dlp output")
	}

	var info Info
	if err := json.Unmarshal([]byte(strings.TrimSpace(output[start:])), &info); err != nil {
		return nil, fmt.Errorf("failed to decode yt-dlp JSON: %w", err)
	}
	return &info, nil
}
