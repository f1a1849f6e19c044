package extract

import "testing"

func strPtr(s string) *string { return &s }

func TestFormatClassification(t *testing.T) {
	tests := []struct {
		name      string
		format    Format
		audioOnly bool
	}{
		{"audio only", Format{ACodec: strPtr("opus"), VCodec: strPtr("none")}, true},
		{"muxed", Format{ACodec: strPtr("mp4a.40.2"), VCodec: strPtr("avc1")}, false},
		{"video only", Format{ACodec: strPtr("none"), VCodec: strPtr("vp9")}, false},
		{"storyboard", Format{ACodec: strPtr("none"), VCodec: strPtr("none")}, false},
		{"unknown acodec", Format{VCodec: strPtr("none")}, true},
		{"unknown vcodec", Format{ACodec: strPtr("opus")}, false},
	}

	for _, test := range tests {
		if got := test.format.IsAudioOnly(); got != test.audioOnly {
			t.Errorf("%s: IsAudioOnly() = %v, expected %v", test.name, got, test.audioOnly)
		}
	}
}

func TestParseInfo(t *testing.T) {
	info, err := ParseInfo(`{"id":"x","title":"T","duration":61.7,"thumbnail":"https://i.ytimg.com/x.jpg","formats":[{"format_id":"251","url":"https://a","acodec":"opus","vcodec":"none"}]}`)
	if err != nil {
		t.Fatalf("ParseInfo() error = %v", err)
	}
	if info.DurationSeconds() != 61 {
		t.Errorf("Expected 61s, got %d", info.DurationSeconds())
	}
	if len(info.Formats) != 1 || !info.Formats[0].IsAudioOnly() {
		t.Errorf("Unexpected formats %+v", info.Formats)
	}

	if _, err := ParseInfo("ERROR: nothing"); err == nil {
		t.Error("Expected error without JSON document")
	}
}

func TestSearchTarget(t *testing.T) {
	if got := SearchTarget("lofi beats", 3); got != "ytsearch3:lofi beats" {
		t.Errorf("SearchTarget() = %q", got)
	}
}
