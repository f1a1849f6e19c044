package compress

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/ytget/yt-music/internal/model"
)

func TestBuildFFmpegArgs(t *testing.T) {
	transcoder := NewFFmpegTranscoder("", "", "", nil)
	args := transcoder.BuildFFmpegArgs("/input.webm", "/output.mp3.part")

	expectedArgs := []string{
		"-y",
		"-i", "/input.webm",
		"-vn",
		"-c:a", AudioCodec,
		"-b:a", DefaultAudioBitrate,
		"-f", "mp3",
		"-progress", "pipe:2",
		"-nostats",
		"/output.mp3.part",
	}

	if len(args) != len(expectedArgs) {
		t.Fatalf("Expected %d args, got %d", len(expectedArgs), len(args))
	}

	for i, expected := range expectedArgs {
		if args[i] != expected {
			t.Errorf("Arg %d: expected %s, got %s", i, expected, args[i])
		}
	}
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		value    string
		duration float64
		want     int
		ok       bool
	}{
		{"5000000", 10, 50, true},
		{"0", 10, 0, true},
		{"20000000", 10, 100, true},
		{"N/A", 10, 0, false},
		{"5000000", 0, 0, false},
		{"-1", 10, 0, false},
	}

	for _, test := range tests {
		got, ok := progressPercent(test.value, test.duration)
		if got != test.want || ok != test.ok {
			t.Errorf("progressPercent(%q, %v) = %d, %v; want %d, %v", test.value, test.duration, got, ok, test.want, test.ok)
		}
	}
}

func TestMonitorProgress(t *testing.T) {
	stderr := strings.Join([]string{
		"Input #0, matroska,webm, from 'in.webm':",
		"out_time_us=2500000",
		"speed=12.3x",
		"progress=continue",
		"out_time_us=2600000",
		"out_time_us=10000000",
		"progress=end",
		"[libmp3lame @ 0x1] something odd",
	}, "\n")

	var reported []int
	tail := monitorProgress(strings.NewReader(stderr), 10, func(p int) { reported = append(reported, p) })

	if want := []int{25, 26, 100}; len(reported) != len(want) {
		t.Fatalf("reported %v, want %v", reported, want)
	}
	if len(tail) != 2 || !strings.Contains(tail[1], "libmp3lame") {
		t.Errorf("tail = %v", tail)
	}
}

func TestParseDuration(t *testing.T) {
	if d, err := parseDuration("212.341000\n"); err != nil || d != 212.341 {
		t.Errorf("parseDuration() = %v, %v", d, err)
	}
	if _, err := parseDuration("N/A"); err == nil {
		t.Error("parseDuration(N/A) expected error")
	}
}

func TestToMP3_MissingInput(t *testing.T) {
	transcoder := NewFFmpegTranscoder("", "", "", nil)
	err := transcoder.ToMP3(context.Background(), "/path/to/nonexistent/file.webm", filepath.Join(t.TempDir(), "out.mp3"), nil)
	if !errors.Is(err, model.ErrFilesystem) {
		t.Errorf("error = %v, want ErrFilesystem", err)
	}
}

func TestToMP3_MissingFFmpeg(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.webm")
	if err := os.WriteFile(input, []byte("media"), 0644); err != nil {
		t.Fatal(err)
	}

	transcoder := NewFFmpegTranscoder(filepath.Join(dir, "no-ffmpeg"), filepath.Join(dir, "no-ffprobe"), "", nil)
	output := filepath.Join(dir, "out.mp3")
	if err := transcoder.ToMP3(context.Background(), input, output, nil); !errors.Is(err, model.ErrTranscode) {
		t.Errorf("error = %v, want ErrTranscode", err)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Error("output must not exist after failure")
	}
}

// writeScript installs an executable shell script standing in for ffmpeg/ffprobe
func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestToMP3_WithScripts(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}

	dir := t.TempDir()
	ffprobe := writeScript(t, dir, "ffprobe", "echo 4.0\n")
	ffmpeg := writeScript(t, dir, "ffmpeg", `for last; do :; done
echo out_time_us=2000000 >&2
echo out_time_us=4000000 >&2
printf 'ID3fake-mp3' > "$last"
`)
	failing := writeScript(t, dir, "ffmpeg-fail", `for last; do :; done
printf 'partial' > "$last"
echo "Invalid data found when processing input" >&2
exit 1
`)

	input := filepath.Join(dir, "in.webm")
	if err := os.WriteFile(input, []byte("media"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Run("success", func(t *testing.T) {
		output := filepath.Join(dir, "song.mp3")
		var progress []int
		transcoder := NewFFmpegTranscoder(ffmpeg, ffprobe, "128k", nil)
		if err := transcoder.ToMP3(context.Background(), input, output, func(p int) { progress = append(progress, p) }); err != nil {
			t.Fatalf("ToMP3() error = %v", err)
		}

		info, err := os.Stat(output)
		if err != nil || info.Size() == 0 {
			t.Fatalf("output missing or empty: %v", err)
		}
		if _, err := os.Stat(output + PartialSuffix); !os.IsNotExist(err) {
			t.Error("partial file left behind")
		}
		if len(progress) != 2 || progress[1] != 100 {
			t.Errorf("progress = %v, want [50 100]", progress)
		}
	})

	t.Run("failure", func(t *testing.T) {
		output := filepath.Join(dir, "broken.mp3")
		transcoder := NewFFmpegTranscoder(failing, ffprobe, "", nil)
		err := transcoder.ToMP3(context.Background(), input, output, nil)
		if !errors.Is(err, model.ErrTranscode) {
			t.Fatalf("error = %v, want ErrTranscode", err)
		}
		if !strings.Contains(err.Error(), "Invalid data") {
			t.Errorf("error should carry ffmpeg output: %v", err)
		}
		if _, err := os.Stat(output); !os.IsNotExist(err) {
			t.Error("output must not exist after failure")
		}
		if _, err := os.Stat(output + PartialSuffix); !os.IsNotExist(err) {
			t.Error("partial file must be removed after failure")
		}
	})
}
