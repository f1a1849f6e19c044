package compress

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ytget/yt-music/internal/model"
)

// FFmpeg constants for MP3 transcoding
const (
	// Audio codec settings
	AudioCodec          = "libmp3lame"
	DefaultAudioBitrate = "192k"
	OutputFormat        = "mp3"

	// Executable and I/O constants
	FFmpegCommand       = "ffmpeg"
	FFprobeCommand      = "ffprobe"
	FFprobeLogLevel     = "error"
	FFprobeShowEntries  = "format=duration"
	FFprobeOutputFormat = "csv=p=0"
	ProgressPipeTarget  = "pipe:2"
	ProgressTimePrefix  = "out_time_us="

	// Partial output lives next to the target and is skipped by file listings
	PartialSuffix = ".part"

	stderrTailLines = 5
)

// FFmpegTranscoder transcodes audio with ffmpeg subprocesses
type FFmpegTranscoder struct {
	ffmpeg  string
	ffprobe string
	bitrate string
	logger  *slog.Logger
}

// NewFFmpegTranscoder creates a transcoder. Empty paths and bitrate select defaults.
func NewFFmpegTranscoder(ffmpegPath, ffprobePath, bitrate string, logger *slog.Logger) *FFmpegTranscoder {
	if ffmpegPath == "" {
		ffmpegPath = FFmpegCommand
	}
	if ffprobePath == "" {
		ffprobePath = FFprobeCommand
	}
	if bitrate == "" {
		bitrate = DefaultAudioBitrate
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FFmpegTranscoder{
		ffmpeg:  ffmpegPath,
		ffprobe: ffprobePath,
		bitrate: bitrate,
		logger:  logger,
	}
}

// ToMP3 writes inputPath as an MP3 to outputPath. Output is produced under a
// partial name and renamed on success; on failure nothing is left behind.
func (t *FFmpegTranscoder) ToMP3(ctx context.Context, inputPath, outputPath string, onProgress func(percent int)) error {
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("%w: transcoder input %s: %v", model.ErrFilesystem, inputPath, err)
	}

	// progress is reported only when the duration is known
	duration, err := t.mediaDuration(ctx, inputPath)
	if err != nil {
		t.logger.Warn("ffprobe failed, progress unavailable", slog.String("input", inputPath), slog.Any("error", err))
	}

	partial := outputPath + PartialSuffix
	args := t.BuildFFmpegArgs(inputPath, partial)
	cmd := exec.CommandContext(ctx, t.ffmpeg, args...)

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("%w: stderr pipe: %v", model.ErrTranscode, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: start %s: %v", model.ErrTranscode, t.ffmpeg, err)
	}

	// stderr must be drained before Wait
	lines := monitorProgress(stderr, duration, onProgress)

	if err := cmd.Wait(); err != nil {
		os.Remove(partial)
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %v", model.ErrTranscode, ctx.Err())
		}
		return fmt.Errorf("%w: %v: %s", model.ErrTranscode, err, strings.Join(lines, "; "))
	}

	if err := os.Rename(partial, outputPath); err != nil {
		os.Remove(partial)
		return fmt.Errorf("%w: rename %s: %v", model.ErrFilesystem, partial, err)
	}

	t.logger.Info("transcoded to mp3",
		slog.String("input", inputPath),
		slog.String("output", outputPath),
		slog.String("bitrate", t.bitrate),
	)
	return nil
}

// BuildFFmpegArgs builds the ffmpeg command arguments
func (t *FFmpegTranscoder) BuildFFmpegArgs(inputPath, outputPath string) []string {
	return []string{
		"-y",            // Overwrite output file
		"-i", inputPath, // Input file
		"-vn",              // Drop video and cover art streams
		"-c:a", AudioCodec, // Audio codec
		"-b:a", t.bitrate, // Audio bitrate
		"-f", OutputFormat, // Container, the partial name has no usable extension
		"-progress", ProgressPipeTarget, // Progress to stderr
		"-nostats", // No stats output
		outputPath, // Output file
	}
}

// mediaDuration gets the duration of a media file in seconds using ffprobe
func (t *FFmpegTranscoder) mediaDuration(ctx context.Context, filePath string) (float64, error) {
	cmd := exec.CommandContext(ctx, t.ffprobe, "-v", FFprobeLogLevel, "-show_entries", FFprobeShowEntries, "-of", FFprobeOutputFormat, filePath)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return 0, fmt.Errorf("ffprobe: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return 0, fmt.Errorf("failed to run ffprobe: %w", err)
	}
	return parseDuration(string(output))
}

func parseDuration(output string) (float64, error) {
	duration, err := strconv.ParseFloat(strings.TrimSpace(output), 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse duration: %w", err)
	}
	return duration, nil
}

// monitorProgress consumes ffmpeg's stderr, reports progress and returns the
// last diagnostic lines for error messages.
func monitorProgress(stderr io.Reader, totalDuration float64, onProgress func(percent int)) []string {
	var tail []string
	lastPercent := -1
	scanner := bufio.NewScanner(stderr)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		// Parse progress line: out_time_us=123456
		if strings.HasPrefix(line, ProgressTimePrefix) {
			percent, ok := progressPercent(strings.TrimPrefix(line, ProgressTimePrefix), totalDuration)
			if ok && percent != lastPercent && onProgress != nil {
				lastPercent = percent
				onProgress(percent)
			}
			continue
		}
		if isProgressKey(line) {
			continue
		}

		tail = append(tail, line)
		if len(tail) > stderrTailLines {
			tail = tail[1:]
		}
	}
	return tail
}

// progressPercent converts an out_time_us value into a 0..100 percentage
func progressPercent(value string, totalDuration float64) (int, bool) {
	if totalDuration <= 0 {
		return 0, false
	}
	timeMicroseconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil || timeMicroseconds < 0 {
		return 0, false
	}

	progress := float64(timeMicroseconds) / 1000000.0 / totalDuration
	if progress > 1.0 {
		progress = 1.0
	}
	return int(progress * 100), true
}

// isProgressKey matches the key=value lines of -progress output
func isProgressKey(line string) bool {
	idx := strings.IndexByte(line, '=')
	return idx > 0 && !strings.ContainsAny(line[:idx], " \t:")
}
