package model

import (
	"strings"
	"time"
)

// DownloadKind selects between a merged video file and a transcoded audio file
type DownloadKind string

const (
	KindVideo DownloadKind = "video"
	KindAudio DownloadKind = "audio"
)

// DownloadTask records one synchronous download and its outcome
type DownloadTask struct {
	ID         string
	URL        string
	Kind       DownloadKind
	Quality    string
	Status     TaskStatus
	LastError  string    // last error message if any
	OutputPath string    // path to downloaded file
	StartedAt  time.Time // when download started
	FinishedAt time.Time // when download finished
	Title      string    // video title
	FileSize   int64     // file size in bytes

	err error
}

// Fail marks the task failed with err
func (dt *DownloadTask) Fail(err error) {
	dt.Status = TaskStatusError
	dt.LastError = err.Error()
	dt.err = err
}

// Err returns the error passed to Fail, nil otherwise
func (dt *DownloadTask) Err() error {
	return dt.err
}

// Elapsed returns how long the task ran, zero while it is unfinished
func (dt *DownloadTask) Elapsed() time.Duration {
	if dt.FinishedAt.IsZero() || dt.StartedAt.IsZero() {
		return 0
	}
	return dt.FinishedAt.Sub(dt.StartedAt).Round(time.Second)
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	// First priority: video title (non-URL)
	if dt.Title != "" && !strings.HasPrefix(dt.Title, "http") {
		return dt.Title
	}

	// Second priority: filename from OutputPath
	if dt.OutputPath != "" {
		parts := strings.FieldsFunc(dt.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			if idx := strings.LastIndex(filename, "."); idx > 0 {
				filename = filename[:idx]
			}
			return filename
		}
	}

	return dt.URL
}
