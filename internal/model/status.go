package model

// TaskStatus is the outcome of a download as shown in the activity list
type TaskStatus string

const (
	// TaskStatusDownloading means yt-dlp or the transcoder is still running
	TaskStatusDownloading TaskStatus = "Downloading"

	// TaskStatusCompleted means the file exists at OutputPath
	TaskStatusCompleted TaskStatus = "Completed"

	// TaskStatusError means the download failed and left no file behind
	TaskStatusError TaskStatus = "Error"
)

// String returns the string representation of TaskStatus
func (ts TaskStatus) String() string {
	return string(ts)
}

// IsFinished reports whether the task reached completed or error
func (ts TaskStatus) IsFinished() bool {
	return ts == TaskStatusCompleted || ts == TaskStatusError
}
