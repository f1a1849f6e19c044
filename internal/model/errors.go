package model

import "errors"

var (
	// ErrInvalidInput indicates an empty or malformed query, URL or form value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrExtraction indicates yt-dlp failed to resolve, list or fetch media.
	ErrExtraction = errors.New("extraction failed")
	// ErrAutomation indicates the automated browser could not be launched or driven.
	ErrAutomation = errors.New("browser automation failed")
	// ErrFilesystem indicates a local file could not be read, written or removed.
	ErrFilesystem = errors.New("filesystem operation failed")
	// ErrLoginTimeout indicates the interactive login was not confirmed in time.
	ErrLoginTimeout = errors.New("browser login timed out")
	// ErrLoginAborted indicates the interactive login was cancelled by the user.
	ErrLoginAborted = errors.New("browser login aborted")
	// ErrTranscode indicates ffmpeg could not produce the requested audio file.
	ErrTranscode = errors.New("audio transcoding failed")
)
