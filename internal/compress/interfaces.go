package compress

import (
	"context"
)

// Transcoder converts a downloaded media file into an MP3 file
type Transcoder interface {
	ToMP3(ctx context.Context, inputPath, outputPath string, onProgress func(percent int)) error
}

// Archiver packs files into a single zip archive
type Archiver interface {
	Archive(paths []string, archivePath string) (string, error)
}
