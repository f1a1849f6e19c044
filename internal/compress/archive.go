package compress

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"

	"github.com/ytget/yt-music/internal/model"
)

// ZipArchiver writes Deflate-compressed zip archives
type ZipArchiver struct {
	logger *slog.Logger
}

// NewZipArchiver creates an archiver
func NewZipArchiver(logger *slog.Logger) *ZipArchiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &ZipArchiver{logger: logger}
}

// Archive packs paths into archivePath, naming entries by base name. A
// second file with an already used base name is skipped. The archive is
// written to a temp file and renamed into place.
func (a *ZipArchiver) Archive(paths []string, archivePath string) (string, error) {
	if len(paths) == 0 {
		return "", fmt.Errorf("%w: nothing to archive", model.ErrInvalidInput)
	}

	dir := filepath.Dir(archivePath)
	tmp, err := os.CreateTemp(dir, filepath.Base(archivePath)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: create temp in %s: %v", model.ErrFilesystem, dir, err)
	}
	tmpName := tmp.Name()
	fail := func(err error) (string, error) {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}

	zw := zip.NewWriter(tmp)
	seen := make(map[string]bool, len(paths))
	for _, path := range paths {
		name := filepath.Base(path)
		if seen[name] {
			a.logger.Warn("duplicate archive entry skipped", slog.String("path", path))
			continue
		}
		seen[name] = true

		if err := addFile(zw, path, name); err != nil {
			return fail(err)
		}
	}

	if err := zw.Close(); err != nil {
		return fail(fmt.Errorf("%w: finish archive: %v", model.ErrFilesystem, err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: close %s: %v", model.ErrFilesystem, tmpName, err)
	}
	if err := os.Rename(tmpName, archivePath); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: replace %s: %v", model.ErrFilesystem, archivePath, err)
	}

	a.logger.Info("archive written", slog.String("path", archivePath), slog.Int("files", len(seen)))
	return archivePath, nil
}

func addFile(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", model.ErrFilesystem, path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: stat %s: %v", model.ErrFilesystem, path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", model.ErrInvalidInput, path)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return fmt.Errorf("zip header for %s: %w", path, err)
	}
	header.Name = name
	header.Method = zip.Deflate

	w, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("%w: add %s: %v", model.ErrFilesystem, name, err)
	}
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("%w: copy %s: %v", model.ErrFilesystem, path, err)
	}
	return nil
}
