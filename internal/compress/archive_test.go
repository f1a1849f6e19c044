package compress

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/ytget/yt-music/internal/model"
)

func TestArchive(t *testing.T) {
	dir := t.TempDir()
	downloads := filepath.Join(dir, "downloads")
	if err := os.Mkdir(downloads, 0755); err != nil {
		t.Fatal(err)
	}

	files := map[string]string{
		"a.mp3": "first song",
		"b.mp4": "some video bytes",
	}
	var paths []string
	for name, content := range files {
		path := filepath.Join(downloads, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		paths = append(paths, path)
	}
	sort.Strings(paths)

	archivePath := filepath.Join(dir, "downloads.zip")
	got, err := NewZipArchiver(nil).Archive(paths, archivePath)
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if got != archivePath {
		t.Errorf("Archive() = %q, want %q", got, archivePath)
	}

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer r.Close()

	if len(r.File) != len(files) {
		t.Fatalf("archive has %d entries, want %d", len(r.File), len(files))
	}
	for _, f := range r.File {
		want, ok := files[f.Name]
		if !ok {
			t.Errorf("unexpected entry %q", f.Name)
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil || string(data) != want {
			t.Errorf("entry %q = %q, %v", f.Name, data, err)
		}
	}
}

func TestArchive_Errors(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "downloads.zip")
	archiver := NewZipArchiver(nil)

	if _, err := archiver.Archive(nil, archivePath); !errors.Is(err, model.ErrInvalidInput) {
		t.Errorf("empty list error = %v, want ErrInvalidInput", err)
	}

	if _, err := archiver.Archive([]string{filepath.Join(dir, "missing.mp3")}, archivePath); !errors.Is(err, model.ErrFilesystem) {
		t.Errorf("missing file error = %v, want ErrFilesystem", err)
	}
	if _, err := os.Stat(archivePath); !os.IsNotExist(err) {
		t.Error("failed archive must not be left behind")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("temp files left behind: %v", entries)
	}
}
