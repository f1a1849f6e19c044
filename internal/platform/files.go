package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ytget/yt-music/internal/model"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Filename limits
const (
	MaxFileNameBytes = 180
	FallbackFileName = "untitled"
)

// HostileFileNameChars are replaced before a remote title becomes a file name
const HostileFileNameChars = `\/:*?"<>|`

// File extensions to skip
var (
	SkippedExtensions = []string{".part", ".ytdl", ".tmp"}
)

// CreateDirectoryIfNotExists creates directory if it doesn't exist
func CreateDirectoryIfNotExists(dirPath string) error {
	if _, err := os.Stat(dirPath); os.IsNotExist(err) {
		return os.MkdirAll(dirPath, DefaultDirPermissions)
	}
	return nil
}

// SanitizeFilename turns an arbitrary media title into a single safe path
// element: hostile characters and control characters become spaces, runs of
// whitespace collapse, and leading/trailing dots and spaces are trimmed.
func SanitizeFilename(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		if r == utf8.RuneError || unicode.IsControl(r) || strings.ContainsRune(HostileFileNameChars, r) {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}

	name := strings.Join(strings.Fields(b.String()), " ")
	name = strings.Trim(name, ". ")
	name = truncateUTF8(name, MaxFileNameBytes)
	name = strings.TrimRight(name, ". ")

	if name == "" {
		return FallbackFileName
	}
	return name
}

// truncateUTF8 cuts s to at most max bytes without splitting a rune
func truncateUTF8(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

// ListFiles returns regular files directly under dir sorted by name. In-progress
// artifacts are skipped. A missing directory yields an empty list.
func ListFiles(dir string) ([]model.DownloadedFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []model.DownloadedFile{}, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	files := make([]model.DownloadedFile, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() || isSkipped(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			// Removed between ReadDir and Info
			continue
		}
		files = append(files, model.DownloadedFile{
			Name: entry.Name(),
			Size: info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// ResolveInDir joins name onto dir, rejecting names that would leave dir
func ResolveInDir(dir, name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return filepath.Join(dir, name), nil
}

// FindDownloadedFile locates the file yt-dlp produced for baseName in dir.
// When wantExt is set only that extension matches; otherwise the first
// non-temporary file named baseName.<ext> wins.
func FindDownloadedFile(dir, baseName, wantExt string) (string, error) {
	if wantExt != "" {
		candidate := filepath.Join(dir, baseName+wantExt)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var candidates []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.Type().IsRegular() || isSkipped(name) {
			continue
		}
		ext := filepath.Ext(name)
		if strings.TrimSuffix(name, ext) != baseName {
			continue
		}
		if wantExt != "" && !strings.EqualFold(ext, wantExt) {
			continue
		}
		candidates = append(candidates, filepath.Join(dir, name))
	}

	if len(candidates) == 0 {
		return "", fmt.Errorf("file not found: %s", filepath.Join(dir, baseName+wantExt))
	}
	sort.Strings(candidates)
	return candidates[0], nil
}

// Artifacts returns the names of files in dir named baseName with any
// extension, including partial downloads.
func Artifacts(dir, baseName string) map[string]bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return map[string]bool{}
	}

	found := make(map[string]bool)
	prefix := baseName + "."
	for _, entry := range entries {
		if entry.Type().IsRegular() && strings.HasPrefix(entry.Name(), prefix) {
			found[entry.Name()] = true
		}
	}
	return found
}

// RemoveArtifacts deletes every file in dir named baseName with any
// extension except those listed in keep. It returns the removed paths.
func RemoveArtifacts(dir, baseName string, keep map[string]bool) []string {
	var removed []string
	for name := range Artifacts(dir, baseName) {
		if keep[name] {
			continue
		}
		path := filepath.Join(dir, name)
		if err := os.Remove(path); err == nil {
			removed = append(removed, path)
		}
	}
	sort.Strings(removed)
	return removed
}

// isSkipped reports whether name is a temporary download artifact
func isSkipped(name string) bool {
	for _, ext := range SkippedExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
