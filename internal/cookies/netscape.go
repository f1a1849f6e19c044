package cookies

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ytget/yt-music/internal/model"
)

const (
	netscapeHeader = "# Netscape HTTP Cookie File"
	httpOnlyPrefix = "#HttpOnly_"
	netscapeFields = 7
)

// ToTransferFormat renders entries as a Netscape cookie file
func ToTransferFormat(entries []model.CookieEntry) string {
	var b strings.Builder
	b.WriteString(netscapeHeader)
	b.WriteString("\n")
	for _, e := range entries {
		b.WriteString(transferLine(e))
		b.WriteString("\n")
	}
	return b.String()
}

// transferLine renders one cookie as a tab separated Netscape line. The
// HTTP-only flag is not written; the domain always comes first.
func transferLine(e model.CookieEntry) string {
	path := e.Path
	if path == "" {
		path = "/"
	}
	includeSubdomains := "FALSE"
	if strings.HasPrefix(e.Domain, ".") {
		includeSubdomains = "TRUE"
	}
	secure := "FALSE"
	if e.Secure {
		secure = "TRUE"
	}
	return strings.Join([]string{
		e.Domain,
		includeSubdomains,
		path,
		secure,
		strconv.FormatInt(e.Expiry, 10),
		e.Name,
		e.Value,
	}, "\t")
}

// WriteTransferFile writes entries to path in Netscape format, replacing it atomically
func WriteTransferFile(path string, entries []model.CookieEntry) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp in %s: %v", model.ErrFilesystem, dir, err)
	}
	tmpName := tmp.Name()

	if _, err := io.WriteString(tmp, ToTransferFormat(entries)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", model.ErrFilesystem, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %v", model.ErrFilesystem, tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace %s: %v", model.ErrFilesystem, path, err)
	}
	return nil
}

// ParseTransferFormat reads Netscape cookie lines. Comments and blank lines
// are skipped, "#HttpOnly_" lines are kept as HTTP-only cookies.
func ParseTransferFormat(r io.Reader) ([]model.CookieEntry, error) {
	var entries []model.CookieEntry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			httpOnly = true
			line = strings.TrimPrefix(line, httpOnlyPrefix)
		} else if strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < netscapeFields {
			return nil, fmt.Errorf("%w: cookie line %d has %d fields, want %d", model.ErrInvalidInput, lineNo, len(fields), netscapeFields)
		}

		expiry, err := strconv.ParseInt(strings.TrimSpace(fields[4]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: cookie line %d: invalid expiry %q", model.ErrInvalidInput, lineNo, fields[4])
		}

		entries = append(entries, model.CookieEntry{
			Domain:   fields[0],
			Path:     fields[2],
			Secure:   strings.EqualFold(fields[3], "TRUE"),
			Expiry:   expiry,
			Name:     fields[5],
			Value:    strings.Join(fields[6:], "\t"),
			HTTPOnly: httpOnly,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: read cookie file: %v", model.ErrInvalidInput, err)
	}
	return entries, nil
}
