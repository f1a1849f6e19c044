package cookies

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ytget/yt-music/internal/model"
)

// Timestamp layouts accepted when reading; the first one is used for writing.
// Naive layouts (no zone) are interpreted in local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// storedRecord is the on-disk shape of a CookieRecord
type storedRecord struct {
	Cookies   []model.CookieEntry `json:"cookies"`
	Timestamp string              `json:"timestamp"`
}

// Store keeps cookie records in one JSON file keyed by service
type Store struct {
	path   string
	maxAge time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu sync.Mutex
}

// NewStore creates a store backed by path. maxAge <= 0 selects the default window.
func NewStore(path string, maxAge time.Duration, logger *slog.Logger) *Store {
	if maxAge <= 0 {
		maxAge = model.DefaultCookieMaxAge
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   path,
		maxAge: maxAge,
		now:    time.Now,
		logger: logger,
	}
}

// SetClock replaces the time source
func (s *Store) SetClock(now func() time.Time) {
	s.now = now
}

// Save overwrites the record of service with entries stamped now and
// persists the whole mapping.
func (s *Store) Save(service string, entries []model.CookieEntry) error {
	key := ServiceKey(service)
	if key == "" {
		return fmt.Errorf("%w: empty service name", model.ErrInvalidInput)
	}
	if entries == nil {
		entries = []model.CookieEntry{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		return err
	}

	all[key] = storedRecord{
		Cookies:   entries,
		Timestamp: s.now().Format(timestampLayouts[0]),
	}

	if err := s.writeAll(all); err != nil {
		return err
	}

	s.logger.Info("cookies saved",
		slog.String("service", key),
		slog.Int("count", len(entries)),
	)
	return nil
}

// Load returns the entries of service when a record exists and is younger
// than the freshness window. Stale records stay in the file.
func (s *Store) Load(service string) ([]model.CookieEntry, bool) {
	record, ok := s.Record(service)
	if !ok || !record.IsFresh(s.now(), s.maxAge) {
		return nil, false
	}
	return record.Cookies, true
}

// Record returns the stored record of service regardless of its age
func (s *Store) Record(service string) (*model.CookieRecord, bool) {
	s.mu.Lock()
	all, err := s.readAll()
	s.mu.Unlock()
	if err != nil {
		s.logger.Warn("cookie file unreadable, treating as empty",
			slog.String("path", s.path),
			slog.Any("error", err),
		)
		return nil, false
	}

	stored, ok := all[ServiceKey(service)]
	if !ok {
		return nil, false
	}

	ts, err := parseTimestamp(stored.Timestamp)
	if err != nil {
		s.logger.Warn("cookie record has invalid timestamp",
			slog.String("service", ServiceKey(service)),
			slog.Any("error", err),
		)
		return nil, false
	}

	return &model.CookieRecord{Cookies: stored.Cookies, Timestamp: ts}, true
}

// Status reports the stored cookies of each service
func (s *Store) Status(services ...string) []model.CookieStatus {
	now := s.now()
	statuses := make([]model.CookieStatus, 0, len(services))
	for _, service := range services {
		st := model.CookieStatus{Service: ServiceKey(service)}
		if record, ok := s.Record(service); ok {
			st.HasRecord = true
			st.Count = len(record.Cookies)
			st.SavedAt = record.Timestamp
			st.Fresh = record.IsFresh(now, s.maxAge)
		}
		statuses = append(statuses, st)
	}
	return statuses
}

// readAll loads the mapping; a missing file is an empty mapping
func (s *Store) readAll() (map[string]storedRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]storedRecord{}, nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", model.ErrFilesystem, s.path, err)
	}

	all := map[string]storedRecord{}
	if len(data) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", model.ErrFilesystem, s.path, err)
	}
	return all, nil
}

// writeAll persists the mapping through a temp file and rename
func (s *Store) writeAll(all map[string]storedRecord) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cookies: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: create temp in %s: %v", model.ErrFilesystem, dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: write %s: %v", model.ErrFilesystem, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: close %s: %v", model.ErrFilesystem, tmpName, err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: chmod %s: %v", model.ErrFilesystem, tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: replace %s: %v", model.ErrFilesystem, s.path, err)
	}
	return nil
}

// parseTimestamp accepts RFC 3339 and naive ISO-8601 timestamps
func parseTimestamp(value string) (time.Time, error) {
	for i, layout := range timestampLayouts {
		var (
			ts  time.Time
			err error
		)
		if i == 0 {
			ts, err = time.Parse(layout, value)
		} else {
			ts, err = time.ParseInLocation(layout, value, time.Local)
		}
		if err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", value)
}
