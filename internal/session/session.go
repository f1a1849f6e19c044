// Package session keeps per-browser UI state (search results, the loaded
// song, download activity, a pending browser login and flash messages) in
// an expiring LRU keyed by a random cookie.
package session

import (
	"sync"
	"time"

	"github.com/ytget/yt-music/internal/cookies"
	"github.com/ytget/yt-music/internal/model"
)

// MaxTasks bounds the activity list of a session
const MaxTasks = 50

// Flash levels
const (
	FlashInfo    = "info"
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot message shown after a redirect
type Flash struct {
	Level string
	Text  string
}

// State is the mutable part of a session
type State struct {
	Query    string
	Results  []model.SearchResult
	Current  *model.AudioInfo
	Tasks    []*model.DownloadTask // newest first
	Playlist *model.Playlist
	Service  string // cookie service selected in the sidebar
	Login    *cookies.LoginSession
	Flashes  []Flash
}

// Session is the UI state of one browser
type Session struct {
	ID        string
	CreatedAt time.Time

	mu    sync.Mutex
	state State
}

func newSession(id string) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		state:     State{Service: cookies.ServiceYouTube},
	}
}

// Update runs fn with exclusive access to the state
func (s *Session) Update(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
}

// Snapshot returns a copy of the state for rendering. Pointed-to values are shared.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Results = append([]model.SearchResult(nil), s.state.Results...)
	st.Tasks = append([]*model.DownloadTask(nil), s.state.Tasks...)
	st.Flashes = append([]Flash(nil), s.state.Flashes...)
	return st
}

// AddFlash queues a message for the next page view
func (s *Session) AddFlash(level, text string) {
	s.Update(func(st *State) {
		st.Flashes = append(st.Flashes, Flash{Level: level, Text: text})
	})
}

// PopFlashes returns and clears queued messages
func (s *Session) PopFlashes() []Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	flashes := s.state.Flashes
	s.state.Flashes = nil
	return flashes
}

// AddTask prepends a finished download to the activity list
func (s *Session) AddTask(task *model.DownloadTask) {
	s.Update(func(st *State) {
		st.Tasks = append([]*model.DownloadTask{task}, st.Tasks...)
		if len(st.Tasks) > MaxTasks {
			st.Tasks = st.Tasks[:MaxTasks]
		}
	})
}

// ResultAt returns the search result at index
func (s *Session) ResultAt(index int) (model.SearchResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.state.Results) {
		return model.SearchResult{}, false
	}
	return s.state.Results[index], true
}

// TakeLogin detaches the pending login, if any
func (s *Session) TakeLogin() *cookies.LoginSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	login := s.state.Login
	s.state.Login = nil
	return login
}
