package session

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// CookieName is the session cookie
const CookieName = "ytm_session"

// Defaults
const (
	DefaultTTL  = 12 * time.Hour
	DefaultSize = 256
)

type contextKey struct{}

// Store holds sessions in an expiring LRU. Each access renews the TTL.
type Store struct {
	cache  *expirable.LRU[string, *Session]
	ttl    time.Duration
	logger *slog.Logger
}

// NewStore creates a store of at most size sessions living ttl after last use
func NewStore(size int, ttl time.Duration, logger *slog.Logger) *Store {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{ttl: ttl, logger: logger}
	s.cache = expirable.NewLRU[string, *Session](size, s.onEvict, ttl)
	return s
}

// onEvict closes a login browser left open by an expired session
func (s *Store) onEvict(id string, sess *Session) {
	if login := sess.TakeLogin(); login != nil {
		s.logger.Info("session evicted with open login", slog.String("session", id))
		go login.Abort()
	}
}

// Get returns the session with id and renews its TTL
func (s *Store) Get(id string) (*Session, bool) {
	sess, ok := s.cache.Get(id)
	if ok {
		s.cache.Add(id, sess)
	}
	return sess, ok
}

// New creates and stores a session with a random id
func (s *Store) New() *Session {
	sess := newSession(uuid.NewString())
	s.cache.Add(sess.ID, sess)
	return sess
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	return s.cache.Len()
}

// Middleware loads or creates the session of each request and stores it in the context
func (s *Store) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sess *Session
			if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
				sess, _ = s.Get(c.Value)
			}
			if sess == nil {
				sess = s.New()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    sess.ID,
				Path:     "/",
				MaxAge:   int(s.ttl.Seconds()),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// WithSession stores sess in ctx
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the session stored by Middleware, or nil
func FromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(contextKey{}).(*Session)
	return sess
}
