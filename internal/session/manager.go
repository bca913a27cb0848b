package session

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

const ctxKey = "session"

// Manager binds a Store to gin requests. The session is loaded once per
// request and then read from the gin context.
type Manager struct {
	store Store
	log   *slog.Logger
}

func NewManager(store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, log: logger}
}

// Attach loads the session for c's request and stores it in the context.
func (m *Manager) Attach(c *gin.Context) *Session {
	s := &Session{}
	if id, ok := m.store.Load(c.Request); ok {
		s.UserID = id
	}
	c.Set(ctxKey, s)
	return s
}

// Get returns the request's session, loading it if Attach has not run.
func (m *Manager) Get(c *gin.Context) *Session {
	if s, ok := FromContext(c); ok {
		return s
	}
	return m.Attach(c)
}

// Set stores userID after a successful login.
func (m *Manager) Set(c *gin.Context, userID string) error {
	if err := m.store.Save(c.Writer, c.Request, userID); err != nil {
		return err
	}
	c.Set(ctxKey, &Session{UserID: userID})
	return nil
}

// Clear forgets the user. The in-context session becomes anonymous even if
// the store fails.
func (m *Manager) Clear(c *gin.Context) error {
	c.Set(ctxKey, &Session{})
	if err := m.store.Clear(c.Writer, c.Request); err != nil {
		m.log.Warn("session_clear_failed", slog.Any("err", err))
		return err
	}
	return nil
}

// FromContext returns the session Attach stored in c.
func FromContext(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(ctxKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*Session)
	return s, ok && s != nil
}
