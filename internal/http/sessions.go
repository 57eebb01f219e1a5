package http

import (
	"database/sql"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
)

const sessionKeyFlashes = "flashes"

// Flash is a one-shot message shown on the next rendered page and then
// discarded. Level maps to a bootstrap alert class: success, danger, info.
type Flash struct {
	Level   string
	Message string
}

func init() {
	gob.Register([]Flash{})
}

// SessionManager wraps scs.SessionManager with flash message helpers.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a session manager backed by the application
// database. The sqlDB parameter is the underlying *sql.DB from GORM, so
// sessions share the single write connection with everything else.
func NewSessionManager(sqlDB *sql.DB, lifetime time.Duration, secure bool) (*SessionManager, error) {
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)
	sm.Lifetime = lifetime
	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = secure
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// AddFlash queues a flash message for the next rendered page.
func (sm *SessionManager) AddFlash(r *http.Request, level, message string) {
	flashes, _ := sm.Get(r.Context(), sessionKeyFlashes).([]Flash)
	flashes = append(flashes, Flash{Level: level, Message: message})
	sm.Put(r.Context(), sessionKeyFlashes, flashes)
}

// PopFlashes returns the queued flash messages and clears them.
func (sm *SessionManager) PopFlashes(r *http.Request) []Flash {
	flashes, _ := sm.Pop(r.Context(), sessionKeyFlashes).([]Flash)
	return flashes
}

// addFlash queues a flash message, tolerating a nil session manager so
// controllers keep working in tests that run without sessions.
func addFlash(sm *SessionManager, c *gin.Context, level, message string) {
	if sm == nil {
		return
	}
	sm.AddFlash(c.Request, level, message)
}

// popFlashes drains queued flash messages, tolerating a nil manager.
func popFlashes(sm *SessionManager, c *gin.Context) []Flash {
	if sm == nil {
		return nil
	}
	return sm.PopFlashes(c.Request)
}
