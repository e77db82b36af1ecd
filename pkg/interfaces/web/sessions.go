package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vsinha/shoplist/pkg/application/dto"
	"github.com/vsinha/shoplist/pkg/application/session"
)

// CookieName holds the session ID.
const CookieName = "shoplist_session"

// DefaultIdleTimeout is how long an untouched session is kept.
const DefaultIdleTimeout = 2 * time.Hour

// sessionState is everything the server keeps per browser. mu serializes
// requests of the same session; session.Session itself is not goroutine-safe.
type sessionState struct {
	mu       sync.Mutex
	sess     *session.Session
	result   *dto.ShoppingResult
	flash    string
	flashErr bool
	lastSeen time.Time
}

func (st *sessionState) setFlash(msg string, isErr bool) {
	st.flash = msg
	st.flashErr = isErr
}

func (st *sessionState) takeFlash() (string, bool) {
	msg, isErr := st.flash, st.flashErr
	st.flash, st.flashErr = "", false
	return msg, isErr
}

// SessionRegistry maps cookie IDs to live sessions.
type SessionRegistry struct {
	mu         sync.Mutex
	sessions   map[string]*sessionState
	newSession func(id string) *session.Session
	now        func() time.Time
	secure     bool
}

// NewSessionRegistry creates a registry; newSession builds the domain session for a fresh ID.
func NewSessionRegistry(newSession func(id string) *session.Session) *SessionRegistry {
	return &SessionRegistry{
		sessions:   make(map[string]*sessionState),
		newSession: newSession,
		now:        time.Now,
	}
}

// acquire returns the state for the request's cookie, creating a session and
// setting the cookie when there is none or it is unknown.
func (r *SessionRegistry) acquire(w http.ResponseWriter, req *http.Request) (*sessionState, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, err := req.Cookie(CookieName); err == nil {
		if st, ok := r.sessions[c.Value]; ok {
			st.lastSeen = r.now()
			return st, false
		}
	}

	id := uuid.NewString()
	st := &sessionState{sess: r.newSession(id), lastSeen: r.now()}
	r.sessions[id] = st
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return st, true
}

// Len returns the number of live sessions.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than idle and returns how many were removed.
func (r *SessionRegistry) Sweep(idle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idle)
	removed := 0
	for id, st := range r.sessions {
		if st.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}
