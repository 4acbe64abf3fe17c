package api

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/aunetx/libmoon/parser"
	"github.com/aunetx/libmoon/service"
)

var (
	// ErrSessionNotFound is returned when a session ID has no session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionAlreadyExists is returned on a generated-ID collision.
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// Session is one parsed program and its running interpreter, wrapped
// in a service.Service so concurrent requests against it serialize
// through a single mutex.
type Session struct {
	ID        string
	Service   *service.Service
	CreatedAt time.Time
}

// SessionManager owns every active session. This is the one place in
// libmoon where multiple goroutines legitimately touch interpreter
// state, each bounded to its own session's Service mutex; no session's
// store or pc is ever visible to another session.
type SessionManager struct {
	sessions    map[string]*Session
	broadcaster *Broadcaster
	mu          sync.RWMutex
}

// NewSessionManager creates a session manager broadcasting step events
// through broadcaster.
func NewSessionManager(broadcaster *Broadcaster) *SessionManager {
	return &SessionManager{
		sessions:    make(map[string]*Session),
		broadcaster: broadcaster,
	}
}

// CreateSession parses source and wraps it in a fresh interpreter
// session, broadcasting its step events under the new session ID.
func (sm *SessionManager) CreateSession(req ProgramCreateRequest) (*Session, []string, error) {
	sigil := parser.DefaultSigil
	if req.Sigil != "" {
		sigil = req.Sigil[0]
	}

	p := parser.NewParser("session.moon", sigil)
	program, err := p.Parse(req.Source)
	if err != nil {
		return nil, []string{err.Error()}, nil
	}

	sessionID, err := generateSessionID()
	if err != nil {
		return nil, nil, err
	}

	events := NewSessionEventWriter(sm.broadcaster, sessionID)
	svc := service.NewService(program, events)

	session := &Session{
		ID:        sessionID,
		Service:   svc,
		CreatedAt: time.Now(),
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; exists {
		return nil, nil, ErrSessionAlreadyExists
	}
	sm.sessions[sessionID] = session

	return session, nil, nil
}

// GetSession retrieves a session by ID.
func (sm *SessionManager) GetSession(sessionID string) (*Session, error) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	session, exists := sm.sessions[sessionID]
	if !exists {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// DestroySession removes a session by ID.
func (sm *SessionManager) DestroySession(sessionID string) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, exists := sm.sessions[sessionID]; !exists {
		return ErrSessionNotFound
	}
	delete(sm.sessions, sessionID)
	return nil
}

// ListSessions returns every active session ID.
func (sm *SessionManager) ListSessions() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	ids := make([]string, 0, len(sm.sessions))
	for id := range sm.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of active sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

func generateSessionID() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
