// Package conversation keeps per-session chat history in memory.
package conversation

import (
	"sync"
	"time"

	"github.com/kart-io/campus-chat/internal/model"
	"github.com/kart-io/campus-chat/internal/pkg/timeutil"
)

// DefaultSessionID is used when a request carries no session identifier.
const DefaultSessionID = "default"

// Manager tracks conversation sessions keyed by session ID. Sessions are
// created on first use and live for the life of the process.
type Manager struct {
	mu         sync.Mutex
	sessions   map[string]*Session
	maxHistory int
	now        func() time.Time
}

// NewManager creates a Manager. maxHistory is the number of exchanges kept
// per session; each session holds at most 2*maxHistory turns.
func NewManager(maxHistory int) *Manager {
	return &Manager{
		sessions:   make(map[string]*Session),
		maxHistory: maxHistory,
		now:        timeutil.Now,
	}
}

// Session returns the session for id, creating it if needed. An empty id
// maps to DefaultSessionID.
func (m *Manager) Session(id string) *Session {
	if id == "" {
		id = DefaultSessionID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		s = &Session{maxTurns: m.maxHistory * 2, now: m.now}
		m.sessions[id] = s
	}
	return s
}

// SessionCount returns the number of live sessions.
func (m *Manager) SessionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Session is a single conversation's history. Safe for concurrent use.
type Session struct {
	mu       sync.Mutex
	turns    []model.Turn
	maxTurns int
	now      func() time.Time
}

// Append records a turn with the current IST timestamp. When the history
// exceeds the turn bound, the oldest turns are evicted.
func (s *Session) Append(role, content string) {
	ts := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, model.Turn{
		Role:    role,
		Content: content,
		Timestamp: model.Timestamp{
			Time: timeutil.FormatTime(ts),
			Date: timeutil.FormatDate(ts),
		},
	})

	if s.maxTurns > 0 && len(s.turns) > s.maxTurns {
		// Copy so the evicted prefix can be collected
		kept := make([]model.Turn, s.maxTurns)
		copy(kept, s.turns[len(s.turns)-s.maxTurns:])
		s.turns = kept
	}
}

// Clear removes all turns.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = nil
}

// Snapshot returns a copy of the current turns, oldest first.
func (s *Session) Snapshot() []model.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the number of stored turns.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}
