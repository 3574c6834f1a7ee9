package promptbuild

import (
	"sync"
	"time"
)

// Session is the caller-owned history of documents generated in one interactive
// session. It is append-only apart from Clear and the optional size limit.
type Session struct {
	ID string

	mu       sync.Mutex
	limit    int
	entries  []Entry
	lastSeen time.Time
}

// NewSession creates an empty session. limit > 0 keeps only the newest limit entries.
func NewSession(id string, limit int) *Session {
	return &Session{
		ID:       id,
		limit:    limit,
		lastSeen: time.Now(),
	}
}

// Append records a generated document.
func (s *Session) Append(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	if s.limit > 0 && len(s.entries) > s.limit {
		drop := len(s.entries) - s.limit
		s.entries = append([]Entry(nil), s.entries[drop:]...)
	}
	s.lastSeen = time.Now()
}

// Last returns the most recent document.
func (s *Session) Last() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) == 0 {
		return Entry{}, false
	}
	return s.entries[len(s.entries)-1], true
}

// Get returns the entry with the given id.
func (s *Session) Get(id string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].ID == id {
			return s.entries[i], true
		}
	}
	return Entry{}, false
}

// Entries returns a copy of the history, oldest first.
func (s *Session) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Clear drops all entries.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.lastSeen = time.Now()
}

// Touch marks the session as used now.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = time.Now()
	s.mu.Unlock()
}

// IdleSince reports whether the session has not been used since cutoff.
func (s *Session) IdleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}
