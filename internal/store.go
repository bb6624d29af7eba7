package internal

import (
	"database/sql"
	"fmt"
	"sort"
)

// Store owns the persisted session collection and the active-session
// pointer. Every mutation persists immediately so a crash never loses
// more than the exchange in flight. Reads hand out copies; sessions are
// only mutated through Store methods.
//
// Store is not safe for concurrent use. The client drives it from a
// single goroutine, matching the single logical thread of the browser
// build.
type Store struct {
	db       *sql.DB
	sessions []Session
	activeID string
}

// OpenStore loads the persisted collection and active pointer, creating
// a first session when the store is empty and repairing a stale pointer
// by falling back to the most recently updated session. The returned
// store always has a valid active session.
func OpenStore(db *sql.DB) *Store {
	s := &Store{db: db}

	raw, err := GetValue(db, KeySessions)
	if err != nil {
		LogWarn("load sessions: %v", err)
	}
	s.sessions = DecodeSessions(raw)
	s.sortByRecency()

	if len(s.sessions) == 0 {
		created := NewSession()
		s.sessions = append(s.sessions, created)
		s.activeID = created.ID
	} else {
		stored, err := GetValue(db, KeyActiveSession)
		if err != nil {
			LogWarn("load active session pointer: %v", err)
		}
		if s.indexOf(stored) >= 0 {
			s.activeID = stored
		} else {
			s.activeID = s.sessions[0].ID
		}
	}

	if err := s.persist(); err != nil {
		LogWarn("persist sessions: %v", err)
	}
	if err := s.persistActive(); err != nil {
		LogWarn("persist active session pointer: %v", err)
	}
	return s
}

// Sessions returns a copy of the collection, most recently updated
// first.
func (s *Store) Sessions() []Session {
	out := make([]Session, len(s.sessions))
	copy(out, s.sessions)
	return out
}

// Len returns the number of sessions.
func (s *Store) Len() int {
	return len(s.sessions)
}

// ActiveID returns the id of the active session.
func (s *Store) ActiveID() string {
	return s.activeID
}

// Active returns a copy of the active session.
func (s *Store) Active() Session {
	if i := s.indexOf(s.activeID); i >= 0 {
		return s.sessions[i]
	}
	// The active pointer is a store invariant; repair rather than fail.
	LogError("active session %s missing, creating replacement", s.activeID)
	return s.Create(true)
}

// Get returns a copy of the session with the given id.
func (s *Store) Get(id string) (Session, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.sessions[i], true
	}
	return Session{}, false
}

// SetActive records id as the durable active-session pointer.
func (s *Store) SetActive(id string) error {
	if s.indexOf(id) < 0 {
		return fmt.Errorf("unknown session: %s", id)
	}
	s.activeID = id
	if err := s.persistActive(); err != nil {
		LogWarn("persist active session pointer: %v", err)
	}
	return nil
}

// Create allocates a new empty session and persists the collection.
// When activate is true it also becomes the active session.
func (s *Store) Create(activate bool) Session {
	created := NewSession()
	s.sessions = append(s.sessions, created)
	s.sortByRecency()
	if err := s.persist(); err != nil {
		LogWarn("persist sessions: %v", err)
	}
	if activate {
		s.activeID = created.ID
		if err := s.persistActive(); err != nil {
			LogWarn("persist active session pointer: %v", err)
		}
	}
	return created
}

// Delete removes a session. Deleting the active session immediately
// creates and activates a fresh one so the store is never left without
// an active session.
func (s *Store) Delete(id string) error {
	i := s.indexOf(id)
	if i < 0 {
		return fmt.Errorf("unknown session: %s", id)
	}
	wasActive := id == s.activeID
	s.sessions = append(s.sessions[:i], s.sessions[i+1:]...)
	if err := s.persist(); err != nil {
		LogWarn("persist sessions: %v", err)
	}
	if wasActive || len(s.sessions) == 0 {
		s.Create(true)
	}
	return nil
}

// Append adds a message to the given session, applying the title and
// timestamp rules, and persists the collection. It returns the updated
// session.
func (s *Store) Append(id string, msg Message) (Session, error) {
	i := s.indexOf(id)
	if i < 0 {
		return Session{}, fmt.Errorf("unknown session: %s", id)
	}
	s.sessions[i].Append(msg)
	s.sortByRecency()
	if err := s.persist(); err != nil {
		LogWarn("persist sessions: %v", err)
	}
	session, _ := s.Get(id)
	return session, nil
}

func (s *Store) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.sessions {
		if s.sessions[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) sortByRecency() {
	sort.SliceStable(s.sessions, func(i, j int) bool {
		return s.sessions[i].UpdatedAt > s.sessions[j].UpdatedAt
	})
}

// persist writes the whole collection, most recently updated first. The
// ordering is part of the stored contract: history listings read it
// back as-is.
func (s *Store) persist() error {
	s.sortByRecency()
	encoded, err := EncodeSessions(s.sessions)
	if err != nil {
		return err
	}
	return SetValue(s.db, KeySessions, encoded)
}

func (s *Store) persistActive() error {
	return SetValue(s.db, KeyActiveSession, s.activeID)
}
