package session

import "sync"

// State names a position in the per-user conversation machine.
type State string

const (
	// StateIdle is the implicit state of any user without a stored session.
	StateIdle State = "idle"
	// StateAwaitingFilename means an audio file was accepted and the bot is
	// waiting for the desired transcript name.
	StateAwaitingFilename State = "awaiting_filename"
)

// Session is one user's open conversation. It only exists between a
// successful upload and the filename reply, so InputPath is always set.
type Session struct {
	State     State
	InputPath string
}

// Store keeps open conversations keyed by Telegram user id. A user has an
// entry exactly while their conversation awaits a filename; idle users have
// none, so a stale "idle session" cannot be represented.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[int64]Session),
	}
}

// Begin opens (or replaces) the conversation for a user after an accepted
// upload. When a previous session existed, its input path is returned so the
// caller can remove the orphaned file.
func (s *Store) Begin(userID int64, inputPath string) (prevInput string, replaced bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.sessions[userID]; ok {
		prevInput = prev.InputPath
		replaced = true
	}
	s.sessions[userID] = Session{
		State:     StateAwaitingFilename,
		InputPath: inputPath,
	}
	return prevInput, replaced
}

// Take atomically claims and removes the user's session. The caller owns the
// returned input path from that point on; a concurrent Take or Begin for the
// same user can no longer observe it.
func (s *Store) Take(userID int64) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if ok {
		delete(s.sessions, userID)
	}
	return sess, ok
}

// StateOf returns the user's conversation state, StateIdle if none is stored.
func (s *Store) StateOf(userID int64) State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sess, ok := s.sessions[userID]; ok {
		return sess.State
	}
	return StateIdle
}

// InProgress reports whether the user has an open conversation.
func (s *Store) InProgress(userID int64) bool {
	return s.StateOf(userID) != StateIdle
}

// Len returns the number of open conversations.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
