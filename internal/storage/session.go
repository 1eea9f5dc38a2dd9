package storage

import (
	"errors"
	"sync"

	"github.com/aliskhannn/english-course-bot/internal/domain/entities"
)

// ErrNoSession is returned by Update when the chat has no session.
var ErrNoSession = errors.New("no active session")

// SessionStorage provides in-memory storage for lessons and exams by chat ID.
type SessionStorage struct {
	mu       sync.RWMutex
	sessions map[int64]*entities.Session
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		sessions: make(map[int64]*entities.Session),
	}
}

// Store saves the session of a chat, replacing any previous one.
func (s *SessionStorage) Store(chatID int64, session *entities.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = session
}

// Get retrieves the session of a chat.
func (s *SessionStorage) Get(chatID int64) (*entities.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[chatID]
	return session, ok
}

// Update runs fn on the session of a chat while holding the lock.
func (s *SessionStorage) Update(chatID int64, fn func(session *entities.Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[chatID]
	if !ok {
		return ErrNoSession
	}
	return fn(session)
}

// Delete removes the session of a chat.
func (s *SessionStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, chatID)
}
