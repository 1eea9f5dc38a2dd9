package storage

import (
	"sync"
	"time"
)

// ReminderMessage is the last reminder sent to a chat.
type ReminderMessage struct {
	ChatID    int64
	MessageID int
	SentAt    time.Time
}

// ReminderStorage remembers the last reminder per chat so it can be replaced
// by the next one.
type ReminderStorage struct {
	mu       sync.RWMutex
	messages map[int64]ReminderMessage
}

func NewReminderStorage() *ReminderStorage {
	return &ReminderStorage{
		messages: make(map[int64]ReminderMessage),
	}
}

func (s *ReminderStorage) Store(chatID int64, messageID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages[chatID] = ReminderMessage{
		ChatID:    chatID,
		MessageID: messageID,
		SentAt:    time.Now(),
	}
}

func (s *ReminderStorage) Get(chatID int64) (ReminderMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[chatID]
	return msg, ok
}

func (s *ReminderStorage) Delete(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.messages, chatID)
}
