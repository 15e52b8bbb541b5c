// Package history owns the two persona conversation logs. The guest and
// private histories are fully independent: separate id spaces, separate
// persistence keys, never merged. Every mutation writes the affected
// persona's full history back through the store.
package history

import (
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fuadeditingzone/fuadbot-backend/internal/model/chat"
	"github.com/fuadeditingzone/fuadbot-backend/internal/model/persona"
	"github.com/fuadeditingzone/fuadbot-backend/internal/store"
	"github.com/fuadeditingzone/fuadbot-backend/pkg/logger"
)

func historyKey(mode persona.Mode) string {
	return "history:" + string(mode)
}

// Service encapsulates per-persona message state management.
type Service struct {
	mu        sync.RWMutex
	kv        *store.KV
	histories map[persona.Mode][]chat.Message
}

// NewService loads both persisted histories. Corrupt or absent state yields
// empty logs (the store already swallows and logs the cause).
func NewService(kv *store.KV) *Service {
	s := &Service{
		kv:        kv,
		histories: make(map[persona.Mode][]chat.Message, 2),
	}
	for _, mode := range []persona.Mode{persona.ModeGuest, persona.ModePrivate} {
		s.histories[mode] = store.Get(kv, historyKey(mode), []chat.Message{})
	}
	logger.Log.Info("histories_loaded",
		zap.Int("guest", len(s.histories[persona.ModeGuest])),
		zap.Int("private", len(s.histories[persona.ModePrivate])),
	)
	return s
}

// persist writes mode's history back to disk. Caller holds the lock.
func (s *Service) persist(mode persona.Mode) {
	store.Set(s.kv, historyKey(mode), s.histories[mode])
}

// Append adds a message to the end of mode's history, assigning an id when
// the caller left it empty, and returns the stored copy.
func (s *Service) Append(mode persona.Mode, msg chat.Message) chat.Message {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.histories[mode] = append(s.histories[mode], msg)
	s.persist(mode)
	return msg
}

// ToggleReaction flips actor's presence under emoji on the identified
// message. Missing or deleted messages make this a no-op.
func (s *Service) ToggleReaction(mode persona.Mode, messageID, emoji, actor string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.histories[mode]
	for i := range msgs {
		if msgs[i].ID != messageID {
			continue
		}
		if !msgs[i].ToggleReaction(emoji, actor) {
			return false
		}
		s.persist(mode)
		return true
	}
	return false
}

// SoftDelete tombstones a user-authored message. Assistant messages are not
// deletable; repeated calls and unknown ids are no-ops.
func (s *Service) SoftDelete(mode persona.Mode, messageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := s.histories[mode]
	for i := range msgs {
		if msgs[i].ID != messageID {
			continue
		}
		if msgs[i].Role != chat.RoleUser || msgs[i].Deleted {
			return false
		}
		msgs[i].SoftDelete()
		s.persist(mode)
		return true
	}
	return false
}

// Find returns a copy of the identified message.
func (s *Service) Find(mode persona.Mode, messageID string) (chat.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, msg := range s.histories[mode] {
		if msg.ID == messageID {
			return msg, true
		}
	}
	return chat.Message{}, false
}

// Messages returns a copy of mode's full history in display order.
func (s *Service) Messages(mode persona.Mode) []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]chat.Message, len(s.histories[mode]))
	copy(out, s.histories[mode])
	return out
}

// Len reports the number of messages (tombstones included) in mode's history.
func (s *Service) Len(mode persona.Mode) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.histories[mode])
}

// ContextWindow returns the last n non-deleted messages reduced to
// {role, text}, preserving order. This is what seeds a remote session, so
// tombstoned content never leaks into prompt context.
func (s *Service) ContextWindow(mode persona.Mode, n int) []chat.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.histories[mode]
	turns := make([]chat.Turn, 0, n)
	for i := len(msgs) - 1; i >= 0 && len(turns) < n; i-- {
		if msgs[i].Deleted {
			continue
		}
		turns = append(turns, chat.Turn{Role: msgs[i].Role, Text: msgs[i].Text})
	}
	// collected newest-first; restore display order
	for l, r := 0, len(turns)-1; l < r; l, r = l+1, r-1 {
		turns[l], turns[r] = turns[r], turns[l]
	}
	return turns
}
