package chat

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Reaction actors. Reactions record who placed them so the same emoji can be
// toggled independently by each side.
const (
	ActorUser      = "user"
	ActorAssistant = "assistant"
)

// Tombstone replaces the body of a soft-deleted message.
const Tombstone = "This message was deleted 🕳️"

// ReplySnapshot is a frozen copy of the message being replied to, taken at
// reply time. It never tracks later edits or deletion of the original.
type ReplySnapshot struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Message is a single turn in a persona's history.
type Message struct {
	ID        string              `json:"id"`
	Role      Role                `json:"role"`
	Text      string              `json:"text"`
	Reactions map[string][]string `json:"reactions,omitempty"`
	ReplyTo   *ReplySnapshot      `json:"replyTo,omitempty"`
	Deleted   bool                `json:"deleted,omitempty"`
}

// Turn is the reduced {role, text} form used to seed a remote session.
type Turn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Snapshot returns a reply reference frozen at the current text.
func (m *Message) Snapshot() *ReplySnapshot {
	return &ReplySnapshot{ID: m.ID, Role: m.Role, Text: m.Text}
}

// ToggleReaction flips the presence of actor under emoji. The emoji entry is
// removed entirely once its actor set empties. Deleted messages never carry
// reactions; the call reports whether anything changed.
func (m *Message) ToggleReaction(emoji, actor string) bool {
	if m.Deleted || emoji == "" || actor == "" {
		return false
	}
	if m.Reactions == nil {
		m.Reactions = make(map[string][]string)
	}

	actors := m.Reactions[emoji]
	for i, existing := range actors {
		if existing == actor {
			actors = append(actors[:i], actors[i+1:]...)
			if len(actors) == 0 {
				delete(m.Reactions, emoji)
			} else {
				m.Reactions[emoji] = actors
			}
			return true
		}
	}

	m.Reactions[emoji] = append(actors, actor)
	return true
}

// SoftDelete tombstones the message in place. Idempotent and irreversible.
func (m *Message) SoftDelete() {
	if m.Deleted {
		return
	}
	m.Deleted = true
	m.Text = Tombstone
	m.Reactions = nil
	m.ReplyTo = nil
}
