package chat

import "testing"

func TestToggleReactionParity(t *testing.T) {
	msg := Message{ID: "m1", Role: RoleUser, Text: "hello"}

	msg.ToggleReaction("❤️", ActorUser)
	if got := msg.Reactions["❤️"]; len(got) != 1 || got[0] != ActorUser {
		t.Fatalf("expected single user reactor, got %v", got)
	}

	msg.ToggleReaction("❤️", ActorAssistant)
	if got := msg.Reactions["❤️"]; len(got) != 2 {
		t.Fatalf("expected both actors, got %v", got)
	}

	msg.ToggleReaction("❤️", ActorUser)
	if got := msg.Reactions["❤️"]; len(got) != 1 || got[0] != ActorAssistant {
		t.Fatalf("expected assistant to remain, got %v", got)
	}

	msg.ToggleReaction("❤️", ActorAssistant)
	if _, ok := msg.Reactions["❤️"]; ok {
		t.Fatal("emoji key should be dropped once its actor set empties")
	}
}

func TestToggleReactionOddEvenCounts(t *testing.T) {
	msg := Message{ID: "m1", Role: RoleUser, Text: "hello"}

	for i := 0; i < 5; i++ {
		msg.ToggleReaction("😂", ActorUser)
	}
	if got := msg.Reactions["😂"]; len(got) != 1 {
		t.Fatalf("odd toggle count should leave actor present, got %v", got)
	}

	msg.ToggleReaction("😂", ActorUser)
	if _, ok := msg.Reactions["😂"]; ok {
		t.Fatal("even toggle count should leave no emoji entry")
	}
}

func TestToggleReactionOnDeletedMessage(t *testing.T) {
	msg := Message{ID: "m1", Role: RoleUser, Text: "hello"}
	msg.SoftDelete()

	if msg.ToggleReaction("❤️", ActorUser) {
		t.Fatal("deleted message must not accept reactions")
	}
}

func TestSoftDeleteIdempotent(t *testing.T) {
	original := Message{ID: "m2", Role: RoleUser, Text: "secret"}
	original.ToggleReaction("❤️", ActorAssistant)
	original.ReplyTo = &ReplySnapshot{ID: "m1", Role: RoleAssistant, Text: "hi"}

	original.SoftDelete()
	first := original
	original.SoftDelete()

	if original.Text != Tombstone {
		t.Fatalf("expected tombstone text, got %q", original.Text)
	}
	if len(original.Reactions) != 0 || original.ReplyTo != nil {
		t.Fatal("deleted message must carry no reactions or reply snapshot")
	}
	if original.Deleted != first.Deleted || original.Text != first.Text {
		t.Fatal("second delete changed state")
	}
}

func TestSnapshotIsFrozenCopy(t *testing.T) {
	msg := Message{ID: "m3", Role: RoleAssistant, Text: "before"}
	snap := msg.Snapshot()

	msg.Text = "after"
	msg.SoftDelete()

	if snap.Text != "before" {
		t.Fatalf("snapshot must not track the original, got %q", snap.Text)
	}
}
