package bot_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/fuadeditingzone/fuadbot-backend/internal/handler/bot"
	"github.com/fuadeditingzone/fuadbot-backend/internal/model/chat"
	"github.com/fuadeditingzone/fuadbot-backend/internal/service/ai"
	"github.com/fuadeditingzone/fuadbot-backend/internal/service/conversation"
	"github.com/fuadeditingzone/fuadbot-backend/internal/service/history"
	"github.com/fuadeditingzone/fuadbot-backend/internal/service/settings"
)

type echoSession struct{}

func (echoSession) Send(_ context.Context, text string) (string, error) {
	return "echo: " + text, nil
}

type readyFactory struct{}

func (readyFactory) Availability() ai.Availability { return ai.Ready }

func (readyFactory) NewSession(context.Context, string, []chat.Turn) (ai.Session, error) {
	return echoSession{}, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	histories := history.NewService(nil)
	orch := conversation.New(conversation.Config{ContextWindow: 20}, histories, readyFactory{}, nil, nil, nil, nil)
	settingsSvc := settings.NewService(nil)

	r := chi.NewRouter()
	bot.New(orch, settingsSvc).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, body string, out any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp
}

func TestStateEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var state conversation.State
	resp := doJSON(t, srv, http.MethodGet, "/bot/state", "", &state)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if state.Mode != "guest" || state.Unlocked || state.Revealed {
		t.Fatalf("unexpected initial state: %+v", state)
	}
	if state.Availability != ai.Ready {
		t.Fatalf("availability %q", state.Availability)
	}
}

func TestSendMessageRoundTrip(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/bot/open", "", nil)

	var msgs []chat.Message
	resp := doJSON(t, srv, http.MethodPost, "/bot/messages", `{"text":"hello"}`, &msgs)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d", resp.StatusCode)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected greeting + user + reply, got %d messages", len(msgs))
	}
	if msgs[2].Text != "echo: hello" {
		t.Fatalf("reply text %q", msgs[2].Text)
	}
}

func TestSendMessageEmptyText(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/bot/messages", `{"text":"   "}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", resp.StatusCode)
	}
}

func TestDeleteUnknownMessage(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodDelete, "/bot/messages/no-such-id", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d, want 404", resp.StatusCode)
	}
}

func TestSwitchLanguage(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPut, "/bot/language", `{"language":"klingon"}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown language: status %d, want 400", resp.StatusCode)
	}

	var state conversation.State
	resp = doJSON(t, srv, http.MethodPut, "/bot/language", `{"language":"ur"}`, &state)
	if resp.StatusCode != http.StatusOK || state.Language != "ur" {
		t.Fatalf("status %d language %q", resp.StatusCode, state.Language)
	}
}

func TestUnlockFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	var opened struct {
		Opened    bool `json:"opened"`
		Challenge *struct {
			Kind string `json:"kind"`
		} `json:"challenge"`
		AttemptsLeft int `json:"attemptsLeft"`
	}
	doJSON(t, srv, http.MethodPost, "/bot/unlock", "", &opened)
	if !opened.Opened || opened.Challenge == nil || opened.Challenge.Kind != "date" {
		t.Fatalf("unexpected unlock response: %+v", opened)
	}
	if opened.AttemptsLeft != 3 {
		t.Fatalf("attempts left %d", opened.AttemptsLeft)
	}

	var submit struct {
		Outcome string             `json:"outcome"`
		State   conversation.State `json:"state"`
	}
	for _, step := range []struct {
		input, want string
	}{
		{"09/09/2006", "advanced"},
		{"jiya", "advanced"},
		{"23/07/2003", "success"},
	} {
		doJSON(t, srv, http.MethodPost, "/bot/unlock/submit", `{"input":"`+step.input+`"}`, &submit)
		if submit.Outcome != step.want {
			t.Fatalf("input %q: outcome %q, want %q", step.input, submit.Outcome, step.want)
		}
	}
	if !submit.State.Unlocked || submit.State.Mode != "private" {
		t.Fatalf("state after unlock: %+v", submit.State)
	}

	var state conversation.State
	doJSON(t, srv, http.MethodPost, "/bot/lock", "", &state)
	if state.Unlocked || state.Mode != "guest" {
		t.Fatalf("state after lock: %+v", state)
	}
}

func TestUnlockRevealOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/bot/unlock", "", nil)

	var submit struct {
		Outcome string             `json:"outcome"`
		State   conversation.State `json:"state"`
	}
	for i := 0; i < 3; i++ {
		doJSON(t, srv, http.MethodPost, "/bot/unlock/submit", `{"input":"wrong"}`, &submit)
	}
	if submit.Outcome != "revealed" || !submit.State.Revealed {
		t.Fatalf("expected reveal, got %+v", submit)
	}

	var opened struct {
		Opened bool               `json:"opened"`
		State  conversation.State `json:"state"`
	}
	doJSON(t, srv, http.MethodPost, "/bot/unlock", "", &opened)
	if opened.Opened || !opened.State.Revealed {
		t.Fatalf("revealed gate reopened: %+v", opened)
	}
}

func TestSettingsEndpoints(t *testing.T) {
	srv := newTestServer(t)

	var current settings.Settings
	doJSON(t, srv, http.MethodGet, "/bot/settings", "", &current)
	if current != settings.Defaults() {
		t.Fatalf("initial settings %+v", current)
	}

	resp := doJSON(t, srv, http.MethodPut, "/bot/settings", `{"transparency":0.2,"theme":"dark","fontSize":"base","panelSize":"default"}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("invalid settings: status %d, want 400", resp.StatusCode)
	}

	var updated settings.Settings
	resp = doJSON(t, srv, http.MethodPut, "/bot/settings", `{"transparency":0.5,"theme":"light","fontSize":"lg","panelSize":"compact"}`, &updated)
	if resp.StatusCode != http.StatusOK || updated.Theme != "light" || updated.FontSize != "lg" {
		t.Fatalf("status %d settings %+v", resp.StatusCode, updated)
	}
}

func TestStartReplyValidation(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, srv, http.MethodPost, "/bot/reply", `{}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing messageId: status %d, want 400", resp.StatusCode)
	}

	resp = doJSON(t, srv, http.MethodPost, "/bot/reply", `{"messageId":"ghost"}`, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown messageId: status %d, want 404", resp.StatusCode)
	}
}

func TestToggleReactionRequiresEmoji(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/bot/open", "", nil)

	var msgs []chat.Message
	doJSON(t, srv, http.MethodPost, "/bot/messages", `{"text":"react to me"}`, &msgs)

	var userID string
	for _, m := range msgs {
		if m.Role == chat.RoleUser {
			userID = m.ID
		}
	}

	resp := doJSON(t, srv, http.MethodPost, "/bot/messages/"+userID+"/reactions", `{}`, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing emoji: status %d, want 400", resp.StatusCode)
	}

	resp = doJSON(t, srv, http.MethodPost, "/bot/messages/"+userID+"/reactions", `{"emoji":"❤️"}`, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("toggle: status %d", resp.StatusCode)
	}

	var history []chat.Message
	doJSON(t, srv, http.MethodGet, "/bot/history", "", &history)
	found := false
	for _, m := range history {
		if m.ID == userID && len(m.Reactions["❤️"]) == 1 {
			found = true
		}
	}
	if !found {
		t.Fatal("reaction not present in history")
	}
}

func TestDeletedMessageTombstonedInHistory(t *testing.T) {
	srv := newTestServer(t)
	doJSON(t, srv, http.MethodPost, "/bot/open", "", nil)

	var msgs []chat.Message
	doJSON(t, srv, http.MethodPost, "/bot/messages", `{"text":"delete me"}`, &msgs)

	var userID string
	for _, m := range msgs {
		if m.Role == chat.RoleUser {
			userID = m.ID
		}
	}
	doJSON(t, srv, http.MethodDelete, "/bot/messages/"+userID, "", nil)

	var history []chat.Message
	doJSON(t, srv, http.MethodGet, "/bot/history", "", &history)
	for _, m := range history {
		if m.ID == userID {
			if !m.Deleted || !strings.Contains(m.Text, "deleted") {
				t.Fatalf("expected tombstone, got %+v", m)
			}
			return
		}
	}
	t.Fatal("deleted message vanished from history")
}
