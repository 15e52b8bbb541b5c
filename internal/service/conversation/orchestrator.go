// Package conversation composes the history store, the remote session
// lifecycle, the unlock gate, and the reaction classifier behind the single
// API surface the widget talks to.
package conversation

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fuadeditingzone/fuadbot-backend/internal/model/chat"
	"github.com/fuadeditingzone/fuadbot-backend/internal/model/persona"
	"github.com/fuadeditingzone/fuadbot-backend/internal/service/ai"
	"github.com/fuadeditingzone/fuadbot-backend/internal/service/history"
	"github.com/fuadeditingzone/fuadbot-backend/internal/service/reaction"
	"github.com/fuadeditingzone/fuadbot-backend/internal/service/unlock"
	"github.com/fuadeditingzone/fuadbot-backend/internal/store"
	"github.com/fuadeditingzone/fuadbot-backend/pkg/logger"
)

var (
	ErrEmptyMessage    = errors.New("message text is empty")
	ErrSendInFlight    = errors.New("a send is already in flight")
	ErrBotOffline      = errors.New("bot is offline")
	ErrBotInitializing = errors.New("bot is still initializing")
	ErrMessageNotFound = errors.New("message not found")
)

// FallbackReply is appended in place of the assistant's answer when the
// round trip fails.
const FallbackReply = "Sorry, I'm having trouble connecting."

const languageKey = "language"

// Config tunes the orchestrator.
type Config struct {
	ContextWindow    int
	ReactionDelayMin time.Duration
	ReactionDelayMax time.Duration
}

type cachedSession struct {
	session  ai.Session
	language persona.Language
}

// Orchestrator owns all mutable conversation state: active mode, selected
// language, the in-flight flag, the pending reply target, and the session
// cache. One instance backs one widget.
type Orchestrator struct {
	cfg        Config
	histories  *history.Service
	factory    ai.Factory
	classifier reaction.Classifier
	notifier   Notifier
	sink       EventSink
	kv         *store.KV
	gate       *unlock.Gate
	rng        *rand.Rand

	mu           sync.Mutex
	language     persona.Language
	unlocked     bool
	inFlight     bool
	offline      bool
	greeted      bool
	pendingReply *chat.ReplySnapshot
	sessions     map[persona.Mode]*cachedSession
}

// New wires the orchestrator. The language survives restarts; the unlock and
// reveal flags deliberately do not — a reload always comes back as guest.
func New(cfg Config, histories *history.Service, factory ai.Factory, classifier reaction.Classifier, notifier Notifier, sink EventSink, kv *store.KV) *Orchestrator {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if sink == nil {
		sink = NopSink{}
	}
	if cfg.ContextWindow <= 0 {
		cfg.ContextWindow = 20
	}

	o := &Orchestrator{
		cfg:        cfg,
		histories:  histories,
		factory:    factory,
		classifier: classifier,
		notifier:   notifier,
		sink:       sink,
		kv:         kv,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
		language:   store.Get(kv, languageKey, persona.LangAuto),
		sessions:   make(map[persona.Mode]*cachedSession, 2),
	}
	o.gate = unlock.NewGate(unlock.DefaultChallenges(), o.onUnlockSuccess, o.onReveal)
	return o
}

// Mode returns the active persona.
func (o *Orchestrator) Mode() persona.Mode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.modeLocked()
}

func (o *Orchestrator) modeLocked() persona.Mode {
	if o.unlocked {
		return persona.ModePrivate
	}
	return persona.ModeGuest
}

// Availability folds the factory's probe result with the orchestrator's own
// degradation after a failed session re-creation.
func (o *Orchestrator) Availability() ai.Availability {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.availabilityLocked()
}

func (o *Orchestrator) availabilityLocked() ai.Availability {
	if o.offline {
		return ai.Offline
	}
	return o.factory.Availability()
}

// State is the widget-facing snapshot.
type State struct {
	Availability ai.Availability     `json:"availability"`
	Mode         persona.Mode        `json:"mode"`
	Language     persona.Language    `json:"language"`
	Unlocked     bool                `json:"unlocked"`
	Revealed     bool                `json:"revealed"`
	InFlight     bool                `json:"inFlight"`
	PendingReply *chat.ReplySnapshot `json:"pendingReply,omitempty"`
}

// Snapshot returns the current state for the presentation layer.
func (o *Orchestrator) Snapshot() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return State{
		Availability: o.availabilityLocked(),
		Mode:         o.modeLocked(),
		Language:     o.language,
		Unlocked:     o.unlocked,
		Revealed:     o.gate.Revealed(),
		InFlight:     o.inFlight,
		PendingReply: o.pendingReply,
	}
}

// History returns the active persona's messages.
func (o *Orchestrator) History() []chat.Message {
	return o.histories.Messages(o.Mode())
}

// OpenSurface is called when the chat surface becomes visible. It lazily
// creates the remote session for the active (mode, language) pair; a fresh
// guest conversation additionally receives the synthesized greeting.
func (o *Orchestrator) OpenSurface(ctx context.Context) error {
	_, _, err := o.ensureSession(ctx)
	return err
}

// ensureSession returns the cached session for the active mode, or creates
// one seeded with the resolver instruction and the context window. The remote
// creation runs outside the orchestrator lock so a slow round trip never
// blocks state reads. A cached guest session is discarded when the selected
// language no longer matches; private sessions ignore language by
// construction.
func (o *Orchestrator) ensureSession(ctx context.Context) (ai.Session, persona.Mode, error) {
	o.mu.Lock()
	switch o.availabilityLocked() {
	case ai.Offline:
		o.mu.Unlock()
		return nil, "", ErrBotOffline
	case ai.Initializing, ai.Uninitialized:
		o.mu.Unlock()
		return nil, "", ErrBotInitializing
	}

	mode := o.modeLocked()
	lang := o.language
	if cached, ok := o.sessions[mode]; ok {
		if mode == persona.ModePrivate || cached.language == lang {
			o.mu.Unlock()
			return cached.session, mode, nil
		}
	}
	instruction := persona.Instruction(mode, lang)
	window := o.histories.ContextWindow(mode, o.cfg.ContextWindow)
	o.mu.Unlock()

	session, err := o.factory.NewSession(ctx, instruction, window)
	if err != nil {
		// Re-creation failure degrades the whole widget, like the probe.
		o.mu.Lock()
		o.offline = true
		o.mu.Unlock()
		o.notifier.Notify("FuadBot is offline.", LevelError)
		logger.Log.Error("session_create_failed", zap.String("mode", string(mode)), zap.Error(err))
		return nil, "", ErrBotOffline
	}

	o.mu.Lock()
	if cached, ok := o.sessions[mode]; ok && (mode == persona.ModePrivate || cached.language == o.language) {
		// Lost a creation race; the session already cached wins.
		o.mu.Unlock()
		return cached.session, mode, nil
	}
	o.sessions[mode] = &cachedSession{session: session, language: lang}
	freshGuest := mode == persona.ModeGuest && len(window) == 0 && o.histories.Len(persona.ModeGuest) == 0
	notifyOnline := freshGuest && !o.greeted
	if notifyOnline {
		o.greeted = true
	}
	o.mu.Unlock()
	logger.Log.Info("session_created", zap.String("mode", string(mode)), zap.String("language", string(lang)))

	if freshGuest {
		if notifyOnline {
			o.notifier.Notify("FuadBot is online! I'm Fuad's digital twin.", LevelInfo)
		}
		greeting := o.histories.Append(persona.ModeGuest, chat.Message{
			Role: chat.RoleAssistant,
			Text: persona.Greeting,
		})
		o.sink.Publish(Event{Type: EventMessage, Mode: persona.ModeGuest, Message: &greeting})
	}

	return session, mode, nil
}

// SendUserMessage appends the user's message optimistically, runs the round
// trip, then appends the reply or the fixed fallback. Empty input, an
// in-flight send, and a non-ready session are all rejected up front.
func (o *Orchestrator) SendUserMessage(ctx context.Context, text, replyToID string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	session, mode, err := o.ensureSession(ctx)
	if err != nil {
		return err
	}

	o.mu.Lock()
	if o.inFlight {
		o.mu.Unlock()
		return ErrSendInFlight
	}

	snapshot := o.pendingReply
	if replyToID != "" {
		if original, ok := o.histories.Find(mode, replyToID); ok && !original.Deleted {
			snapshot = original.Snapshot()
		}
	}
	o.pendingReply = nil

	userMsg := o.histories.Append(mode, chat.Message{
		Role:    chat.RoleUser,
		Text:    text,
		ReplyTo: snapshot,
	})
	o.sink.Publish(Event{Type: EventMessage, Mode: mode, Message: &userMsg})

	o.inFlight = true
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.inFlight = false
		o.mu.Unlock()
	}()

	replyText, sendErr := session.Send(ctx, text)
	if sendErr != nil {
		logger.Log.Warn("send_failed", zap.String("mode", string(mode)), zap.Error(sendErr))
		replyText = FallbackReply
	}

	botMsg := o.histories.Append(mode, chat.Message{
		Role: chat.RoleAssistant,
		Text: replyText,
	})
	o.sink.Publish(Event{Type: EventMessage, Mode: mode, Message: &botMsg})

	if mode == persona.ModeGuest && sendErr == nil {
		go o.triggerAutoReaction(userMsg)
	}
	return nil
}

// triggerAutoReaction runs the classifier and, on a valid emoji, lands it on
// the triggering message after a randomized 1-2s delay. The result is keyed
// by message id, so it applies safely however far the conversation has moved
// on. Every failure path is silent.
func (o *Orchestrator) triggerAutoReaction(userMsg chat.Message) {
	if o.classifier == nil || !o.classifier.Enabled() {
		return
	}

	emoji, ok := o.classifier.Classify(context.Background(), userMsg.Text)
	if !ok {
		return
	}

	time.Sleep(o.reactionDelay())

	if o.histories.ToggleReaction(persona.ModeGuest, userMsg.ID, emoji, chat.ActorAssistant) {
		o.sink.Publish(Event{
			Type:         EventReaction,
			Mode:         persona.ModeGuest,
			MessageID:    userMsg.ID,
			Emoji:        emoji,
			Actor:        chat.ActorAssistant,
			ClearAfterMS: ReactionClearMS,
		})
	}
}

func (o *Orchestrator) reactionDelay() time.Duration {
	min, max := o.cfg.ReactionDelayMin, o.cfg.ReactionDelayMax
	if max <= min {
		return min
	}
	o.mu.Lock()
	jitter := time.Duration(o.rng.Int63n(int64(max - min)))
	o.mu.Unlock()
	return min + jitter
}

// ToggleReaction flips the local user's reaction on a message in the active
// history.
func (o *Orchestrator) ToggleReaction(messageID, emoji string) error {
	mode := o.Mode()
	if !o.histories.ToggleReaction(mode, messageID, emoji, chat.ActorUser) {
		return ErrMessageNotFound
	}
	o.sink.Publish(Event{Type: EventReaction, Mode: mode, MessageID: messageID, Emoji: emoji, Actor: chat.ActorUser})
	return nil
}

// StartReply records a frozen snapshot of the target as the pending reply.
func (o *Orchestrator) StartReply(messageID string) error {
	mode := o.Mode()
	msg, ok := o.histories.Find(mode, messageID)
	if !ok || msg.Deleted {
		return ErrMessageNotFound
	}

	o.mu.Lock()
	o.pendingReply = msg.Snapshot()
	o.mu.Unlock()
	return nil
}

// CancelReply clears any pending reply target.
func (o *Orchestrator) CancelReply() {
	o.mu.Lock()
	o.pendingReply = nil
	o.mu.Unlock()
}

// DeleteMessage tombstones a user-authored message in the active history.
func (o *Orchestrator) DeleteMessage(messageID string) error {
	mode := o.Mode()
	if !o.histories.SoftDelete(mode, messageID) {
		return ErrMessageNotFound
	}
	o.sink.Publish(Event{Type: EventDeleted, Mode: mode, MessageID: messageID})
	return nil
}

// SwitchLanguage updates the guest reply language. Only the guest session
// depends on it, so a cached private session stays valid.
func (o *Orchestrator) SwitchLanguage(lang persona.Language) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.language == lang {
		return
	}
	o.language = lang
	store.Set(o.kv, languageKey, lang)
	logger.Log.Info("language_switched", zap.String("language", string(lang)))
}

// Language returns the selected language.
func (o *Orchestrator) Language() persona.Language {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.language
}

// UnlockPrivate handles a tap on the lock icon while in guest mode. After
// the reveal it only ever yields another decoy message; otherwise it opens
// the gate for a fresh attempt session.
func (o *Orchestrator) UnlockPrivate() bool {
	o.mu.Lock()
	if o.unlocked {
		o.mu.Unlock()
		return false
	}
	lang := o.language
	o.mu.Unlock()

	if o.gate.Revealed() {
		o.appendDecoy(lang)
		o.notifier.Notify("You've been pranked!", LevelInfo)
		return false
	}
	return o.gate.Open()
}

// Gate exposes the unlock gate to the transport layer for challenge reads
// and submissions.
func (o *Orchestrator) Gate() *unlock.Gate {
	return o.gate
}

// LockPrivate exits the private persona. The reveal state, if any, stays.
func (o *Orchestrator) LockPrivate() {
	o.mu.Lock()
	if !o.unlocked {
		o.mu.Unlock()
		return
	}
	o.unlocked = false
	o.mu.Unlock()
	o.notifier.Notify("Exited Secret Mode.", LevelInfo)
	logger.Log.Info("private_mode_locked")
}

// onUnlockSuccess runs exactly once per completed gate sequence.
func (o *Orchestrator) onUnlockSuccess() {
	o.mu.Lock()
	o.unlocked = true
	o.mu.Unlock()

	if o.histories.Len(persona.ModePrivate) == 0 {
		o.notifier.Notify("Secret Mode Unlocked!", LevelSuccess)
		welcome := o.histories.Append(persona.ModePrivate, chat.Message{
			Role: chat.RoleAssistant,
			Text: o.pickWelcome(),
		})
		o.sink.Publish(Event{Type: EventMessage, Mode: persona.ModePrivate, Message: &welcome})
	}
	logger.Log.Info("private_mode_unlocked")
}

// onReveal fires once when the attempt budget is exhausted.
func (o *Orchestrator) onReveal() {
	o.mu.Lock()
	lang := o.language
	o.mu.Unlock()

	o.notifier.Notify("Prank Mode Activated!", LevelWarning)
	o.appendDecoy(lang)
	logger.Log.Info("gate_revealed")
}

func (o *Orchestrator) appendDecoy(lang persona.Language) {
	decoy := o.histories.Append(persona.ModeGuest, chat.Message{
		Role: chat.RoleAssistant,
		Text: persona.DecoyMessage(lang),
	})
	o.sink.Publish(Event{Type: EventMessage, Mode: persona.ModeGuest, Message: &decoy})
}

func (o *Orchestrator) pickWelcome() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return persona.PrivateWelcomes[o.rng.Intn(len(persona.PrivateWelcomes))]
}

