// Package ai owns the remote conversation lifecycle: a connectivity probe at
// construction, then lazily created sessions bound to an instruction and a
// seeded context window. There is no retry path; once the probe fails the
// whole widget degrades to offline until the process restarts.
package ai

import (
	"context"
	"fmt"
	"sync"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/fuadeditingzone/fuadbot-backend/internal/config"
	"github.com/fuadeditingzone/fuadbot-backend/internal/model/chat"
	"github.com/fuadeditingzone/fuadbot-backend/pkg/logger"
)

// Availability is the remote model's reachability state.
type Availability string

const (
	Uninitialized Availability = "uninitialized"
	Initializing  Availability = "initializing"
	Ready         Availability = "ready"
	Offline       Availability = "offline"
)

// Session is one remote conversation. Send is a single request/response
// round trip; the session accumulates its own turns so follow-up calls carry
// the conversation forward.
type Session interface {
	Send(ctx context.Context, text string) (string, error)
}

// Factory abstracts session creation for the orchestrator (and its tests).
type Factory interface {
	Availability() Availability
	NewSession(ctx context.Context, instruction string, window []chat.Turn) (Session, error)
}

// Service implements Factory over an eino prompt chain.
type Service struct {
	mu           sync.RWMutex
	availability Availability
	chatModel    model.ChatModel
	chain        compose.Runnable[map[string]any, *schema.Message]
}

// NewService builds the chat model and compiles the chain. Any failure marks
// the service offline; the error is reported but the service stays usable as
// a permanently offline factory.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	s := &Service{availability: Initializing}

	chatModel, err := cfg.NewChatModel(ctx, nil)
	if err != nil {
		s.availability = Offline
		return s, fmt.Errorf("create chat model: %w", err)
	}

	chain, err := buildChain(ctx, chatModel)
	if err != nil {
		s.availability = Offline
		return s, fmt.Errorf("compile chat chain: %w", err)
	}

	s.chatModel = chatModel
	s.chain = chain
	s.availability = Ready
	logger.Log.Info("ai_service_ready")
	return s, nil
}

func buildChain(ctx context.Context, chatModel model.ChatModel) (compose.Runnable[map[string]any, *schema.Message], error) {
	template := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(template)
	chain.AppendChatModel(chatModel)
	return chain.Compile(ctx)
}

// Availability reports the probe result.
func (s *Service) Availability() Availability {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.availability
}

// GetChatModel exposes the underlying model for sibling services.
func (s *Service) GetChatModel() model.ChatModel {
	return s.chatModel
}

// NewSession binds a session to the instruction text and seeds it with the
// caller's context window.
func (s *Service) NewSession(_ context.Context, instruction string, window []chat.Turn) (Session, error) {
	if s.Availability() != Ready {
		return nil, fmt.Errorf("ai service unavailable")
	}

	history := make([]*schema.Message, 0, len(window))
	for _, turn := range window {
		switch turn.Role {
		case chat.RoleUser:
			history = append(history, schema.UserMessage(turn.Text))
		case chat.RoleAssistant:
			history = append(history, schema.AssistantMessage(turn.Text, nil))
		}
	}

	return &chainSession{
		chain:       s.chain,
		instruction: instruction,
		history:     history,
	}, nil
}

type chainSession struct {
	mu          sync.Mutex
	chain       compose.Runnable[map[string]any, *schema.Message]
	instruction string
	history     []*schema.Message
}

// Send runs one round trip and folds both turns into the session history.
func (c *chainSession) Send(ctx context.Context, text string) (string, error) {
	c.mu.Lock()
	history := make([]*schema.Message, len(c.history))
	copy(history, c.history)
	c.mu.Unlock()

	input := map[string]any{
		"system":  c.instruction,
		"history": history,
		"query":   text,
	}

	response, err := c.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("run chat chain: %w", err)
	}

	c.mu.Lock()
	c.history = append(c.history, schema.UserMessage(text), schema.AssistantMessage(response.Content, nil))
	c.mu.Unlock()

	logger.Log.Debug("chat_round_trip", zap.Int("reply_len", len(response.Content)))
	return response.Content, nil
}
