// Package reaction decides whether the assistant drops a small emoji
// reaction on a just-sent guest message. The call is advisory and
// best-effort: any transport or parse failure simply means no reaction.
package reaction

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/fuadeditingzone/fuadbot-backend/internal/config"
	"github.com/fuadeditingzone/fuadbot-backend/pkg/logger"
)

// NoReaction is the sentinel the model returns when nothing is warranted.
const NoReaction = "null"

const classifierInstruction = `You are an AI assistant that analyzes chat messages for emotional tone. Your task is to determine if a short emoji reaction from the bot is appropriate for the user's last message. Consider humor, surprise, sadness, or affection. Your response must be ONLY ONE of the following emojis: '❤️', '😂', '😮', '😢', or the string 'null' if no reaction is warranted. Do not provide any other text or explanation.`

// ValidEmojis is the closed set of reactions the bot may place.
var ValidEmojis = []string{"❤️", "😂", "😮", "😢"}

// Classifier is what the orchestrator consumes; tests substitute fakes.
type Classifier interface {
	Enabled() bool
	Classify(ctx context.Context, text string) (string, bool)
}

// Service runs the classification chain against a dedicated low-temperature
// model instance.
type Service struct {
	enabled bool
	chain   compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the classifier chain. A disabled or credential-less
// configuration yields a permanently silent classifier rather than an error.
func NewService(ctx context.Context, aiCfg config.AIConfig, botCfg config.BotConfig) (*Service, error) {
	if !botCfg.ReactionEnabled || !aiCfg.Enabled() {
		return &Service{}, nil
	}

	chatModel, err := aiCfg.NewChatModel(ctx, &botCfg.ReactionTemperature)
	if err != nil {
		return &Service{}, fmt.Errorf("create reaction model: %w", err)
	}

	template := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(classifierInstruction),
		schema.UserMessage("{message}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(template)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return &Service{}, fmt.Errorf("compile reaction chain: %w", err)
	}

	return &Service{enabled: true, chain: runnable}, nil
}

// Enabled reports whether classification will ever produce a reaction.
func (s *Service) Enabled() bool {
	return s != nil && s.enabled && s.chain != nil
}

// Classify returns an emoji from the valid set, or ok=false for the
// no-reaction sentinel, an out-of-set answer, or any failure. Failures never
// propagate; they are logged and swallowed here.
func (s *Service) Classify(ctx context.Context, text string) (string, bool) {
	if !s.Enabled() {
		return "", false
	}

	msg, err := s.chain.Invoke(ctx, map[string]any{"message": text})
	if err != nil {
		logger.Log.Debug("reaction_classify_failed", zap.Error(err))
		return "", false
	}

	return ParseResult(msg.Content)
}

// ParseResult validates raw model output against the emoji contract.
func ParseResult(raw string) (string, bool) {
	answer := strings.TrimSpace(strings.Trim(strings.TrimSpace(raw), "'\""))
	if answer == "" || strings.EqualFold(answer, NoReaction) {
		return "", false
	}
	for _, emoji := range ValidEmojis {
		if answer == emoji {
			return emoji, true
		}
	}
	logger.Log.Debug("reaction_out_of_set", zap.String("raw", raw))
	return "", false
}
