package agents

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Role fixes the decoding parameters for one agent persona. Conversation
// is open-ended; classification is near-deterministic and expected to
// return structured output.
type Role struct {
	Name        string
	Temperature float64
	TopP        float64
	MaxTokens   int64
}

var (
	Conversation   = Role{Name: "conversation", Temperature: 0.7, TopP: 0.95, MaxTokens: 1000}
	Classification = Role{Name: "classification", Temperature: 0.1, TopP: 0.5, MaxTokens: 300}
)

// Completer is the chat-completion boundary. The production implementation
// wraps the hosted model API; tests substitute a stub.
type Completer interface {
	Complete(ctx context.Context, role Role, system, prompt string) (string, error)
}

// maxAttempts bounds each agent invocation: one call plus two retries.
const maxAttempts = 3

// Service dispatches prompts to agent roles with retry on transient
// failures, and logs every invocation under a correlation id.
type Service struct {
	completer Completer
	log       *zap.Logger
	prefix    string
}

func NewService(completer Completer, log *zap.Logger) *Service {
	return &Service{
		completer: completer,
		log:       log,
		prefix:    "agent-" + uuid.NewString()[:6],
	}
}

// invoke runs one agent call. Only transient network/timeout/throttle
// errors are retried, with exponential backoff; everything else fails
// immediately. Callers translate an exhausted invocation into their own
// canned fallback.
func (s *Service) invoke(ctx context.Context, role Role, system, prompt string) (string, error) {
	correlationID := fmt.Sprintf("%s-%s", s.prefix, uuid.NewString()[:8])
	start := time.Now()

	var out string
	operation := func() error {
		text, err := s.completer.Complete(ctx, role, system, prompt)
		if err != nil {
			if isTransient(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		out = text
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 1 * time.Second
	bo.MaxInterval = 10 * time.Second

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, maxAttempts-1), ctx))
	elapsed := time.Since(start)

	if err != nil {
		s.log.Warn("agent invocation failed",
			zap.String("correlation_id", correlationID),
			zap.String("agent", role.Name),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return "", err
	}

	s.log.Info("agent invocation completed",
		zap.String("correlation_id", correlationID),
		zap.String("agent", role.Name),
		zap.Duration("elapsed", elapsed),
		zap.Int("prompt_length", len(prompt)),
		zap.Int("response_length", len(out)),
	)
	return out, nil
}

func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		switch apierr.StatusCode {
		case 408, 429, 500, 502, 503, 504, 529:
			return true
		}
	}
	return false
}

// AnthropicCompleter talks to the hosted model API. Each role maps to its
// own model deployment name.
type AnthropicCompleter struct {
	client anthropic.Client
	models map[string]string
}

func NewAnthropicCompleter(apiKey, conversationModel, classificationModel string) *AnthropicCompleter {
	return &AnthropicCompleter{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		models: map[string]string{
			Conversation.Name:   conversationModel,
			Classification.Name: classificationModel,
		},
	}
}

func (c *AnthropicCompleter) Complete(ctx context.Context, role Role, system, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.models[role.Name]),
		MaxTokens:   role.MaxTokens,
		Temperature: anthropic.Float(role.Temperature),
		TopP:        anthropic.Float(role.TopP),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%s agent call: %w", role.Name, err)
	}
	if len(msg.Content) == 0 {
		return "", fmt.Errorf("%s agent returned empty response", role.Name)
	}
	return msg.Content[0].Text, nil
}
