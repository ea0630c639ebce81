package ai

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aseed/a-seed/backend/internal/config"
	"github.com/aseed/a-seed/backend/internal/model/chat"
)

var turnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "aseed_chat_turns_total",
	Help: "Chat turns by outcome.",
}, []string{"outcome"})

// Service runs one chat turn end to end: context assembly, backend
// completion, reply extraction. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	client *Client
	cfg    config.AIConfig
	prompt string
}

// NewService wires the backend client and loads the system prompt once.
func NewService(cfg config.AIConfig) *Service {
	return &Service{
		client: NewClient(cfg.Host),
		cfg:    cfg,
		prompt: loadSystemPrompt(cfg.SystemPromptFile),
	}
}

// Backend exposes the underlying client for health probes.
func (s *Service) Backend() *Client {
	return s.client
}

// HandleTurn validates the user message, assembles the model context,
// performs the single backend call and extracts the structured reply.
// Backend failures propagate unchanged; nothing is persisted here —
// saving the transcript is the caller's separate decision.
func (s *Service) HandleTurn(ctx context.Context, history []chat.Turn, userText string) (chat.Reply, error) {
	userText = strings.TrimSpace(userText)
	if userText == "" {
		turnsTotal.WithLabelValues("empty").Inc()
		return chat.Reply{}, ErrEmptyMessage
	}

	messages := buildMessages(s.prompt, history, userText)

	text, err := s.client.Complete(ctx, s.cfg, messages)
	if err != nil {
		switch {
		case errors.Is(err, ErrBackendTimeout):
			turnsTotal.WithLabelValues("timeout").Inc()
		default:
			turnsTotal.WithLabelValues("backend_error").Inc()
		}
		return chat.Reply{}, err
	}

	reply := parseReply(text)
	log.Printf("[ai] turn completed emotion=%s reply_len=%d", reply.Emotion, len(reply.Reply))
	turnsTotal.WithLabelValues("ok").Inc()
	return reply, nil
}

// buildMessages prepends exactly one system message, carries over only
// user and assistant turns in their given order — clients may send
// richer role tags and those are dropped, not rejected — and appends
// the new user message last.
func buildMessages(system string, history []chat.Turn, userText string) []chatMessage {
	messages := make([]chatMessage, 0, len(history)+2)
	messages = append(messages, chatMessage{Role: chat.RoleSystem, Content: system})
	for _, turn := range history {
		if turn.Role == chat.RoleUser || turn.Role == chat.RoleAssistant {
			messages = append(messages, chatMessage{Role: turn.Role, Content: turn.Text})
		}
	}
	return append(messages, chatMessage{Role: chat.RoleUser, Content: userText})
}
