package service

import (
	"context"
	"errors"

	"github.com/botdesk/botdesk/internal/assistant"
	"github.com/botdesk/botdesk/internal/config"
	"github.com/botdesk/botdesk/internal/domain"
	"golang.org/x/sync/errgroup"
)

// RunService submits chat turns to the assistant backend and checks run
// status. It never sleeps; pacing belongs to the relay.
type RunService struct {
	backend Backend
	cfg     config.AssistantConfig
}

// NewRunService creates a new run service
func NewRunService(backend Backend, cfg config.AssistantConfig) *RunService {
	return &RunService{backend: backend, cfg: cfg}
}

// Submit appends the capped rolling history and the current user message to
// the thread, then starts a run with the configured instruction set. History
// entries are distinct prior turns, so they are appended concurrently; all
// of them land before the current-turn message.
func (s *RunService) Submit(ctx context.Context, threadID, assistantID, message string, history []domain.HistoryMessage) (string, error) {
	history = capHistory(history, s.cfg.HistoryLimit)

	if len(history) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		for _, h := range history {
			if h.Content == "" {
				continue
			}
			h := h
			g.Go(func() error {
				return s.backend.CreateMessage(gctx, threadID, normalizeRole(h.Role), h.Content)
			})
		}
		if err := g.Wait(); err != nil {
			return "", err
		}
	}

	if err := s.backend.CreateMessage(ctx, threadID, "user", message); err != nil {
		return "", err
	}

	return s.backend.CreateRun(ctx, threadID, assistantID, s.cfg.Instructions)
}

// Poll performs a single status check. A transport failure is folded into a
// failed terminal state rather than retried; a stuck run retried blindly
// risks duplicate responses. Context cancellation is returned as-is so the
// relay can stop silently.
func (s *RunService) Poll(ctx context.Context, threadID, runID string) (assistant.RunState, string, error) {
	state, errMsg, err := s.backend.GetRun(ctx, threadID, runID)
	if err != nil {
		if ctx.Err() != nil {
			return assistant.RunFailed, "", ctx.Err()
		}
		return assistant.RunFailed, err.Error(), nil
	}
	return state, errMsg, nil
}

// FinalResponse fetches the newest assistant message of the thread. Called
// once per completed run, not per poll.
func (s *RunService) FinalResponse(ctx context.Context, threadID string) (string, error) {
	msgs, err := s.backend.ListMessages(ctx, threadID)
	if err != nil {
		return "", err
	}
	for _, m := range msgs {
		if m.Role == "assistant" {
			return m.Text, nil
		}
	}
	return "", errors.New("no assistant response in thread")
}

// capHistory keeps the most recent limit entries.
func capHistory(history []domain.HistoryMessage, limit int) []domain.HistoryMessage {
	if limit <= 0 || len(history) <= limit {
		return history
	}
	return history[len(history)-limit:]
}

func normalizeRole(role string) string {
	if role == "assistant" {
		return "assistant"
	}
	return "user"
}
