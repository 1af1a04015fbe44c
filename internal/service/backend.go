package service

import (
	"context"

	"github.com/botdesk/botdesk/internal/assistant"
)

// Backend is the slice of the assistant client the chat path depends on.
// *assistant.Client satisfies it; tests substitute fakes.
type Backend interface {
	CreateThread(ctx context.Context) (string, error)
	CreateMessage(ctx context.Context, threadID, role, content string) error
	CreateRun(ctx context.Context, threadID, assistantID, instructions string) (string, error)
	GetRun(ctx context.Context, threadID, runID string) (assistant.RunState, string, error)
	ListMessages(ctx context.Context, threadID string) ([]assistant.Message, error)
}
