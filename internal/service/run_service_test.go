package service

import (
	"context"
	"errors"
	"testing"

	"github.com/botdesk/botdesk/internal/assistant"
	"github.com/botdesk/botdesk/internal/config"
	"github.com/botdesk/botdesk/internal/domain"
)

func testAssistantConfig() config.AssistantConfig {
	return config.AssistantConfig{
		Instructions: "Be helpful and brief.",
		HistoryLimit: 2,
		MaxPolls:     5,
		ChunkWords:   1,
	}
}

func TestSubmit_AppendsHistoryThenMessage(t *testing.T) {
	backend := newFakeBackend()
	svc := NewRunService(backend, testAssistantConfig())

	threadID, err := backend.CreateThread(context.Background())
	if err != nil {
		t.Fatalf("thread: %v", err)
	}

	history := []domain.HistoryMessage{
		{Role: "user", Content: "oldest"},
		{Role: "assistant", Content: "older"},
		{Role: "user", Content: "recent question"},
		{Role: "assistant", Content: "recent answer"},
	}

	runID, err := svc.Submit(context.Background(), threadID, "asst_1", "current", history)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if runID != "run_1" {
		t.Fatalf("run id %q", runID)
	}

	msgs := backend.threadMessages(threadID)
	// Capped to the 2 most recent history entries plus the current message.
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d: %v", len(msgs), msgs)
	}
	if msgs[len(msgs)-1].Text != "current" || msgs[len(msgs)-1].Role != "user" {
		t.Fatalf("current message not last: %v", msgs)
	}
	// History appends may land in either order; both capped entries must be
	// there and the dropped ones must not.
	texts := map[string]bool{msgs[0].Text: true, msgs[1].Text: true}
	if !texts["recent question"] || !texts["recent answer"] {
		t.Fatalf("capped history missing: %v", msgs)
	}
	if texts["oldest"] || texts["older"] {
		t.Fatalf("history not capped: %v", msgs)
	}
}

func TestSubmit_NoHistory(t *testing.T) {
	backend := newFakeBackend()
	svc := NewRunService(backend, testAssistantConfig())

	threadID, _ := backend.CreateThread(context.Background())
	if _, err := svc.Submit(context.Background(), threadID, "asst_1", "Hello", nil); err != nil {
		t.Fatalf("submit: %v", err)
	}

	msgs := backend.threadMessages(threadID)
	if len(msgs) != 1 || msgs[0].Text != "Hello" {
		t.Fatalf("unexpected messages: %v", msgs)
	}
}

func TestSubmit_MessageFailureAbortsBeforeRun(t *testing.T) {
	backend := newFakeBackend()
	svc := NewRunService(backend, testAssistantConfig())

	threadID, _ := backend.CreateThread(context.Background())
	backend.messageErr = errors.New("append failed")

	if _, err := svc.Submit(context.Background(), threadID, "asst_1", "Hello", nil); err == nil {
		t.Fatal("expected submit to fail")
	}
	if backend.callCount("create_run") != 0 {
		t.Fatal("run started despite failed message append")
	}
}

func TestPoll_TransportErrorIsTerminalFailure(t *testing.T) {
	backend := newFakeBackend()
	backend.getRunErr = errors.New("connection reset")
	svc := NewRunService(backend, testAssistantConfig())

	state, msg, err := svc.Poll(context.Background(), "thread_1", "run_1")
	if err != nil {
		t.Fatalf("poll returned transport error: %v", err)
	}
	if state != assistant.RunFailed {
		t.Fatalf("state %v, want failed", state)
	}
	if msg == "" {
		t.Fatal("expected the transport error as upstream message")
	}
}

func TestPoll_CancelledContext(t *testing.T) {
	backend := newFakeBackend()
	svc := NewRunService(backend, testAssistantConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := svc.Poll(ctx, "thread_1", "run_1"); err == nil {
		t.Fatal("expected cancellation to surface as an error")
	}
}

func TestFinalResponse(t *testing.T) {
	backend := newFakeBackend()
	backend.response = "The answer."
	svc := NewRunService(backend, testAssistantConfig())

	threadID, _ := backend.CreateThread(context.Background())
	_ = backend.CreateMessage(context.Background(), threadID, "user", "The question?")

	text, err := svc.FinalResponse(context.Background(), threadID)
	if err != nil {
		t.Fatalf("final response: %v", err)
	}
	if text != "The answer." {
		t.Fatalf("got %q", text)
	}
}
