package service

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/botdesk/botdesk/internal/assistant"
	"github.com/botdesk/botdesk/internal/repository"
)

// fakeBackend is a scripted assistant backend. Run states are consumed one
// per GetRun call; the last one repeats.
type fakeBackend struct {
	mu        sync.Mutex
	threadSeq int
	messages  map[string][]assistant.Message
	response  string
	runStates []assistant.RunState
	runErrMsg string
	polls     int

	threadErr  error
	messageErr error
	runErr     error
	getRunErr  error
	listErr    error

	calls []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		messages:  make(map[string][]assistant.Message),
		response:  "Hi there, how can I help?",
		runStates: []assistant.RunState{assistant.RunCompleted},
	}
}

func (f *fakeBackend) record(call string) {
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) callCount(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeBackend) CreateThread(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create_thread")
	if f.threadErr != nil {
		return "", f.threadErr
	}
	f.threadSeq++
	id := fmt.Sprintf("thread_%d", f.threadSeq)
	f.messages[id] = nil
	return id, nil
}

func (f *fakeBackend) CreateMessage(ctx context.Context, threadID, role, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create_message")
	if f.messageErr != nil {
		return f.messageErr
	}
	f.messages[threadID] = append(f.messages[threadID], assistant.Message{Role: role, Text: content})
	return nil
}

func (f *fakeBackend) CreateRun(ctx context.Context, threadID, assistantID, instructions string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("create_run")
	if f.runErr != nil {
		return "", f.runErr
	}
	return "run_1", nil
}

func (f *fakeBackend) GetRun(ctx context.Context, threadID, runID string) (assistant.RunState, string, error) {
	if err := ctx.Err(); err != nil {
		return assistant.RunFailed, "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("get_run")
	if f.getRunErr != nil {
		return assistant.RunFailed, "", f.getRunErr
	}
	idx := f.polls
	if idx >= len(f.runStates) {
		idx = len(f.runStates) - 1
	}
	f.polls++
	return f.runStates[idx], f.runErrMsg, nil
}

func (f *fakeBackend) ListMessages(ctx context.Context, threadID string) ([]assistant.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("list_messages")
	if f.listErr != nil {
		return nil, f.listErr
	}

	// Newest first, with the assistant response on top, like the backend.
	appended := f.messages[threadID]
	out := []assistant.Message{{ID: "msg_resp", Role: "assistant", Text: f.response}}
	for i := len(appended) - 1; i >= 0; i-- {
		out = append(out, appended[i])
	}
	return out, nil
}

func (f *fakeBackend) threadMessages(threadID string) []assistant.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]assistant.Message(nil), f.messages[threadID]...)
}

func (f *fakeBackend) pollCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}

func openTestDB(t *testing.T) *repository.DB {
	t.Helper()
	db, err := repository.NewMemoryDB()
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seedBot inserts a bot row (and its owner) so session foreign keys hold.
func seedBot(t *testing.T, db *repository.DB, botID string) {
	t.Helper()
	ownerID := botID + "-owner"
	if _, err := db.Exec(`INSERT INTO users (id, email, password_hash) VALUES (?, ?, ?)`,
		ownerID, ownerID+"@example.com", "x"); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO bots (id, owner_id, name, assistant_id) VALUES (?, ?, ?, ?)`,
		botID, ownerID, "Test Bot", "asst_1"); err != nil {
		t.Fatalf("seed bot: %v", err)
	}
}
