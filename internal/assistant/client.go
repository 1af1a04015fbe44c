package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to an OpenAI Assistants-style backend: threads, messages,
// asynchronous runs. It is a stateless network client constructed once at
// startup and injected into the services that need it.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
}

// NewClient creates a new assistant backend client
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 90 * time.Second},
	}
}

type idResponse struct {
	ID string `json:"id"`
}

type runResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	LastError *struct {
		Message string `json:"message"`
	} `json:"last_error"`
}

type messageContent struct {
	Type string `json:"type"`
	Text struct {
		Value string `json:"value"`
	} `json:"text"`
}

type message struct {
	ID      string           `json:"id"`
	Role    string           `json:"role"`
	Content []messageContent `json:"content"`
}

type messageList struct {
	Data []message `json:"data"`
}

// Message is one thread message as returned by the backend, newest first.
type Message struct {
	ID   string
	Role string
	Text string
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	url := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("OpenAI-Beta", "assistants=v2")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return fmt.Errorf("assistant backend: %s %s: %s", method, path, msg)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// CreateAssistant creates a backend assistant and returns its handle.
func (c *Client) CreateAssistant(ctx context.Context, name, instructions, model string) (string, error) {
	body := map[string]any{
		"name":         name,
		"instructions": instructions,
		"model":        model,
		"tools":        []map[string]string{{"type": "file_search"}},
	}
	var out idResponse
	if err := c.do(ctx, http.MethodPost, "/assistants", body, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", errors.New("assistant backend: empty assistant id")
	}
	return out.ID, nil
}

// CreateThread creates a new conversation thread and returns its handle.
func (c *Client) CreateThread(ctx context.Context) (string, error) {
	var out idResponse
	if err := c.do(ctx, http.MethodPost, "/threads", map[string]any{}, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", errors.New("assistant backend: empty thread id")
	}
	return out.ID, nil
}

// CreateMessage appends a message to a thread.
func (c *Client) CreateMessage(ctx context.Context, threadID, role, content string) error {
	body := map[string]string{"role": role, "content": content}
	return c.do(ctx, http.MethodPost, "/threads/"+threadID+"/messages", body, nil)
}

// CreateRun starts an asynchronous run of the assistant against the thread.
func (c *Client) CreateRun(ctx context.Context, threadID, assistantID, instructions string) (string, error) {
	body := map[string]string{"assistant_id": assistantID}
	if instructions != "" {
		body["instructions"] = instructions
	}
	var out runResponse
	if err := c.do(ctx, http.MethodPost, "/threads/"+threadID+"/runs", body, &out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", errors.New("assistant backend: empty run id")
	}
	return out.ID, nil
}

// GetRun retrieves the run's current state. One non-blocking status check;
// pacing is the caller's concern. The second return value carries the
// upstream error message for failed runs.
func (c *Client) GetRun(ctx context.Context, threadID, runID string) (RunState, string, error) {
	var out runResponse
	if err := c.do(ctx, http.MethodGet, "/threads/"+threadID+"/runs/"+runID, nil, &out); err != nil {
		return RunFailed, "", err
	}

	errMsg := ""
	if out.LastError != nil {
		errMsg = out.LastError.Message
	}
	return normalizeStatus(out.Status), errMsg, nil
}

// ListMessages returns the thread's messages, newest first.
func (c *Client) ListMessages(ctx context.Context, threadID string) ([]Message, error) {
	var out messageList
	if err := c.do(ctx, http.MethodGet, "/threads/"+threadID+"/messages", nil, &out); err != nil {
		return nil, err
	}

	msgs := make([]Message, 0, len(out.Data))
	for _, m := range out.Data {
		text := ""
		for _, part := range m.Content {
			if part.Type == "text" {
				text = part.Text.Value
				break
			}
		}
		msgs = append(msgs, Message{ID: m.ID, Role: m.Role, Text: text})
	}
	return msgs, nil
}
