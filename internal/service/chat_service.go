package service

import (
	"context"
	"sync"
	"time"

	"github.com/botdesk/botdesk/internal/assistant"
	"github.com/botdesk/botdesk/internal/config"
	"github.com/botdesk/botdesk/internal/domain"
	"github.com/botdesk/botdesk/internal/fragment"
	"github.com/botdesk/botdesk/internal/repository"
	"go.uber.org/zap"
)

// ChatService owns the streaming relay: it resolves the session, submits the
// run, and drives the bounded poll loop that turns run progress into stream
// events.
type ChatService struct {
	bots     *repository.BotRepository
	sessions *SessionService
	runs     *RunService
	cfg      config.AssistantConfig
	logger   *zap.Logger

	mu     sync.Mutex
	active map[string]struct{}
}

// NewChatService creates a new chat service
func NewChatService(bots *repository.BotRepository, sessions *SessionService, runs *RunService, cfg config.AssistantConfig, logger *zap.Logger) *ChatService {
	return &ChatService{
		bots:     bots,
		sessions: sessions,
		runs:     runs,
		cfg:      cfg,
		logger:   logger,
		active:   make(map[string]struct{}),
	}
}

// Bot resolves the target bot of a chat request.
func (s *ChatService) Bot(ctx context.Context, botID string) (*domain.Bot, error) {
	bot, err := s.bots.Get(botID)
	if err != nil {
		return nil, err
	}
	if bot == nil {
		return nil, domain.ErrNotFound
	}
	return bot, nil
}

// Stream handles one chat turn against the bot. Everything that can fail
// before the first byte of the stream fails here synchronously; once the
// returned channel exists, all failures are reported in-band and the channel
// is closed after exactly one terminal event.
//
// A second message for a session whose stream is still open is rejected with
// ErrSessionBusy rather than serialized.
func (s *ChatService) Stream(ctx context.Context, bot *domain.Bot, req *domain.ChatRequest) (<-chan domain.StreamEvent, error) {
	session, created, err := s.sessions.ResolveOrCreate(ctx, req.SessionID, bot.ID)
	if err != nil {
		return nil, err
	}

	if !s.acquire(session.ID) {
		return nil, domain.ErrSessionBusy
	}

	runID, err := s.runs.Submit(ctx, session.ThreadID, bot.AssistantID, req.Message, req.History)
	if err != nil {
		s.release(session.ID)
		s.logger.Warn("run submit failed",
			zap.String("bot_id", bot.ID),
			zap.String("session_id", session.ID),
			zap.Error(err),
		)
		return nil, domain.ErrUpstreamUnavailable
	}

	ch := make(chan domain.StreamEvent, 16)
	go s.relay(ctx, session, created, runID, ch)
	return ch, nil
}

// acquire marks the session as having an active stream.
func (s *ChatService) acquire(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.active[sessionID]; busy {
		return false
	}
	s.active[sessionID] = struct{}{}
	return true
}

func (s *ChatService) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, sessionID)
}

// relay is the per-connection cooperative loop. It suspends only at the
// inter-poll delay and at backend calls, stops as soon as ctx is cancelled,
// and always closes the channel after a terminal event.
func (s *ChatService) relay(ctx context.Context, session *domain.Session, created bool, runID string, ch chan<- domain.StreamEvent) {
	defer close(ch)
	defer s.release(session.ID)

	send := func(ev domain.StreamEvent) bool {
		select {
		case ch <- ev:
			return true
		case <-ctx.Done():
			return false
		}
	}

	if created {
		if !send(domain.StreamEvent{Type: domain.EventSession, SessionID: session.ID}) {
			return
		}
	}

	for polls := 0; polls < s.cfg.MaxPolls; polls++ {
		state, upstreamMsg, err := s.runs.Poll(ctx, session.ThreadID, runID)
		if err != nil {
			// Context cancelled: client is gone, stop without further
			// backend calls.
			return
		}

		switch state {
		case assistant.RunCompleted:
			text, err := s.runs.FinalResponse(ctx, session.ThreadID)
			if err != nil {
				if ctx.Err() == nil {
					send(domain.StreamEvent{Type: domain.EventError, Err: "Failed to fetch assistant response"})
				}
				return
			}
			for _, frag := range fragment.Split(text, s.cfg.ChunkWords) {
				if !send(domain.StreamEvent{Type: domain.EventMessage, Content: frag}) {
					return
				}
			}
			send(domain.StreamEvent{Type: domain.EventMessage, Content: domain.DoneSentinel})
			return

		case assistant.RunFailed:
			msg := upstreamMsg
			if msg == "" {
				msg = "Run failed"
			}
			send(domain.StreamEvent{Type: domain.EventError, Err: msg})
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(s.cfg.PollInterval):
		}
	}

	s.logger.Warn("stream timed out",
		zap.String("session_id", session.ID),
		zap.Int("max_polls", s.cfg.MaxPolls),
	)
	send(domain.StreamEvent{Type: domain.EventError, Err: "Timed out waiting for assistant response"})
}
