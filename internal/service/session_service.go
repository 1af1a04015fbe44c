package service

import (
	"context"
	"fmt"
	"time"

	"github.com/botdesk/botdesk/internal/auth"
	"github.com/botdesk/botdesk/internal/domain"
	"github.com/botdesk/botdesk/internal/repository"
	"go.uber.org/zap"
)

// SessionService resolves a client-supplied session identifier to its
// backend thread, creating both a thread and a session record when no usable
// identifier is presented.
type SessionService struct {
	repo    *repository.SessionRepository
	backend Backend
	logger  *zap.Logger
}

// NewSessionService creates a new session service
func NewSessionService(repo *repository.SessionRepository, backend Backend, logger *zap.Logger) *SessionService {
	return &SessionService{repo: repo, backend: backend, logger: logger}
}

// ResolveOrCreate returns the session for (sessionID, botID), or a freshly
// created one when sessionID is absent or unknown for this bot. An unknown
// identifier is treated exactly like an absent one, so a session identifier
// guessed or carried over from another bot silently yields a new session
// instead of leaking. The second return value reports whether a new session
// was created.
//
// Creation is all-or-nothing: the backend thread is created first and no
// session record is persisted if that fails.
func (s *SessionService) ResolveOrCreate(ctx context.Context, sessionID, botID string) (*domain.Session, bool, error) {
	if sessionID != "" {
		session, err := s.repo.Get(sessionID, botID)
		if err != nil {
			return nil, false, err
		}
		if session != nil {
			if err := s.repo.Touch(session.ID, time.Now()); err != nil {
				return nil, false, err
			}
			return session, false, nil
		}
		// Unknown or foreign identifier, fall through to creation.
	}

	threadID, err := s.backend.CreateThread(ctx)
	if err != nil {
		s.logger.Warn("thread creation failed", zap.String("bot_id", botID), zap.Error(err))
		return nil, false, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	id, err := auth.NewSessionID()
	if err != nil {
		return nil, false, err
	}

	session := &domain.Session{
		ID:       id,
		BotID:    botID,
		ThreadID: threadID,
	}
	if err := s.repo.Create(session); err != nil {
		return nil, false, err
	}

	s.logger.Info("session created",
		zap.String("bot_id", botID),
		zap.String("session_id", session.ID),
	)
	return session, true, nil
}
