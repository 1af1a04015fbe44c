package service

import (
	"context"
	"fmt"

	"github.com/botdesk/botdesk/internal/assistant"
	"github.com/botdesk/botdesk/internal/config"
	"github.com/botdesk/botdesk/internal/domain"
	"github.com/botdesk/botdesk/internal/repository"
	"go.uber.org/zap"
)

// BotService handles bot CRUD. Bots are always owner-scoped.
type BotService struct {
	bots    *repository.BotRepository
	backend *assistant.Client
	cfg     config.AssistantConfig
	logger  *zap.Logger
}

// NewBotService creates a new bot service
func NewBotService(bots *repository.BotRepository, backend *assistant.Client, cfg config.AssistantConfig, logger *zap.Logger) *BotService {
	return &BotService{bots: bots, backend: backend, cfg: cfg, logger: logger}
}

// Create provisions the backend assistant first, then persists the bot. The
// assistant handle is immutable from here on.
func (s *BotService) Create(ctx context.Context, ownerID string, req *domain.CreateBotRequest) (*domain.Bot, error) {
	instructions := req.Instructions
	if instructions == "" {
		instructions = s.cfg.Instructions
	}

	assistantID, err := s.backend.CreateAssistant(ctx, req.Name, instructions, s.cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	bot := &domain.Bot{
		OwnerID:     ownerID,
		Name:        req.Name,
		Description: req.Description,
		AssistantID: assistantID,
	}
	if err := s.bots.Create(bot); err != nil {
		return nil, err
	}

	s.logger.Info("bot created",
		zap.String("bot_id", bot.ID),
		zap.String("owner_id", ownerID),
		zap.String("assistant_id", assistantID),
	)
	return bot, nil
}

// Get returns one of the owner's bots
func (s *BotService) Get(ctx context.Context, ownerID, botID string) (*domain.Bot, error) {
	bot, err := s.bots.GetOwned(botID, ownerID)
	if err != nil {
		return nil, err
	}
	if bot == nil {
		return nil, domain.ErrNotFound
	}
	return bot, nil
}

// List returns all the owner's bots
func (s *BotService) List(ctx context.Context, ownerID string) ([]*domain.Bot, error) {
	return s.bots.ListByOwner(ownerID)
}

// Update changes a bot's name and description
func (s *BotService) Update(ctx context.Context, ownerID, botID string, req *domain.UpdateBotRequest) (*domain.Bot, error) {
	bot, err := s.Get(ctx, ownerID, botID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		bot.Name = req.Name
	}
	if req.Description != "" {
		bot.Description = req.Description
	}
	if err := s.bots.Update(bot); err != nil {
		return nil, err
	}
	return bot, nil
}

// Delete removes a bot
func (s *BotService) Delete(ctx context.Context, ownerID, botID string) error {
	bot, err := s.Get(ctx, ownerID, botID)
	if err != nil {
		return err
	}
	return s.bots.Delete(bot.ID)
}
