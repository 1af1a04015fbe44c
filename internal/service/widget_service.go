package service

import (
	"context"
	"fmt"

	"github.com/botdesk/botdesk/internal/auth"
	"github.com/botdesk/botdesk/internal/config"
	"github.com/botdesk/botdesk/internal/domain"
	"github.com/botdesk/botdesk/internal/repository"
	"go.uber.org/zap"
)

// PublicBot is the widget-visible slice of a bot.
type PublicBot struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// EmbedResponse carries everything a customer needs to embed the widget.
type EmbedResponse struct {
	BotID        string `json:"bot_id"`
	ClientSecret string `json:"client_secret"`
	Script       string `json:"script"`
}

// WidgetService handles the embedded-widget surface: public bot info and
// embed-code generation.
type WidgetService struct {
	bots   *repository.BotRepository
	box    *auth.SecretBox
	server config.ServerConfig
	logger *zap.Logger
}

// NewWidgetService creates a new widget service
func NewWidgetService(bots *repository.BotRepository, box *auth.SecretBox, server config.ServerConfig, logger *zap.Logger) *WidgetService {
	return &WidgetService{bots: bots, box: box, server: server, logger: logger}
}

// PublicBot returns the widget-visible bot fields.
func (s *WidgetService) PublicBot(ctx context.Context, botID string) (*PublicBot, error) {
	bot, err := s.bots.Get(botID)
	if err != nil {
		return nil, err
	}
	if bot == nil {
		return nil, domain.ErrNotFound
	}
	return &PublicBot{ID: bot.ID, Name: bot.Name, Description: bot.Description}, nil
}

// EmbedInfo returns the embed snippet for one of the owner's bots. The
// shared secret is generated and persisted on the first call; the snippet
// carries the sealed form, never the plaintext.
func (s *WidgetService) EmbedInfo(ctx context.Context, ownerID, botID string) (*EmbedResponse, error) {
	bot, err := s.bots.GetOwned(botID, ownerID)
	if err != nil {
		return nil, err
	}
	if bot == nil {
		return nil, domain.ErrNotFound
	}

	if bot.SharedSecret == "" {
		secret, err := auth.NewSharedSecret()
		if err != nil {
			return nil, err
		}
		if err := s.bots.SetSharedSecret(bot.ID, secret); err != nil {
			return nil, err
		}
		bot.SharedSecret = secret
		s.logger.Info("shared secret generated", zap.String("bot_id", bot.ID))
	}

	sealed, err := s.box.Seal(bot.SharedSecret)
	if err != nil {
		return nil, err
	}

	script := fmt.Sprintf(
		`<script src="%s/widget.js" data-bot-id="%s" data-base-url="%s" data-client-secret="%s" async></script>`,
		s.server.BaseURL, bot.ID, s.server.BaseURL, sealed,
	)

	return &EmbedResponse{
		BotID:        bot.ID,
		ClientSecret: sealed,
		Script:       script,
	}, nil
}
