package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/botdesk/botdesk/internal/domain"
	"github.com/google/uuid"
)

// BotRepository handles bot persistence
type BotRepository struct {
	db *DB
}

// NewBotRepository creates a new bot repository
func NewBotRepository(db *DB) *BotRepository {
	return &BotRepository{db: db}
}

// Create creates a new bot
func (r *BotRepository) Create(bot *domain.Bot) error {
	if bot.ID == "" {
		bot.ID = uuid.New().String()
	}
	now := time.Now()
	bot.CreatedAt = now
	bot.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO bots (id, owner_id, name, description, assistant_id, shared_secret, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, bot.ID, bot.OwnerID, bot.Name, bot.Description, bot.AssistantID,
		bot.SharedSecret, bot.CreatedAt, bot.UpdatedAt)

	return err
}

// Get retrieves a bot by ID
func (r *BotRepository) Get(id string) (*domain.Bot, error) {
	return r.scanOne(r.db.QueryRow(`
		SELECT id, owner_id, name, description, assistant_id, shared_secret, created_at, updated_at
		FROM bots WHERE id = ?
	`, id))
}

// GetOwned retrieves a bot by ID scoped to its owner
func (r *BotRepository) GetOwned(id, ownerID string) (*domain.Bot, error) {
	return r.scanOne(r.db.QueryRow(`
		SELECT id, owner_id, name, description, assistant_id, shared_secret, created_at, updated_at
		FROM bots WHERE id = ? AND owner_id = ?
	`, id, ownerID))
}

func (r *BotRepository) scanOne(row *sql.Row) (*domain.Bot, error) {
	bot := &domain.Bot{}
	var description, sharedSecret sql.NullString

	err := row.Scan(&bot.ID, &bot.OwnerID, &bot.Name, &description,
		&bot.AssistantID, &sharedSecret, &bot.CreatedAt, &bot.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if description.Valid {
		bot.Description = description.String
	}
	if sharedSecret.Valid {
		bot.SharedSecret = sharedSecret.String
	}

	return bot, nil
}

// ListByOwner retrieves all bots belonging to a user
func (r *BotRepository) ListByOwner(ownerID string) ([]*domain.Bot, error) {
	rows, err := r.db.Query(`
		SELECT id, owner_id, name, description, assistant_id, shared_secret, created_at, updated_at
		FROM bots WHERE owner_id = ? ORDER BY created_at DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bots []*domain.Bot
	for rows.Next() {
		bot := &domain.Bot{}
		var description, sharedSecret sql.NullString

		if err := rows.Scan(&bot.ID, &bot.OwnerID, &bot.Name, &description,
			&bot.AssistantID, &sharedSecret, &bot.CreatedAt, &bot.UpdatedAt); err != nil {
			return nil, err
		}

		if description.Valid {
			bot.Description = description.String
		}
		if sharedSecret.Valid {
			bot.SharedSecret = sharedSecret.String
		}
		bots = append(bots, bot)
	}

	return bots, rows.Err()
}

// Update updates a bot's mutable fields. The assistant handle is immutable
// and deliberately omitted.
func (r *BotRepository) Update(bot *domain.Bot) error {
	bot.UpdatedAt = time.Now()

	result, err := r.db.Exec(`
		UPDATE bots SET name = ?, description = ?, updated_at = ?
		WHERE id = ?
	`, bot.Name, bot.Description, bot.UpdatedAt, bot.ID)

	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("bot not found: %s", bot.ID)
	}

	return nil
}

// SetSharedSecret stores the lazily generated widget shared secret.
func (r *BotRepository) SetSharedSecret(id, secret string) error {
	result, err := r.db.Exec(`
		UPDATE bots SET shared_secret = ?, updated_at = ? WHERE id = ?
	`, secret, time.Now(), id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("bot not found: %s", id)
	}

	return nil
}

// Delete deletes a bot
func (r *BotRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM bots WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("bot not found: %s", id)
	}

	return nil
}
