package repository

import (
	"database/sql"
	"time"

	"github.com/botdesk/botdesk/internal/domain"
)

// SessionRepository handles conversation session persistence
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create persists a new session. The caller supplies the identifier and the
// backend thread handle; neither is generated here.
func (r *SessionRepository) Create(session *domain.Session) error {
	now := time.Now()
	session.CreatedAt = now
	session.LastActivityAt = now

	_, err := r.db.Exec(`
		INSERT INTO sessions (id, bot_id, thread_id, created_at, last_activity_at)
		VALUES (?, ?, ?, ?, ?)
	`, session.ID, session.BotID, session.ThreadID, session.CreatedAt, session.LastActivityAt)

	return err
}

// Get retrieves a session keyed by (id, botID). A session identifier valid
// for one bot is a miss when presented with another bot's identifier.
func (r *SessionRepository) Get(id, botID string) (*domain.Session, error) {
	session := &domain.Session{}

	err := r.db.QueryRow(`
		SELECT id, bot_id, thread_id, created_at, last_activity_at
		FROM sessions WHERE id = ? AND bot_id = ?
	`, id, botID).Scan(&session.ID, &session.BotID, &session.ThreadID,
		&session.CreatedAt, &session.LastActivityAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return session, nil
}

// Touch updates a session's last-activity timestamp. Last-writer-wins is
// acceptable for this field.
func (r *SessionRepository) Touch(id string, at time.Time) error {
	_, err := r.db.Exec(`UPDATE sessions SET last_activity_at = ? WHERE id = ?`, at, id)
	return err
}

// CountForBot returns the number of sessions recorded for a bot.
func (r *SessionRepository) CountForBot(botID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM sessions WHERE bot_id = ?`, botID).Scan(&count)
	return count, err
}
