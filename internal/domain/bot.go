package domain

import "time"

// Bot represents a configured support assistant. AssistantID is the backend
// assistant handle and is immutable once created. SharedSecret is empty until
// the first embed request lazily generates it.
type Bot struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"owner_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	AssistantID  string    `json:"assistant_id"`
	SharedSecret string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateBotRequest is the request to create a bot
type CreateBotRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	Instructions string `json:"instructions"`
}

// UpdateBotRequest is the request to update a bot. The assistant handle is
// deliberately not updatable.
type UpdateBotRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}
