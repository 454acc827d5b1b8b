package models

import "time"

// Companion is a chat persona the user can talk to.
type Companion struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Anime        string `json:"anime"`
	Avatar       string `json:"avatar"`
	ThemeColor   string `json:"themeColor"`
	Greeting     string `json:"greeting"`
	SystemPrompt string `json:"-"`
}

// ChatMessage is one turn of a companion conversation.
type ChatMessage struct {
	Role      string    `json:"role"` // user | model
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// ChatSession groups the persisted transcript for one companion conversation.
type ChatSession struct {
	ID          string    `json:"id"`
	CompanionID string    `json:"companionId"`
	CreatedAt   time.Time `json:"createdAt"`
}
