// Package tutor holds the conversation domain: sessions, turns, the
// single-exchange memory and the orchestration that drives one turn end to
// end through classification, prompting and dispatch.
package tutor

import (
	"time"

	"github.com/google/uuid"
)

// TurnRole identifies who produced a turn.
type TurnRole string

const (
	RoleUser      TurnRole = "user"
	RoleAssistant TurnRole = "assistant"
)

// Turn is one message in a session. Immutable once created except for
// Revealing, which the host renderer clears after the typewriter effect.
type Turn struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Role      TurnRole  `json:"role"`
	CreatedAt time.Time `json:"created_at"`

	// Image is the attached image data URI, user turns only.
	Image string `json:"image,omitempty"`

	// Revealing marks an assistant turn still being revealed incrementally.
	Revealing bool `json:"revealing,omitempty"`
}

// Session is one conversation: an ordered sequence of turns with a title.
type Session struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Turns     []Turn    `json:"turns"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// greeting opens every new session.
const greeting = "Yooo আমি ATOM , তোমার পড়াশোনার স্মার্ট সাথী😎\n বইয়ের সব প্রশ্ন আমি একদম বুঝিয়ে দিবো 😍\n তুমি কোন ক্লাসে পড়ো আর কী নিয়ে হেল্প লাগবে বলো তো?"

// NewSession creates an empty session opened by the fixed greeting turn.
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:    uuid.New().String(),
		Title: DefaultTitle,
		Turns: []Turn{
			{
				ID:        uuid.New().String(),
				Content:   greeting,
				Role:      RoleAssistant,
				CreatedAt: now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
