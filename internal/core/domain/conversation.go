package domain

import "time"

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Turn is a single message within a conversation.
type Turn struct {
	// Role is one of "user", "assistant", or "system".
	Role string

	// Content is the message text.
	Content string

	// Sources lists citations for assistant turns, when present.
	Sources []Source

	// At is when the turn was recorded.
	At time.Time
}

// Conversation is an ordered sequence of turns. Conversations live only
// in process memory and are lost on restart.
type Conversation struct {
	// ID identifies the conversation across requests.
	ID string

	// Turns is the append-only message history.
	Turns []Turn
}
