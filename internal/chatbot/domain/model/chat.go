package model

// Conversation roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of the visitor's conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Prompt is everything sent to the provider for one reply
type Prompt struct {
	System  string
	History []Message
	Message string
}

// Status tells the frontend whether to show the chat widget
type Status struct {
	Configured bool   `json:"configured"`
	Model      string `json:"model"`
}
