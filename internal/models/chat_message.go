package models

import "time"

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// ChatMessage is one turn fragment persisted per session. Tool messages carry
// the call and its outcome so history replays keep the model grounded.
type ChatMessage struct {
	Role       string         `firestore:"role" json:"role"`
	Content    string         `firestore:"content,omitempty" json:"content,omitempty"`
	ToolName   string         `firestore:"toolName,omitempty" json:"toolName,omitempty"`
	ToolArgs   map[string]any `firestore:"toolArgs,omitempty" json:"toolArgs,omitempty"`
	ToolResult map[string]any `firestore:"toolResult,omitempty" json:"toolResult,omitempty"`
	CreatedAt  time.Time      `firestore:"createdAt" json:"createdAt"`
	ExpiresAt  time.Time      `firestore:"expiresAt,omitempty" json:"expiresAt,omitempty"`
}
