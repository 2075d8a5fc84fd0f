package dto

// Conversation modes. The mode restricts which tools are offered to the
// model before the call is made; the bridge tolerates turns with no tools.
const (
	ModeOpen     = "open"
	ModePractice = "practice"
	ModeChatOnly = "chat_only"
	ModeSocratic = "socratic"
)

type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
	Mode      string `json:"mode,omitempty"`
}

// AppliedAction summarizes one dashboard mutation or mood log the bridge
// applied during the turn.
type AppliedAction struct {
	Tool     string `json:"tool"`
	WidgetID string `json:"widgetId,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// EphemeralWidget is a show_* render that lives only in the conversation.
// It becomes a dashboard widget only if the user pins it afterwards.
type EphemeralWidget struct {
	WidgetType string         `json:"widgetType"`
	Args       map[string]any `json:"args,omitempty"`
}

type ChatResponse struct {
	Answer    string            `json:"answer"`
	Actions   []AppliedAction   `json:"actions,omitempty"`
	Ephemeral []EphemeralWidget `json:"ephemeral,omitempty"`
	Balance   int64             `json:"balance"`
}

// --- Mood / journal saves ---

type LogMoodRequest struct {
	Valence float64  `json:"valence"`
	Energy  float64  `json:"energy"`
	Label   string   `json:"label"`
	Context string   `json:"context,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

type CreateJournalEntryRequest struct {
	Content string   `json:"content"`
	Prompt  string   `json:"prompt,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

type CreditBalanceResponse struct {
	Balance int64 `json:"balance"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}
