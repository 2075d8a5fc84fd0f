package dto

// --- Request types ---

type CreateWidgetRequest struct {
	WidgetType  string         `json:"widgetType"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Args        map[string]any `json:"args,omitempty"`
	Size        string         `json:"size,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
}

type UpdateWidgetRequest struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Args        map[string]any `json:"args,omitempty"`
}

// ReorderWidgetsRequest moves movedId immediately before targetId.
type ReorderWidgetsRequest struct {
	MovedID  string `json:"movedId"`
	TargetID string `json:"targetId"`
}

type ResizeWidgetRequest struct {
	Size string `json:"size"`
}

// PinWidgetRequest copies an ephemeral chat widget onto the dashboard.
type PinWidgetRequest struct {
	WidgetType  string         `json:"widgetType"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Args        map[string]any `json:"args,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
}

// SaveWidgetEntryRequest persists an artifact from a data-saving widget.
type SaveWidgetEntryRequest struct {
	Content map[string]any `json:"content"`
	Tags    []string       `json:"tags,omitempty"`
}
