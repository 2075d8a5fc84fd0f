package dto

// Function calling modes.
const (
	FunctionCallingModeAuto = "auto"
	FunctionCallingModeNone = "none"
)

type VertexGenerateRequest struct {
	Model           string
	System          string
	Contents        []VertexContent
	Tools           []VertexTool
	ToolConfig      *VertexToolConfig
	Temperature     *float32
	MaxOutputTokens *int32
}

type VertexToolConfig struct {
	Mode string
}

type VertexContent struct {
	Role  string
	Parts []VertexPart
}

type VertexPart struct {
	Text             *string
	FunctionCall     *VertexToolCall
	FunctionResponse *VertexToolResult
}

type VertexTool struct {
	Name        string
	Description string
	Parameters  *VertexSchema
}

type VertexToolCall struct {
	Name string
	Args map[string]any
}

type VertexToolResult struct {
	Name     string
	Response map[string]any
}

type VertexSchema struct {
	Type        string
	Description string
	Enum        []string
	Properties  map[string]*VertexSchema
	Required    []string
	Items       *VertexSchema
}

// --- Streaming ---

// ToolInvocation is one structured tool call observed on the model stream.
// The same CallID may be observed more than once as a streaming response
// completes; consumers must apply each CallID at most once, and only when
// Final reports the arguments fully parsed.
type ToolInvocation struct {
	CallID string
	Name   string
	Args   map[string]any
	Final  bool
}

// StreamEvent is one element of a model response stream: a text delta, a tool
// invocation, or both zero on end-of-stream.
type StreamEvent struct {
	TextDelta string
	ToolCall  *ToolInvocation
}
