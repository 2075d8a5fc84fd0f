package vertexclient

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cloud.google.com/go/vertexai/genai"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/sarthology/dailysage-backend/internal/dto"
	"github.com/sarthology/dailysage-backend/internal/errs"
)

type Adapter struct {
	client *genai.Client
	model  string
	log    *slog.Logger
}

func NewAdapter(ctx context.Context, log *slog.Logger, projectID, region, model string) (*Adapter, error) {
	client, err := genai.NewClient(ctx, projectID, region)
	if err != nil {
		return nil, err
	}

	return &Adapter{
		client: client,
		model:  model,
		log:    log,
	}, nil
}

func (a *Adapter) Close() error {
	err := a.client.Close()
	if err != nil && a.log != nil {
		a.log.Error("vertex adapter close failed", "error", err)
	}
	return err
}

// GenerateStream runs one model turn and forwards each chunk to onEvent as it
// arrives. The stream delivers chunks as deltas: every function call part is
// one distinct invocation carrying complete arguments, so each gets a fresh
// call id and Final set. Two calls with identical name and arguments stay
// distinct; downstream dedup keys on the id, not the payload.
func (a *Adapter) GenerateStream(ctx context.Context, req dto.VertexGenerateRequest, onEvent func(dto.StreamEvent)) error {
	modelName := req.Model
	if modelName == "" {
		modelName = a.model
	}
	if modelName == "" {
		return fmt.Errorf("vertex model is required")
	}
	if len(req.Contents) == 0 {
		return fmt.Errorf("vertex generate request has no content")
	}

	model := a.client.GenerativeModel(modelName)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}
	if req.Temperature != nil {
		model.SetTemperature(*req.Temperature)
	}
	if req.MaxOutputTokens != nil {
		model.SetMaxOutputTokens(*req.MaxOutputTokens)
	}
	if len(req.Tools) > 0 {
		model.Tools = toGenaiTools(req.Tools)
	}
	if req.ToolConfig != nil {
		model.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode: toGenaiFunctionCallingMode(req.ToolConfig.Mode),
			},
		}
	}

	history, last := splitContents(req.Contents)
	chat := model.StartChat()
	chat.History = history

	iter := chat.SendMessageStream(ctx, last...)
	for {
		resp, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			return nil
		}
		if err != nil {
			return errs.NewExternalServiceError("vertex", "model stream failed", true, err)
		}
		if malformed(resp) {
			return errs.NewMalformedFunctionCallError()
		}
		emitChunk(resp, onEvent)
	}
}

func emitChunk(resp *genai.GenerateContentResponse, onEvent func(dto.StreamEvent)) {
	if resp == nil || len(resp.Candidates) == 0 {
		return
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			switch p := part.(type) {
			case genai.Text:
				if p != "" {
					onEvent(dto.StreamEvent{TextDelta: string(p)})
				}
			case genai.FunctionCall:
				onEvent(dto.StreamEvent{ToolCall: &dto.ToolInvocation{
					CallID: uuid.New().String(),
					Name:   p.Name,
					Args:   p.Args,
					Final:  true,
				}})
			case *genai.FunctionCall:
				onEvent(dto.StreamEvent{ToolCall: &dto.ToolInvocation{
					CallID: uuid.New().String(),
					Name:   p.Name,
					Args:   p.Args,
					Final:  true,
				}})
			}
		}
	}
}

func malformed(resp *genai.GenerateContentResponse) bool {
	if resp == nil {
		return false
	}
	for _, candidate := range resp.Candidates {
		if candidate.FinishReason == genai.FinishReasonMalformedFunctionCall {
			return true
		}
	}
	return false
}

// splitContents separates the conversation prefix from the message being
// sent; the genai chat API takes them separately.
func splitContents(contents []dto.VertexContent) ([]*genai.Content, []genai.Part) {
	last := toGenaiContent(contents[len(contents)-1])
	history := make([]*genai.Content, 0, len(contents)-1)
	for _, c := range contents[:len(contents)-1] {
		history = append(history, toGenaiContent(c))
	}
	return history, last.Parts
}

func toGenaiContent(c dto.VertexContent) *genai.Content {
	out := &genai.Content{Role: c.Role}
	for _, part := range c.Parts {
		switch {
		case part.Text != nil:
			out.Parts = append(out.Parts, genai.Text(*part.Text))
		case part.FunctionCall != nil:
			out.Parts = append(out.Parts, genai.FunctionCall{
				Name: part.FunctionCall.Name,
				Args: part.FunctionCall.Args,
			})
		case part.FunctionResponse != nil:
			out.Parts = append(out.Parts, genai.FunctionResponse{
				Name:     part.FunctionResponse.Name,
				Response: part.FunctionResponse.Response,
			})
		}
	}
	return out
}

func toGenaiFunctionCallingMode(mode string) genai.FunctionCallingMode {
	switch mode {
	case dto.FunctionCallingModeNone:
		return genai.FunctionCallingNone
	case dto.FunctionCallingModeAuto:
		return genai.FunctionCallingAuto
	default:
		return genai.FunctionCallingUnspecified
	}
}

func toGenaiTools(tools []dto.VertexTool) []*genai.Tool {
	if len(tools) == 0 {
		return nil
	}

	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  toGenaiSchema(tool.Parameters),
		})
	}

	return []*genai.Tool{
		{FunctionDeclarations: decls},
	}
}

func toGenaiSchema(schema *dto.VertexSchema) *genai.Schema {
	if schema == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        toGenaiType(schema.Type),
		Description: schema.Description,
		Enum:        schema.Enum,
		Required:    schema.Required,
	}

	if schema.Items != nil {
		out.Items = toGenaiSchema(schema.Items)
	}
	if len(schema.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(schema.Properties))
		for key, value := range schema.Properties {
			out.Properties[key] = toGenaiSchema(value)
		}
	}

	return out
}

func toGenaiType(schemaType string) genai.Type {
	switch schemaType {
	case "object":
		return genai.TypeObject
	case "array":
		return genai.TypeArray
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	default:
		return genai.TypeUnspecified
	}
}
