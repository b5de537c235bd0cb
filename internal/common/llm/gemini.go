package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/genai"

	"edudesk/internal/common/validation"
)

// GeminiInvoker answers requests with Google's Gemini models using
// structured JSON output.
type GeminiInvoker struct {
	models      contentGenerator
	temperature float32
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// NewGeminiInvoker creates a Gemini client authenticated with apiKey.
func NewGeminiInvoker(ctx context.Context, apiKey string, temperature float32) (*GeminiInvoker, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GeminiInvoker{models: client.Models, temperature: temperature}, nil
}

func (g *GeminiInvoker) Invoke(ctx context.Context, req *Request) (json.RawMessage, error) {
	if req.Model == "" {
		return nil, fmt.Errorf("model identifier is required")
	}

	temperature := g.temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      &temperature,
	}
	if req.Schema != nil {
		cfg.ResponseSchema = ToGenAISchema(req.Schema.Root)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(req.Prompt, genai.RoleUser),
	}
	resp, err := g.models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return nil, transportError("gemini %s: %v", req.Model, err)
	}

	text := responseText(resp)
	if strings.TrimSpace(text) == "" {
		return nil, transportError("gemini %s returned no text", req.Model)
	}
	return json.RawMessage(text), nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	content := resp.Candidates[0].Content
	if content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

// ToGenAISchema converts a contract property into Gemini's response schema.
func ToGenAISchema(p validation.Property) *genai.Schema {
	s := &genai.Schema{
		Type:        genaiType(p.Type),
		Description: p.Description,
		Enum:        p.Enum,
		Minimum:     p.Minimum,
		Maximum:     p.Maximum,
		MinItems:    int64Ptr(p.MinItems),
		MaxItems:    int64Ptr(p.MaxItems),
		MinLength:   int64Ptr(p.MinLength),
		MaxLength:   int64Ptr(p.MaxLength),
		Required:    p.Required,
	}
	if p.Pattern != nil {
		s.Pattern = *p.Pattern
	}
	if p.Items != nil {
		s.Items = ToGenAISchema(*p.Items)
	}
	if len(p.Properties) > 0 {
		s.Properties = make(map[string]*genai.Schema, len(p.Properties))
		for name, child := range p.Properties {
			s.Properties[name] = ToGenAISchema(child)
		}
		s.PropertyOrdering = propertyOrder(p)
	}
	return s
}

func propertyOrder(p validation.Property) []string {
	if len(p.Order) == len(p.Properties) {
		return p.Order
	}
	names := make([]string, 0, len(p.Properties))
	for name := range p.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func genaiType(t string) genai.Type {
	switch t {
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

func int64Ptr(v *int) *int64 {
	if v == nil {
		return nil
	}
	n := int64(*v)
	return &n
}
