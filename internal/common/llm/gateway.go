package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	httpclient "edudesk/internal/common/http"
)

const generatePath = "/api/ai/generate"

// GatewayInvoker posts requests to an internal GenAI gateway that fronts the
// hosted models.
type GatewayInvoker struct {
	baseURL string
	client  *httpclient.Client
}

type gatewayRequest struct {
	Prompt         string                 `json:"prompt"`
	Model          string                 `json:"model"`
	Temperature    *float32               `json:"temperature,omitempty"`
	ResponseSchema map[string]interface{} `json:"response_schema,omitempty"`
	SchemaName     string                 `json:"schema_name,omitempty"`
}

type gatewayResponse struct {
	Text string `json:"text"`
}

// NewGatewayInvoker creates an invoker for the gateway at baseURL. A
// non-empty apiKey is sent as a bearer token.
func NewGatewayInvoker(baseURL, apiKey string, timeout time.Duration) *GatewayInvoker {
	client := httpclient.NewClient(timeout)
	if apiKey != "" {
		client = client.WithHeader("Authorization", "Bearer "+apiKey)
	}
	return &GatewayInvoker{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (g *GatewayInvoker) Invoke(ctx context.Context, req *Request) (json.RawMessage, error) {
	body := gatewayRequest{
		Prompt:      req.Prompt,
		Model:       req.Model,
		Temperature: req.Temperature,
	}
	if req.Schema != nil {
		body.ResponseSchema = req.Schema.Document()
		body.SchemaName = req.Schema.Name
	}

	resp, err := g.client.PostJSON(ctx, g.baseURL+generatePath, body)
	if err != nil {
		return nil, transportError("gateway: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, transportError("gateway status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out gatewayResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, transportError("gateway decode: %v", err)
	}
	if strings.TrimSpace(out.Text) == "" {
		return nil, transportError("gateway returned no text for model %s", req.Model)
	}
	return json.RawMessage(stripCodeFence(out.Text)), nil
}

// stripCodeFence removes a ```json fence some models wrap around JSON answers.
func stripCodeFence(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	t = strings.TrimPrefix(t, "json")
	t = strings.TrimSuffix(strings.TrimSpace(t), "```")
	return strings.TrimSpace(t)
}

func (g *GatewayInvoker) String() string {
	return fmt.Sprintf("gateway:%s", g.baseURL)
}
