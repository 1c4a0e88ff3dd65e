package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/D-E-STUDIOS/mindweave-agenda/internal/models"
)

// Client talks to an OpenAI-compatible completion gateway through a
// schema-constrained function-call channel.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

type chatRequest struct {
	Model      string        `json:"model"`
	Messages   []chatMessage `json:"messages"`
	Tools      []chatTool    `json:"tools,omitempty"`
	ToolChoice *toolChoice   `json:"tool_choice,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

type toolChoice struct {
	Type     string             `json:"type"`
	Function toolChoiceFunction `json:"function"`
}

type toolChoiceFunction struct {
	Name string `json:"name"`
}

type chatResponse struct {
	Choices []chatChoice  `json:"choices"`
	Error   *gatewayError `json:"error,omitempty"`
}

type chatChoice struct {
	Message responseMessage `json:"message"`
}

type responseMessage struct {
	ToolCalls []toolCall `json:"tool_calls"`
}

type toolCall struct {
	Function toolCallResult `json:"function"`
}

type toolCallResult struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type gatewayError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewClient creates a gateway client. baseURL points at the /v1 root of an
// OpenAI-compatible endpoint.
func NewClient(baseURL, apiKey, model string) *Client {
	if apiKey == "" {
		log.Fatal("AI_GATEWAY_KEY is required")
	}

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{},
	}
}

// AnalyzeNote extracts tags and actionable tasks from a single note. The
// caller must pass non-empty content; nothing is persisted here.
func (c *Client) AnalyzeNote(ctx context.Context, content string) (*models.AnalysisResult, error) {
	messages := []chatMessage{
		{
			Role:    "system",
			Content: "You are a helpful AI assistant that analyzes notes to extract tags and identify actionable tasks. Return your response as JSON.",
		},
		{
			Role: "user",
			Content: fmt.Sprintf(`Analyze this note and provide:
1. Up to 5 relevant tags (single words or short phrases)
2. List of actionable tasks found in the note (if any)

Note: "%s"`, content),
		},
	}

	args, err := c.callFunction(ctx, messages, toolFunction{
		Name:        "analyze_note",
		Description: "Analyze a note to extract tags and tasks",
		Parameters:  analyzeNoteParams,
	})
	if err != nil {
		return nil, err
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(args, &result); err != nil {
		return nil, fmt.Errorf("%w: bad analyze_note arguments: %v", ErrMalformedResponse, err)
	}

	if len(result.Tags) > models.MaxNoteTags {
		result.Tags = result.Tags[:models.MaxNoteTags]
	}
	if result.Tags == nil {
		result.Tags = []string{}
	}
	for i := range result.Tasks {
		if !models.ValidPriority(result.Tasks[i].Priority) {
			result.Tasks[i].Priority = models.PriorityMedium
		}
	}

	return &result, nil
}

// AnalyzeBrain runs the cross-note analysis over the full note collection,
// concatenated into one prompt. The caller must guard against an empty
// collection.
func (c *Client) AnalyzeBrain(ctx context.Context, notes []*models.Note) (*models.BrainAnalysis, error) {
	var sb strings.Builder
	for i, note := range notes {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "Note %d: %s\nTags: %s", i+1, note.Content, strings.Join(note.Tags, ", "))
	}

	messages := []chatMessage{
		{
			Role: "system",
			Content: `You are an intelligent neural network that analyzes notes to find patterns, connections, and insights.
Your goal is to help users understand relationships between their ideas and provide actionable insights.
Analyze the notes and identify:
1. Key themes and patterns
2. Connections between different notes
3. Emerging ideas or trends
4. Actionable insights or recommendations

Use the analyze_brain function to return your analysis.`,
		},
		{
			Role:    "user",
			Content: fmt.Sprintf("Analyze these notes and find meaningful connections and insights:\n\n%s", sb.String()),
		},
	}

	args, err := c.callFunction(ctx, messages, toolFunction{
		Name:        "analyze_brain",
		Description: "Analyze notes to find connections and generate insights",
		Parameters:  analyzeBrainParams,
	})
	if err != nil {
		return nil, err
	}

	var analysis models.BrainAnalysis
	if err := json.Unmarshal(args, &analysis); err != nil {
		return nil, fmt.Errorf("%w: bad analyze_brain arguments: %v", ErrMalformedResponse, err)
	}

	return &analysis, nil
}

// callFunction sends a completion request that forces the gateway to
// respond through fn, and returns the raw function arguments.
func (c *Client) callFunction(ctx context.Context, messages []chatMessage, fn toolFunction) (json.RawMessage, error) {
	reqBody := chatRequest{
		Model:    c.model,
		Messages: messages,
		Tools:    []chatTool{{Type: "function", Function: fn}},
		ToolChoice: &toolChoice{
			Type:     "function",
			Function: toolChoiceFunction{Name: fn.Name},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", ErrTransport, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusPaymentRequired:
		return nil, ErrQuotaExceeded
	default:
		log.Printf("AI gateway error (status %d): %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("%w: status %d", ErrTransport, resp.StatusCode)
	}

	var apiResp chatResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if apiResp.Error != nil {
		return nil, fmt.Errorf("%w: %s - %s", ErrTransport, apiResp.Error.Type, apiResp.Error.Message)
	}

	if len(apiResp.Choices) == 0 || len(apiResp.Choices[0].Message.ToolCalls) == 0 {
		return nil, fmt.Errorf("%w: no tool call in response", ErrMalformedResponse)
	}

	arguments := apiResp.Choices[0].Message.ToolCalls[0].Function.Arguments
	if strings.TrimSpace(arguments) == "" {
		return nil, fmt.Errorf("%w: empty tool call arguments", ErrMalformedResponse)
	}

	return json.RawMessage(arguments), nil
}
