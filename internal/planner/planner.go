// Package planner turns natural-language queries into executable plans
// and collected data back into natural-language answers, using the
// OpenAI chat completions API.
package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"octoscout/internal/agent"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "o3-mini"

// Status reports whether the OpenAI API is reachable with the configured key.
type Status struct {
	State   string   `json:"status"`
	Models  []string `json:"available_models,omitempty"`
	Message string   `json:"message,omitempty"`
}

// Service is an agent.Planner backed by the OpenAI chat completions API.
type Service struct {
	client openai.Client
	model  string
}

// New returns a Service using the given API key. An empty model selects
// DefaultModel.
func New(apiKey, model string) (*Service, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("planner: missing OpenAI API key")
	}
	if model == "" {
		model = DefaultModel
	}
	return &Service{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}, nil
}

// CreatePlan asks the model for a JSON action plan for the query.
// queryContext carries hints such as the authenticated GitHub username.
func (s *Service) CreatePlan(ctx context.Context, query string, queryContext map[string]any) (*agent.Plan, error) {
	user := "Query: " + query
	if len(queryContext) > 0 {
		b, err := json.Marshal(queryContext)
		if err == nil {
			user += "\nContext: " + string(b)
		}
	}

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(planSystemPrompt),
			openai.UserMessage(user),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating plan: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("creating plan: empty completion")
	}
	return parsePlan(resp.Choices[0].Message.Content), nil
}

// parsePlan decodes the model output tolerantly. Output that is not a
// valid plan yields an empty plan rather than an error, so a run still
// produces a (data-free) response.
func parsePlan(content string) *agent.Plan {
	content = strings.TrimSpace(content)
	if i := strings.Index(content, "{"); i > 0 {
		content = content[i:]
	}
	var plan agent.Plan
	if err := json.Unmarshal([]byte(content), &plan); err != nil {
		return &agent.Plan{}
	}
	return &plan
}

// GenerateResponse asks the model to narrate the collected data as an
// answer to the original query.
func (s *Service) GenerateResponse(ctx context.Context, query string, data *agent.Aggregate) (string, error) {
	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding collected data: %w", err)
	}

	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(narrateSystemPrompt),
			openai.UserMessage(fmt.Sprintf("Query: %s\n\nCollected data:\n%s", query, payload)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("generating response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("generating response: empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

// CheckStatus verifies API connectivity by listing available models.
func (s *Service) CheckStatus(ctx context.Context) Status {
	page, err := s.client.Models.List(ctx)
	if err != nil {
		return Status{State: "error", Message: err.Error()}
	}
	var names []string
	for _, m := range page.Data {
		names = append(names, m.ID)
		if len(names) == 5 {
			break
		}
	}
	return Status{State: "connected", Models: names}
}
