package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/studynote/studynote/internal/quiz"
)

// Client wraps an OpenAI-compatible API for quiz generation.
type Client struct {
	api   *openai.Client
	model string
}

// New creates a generation client. baseURL may point at any
// OpenAI-compatible endpoint; empty means the default API.
func New(baseURL, apiKey, modelName string) *Client {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}
}

// generated mirrors the JSON shape the model is instructed to produce.
type generated struct {
	Questions []struct {
		Prompt        string   `json:"prompt"`
		Choices       []string `json:"choices,omitempty"`
		CorrectChoice int      `json:"correct_choice,omitempty"`
		Options       []string `json:"options,omitempty"`
		CorrectOption string   `json:"correct_option,omitempty"`
		ModelAnswer   string   `json:"model_answer,omitempty"`
		Explanation   string   `json:"explanation"`
		Tags          []string `json:"tags,omitempty"`
	} `json:"questions"`
}

// Generate turns note content into quiz questions per the settings.
// Questions failing the per-type invariants are dropped; at least one valid
// question is required.
func (c *Client) Generate(ctx context.Context, noteContent string, st quiz.Settings) ([]quiz.Question, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(st)},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(noteContent)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.4,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("LLM returned no choices")
	}
	raw := resp.Choices[0].Message.Content

	var out generated
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("parse LLM response: %w (raw: %s)", err, raw)
	}

	questions := make([]quiz.Question, 0, len(out.Questions))
	for _, g := range out.Questions {
		q := quiz.Question{
			ID:            uuid.NewString(),
			Type:          st.QuestionType,
			Prompt:        g.Prompt,
			Choices:       g.Choices,
			CorrectChoice: g.CorrectChoice,
			Options:       g.Options,
			CorrectOption: g.CorrectOption,
			ModelAnswer:   g.ModelAnswer,
			Explanation:   g.Explanation,
			Tags:          g.Tags,
			Difficulty:    st.Difficulty,
		}
		if err := q.Validate(); err != nil {
			log.Printf("dropping generated question: %v", err)
			continue
		}
		questions = append(questions, q)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("no valid questions generated")
	}
	return questions, nil
}
