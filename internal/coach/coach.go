// Package coach writes an end-of-session debrief for the player from the
// session's score and action log, using a chat model.
package coach

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"kitchensim/internal/evaluation"
	"kitchensim/internal/models"
)

var (
	ErrNoModel       = errors.New("no debrief model configured")
	ErrEmptyResponse = errors.New("empty response from debrief model")
)

// Config selects an OpenAI-compatible chat endpoint
type Config struct {
	// Provider picks defaults for BaseURL, Model and the token variable.
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Token       string  `yaml:"token"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// Enabled reports whether enough is configured to build a model
func (c Config) Enabled() bool {
	return c.Token != ""
}

// NewModel creates the chat client for cfg
func NewModel(cfg Config) (llms.Model, error) {
	if !cfg.Enabled() {
		return nil, ErrNoModel
	}
	opts := []openai.Option{openai.WithToken(cfg.Token)}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create debrief client: %w", err)
	}
	return client, nil
}

// Mistake counts the incorrect log entries of one action type
type Mistake struct {
	ActionType models.ActionType `json:"action_type"`
	Count      int               `json:"count"`
	Example    string            `json:"example"`
}

// Summary is the model-free part of a debrief
type Summary struct {
	Level     models.GameLevel        `json:"level"`
	Score     evaluation.SessionScore `json:"score"`
	Mistakes  []Mistake               `json:"mistakes"`
	Burns     int                     `json:"burns"`
	Cancelled int                     `json:"cancelled"`
}

// Summarize groups the incorrect entries of a log, most frequent first
func Summarize(level models.GameLevel, score evaluation.SessionScore, actions []models.ActionLogEntry) Summary {
	byType := map[models.ActionType]*Mistake{}
	sum := Summary{Level: level, Score: score}
	for _, a := range actions {
		switch a.ActionType {
		case models.ActionBurned:
			sum.Burns++
		case models.ActionOrderCancelled:
			sum.Cancelled++
		}
		if a.IsCorrect {
			continue
		}
		m, ok := byType[a.ActionType]
		if !ok {
			m = &Mistake{ActionType: a.ActionType, Example: a.Message}
			byType[a.ActionType] = m
		}
		m.Count++
	}
	for _, m := range byType {
		sum.Mistakes = append(sum.Mistakes, *m)
	}
	sort.Slice(sum.Mistakes, func(i, j int) bool {
		if sum.Mistakes[i].Count == sum.Mistakes[j].Count {
			return sum.Mistakes[i].ActionType < sum.Mistakes[j].ActionType
		}
		return sum.Mistakes[i].Count > sum.Mistakes[j].Count
	})
	return sum
}

// Coach turns summaries into written feedback
type Coach struct {
	model       llms.Model
	temperature float64
	maxTokens   int
	modelName   string
}

// New creates a coach. A nil model makes Debrief return ErrNoModel.
func New(model llms.Model, cfg Config) *Coach {
	c := &Coach{model: model, temperature: cfg.Temperature, maxTokens: cfg.MaxTokens, modelName: cfg.Model}
	if c.temperature == 0 {
		c.temperature = 0.4
	}
	if c.maxTokens == 0 {
		c.maxTokens = 400
	}
	return c
}

// Debrief asks the model for short coaching feedback on a summary
func (c *Coach) Debrief(ctx context.Context, sum Summary) (string, error) {
	if c == nil || c.model == nil {
		return "", ErrNoModel
	}

	opts := []llms.CallOption{
		llms.WithTemperature(c.temperature),
		llms.WithMaxTokens(c.maxTokens),
	}
	if c.modelName != "" {
		opts = append(opts, llms.WithModel(c.modelName))
	}

	resp, err := c.model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, systemPrompt),
		llms.TextParts(schema.ChatMessageTypeHuman, Prompt(sum)),
	}, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate debrief: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return "", ErrEmptyResponse
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

const systemPrompt = "You are a head chef coaching a trainee on the wok station. " +
	"Be direct and specific. Give at most three concrete tips."

// Prompt renders a summary as the user message of a debrief request
func Prompt(sum Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Level: %s\n", sum.Level)
	fmt.Fprintf(&b, "Total score: %d (accuracy %d, speed %d, burner usage %d)\n",
		sum.Score.TotalScore, sum.Score.RecipeAccuracyScore, sum.Score.SpeedScore, sum.Score.BurnerUsageScore)
	fmt.Fprintf(&b, "Orders served: %d, cancelled: %d, woks burned: %d\n",
		sum.Score.CompletedOrders, sum.Cancelled, sum.Burns)
	if len(sum.Mistakes) == 0 {
		b.WriteString("No mistakes were logged.\n")
	} else {
		b.WriteString("Mistakes:\n")
		for _, m := range sum.Mistakes {
			fmt.Fprintf(&b, "- %s x%d (e.g. %q)\n", m.ActionType, m.Count, m.Example)
		}
	}
	b.WriteString("Write the debrief.")
	return b.String()
}
