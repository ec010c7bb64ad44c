package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aprameyak/philly/internal/config"
	"github.com/aprameyak/philly/internal/domain"
	"github.com/aprameyak/philly/pkg/e"
)

// Client talks to an OpenAI-compatible chat-completions endpoint. Its output
// is untrusted: every reply is parsed and range-checked before use, and
// callers are expected to survive any error it returns.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	http        *http.Client
	logger      *slog.Logger
}

func NewClient(cfg config.LLMConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		http:        &http.Client{Timeout: cfg.Timeout},
		logger:      logger,
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const summarizePrompt = `You are a safety analyst.

Task:
- Evaluate the safety of the location at latitude %g and longitude %g at %s.
- Provide a **danger score** from 1 (very safe) to 5 (very dangerous).
- List **key reasons** for this score based on nearby events.
- Consider the **recency** of the crimes committed in the past

Nearby Events:
%s

Output Format (JSON):
{
    "danger_score": <integer 1-5>,
    "reasons": [
        "<reason 1>",
        "<reason 2>",
        "..."
    ]
}
Respond ONLY in this JSON format. Do not include explanations outside the JSON.`

// Summarize asks the model to rate a location given nearby incident
// evidence. A single call, no retries; retry policy lives in the caller.
func (c *Client) Summarize(ctx context.Context, evidence []domain.IncidentEvidence, lat, lng float64, at time.Time) (domain.Summary, error) {
	const op = "llm.Client.Summarize"

	events, err := json.Marshal(evidence)
	if err != nil {
		return domain.Summary{}, e.Wrap(op, err)
	}

	prompt := fmt.Sprintf(summarizePrompt, lat, lng, at.Format(time.RFC3339), events)

	content, err := c.complete(ctx, prompt)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("%s: %w", op, err)
	}

	var summary domain.Summary
	if err := json.Unmarshal([]byte(stripFences(content)), &summary); err != nil {
		c.logger.Warn("malformed summary from model", slog.String("content", content))
		return domain.Summary{}, fmt.Errorf("%s: parse: %w", op, e.ErrExternalService)
	}
	if summary.DangerScore < 1 || summary.DangerScore > 5 || summary.Reasons == nil {
		return domain.Summary{}, fmt.Errorf("%s: out of range: %w", op, e.ErrExternalService)
	}
	return summary, nil
}

const scoreSinglePrompt = `You are a safety analyst.

Task:
- Evaluate the severity of the event "%s" given "%s"
- Classify on a 1 (low) to 5 (high) scale.

Output Format (JSON):
{
    "danger_score": <integer 1-5>
}
Respond ONLY in this JSON format. Do not include explanations outside the JSON.`

// ScoreSingle infers a severity for one ingested incident with no override.
func (c *Client) ScoreSingle(ctx context.Context, category, description string) (int, error) {
	const op = "llm.Client.ScoreSingle"

	content, err := c.complete(ctx, fmt.Sprintf(scoreSinglePrompt, category, description))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var out struct {
		DangerScore int `json:"danger_score"`
	}
	if err := json.Unmarshal([]byte(stripFences(content)), &out); err != nil {
		return 0, fmt.Errorf("%s: parse: %w", op, e.ErrExternalService)
	}
	if out.DangerScore < 1 || out.DangerScore > 5 {
		return 0, fmt.Errorf("%s: out of range: %w", op, e.ErrExternalService)
	}
	return out.DangerScore, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", err
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("request: %w: %w", e.ErrExternalService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("model endpoint returned non-200", slog.Int("status", resp.StatusCode))
		return "", fmt.Errorf("status %d: %w", resp.StatusCode, e.ErrExternalService)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode: %w", e.ErrExternalService)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("empty choices: %w", e.ErrExternalService)
	}
	return out.Choices[0].Message.Content, nil
}

// stripFences drops markdown code fences some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.Trim(s, "`")
		s = strings.TrimPrefix(strings.TrimSpace(s), "json")
	}
	return strings.TrimSpace(s)
}
