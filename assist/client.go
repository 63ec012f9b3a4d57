// Package assist talks to the Gemini generateContent REST API to produce AI categories,
// clues and guesses. Every failure is returned as one of the domain.ErrAssist* errors so
// callers can fall back locally.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Faltri/imposter-word-game/domain"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.0-flash"

	maxResponseBytes = 1 << 20
)

type Config struct {
	APIKey        string
	Model         string
	BaseURL       string
	RatePerSecond float64
	Burst         int
}

type Client struct {
	httpClient  *http.Client
	endpoint    string
	apiKey      string
	rateLimiter *rate.Limiter
}

func New(cfg Config, httpClient *http.Client) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		httpClient:  httpClient,
		endpoint:    fmt.Sprintf("%s/v1beta/models/%s:generateContent", strings.TrimRight(cfg.BaseURL, "/"), cfg.Model),
		apiKey:      cfg.APIKey,
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
	}
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// generate sends one prompt and returns the text of the first candidate.
func (c *Client) generate(ctx context.Context, task, prompt string) (string, error) {
	if !c.rateLimiter.Allow() {
		return "", domain.ErrAssistRateLimited
	}

	body, err := json.Marshal(generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrAssistMalformed, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling assistant: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("reading assistant response: %w", err)
	}
	log.Debug().Str("task", task).Int("status", resp.StatusCode).Dur("latency", time.Since(start)).Msg("assistant call")

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %d", domain.ErrAssistStatus, resp.StatusCode)
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrAssistMalformed, err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: no candidates", domain.ErrAssistMalformed)
	}
	text := decoded.Candidates[0].Content.Parts[0].Text
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty text", domain.ErrAssistMalformed)
	}
	return text, nil
}

func (c *Client) GenerateCategory(ctx context.Context, theme string, lang domain.Language) (domain.Category, error) {
	text, err := c.generate(ctx, "category", categoryPrompt(theme, lang))
	if err != nil {
		return domain.Category{}, err
	}
	return parseCategory(text, lang)
}

func (c *Client) GenerateClue(ctx context.Context, req domain.ClueRequest) (string, error) {
	text, err := c.generate(ctx, "clue", cluePrompt(req))
	if err != nil {
		return "", err
	}
	return parseField(text, "clue")
}

func (c *Client) GenerateGuess(ctx context.Context, req domain.GuessRequest) (string, error) {
	text, err := c.generate(ctx, "guess", guessPrompt(req))
	if err != nil {
		return "", err
	}
	return parseField(text, "guess")
}

// Disabled is used when no API key is configured. Every call fails with
// domain.ErrAssistDisabled.
type Disabled struct{}

func (Disabled) GenerateCategory(context.Context, string, domain.Language) (domain.Category, error) {
	return domain.Category{}, domain.ErrAssistDisabled
}

func (Disabled) GenerateClue(context.Context, domain.ClueRequest) (string, error) {
	return "", domain.ErrAssistDisabled
}

func (Disabled) GenerateGuess(context.Context, domain.GuessRequest) (string, error) {
	return "", domain.ErrAssistDisabled
}
