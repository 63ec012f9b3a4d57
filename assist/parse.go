package assist

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Faltri/imposter-word-game/domain"
)

// stripFences removes markdown code fences the model sometimes wraps JSON in.
func stripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

type categoryPayload struct {
	CategoryName string   `json:"categoryName"`
	Name         string   `json:"name"`
	Words        []string `json:"words"`
}

func parseCategory(text string, lang domain.Language) (domain.Category, error) {
	var p categoryPayload
	if err := json.Unmarshal([]byte(stripFences(text)), &p); err != nil {
		return domain.Category{}, fmt.Errorf("%w: %w", domain.ErrAssistMalformed, err)
	}
	name := p.CategoryName
	if name == "" {
		name = p.Name
	}
	c, err := domain.NormalizeCategory(domain.Category{Name: name, Language: lang, Words: p.Words})
	if err != nil {
		return domain.Category{}, fmt.Errorf("%w: %w", domain.ErrAssistSchema, err)
	}
	return c, nil
}

// parseField reads {"<key>": "..."} and requires a single line of plain text.
func parseField(text, key string) (string, error) {
	var p map[string]any
	if err := json.Unmarshal([]byte(stripFences(text)), &p); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrAssistMalformed, err)
	}
	v, ok := p[key].(string)
	if !ok {
		return "", fmt.Errorf("%w: missing %q", domain.ErrAssistSchema, key)
	}
	v = strings.TrimSpace(v)
	if v == "" || strings.ContainsAny(v, "\r\n") {
		return "", fmt.Errorf("%w: %q is not a single line", domain.ErrAssistSchema, key)
	}
	return v, nil
}
