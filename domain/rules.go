package domain

import (
	"fmt"
	"strings"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type Language string

const (
	LanguageEnglish  Language = "en"
	LanguageJapanese Language = "jp"
)

type Theme string

const (
	ThemeClassic Theme = "classic"
	ThemeNeon    Theme = "neon"
	ThemeMinimal Theme = "minimal"
)

// Rule bounds.
const (
	MinClueRounds    = 1
	MaxClueRounds    = 5
	MinTimerDuration = 30
	MaxTimerDuration = 300
	// DoubleAgentMinPlayers is the player count from which two imposters are dealt.
	DoubleAgentMinPlayers = 6
)

// RoundConfig is the rule set authored on the rules screen. It is frozen when a round starts.
type RoundConfig struct {
	ClueRounds          int        `json:"clueRounds"`
	TimerEnabled        bool       `json:"timerEnabled"`
	TimerDuration       int        `json:"timerDuration"`
	FairPlayEnabled     bool       `json:"fairPlayEnabled"`
	SelectedCategories  []string   `json:"selectedCategories"`
	CustomCategory      *Category  `json:"customCategory,omitempty"`
	PrivacyMasking      bool       `json:"privacyMasking"`
	HardMode            bool       `json:"hardMode"`
	AIDifficulty        Difficulty `json:"aiDifficulty"`
	DoubleAgent         bool       `json:"doubleAgent"`
	Theme               Theme      `json:"theme"`
	Language            Language   `json:"language"`
	PointMultiplier     bool       `json:"pointMultiplier"`
	LocalizedCategories bool       `json:"localizedCategories"`
}

// DefaultRules mirrors the rules screen's initial values. An empty selection means every
// category in the store.
func DefaultRules() RoundConfig {
	return RoundConfig{
		ClueRounds:      1,
		TimerEnabled:    true,
		TimerDuration:   60,
		FairPlayEnabled: true,
		AIDifficulty:    DifficultyMedium,
		Theme:           ThemeClassic,
		Language:        LanguageEnglish,
	}
}

// Validate checks every bounded option. Zero values for the enums are accepted and filled in
// by WithDefaults.
func (rc RoundConfig) Validate() error {
	if rc.ClueRounds < MinClueRounds || rc.ClueRounds > MaxClueRounds {
		return fmt.Errorf("%w: clueRounds must be between %d and %d", ErrInvalidRules, MinClueRounds, MaxClueRounds)
	}
	if rc.TimerEnabled && (rc.TimerDuration < MinTimerDuration || rc.TimerDuration > MaxTimerDuration) {
		return fmt.Errorf("%w: timerDuration must be between %d and %d seconds", ErrInvalidRules, MinTimerDuration, MaxTimerDuration)
	}
	switch rc.AIDifficulty {
	case "", DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return fmt.Errorf("%w: unknown aiDifficulty %q", ErrInvalidRules, rc.AIDifficulty)
	}
	switch rc.Language {
	case "", LanguageEnglish, LanguageJapanese:
	default:
		return fmt.Errorf("%w: unknown language %q", ErrInvalidRules, rc.Language)
	}
	switch rc.Theme {
	case "", ThemeClassic, ThemeNeon, ThemeMinimal:
	default:
		return fmt.Errorf("%w: unknown theme %q", ErrInvalidRules, rc.Theme)
	}
	if rc.CustomCategory != nil {
		if _, err := NormalizeCategory(*rc.CustomCategory); err != nil {
			return err
		}
	}
	return nil
}

// WithDefaults fills empty enum fields.
func (rc RoundConfig) WithDefaults() RoundConfig {
	if rc.AIDifficulty == "" {
		rc.AIDifficulty = DifficultyMedium
	}
	if rc.Language == "" {
		rc.Language = LanguageEnglish
	}
	if rc.Theme == "" {
		rc.Theme = ThemeClassic
	}
	return rc
}

// NormalizeCategory trims the name and words, drops blanks and duplicates, and checks the
// shape contract shared by the static store and AI-generated categories.
func NormalizeCategory(c Category) (Category, error) {
	out := Category{
		ID:       strings.TrimSpace(c.ID),
		Name:     strings.TrimSpace(c.Name),
		Language: c.Language,
		Words:    make([]string, 0, len(c.Words)),
	}
	if out.Name == "" {
		return Category{}, fmt.Errorf("%w: missing name", ErrInvalidCategory)
	}
	seen := make(map[string]struct{}, len(c.Words))
	for _, w := range c.Words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		key := strings.ToLower(w)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.Words = append(out.Words, w)
	}
	if len(out.Words) < MinCategoryWords {
		return Category{}, fmt.Errorf("%w: %q has %d unique words, need %d", ErrInvalidCategory, out.Name, len(out.Words), MinCategoryWords)
	}
	return out, nil
}
