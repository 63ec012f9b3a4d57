package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundConfigValidate(t *testing.T) {
	t.Parallel()

	valid := DefaultRules()

	tests := []struct {
		name    string
		mutate  func(rc *RoundConfig)
		wantErr error
	}{
		{name: "defaults", mutate: func(rc *RoundConfig) {}},
		{name: "zero clue rounds", mutate: func(rc *RoundConfig) { rc.ClueRounds = 0 }, wantErr: ErrInvalidRules},
		{name: "six clue rounds", mutate: func(rc *RoundConfig) { rc.ClueRounds = 6 }, wantErr: ErrInvalidRules},
		{name: "five clue rounds", mutate: func(rc *RoundConfig) { rc.ClueRounds = 5 }},
		{name: "timer too short", mutate: func(rc *RoundConfig) { rc.TimerDuration = 29 }, wantErr: ErrInvalidRules},
		{name: "timer too long", mutate: func(rc *RoundConfig) { rc.TimerDuration = 301 }, wantErr: ErrInvalidRules},
		{name: "disabled timer ignores duration", mutate: func(rc *RoundConfig) { rc.TimerEnabled = false; rc.TimerDuration = 0 }},
		{name: "unknown difficulty", mutate: func(rc *RoundConfig) { rc.AIDifficulty = "insane" }, wantErr: ErrInvalidRules},
		{name: "unknown language", mutate: func(rc *RoundConfig) { rc.Language = "fr" }, wantErr: ErrInvalidRules},
		{name: "unknown theme", mutate: func(rc *RoundConfig) { rc.Theme = "retro" }, wantErr: ErrInvalidRules},
		{name: "empty enums are accepted", mutate: func(rc *RoundConfig) { rc.AIDifficulty, rc.Language, rc.Theme = "", "", "" }},
		{
			name: "custom category with too few words",
			mutate: func(rc *RoundConfig) {
				rc.CustomCategory = &Category{Name: "Tiny", Words: []string{"a", "b", "c", "a", " "}}
			},
			wantErr: ErrInvalidCategory,
		},
		{
			name: "custom category",
			mutate: func(rc *RoundConfig) {
				rc.CustomCategory = &Category{Name: "Space", Words: []string{"Moon", "Mars", "Comet", "Nebula", "Rocket"}}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rc := valid
			tc.mutate(&rc)
			err := rc.Validate()
			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestRoundConfigWithDefaults(t *testing.T) {
	t.Parallel()
	rc := RoundConfig{ClueRounds: 2, Language: LanguageJapanese}.WithDefaults()

	assert.Equal(t, DifficultyMedium, rc.AIDifficulty)
	assert.Equal(t, ThemeClassic, rc.Theme)
	assert.Equal(t, LanguageJapanese, rc.Language)
	assert.Equal(t, 2, rc.ClueRounds)
}

func TestRoundConfigJSONRoundTrip(t *testing.T) {
	t.Parallel()
	rc := RoundConfig{
		ClueRounds:          3,
		TimerEnabled:        true,
		TimerDuration:       90,
		FairPlayEnabled:     true,
		SelectedCategories:  []string{"animals", "food"},
		CustomCategory:      &Category{ID: "custom", Name: "Space", Language: LanguageEnglish, Words: []string{"Moon", "Mars", "Comet", "Nebula", "Rocket"}},
		PrivacyMasking:      true,
		HardMode:            true,
		AIDifficulty:        DifficultyHard,
		DoubleAgent:         true,
		Theme:               ThemeNeon,
		Language:            LanguageJapanese,
		PointMultiplier:     true,
		LocalizedCategories: true,
	}

	data, err := json.Marshal(rc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"clueRounds":3`)
	assert.Contains(t, string(data), `"localizedCategories":true`)

	var decoded RoundConfig
	require.NoError(t, json.Unmarshal(data, &decoded))
	if diff := cmp.Diff(rc, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeCategory(t *testing.T) {
	t.Parallel()

	t.Run("trims and deduplicates", func(t *testing.T) {
		t.Parallel()
		c, err := NormalizeCategory(Category{
			ID:    " x ",
			Name:  "  Fruit ",
			Words: []string{"Apple", " apple", "Pear", "", "Plum", "Fig", "  ", "Kiwi", "PEAR"},
		})
		require.NoError(t, err)
		assert.Equal(t, "x", c.ID)
		assert.Equal(t, "Fruit", c.Name)
		assert.Equal(t, []string{"Apple", "Pear", "Plum", "Fig", "Kiwi"}, c.Words)
	})

	t.Run("missing name", func(t *testing.T) {
		t.Parallel()
		_, err := NormalizeCategory(Category{Words: []string{"a", "b", "c", "d", "e"}})
		assert.ErrorIs(t, err, ErrInvalidCategory)
	})

	t.Run("four unique words", func(t *testing.T) {
		t.Parallel()
		_, err := NormalizeCategory(Category{Name: "n", Words: []string{"a", "b", "c", "d", "D"}})
		assert.ErrorIs(t, err, ErrInvalidCategory)
	})
}

func TestGameConfigIsImposter(t *testing.T) {
	t.Parallel()
	gc := &GameConfig{ImposterIDs: []string{"p2", "p5"}}

	assert.True(t, gc.IsImposter("p2"))
	assert.True(t, gc.IsImposter("p5"))
	assert.False(t, gc.IsImposter("p1"))
	assert.False(t, gc.IsImposter(""))
}

func TestPhaseInRound(t *testing.T) {
	t.Parallel()
	assert.False(t, PhaseLobby.InRound())
	assert.False(t, PhaseRules.InRound())
	for _, p := range []Phase{PhaseRevealTransition, PhaseReveal, PhaseClue, PhaseVoting, PhaseResolution} {
		assert.True(t, p.InRound(), p)
	}
}
