package game

import (
	"math/rand"
	"strings"

	"github.com/Faltri/imposter-word-game/domain"
	"github.com/agnivade/levenshtein"
)

// MaxClueTokens is the longest clue a human may submit, in whitespace separated tokens.
const MaxClueTokens = 3

var fillerPhrases = []string{"Like", "Maybe", "Related to", "Sort of", ""}

// ValidateClue trims a human clue and enforces the token limit.
func ValidateClue(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", domain.ErrEmptyClue
	}
	if len(strings.Fields(text)) > MaxClueTokens {
		return "", domain.ErrClueTooLong
	}
	return text, nil
}

// FallbackClue builds a clue without the AI service. Civilians never name the secret word;
// imposters draw from the whole list since they don't know it.
func FallbackClue(role domain.Role, words []string, secret string, rng *rand.Rand) string {
	pool := words
	if role == domain.RoleCivilian {
		pool = make([]string, 0, len(words))
		for _, w := range words {
			if w != secret {
				pool = append(pool, w)
			}
		}
		if len(pool) == 0 {
			pool = words
		}
	}
	if len(pool) == 0 {
		return fillerPhrases[0]
	}

	clue := pool[rng.Intn(len(pool))]
	if prefix := fillerPhrases[rng.Intn(len(fillerPhrases))]; prefix != "" {
		return prefix + " " + clue
	}
	return clue
}

// usableAIClue rejects AI output that is not a short single line, or that gives a civilian's
// secret word away.
func usableAIClue(clue string, role domain.Role, secret string) (string, bool) {
	clue = strings.TrimSpace(clue)
	if clue == "" || strings.ContainsAny(clue, "\r\n") || len(strings.Fields(clue)) > MaxClueTokens {
		return "", false
	}
	if role == domain.RoleCivilian && leaksSecret(clue, secret) {
		return "", false
	}
	return clue, true
}

func leaksSecret(clue, secret string) bool {
	c := strings.ToLower(clue)
	s := strings.ToLower(strings.TrimSpace(secret))
	if s == "" {
		return false
	}
	if strings.Contains(c, s) || levenshtein.ComputeDistance(c, s) <= 1 {
		return true
	}
	stem := ""
	if r := []rune(s); len(r) >= 4 {
		stem = string(r[:len(r)-1])
	}
	for _, token := range strings.Fields(c) {
		if levenshtein.ComputeDistance(token, s) <= 1 {
			return true
		}
		// wolf -> wolves, knife -> knives
		if stem != "" && strings.HasPrefix(token, stem) {
			return true
		}
	}
	return false
}

// canonicalWord maps a guess onto the category list ignoring case and surrounding space.
func canonicalWord(guess string, words []string) (string, bool) {
	guess = strings.TrimSpace(guess)
	for _, w := range words {
		if strings.EqualFold(w, guess) {
			return w, true
		}
	}
	return "", false
}

// snapGuess maps a free-form AI guess to the closest listed word, within edit distance 2.
func snapGuess(guess string, words []string) (string, bool) {
	if w, ok := canonicalWord(guess, words); ok {
		return w, true
	}
	g := strings.ToLower(strings.TrimSpace(guess))
	if g == "" {
		return "", false
	}
	best, bestDist := "", 3
	for _, w := range words {
		if d := levenshtein.ComputeDistance(g, strings.ToLower(w)); d < bestDist {
			best, bestDist = w, d
		}
	}
	return best, best != ""
}
