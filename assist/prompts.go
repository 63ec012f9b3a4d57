package assist

import (
	"fmt"
	"strings"

	"github.com/Faltri/imposter-word-game/domain"
)

func categoryPrompt(theme string, lang domain.Language) string {
	words := "in English"
	if lang == domain.LanguageJapanese {
		words = "in Japanese (Katakana or Kanji as appropriate)"
	}
	return fmt.Sprintf("Generate a JSON object with two keys: 'categoryName' (a cleaned version of the user input) "+
		"and 'words' (an array of exactly 16 unique, distinct, and universally recognizable nouns related to the theme). "+
		"Ensure words vary in difficulty. Words must be %s. Output valid JSON only, no markdown code blocks. Theme: %s",
		words, theme)
}

func languageInstruction(lang domain.Language) string {
	if lang == domain.LanguageJapanese {
		return "Respond in Japanese."
	}
	return "Respond in English."
}

func difficultyInstruction(d domain.Difficulty) string {
	switch d {
	case domain.DifficultyEasy:
		return "Give a simple, often too-obvious clue."
	case domain.DifficultyHard:
		return "Give a highly strategic, subtle clue that mimics the semantic style of human players."
	}
	return "Give a balanced clue."
}

func clueHistory(clues []domain.Clue) string {
	texts := make([]string, 0, len(clues))
	for _, c := range clues {
		texts = append(texts, c.Text)
	}
	return strings.Join(texts, ", ")
}

func cluePrompt(req domain.ClueRequest) string {
	category := req.CategoryName
	if category == "" {
		category = "unknown"
	}
	tail := fmt.Sprintf("%s %s\nOutput JSON only: { \"clue\": \"...\" }",
		difficultyInstruction(req.Difficulty), languageInstruction(req.Language))

	if req.Role == domain.RoleImposter {
		return fmt.Sprintf("Game: Word Imposter. Category: %q. You are the Imposter (you don't know the word). Previous Clues: [%s].\n"+
			"Task: Analyze clues to guess context. Give a safe, vague 1-word clue that blends in. "+
			"If no clues, give a generic word for the category. %s",
			category, clueHistory(req.Clues), tail)
	}
	return fmt.Sprintf("Game: Word Imposter. Category: %q. Secret Word: %q. Previous Clues: [%s].\n"+
		"Task: precise 1-word clue for %q that is NOT the word itself and is distinct from history. %s",
		category, req.SecretWord, clueHistory(req.Clues), req.SecretWord, tail)
}

func guessPrompt(req domain.GuessRequest) string {
	category := req.CategoryName
	if category == "" {
		category = "unknown"
	}
	return fmt.Sprintf("Game: Word Imposter. Category: %q. List: [%s]. Clues: [%s].\n"+
		"Task: Identify the secret word from the List based on clues. %s\n"+
		"Output JSON only: { \"guess\": \"WORD_FROM_LIST\" }",
		category, strings.Join(req.Words, ", "), clueHistory(req.Clues), languageInstruction(req.Language))
}
