package domain

// ClueRequest is what an AI clue-giver knows when it is asked for a clue. SecretWord is empty
// for imposters, and CategoryName is empty for imposters in hard mode.
type ClueRequest struct {
	PlayerName   string     `json:"playerName"`
	Role         Role       `json:"role"`
	SecretWord   string     `json:"secretWord,omitempty"`
	CategoryName string     `json:"categoryName,omitempty"`
	Words        []string   `json:"words"`
	Clues        []Clue     `json:"clues"`
	Language     Language   `json:"language"`
	Difficulty   Difficulty `json:"difficulty"`
}

// GuessRequest is what a caught AI imposter knows when it has to name the secret word.
type GuessRequest struct {
	CategoryName string     `json:"categoryName,omitempty"`
	Words        []string   `json:"words"`
	Clues        []Clue     `json:"clues"`
	Language     Language   `json:"language"`
	Difficulty   Difficulty `json:"difficulty"`
}
