package domain

// Phase is the screen the session is currently on.
type Phase string

const (
	PhaseLobby            Phase = "lobby"
	PhaseRules            Phase = "rules"
	PhaseRevealTransition Phase = "reveal_transition"
	PhaseReveal           Phase = "reveal"
	PhaseClue             Phase = "clue"
	PhaseVoting           Phase = "voting"
	PhaseResolution       Phase = "resolution"
)

// InRound reports whether the phase belongs to a running round.
func (p Phase) InRound() bool {
	switch p {
	case PhaseRevealTransition, PhaseReveal, PhaseClue, PhaseVoting, PhaseResolution:
		return true
	}
	return false
}

type Role string

const (
	RoleUnassigned Role = "unassigned"
	RoleCivilian   Role = "civilian"
	RoleImposter   Role = "imposter"
)

// Player is a participant of the session. Score survives rounds.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	IsAI  bool   `json:"isAI"`
	Role  Role   `json:"role"`
	Score int    `json:"score"`
}

type Outcome string

const (
	OutcomeNone        Outcome = ""
	OutcomeImposterWin Outcome = "imposter_win"
	OutcomeCivilianWin Outcome = "civilian_win"
)

type ResolutionMode string

const (
	ResolutionNone   ResolutionMode = ""
	ResolutionGuess  ResolutionMode = "guess"
	ResolutionReveal ResolutionMode = "reveal"
)

// Category is a named word pool. Words are unique and there are at least MinCategoryWords.
type Category struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Language Language `json:"language,omitempty"`
	Words    []string `json:"words"`
}

// MinCategoryWords is the smallest word pool a category may have.
const MinCategoryWords = 5

// GameConfig is derived once per round from the rules and the chosen category.
type GameConfig struct {
	CategoryID   string     `json:"categoryId"`
	CategoryName string     `json:"categoryName"`
	Words        []string   `json:"words"`
	SecretWord   string     `json:"secretWord"`
	ImposterIDs  []string   `json:"imposterIds"`
	Language     Language   `json:"language"`
	AIDifficulty Difficulty `json:"aiDifficulty"`
}

// IsImposter reports whether id is one of the round's imposters.
func (gc *GameConfig) IsImposter(id string) bool {
	for _, imp := range gc.ImposterIDs {
		if imp == id {
			return true
		}
	}
	return false
}

type Clue struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Text       string `json:"text"`
}

// Vote is the normalized ballot of one voter.
type Vote struct {
	TargetID string `json:"targetId"`
	Doubled  bool   `json:"doubled"`
}
