package domain

type ActionKind string

const (
	ActionAddPlayer        ActionKind = "add_player"
	ActionRemovePlayer     ActionKind = "remove_player"
	ActionOpenRules        ActionKind = "open_rules"
	ActionBackToLobby      ActionKind = "back_to_lobby"
	ActionConfirmRules     ActionKind = "confirm_rules"
	ActionGenerateCategory ActionKind = "generate_category"
	ActionShowRole         ActionKind = "show_role"
	ActionNextReveal       ActionKind = "next_reveal"
	ActionReroll           ActionKind = "reroll"
	ActionSubmitClue       ActionKind = "submit_clue"
	ActionStartVoting      ActionKind = "start_voting"
	ActionCastVote         ActionKind = "cast_vote"
	ActionGuess            ActionKind = "guess"
	ActionPlayAgain        ActionKind = "play_again"
	ActionExit             ActionKind = "exit"
)

// TurnBound reports whether the action is performed by the player whose turn it is. Such
// actions must carry an epoch or the acting player id so a repeated submission can't land
// on the next player's turn.
func (k ActionKind) TurnBound() bool {
	switch k {
	case ActionShowRole, ActionNextReveal, ActionSubmitClue, ActionCastVote, ActionGuess:
		return true
	}
	return false
}

// Action is a command forwarded by the presentation layer. Fields are interpreted per Kind:
// Name/IsAI for add_player, PlayerID for remove_player and as the acting player elsewhere,
// Text for clues, guesses and AI category themes, TargetID/Doubled for votes.
//
// Epoch, when non-zero, must equal the epoch of the snapshot the action was issued from.
type Action struct {
	Kind     ActionKind   `json:"kind"`
	Epoch    uint64       `json:"epoch,omitempty"`
	PlayerID string       `json:"playerId,omitempty"`
	Name     string       `json:"name,omitempty"`
	IsAI     bool         `json:"isAI,omitempty"`
	Text     string       `json:"text,omitempty"`
	TargetID string       `json:"targetId,omitempty"`
	Doubled  bool         `json:"doubled,omitempty"`
	Rules    *RoundConfig `json:"rules,omitempty"`
}
