package game

import (
	"maps"
	"slices"
	"time"

	"github.com/Faltri/imposter-word-game/domain"
)

// Snapshot is the read model pushed to the device. It never carries the secret word or roles
// except on the current revealer's role screen and on the final resolution screen.
type Snapshot struct {
	ID         string             `json:"id"`
	Epoch      uint64             `json:"epoch"`
	Phase      domain.Phase       `json:"phase"`
	Players    []PlayerView       `json:"players"`
	Rules      domain.RoundConfig `json:"rules"`
	Generating bool               `json:"generating,omitempty"`
	Notice     string             `json:"notice,omitempty"`
	Round      *RoundView         `json:"round,omitempty"`
}

type PlayerView struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	IsAI  bool        `json:"isAI"`
	Score int         `json:"score"`
	Role  domain.Role `json:"role,omitempty"`
}

type RoundView struct {
	CategoryName     string          `json:"categoryName,omitempty"`
	RevealIndex      int             `json:"revealIndex"`
	ClueIndex        int             `json:"clueIndex"`
	CurrentRound     int             `json:"currentRound"`
	ClueRounds       int             `json:"clueRounds"`
	CurrentPlayerID  string          `json:"currentPlayerId,omitempty"`
	RerollAvailable  bool            `json:"rerollAvailable"`
	FairPlayDegraded bool            `json:"fairPlayDegraded,omitempty"`
	Reveal           *RevealView     `json:"reveal,omitempty"`
	Clues            []domain.Clue   `json:"clues"`
	SecondsLeft      int             `json:"secondsLeft,omitempty"`
	VotingOpen       bool            `json:"votingOpen"`
	VotesCast        int             `json:"votesCast"`
	Resolution       *ResolutionView `json:"resolution,omitempty"`
}

// RevealView is the role screen of the current revealer.
type RevealView struct {
	PlayerID     string      `json:"playerId"`
	Role         domain.Role `json:"role"`
	SecretWord   string      `json:"secretWord,omitempty"`
	CategoryName string      `json:"categoryName,omitempty"`
}

type ResolutionView struct {
	Mode        domain.ResolutionMode  `json:"mode"`
	Outcome     domain.Outcome         `json:"outcome,omitempty"`
	CaughtID    string                 `json:"caughtId,omitempty"`
	Words       []string               `json:"words,omitempty"`
	Tally       map[string]int         `json:"tally"`
	Guess       string                 `json:"guess,omitempty"`
	SecretWord  string                 `json:"secretWord,omitempty"`
	ImposterIDs []string               `json:"imposterIds,omitempty"`
	Votes       map[string]domain.Vote `json:"votes,omitempty"`
	ScoreDeltas map[string]int         `json:"scoreDeltas,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	final := s.phase == domain.PhaseResolution && s.outcome != domain.OutcomeNone

	snap := Snapshot{
		Epoch:      s.epoch,
		Phase:      s.phase,
		Players:    make([]PlayerView, 0, len(s.players)),
		Rules:      s.rules,
		Generating: s.generating,
		Notice:     s.notice,
	}
	if s.rules.CustomCategory != nil {
		c := *s.rules.CustomCategory
		c.Words = slices.Clone(c.Words)
		snap.Rules.CustomCategory = &c
	}
	snap.Rules.SelectedCategories = slices.Clone(s.rules.SelectedCategories)

	for _, p := range s.players {
		view := PlayerView{ID: p.ID, Name: p.Name, IsAI: p.IsAI, Score: p.Score}
		if final {
			view.Role = p.Role
		}
		snap.Players = append(snap.Players, view)
	}

	if s.config != nil {
		snap.Round = s.roundView(final)
	}
	return snap
}

func (s *Session) roundView(final bool) *RoundView {
	rv := &RoundView{
		RevealIndex:      s.revealIndex,
		ClueIndex:        s.clueIndex,
		CurrentRound:     s.currentRound,
		ClueRounds:       s.rules.ClueRounds,
		RerollAvailable:  s.revealIndex == 0 && !s.rerollUsed && (s.phase == domain.PhaseRevealTransition || s.phase == domain.PhaseReveal),
		FairPlayDegraded: !s.fairPlayOK,
		Clues:            slices.Clone(s.clues),
		VotingOpen:       s.votingOpen,
		VotesCast:        len(s.votes),
	}
	if rv.Clues == nil {
		rv.Clues = []domain.Clue{}
	}
	if !s.rules.HardMode || final {
		rv.CategoryName = s.config.CategoryName
	}

	switch s.phase {
	case domain.PhaseRevealTransition:
		rv.CurrentPlayerID = s.revealer().ID
	case domain.PhaseReveal:
		rv.CurrentPlayerID = s.revealer().ID
		rv.Reveal = s.revealView()
	case domain.PhaseClue:
		rv.CurrentPlayerID = s.clueGiver().ID
		if !s.clueDeadline.IsZero() {
			rv.SecondsLeft = max(0, int(s.clueDeadline.Sub(s.now()).Round(time.Second)/time.Second))
		}
	case domain.PhaseVoting:
		if s.votingOpen {
			rv.CurrentPlayerID = s.voter().ID
		}
	case domain.PhaseResolution:
		rv.Resolution = s.resolutionView(final)
		if !final {
			rv.CurrentPlayerID = s.caughtID
		}
	}
	return rv
}

func (s *Session) revealView() *RevealView {
	p := s.revealer()
	rv := &RevealView{PlayerID: p.ID, Role: p.Role, CategoryName: s.config.CategoryName}
	if p.Role == domain.RoleImposter {
		if s.rules.HardMode {
			rv.CategoryName = ""
		}
		return rv
	}
	rv.SecretWord = s.config.SecretWord
	return rv
}

func (s *Session) resolutionView(final bool) *ResolutionView {
	rv := &ResolutionView{
		Mode:     s.mode,
		Outcome:  s.outcome,
		CaughtID: s.caughtID,
		Tally:    maps.Clone(s.tally),
	}
	if s.mode == domain.ResolutionGuess {
		rv.Words = slices.Clone(s.config.Words)
	}
	if !final {
		return rv
	}
	rv.Guess = s.guess
	rv.SecretWord = s.config.SecretWord
	rv.ImposterIDs = slices.Clone(s.config.ImposterIDs)
	rv.Votes = maps.Clone(s.votes)
	rv.ScoreDeltas = maps.Clone(s.deltas)
	return rv
}
