package game

import (
	"slices"
	"time"

	"github.com/Faltri/imposter-word-game/domain"
)

type TaskKind string

const (
	TaskCategory TaskKind = "category"
	TaskReveal   TaskKind = "reveal"
	TaskClue     TaskKind = "clue"
	TaskBallot   TaskKind = "ballot"
	TaskVote     TaskKind = "vote"
	TaskGuess    TaskKind = "guess"
)

const (
	RevealDelay = 500 * time.Millisecond
	ClueDelay   = 3 * time.Second
	VoteDelay   = 1500 * time.Millisecond
	GuessDelay  = 1500 * time.Millisecond
)

// Task is work the session is waiting on that no human will do: an AI player's move or an
// AI category. It is only valid for the epoch it was created at.
type Task struct {
	Kind     TaskKind
	PlayerID string
	Delay    time.Duration
	Epoch    uint64
}

// PendingTask returns the automatic move the current state is waiting for, if any.
func (s *Session) PendingTask() (Task, bool) {
	t := Task{Epoch: s.epoch}
	switch s.phase {
	case domain.PhaseRules:
		if !s.generating {
			return Task{}, false
		}
		t.Kind = TaskCategory
	case domain.PhaseRevealTransition, domain.PhaseReveal:
		if !s.revealer().IsAI {
			return Task{}, false
		}
		t.Kind, t.PlayerID, t.Delay = TaskReveal, s.revealer().ID, RevealDelay
	case domain.PhaseClue:
		if !s.clueGiver().IsAI {
			return Task{}, false
		}
		t.Kind, t.PlayerID, t.Delay = TaskClue, s.clueGiver().ID, ClueDelay
	case domain.PhaseVoting:
		switch {
		case !s.votingOpen && s.allAI():
			t.Kind, t.Delay = TaskBallot, VoteDelay
		case s.votingOpen && s.voter().IsAI:
			t.Kind, t.PlayerID, t.Delay = TaskVote, s.voter().ID, VoteDelay
		default:
			return Task{}, false
		}
	case domain.PhaseResolution:
		if s.requireGuess() != nil || !s.caught().IsAI {
			return Task{}, false
		}
		t.Kind, t.PlayerID, t.Delay = TaskGuess, s.caughtID, GuessDelay
	default:
		return Task{}, false
	}
	return t, true
}

// CategoryTheme returns the theme and language of the category generation in progress.
func (s *Session) CategoryTheme() (string, domain.Language) {
	return s.theme, s.pendingRules.Language
}

// ClueRequest describes what the current AI clue-giver is allowed to know.
func (s *Session) ClueRequest() domain.ClueRequest {
	giver := s.clueGiver()
	req := domain.ClueRequest{
		PlayerName:   giver.Name,
		Role:         giver.Role,
		CategoryName: s.config.CategoryName,
		Words:        slices.Clone(s.config.Words),
		Clues:        slices.Clone(s.clues),
		Language:     s.config.Language,
		Difficulty:   s.config.AIDifficulty,
	}
	if giver.Role == domain.RoleImposter {
		if s.rules.HardMode {
			req.CategoryName = ""
		}
	} else {
		req.SecretWord = s.config.SecretWord
	}
	return req
}

func (s *Session) GuessRequest() domain.GuessRequest {
	req := domain.GuessRequest{
		CategoryName: s.config.CategoryName,
		Words:        slices.Clone(s.config.Words),
		Clues:        slices.Clone(s.clues),
		Language:     s.config.Language,
		Difficulty:   s.config.AIDifficulty,
	}
	if s.rules.HardMode {
		req.CategoryName = ""
	}
	return req
}

// CompleteAIClue submits the AI's clue for playerID, replacing it with a local one when it
// is missing, malformed or would give the secret word away.
func (s *Session) CompleteAIClue(playerID, text string, genErr error) (fallback bool, err error) {
	if err := s.requirePhase(domain.PhaseClue); err != nil {
		return false, err
	}
	giver := s.clueGiver()
	clue, ok := "", false
	if genErr == nil {
		clue, ok = usableAIClue(text, giver.Role, s.config.SecretWord)
	}
	if !ok {
		clue = FallbackClue(giver.Role, s.config.Words, s.config.SecretWord, s.rng)
	}
	return !ok, s.submitAIClue(playerID, clue)
}

// CompleteAIGuess submits the AI imposter's guess, or a random word when genErr is set.
func (s *Session) CompleteAIGuess(playerID, word string, genErr error) error {
	if genErr != nil {
		word = ""
	}
	return s.submitAIGuess(playerID, word)
}

// RunTask performs a task that needs no AI service call.
func (s *Session) RunTask(t Task) error {
	if t.Epoch != s.epoch {
		return domain.ErrStaleAction
	}
	switch t.Kind {
	case TaskReveal:
		return s.advanceAIReveal(t.PlayerID)
	case TaskBallot:
		return s.openBallotForAI()
	case TaskVote:
		return s.castAIVote(t.PlayerID)
	}
	return domain.ErrUnknownAction
}
